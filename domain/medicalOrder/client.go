package medicalOrder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/tool"
	"go.uber.org/zap"
)

const (
	nursePath  = "/nurse/medical-orders"
	doctorPath = "/doctor/medical-records"
)

var ErrDoctorOnly = errors.New("只有医生可以发送医嘱")

// RoleSource 当前登录角色
type RoleSource interface {
	Role() router.Role
}

// Client 医嘱生命周期
type Client struct {
	gw        *gateway.Client
	confirmer mediflow.Confirmer
	roles     RoleSource
	entityOpt []mediflow.Option[MedicalOrderEntity]

	// 已发送医嘱的病历,防止重复提交
	sent sync.Map
}

type Option func(*Client)

func WithConfirmer(confirmer mediflow.Confirmer) Option {
	return func(c *Client) {
		c.confirmer = confirmer
	}
}

// WithRoleSource 发送医嘱前校验医生角色
func WithRoleSource(roles RoleSource) Option {
	return func(c *Client) {
		c.roles = roles
	}
}

func WithRecordLogFunc(fn mediflow.RecordLogFunc) Option {
	return func(c *Client) {
		c.entityOpt = append(c.entityOpt, mediflow.WithRecordLogFunc[MedicalOrderEntity](fn))
	}
}

func NewClient(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw}
	for _, fc := range opts {
		fc(c)
	}
	c.entityOpt = append([]mediflow.Option[MedicalOrderEntity]{mediflow.WithLogger[MedicalOrderEntity](gw.Logger())}, c.entityOpt...)
	return c
}

func (c *Client) NewEntity(data *MedicalOrder) (*MedicalOrderEntity, error) {
	return NewMedicalOrderEntity(data, c.entityOpt...)
}

// SendOrder 医生发送医嘱,发送后无法撤回
func (c *Client) SendOrder(ctx context.Context, recordId uint64) (*MedicalOrderEntity, error) {
	if c.roles != nil && c.roles.Role() != router.RoleDoctor {
		return nil, c.gw.Surface(ErrDoctorOnly)
	}
	if _, loaded := c.sent.LoadOrStore(recordId, struct{}{}); loaded {
		return nil, c.gw.Surface(&mediflow.TransitionError{
			Entity:      "medicalRecord",
			Id:          recordId,
			Status:      "SENT",
			Event:       "send-order",
			EventZhName: "发送医嘱",
		})
	}

	order, err := c.sendOrder(ctx, recordId)
	if err != nil {
		c.sent.Delete(recordId)
		return nil, c.gw.Surface(err)
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "医嘱已发送至护士工作台")
	return order, nil
}

func (c *Client) sendOrder(ctx context.Context, recordId uint64) (*MedicalOrderEntity, error) {
	if err := mediflow.Confirm(ctx, c.confirmer, "确认发送医嘱", "医嘱发送后将推送到护士工作台，无法撤回"); err != nil {
		return nil, err
	}
	var data MedicalOrder
	if err := c.gw.Post(ctx, fmt.Sprintf("%s/%d/send-order", doctorPath, recordId), nil, &data); err != nil {
		return nil, err
	}
	if data.MedicalRecordId == 0 {
		data.MedicalRecordId = recordId
	}
	return c.NewEntity(&data)
}

// ListPending 护士待处理医嘱:未完成且未异常
func (c *Client) ListPending(ctx context.Context) ([]*MedicalOrderEntity, error) {
	var list []*MedicalOrder
	if err := c.gw.Get(ctx, nursePath, nil, &list); err != nil {
		return nil, err
	}
	res := make([]*MedicalOrderEntity, 0, len(list))
	for _, item := range list {
		entity, err := c.NewEntity(item)
		if err != nil {
			return nil, err
		}
		if !entity.Closed() {
			res = append(res, entity)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].SentAt.ToTime().Before(res[j].SentAt.ToTime())
	})
	return res, nil
}

func (c *Client) Get(ctx context.Context, id uint64) (*MedicalOrderEntity, error) {
	var data MedicalOrder
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d", nursePath, id), nil, &data); err != nil {
		return nil, err
	}
	return c.NewEntity(&data)
}

// Execute 新增执行记录,完成后重新读取医嘱状态
func (c *Client) Execute(ctx context.Context, m *MedicalOrderEntity, form *CreateExecution) (*ExecutionRecord, error) {
	var record ExecutionRecord
	err := m.Execute(ctx, func(ctx context.Context) error {
		if fields := tool.Validate(form); len(fields) > 0 {
			return gateway.NewValidationError(fields)
		}
		var req executeRequest
		if err := tool.Copy(&req, form); err != nil {
			return err
		}
		req.ExecutionContent = strings.TrimSpace(req.ExecutionContent)
		req.AbnormalDescription = strings.TrimSpace(req.AbnormalDescription)
		req.PatientReaction = strings.TrimSpace(req.PatientReaction)
		return c.gw.Post(ctx, fmt.Sprintf("%s/%d/execute", nursePath, m.Id), req, &record)
	})
	if err != nil {
		return nil, c.gw.Surface(err)
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "执行记录已保存")

	// 执行记录只增不改,刷新失败不能让调用方重试
	fresh, err := c.Get(ctx, m.Id)
	if err == nil {
		err = m.SetData(&fresh.MedicalOrder)
	}
	if err != nil {
		c.gw.Logger().Warn("refresh medical order failed", zap.Uint64("id", m.Id), zap.Error(err))
		c.gw.Notifier().Notify(gateway.LevelWarning, "执行记录已保存，医嘱状态刷新失败，请重新查询")
	}
	return &record, nil
}

// Complete 完成医嘱
func (c *Client) Complete(ctx context.Context, m *MedicalOrderEntity) error {
	err := m.Complete(ctx, func(ctx context.Context) error {
		if err := mediflow.Confirm(ctx, c.confirmer, "确认完成", "确认该医嘱已全部执行完成？"); err != nil {
			return err
		}
		return c.gw.Post(ctx, fmt.Sprintf("%s/%d/complete", nursePath, m.Id), nil, nil)
	})
	if err == nil {
		c.gw.Notifier().Notify(gateway.LevelSuccess, "医嘱已完成")
	}
	return c.gw.Surface(err)
}

// MarkAbnormal 标记异常
func (c *Client) MarkAbnormal(ctx context.Context, m *MedicalOrderEntity) error {
	err := m.MarkAbnormal(ctx, func(ctx context.Context) error {
		if err := mediflow.Confirm(ctx, c.confirmer, "标记异常", "确认将该医嘱标记为异常？"); err != nil {
			return err
		}
		return c.gw.Post(ctx, fmt.Sprintf("%s/%d/abnormal", nursePath, m.Id), nil, nil)
	})
	if err == nil {
		c.gw.Notifier().Notify(gateway.LevelWarning, "医嘱已标记异常")
	}
	return c.gw.Surface(err)
}

// ListExecutions 执行记录
func (c *Client) ListExecutions(ctx context.Context, orderId uint64) ([]*ExecutionRecord, error) {
	var list []*ExecutionRecord
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d/executions", nursePath, orderId), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Export 导出医嘱列表
func (c *Client) Export(path string, list []*MedicalOrderEntity) error {
	headers := []string{"ID", "患者ID", "患者姓名", "病历ID", "状态", "发送时间"}
	rows := make([][]any, 0, len(list))
	for _, item := range list {
		var row exportRow
		if err := tool.Copy(&row, &item.MedicalOrder); err != nil {
			return err
		}
		rows = append(rows, []any{
			row.Id, row.CustomerId, row.CustomerName, row.MedicalRecordId,
			Status(row.OrderStatus).DisplayName(), row.SentAt,
		})
	}
	if err := tool.WriteSheet(path, "医嘱", headers, rows); err != nil {
		return err
	}
	c.gw.Logger().Info("medical orders exported", zap.String("path", path), zap.Int("count", len(rows)))
	return nil
}
