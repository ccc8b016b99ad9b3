package appointment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/tool"
	"go.uber.org/zap"
)

const basePath = "/business/appointments"

// Client 预约生命周期
type Client struct {
	gw        *gateway.Client
	confirmer mediflow.Confirmer
	now       func() time.Time
	entityOpt []mediflow.Option[AppointmentEntity]
}

type Option func(*Client)

func WithConfirmer(confirmer mediflow.Confirmer) Option {
	return func(c *Client) {
		c.confirmer = confirmer
	}
}

// WithClock 注入当前时间
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func WithRecordLogFunc(fn mediflow.RecordLogFunc) Option {
	return func(c *Client) {
		c.entityOpt = append(c.entityOpt, mediflow.WithRecordLogFunc[AppointmentEntity](fn))
	}
}

func NewClient(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw, now: time.Now}
	for _, fc := range opts {
		fc(c)
	}
	c.entityOpt = append([]mediflow.Option[AppointmentEntity]{mediflow.WithLogger[AppointmentEntity](gw.Logger())}, c.entityOpt...)
	return c
}

// NewEntity 使用客户端的日志配置创建实体
func (c *Client) NewEntity(data *Appointment) (*AppointmentEntity, error) {
	return NewAppointmentEntity(data, c.entityOpt...)
}

// Create 新增预约
func (c *Client) Create(ctx context.Context, form *CreateAppointment) (*AppointmentEntity, error) {
	appointmentTime, err := c.validateSchedule(form.Date, form.Clock, form)
	if err != nil {
		return nil, c.gw.Surface(err)
	}

	req := createRequest{
		CustomerId:         form.CustomerId,
		AppointmentTime:    appointmentTime,
		AppointmentPurpose: strings.TrimSpace(form.Purpose),
	}
	var data Appointment
	if err := c.gw.Post(ctx, basePath, req, &data); err != nil {
		return nil, err
	}

	// 后端未返回数据时按请求补全
	if data.CustomerId == 0 {
		data.CustomerId = req.CustomerId
		data.AppointmentTime = req.AppointmentTime
		data.AppointmentPurpose = req.AppointmentPurpose
	}
	return c.NewEntity(&data)
}

// Get 预约详情
func (c *Client) Get(ctx context.Context, id uint64) (*AppointmentEntity, error) {
	var data Appointment
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), nil, &data); err != nil {
		return nil, err
	}
	return c.NewEntity(&data)
}

// List 按筛选条件查询,结果按预约时间升序
func (c *Client) List(ctx context.Context, filter Filter) ([]*AppointmentEntity, error) {
	now := c.now()
	var list []*Appointment
	if err := c.gw.Get(ctx, basePath, filter.Params(now), &list); err != nil {
		return nil, err
	}
	res := make([]*AppointmentEntity, 0, len(list))
	for _, item := range list {
		entity, err := c.NewEntity(item)
		if err != nil {
			return nil, err
		}
		if filter.Match(&entity.Appointment, now) {
			res = append(res, entity)
		}
	}
	SortByTime(res)
	return res, nil
}

// ListByCustomer 客户的全部预约
func (c *Client) ListByCustomer(ctx context.Context, customerId uint64) ([]*AppointmentEntity, error) {
	var list []*Appointment
	path := "/business/customers/" + strconv.FormatUint(customerId, 10) + "/appointments"
	if err := c.gw.Get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	res := make([]*AppointmentEntity, 0, len(list))
	for _, item := range list {
		entity, err := c.NewEntity(item)
		if err != nil {
			return nil, err
		}
		res = append(res, entity)
	}
	SortByTime(res)
	return res, nil
}

// Update 修改预约,仅已预约状态可以修改
func (c *Client) Update(ctx context.Context, m *AppointmentEntity, form *UpdateAppointment) error {
	err := m.Update(ctx, func(ctx context.Context) error {
		appointmentTime, err := c.validateSchedule(form.Date, form.Clock, form)
		if err != nil {
			return err
		}
		req := updateRequest{
			AppointmentTime:    appointmentTime,
			AppointmentPurpose: strings.TrimSpace(form.Purpose),
			Notes:              strings.TrimSpace(form.Notes),
		}
		var data Appointment
		if err := c.gw.Put(ctx, fmt.Sprintf("%s/%d", basePath, m.Id), req, &data); err != nil {
			return err
		}
		m.AppointmentTime = req.AppointmentTime
		m.AppointmentPurpose = req.AppointmentPurpose
		m.Notes = req.Notes
		return nil
	})
	return c.gw.Surface(err)
}

// Complete 完成预约
func (c *Client) Complete(ctx context.Context, m *AppointmentEntity) error {
	err := m.Complete(ctx, func(ctx context.Context) error {
		if err := mediflow.Confirm(ctx, c.confirmer, "确认完成", "确认该预约已完成？"); err != nil {
			return err
		}
		return c.gw.Post(ctx, fmt.Sprintf("%s/%d/complete", basePath, m.Id), nil, nil)
	})
	if err == nil {
		c.gw.Notifier().Notify(gateway.LevelSuccess, "预约已完成")
	}
	return c.gw.Surface(err)
}

// Cancel 取消预约(后端以DELETE表示取消,预约不会被删除)
func (c *Client) Cancel(ctx context.Context, m *AppointmentEntity) error {
	err := m.Cancel(ctx, func(ctx context.Context) error {
		if err := mediflow.Confirm(ctx, c.confirmer, "确认取消", "确定要取消该预约吗？"); err != nil {
			return err
		}
		return c.gw.Delete(ctx, fmt.Sprintf("%s/%d", basePath, m.Id), nil)
	})
	if err == nil {
		c.gw.Notifier().Notify(gateway.LevelSuccess, "预约已取消")
	}
	return c.gw.Surface(err)
}

// Export 导出预约列表
func (c *Client) Export(path string, list []*AppointmentEntity) error {
	now := c.now()
	headers := []string{"ID", "客户ID", "客户姓名", "预约时间", "预约事项", "备注", "状态", "是否逾期"}
	rows := make([][]any, 0, len(list))
	for _, item := range list {
		var row exportRow
		if err := tool.Copy(&row, &item.Appointment); err != nil {
			return err
		}
		overdue := ""
		if item.IsOverdue(now) {
			overdue = "已逾期"
		}
		rows = append(rows, []any{
			row.Id, row.CustomerId, row.CustomerName, row.AppointmentTime,
			row.AppointmentPurpose, row.Notes, Status(row.AppointmentStatus).DisplayName(), overdue,
		})
	}
	if err := tool.WriteSheet(path, "预约", headers, rows); err != nil {
		return err
	}
	c.gw.Logger().Info("appointments exported", zap.String("path", path), zap.Int("count", len(rows)))
	return nil
}

// validateSchedule 校验表单并组合预约时间,日期不能早于今天
func (c *Client) validateSchedule(date, clock string, form any) (db.LocalTime, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return db.LocalTime{}, gateway.NewValidationError(fields)
	}
	appointmentTime, err := db.CombineDateClock(date, clock)
	if err != nil {
		return db.LocalTime{}, gateway.ValidationMessage("appointmentTime", "%s", err.Error())
	}
	today := c.now().In(time.Local)
	if !appointmentTime.SameDay(today) && appointmentTime.Before(today) {
		return db.LocalTime{}, gateway.ValidationMessage("date", "预约日期[%s]不能早于今天", date)
	}
	return appointmentTime, nil
}
