package registration

import (
	"context"
	"fmt"
	"strings"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/tool"
)

const requestPath = "/admin/registration-requests"

// Client 管理员审核注册申请
type Client struct {
	gw        *gateway.Client
	confirmer mediflow.Confirmer
	entityOpt []mediflow.Option[RegistrationEntity]
}

type Option func(*Client)

func WithConfirmer(confirmer mediflow.Confirmer) Option {
	return func(c *Client) {
		c.confirmer = confirmer
	}
}

func WithRecordLogFunc(fn mediflow.RecordLogFunc) Option {
	return func(c *Client) {
		c.entityOpt = append(c.entityOpt, mediflow.WithRecordLogFunc[RegistrationEntity](fn))
	}
}

func NewClient(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw}
	for _, fc := range opts {
		fc(c)
	}
	c.entityOpt = append([]mediflow.Option[RegistrationEntity]{mediflow.WithLogger[RegistrationEntity](gw.Logger())}, c.entityOpt...)
	return c
}

// List 默认只查待审核
func (c *Client) List(ctx context.Context, status Status) ([]*RegistrationEntity, error) {
	if status == "" {
		status = StatusPending
	}
	var list []*Registration
	if err := c.gw.Get(ctx, requestPath, map[string]string{"status": string(status)}, &list); err != nil {
		return nil, err
	}
	res := make([]*RegistrationEntity, 0, len(list))
	for _, item := range list {
		entity, err := NewRegistrationEntity(item, c.entityOpt...)
		if err != nil {
			return nil, err
		}
		res = append(res, entity)
	}
	return res, nil
}

// Approve 通过后申请人可以登录
func (c *Client) Approve(ctx context.Context, m *RegistrationEntity) error {
	err := m.Approve(ctx, func(ctx context.Context) error {
		content := fmt.Sprintf("确认通过[%s]的注册申请，角色[%s]？", m.RealName, m.AppliedRole.DisplayName())
		if err := mediflow.Confirm(ctx, c.confirmer, "通过申请", content); err != nil {
			return err
		}
		return c.gw.Post(ctx, fmt.Sprintf("%s/%d/approve", requestPath, m.Id), nil, nil)
	})
	if err == nil {
		c.gw.Notifier().Notify(gateway.LevelSuccess, "已通过注册申请")
	}
	return c.gw.Surface(err)
}

// Reject 拒绝原因必填
func (c *Client) Reject(ctx context.Context, m *RegistrationEntity, reason string) error {
	form := &RejectForm{RejectReason: strings.TrimSpace(reason)}
	err := m.Reject(ctx, func(ctx context.Context) error {
		if fields := tool.Validate(form); len(fields) > 0 {
			return gateway.NewValidationError(fields)
		}
		if err := mediflow.Confirm(ctx, c.confirmer, "拒绝申请", fmt.Sprintf("确认拒绝[%s]的注册申请？", m.RealName)); err != nil {
			return err
		}
		return c.gw.Post(ctx, fmt.Sprintf("%s/%d/reject", requestPath, m.Id), form, nil)
	})
	if err == nil {
		m.RejectReason = form.RejectReason
		c.gw.Notifier().Notify(gateway.LevelSuccess, "已拒绝注册申请")
	}
	return c.gw.Surface(err)
}
