package customer

import (
	"context"
	"fmt"
	"strings"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/tool"
)

const customerPath = "/business/customers"

// Client 客户、回访和业务订单
type Client struct {
	gw        *gateway.Client
	confirmer mediflow.Confirmer
}

type Option func(*Client)

func WithConfirmer(confirmer mediflow.Confirmer) Option {
	return func(c *Client) {
		c.confirmer = confirmer
	}
}

func NewClient(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw}
	for _, fc := range opts {
		fc(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, search Search) ([]*Customer, error) {
	search.Keyword = strings.TrimSpace(search.Keyword)
	var list []*Customer
	if err := c.gw.Get(ctx, customerPath, search.Params(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Get(ctx context.Context, id uint64) (*Customer, error) {
	var data Customer
	if err := c.gw.Get(ctx, c.path(id), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Create(ctx context.Context, form *Form) (*Customer, error) {
	if err := c.check(form); err != nil {
		return nil, err
	}
	var data Customer
	if err := c.gw.Post(ctx, customerPath, form, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "客户创建成功")
	return &data, nil
}

func (c *Client) Update(ctx context.Context, id uint64, form *Form) (*Customer, error) {
	if err := c.check(form); err != nil {
		return nil, err
	}
	var data Customer
	if err := c.gw.Put(ctx, c.path(id), form, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "客户更新成功")
	return &data, nil
}

// Delete 删除前二次确认
func (c *Client) Delete(ctx context.Context, id uint64) error {
	if err := mediflow.Confirm(ctx, c.confirmer, "确认删除", "删除后无法恢复，确定要删除该客户吗？"); err != nil {
		return c.gw.Surface(err)
	}
	if err := c.gw.Delete(ctx, c.path(id), nil); err != nil {
		return err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "客户已删除")
	return nil
}

// View 客户360视图
func (c *Client) View(ctx context.Context, id uint64) (*View, error) {
	var data View
	if err := c.gw.Get(ctx, c.path(id)+"/360-view", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) FollowUps(ctx context.Context, customerId uint64) ([]*FollowUp, error) {
	var list []*FollowUp
	if err := c.gw.Get(ctx, c.path(customerId)+"/follow-ups", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AddFollowUp(ctx context.Context, customerId uint64, form *FollowUpForm) (*FollowUp, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return nil, c.gw.Surface(gateway.NewValidationError(fields))
	}
	var req followUpRequest
	if err := tool.Copy(&req, form); err != nil {
		return nil, c.gw.Surface(gateway.ValidationMessage("visitTime", "回访时间格式错误"))
	}
	if !req.VisitTime.IsZero() && !req.NextFollowUpTime.IsZero() && !req.VisitTime.Before(req.NextFollowUpTime.ToTime()) {
		return nil, c.gw.Surface(gateway.ValidationMessage("nextFollowUpTime", "下次回访时间必须晚于本次回访时间"))
	}

	var data FollowUp
	if err := c.gw.Post(ctx, c.path(customerId)+"/follow-ups", req, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "回访记录已添加")
	return &data, nil
}

func (c *Client) Orders(ctx context.Context, customerId uint64) ([]*Order, error) {
	var list []*Order
	if err := c.gw.Get(ctx, c.path(customerId)+"/orders", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateOrder(ctx context.Context, customerId uint64, form *OrderForm) (*Order, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return nil, c.gw.Surface(gateway.NewValidationError(fields))
	}
	body := OrderForm{ProductName: strings.TrimSpace(form.ProductName), OrderAmount: form.OrderAmount}
	var data Order
	if err := c.gw.Post(ctx, c.path(customerId)+"/orders", body, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "订单创建成功")
	return &data, nil
}

// ConfirmPayment 确认收款,实付金额为0时按订单金额
func (c *Client) ConfirmPayment(ctx context.Context, order *Order, paidAmount float64) error {
	if order.OrderStatus != PaymentPending {
		return c.gw.Surface(&mediflow.TransitionError{Entity: "businessOrder", Id: order.Id, Status: string(order.OrderStatus), Event: "confirm-payment", EventZhName: "确认收款"})
	}
	if paidAmount < 0 {
		return c.gw.Surface(gateway.ValidationMessage("paidAmount", "实付金额不能为负数"))
	}
	content := fmt.Sprintf("订单[%s]金额%.2f元，确认已收款？", order.OrderNo, order.OrderAmount)
	if err := mediflow.Confirm(ctx, c.confirmer, "确认收款", content); err != nil {
		return c.gw.Surface(err)
	}

	var data Order
	body := map[string]float64{"paidAmount": paidAmount}
	if err := c.gw.Post(ctx, fmt.Sprintf("/business/orders/%d/confirm-payment", order.Id), body, &data); err != nil {
		return err
	}
	*order = data
	c.gw.Notifier().Notify(gateway.LevelSuccess, "收款已确认")
	return nil
}

func (c *Client) check(form *Form) error {
	if fields := tool.Validate(form); len(fields) > 0 {
		return c.gw.Surface(gateway.NewValidationError(fields))
	}
	form.Name = strings.TrimSpace(form.Name)
	return nil
}

func (c *Client) path(id uint64) string {
	return fmt.Sprintf("%s/%d", customerPath, id)
}
