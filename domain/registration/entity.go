package registration

import (
	"context"

	"github.com/looplab/fsm"
	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/tool"
)

const EntityName = "registration"

const (
	EventApprove = "approve"
	EventReject  = "reject"
)

// 审核结果不可更改
var events = fsm.Events{
	{Name: EventApprove, Src: []string{string(StatusPending)}, Dst: string(StatusApproved)},
	{Name: EventReject, Src: []string{string(StatusPending)}, Dst: string(StatusRejected)},
}

type RegistrationEntity struct {
	mediflow.BaseEntity[RegistrationEntity]
	Registration
}

func NewRegistrationEntity(data *Registration, opts ...mediflow.Option[RegistrationEntity]) (*RegistrationEntity, error) {
	entity := &RegistrationEntity{}
	entity.BaseEntity = mediflow.NewBaseEntity(
		EntityName,
		entity,
		string(StatusPending),
		events,
		fsm.Callbacks{"after_event": entity.EventCallBack},
		opts...,
	)
	if data != nil {
		if err := entity.SetData(data); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (m *RegistrationEntity) SetData(data *Registration) error {
	if err := tool.Copy(&m.Registration, data); err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = StatusPending
	}
	return nil
}

func (m *RegistrationEntity) EventCallBack(_ context.Context, e *fsm.Event) {
	m.Status = Status(e.Dst)
}

// Reviewed 是否已审核
func (m *RegistrationEntity) Reviewed() bool {
	return m.IsTerminal(string(m.Status))
}

func (m *RegistrationEntity) Approve(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.Status), EventApprove, "通过注册申请", remote)
}

func (m *RegistrationEntity) Reject(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.Status), EventReject, "拒绝注册申请", remote)
}
