package appointment

import (
	"context"

	"github.com/looplab/fsm"
	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/tool"
)

const EntityName = "appointment"

// 事件
const (
	EventUpdate   = "update"
	EventComplete = "complete"
	EventCancel   = "cancel"
)

// 状态流转 | 已完成、已取消为终态
var events = fsm.Events{
	{Name: EventUpdate, Src: []string{string(StatusScheduled)}, Dst: string(StatusScheduled)},
	{Name: EventComplete, Src: []string{string(StatusScheduled)}, Dst: string(StatusCompleted)},
	{Name: EventCancel, Src: []string{string(StatusScheduled)}, Dst: string(StatusCancelled)},
}

// 业务模型实体
type AppointmentEntity struct {
	mediflow.BaseEntity[AppointmentEntity]
	Appointment
}

// 实例化实体业务模型
func NewAppointmentEntity(data *Appointment, opts ...mediflow.Option[AppointmentEntity]) (*AppointmentEntity, error) {
	entity := &AppointmentEntity{}
	entity.BaseEntity = mediflow.NewBaseEntity(
		EntityName,
		entity,
		string(StatusScheduled),
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

// SetData 设置后端数据
func (m *AppointmentEntity) SetData(data *Appointment) error {
	if err := tool.Copy(&m.Appointment, data); err != nil {
		return err
	}
	m.Repair()
	return nil
}

// Repair 数据修复
func (m *AppointmentEntity) Repair() {
	// 新建的预约后端可能不返回状态
	if m.AppointmentStatus == "" {
		m.AppointmentStatus = StatusScheduled
	}
}

// EventCallBack 事件回调
func (m *AppointmentEntity) EventCallBack(_ context.Context, e *fsm.Event) {
	m.AppointmentStatus = Status(e.Dst)
}

// Actions 当前可执行的操作
func (m *AppointmentEntity) Actions() []string {
	return m.AvailableEvents(string(m.AppointmentStatus))
}

// Closed 是否已结束
func (m *AppointmentEntity) Closed() bool {
	return m.IsTerminal(string(m.AppointmentStatus))
}

// Update 修改预约
func (m *AppointmentEntity) Update(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.AppointmentStatus), EventUpdate, "修改预约", remote)
}

// Complete 完成预约
func (m *AppointmentEntity) Complete(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.AppointmentStatus), EventComplete, "完成预约", remote)
}

// Cancel 取消预约
func (m *AppointmentEntity) Cancel(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.AppointmentStatus), EventCancel, "取消预约", remote)
}
