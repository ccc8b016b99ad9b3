package medicalOrder

import (
	"context"

	"github.com/looplab/fsm"
	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/tool"
)

const EntityName = "medicalOrder"

// 事件
const (
	EventExecute  = "execute"
	EventComplete = "complete"
	EventAbnormal = "abnormal"
)

var open = []string{string(StatusPending), string(StatusInProgress)}

// 状态流转 | 执行不改变本地状态,由后端推进到执行中
var events = fsm.Events{
	{Name: EventExecute, Src: []string{string(StatusPending)}, Dst: string(StatusPending)},
	{Name: EventExecute, Src: []string{string(StatusInProgress)}, Dst: string(StatusInProgress)},
	{Name: EventComplete, Src: open, Dst: string(StatusCompleted)},
	{Name: EventAbnormal, Src: open, Dst: string(StatusAbnormal)},
}

// 业务模型实体
type MedicalOrderEntity struct {
	mediflow.BaseEntity[MedicalOrderEntity]
	MedicalOrder
}

// 实例化实体业务模型
func NewMedicalOrderEntity(data *MedicalOrder, opts ...mediflow.Option[MedicalOrderEntity]) (*MedicalOrderEntity, error) {
	entity := &MedicalOrderEntity{}
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

// SetData 设置后端数据
func (m *MedicalOrderEntity) SetData(data *MedicalOrder) error {
	if err := tool.Copy(&m.MedicalOrder, data); err != nil {
		return err
	}
	m.Repair()
	return nil
}

// Repair 数据修复
func (m *MedicalOrderEntity) Repair() {
	if m.OrderStatus == "" {
		m.OrderStatus = StatusPending
	}
}

// EventCallBack 事件回调
func (m *MedicalOrderEntity) EventCallBack(_ context.Context, e *fsm.Event) {
	m.OrderStatus = Status(e.Dst)
}

func (m *MedicalOrderEntity) Actions() []string {
	return m.AvailableEvents(string(m.OrderStatus))
}

// Closed 已完成或异常
func (m *MedicalOrderEntity) Closed() bool {
	return m.IsTerminal(string(m.OrderStatus))
}

// Execute 新增执行记录
func (m *MedicalOrderEntity) Execute(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.OrderStatus), EventExecute, "执行医嘱", remote)
}

// Complete 完成医嘱
func (m *MedicalOrderEntity) Complete(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.OrderStatus), EventComplete, "完成医嘱", remote)
}

// MarkAbnormal 标记异常
func (m *MedicalOrderEntity) MarkAbnormal(ctx context.Context, remote mediflow.EventCallback) error {
	return m.EventExecution(ctx, string(m.OrderStatus), EventAbnormal, "标记异常", remote)
}
