package mediflow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

var (
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrStateMachineMissing = errors.New("状态机未注册,请开发检查")
)

// TransitionError 当前状态不允许执行事件
type TransitionError struct {
	Entity      string // 业务实体
	Id          uint64 // 实体Id
	Status      string // 当前状态
	Event       string // 事件
	EventZhName string // 事件中文名
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("业务实体[%s]当前状态[%s],不允许执行事件[%s]", e.Entity, e.Status, e.EventZhName)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// 底层类型约定
type EventCallback func(ctx context.Context) error
type RecordLogFunc = func(ctx context.Context, entity string, id uint64, event, eventZhName, src, dst string)

// Identifier 实体需要暴露主键用于日志
type Identifier interface {
	GetId() uint64
}

// 生命周期实体基础能力
type BaseEntity[T any] struct {
	EntityName    string        `json:"-" copier:"-"` // 实体名称
	Entity        *T            `json:"-" copier:"-"` // 实体对象
	StatesMachine *fsm.FSM      `json:"-" copier:"-"` // 状态机
	Logger        *zap.Logger   `json:"-" copier:"-"` // 日志
	RecordLogFunc RecordLogFunc `json:"-" copier:"-"` // 记录日志函数
}

// ---------- OPTIONS函数 ----------
type Option[T any] func(*BaseEntity[T])

// WithLogger 注入日志
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(b *BaseEntity[T]) {
		if logger != nil {
			b.Logger = logger
		}
	}
}

// WithRecordLogFunc 注入状态变更日志
func WithRecordLogFunc[T any](fn RecordLogFunc) Option[T] {
	return func(b *BaseEntity[T]) {
		b.RecordLogFunc = fn
	}
}

// NewBaseEntity 初始化实体状态机 | 回调里只能读取e.Dst,不要再调用状态机方法
func NewBaseEntity[T any](entityName string, entity *T, initial string, events fsm.Events, callbacks fsm.Callbacks, opts ...Option[T]) BaseEntity[T] {
	b := BaseEntity[T]{
		EntityName:    entityName,
		Entity:        entity,
		StatesMachine: fsm.NewFSM(initial, events, callbacks),
		Logger:        zap.NewNop(),
	}
	for _, fc := range opts {
		fc(&b)
	}
	return b
}

// Can 当前状态下是否允许执行事件
func (b *BaseEntity[T]) Can(status, event string) bool {
	if b.StatesMachine == nil {
		return false
	}
	b.StatesMachine.SetState(status)
	return b.StatesMachine.Can(event)
}

// AvailableEvents 当前状态下可执行的事件(界面只展示这些操作)
func (b *BaseEntity[T]) AvailableEvents(status string) []string {
	if b.StatesMachine == nil {
		return nil
	}
	b.StatesMachine.SetState(status)
	events := b.StatesMachine.AvailableTransitions()
	sort.Strings(events)
	return events
}

// IsTerminal 终态:没有任何可执行事件
func (b *BaseEntity[T]) IsTerminal(status string) bool {
	return len(b.AvailableEvents(status)) == 0
}

// EventExecution 执行事件
// callbacks[0] 前置回调(确认+远端调用),失败时本地状态不变
// callbacks[1] 后置回调
func (b *BaseEntity[T]) EventExecution(ctx context.Context, initStatus, event, eventZhName string, callbacks ...EventCallback) error {
	// 1.校验状态机是否已注册
	if b.StatesMachine == nil {
		return ErrStateMachineMissing
	}
	if b.Entity == nil {
		return fmt.Errorf("业务实体[%s]为空,需要在实例化时传入,请开发检查", b.EntityName)
	}

	// 2.重新设置初始状态
	b.StatesMachine.SetState(initStatus)

	// 3.校验是否允许执行当前事件
	if !b.StatesMachine.Can(event) {
		return &TransitionError{
			Entity:      b.EntityName,
			Id:          b.entityId(),
			Status:      initStatus,
			Event:       event,
			EventZhName: eventZhName,
		}
	}

	// 4.执行前置回调
	if len(callbacks) >= 1 && callbacks[0] != nil {
		if err := callbacks[0](ctx); err != nil {
			return err
		}
	}

	// 5.执行事件 && 触发钩子函数对实体进行状态修改 | 注意状态没有变化是允许的
	err := b.StatesMachine.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		return fmt.Errorf("业务实体[%s]执行事件[%s]失败[%s]", b.EntityName, eventZhName, err.Error())
	}
	dst := b.StatesMachine.Current()

	// 6.执行后置回调
	if len(callbacks) >= 2 && callbacks[1] != nil {
		if err := callbacks[1](ctx); err != nil {
			return fmt.Errorf("业务实体[%s]执行事件[%s]后置回调失败: %w", b.EntityName, eventZhName, err)
		}
	}

	// 7.记录操作日志
	b.RecordLog(ctx, event, eventZhName, initStatus, dst)
	return nil
}

// RecordLog 记录状态变更
func (b *BaseEntity[T]) RecordLog(ctx context.Context, event, eventZhName, src, dst string) {
	id := b.entityId()
	if b.Logger != nil {
		b.Logger.Info("state transition",
			zap.String("entity", b.EntityName),
			zap.Uint64("id", id),
			zap.String("event", event),
			zap.String("src", src),
			zap.String("dst", dst),
		)
	}
	if b.RecordLogFunc != nil {
		b.RecordLogFunc(ctx, b.EntityName, id, event, eventZhName, src, dst)
	}
}

func (b *BaseEntity[T]) entityId() uint64 {
	if idf, ok := any(b.Entity).(Identifier); ok {
		return idf.GetId()
	}
	return 0
}
