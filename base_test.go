package mediflow

import (
	"context"
	"errors"
	"testing"

	"github.com/looplab/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用的简单票据实体
type ticket struct {
	BaseEntity[ticket]
	Id     uint64
	Status string
}

func (t *ticket) GetId() uint64 { return t.Id }

func newTicket(status string, opts ...Option[ticket]) *ticket {
	entity := &ticket{Id: 7, Status: status}
	events := fsm.Events{
		{Name: "touch", Src: []string{"OPEN"}, Dst: "OPEN"},
		{Name: "close", Src: []string{"OPEN"}, Dst: "CLOSED"},
	}
	callbacks := fsm.Callbacks{
		"after_event": func(_ context.Context, e *fsm.Event) {
			entity.Status = e.Dst
		},
	}
	entity.BaseEntity = NewBaseEntity("ticket", entity, "OPEN", events, callbacks, opts...)
	return entity
}

func TestEventExecution(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		event      string
		remoteErr  error
		wantErr    error
		wantStatus string
		wantCalled bool
	}{
		{name: "allowed", status: "OPEN", event: "close", wantStatus: "CLOSED", wantCalled: true},
		{name: "self loop", status: "OPEN", event: "touch", wantStatus: "OPEN", wantCalled: true},
		{name: "terminal rejected before remote", status: "CLOSED", event: "close", wantErr: ErrInvalidTransition, wantStatus: "CLOSED"},
		{name: "remote failure keeps state", status: "OPEN", event: "close", remoteErr: errors.New("boom"), wantStatus: "OPEN", wantCalled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := newTicket(tt.status)
			called := false
			err := entity.EventExecution(context.Background(), entity.Status, tt.event, tt.event, func(context.Context) error {
				called = true
				return tt.remoteErr
			})
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.remoteErr != nil:
				assert.Equal(t, tt.remoteErr, err)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantStatus, entity.Status)
		})
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	entity := newTicket("CLOSED")
	err := entity.EventExecution(context.Background(), entity.Status, "close", "关闭")

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, uint64(7), te.Id)
	assert.Equal(t, "业务实体[ticket]当前状态[CLOSED],不允许执行事件[关闭]", te.Error())
}

func TestAvailableEvents(t *testing.T) {
	entity := newTicket("OPEN")
	assert.Equal(t, []string{"close", "touch"}, entity.AvailableEvents("OPEN"))
	assert.True(t, entity.IsTerminal("CLOSED"))
	assert.False(t, entity.Can("CLOSED", "close"))
	assert.True(t, entity.Can("OPEN", "close"))
}

func TestRecordLogFunc(t *testing.T) {
	var got []string
	entity := newTicket("OPEN", WithRecordLogFunc[ticket](func(_ context.Context, name string, id uint64, event, _, src, dst string) {
		got = append(got, name, event, src, dst)
	}))
	require.NoError(t, entity.EventExecution(context.Background(), entity.Status, "close", "关闭"))
	assert.Equal(t, []string{"ticket", "close", "OPEN", "CLOSED"}, got)
}

func TestStateMachineMissing(t *testing.T) {
	entity := &ticket{Status: "OPEN"}
	err := entity.EventExecution(context.Background(), entity.Status, "close", "关闭")
	assert.ErrorIs(t, err, ErrStateMachineMissing)
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Confirm(ctx, AutoConfirm(), "t", "c"))
	assert.ErrorIs(t, Confirm(ctx, nil, "t", "c"), ErrCancelled)

	decline := ConfirmFunc(func(context.Context, string, string) (bool, error) { return false, nil })
	assert.ErrorIs(t, Confirm(ctx, decline, "t", "c"), ErrCancelled)
}
