package registration

import (
	"context"
	"testing"
	"time"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ts     *mockBackend.TestServer
	rec    *gateway.Recorder
	client *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ts := mockBackend.NewTestServer(t, time.Now)
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), ts.Token(t, "admin"), session.Profile{Username: "admin", Role: router.RoleBusinessAdmin}))
	rec := &gateway.Recorder{}
	gw := gateway.New(ts.BaseURL(), gateway.WithTokenSource(store), gateway.WithNotifier(rec))
	return &fixture{ts: ts, rec: rec, client: NewClient(gw, WithConfirmer(mediflow.AutoConfirm()))}
}

// apply 直接写入一条待审核申请
func (f *fixture) apply(t *testing.T, username string, role router.Role) {
	t.Helper()
	hash, err := mockBackend.HashPassword("Passw0rd1")
	require.NoError(t, err)
	require.NoError(t, f.ts.Store().Registrations.Insert(&mockBackend.Registration{
		Username: username, PasswordHash: hash, RealName: "申请人" + username, Phone: "13700000000",
		AppliedRole: role, Status: mockBackend.RegistrationPending,
	}))
}

func TestEntityTransitions(t *testing.T) {
	tests := []struct {
		status Status
		event  string
		can    bool
	}{
		{status: StatusPending, event: EventApprove, can: true},
		{status: StatusPending, event: EventReject, can: true},
		{status: StatusApproved, event: EventReject, can: false},
		{status: StatusRejected, event: EventApprove, can: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status)+"/"+tt.event, func(t *testing.T) {
			m, err := NewRegistrationEntity(&Registration{Id: 1, Status: tt.status})
			require.NoError(t, err)
			assert.Equal(t, tt.can, m.Can(string(tt.status), tt.event))
		})
	}

	m, err := NewRegistrationEntity(&Registration{Id: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, m.Status)
	assert.False(t, m.Reviewed())
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	f.apply(t, "nurse_li", router.RoleNurse)
	ctx := context.Background()

	list, err := f.client.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	m := list[0]

	require.NoError(t, f.client.Approve(ctx, m))
	assert.Equal(t, StatusApproved, m.Status)
	assert.True(t, m.Reviewed())
	assert.Equal(t, []string{"已通过注册申请"}, f.rec.Messages(gateway.LevelSuccess))

	user, err := mockBackend.First(f.ts.Store().Users, func(u *mockBackend.User) bool { return u.Username == "nurse_li" })
	require.NoError(t, err)
	assert.Equal(t, router.RoleNurse, user.Role)

	// 已审核的申请本地拒绝
	before := f.ts.Requests()
	assert.ErrorIs(t, f.client.Reject(ctx, m, "重复"), mediflow.ErrInvalidTransition)
	assert.Equal(t, before, f.ts.Requests())

	pending, err := f.client.List(ctx, StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
	all, err := f.client.List(ctx, StatusAll)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	f.apply(t, "doc_li", router.RoleDoctor)
	ctx := context.Background()

	list, err := f.client.List(ctx, StatusPending)
	require.NoError(t, err)
	m := list[0]

	before := f.ts.Requests()
	err = f.client.Reject(ctx, m, "  ")
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
	assert.Equal(t, "请填写拒绝原因", err.Error())
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, before, f.ts.Requests())

	require.NoError(t, f.client.Reject(ctx, m, "资质材料不全"))
	assert.Equal(t, StatusRejected, m.Status)
	assert.Equal(t, "资质材料不全", m.RejectReason)

	rejected, err := f.client.List(ctx, StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "资质材料不全", rejected[0].RejectReason)
}

// 用户名已被占用时由后端拒绝,本地状态不变
func TestApproveDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.apply(t, "doctor", router.RoleDoctor)

	list, err := f.client.List(context.Background(), "")
	require.NoError(t, err)
	m := list[0]

	err = f.client.Approve(context.Background(), m)
	assert.True(t, gateway.IsKind(err, gateway.KindEnvelope))
	assert.Equal(t, "用户名已存在", err.Error())
	assert.Equal(t, StatusPending, m.Status)
}
