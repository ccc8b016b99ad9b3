package patient

import (
	"context"
	"testing"
	"time"

	"github.com/sgzs6721/mediflow-front/domain/customer"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ts  *mockBackend.TestServer
	rec *gateway.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{ts: mockBackend.NewTestServer(t, time.Now), rec: &gateway.Recorder{}}
}

func (f *fixture) client(t *testing.T, username string, role router.Role) *Client {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), f.ts.Token(t, username), session.Profile{Username: username, Role: role}))
	return NewClient(gateway.New(f.ts.BaseURL(), gateway.WithTokenSource(store), gateway.WithNotifier(f.rec)))
}

func TestAssignAndQueue(t *testing.T) {
	f := newFixture(t)
	nurse := f.client(t, "nurse", router.RoleNurse)
	doctor := f.client(t, "doctor", router.RoleDoctor)
	ctx := context.Background()

	waiting, err := nurse.Waiting(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "林二", waiting[0].Name)

	doctors, err := nurse.Doctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "张医生", doctors[0].RealName)

	queue, err := doctor.Queue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)

	p, err := nurse.AssignDoctor(ctx, waiting[0].Id, doctors[0].Id)
	require.NoError(t, err)
	assert.Equal(t, doctors[0].Id, p.AssignedDoctorId)
	assert.Equal(t, []string{"医生分配成功"}, f.rec.Messages(gateway.LevelSuccess))

	waiting, err = nurse.Waiting(ctx)
	require.NoError(t, err)
	assert.Empty(t, waiting)

	queue, err = doctor.Queue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, customer.StatusPatient, queue[0].CustomerStatus)

	mine, err := doctor.Mine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	detail, err := doctor.Detail(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, "林二", detail.Name)
}

func TestAssignRejected(t *testing.T) {
	f := newFixture(t)
	nurse := f.client(t, "nurse", router.RoleNurse)
	ctx := context.Background()

	tests := []struct {
		name      string
		patientId uint64
		doctorId  uint64
		kind      gateway.Kind
		message   string
	}{
		{name: "no doctor", patientId: 2, doctorId: 0, kind: gateway.KindValidation, message: "请选择医生"},
		{name: "nurse is not a doctor", patientId: 2, doctorId: 4, kind: gateway.KindEnvelope, message: "医生不存在"},
		{name: "lead customer", patientId: 1, doctorId: 3, kind: gateway.KindEnvelope, message: "患者当前状态[LEAD]不能分配医生"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := nurse.AssignDoctor(ctx, tt.patientId, tt.doctorId)
			require.Error(t, err)
			assert.True(t, gateway.IsKind(err, tt.kind))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

// 护士不能访问医生工作台
func TestRoleGate(t *testing.T) {
	f := newFixture(t)
	nurse := f.client(t, "nurse", router.RoleNurse)

	_, err := nurse.Queue(context.Background())
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindStatus))
}
