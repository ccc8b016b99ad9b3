package medicalOrder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/sgzs6721/mediflow-front/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local) }

const doctorId = 3 // 演示账号doctor

type fixture struct {
	ts  *mockBackend.TestServer
	rec *gateway.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{ts: mockBackend.NewTestServer(t, clock), rec: &gateway.Recorder{}}
}

func (f *fixture) client(t *testing.T, username string, role router.Role, opts ...Option) *Client {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), f.ts.Token(t, username), session.Profile{Username: username, Role: role}))
	gw := gateway.New(f.ts.BaseURL(), gateway.WithTokenSource(store), gateway.WithNotifier(f.rec))
	opts = append([]Option{WithConfirmer(mediflow.AutoConfirm()), WithRoleSource(store)}, opts...)
	return NewClient(gw, opts...)
}

// record 为林二建一份病历
func (f *fixture) record(t *testing.T) uint64 {
	t.Helper()
	r := &mockBackend.MedicalRecord{CustomerId: 2, DoctorId: doctorId, ChiefComplaint: "头痛", DiagnosisConclusion: "偏头痛"}
	require.NoError(t, f.ts.Store().Records.Insert(r))
	return r.Id
}

func TestSendOrder(t *testing.T) {
	f := newFixture(t)
	doctor := f.client(t, "doctor", router.RoleDoctor)
	recordId := f.record(t)

	order, err := doctor.SendOrder(context.Background(), recordId)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.OrderStatus)
	assert.Equal(t, recordId, order.MedicalRecordId)
	assert.Equal(t, "林二", order.CustomerName)
	assert.Equal(t, []string{"医嘱已发送至护士工作台"}, f.rec.Messages(gateway.LevelSuccess))

	// 同一客户端重复发送,本地拒绝
	before := f.ts.Requests()
	_, err = doctor.SendOrder(context.Background(), recordId)
	assert.ErrorIs(t, err, mediflow.ErrInvalidTransition)
	assert.Equal(t, before, f.ts.Requests())

	// 另一个客户端,由后端拒绝
	other := f.client(t, "doctor", router.RoleDoctor)
	_, err = other.SendOrder(context.Background(), recordId)
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindEnvelope))
	assert.Equal(t, "该病历已发送医嘱，不能重复发送", err.Error())
}

func TestSendOrderDeclinedThenRetry(t *testing.T) {
	f := newFixture(t)
	declined := mediflow.ConfirmFunc(func(context.Context, string, string) (bool, error) { return false, nil })
	doctor := f.client(t, "doctor", router.RoleDoctor, WithConfirmer(declined))
	recordId := f.record(t)
	before := f.ts.Requests()

	_, err := doctor.SendOrder(context.Background(), recordId)
	assert.ErrorIs(t, err, mediflow.ErrCancelled)
	assert.Equal(t, before, f.ts.Requests())
	assert.Empty(t, f.rec.Messages(gateway.LevelError))

	// 取消后可以再次发送
	doctor.confirmer = mediflow.AutoConfirm()
	_, err = doctor.SendOrder(context.Background(), recordId)
	assert.NoError(t, err)
}

func TestSendOrderRequiresDoctor(t *testing.T) {
	f := newFixture(t)
	nurse := f.client(t, "nurse", router.RoleNurse)
	before := f.ts.Requests()

	_, err := nurse.SendOrder(context.Background(), f.record(t))
	assert.True(t, errors.Is(err, ErrDoctorOnly))
	assert.Equal(t, before, f.ts.Requests())
}

func TestNurseLifecycle(t *testing.T) {
	f := newFixture(t)
	doctor := f.client(t, "doctor", router.RoleDoctor)
	nurse := f.client(t, "nurse", router.RoleNurse)
	ctx := context.Background()

	_, err := doctor.SendOrder(ctx, f.record(t))
	require.NoError(t, err)

	pending, err := nurse.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	m := pending[0]
	assert.Equal(t, StatusPending, m.OrderStatus)

	rec, err := nurse.Execute(ctx, m, &CreateExecution{ExecutionContent: "口服布洛芬 0.3g", ExecutionStatus: "NORMAL", PatientReaction: "无不适"})
	require.NoError(t, err)
	assert.Equal(t, ExecutionNormal, rec.ExecutionStatus)
	assert.Equal(t, StatusInProgress, m.OrderStatus, "后端推进到执行中后重新读取")

	_, err = nurse.Execute(ctx, m, &CreateExecution{ExecutionContent: "复测体温", ExecutionStatus: "ABNORMAL", AbnormalDescription: "38.5℃"})
	require.NoError(t, err)

	list, err := nurse.ListExecutions(ctx, m.Id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "38.5℃", list[1].AbnormalDescription)

	require.NoError(t, nurse.Complete(ctx, m))
	assert.Equal(t, StatusCompleted, m.OrderStatus)

	before := f.ts.Requests()
	_, err = nurse.Execute(ctx, m, &CreateExecution{ExecutionContent: "补录", ExecutionStatus: "NORMAL"})
	assert.ErrorIs(t, err, mediflow.ErrInvalidTransition)
	assert.ErrorIs(t, nurse.MarkAbnormal(ctx, m), mediflow.ErrInvalidTransition)
	assert.Equal(t, before, f.ts.Requests())

	pending, err = nurse.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExecuteRefreshFailure(t *testing.T) {
	posts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost && r.URL.Path == "/nurse/medical-orders/7/execute" {
			posts++
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":11,"orderId":7,"executionContent":"测血压","executionStatus":"NORMAL"}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	rec := &gateway.Recorder{}
	c := NewClient(gateway.New(srv.URL, gateway.WithNotifier(rec)))
	m, err := c.NewEntity(&MedicalOrder{Id: 7, OrderStatus: StatusPending})
	require.NoError(t, err)

	record, err := c.Execute(context.Background(), m, &CreateExecution{ExecutionContent: "测血压", ExecutionStatus: "NORMAL"})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), record.Id)
	assert.Equal(t, 1, posts)
	assert.Equal(t, []string{"执行记录已保存"}, rec.Messages(gateway.LevelSuccess))
	assert.Equal(t, []string{"执行记录已保存，医嘱状态刷新失败，请重新查询"}, rec.Messages(gateway.LevelWarning))
}

func TestExecuteValidation(t *testing.T) {
	f := newFixture(t)
	doctor := f.client(t, "doctor", router.RoleDoctor)
	nurse := f.client(t, "nurse", router.RoleNurse)
	order, err := doctor.SendOrder(context.Background(), f.record(t))
	require.NoError(t, err)
	before := f.ts.Requests()

	tests := []struct {
		name string
		form CreateExecution
	}{
		{name: "abnormal without description", form: CreateExecution{ExecutionContent: "输液", ExecutionStatus: "ABNORMAL"}},
		{name: "blank content", form: CreateExecution{ExecutionContent: " ", ExecutionStatus: "NORMAL"}},
		{name: "unknown status", form: CreateExecution{ExecutionContent: "输液", ExecutionStatus: "DONE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := nurse.Execute(context.Background(), order, &tt.form)
			assert.True(t, gateway.IsKind(err, gateway.KindValidation))
			assert.Equal(t, StatusPending, order.OrderStatus)
		})
	}
	assert.Equal(t, before, f.ts.Requests())
}

func TestMarkAbnormalAndRace(t *testing.T) {
	f := newFixture(t)
	doctor := f.client(t, "doctor", router.RoleDoctor)
	nurse := f.client(t, "nurse", router.RoleNurse)
	order, err := doctor.SendOrder(context.Background(), f.record(t))
	require.NoError(t, err)

	a, err := nurse.Get(context.Background(), order.Id)
	require.NoError(t, err)
	b, err := nurse.Get(context.Background(), order.Id)
	require.NoError(t, err)

	require.NoError(t, nurse.MarkAbnormal(context.Background(), a))
	assert.Equal(t, StatusAbnormal, a.OrderStatus)
	assert.Equal(t, []string{"医嘱已标记异常"}, f.rec.Messages(gateway.LevelWarning))

	err = nurse.Complete(context.Background(), b)
	assert.True(t, gateway.IsKind(err, gateway.KindEnvelope))
	assert.Equal(t, StatusPending, b.OrderStatus)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	doctor := f.client(t, "doctor", router.RoleDoctor)
	nurse := f.client(t, "nurse", router.RoleNurse)
	_, err := doctor.SendOrder(context.Background(), f.record(t))
	require.NoError(t, err)
	list, err := nurse.ListPending(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, nurse.Export(path, list))

	rows, err := tool.ReadSheet(path, "医嘱")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "林二", rows[1][2])
	assert.Equal(t, "待执行", rows[1][4])
	assert.Equal(t, "2025-03-01 10:00:00", rows[1][5])
}
