package medicalRecord

import (
	"context"
	"testing"
	"time"

	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patientId = 2 // 演示患者林二

type fixture struct {
	ts     *mockBackend.TestServer
	rec    *gateway.Recorder
	client *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ts := mockBackend.NewTestServer(t, func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local) })
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), ts.Token(t, "doctor"), session.Profile{Username: "doctor", Role: router.RoleDoctor}))
	rec := &gateway.Recorder{}
	gw := gateway.New(ts.BaseURL(), gateway.WithTokenSource(store), gateway.WithNotifier(rec))
	return &fixture{ts: ts, rec: rec, client: NewClient(gw)}
}

func TestCreateRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.client.Create(ctx, patientId, &RecordForm{ChiefComplaint: " 头痛三天 ", DiagnosisConclusion: "偏头痛", TreatmentPlanName: "药物治疗"})
	require.NoError(t, err)
	assert.NotZero(t, record.Id)
	assert.Equal(t, "头痛三天", record.ChiefComplaint)
	assert.Equal(t, "2025-03-01 10:00:00", record.VisitTime.String())
	assert.Equal(t, []string{"病历保存成功"}, f.rec.Messages(gateway.LevelSuccess))

	customer, err := f.ts.Store().Customers.Get(patientId)
	require.NoError(t, err)
	assert.Equal(t, mockBackend.CustomerInTreatment, customer.CustomerStatus)

	updated, err := f.client.Update(ctx, record.Id, &RecordForm{ChiefComplaint: "头痛三天", DiagnosisConclusion: "紧张性头痛"})
	require.NoError(t, err)
	assert.Equal(t, "紧张性头痛", updated.DiagnosisConclusion)

	history, err := f.client.History(ctx, patientId)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "紧张性头痛", history[0].DiagnosisConclusion)
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	before := f.ts.Requests()

	tests := []struct {
		name    string
		form    RecordForm
		message string
	}{
		{name: "missing complaint", form: RecordForm{DiagnosisConclusion: "偏头痛"}, message: "请填写主诉"},
		{name: "blank diagnosis", form: RecordForm{ChiefComplaint: "头痛", DiagnosisConclusion: "  "}, message: "请填写诊断结论"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.client.Create(context.Background(), patientId, &tt.form)
			require.Error(t, err)
			assert.True(t, gateway.IsKind(err, gateway.KindValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
	assert.Equal(t, before, f.ts.Requests())
	assert.Len(t, f.rec.Messages(gateway.LevelWarning), 2)
}

func TestPrescriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record, err := f.client.Create(ctx, patientId, &RecordForm{ChiefComplaint: "发热", DiagnosisConclusion: "上呼吸道感染"})
	require.NoError(t, err)

	form := &PrescriptionForm{DrugName: "布洛芬", Specification: "0.3g*20粒", UsageMethod: "口服", Dosage: "0.3g", Frequency: "每日两次", Duration: "3天"}
	p, err := f.client.AddPrescription(ctx, record.Id, form)
	require.NoError(t, err)
	assert.Equal(t, record.Id, p.MedicalRecordId)
	assert.Equal(t, uint64(patientId), p.CustomerId)

	_, err = f.client.AddPrescription(ctx, record.Id, &PrescriptionForm{DrugName: "布洛芬"})
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))

	_, err = f.client.AddPrescription(ctx, 999, form)
	assert.True(t, gateway.IsKind(err, gateway.KindStatus))

	list, err := f.client.Prescriptions(ctx, record.Id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "布洛芬", list[0].DrugName)
}

func TestPhysicalExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	latest, err := f.client.LatestExam(ctx, patientId)
	require.NoError(t, err)
	assert.Nil(t, latest)

	exam, err := f.client.CreateExam(ctx, patientId, &ExamForm{Height: "175", Weight: "68.9", SystolicPressure: 120, DiastolicPressure: 80, HeartRate: 72})
	require.NoError(t, err)
	assert.Equal(t, 22.5, exam.Bmi)
	assert.Equal(t, "正常", exam.BmiLevel())

	latest, err = f.client.LatestExam(ctx, patientId)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, exam.Id, latest.Id)

	exams, err := f.client.Exams(ctx, patientId)
	require.NoError(t, err)
	assert.Len(t, exams, 1)
}

func TestExamValidation(t *testing.T) {
	f := newFixture(t)
	before := f.ts.Requests()

	tests := []struct {
		name string
		form ExamForm
	}{
		{name: "missing height", form: ExamForm{Weight: "60"}},
		{name: "not a number", form: ExamForm{Height: "abc", Weight: "60"}},
		{name: "zero weight", form: ExamForm{Height: "170", Weight: "0"}},
		{name: "negative pressure", form: ExamForm{Height: "170", Weight: "60", SystolicPressure: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.client.CreateExam(context.Background(), patientId, &tt.form)
			assert.True(t, gateway.IsKind(err, gateway.KindValidation))
		})
	}
	assert.Equal(t, before, f.ts.Requests())
}

func TestBmiLevel(t *testing.T) {
	tests := []struct {
		bmi   float64
		level string
	}{
		{bmi: 0, level: ""},
		{bmi: 17.9, level: "偏瘦"},
		{bmi: 18.5, level: "正常"},
		{bmi: 24, level: "超重"},
		{bmi: 28, level: "肥胖"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, (&PhysicalExam{Bmi: tt.bmi}).BmiLevel())
	}
}
