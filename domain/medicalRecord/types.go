package medicalRecord

import (
	"github.com/sgzs6721/mediflow-front/db"
)

// 病历
type MedicalRecord struct {
	Id                   uint64       `json:"id"`
	CustomerId           uint64       `json:"customerId"`
	DoctorId             uint64       `json:"doctorId"`
	VisitTime            db.LocalTime `json:"visitTime"`
	ChiefComplaint       string       `json:"chiefComplaint"`       // 主诉
	PresentIllness       string       `json:"presentIllness"`       // 现病史
	PastHistory          string       `json:"pastHistory"`          // 既往史
	AllergyHistory       string       `json:"allergyHistory"`       // 过敏史
	DiagnosisConclusion  string       `json:"diagnosisConclusion"`  // 诊断结论
	DiagnosisBasis       string       `json:"diagnosisBasis"`       // 诊断依据
	TreatmentPlanName    string       `json:"treatmentPlanName"`    // 治疗方案
	TreatmentCycle       string       `json:"treatmentCycle"`       // 疗程
	TreatmentFrequency   string       `json:"treatmentFrequency"`   // 频次
	TreatmentDescription string       `json:"treatmentDescription"` // 方案说明
	CreatedAt            db.LocalTime `json:"createdAt"`
}

// 病历表单
type RecordForm struct {
	ChiefComplaint       string `json:"chiefComplaint" validate:"notblank,max=500" msg:"请填写主诉"`
	PresentIllness       string `json:"presentIllness" validate:"max=1000" msg:"现病史[字符长度不超过1000]"`
	PastHistory          string `json:"pastHistory" validate:"max=1000" msg:"既往史[字符长度不超过1000]"`
	AllergyHistory       string `json:"allergyHistory" validate:"max=500" msg:"过敏史[字符长度不超过500]"`
	DiagnosisConclusion  string `json:"diagnosisConclusion" validate:"notblank,max=500" msg:"请填写诊断结论"`
	DiagnosisBasis       string `json:"diagnosisBasis" validate:"max=1000" msg:"诊断依据[字符长度不超过1000]"`
	TreatmentPlanName    string `json:"treatmentPlanName" validate:"max=100" msg:"治疗方案[字符长度不超过100]"`
	TreatmentCycle       string `json:"treatmentCycle" validate:"max=40" msg:"疗程[字符长度不超过40]"`
	TreatmentFrequency   string `json:"treatmentFrequency" validate:"max=40" msg:"频次[字符长度不超过40]"`
	TreatmentDescription string `json:"treatmentDescription" validate:"max=1000" msg:"方案说明[字符长度不超过1000]"`
}

// 病历请求体
type recordRequest struct {
	CustomerId           uint64 `json:"customerId,omitempty"`
	ChiefComplaint       string `json:"chiefComplaint"`
	PresentIllness       string `json:"presentIllness"`
	PastHistory          string `json:"pastHistory"`
	AllergyHistory       string `json:"allergyHistory"`
	DiagnosisConclusion  string `json:"diagnosisConclusion"`
	DiagnosisBasis       string `json:"diagnosisBasis"`
	TreatmentPlanName    string `json:"treatmentPlanName"`
	TreatmentCycle       string `json:"treatmentCycle"`
	TreatmentFrequency   string `json:"treatmentFrequency"`
	TreatmentDescription string `json:"treatmentDescription"`
}

// 处方
type Prescription struct {
	Id              uint64       `json:"id"`
	MedicalRecordId uint64       `json:"medicalRecordId"`
	CustomerId      uint64       `json:"customerId"`
	DrugName        string       `json:"drugName"`
	Specification   string       `json:"specification"`
	UsageMethod     string       `json:"usageMethod"`
	Dosage          string       `json:"dosage"`
	Frequency       string       `json:"frequency"`
	Duration        string       `json:"duration"`
	Notes           string       `json:"notes"`
	CreatedAt       db.LocalTime `json:"createdAt"`
}

// 处方表单
type PrescriptionForm struct {
	DrugName      string `json:"drugName" validate:"notblank,max=100" msg:"请填写药品名称"`
	Specification string `json:"specification" validate:"max=100" msg:"规格[字符长度不超过100]"`
	UsageMethod   string `json:"usageMethod" validate:"notblank" msg:"请填写用法"`
	Dosage        string `json:"dosage" validate:"notblank" msg:"请填写用量"`
	Frequency     string `json:"frequency" validate:"notblank" msg:"请填写频次"`
	Duration      string `json:"duration" validate:"notblank" msg:"请填写疗程"`
	Notes         string `json:"notes" validate:"max=500" msg:"备注[字符长度不超过500]"`
}

type prescriptionRequest struct {
	MedicalRecordId uint64 `json:"medicalRecordId"`
	DrugName        string `json:"drugName"`
	Specification   string `json:"specification"`
	UsageMethod     string `json:"usageMethod"`
	Dosage          string `json:"dosage"`
	Frequency       string `json:"frequency"`
	Duration        string `json:"duration"`
	Notes           string `json:"notes"`
}

// 体检数据
type PhysicalExam struct {
	Id                uint64       `json:"id"`
	CustomerId        uint64       `json:"customerId"`
	Height            float64      `json:"height"` // cm
	Weight            float64      `json:"weight"` // kg
	Bmi               float64      `json:"bmi"`
	SystolicPressure  int          `json:"systolicPressure"`  // 收缩压
	DiastolicPressure int          `json:"diastolicPressure"` // 舒张压
	HeartRate         int          `json:"heartRate"`
	ExamTime          db.LocalTime `json:"examTime"`
	DoctorId          uint64       `json:"doctorId"`
}

// BmiLevel 国内BMI分级
func (e *PhysicalExam) BmiLevel() string {
	switch {
	case e.Bmi <= 0:
		return ""
	case e.Bmi < 18.5:
		return "偏瘦"
	case e.Bmi < 24:
		return "正常"
	case e.Bmi < 28:
		return "超重"
	default:
		return "肥胖"
	}
}

// 体检表单,数值允许从命令行字符串录入
type ExamForm struct {
	Height            string `json:"height" validate:"required,numeric" msg:"请填写身高(cm)"`
	Weight            string `json:"weight" validate:"required,numeric" msg:"请填写体重(kg)"`
	SystolicPressure  int    `json:"systolicPressure" validate:"gte=0,lte=300" msg:"收缩压[0-300]"`
	DiastolicPressure int    `json:"diastolicPressure" validate:"gte=0,lte=200" msg:"舒张压[0-200]"`
	HeartRate         int    `json:"heartRate" validate:"gte=0,lte=250" msg:"心率[0-250]"`
}

type examRequest struct {
	CustomerId        uint64  `json:"customerId"`
	Height            float64 `json:"height"`
	Weight            float64 `json:"weight"`
	SystolicPressure  int     `json:"systolicPressure"`
	DiastolicPressure int     `json:"diastolicPressure"`
	HeartRate         int     `json:"heartRate"`
}
