package mockBackend

import (
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/router"
)

// Model 主键约定
type Model interface {
	GetId() uint64
	SetId(id uint64)
	GetCreatedAt() db.LocalTime
	SetCreatedAt(t db.LocalTime)
}

// 公共字段
type Base struct {
	Id        uint64       `json:"id" gorm:"primarykey"`
	CreatedAt db.LocalTime `json:"createdAt"`
}

func (b *Base) GetId() uint64               { return b.Id }
func (b *Base) SetId(id uint64)             { b.Id = id }
func (b *Base) GetCreatedAt() db.LocalTime  { return b.CreatedAt }
func (b *Base) SetCreatedAt(t db.LocalTime) { b.CreatedAt = t }

// 用户
type User struct {
	Base
	Username     string      `json:"username" gorm:"size:40;uniqueIndex"`
	PasswordHash string      `json:"-" gorm:"size:100"`
	RealName     string      `json:"realName" gorm:"size:40"`
	Phone        string      `json:"phone" gorm:"size:20"`
	Role         router.Role `json:"role" gorm:"size:20"`
}

// 注册申请
type Registration struct {
	Base
	Username     string       `json:"username" gorm:"size:40"`
	PasswordHash string       `json:"-" gorm:"size:100"`
	RealName     string       `json:"realName" gorm:"size:40"`
	Phone        string       `json:"phone" gorm:"size:20"`
	AppliedRole  router.Role  `json:"appliedRole" gorm:"size:20"`
	Reason       string       `json:"reason" gorm:"size:500"`
	Status       string       `json:"status" gorm:"size:20"`
	RejectReason string       `json:"rejectReason" gorm:"size:500"`
	ReviewedAt   db.LocalTime `json:"reviewedAt"`
}

// 客户
type Customer struct {
	Base
	Name              string `json:"name" gorm:"size:40"`
	Gender            string `json:"gender" gorm:"size:10"`
	Phone             string `json:"phone" gorm:"size:20"`
	IdCard            string `json:"idCard" gorm:"size:30"`
	Industry          string `json:"industry" gorm:"size:40"`
	CompanyName       string `json:"companyName" gorm:"size:100"`
	FinancialStrength string `json:"financialStrength" gorm:"size:40"`
	CustomerNeeds     string `json:"customerNeeds" gorm:"size:500"`
	CustomerStatus    string `json:"customerStatus" gorm:"size:20"`
	MedicalRecordNo   string `json:"medicalRecordNo" gorm:"size:20"`
	AssignedDoctorId  uint64 `json:"assignedDoctorId"`
	OwnerId           uint64 `json:"ownerId"`
}

// 回访记录
type FollowUp struct {
	Base
	CustomerId       uint64       `json:"customerId" gorm:"index"`
	VisitTime        db.LocalTime `json:"visitTime"`
	VisitMethod      string       `json:"visitMethod" gorm:"size:20"`
	VisitContent     string       `json:"visitContent" gorm:"size:1000"`
	NextFollowUpTime db.LocalTime `json:"nextFollowUpTime"`
	CreatedBy        uint64       `json:"createdBy"`
}

// 业务订单
type BusinessOrder struct {
	Base
	CustomerId  uint64  `json:"customerId" gorm:"index"`
	OrderNo     string  `json:"orderNo" gorm:"size:40"`
	ProductName string  `json:"productName" gorm:"size:100"`
	OrderAmount float64 `json:"orderAmount"`
	PaidAmount  float64 `json:"paidAmount"`
	OrderStatus string  `json:"orderStatus" gorm:"size:20"`
}

// 预约
type Appointment struct {
	Base
	CustomerId         uint64       `json:"customerId" gorm:"index"`
	CustomerName       string       `json:"customerName" gorm:"-"`
	AppointmentTime    db.LocalTime `json:"appointmentTime"`
	AppointmentPurpose string       `json:"appointmentPurpose" gorm:"size:200"`
	Notes              string       `json:"notes" gorm:"size:500"`
	AppointmentStatus  string       `json:"appointmentStatus" gorm:"size:20"`
}

// 病历
type MedicalRecord struct {
	Base
	CustomerId           uint64       `json:"customerId" gorm:"index"`
	DoctorId             uint64       `json:"doctorId"`
	VisitTime            db.LocalTime `json:"visitTime"`
	ChiefComplaint       string       `json:"chiefComplaint" gorm:"size:500"`
	PresentIllness       string       `json:"presentIllness" gorm:"size:1000"`
	PastHistory          string       `json:"pastHistory" gorm:"size:1000"`
	AllergyHistory       string       `json:"allergyHistory" gorm:"size:500"`
	DiagnosisConclusion  string       `json:"diagnosisConclusion" gorm:"size:500"`
	DiagnosisBasis       string       `json:"diagnosisBasis" gorm:"size:1000"`
	TreatmentPlanName    string       `json:"treatmentPlanName" gorm:"size:100"`
	TreatmentCycle       string       `json:"treatmentCycle" gorm:"size:40"`
	TreatmentFrequency   string       `json:"treatmentFrequency" gorm:"size:40"`
	TreatmentDescription string       `json:"treatmentDescription" gorm:"size:1000"`
}

// 处方
type Prescription struct {
	Base
	MedicalRecordId uint64 `json:"medicalRecordId" gorm:"index"`
	CustomerId      uint64 `json:"customerId"`
	DrugName        string `json:"drugName" gorm:"size:100"`
	Specification   string `json:"specification" gorm:"size:100"`
	UsageMethod     string `json:"usageMethod" gorm:"size:40"`
	Dosage          string `json:"dosage" gorm:"size:40"`
	Frequency       string `json:"frequency" gorm:"size:40"`
	Duration        string `json:"duration" gorm:"size:40"`
	Notes           string `json:"notes" gorm:"size:500"`
}

// 体检
type PhysicalExam struct {
	Base
	CustomerId        uint64       `json:"customerId" gorm:"index"`
	Height            float64      `json:"height"`
	Weight            float64      `json:"weight"`
	Bmi               float64      `json:"bmi"`
	SystolicPressure  int          `json:"systolicPressure"`
	DiastolicPressure int          `json:"diastolicPressure"`
	HeartRate         int          `json:"heartRate"`
	ExamTime          db.LocalTime `json:"examTime"`
	DoctorId          uint64       `json:"doctorId"`
}

// 医嘱
type MedicalOrder struct {
	Base
	CustomerId      uint64       `json:"customerId" gorm:"index"`
	CustomerName    string       `json:"customerName" gorm:"-"`
	MedicalRecordId uint64       `json:"medicalRecordId" gorm:"uniqueIndex"`
	DoctorId        uint64       `json:"doctorId"`
	OrderStatus     string       `json:"orderStatus" gorm:"size:20"`
	SentAt          db.LocalTime `json:"sentAt"`
}

// 执行记录 | 只增不改
type Execution struct {
	Base
	OrderId             uint64       `json:"orderId" gorm:"index"`
	NurseId             uint64       `json:"nurseId"`
	ExecutionContent    string       `json:"executionContent" gorm:"size:1000"`
	ExecutionStatus     string       `json:"executionStatus" gorm:"size:20"`
	AbnormalDescription string       `json:"abnormalDescription" gorm:"size:1000"`
	PatientReaction     string       `json:"patientReaction" gorm:"size:1000"`
	ExecutedAt          db.LocalTime `json:"executedAt"`
}

// 字段权限
type Permission struct {
	Base
	RoleName       router.Role `json:"roleName" gorm:"size:20;index"`
	DataCategory   string      `json:"dataCategory" gorm:"size:40"`
	DataField      string      `json:"dataField" gorm:"size:40"`
	FieldLabel     string      `json:"fieldLabel" gorm:"size:40"`
	PermissionType string      `json:"permissionType" gorm:"size:20"`
}
