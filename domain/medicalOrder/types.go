package medicalOrder

import (
	"github.com/sgzs6721/mediflow-front/db"
)

// 医嘱状态
type Status string

const (
	StatusPending    Status = "PENDING"     // 待执行
	StatusInProgress Status = "IN_PROGRESS" // 执行中
	StatusCompleted  Status = "COMPLETED"   // 已完成
	StatusAbnormal   Status = "ABNORMAL"    // 异常
)

var statusNames = map[Status]string{
	StatusPending:    "待执行",
	StatusInProgress: "执行中",
	StatusCompleted:  "已完成",
	StatusAbnormal:   "异常",
}

func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// 执行结果
type ExecutionStatus string

const (
	ExecutionNormal   ExecutionStatus = "NORMAL"
	ExecutionAbnormal ExecutionStatus = "ABNORMAL"
)

// 医嘱
type MedicalOrder struct {
	Id              uint64       `json:"id" comment:"主键"`
	CustomerId      uint64       `json:"customerId" comment:"患者ID"`
	CustomerName    string       `json:"customerName,omitempty" comment:"患者姓名"`
	MedicalRecordId uint64       `json:"medicalRecordId" comment:"病历ID"`
	DoctorId        uint64       `json:"doctorId" comment:"医生ID"`
	OrderStatus     Status       `json:"orderStatus" comment:"医嘱状态"`
	SentAt          db.LocalTime `json:"sentAt" comment:"发送时间"`
	CreatedAt       db.LocalTime `json:"createdAt" comment:"创建时间"`
}

func (o *MedicalOrder) GetId() uint64 {
	return o.Id
}

// 执行记录 | 只增不改
type ExecutionRecord struct {
	Id                  uint64          `json:"id"`
	OrderId             uint64          `json:"orderId"`
	NurseId             uint64          `json:"nurseId"`
	ExecutionContent    string          `json:"executionContent"`
	ExecutionStatus     ExecutionStatus `json:"executionStatus"`
	AbnormalDescription string          `json:"abnormalDescription,omitempty"`
	PatientReaction     string          `json:"patientReaction,omitempty"`
	ExecutedAt          db.LocalTime    `json:"executedAt"`
}

// 新增执行记录
type CreateExecution struct {
	ExecutionContent    string `json:"executionContent" validate:"notblank,max=1000" msg:"执行内容[必填,字符长度不超过1000]"`                   // 执行内容
	ExecutionStatus     string `json:"executionStatus" validate:"oneof=NORMAL ABNORMAL" msg:"请选择执行状态"`                             // 执行状态
	AbnormalDescription string `json:"abnormalDescription" validate:"required_if=ExecutionStatus ABNORMAL,max=1000" msg:"执行异常时必须填写异常描述"` // 异常描述
	PatientReaction     string `json:"patientReaction" validate:"max=1000" msg:"患者反应[字符长度不超过1000]"`                               // 患者反应
}

// 执行记录请求体
type executeRequest struct {
	ExecutionContent    string `json:"executionContent"`
	ExecutionStatus     string `json:"executionStatus"`
	AbnormalDescription string `json:"abnormalDescription,omitempty"`
	PatientReaction     string `json:"patientReaction,omitempty"`
}

// 导出行
type exportRow struct {
	Id              uint64
	CustomerId      uint64
	CustomerName    string
	MedicalRecordId uint64
	OrderStatus     string
	SentAt          string
}
