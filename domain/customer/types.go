package customer

import (
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/domain/appointment"
	"github.com/sgzs6721/mediflow-front/domain/medicalRecord"
)

// 客户状态,可自由修改
type Status string

const (
	StatusLead        Status = "LEAD"         // 潜在客户
	StatusPatient     Status = "PATIENT"      // 患者
	StatusInTreatment Status = "IN_TREATMENT" // 治疗中
	StatusCompleted   Status = "COMPLETED"    // 已完成
)

var statusNames = map[Status]string{
	StatusLead:        "潜在客户",
	StatusPatient:     "患者",
	StatusInTreatment: "治疗中",
	StatusCompleted:   "已完成",
}

func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// 客户
type Customer struct {
	Id                uint64       `json:"id"`
	Name              string       `json:"name"`
	Gender            string       `json:"gender"`
	Phone             string       `json:"phone"`
	IdCard            string       `json:"idCard"`
	Industry          string       `json:"industry"`
	CompanyName       string       `json:"companyName"`
	FinancialStrength string       `json:"financialStrength"` // 经济实力
	CustomerNeeds     string       `json:"customerNeeds"`
	CustomerStatus    Status       `json:"customerStatus"`
	MedicalRecordNo   string       `json:"medicalRecordNo"` // 病历号
	AssignedDoctorId  uint64       `json:"assignedDoctorId"`
	OwnerId           uint64       `json:"ownerId"`
	CreatedAt         db.LocalTime `json:"createdAt"`
}

// 客户表单,状态为空时后端默认潜在客户
type Form struct {
	Name              string `json:"name" validate:"notblank,max=40" msg:"请输入客户姓名"`
	Gender            string `json:"gender" validate:"omitempty,oneof=男 女" msg:"性别[男或女]"`
	Phone             string `json:"phone" validate:"mobile" msg:"请输入正确的手机号"`
	IdCard            string `json:"idCard" validate:"max=30" msg:"身份证号[字符长度不超过30]"`
	Industry          string `json:"industry"`
	CompanyName       string `json:"companyName"`
	FinancialStrength string `json:"financialStrength"`
	CustomerNeeds     string `json:"customerNeeds" validate:"max=500" msg:"客户需求[字符长度不超过500]"`
	CustomerStatus    string `json:"customerStatus" validate:"omitempty,oneof=LEAD PATIENT IN_TREATMENT COMPLETED" msg:"客户状态不存在"`
}

// 查询条件
type Search struct {
	Keyword string // 姓名或手机号
	Status  Status
}

func (s Search) Params() map[string]string {
	params := map[string]string{}
	if s.Keyword != "" {
		params["keyword"] = s.Keyword
	}
	if s.Status != "" {
		params["status"] = string(s.Status)
	}
	return params
}

// 回访记录
type FollowUp struct {
	Id               uint64       `json:"id"`
	CustomerId       uint64       `json:"customerId"`
	VisitTime        db.LocalTime `json:"visitTime"`
	VisitMethod      string       `json:"visitMethod"`
	VisitContent     string       `json:"visitContent"`
	NextFollowUpTime db.LocalTime `json:"nextFollowUpTime"`
	CreatedBy        uint64       `json:"createdBy"`
	CreatedAt        db.LocalTime `json:"createdAt"`
}

// 回访表单,时间格式 2006-01-02 15:04:05,回访时间为空时取后端当前时间
type FollowUpForm struct {
	VisitTime        string `json:"visitTime" validate:"omitempty,datetime=2006-01-02 15:04:05" msg:"回访时间格式错误"`
	VisitMethod      string `json:"visitMethod" validate:"oneof=PHONE VISIT WECHAT OTHER" msg:"请选择回访方式"`
	VisitContent     string `json:"visitContent" validate:"notblank,max=1000" msg:"回访内容[必填,字符长度不超过1000]"`
	NextFollowUpTime string `json:"nextFollowUpTime" validate:"omitempty,datetime=2006-01-02 15:04:05" msg:"下次回访时间格式错误"`
}

type followUpRequest struct {
	VisitTime        db.LocalTime `json:"visitTime"`
	VisitMethod      string       `json:"visitMethod"`
	VisitContent     string       `json:"visitContent"`
	NextFollowUpTime db.LocalTime `json:"nextFollowUpTime"`
}

// 收款状态
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"   // 待收款
	PaymentPaid      PaymentStatus = "PAID"      // 已收款
	PaymentCancelled PaymentStatus = "CANCELLED" // 已取消
)

// 业务订单
type Order struct {
	Id          uint64        `json:"id"`
	CustomerId  uint64        `json:"customerId"`
	OrderNo     string        `json:"orderNo"`
	ProductName string        `json:"productName"`
	OrderAmount float64       `json:"orderAmount"`
	PaidAmount  float64       `json:"paidAmount"`
	OrderStatus PaymentStatus `json:"orderStatus"`
	CreatedAt   db.LocalTime  `json:"createdAt"`
}

// 订单表单
type OrderForm struct {
	ProductName string  `json:"productName" validate:"notblank,max=100" msg:"请填写产品名称"`
	OrderAmount float64 `json:"orderAmount" validate:"gt=0" msg:"订单金额必须大于0"`
}

// 客户360视图
type View struct {
	Customer            *Customer                    `json:"customer"`
	FollowUpRecords     []*FollowUp                  `json:"followUpRecords"`
	Orders              []*Order                     `json:"orders"`
	LatestExamination   *medicalRecord.PhysicalExam  `json:"latestExamination"`
	LatestMedicalRecord *medicalRecord.MedicalRecord `json:"latestMedicalRecord"`
	Appointments        []*appointment.Appointment   `json:"appointments"`
	TotalOrders         int                          `json:"totalOrders"`
	TotalAmount         float64                      `json:"totalAmount"`
	TotalFollowUps      int                          `json:"totalFollowUps"`
}
