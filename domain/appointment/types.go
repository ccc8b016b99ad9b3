package appointment

import (
	"time"

	"github.com/sgzs6721/mediflow-front/db"
)

// 预约状态
type Status string

const (
	StatusScheduled Status = "SCHEDULED" // 已预约
	StatusCompleted Status = "COMPLETED" // 已完成
	StatusCancelled Status = "CANCELLED" // 已取消
)

var statusNames = map[Status]string{
	StatusScheduled: "已预约",
	StatusCompleted: "已完成",
	StatusCancelled: "已取消",
}

func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// 预约
type Appointment struct {
	Id                 uint64       `json:"id" comment:"主键"`
	CustomerId         uint64       `json:"customerId" comment:"客户ID"`
	CustomerName       string       `json:"customerName,omitempty" comment:"客户姓名"`
	AppointmentTime    db.LocalTime `json:"appointmentTime" comment:"预约时间"`
	AppointmentPurpose string       `json:"appointmentPurpose" comment:"预约事项"`
	Notes              string       `json:"notes" comment:"备注"`
	AppointmentStatus  Status       `json:"appointmentStatus" comment:"预约状态"`
	CreatedAt          db.LocalTime `json:"createdAt" comment:"创建时间"`
}

func (a *Appointment) GetId() uint64 {
	return a.Id
}

// IsOverdue 已预约且预约时间早于当前时间(仅用于展示)
func (a *Appointment) IsOverdue(now time.Time) bool {
	return a.AppointmentStatus == StatusScheduled && a.AppointmentTime.Before(now)
}

// 新增预约
type CreateAppointment struct {
	CustomerId uint64 `json:"customerId" validate:"gt=0" msg:"请选择客户"`                                 // 客户ID
	Date       string `json:"date" validate:"required" msg:"请选择预约日期"`                                // 预约日期 2006-01-02
	Clock      string `json:"time" validate:"required" msg:"请选择预约时间"`                                // 预约时刻 15:04
	Purpose    string `json:"appointmentPurpose" validate:"notblank,max=200" msg:"预约事项[必填,字符长度不超过200]"` // 预约事项
}

// 更新预约
type UpdateAppointment struct {
	Date    string `json:"date" validate:"required" msg:"请选择预约日期"`                                // 预约日期
	Clock   string `json:"time" validate:"required" msg:"请选择预约时间"`                                // 预约时刻
	Purpose string `json:"appointmentPurpose" validate:"notblank,max=200" msg:"预约事项[必填,字符长度不超过200]"` // 预约事项
	Notes   string `json:"notes" validate:"max=500" msg:"备注[字符长度不超过500]"`                         // 备注
}

// 新增预约请求体
type createRequest struct {
	CustomerId         uint64       `json:"customerId"`
	AppointmentTime    db.LocalTime `json:"appointmentTime"`
	AppointmentPurpose string       `json:"appointmentPurpose"`
}

// 更新预约请求体
type updateRequest struct {
	AppointmentTime    db.LocalTime `json:"appointmentTime"`
	AppointmentPurpose string       `json:"appointmentPurpose"`
	Notes              string       `json:"notes"`
}

// 导出行
type exportRow struct {
	Id                 uint64
	CustomerId         uint64
	CustomerName       string
	AppointmentTime    string
	AppointmentPurpose string
	Notes              string
	AppointmentStatus  string
}
