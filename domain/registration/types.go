package registration

import (
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/router"
)

// 审核状态
type Status string

const (
	StatusPending  Status = "PENDING"  // 待审核
	StatusApproved Status = "APPROVED" // 已通过
	StatusRejected Status = "REJECTED" // 已拒绝
)

// 列表查询全部状态
const StatusAll Status = "ALL"

var statusNames = map[Status]string{
	StatusPending:  "待审核",
	StatusApproved: "已通过",
	StatusRejected: "已拒绝",
}

func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// 注册申请
type Registration struct {
	Id           uint64       `json:"id"`
	Username     string       `json:"username"`
	RealName     string       `json:"realName"`
	Phone        string       `json:"phone"`
	AppliedRole  router.Role  `json:"appliedRole"`
	Reason       string       `json:"reason"`
	Status       Status       `json:"status"`
	RejectReason string       `json:"rejectReason"`
	ReviewedAt   db.LocalTime `json:"reviewedAt"`
	CreatedAt    db.LocalTime `json:"createdAt"`
}

func (r *Registration) GetId() uint64 {
	return r.Id
}

// 拒绝申请
type RejectForm struct {
	RejectReason string `json:"rejectReason" validate:"notblank,max=500" msg:"请填写拒绝原因"`
}
