package mockBackend

import "fmt"

// 后端状态值
const (
	RegistrationPending  = "PENDING"
	RegistrationApproved = "APPROVED"
	RegistrationRejected = "REJECTED"

	CustomerLead        = "LEAD"
	CustomerPatient     = "PATIENT"
	CustomerInTreatment = "IN_TREATMENT"
	CustomerCompleted   = "COMPLETED"

	AppointmentScheduled = "SCHEDULED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"

	OrderPending    = "PENDING"
	OrderInProgress = "IN_PROGRESS"
	OrderCompleted  = "COMPLETED"
	OrderAbnormal   = "ABNORMAL"

	PaymentPending   = "PENDING"
	PaymentPaid      = "PAID"
	PaymentCancelled = "CANCELLED"

	ExecutionNormal   = "NORMAL"
	ExecutionAbnormal = "ABNORMAL"
)

var customerStatuses = map[string]bool{
	CustomerLead: true, CustomerPatient: true, CustomerInTreatment: true, CustomerCompleted: true,
}

var permissionTypes = map[string]bool{"EDITABLE": true, "READONLY": true, "NONE": true}

// 医嘱未结束
func orderOpen(status string) bool {
	return status == OrderPending || status == OrderInProgress
}

func medicalRecordNo(customerId uint64) string {
	return fmt.Sprintf("MR%06d", customerId)
}
