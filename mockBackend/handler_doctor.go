package mockBackend

import (
	"fmt"
	"math"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgzs6721/mediflow-front/db"
)

type recordRequest struct {
	CustomerId           uint64 `json:"customerId"`
	ChiefComplaint       string `json:"chiefComplaint" validate:"notblank,max=500" msg:"主诉[必填,字符长度不超过500]"`
	PresentIllness       string `json:"presentIllness"`
	PastHistory          string `json:"pastHistory"`
	AllergyHistory       string `json:"allergyHistory"`
	DiagnosisConclusion  string `json:"diagnosisConclusion" validate:"notblank,max=500" msg:"诊断结论[必填,字符长度不超过500]"`
	DiagnosisBasis       string `json:"diagnosisBasis"`
	TreatmentPlanName    string `json:"treatmentPlanName"`
	TreatmentCycle       string `json:"treatmentCycle"`
	TreatmentFrequency   string `json:"treatmentFrequency"`
	TreatmentDescription string `json:"treatmentDescription"`
}

type prescriptionRequest struct {
	MedicalRecordId uint64 `json:"medicalRecordId" validate:"gt=0" msg:"病历ID[必填]"`
	DrugName        string `json:"drugName" validate:"notblank" msg:"药品名称[必填]"`
	Specification   string `json:"specification"`
	UsageMethod     string `json:"usageMethod" validate:"notblank" msg:"用法[必填]"`
	Dosage          string `json:"dosage" validate:"notblank" msg:"用量[必填]"`
	Frequency       string `json:"frequency" validate:"notblank" msg:"频次[必填]"`
	Duration        string `json:"duration" validate:"notblank" msg:"疗程[必填]"`
	Notes           string `json:"notes"`
}

type examRequest struct {
	CustomerId        uint64  `json:"customerId" validate:"gt=0" msg:"患者ID[必填]"`
	Height            float64 `json:"height" validate:"gt=0,lt=300" msg:"身高[必填,单位cm]"`
	Weight            float64 `json:"weight" validate:"gt=0,lt=500" msg:"体重[必填,单位kg]"`
	SystolicPressure  int     `json:"systolicPressure" validate:"gte=0" msg:"收缩压不能为负数"`
	DiastolicPressure int     `json:"diastolicPressure" validate:"gte=0" msg:"舒张压不能为负数"`
	HeartRate         int     `json:"heartRate" validate:"gte=0" msg:"心率不能为负数"`
}

// ---------- 患者 ----------

// doctorQueue 分配给我且尚未接诊的患者
func (s *Server) doctorQueue(c *gin.Context) {
	me := currentUserId(c)
	list, err := s.store.Customers.Find(func(cu *Customer) bool {
		return cu.AssignedDoctorId == me && cu.CustomerStatus == CustomerPatient
	})
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) doctorPatients(c *gin.Context) {
	me := currentUserId(c)
	list, err := s.store.Customers.Find(func(cu *Customer) bool { return cu.AssignedDoctorId == me })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) patientDetail(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	ok(c, customer)
}

func (s *Server) patientRecords(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	list, err := s.store.Records.Find(func(r *MedicalRecord) bool { return r.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

// ---------- 病历 ----------

func (s *Server) createRecord(c *gin.Context) {
	var req recordRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := s.store.Customers.Get(req.CustomerId)
	if err != nil {
		storeError(c, err, "患者不存在")
		return
	}
	record := &MedicalRecord{
		CustomerId: customer.Id,
		DoctorId:   currentUserId(c),
		VisitTime:  db.LocalTime(s.now()),
	}
	applyRecord(record, &req)
	if err := s.store.Records.Insert(record); err != nil {
		serverError(c, err)
		return
	}

	// 接诊后进入治疗中
	if customer.CustomerStatus == CustomerPatient || customer.CustomerStatus == CustomerLead {
		customer.CustomerStatus = CustomerInTreatment
		if err := s.store.Customers.Save(customer); err != nil {
			serverError(c, err)
			return
		}
	}
	okMessage(c, "病历已保存", record)
}

func (s *Server) updateRecord(c *gin.Context) {
	record, found := s.loadRecord(c)
	if !found {
		return
	}
	var req recordRequest
	if !bindJSON(c, &req) {
		return
	}
	if record.DoctorId != currentUserId(c) {
		reject(c, "只能修改自己创建的病历")
		return
	}
	applyRecord(record, &req)
	if err := s.store.Records.Save(record); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "病历已更新", record)
}

// sendOrder 下达医嘱,每份病历只能发送一次
func (s *Server) sendOrder(c *gin.Context) {
	record, found := s.loadRecord(c)
	if !found {
		return
	}
	if record.DoctorId != currentUserId(c) {
		reject(c, "只能为自己创建的病历下达医嘱")
		return
	}
	existing, err := s.store.Orders.Find(func(o *MedicalOrder) bool { return o.MedicalRecordId == record.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	if len(existing) > 0 {
		reject(c, "该病历已发送医嘱，不能重复发送")
		return
	}

	order := &MedicalOrder{
		CustomerId:      record.CustomerId,
		MedicalRecordId: record.Id,
		DoctorId:        record.DoctorId,
		OrderStatus:     OrderPending,
		SentAt:          db.LocalTime(s.now()),
	}
	if err := s.store.Orders.Insert(order); err != nil {
		serverError(c, err)
		return
	}
	s.fillOrderNames([]*MedicalOrder{order})
	okMessage(c, "医嘱已发送", order)
}

// ---------- 处方 ----------

func (s *Server) listPrescriptions(c *gin.Context) {
	record, found := s.loadRecord(c)
	if !found {
		return
	}
	list, err := s.store.Prescriptions.Find(func(p *Prescription) bool { return p.MedicalRecordId == record.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) createPrescription(c *gin.Context) {
	var req prescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := s.store.Records.Get(req.MedicalRecordId)
	if err != nil {
		storeError(c, err, "病历不存在")
		return
	}
	p := &Prescription{
		MedicalRecordId: record.Id,
		CustomerId:      record.CustomerId,
		DrugName:        strings.TrimSpace(req.DrugName),
		Specification:   req.Specification,
		UsageMethod:     req.UsageMethod,
		Dosage:          req.Dosage,
		Frequency:       req.Frequency,
		Duration:        req.Duration,
		Notes:           req.Notes,
	}
	if err := s.store.Prescriptions.Insert(p); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "处方已添加", p)
}

// ---------- 体检 ----------

func (s *Server) createExam(c *gin.Context) {
	var req examRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := s.store.Customers.Get(req.CustomerId); err != nil {
		storeError(c, err, "患者不存在")
		return
	}
	exam := &PhysicalExam{
		CustomerId:        req.CustomerId,
		Height:            req.Height,
		Weight:            req.Weight,
		Bmi:               bmi(req.Height, req.Weight),
		SystolicPressure:  req.SystolicPressure,
		DiastolicPressure: req.DiastolicPressure,
		HeartRate:         req.HeartRate,
		ExamTime:          db.LocalTime(s.now()),
		DoctorId:          currentUserId(c),
	}
	if err := s.store.Exams.Insert(exam); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "体检数据已保存", exam)
}

func (s *Server) listExams(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	list, err := s.store.Exams.Find(func(e *PhysicalExam) bool { return e.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

// latestExam 没有体检数据时data为空
func (s *Server) latestExam(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	list, err := s.store.Exams.Find(func(e *PhysicalExam) bool { return e.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	if len(list) == 0 {
		ok(c, nil)
		return
	}
	ok(c, list[len(list)-1])
}

// ---------- 公共 ----------

func (s *Server) loadRecord(c *gin.Context) (*MedicalRecord, bool) {
	id, valid := pathId(c, "id")
	if !valid {
		return nil, false
	}
	record, err := s.store.Records.Get(id)
	if err != nil {
		storeError(c, err, fmt.Sprintf("病历[%d]不存在", id))
		return nil, false
	}
	return record, true
}

func applyRecord(record *MedicalRecord, req *recordRequest) {
	record.ChiefComplaint = strings.TrimSpace(req.ChiefComplaint)
	record.PresentIllness = req.PresentIllness
	record.PastHistory = req.PastHistory
	record.AllergyHistory = req.AllergyHistory
	record.DiagnosisConclusion = strings.TrimSpace(req.DiagnosisConclusion)
	record.DiagnosisBasis = req.DiagnosisBasis
	record.TreatmentPlanName = req.TreatmentPlanName
	record.TreatmentCycle = req.TreatmentCycle
	record.TreatmentFrequency = req.TreatmentFrequency
	record.TreatmentDescription = req.TreatmentDescription
}

// bmi 体重(kg)/身高(m)²,保留两位小数
func bmi(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return math.Round(weightKg/(h*h)*100) / 100
}
