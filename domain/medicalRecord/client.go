package medicalRecord

import (
	"context"
	"fmt"
	"strings"

	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/tool"
)

const (
	recordPath  = "/doctor/medical-records"
	patientPath = "/doctor/patients"
)

// Client 病历、处方和体检
type Client struct {
	gw *gateway.Client
}

func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Create 新建病历,患者进入治疗中
func (c *Client) Create(ctx context.Context, customerId uint64, form *RecordForm) (*MedicalRecord, error) {
	req, err := c.recordRequest(form)
	if err != nil {
		return nil, c.gw.Surface(err)
	}
	req.CustomerId = customerId

	var data MedicalRecord
	if err := c.gw.Post(ctx, recordPath, req, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "病历保存成功")
	return &data, nil
}

func (c *Client) Update(ctx context.Context, id uint64, form *RecordForm) (*MedicalRecord, error) {
	req, err := c.recordRequest(form)
	if err != nil {
		return nil, c.gw.Surface(err)
	}
	var data MedicalRecord
	if err := c.gw.Put(ctx, fmt.Sprintf("%s/%d", recordPath, id), req, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "病历更新成功")
	return &data, nil
}

// History 患者的历史病历
func (c *Client) History(ctx context.Context, customerId uint64) ([]*MedicalRecord, error) {
	var list []*MedicalRecord
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d/records", patientPath, customerId), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddPrescription 为病历开处方
func (c *Client) AddPrescription(ctx context.Context, recordId uint64, form *PrescriptionForm) (*Prescription, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return nil, c.gw.Surface(gateway.NewValidationError(fields))
	}
	var req prescriptionRequest
	if err := tool.Copy(&req, form); err != nil {
		return nil, err
	}
	req.MedicalRecordId = recordId
	req.DrugName = strings.TrimSpace(req.DrugName)

	var data Prescription
	if err := c.gw.Post(ctx, "/doctor/prescriptions", req, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "处方添加成功")
	return &data, nil
}

func (c *Client) Prescriptions(ctx context.Context, recordId uint64) ([]*Prescription, error) {
	var list []*Prescription
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d/prescriptions", recordPath, recordId), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateExam 录入体检数据,BMI由后端计算
func (c *Client) CreateExam(ctx context.Context, customerId uint64, form *ExamForm) (*PhysicalExam, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return nil, c.gw.Surface(gateway.NewValidationError(fields))
	}
	var req examRequest
	if err := tool.Copy(&req, form); err != nil {
		return nil, c.gw.Surface(gateway.ValidationMessage("height", "身高或体重格式错误"))
	}
	if req.Height <= 0 || req.Weight <= 0 {
		return nil, c.gw.Surface(gateway.ValidationMessage("height", "身高和体重必须大于0"))
	}
	req.CustomerId = customerId

	var data PhysicalExam
	if err := c.gw.Post(ctx, "/doctor/physical-exams", req, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "体检数据保存成功")
	return &data, nil
}

func (c *Client) Exams(ctx context.Context, customerId uint64) ([]*PhysicalExam, error) {
	var list []*PhysicalExam
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d/physical-exams", patientPath, customerId), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// LatestExam 最近一次体检,没有时返回nil
func (c *Client) LatestExam(ctx context.Context, customerId uint64) (*PhysicalExam, error) {
	var data PhysicalExam
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/%d/physical-exams/latest", patientPath, customerId), nil, &data); err != nil {
		return nil, err
	}
	if data.Id == 0 {
		return nil, nil
	}
	return &data, nil
}

func (c *Client) recordRequest(form *RecordForm) (*recordRequest, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return nil, gateway.NewValidationError(fields)
	}
	var req recordRequest
	if err := tool.Copy(&req, form); err != nil {
		return nil, err
	}
	req.ChiefComplaint = strings.TrimSpace(req.ChiefComplaint)
	req.DiagnosisConclusion = strings.TrimSpace(req.DiagnosisConclusion)
	return &req, nil
}
