package patient

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/sgzs6721/mediflow-front/domain/customer"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/tool"
)

// 患者即客户
type Patient = customer.Customer

// 医生
type Doctor struct {
	Id       uint64 `json:"id"`
	Username string `json:"username"`
	RealName string `json:"realName"`
}

type assignForm struct {
	PatientId uint64 `json:"patientId" validate:"gt=0" msg:"请选择患者"`
	DoctorId  uint64 `json:"doctorId" validate:"gt=0" msg:"请选择医生"`
}

// Client 医生和护士工作台的患者队列
type Client struct {
	gw *gateway.Client
}

func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Queue 分配给我、尚未接诊的患者
func (c *Client) Queue(ctx context.Context) ([]*Patient, error) {
	return c.list(ctx, "/doctor/queue")
}

// Mine 分配给我的全部患者
func (c *Client) Mine(ctx context.Context) ([]*Patient, error) {
	return c.list(ctx, "/doctor/patients")
}

func (c *Client) Detail(ctx context.Context, id uint64) (*Patient, error) {
	var data Patient
	if err := c.gw.Get(ctx, fmt.Sprintf("/doctor/patients/%d", id), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Waiting 护士工作台待分配医生的患者
func (c *Client) Waiting(ctx context.Context) ([]*Patient, error) {
	return c.list(ctx, "/nurse/waiting-patients")
}

func (c *Client) Doctors(ctx context.Context) ([]*Doctor, error) {
	var list []*Doctor
	if err := c.gw.Get(ctx, "/nurse/doctors", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AssignDoctor 为患者分配医生
func (c *Client) AssignDoctor(ctx context.Context, patientId, doctorId uint64) (*Patient, error) {
	if fields := tool.Validate(&assignForm{PatientId: patientId, DoctorId: doctorId}); len(fields) > 0 {
		return nil, c.gw.Surface(gateway.NewValidationError(fields))
	}
	var data Patient
	query := map[string]string{"doctorId": strconv.FormatUint(doctorId, 10)}
	if err := c.gw.Do(ctx, http.MethodPost, fmt.Sprintf("/nurse/patients/%d/assign-doctor", patientId), query, nil, &data); err != nil {
		return nil, err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "医生分配成功")
	return &data, nil
}

// list 按创建时间排序
func (c *Client) list(ctx context.Context, path string) ([]*Patient, error) {
	var list []*Patient
	if err := c.gw.Get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt.ToTime())
	})
	return list, nil
}
