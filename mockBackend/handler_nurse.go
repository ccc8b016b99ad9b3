package mockBackend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/router"
)

type executeRequest struct {
	ExecutionContent    string `json:"executionContent" validate:"notblank,max=1000" msg:"执行内容[必填,字符长度不超过1000]"`
	ExecutionStatus     string `json:"executionStatus" validate:"required" msg:"请选择执行状态"`
	AbnormalDescription string `json:"abnormalDescription" validate:"required_if=ExecutionStatus ABNORMAL" msg:"执行异常时必须填写异常描述"`
	PatientReaction     string `json:"patientReaction"`
}

type doctorResponse struct {
	Id       uint64 `json:"id"`
	Username string `json:"username"`
	RealName string `json:"realName"`
}

// waitingPatients 待分配医生的患者
func (s *Server) waitingPatients(c *gin.Context) {
	list, err := s.store.Customers.Find(func(cu *Customer) bool {
		return cu.CustomerStatus == CustomerPatient && cu.AssignedDoctorId == 0
	})
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) listDoctors(c *gin.Context) {
	users, err := s.store.Users.Find(func(u *User) bool { return u.Role == router.RoleDoctor })
	if err != nil {
		serverError(c, err)
		return
	}
	res := make([]doctorResponse, 0, len(users))
	for _, u := range users {
		res = append(res, doctorResponse{Id: u.Id, Username: u.Username, RealName: u.RealName})
	}
	ok(c, res)
}

func (s *Server) assignDoctor(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	doctorId, err := strconv.ParseUint(c.Query("doctorId"), 10, 64)
	if err != nil || doctorId == 0 {
		badRequest(c, "请选择医生")
		return
	}
	doctor, err := s.store.Users.Get(doctorId)
	if err != nil || doctor.Role != router.RoleDoctor {
		reject(c, "医生不存在")
		return
	}
	if customer.CustomerStatus != CustomerPatient {
		reject(c, fmt.Sprintf("患者当前状态[%s]不能分配医生", customer.CustomerStatus))
		return
	}
	customer.AssignedDoctorId = doctor.Id
	if err := s.store.Customers.Save(customer); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "已分配给"+doctor.RealName, customer)
}

// listOrders 默认只返回未结束的医嘱
func (s *Server) listOrders(c *gin.Context) {
	status := c.Query("status")
	list, err := s.store.Orders.Find(func(o *MedicalOrder) bool {
		switch status {
		case "":
			return orderOpen(o.OrderStatus)
		case "ALL":
			return true
		default:
			return o.OrderStatus == status
		}
	})
	if err != nil {
		serverError(c, err)
		return
	}
	s.fillOrderNames(list)
	ok(c, list)
}

func (s *Server) getOrder(c *gin.Context) {
	order, found := s.loadOrder(c)
	if !found {
		return
	}
	ok(c, order)
}

// executeOrder 追加执行记录,待执行的医嘱进入执行中
func (s *Server) executeOrder(c *gin.Context) {
	order, found := s.loadOrder(c)
	if !found {
		return
	}
	var req executeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ExecutionStatus != ExecutionNormal && req.ExecutionStatus != ExecutionAbnormal {
		badRequest(c, "执行状态[NORMAL或ABNORMAL]")
		return
	}
	if !orderOpen(order.OrderStatus) {
		reject(c, fmt.Sprintf("医嘱当前状态[%s]不允许执行", order.OrderStatus))
		return
	}

	execution := &Execution{
		OrderId:             order.Id,
		NurseId:             currentUserId(c),
		ExecutionContent:    strings.TrimSpace(req.ExecutionContent),
		ExecutionStatus:     req.ExecutionStatus,
		AbnormalDescription: strings.TrimSpace(req.AbnormalDescription),
		PatientReaction:     strings.TrimSpace(req.PatientReaction),
		ExecutedAt:          db.LocalTime(s.now()),
	}
	if err := s.store.Executions.Insert(execution); err != nil {
		serverError(c, err)
		return
	}
	if order.OrderStatus == OrderPending {
		order.OrderStatus = OrderInProgress
		if err := s.store.Orders.Save(order); err != nil {
			serverError(c, err)
			return
		}
	}
	okMessage(c, "执行记录已保存", execution)
}

func (s *Server) completeOrder(c *gin.Context) {
	s.transitOrder(c, OrderCompleted, "完成")
}

func (s *Server) abnormalOrder(c *gin.Context) {
	s.transitOrder(c, OrderAbnormal, "标记异常")
}

func (s *Server) transitOrder(c *gin.Context, dst, action string) {
	order, found := s.loadOrder(c)
	if !found {
		return
	}
	if !orderOpen(order.OrderStatus) {
		reject(c, fmt.Sprintf("医嘱当前状态[%s]不允许%s", order.OrderStatus, action))
		return
	}
	order.OrderStatus = dst
	if err := s.store.Orders.Save(order); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "医嘱已"+action, order)
}

func (s *Server) listExecutions(c *gin.Context) {
	order, found := s.loadOrder(c)
	if !found {
		return
	}
	list, err := s.store.Executions.Find(func(e *Execution) bool { return e.OrderId == order.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) loadOrder(c *gin.Context) (*MedicalOrder, bool) {
	id, valid := pathId(c, "id")
	if !valid {
		return nil, false
	}
	order, err := s.store.Orders.Get(id)
	if err != nil {
		storeError(c, err, "医嘱不存在")
		return nil, false
	}
	s.fillOrderNames([]*MedicalOrder{order})
	return order, true
}

func (s *Server) fillOrderNames(list []*MedicalOrder) {
	for _, o := range list {
		if customer, err := s.store.Customers.Get(o.CustomerId); err == nil {
			o.CustomerName = customer.Name
		}
	}
}
