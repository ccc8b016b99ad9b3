package mockBackend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sgzs6721/mediflow-front/db"
)

type customerRequest struct {
	Name              string `json:"name" validate:"notblank,max=40" msg:"客户姓名[必填,字符长度不超过40]"`
	Gender            string `json:"gender"`
	Phone             string `json:"phone" validate:"mobile" msg:"手机号格式不正确"`
	IdCard            string `json:"idCard" validate:"max=30" msg:"身份证号[字符长度不超过30]"`
	Industry          string `json:"industry"`
	CompanyName       string `json:"companyName"`
	FinancialStrength string `json:"financialStrength"`
	CustomerNeeds     string `json:"customerNeeds" validate:"max=500" msg:"客户需求[字符长度不超过500]"`
	CustomerStatus    string `json:"customerStatus"`
}

type followUpRequest struct {
	VisitTime        db.LocalTime `json:"visitTime"`
	VisitMethod      string       `json:"visitMethod" validate:"required" msg:"请选择回访方式"`
	VisitContent     string       `json:"visitContent" validate:"notblank,max=1000" msg:"回访内容[必填,字符长度不超过1000]"`
	NextFollowUpTime db.LocalTime `json:"nextFollowUpTime"`
}

type businessOrderRequest struct {
	ProductName string  `json:"productName" validate:"notblank" msg:"产品名称[必填]"`
	OrderAmount float64 `json:"orderAmount" validate:"gt=0" msg:"订单金额必须大于0"`
}

type confirmPaymentRequest struct {
	PaidAmount float64 `json:"paidAmount" validate:"gte=0" msg:"实付金额不能为负数"`
}

type appointmentRequest struct {
	CustomerId         uint64       `json:"customerId"`
	AppointmentTime    db.LocalTime `json:"appointmentTime"`
	AppointmentPurpose string       `json:"appointmentPurpose" validate:"notblank,max=200" msg:"预约事项[必填,字符长度不超过200]"`
	Notes              string       `json:"notes" validate:"max=500" msg:"备注[字符长度不超过500]"`
}

type customerView struct {
	Customer            *Customer        `json:"customer"`
	FollowUpRecords     []*FollowUp      `json:"followUpRecords"`
	Orders              []*BusinessOrder `json:"orders"`
	LatestExamination   *PhysicalExam    `json:"latestExamination"`
	LatestMedicalRecord *MedicalRecord   `json:"latestMedicalRecord"`
	Appointments        []*Appointment   `json:"appointments"`
	TotalOrders         int              `json:"totalOrders"`
	TotalAmount         float64          `json:"totalAmount"`
	TotalFollowUps      int              `json:"totalFollowUps"`
}

// ---------- 客户 ----------

func (s *Server) listCustomers(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	status := c.Query("status")
	list, err := s.store.Customers.Find(func(cu *Customer) bool {
		if status != "" && cu.CustomerStatus != status {
			return false
		}
		return keyword == "" || strings.Contains(cu.Name, keyword) || strings.Contains(cu.Phone, keyword)
	})
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) getCustomer(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	ok(c, customer)
}

func (s *Server) createCustomer(c *gin.Context) {
	var req customerRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CustomerStatus == "" {
		req.CustomerStatus = CustomerLead
	}
	if !customerStatuses[req.CustomerStatus] {
		badRequest(c, fmt.Sprintf("客户状态[%s]不存在", req.CustomerStatus))
		return
	}

	customer := &Customer{OwnerId: currentUserId(c)}
	applyCustomer(customer, &req)
	if err := s.store.Customers.Insert(customer); err != nil {
		serverError(c, err)
		return
	}
	customer.MedicalRecordNo = medicalRecordNo(customer.Id)
	if err := s.store.Customers.Save(customer); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "客户创建成功", customer)
}

func (s *Server) updateCustomer(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	var req customerRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CustomerStatus == "" {
		req.CustomerStatus = customer.CustomerStatus
	}
	// 客户状态可以自由修改
	if !customerStatuses[req.CustomerStatus] {
		badRequest(c, fmt.Sprintf("客户状态[%s]不存在", req.CustomerStatus))
		return
	}
	applyCustomer(customer, &req)
	if err := s.store.Customers.Save(customer); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "客户更新成功", customer)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	id, valid := pathId(c, "id")
	if !valid {
		return
	}
	if err := s.store.Customers.Delete(id); err != nil {
		storeError(c, err, "客户不存在")
		return
	}
	okMessage(c, "客户已删除", nil)
}

func (s *Server) customerView(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	view := customerView{Customer: customer}
	var err error
	if view.FollowUpRecords, err = s.store.FollowUps.Find(func(f *FollowUp) bool { return f.CustomerId == customer.Id }); err != nil {
		serverError(c, err)
		return
	}
	if view.Orders, err = s.store.BusinessOrders.Find(func(o *BusinessOrder) bool { return o.CustomerId == customer.Id }); err != nil {
		serverError(c, err)
		return
	}
	if view.Appointments, err = s.store.Appointments.Find(func(a *Appointment) bool { return a.CustomerId == customer.Id }); err != nil {
		serverError(c, err)
		return
	}
	exams, err := s.store.Exams.Find(func(e *PhysicalExam) bool { return e.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	if len(exams) > 0 {
		view.LatestExamination = exams[len(exams)-1]
	}
	records, err := s.store.Records.Find(func(r *MedicalRecord) bool { return r.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	if len(records) > 0 {
		view.LatestMedicalRecord = records[len(records)-1]
	}

	view.TotalOrders = len(view.Orders)
	view.TotalFollowUps = len(view.FollowUpRecords)
	for _, o := range view.Orders {
		if o.OrderStatus != PaymentCancelled {
			view.TotalAmount += o.OrderAmount
		}
	}
	for _, a := range view.Appointments {
		a.CustomerName = customer.Name
	}
	ok(c, view)
}

// ---------- 回访 ----------

func (s *Server) listFollowUps(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	list, err := s.store.FollowUps.Find(func(f *FollowUp) bool { return f.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) createFollowUp(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	var req followUpRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.VisitTime.IsZero() {
		req.VisitTime = db.LocalTime(s.now())
	}
	f := &FollowUp{
		CustomerId:       customer.Id,
		VisitTime:        req.VisitTime,
		VisitMethod:      req.VisitMethod,
		VisitContent:     strings.TrimSpace(req.VisitContent),
		NextFollowUpTime: req.NextFollowUpTime,
		CreatedBy:        currentUserId(c),
	}
	if err := s.store.FollowUps.Insert(f); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "回访记录已添加", f)
}

// ---------- 业务订单 ----------

func (s *Server) listBusinessOrders(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	list, err := s.store.BusinessOrders.Find(func(o *BusinessOrder) bool { return o.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) createBusinessOrder(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	var req businessOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order := &BusinessOrder{
		CustomerId:  customer.Id,
		ProductName: strings.TrimSpace(req.ProductName),
		OrderAmount: req.OrderAmount,
		OrderStatus: PaymentPending,
	}
	if err := s.store.BusinessOrders.Insert(order); err != nil {
		serverError(c, err)
		return
	}
	order.OrderNo = fmt.Sprintf("SO%s%04d", s.now().Format("20060102"), order.Id)
	if err := s.store.BusinessOrders.Save(order); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "订单创建成功", order)
}

func (s *Server) confirmPayment(c *gin.Context) {
	id, valid := pathId(c, "id")
	if !valid {
		return
	}
	order, err := s.store.BusinessOrders.Get(id)
	if err != nil {
		storeError(c, err, "订单不存在")
		return
	}
	var req confirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	if order.OrderStatus != PaymentPending {
		reject(c, fmt.Sprintf("订单当前状态[%s]不允许确认收款", order.OrderStatus))
		return
	}
	order.PaidAmount = req.PaidAmount
	if order.PaidAmount == 0 {
		order.PaidAmount = order.OrderAmount
	}
	order.OrderStatus = PaymentPaid
	if err := s.store.BusinessOrders.Save(order); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "收款已确认", order)
}

// ---------- 预约 ----------

func (s *Server) listAppointments(c *gin.Context) {
	status := c.Query("status")
	date := c.Query("date")
	var customerId uint64
	if raw := c.Query("customerId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "参数[customerId]格式错误")
			return
		}
		customerId = id
	}
	if date != "" {
		if _, err := time.ParseInLocation(db.DateLayout, date, time.Local); err != nil {
			badRequest(c, "参数[date]格式错误")
			return
		}
	}

	list, err := s.store.Appointments.Find(func(a *Appointment) bool {
		if status != "" && a.AppointmentStatus != status {
			return false
		}
		if customerId != 0 && a.CustomerId != customerId {
			return false
		}
		return date == "" || a.AppointmentTime.DateString() == date
	})
	if err != nil {
		serverError(c, err)
		return
	}
	s.fillCustomerNames(list)
	ok(c, list)
}

func (s *Server) listCustomerAppointments(c *gin.Context) {
	customer, found := s.loadCustomer(c)
	if !found {
		return
	}
	list, err := s.store.Appointments.Find(func(a *Appointment) bool { return a.CustomerId == customer.Id })
	if err != nil {
		serverError(c, err)
		return
	}
	for _, a := range list {
		a.CustomerName = customer.Name
	}
	ok(c, list)
}

func (s *Server) getAppointment(c *gin.Context) {
	a, found := s.loadAppointment(c)
	if !found {
		return
	}
	ok(c, a)
}

func (s *Server) createAppointment(c *gin.Context) {
	var req appointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AppointmentTime.IsZero() {
		badRequest(c, "请选择预约时间")
		return
	}
	customer, err := s.store.Customers.Get(req.CustomerId)
	if err != nil {
		storeError(c, err, "客户不存在")
		return
	}
	a := &Appointment{
		CustomerId:         customer.Id,
		CustomerName:       customer.Name,
		AppointmentTime:    req.AppointmentTime,
		AppointmentPurpose: strings.TrimSpace(req.AppointmentPurpose),
		Notes:              strings.TrimSpace(req.Notes),
		AppointmentStatus:  AppointmentScheduled,
	}
	if err := s.store.Appointments.Insert(a); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "预约创建成功", a)
}

func (s *Server) updateAppointment(c *gin.Context) {
	a, found := s.loadAppointment(c)
	if !found {
		return
	}
	var req appointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if a.AppointmentStatus != AppointmentScheduled {
		reject(c, fmt.Sprintf("预约当前状态[%s]不允许修改", a.AppointmentStatus))
		return
	}
	if !req.AppointmentTime.IsZero() {
		a.AppointmentTime = req.AppointmentTime
	}
	a.AppointmentPurpose = strings.TrimSpace(req.AppointmentPurpose)
	a.Notes = strings.TrimSpace(req.Notes)
	if err := s.store.Appointments.Save(a); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "预约已更新", a)
}

func (s *Server) completeAppointment(c *gin.Context) {
	s.transitAppointment(c, AppointmentCompleted, "完成")
}

// cancelAppointment DELETE表示取消,数据保留
func (s *Server) cancelAppointment(c *gin.Context) {
	s.transitAppointment(c, AppointmentCancelled, "取消")
}

func (s *Server) transitAppointment(c *gin.Context, dst, action string) {
	a, found := s.loadAppointment(c)
	if !found {
		return
	}
	if a.AppointmentStatus != AppointmentScheduled {
		reject(c, fmt.Sprintf("预约当前状态[%s]不允许%s", a.AppointmentStatus, action))
		return
	}
	a.AppointmentStatus = dst
	if err := s.store.Appointments.Save(a); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "预约已"+action, a)
}

// ---------- 公共 ----------

func (s *Server) loadCustomer(c *gin.Context) (*Customer, bool) {
	id, valid := pathId(c, "id")
	if !valid {
		return nil, false
	}
	customer, err := s.store.Customers.Get(id)
	if err != nil {
		storeError(c, err, "客户不存在")
		return nil, false
	}
	return customer, true
}

func (s *Server) loadAppointment(c *gin.Context) (*Appointment, bool) {
	id, valid := pathId(c, "id")
	if !valid {
		return nil, false
	}
	a, err := s.store.Appointments.Get(id)
	if err != nil {
		storeError(c, err, "预约不存在")
		return nil, false
	}
	if customer, err := s.store.Customers.Get(a.CustomerId); err == nil {
		a.CustomerName = customer.Name
	}
	return a, true
}

func (s *Server) fillCustomerNames(list []*Appointment) {
	names := map[uint64]string{}
	for _, a := range list {
		name, cached := names[a.CustomerId]
		if !cached {
			if customer, err := s.store.Customers.Get(a.CustomerId); err == nil {
				name = customer.Name
			}
			names[a.CustomerId] = name
		}
		a.CustomerName = name
	}
}

func applyCustomer(customer *Customer, req *customerRequest) {
	customer.Name = strings.TrimSpace(req.Name)
	customer.Gender = req.Gender
	customer.Phone = req.Phone
	customer.IdCard = req.IdCard
	customer.Industry = req.Industry
	customer.CompanyName = req.CompanyName
	customer.FinancialStrength = req.FinancialStrength
	customer.CustomerNeeds = req.CustomerNeeds
	customer.CustomerStatus = req.CustomerStatus
}
