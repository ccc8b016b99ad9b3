package mockBackend

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/router"
)

type permissionRequest struct {
	PermissionType string `json:"permissionType" validate:"required" msg:"权限类型[EDITABLE、READONLY或NONE]"`
}

type rejectRequest struct {
	RejectReason string `json:"rejectReason" validate:"notblank,max=500" msg:"请填写拒绝原因"`
}

type checkResponse struct {
	RoleName       router.Role `json:"roleName"`
	DataField      string      `json:"dataField"`
	PermissionType string      `json:"permissionType"`
}

// ---------- 字段权限 ----------

func (s *Server) listPermissions(c *gin.Context) {
	list, err := s.store.Permissions.Find(nil)
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) rolePermissions(c *gin.Context) {
	role, err := router.ParseRole(c.Param("role"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	list, err := s.store.Permissions.Find(func(p *Permission) bool { return p.RoleName == role })
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) updatePermission(c *gin.Context) {
	id, valid := pathId(c, "id")
	if !valid {
		return
	}
	p, err := s.store.Permissions.Get(id)
	if err != nil {
		storeError(c, err, "权限配置不存在")
		return
	}
	var req permissionRequest
	if !bindJSON(c, &req) {
		return
	}
	if !permissionTypes[req.PermissionType] {
		badRequest(c, "权限类型[EDITABLE、READONLY或NONE]")
		return
	}
	p.PermissionType = req.PermissionType
	if err := s.store.Permissions.Save(p); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "权限已更新", p)
}

// clearPermissionCache 模拟后端没有缓存,直接返回成功
func (s *Server) clearPermissionCache(c *gin.Context) {
	okMessage(c, "权限缓存已清除", nil)
}

// checkPermission 未配置的字段视为无权限
func (s *Server) checkPermission(c *gin.Context) {
	role, err := router.ParseRole(c.Query("roleName"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	field := c.Query("dataField")
	if field == "" {
		badRequest(c, "参数[dataField]不能为空")
		return
	}
	res := checkResponse{RoleName: role, DataField: field, PermissionType: "NONE"}
	p, err := First(s.store.Permissions, func(p *Permission) bool { return p.RoleName == role && p.DataField == field })
	if err == nil {
		res.PermissionType = p.PermissionType
	}
	ok(c, res)
}

// ---------- 注册审核 ----------

func (s *Server) listRegistrations(c *gin.Context) {
	status := strings.ToUpper(c.DefaultQuery("status", RegistrationPending))
	list, err := s.store.Registrations.Find(func(r *Registration) bool {
		return status == "ALL" || r.Status == status
	})
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, list)
}

func (s *Server) approveRegistration(c *gin.Context) {
	reg, found := s.loadPendingRegistration(c)
	if !found {
		return
	}
	if _, err := First(s.store.Users, func(u *User) bool { return u.Username == reg.Username }); err == nil {
		reject(c, "用户名已存在")
		return
	}

	user := &User{
		Username:     reg.Username,
		PasswordHash: reg.PasswordHash,
		RealName:     reg.RealName,
		Phone:        reg.Phone,
		Role:         reg.AppliedRole,
	}
	if err := s.store.Users.Insert(user); err != nil {
		serverError(c, err)
		return
	}
	reg.Status = RegistrationApproved
	reg.ReviewedAt = db.LocalTime(s.now())
	if err := s.store.Registrations.Save(reg); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "已通过注册申请", reg)
}

func (s *Server) rejectRegistration(c *gin.Context) {
	reg, found := s.loadPendingRegistration(c)
	if !found {
		return
	}
	var req rejectRequest
	if !bindJSON(c, &req) {
		return
	}
	reg.Status = RegistrationRejected
	reg.RejectReason = strings.TrimSpace(req.RejectReason)
	reg.ReviewedAt = db.LocalTime(s.now())
	if err := s.store.Registrations.Save(reg); err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "已拒绝注册申请", reg)
}

// loadPendingRegistration 只有待审核的申请可以处理
func (s *Server) loadPendingRegistration(c *gin.Context) (*Registration, bool) {
	id, valid := pathId(c, "id")
	if !valid {
		return nil, false
	}
	reg, err := s.store.Registrations.Get(id)
	if err != nil {
		storeError(c, err, "注册申请不存在")
		return nil, false
	}
	if reg.Status != RegistrationPending {
		reject(c, fmt.Sprintf("注册申请已处理[%s]", reg.Status))
		return nil, false
	}
	return reg, true
}
