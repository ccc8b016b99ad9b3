package mockBackend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/tool"
)

type loginRequest struct {
	Username string `json:"username" validate:"required" msg:"请输入用户名"`
	Password string `json:"password" validate:"required" msg:"请输入密码"`
}

type loginResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	RealName string      `json:"realName"`
	Role     router.Role `json:"role"`
}

type profileResponse struct {
	Username string      `json:"username"`
	RealName string      `json:"realName"`
	Role     router.Role `json:"role"`
}

type registerRequest struct {
	Username    string `json:"username" validate:"username" msg:"用户名[4-20位字母、数字或下划线]"`
	Password    string `json:"password" validate:"password" msg:"密码[至少8位,包含大小写字母和数字]"`
	RealName    string `json:"realName" validate:"notblank,max=40" msg:"真实姓名[必填]"`
	Phone       string `json:"phone" validate:"omitempty,mobile" msg:"手机号格式不正确"`
	AppliedRole string `json:"appliedRole" validate:"required" msg:"请选择申请角色"`
	Reason      string `json:"reason" validate:"max=500" msg:"申请理由[字符长度不超过500]"`
}

// bindJSON 解析并校验请求体
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "请求参数格式错误")
		return false
	}
	if fields := tool.Validate(req); len(fields) > 0 {
		badRequest(c, tool.JoinMessages(fields))
		return false
	}
	return true
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := First(s.store.Users, func(u *User) bool { return u.Username == req.Username })
	if err != nil && !errors.Is(err, ErrNotFound) {
		serverError(c, err)
		return
	}
	if user == nil || !CheckPassword(req.Password, user.PasswordHash) {
		reject(c, "用户名或密码错误")
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		serverError(c, err)
		return
	}
	okMessage(c, "登录成功", loginResponse{Token: token, Username: user.Username, RealName: user.RealName, Role: user.Role})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := router.ParseRole(req.AppliedRole)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	// 用户名不能与已有账号或待审核申请重复
	if _, err := First(s.store.Users, func(u *User) bool { return u.Username == req.Username }); err == nil {
		reject(c, "用户名已存在")
		return
	}
	pending, err := s.store.Registrations.Find(func(r *Registration) bool {
		return r.Username == req.Username && r.Status == RegistrationPending
	})
	if err != nil {
		serverError(c, err)
		return
	}
	if len(pending) > 0 {
		reject(c, "该用户名已提交注册申请，请等待审核")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		serverError(c, err)
		return
	}
	reg := &Registration{
		Username:     req.Username,
		PasswordHash: hash,
		RealName:     strings.TrimSpace(req.RealName),
		Phone:        req.Phone,
		AppliedRole:  role,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       RegistrationPending,
	}
	if err := s.store.Registrations.Insert(reg); err != nil {
		serverError(c, err)
		return
	}
	APIResponse(c, http.StatusOK, true, "注册申请已提交，请等待管理员审核", reg)
}

func (s *Server) currentUser(c *gin.Context) {
	user, err := s.store.Users.Get(currentUserId(c))
	if err != nil {
		APIResponse(c, http.StatusUnauthorized, false, "用户不存在", nil)
		return
	}
	ok(c, profileResponse{Username: user.Username, RealName: user.RealName, Role: user.Role})
}

func (s *Server) logout(c *gin.Context) {
	okMessage(c, "已退出登录", nil)
}
