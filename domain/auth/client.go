package auth

import (
	"context"
	"strings"

	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/sgzs6721/mediflow-front/tool"
	"go.uber.org/zap"
)

// 登录表单
type LoginForm struct {
	Username string `json:"username" validate:"notblank" msg:"请输入用户名"`
	Password string `json:"password" validate:"required" msg:"请输入密码"`
}

// 注册表单
type RegisterForm struct {
	Username        string `json:"username" validate:"username" msg:"用户名只能包含字母、数字和下划线，长度4-20位"`
	Password        string `json:"password" validate:"password" msg:"密码至少8位，必须包含大小写字母和数字"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password" msg:"两次输入的密码不一致"`
	RealName        string `json:"realName" validate:"notblank,max=40" msg:"请输入真实姓名"`
	Phone           string `json:"phone" validate:"omitempty,mobile" msg:"请输入正确的手机号"`
	AppliedRole     string `json:"appliedRole" validate:"oneof=BUSINESS BUSINESS_ADMIN DOCTOR NURSE" msg:"请选择申请角色"`
	Reason          string `json:"reason" validate:"max=500" msg:"申请理由[字符长度不超过500]"`
}

// 登录返回
type LoginResult struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	RealName string      `json:"realName"`
	Role     router.Role `json:"role"`
}

// 注册请求体(不含确认密码)
type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	RealName    string `json:"realName"`
	Phone       string `json:"phone"`
	AppliedRole string `json:"appliedRole"`
	Reason      string `json:"reason,omitempty"`
}

// Client 登录、注册和当前用户
type Client struct {
	gw      *gateway.Client
	session *session.Store
}

func NewClient(gw *gateway.Client, store *session.Store) *Client {
	return &Client{gw: gw, session: store}
}

// Login 登录成功后保存会话,返回角色首页
func (c *Client) Login(ctx context.Context, form *LoginForm) (string, error) {
	if fields := tool.Validate(form); len(fields) > 0 {
		return "", c.gw.Surface(gateway.NewValidationError(fields))
	}

	var res LoginResult
	body := LoginForm{Username: strings.TrimSpace(form.Username), Password: form.Password}
	if err := c.gw.Post(ctx, "/auth/login", body, &res); err != nil {
		return "", err
	}
	role, err := router.ParseRole(string(res.Role))
	if err != nil {
		return "", c.gw.Surface(err)
	}
	profile := session.Profile{Username: res.Username, RealName: res.RealName, Role: role}
	if err := c.session.Login(ctx, res.Token, profile); err != nil {
		return "", c.gw.Surface(err)
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "登录成功")
	return router.HomeRoute(role), nil
}

// Register 提交注册申请,等待管理员审核
func (c *Client) Register(ctx context.Context, form *RegisterForm) error {
	if fields := tool.Validate(form); len(fields) > 0 {
		return c.gw.Surface(gateway.NewValidationError(fields))
	}
	var req registerRequest
	if err := tool.Copy(&req, form); err != nil {
		return err
	}
	req.RealName = strings.TrimSpace(req.RealName)
	req.Reason = strings.TrimSpace(req.Reason)

	if err := c.gw.Post(ctx, "/auth/register", req, nil); err != nil {
		return err
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "注册申请已提交，请等待管理员审核")
	return nil
}

// CurrentUser 从后端读取当前用户
func (c *Client) CurrentUser(ctx context.Context) (*session.Profile, error) {
	var p session.Profile
	if err := c.gw.Get(ctx, "/auth/current-user", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Revalidate 启动时校验会话
func (c *Client) Revalidate(ctx context.Context) error {
	return c.session.Revalidate(ctx, c)
}

// Logout 后端登出失败也清除本地会话
func (c *Client) Logout(ctx context.Context) error {
	if c.session.Token() != "" {
		if err := c.gw.Post(ctx, "/auth/logout", nil, nil); err != nil {
			c.gw.Logger().Warn("remote logout failed", zap.Error(err))
		}
	}
	if err := c.session.Logout(ctx); err != nil {
		return c.gw.Surface(err)
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "已退出登录")
	return nil
}
