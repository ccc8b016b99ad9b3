package router

import (
	"fmt"
	"path"
	"strings"
)

// Role 用户角色
type Role string

const (
	RoleBusiness      Role = "BUSINESS"
	RoleBusinessAdmin Role = "BUSINESS_ADMIN"
	RoleDoctor        Role = "DOCTOR"
	RoleNurse         Role = "NURSE"
)

const (
	LoginRoute    = "/login"
	RegisterRoute = "/register"
	RootRoute     = "/"
)

var roleNames = map[Role]string{
	RoleBusiness:      "业务员",
	RoleBusinessAdmin: "业务管理员",
	RoleDoctor:        "医生",
	RoleNurse:         "护士",
}

// ParseRole 未知角色返回错误
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("未知角色[%s]", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// DisplayName 角色中文名
func (r Role) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return string(r)
}

// Roles 全部角色
func Roles() []Role {
	return []Role{RoleBusiness, RoleBusinessAdmin, RoleDoctor, RoleNurse}
}

// NavItem 导航菜单
type NavItem struct {
	Key   string
	Label string
	Path  string
}

// RoleRoute 角色可访问的路由
type RoleRoute struct {
	HomeRoute string
	Prefixes  []string
	NavItems  []NavItem
}

var routeTable = map[Role]RoleRoute{
	RoleBusiness: {
		HomeRoute: "/business/customers",
		Prefixes:  []string{"/business"},
		NavItems: []NavItem{
			{Key: "customers", Label: "客户管理", Path: "/business/customers"},
			{Key: "orders", Label: "订单管理", Path: "/business/orders"},
			{Key: "appointments", Label: "预约管理", Path: "/business/appointments"},
		},
	},
	RoleBusinessAdmin: {
		HomeRoute: "/admin/customers",
		Prefixes:  []string{"/business", "/admin"},
		NavItems: []NavItem{
			{Key: "registrations", Label: "注册审核", Path: "/admin/registrations"},
			{Key: "customers", Label: "客户公海", Path: "/admin/customers"},
			{Key: "permissions", Label: "权限配置", Path: "/admin/permissions"},
		},
	},
	RoleDoctor: {
		HomeRoute: "/doctor/workbench",
		Prefixes:  []string{"/doctor"},
		NavItems: []NavItem{
			{Key: "workbench", Label: "医生工作台", Path: "/doctor/workbench"},
			{Key: "patients", Label: "我的患者", Path: "/doctor/patients"},
		},
	},
	RoleNurse: {
		HomeRoute: "/nurse/workbench",
		Prefixes:  []string{"/nurse"},
		NavItems: []NavItem{
			{Key: "workbench", Label: "护士工作台", Path: "/nurse/workbench"},
			{Key: "orders", Label: "医嘱执行", Path: "/nurse/orders"},
		},
	},
}

// Lookup 查询角色路由
func Lookup(r Role) (RoleRoute, bool) {
	route, ok := routeTable[r]
	return route, ok
}

// HomeRoute 角色首页,未知角色回到根路由
func HomeRoute(r Role) string {
	if route, ok := routeTable[r]; ok {
		return route.HomeRoute
	}
	return RootRoute
}

// NavItems 角色导航菜单
func NavItems(r Role) []NavItem {
	return append([]NavItem(nil), routeTable[r].NavItems...)
}

// Outcome 访问判定结果
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectHome
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Forbidden:
		return "forbidden"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision 访问判定
type Decision struct {
	Outcome Outcome
	Target  string // 重定向目标
	Reason  string
}

// Authorize 判断路由是否可以访问
// role为空表示未登录
func Authorize(role Role, target string) Decision {
	p := cleanPath(target)

	// 1.公开路由
	if p == LoginRoute || p == RegisterRoute {
		return Decision{Outcome: Allow}
	}

	// 2.未登录
	if role == "" {
		return Decision{Outcome: RedirectLogin, Target: LoginRoute, Reason: "请先登录"}
	}

	// 3.根路由跳转到角色首页
	route, ok := routeTable[role]
	if !ok {
		return Decision{Outcome: Forbidden, Reason: fmt.Sprintf("未知角色[%s]", role)}
	}
	if p == RootRoute {
		return Decision{Outcome: RedirectHome, Target: route.HomeRoute}
	}

	// 4.前缀匹配
	for _, prefix := range route.Prefixes {
		if matchPrefix(p, prefix) {
			return Decision{Outcome: Allow}
		}
	}
	return Decision{Outcome: Forbidden, Reason: fmt.Sprintf("角色[%s]无权访问[%s]", role.DisplayName(), p)}
}

// AllowedRoles 能访问该路由的角色
func AllowedRoles(target string) []Role {
	p := cleanPath(target)
	var res []Role
	for _, r := range Roles() {
		for _, prefix := range routeTable[r].Prefixes {
			if matchPrefix(p, prefix) {
				res = append(res, r)
				break
			}
		}
	}
	return res
}

// 按路径段匹配,"/business"不匹配"/businessx"
func matchPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func cleanPath(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return path.Clean(target)
}
