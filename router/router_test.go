package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ParseRole(" doctor ")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, got)

	_, err = ParseRole("PHARMACIST")
	assert.Error(t, err)
}

func TestHomeRoute(t *testing.T) {
	assert.Equal(t, "/business/customers", HomeRoute(RoleBusiness))
	assert.Equal(t, "/admin/customers", HomeRoute(RoleBusinessAdmin))
	assert.Equal(t, "/doctor/workbench", HomeRoute(RoleDoctor))
	assert.Equal(t, "/nurse/workbench", HomeRoute(RoleNurse))
	assert.Equal(t, "/", HomeRoute(Role("GUEST")))
}

// 所有角色的首页都必须能访问
func TestHomeRouteAllowed(t *testing.T) {
	for _, r := range Roles() {
		d := Authorize(r, HomeRoute(r))
		assert.Equal(t, Allow, d.Outcome, r)
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		path   string
		want   Outcome
		target string
	}{
		{name: "login is public", role: "", path: "/login", want: Allow},
		{name: "register is public", role: "", path: "/register", want: Allow},
		{name: "anonymous protected", role: "", path: "/nurse/orders", want: RedirectLogin, target: "/login"},
		{name: "anonymous root", role: "", path: "/", want: RedirectLogin, target: "/login"},
		{name: "root to home", role: RoleNurse, path: "/", want: RedirectHome, target: "/nurse/workbench"},
		{name: "nurse own prefix", role: RoleNurse, path: "/nurse/orders/3", want: Allow},
		{name: "nurse doctor prefix", role: RoleNurse, path: "/doctor/workbench", want: Forbidden},
		{name: "business admin business", role: RoleBusinessAdmin, path: "/business/appointments", want: Allow},
		{name: "business admin admin", role: RoleBusinessAdmin, path: "/admin/permissions", want: Allow},
		{name: "business admin pages", role: RoleBusiness, path: "/admin/customers", want: Forbidden},
		{name: "doctor business", role: RoleDoctor, path: "/business/customers", want: Forbidden},
		{name: "segment aware", role: RoleBusiness, path: "/businessx", want: Forbidden},
		{name: "query stripped", role: RoleDoctor, path: "/doctor/patients?id=3", want: Allow},
		{name: "dot segments", role: RoleDoctor, path: "/doctor/../nurse/orders", want: Forbidden},
		{name: "unknown role", role: Role("GUEST"), path: "/business/customers", want: Forbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.role, tt.path)
			assert.Equal(t, tt.want, d.Outcome, d.Outcome.String())
			assert.Equal(t, tt.target, d.Target)
		})
	}
}

func TestAllowedRoles(t *testing.T) {
	assert.Equal(t, []Role{RoleBusiness, RoleBusinessAdmin}, AllowedRoles("/business/customers"))
	assert.Equal(t, []Role{RoleBusinessAdmin}, AllowedRoles("/admin/registrations"))
	assert.Equal(t, []Role{RoleDoctor}, AllowedRoles("/doctor/queue"))
	assert.Equal(t, []Role{RoleNurse}, AllowedRoles("/nurse/workbench"))
	assert.Empty(t, AllowedRoles("/pharmacy"))
}

func TestNavItems(t *testing.T) {
	labels := func(r Role) []string {
		var res []string
		for _, item := range NavItems(r) {
			res = append(res, item.Label)
		}
		return res
	}
	assert.Equal(t, []string{"客户管理", "订单管理", "预约管理"}, labels(RoleBusiness))
	assert.Equal(t, []string{"注册审核", "客户公海", "权限配置"}, labels(RoleBusinessAdmin))
	assert.Equal(t, []string{"医生工作台", "我的患者"}, labels(RoleDoctor))
	assert.Equal(t, []string{"护士工作台", "医嘱执行"}, labels(RoleNurse))

	for _, r := range Roles() {
		for _, item := range NavItems(r) {
			assert.Equal(t, Allow, Authorize(r, item.Path).Outcome, item.Path)
		}
	}
}
