package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ts      *mockBackend.TestServer
	rec     *gateway.Recorder
	session *session.Store
	client  *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ts := mockBackend.NewTestServer(t, time.Now)
	store := session.NewStore(session.NewMemoryStorage())
	rec := &gateway.Recorder{}
	gw := gateway.New(ts.BaseURL(), gateway.WithTokenSource(store), gateway.WithNotifier(rec))
	gw.OnAuthExpired(store.HandleAuthExpired)
	return &fixture{ts: ts, rec: rec, session: store, client: NewClient(gw, store)}
}

func TestLoginRoutesHome(t *testing.T) {
	tests := []struct {
		username string
		role     router.Role
		home     string
	}{
		{username: "business", role: router.RoleBusiness, home: "/business/customers"},
		{username: "admin", role: router.RoleBusinessAdmin, home: "/admin/customers"},
		{username: "doctor", role: router.RoleDoctor, home: "/doctor/workbench"},
		{username: "nurse", role: router.RoleNurse, home: "/nurse/workbench"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			f := newFixture(t)
			home, err := f.client.Login(context.Background(), &LoginForm{Username: tt.username, Password: mockBackend.SeedPassword})
			require.NoError(t, err)
			assert.Equal(t, tt.home, home)
			assert.Equal(t, tt.role, f.session.Role())
			assert.NotEmpty(t, f.session.Token())
		})
	}
}

func TestLoginFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), &LoginForm{Username: "doctor", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "用户名或密码错误", err.Error())
	assert.False(t, f.session.IsAuthenticated())
	assert.Equal(t, []string{"用户名或密码错误"}, f.rec.Messages(gateway.LevelError))

	before := f.ts.Requests()
	_, err = f.client.Login(context.Background(), &LoginForm{Username: " "})
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
	assert.Equal(t, before, f.ts.Requests())
}

func TestRegister(t *testing.T) {
	valid := RegisterForm{
		Username: "doc_wang", Password: "Passw0rd1", ConfirmPassword: "Passw0rd1",
		RealName: "王医生", Phone: "13712345678", AppliedRole: "DOCTOR",
	}
	tests := []struct {
		name    string
		mutate  func(f *RegisterForm)
		message string
	}{
		{name: "short username", mutate: func(f *RegisterForm) { f.Username = "ab" }, message: "用户名只能包含字母、数字和下划线，长度4-20位"},
		{name: "weak password", mutate: func(f *RegisterForm) { f.Password, f.ConfirmPassword = "password1", "password1" }, message: "密码至少8位，必须包含大小写字母和数字"},
		{name: "mismatch", mutate: func(f *RegisterForm) { f.ConfirmPassword = "Passw0rd2" }, message: "两次输入的密码不一致"},
		{name: "phone", mutate: func(f *RegisterForm) { f.Phone = "12345678901" }, message: "请输入正确的手机号"},
		{name: "role", mutate: func(f *RegisterForm) { f.AppliedRole = "ROOT" }, message: "请选择申请角色"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			form := valid
			tt.mutate(&form)
			err := f.client.Register(context.Background(), &form)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	f := newFixture(t)
	form := valid
	require.NoError(t, f.client.Register(context.Background(), &form))
	assert.Equal(t, []string{"注册申请已提交，请等待管理员审核"}, f.rec.Messages(gateway.LevelSuccess))

	regs, err := f.ts.Store().Registrations.Find(nil)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, router.RoleDoctor, regs[0].AppliedRole)
	assert.Equal(t, mockBackend.RegistrationPending, regs[0].Status)
}

// 手机号选填
func TestRegisterWithoutPhone(t *testing.T) {
	f := newFixture(t)
	form := &RegisterForm{
		Username: "nurse_li", Password: "Abcdefg1", ConfirmPassword: "Abcdefg1",
		RealName: "李护士", AppliedRole: "NURSE",
	}
	require.NoError(t, f.client.Register(context.Background(), form))
	assert.Empty(t, f.rec.Messages(gateway.LevelWarning))

	regs, err := f.ts.Store().Registrations.Find(nil)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "nurse_li", regs[0].Username)
	assert.Empty(t, regs[0].Phone)
}

func TestRevalidate(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Login(context.Background(), &LoginForm{Username: "nurse", Password: mockBackend.SeedPassword})
	require.NoError(t, err)

	require.NoError(t, f.client.Revalidate(context.Background()))
	assert.Equal(t, "王护士", f.session.CurrentUser().RealName)
}

// 401会清空会话
func TestAuthExpiredClearsSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Login(context.Background(), "forged", session.Profile{Username: "x", Role: router.RoleDoctor}))

	_, err := f.client.CurrentUser(context.Background())
	assert.True(t, gateway.IsAuthExpired(err))
	assert.Empty(t, f.session.Token())
	assert.Nil(t, f.session.CurrentUser())
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Login(context.Background(), &LoginForm{Username: "doctor", Password: mockBackend.SeedPassword})
	require.NoError(t, err)

	require.NoError(t, f.client.Logout(context.Background()))
	assert.False(t, f.session.IsAuthenticated())
	assert.Empty(t, f.session.Token())
}

// 后端不可用时仍然清除本地会话
func TestLogoutOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), "t", session.Profile{Username: "x", Role: router.RoleNurse}))
	client := NewClient(gateway.New(srv.URL, gateway.WithTimeout(time.Second)), store)

	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, store.IsAuthenticated())
}
