package mockBackend

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestServer 供其他包测试使用的模拟后端
type TestServer struct {
	*httptest.Server
	server   *Server
	requests atomic.Int64
}

// NewTestServer 启动带演示数据的内存后端,测试结束自动关闭
func NewTestServer(t testing.TB, now func() time.Time) *TestServer {
	t.Helper()
	s, err := New(NewMemoryStore(), Config{JWTSecret: "mediflow-test", Seed: true, Now: now}, nil)
	if err != nil {
		t.Fatalf("启动模拟后端失败: %v", err)
	}
	ts := &TestServer{server: s}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		s.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// BaseURL 接口根地址
func (ts *TestServer) BaseURL() string {
	return ts.URL + BasePath
}

// Requests 已收到的请求数
func (ts *TestServer) Requests() int64 {
	return ts.requests.Load()
}

// Store 直接读写后端数据
func (ts *TestServer) Store() *Store {
	return ts.server.store
}

// Token 为演示账号签发令牌
func (ts *TestServer) Token(t testing.TB, username string) string {
	t.Helper()
	user, err := First(ts.server.store.Users, func(u *User) bool { return u.Username == username })
	if err != nil {
		t.Fatalf("用户[%s]不存在: %v", username, err)
	}
	token, err := ts.server.tokens.Generate(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	return token
}
