package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type payload struct {
	Id   uint64 `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rec := &Recorder{}
	opts = append([]Option{WithNotifier(rec)}, opts...)
	return New(srv.URL, opts...), rec
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestDoEnvelopeSuccess(t *testing.T) {
	c, rec := newTestClient(t, respond(200, `{"success":true,"message":"ok","data":{"id":42,"name":"张三"}}`))

	var out payload
	require.NoError(t, c.Get(context.Background(), "/business/customers/42", nil, &out))
	assert.Equal(t, payload{Id: 42, Name: "张三"}, out)
	assert.Empty(t, rec.Items())
}

func TestDoRawPayload(t *testing.T) {
	c, _ := newTestClient(t, respond(200, `[{"id":1},{"id":2}]`))

	var out []payload
	require.NoError(t, c.Get(context.Background(), "/doctor/queue", nil, &out))
	assert.Len(t, out, 2)
}

// success不是布尔值时按普通数据处理
func TestDoSuccessNotBool(t *testing.T) {
	c, rec := newTestClient(t, respond(200, `{"success":null,"id":7,"name":"李四"}`))

	var out payload
	require.NoError(t, c.Get(context.Background(), "/x", nil, &out))
	assert.Equal(t, payload{Id: 7, Name: "李四"}, out)
	assert.Empty(t, rec.Items())
}

func TestDoFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		kind     Kind
		message  string
		expired  bool
		wantCode int
	}{
		{name: "envelope false", status: 200, body: `{"success":false,"message":"客户不存在"}`, kind: KindEnvelope, message: "客户不存在"},
		{name: "envelope false fallback", status: 200, body: `{"success":false}`, kind: KindEnvelope, message: MsgOperationFailed},
		{name: "envelope code 401", status: 200, body: `{"success":false,"message":"token失效","code":401}`, kind: KindEnvelope, message: "token失效", expired: true, wantCode: 401},
		{name: "envelope string code", status: 200, body: `{"success":false,"message":"预约不存在","code":"NOT_FOUND","data":null}`, kind: KindEnvelope, message: "预约不存在"},
		{name: "envelope numeric string code 401", status: 200, body: `{"success":false,"message":"token失效","code":"401"}`, kind: KindEnvelope, message: "token失效", expired: true, wantCode: 401},
		{name: "status 401 ignores body", status: 401, body: `{"success":false,"message":"未登录"}`, kind: KindStatus, message: MsgAuthExpired, expired: true},
		{name: "status 403", status: 403, body: ``, kind: KindStatus, message: MsgForbidden},
		{name: "status 404", status: 404, body: `not found`, kind: KindStatus, message: MsgNotFound},
		{name: "status 500", status: 500, body: ``, kind: KindStatus, message: MsgServerError},
		{name: "status 502", status: 502, body: ``, kind: KindStatus, message: "请求失败 (502)"},
		{name: "status with message", status: 400, body: `{"success":false,"message":"预约事项不能为空"}`, kind: KindStatus, message: "预约事项不能为空"},
		{name: "empty body", status: 200, body: ``, kind: KindDecode, message: MsgEmptyBody},
		{name: "null body", status: 200, body: `null`, kind: KindDecode, message: MsgEmptyBody},
		{name: "bad json", status: 200, body: `<html>`, kind: KindDecode, message: MsgBadFormat},
		{name: "data shape mismatch", status: 200, body: `{"success":true,"data":"oops"}`, kind: KindDecode, message: MsgBadFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, respond(tt.status, tt.body))
			expired := 0
			c.OnAuthExpired(func(context.Context) { expired++ })

			var out payload
			err := c.Get(context.Background(), "/x", nil, &out)

			var ge *Error
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, tt.kind, ge.Kind)
			assert.Equal(t, tt.message, ge.Message)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, ge.Code)
			}
			assert.True(t, IsKind(err, tt.kind))
			assert.Equal(t, []string{tt.message}, rec.Messages(LevelError))
			if tt.expired {
				assert.Equal(t, 1, expired)
			} else {
				assert.Equal(t, 0, expired)
			}
		})
	}
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(respond(200, `{}`))
	url := srv.URL
	srv.Close()

	rec := &Recorder{}
	c := New(url, WithNotifier(rec))
	err := c.Post(context.Background(), "/auth/login", map[string]string{"username": "a"}, nil)

	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, []string{MsgNetwork}, rec.Messages(LevelError))
}

func TestDoTimeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}, WithTimeout(50*time.Millisecond))

	err := c.Get(context.Background(), "/slow", nil, nil)
	assert.True(t, IsKind(err, KindTransport))
}

func TestDoHeadersAndQuery(t *testing.T) {
	var auth, requestId, date, method string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestId = r.Header.Get(HeaderRequestId)
		date = r.URL.Query().Get("date")
		method = r.Method
		respond(200, `{"success":true,"data":[]}`)(w, r)
	}, WithTokenSource(staticToken("jwt-token")))

	require.NoError(t, c.Get(context.Background(), "/business/appointments", map[string]string{"date": "2025-03-10"}, nil))
	assert.Equal(t, "Bearer jwt-token", auth)
	assert.NotEmpty(t, requestId)
	assert.Equal(t, "2025-03-10", date)
	assert.Equal(t, http.MethodGet, method)
}

func TestDoWithoutToken(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		respond(200, `{"success":true}`)(w, r)
	}, WithTokenSource(staticToken("")))

	require.NoError(t, c.Post(context.Background(), "/auth/logout", nil, nil))
	assert.Empty(t, auth)
}

func TestNoRetry(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(503)
	})
	assert.Error(t, c.Delete(context.Background(), "/business/appointments/1", nil))
	assert.Equal(t, 1, calls)
}

func TestSurface(t *testing.T) {
	rec := &Recorder{}
	c := New("http://127.0.0.1:0", WithNotifier(rec))

	verr := NewValidationError([]tool.FieldError{{Field: "purpose", Message: "请输入预约事项"}})
	assert.Same(t, verr, c.Surface(verr))
	// 同一个错误只提示一次
	c.Surface(verr)
	assert.Equal(t, []string{"请输入预约事项"}, rec.Messages(LevelWarning))

	assert.ErrorIs(t, c.Surface(mediflow.ErrCancelled), mediflow.ErrCancelled)
	assert.Len(t, rec.Items(), 1)

	local := fmt.Errorf("wrapped: %w", errors.New("业务实体[appointment]当前状态[COMPLETED],不允许执行事件[完成预约]"))
	c.Surface(local)
	assert.Equal(t, []string{local.Error()}, rec.Messages(LevelError))
}

func TestValidationMessage(t *testing.T) {
	err := ValidationMessage("appointmentDate", "预约日期[%s]不能早于今天", "2025-02-28")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "预约日期[2025-02-28]不能早于今天", err.Error())
	assert.False(t, IsAuthExpired(err))
}
