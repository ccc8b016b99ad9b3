package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	mediflow "github.com/sgzs6721/mediflow-front"
	"go.uber.org/zap"
)

const (
	HeaderRequestId = "X-Request-Id"
	DefaultTimeout  = 30 * time.Second
)

var jsonNull = []byte("null")

// TokenSource 提供当前登录令牌
type TokenSource interface {
	Token() string
}

// AuthExpiredFunc 登录过期回调
type AuthExpiredFunc func(ctx context.Context)

// envelope 后端统一响应{success, message, data, code}
type envelope struct {
	Success bool
	Message string
	Data    json.RawMessage
	Code    int
}

// Client 后端网关 | 不重试
type Client struct {
	http     *resty.Client
	tokens   TokenSource
	notifier Notifier
	logger   *zap.Logger

	mu            sync.RWMutex
	onAuthExpired []AuthExpiredFunc
}

// ---------- OPTIONS函数 ----------
type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(c *Client) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New 创建网关
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		notifier: nopNotifier{},
		logger:   zap.NewNop(),
	}
	for _, fc := range opts {
		fc(c)
	}

	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(HeaderRequestId, uuid.NewString())
		if c.tokens != nil {
			if token := c.tokens.Token(); token != "" {
				r.SetHeader("Authorization", "Bearer "+token)
			}
		}
		return nil
	})
	return c
}

// OnAuthExpired 注册登录过期回调,按注册顺序执行
func (c *Client) OnAuthExpired(fn AuthExpiredFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthExpired = append(c.onAuthExpired, fn)
}

func (c *Client) Notifier() Notifier {
	return c.notifier
}

func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// Get 查询
func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post 提交
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put 更新
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete 删除
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do 发送请求,out接收信封中的data(无信封时接收整个响应体)
func (c *Client) Do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return c.fail(ctx, method, path, "", &Error{Kind: KindTransport, Message: MsgNetwork, Err: err})
	}

	requestId := ""
	if resp.Request != nil {
		requestId = resp.Request.Header.Get(HeaderRequestId)
	}
	status := resp.StatusCode()
	raw := bytes.TrimSpace(resp.Body())
	env, isEnvelope := parseEnvelope(raw)

	// 1.状态码失败
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		ge := &Error{Kind: KindStatus, Status: status, Message: statusMessage(status, env.Message)}
		if isEnvelope {
			ge.Code = env.Code
		}
		return c.fail(ctx, method, path, requestId, ge)
	}

	// 2.响应体校验
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return c.fail(ctx, method, path, requestId, &Error{Kind: KindDecode, Status: status, Message: MsgEmptyBody})
	}
	if !json.Valid(raw) {
		return c.fail(ctx, method, path, requestId, &Error{Kind: KindDecode, Status: status, Message: MsgBadFormat})
	}

	// 3.信封业务失败
	payload := raw
	if isEnvelope {
		if !env.Success {
			msg := env.Message
			if msg == "" {
				msg = MsgOperationFailed
			}
			return c.fail(ctx, method, path, requestId, &Error{Kind: KindEnvelope, Status: status, Code: env.Code, Message: msg})
		}
		payload = env.Data
	}

	// 4.解析数据
	if out != nil && len(payload) > 0 && !bytes.Equal(payload, jsonNull) {
		if err := json.Unmarshal(payload, out); err != nil {
			return c.fail(ctx, method, path, requestId, &Error{Kind: KindDecode, Status: status, Message: MsgBadFormat, Err: err})
		}
	}

	c.logger.Debug("request succeeded",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestId),
		zap.Int("status", status),
		zap.Duration("duration", resp.Time()),
	)
	return nil
}

// Surface 通知本地产生的错误,远端错误在请求时已经通知过
func (c *Client) Surface(err error) error {
	if err == nil || errors.Is(err, mediflow.ErrCancelled) {
		return err
	}
	var ge *Error
	if errors.As(err, &ge) {
		if ge.Kind == KindValidation && !ge.notified {
			ge.notified = true
			c.notifier.Notify(LevelWarning, ge.Message)
		}
		return err
	}
	c.notifier.Notify(LevelError, err.Error())
	return err
}

func (c *Client) fail(ctx context.Context, method, path, requestId string, ge *Error) error {
	c.logger.Warn("request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestId),
		zap.String("kind", string(ge.Kind)),
		zap.Int("status", ge.Status),
		zap.Int("code", ge.Code),
		zap.String("message", ge.Message),
		zap.Error(ge.Err),
	)

	ge.notified = true
	c.notifier.Notify(LevelError, ge.Message)

	if ge.IsAuthExpired() {
		c.mu.RLock()
		hooks := append([]AuthExpiredFunc(nil), c.onAuthExpired...)
		c.mu.RUnlock()
		for _, fn := range hooks {
			fn(ctx)
		}
	}
	return ge
}

// parseEnvelope 带布尔success字段的对象才视为信封
func parseEnvelope(raw []byte) (envelope, bool) {
	var env envelope
	if len(raw) == 0 || raw[0] != '{' {
		return env, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return env, false
	}
	var success *bool
	if err := json.Unmarshal(fields["success"], &success); err != nil || success == nil {
		return env, false
	}
	env.Success = *success
	env.Data = fields["data"]
	_ = json.Unmarshal(fields["message"], &env.Message)
	env.Code = parseCode(fields["code"])
	return env, true
}

// parseCode code可能是数字或数字字符串,其它取0
func parseCode(raw json.RawMessage) int {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if code, err := strconv.Atoi(n.String()); err == nil {
			return code
		}
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if code, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return code
		}
	}
	return 0
}
