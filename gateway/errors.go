package gateway

import (
	"errors"
	"fmt"

	"github.com/sgzs6721/mediflow-front/tool"
)

// 错误分类
type Kind string

const (
	KindValidation Kind = "validation" // 本地表单校验,未发请求
	KindEnvelope   Kind = "envelope"   // success=false
	KindTransport  Kind = "transport"  // 没有收到响应
	KindStatus     Kind = "status"     // 非2xx状态码
	KindDecode     Kind = "decode"     // 响应为空或无法解析
)

// 提示文案
const (
	MsgOperationFailed = "操作失败"
	MsgAuthExpired     = "登录已过期，请重新登录"
	MsgForbidden       = "没有权限访问此资源"
	MsgNotFound        = "请求的资源不存在"
	MsgServerError     = "服务器内部错误"
	MsgNetwork         = "网络连接失败，请检查网络"
	MsgEmptyBody       = "服务器返回数据为空"
	MsgBadFormat       = "响应数据格式错误，请检查服务器配置"
	MsgFormIncomplete  = "请填写完整信息"
)

// Error 网关统一错误
type Error struct {
	Kind    Kind
	Status  int               // http状态码,未收到响应时为0
	Code    int               // 信封code
	Message string            // 用户可见提示
	Fields  []tool.FieldError // 校验失败的字段
	Err     error             // 底层错误

	notified bool
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsAuthExpired 401(状态码或信封code)
func (e *Error) IsAuthExpired() bool {
	return e.Status == 401 || e.Code == 401
}

// IsKind 判断错误分类
func IsKind(err error, kind Kind) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}

// IsAuthExpired 判断是否登录过期
func IsAuthExpired(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.IsAuthExpired()
	}
	return false
}

// NewValidationError 本地校验错误
func NewValidationError(fields []tool.FieldError) *Error {
	msg := tool.JoinMessages(fields)
	if msg == "" {
		msg = MsgFormIncomplete
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// ValidationMessage 单条本地校验错误
func ValidationMessage(field, format string, args ...any) *Error {
	return NewValidationError([]tool.FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}})
}

// statusMessage 按状态码给出提示,优先使用后端返回的message
func statusMessage(status int, bodyMessage string) string {
	if status == 401 {
		return MsgAuthExpired
	}
	if bodyMessage != "" {
		return bodyMessage
	}
	switch status {
	case 403:
		return MsgForbidden
	case 404:
		return MsgNotFound
	case 500:
		return MsgServerError
	default:
		return fmt.Sprintf("请求失败 (%d)", status)
	}
}
