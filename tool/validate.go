package tool

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError 表单字段校验错误
type FieldError struct {
	Field   string `json:"field"`   // json字段名
	Message string `json:"message"` // 提示信息
}

var (
	validate     *validator.Validate
	validateOnce sync.Once

	mobileRegexp   = regexp.MustCompile(`^1[3-9]\d{9}$`)
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]{4,20}$`)
	passwordRegexp = regexp.MustCompile(`^[a-zA-Z\d]{8,}$`)
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return IsMobile(fl.Field().String())
		})
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRegexp.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// IsMobile 大陆手机号
func IsMobile(s string) bool {
	return mobileRegexp.MatchString(s)
}

// IsStrongPassword 至少8位,包含大小写字母和数字,不含其他字符
func IsStrongPassword(s string) bool {
	if !passwordRegexp.MatchString(s) {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Validate 按validate标签校验,返回带msg标签提示的字段错误
func Validate(v any) []FieldError {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []FieldError{{Message: err.Error()}}
	}

	typ := reflect.TypeOf(v)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	res := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		res = append(res, FieldError{Field: fe.Field(), Message: fieldMessage(typ, fe)})
	}
	return res
}

// JoinMessages 合并提示信息
func JoinMessages(fields []FieldError) string {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "；")
}

func fieldMessage(typ reflect.Type, fe validator.FieldError) string {
	if typ.Kind() == reflect.Struct {
		if sf, ok := typ.FieldByName(fe.StructField()); ok {
			if msg := sf.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	if fe.Param() != "" {
		return fmt.Sprintf("字段[%s]校验失败[%s=%s]", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("字段[%s]校验失败[%s]", fe.Field(), fe.Tag())
}
