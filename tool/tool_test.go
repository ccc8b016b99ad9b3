package tool

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sgzs6721/mediflow-front/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name    string `json:"name" validate:"notblank" msg:"姓名[必填]"`
	Phone   string `json:"phone" validate:"omitempty,mobile" msg:"手机号格式不正确"`
	Purpose string `json:"purpose" validate:"required,max=5"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     form
		fields []string
	}{
		{name: "ok", in: form{Name: "张三", Phone: "13800138000", Purpose: "复查"}},
		{name: "blank name", in: form{Name: "  ", Purpose: "复查"}, fields: []string{"name"}},
		{name: "bad phone", in: form{Name: "张三", Phone: "12345", Purpose: "复查"}, fields: []string{"phone"}},
		// max 按字符计算
		{name: "rune length", in: form{Name: "张三", Purpose: "一二三四五"}},
		{name: "too long", in: form{Name: "张三", Purpose: "一二三四五六"}, fields: []string{"purpose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.in)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidateMessages(t *testing.T) {
	errs := Validate(form{Name: "", Phone: "1", Purpose: "ok"})
	require.Len(t, errs, 2)
	assert.Equal(t, "姓名[必填]", errs[0].Message)
	assert.Equal(t, "手机号格式不正确", errs[1].Message)
	assert.Equal(t, "姓名[必填]；手机号格式不正确", JoinMessages(errs))
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Mediflow123"))
	assert.False(t, IsStrongPassword("mediflow123"))
	assert.False(t, IsStrongPassword("MEDIFLOW123"))
	assert.False(t, IsStrongPassword("Medi12"))
	assert.False(t, IsStrongPassword("Mediflow_123"))
}

type wire struct {
	Id              uint64
	AppointmentTime db.LocalTime
}

type view struct {
	Id              string
	AppointmentTime string
}

func TestCopyConverters(t *testing.T) {
	src := wire{Id: 42, AppointmentTime: db.LocalTime(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))}

	var v view
	require.NoError(t, Copy(&v, &src))
	assert.Equal(t, "42", v.Id)
	assert.Equal(t, "2025-03-10 09:00:00", v.AppointmentTime)

	var back wire
	require.NoError(t, Copy(&back, &v))
	assert.Equal(t, src.Id, back.Id)
	assert.True(t, src.AppointmentTime.ToTime().Equal(back.AppointmentTime.ToTime()))
}

func TestWriteSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.xlsx")
	err := WriteSheet(path, "预约", []string{"客户", "事项"}, [][]any{{"42", "复查"}})
	require.NoError(t, err)

	rows, err := ReadSheet(path, "预约")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"客户", "事项"}, {"42", "复查"}}, rows)
}
