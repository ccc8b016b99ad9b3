package db

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// 后端约定的时间格式
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
)

// 解析时依次尝试的格式
var parseLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	DateLayout,
}

// 本地时间
type LocalTime time.Time

func (t LocalTime) Value() (driver.Value, error) {
	var zeroTime time.Time
	tlt := time.Time(t)
	if tlt.UnixNano() == zeroTime.UnixNano() {
		return nil, nil
	}
	return tlt.UTC(), nil
}

func (t *LocalTime) Scan(v any) error {
	if value, ok := v.(time.Time); ok {
		*t = LocalTime(value.In(time.Local))
		return nil
	}
	if v == nil {
		*t = LocalTime{}
		return nil
	}
	return fmt.Errorf("can not convert %v to timestamp", v)
}

func (t *LocalTime) String() string {
	if t == nil || t.IsZero() {
		return ""
	}
	return time.Time(*t).Format(DateTimeLayout)
}

func (t *LocalTime) ToTime() time.Time {
	return time.Time(*t)
}

// dateString | 年月日
func (t *LocalTime) DateString() string {
	if t == nil || t.IsZero() {
		return ""
	}
	return time.Time(*t).Format(DateLayout)
}

// IsToday 判断是否为今天
func (t *LocalTime) IsToday() bool {
	return t.SameDay(time.Now())
}

// SameDay 与给定时间是否同一自然日(本地时区)
func (t *LocalTime) SameDay(day time.Time) bool {
	if t == nil || t.IsZero() {
		return false
	}
	return day.In(time.Local).Format(DateLayout) == t.DateString()
}

// Before 是否早于给定时间
func (t *LocalTime) Before(u time.Time) bool {
	if t == nil || t.IsZero() {
		return false
	}
	return time.Time(*t).Before(u)
}

// 小于等于今天
func (t *LocalTime) LteToday() bool {
	return t.LteDay(time.Now())
}

// LteDay 日期部分小于等于给定日期
func (t *LocalTime) LteDay(day time.Time) bool {
	now := day.Local()
	currentDate := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	targetLocal := time.Time(*t)
	targetDate := time.Date(targetLocal.Year(), targetLocal.Month(), targetLocal.Day(), 0, 0, 0, 0, targetLocal.Location())

	return targetDate.Before(currentDate) || targetDate.Equal(currentDate)
}

func (t *LocalTime) IsZero() bool {
	return time.Time(*t).IsZero()
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), "\"")
	if str == "null" || str == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	tTime := time.Time(t)
	// 零值输出null,空字符串后端会解析失败
	if t.IsZero() {
		return []byte("null"), nil
	}
	return fmt.Appendf(nil, "\"%s\"", tTime.Format(DateTimeLayout)), nil
}

// ParseLocalTime 解析后端返回的各种时间格式
func ParseLocalTime(str string) (LocalTime, error) {
	str = strings.TrimSpace(str)
	for _, layout := range parseLayouts {
		if layout == time.RFC3339Nano {
			if t1, err := time.Parse(layout, str); err == nil {
				return LocalTime(t1.In(time.Local)), nil
			}
			continue
		}
		if t1, err := time.ParseInLocation(layout, str, time.Local); err == nil {
			return LocalTime(t1), nil
		}
	}
	return LocalTime{}, fmt.Errorf("时间格式[%s]无法解析", str)
}

// string 转 LocalTime
func StringToLocalTime(str string) LocalTime {
	if len(str) == 10 {
		str = str + " 00:00:00"
	}

	t1, _ := time.ParseInLocation(DateTimeLayout, str, time.Local)
	return LocalTime(t1)
}

// CombineDateClock 组合日期(2006-01-02)和时刻(15:04或15:04:05)
func CombineDateClock(date, clock string) (LocalTime, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if len(clock) == 5 {
		clock = clock + ":00"
	}
	t1, err := time.ParseInLocation(DateTimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return LocalTime{}, fmt.Errorf("预约时间[%s %s]格式错误", date, clock)
	}
	return LocalTime(t1), nil
}
