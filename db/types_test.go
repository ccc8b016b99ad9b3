// nolint
package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalTime_IsLessThanToday(t *testing.T) {
	now := time.Now().In(time.Local)
	tests := []struct {
		name string
		time LocalTime
		want bool
	}{
		{
			name: "Yesterday",
			time: LocalTime(now.AddDate(0, 0, -1)),
			want: true,
		},
		{
			name: "Today",
			time: LocalTime(now),
			want: true,
		},
		{
			name: "Tomorrow",
			time: LocalTime(now.AddDate(0, 0, 1)),
			want: false,
		},
		{
			name: "Zero time",
			time: LocalTime(time.Time{}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.time.LteToday(); got != tt.want {
				t.Errorf("LteToday() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocalTime_UnmarshalFormats(t *testing.T) {
	want := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	tests := []struct {
		name string
		raw  string
	}{
		{name: "backend layout", raw: `"2025-03-10 09:00:00"`},
		{name: "iso without zone", raw: `"2025-03-10T09:00:00"`},
		{name: "iso with fraction", raw: `"2025-03-10T09:00:00.000"`},
		{name: "minute precision", raw: `"2025-03-10 09:00"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got LocalTime
			assert.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.True(t, want.Equal(got.ToTime()), "got %s", got.String())
		})
	}
}

func TestLocalTime_NullAndEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		var got LocalTime
		assert.NoError(t, json.Unmarshal([]byte(raw), &got))
		assert.True(t, got.IsZero())
	}

	bytes, err := json.Marshal(LocalTime{})
	assert.NoError(t, err)
	assert.Equal(t, "null", string(bytes))
}

func TestLocalTime_Marshal(t *testing.T) {
	lt := LocalTime(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	bytes, err := json.Marshal(lt)
	assert.NoError(t, err)
	assert.Equal(t, `"2025-03-10 09:00:00"`, string(bytes))
}

func TestLocalTime_Invalid(t *testing.T) {
	var got LocalTime
	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &got))
}

func TestCombineDateClock(t *testing.T) {
	got, err := CombineDateClock("2025-03-10", "09:00")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-10 09:00:00", got.String())

	got, err = CombineDateClock("2025-03-10", "18:30:15")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-10 18:30:15", got.String())

	_, err = CombineDateClock("2025/03/10", "09:00")
	assert.Error(t, err)
}

func TestLocalTime_SameDayAndBefore(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	lt := LocalTime(time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local))
	assert.True(t, lt.SameDay(day.Add(8*time.Hour)))
	assert.False(t, lt.SameDay(day.AddDate(0, 0, 1)))
	assert.True(t, lt.Before(day.AddDate(0, 0, 1)))
	assert.False(t, lt.Before(day))

	var zero LocalTime
	assert.False(t, zero.SameDay(day))
	assert.False(t, zero.Before(day))
}
