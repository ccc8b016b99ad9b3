package appointment

import (
	"fmt"
	"sort"
	"time"

	"github.com/sgzs6721/mediflow-front/db"
)

// 列表筛选
type Filter string

const (
	FilterToday     Filter = "today"     // 今日待办
	FilterPending   Filter = "pending"   // 全部待完成
	FilterCompleted Filter = "completed" // 已完成
	FilterAll       Filter = "all"       // 全部
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterToday, FilterPending, FilterCompleted, FilterAll:
		return f, nil
	case "":
		return FilterToday, nil
	default:
		return "", fmt.Errorf("未知筛选条件[%s]", s)
	}
}

// Params 查询参数
func (f Filter) Params(now time.Time) map[string]string {
	switch f {
	case FilterToday:
		return map[string]string{
			"date":   now.In(time.Local).Format(db.DateLayout),
			"status": string(StatusScheduled),
		}
	case FilterPending:
		return map[string]string{"status": string(StatusScheduled)}
	case FilterCompleted:
		return map[string]string{"status": string(StatusCompleted)}
	default:
		return nil
	}
}

// Match 本地再按同样条件过滤一次
func (f Filter) Match(a *Appointment, now time.Time) bool {
	switch f {
	case FilterToday:
		return a.AppointmentStatus == StatusScheduled && a.AppointmentTime.SameDay(now)
	case FilterPending:
		return a.AppointmentStatus == StatusScheduled
	case FilterCompleted:
		return a.AppointmentStatus == StatusCompleted
	default:
		return true
	}
}

// SortByTime 按预约时间升序
func SortByTime(list []*AppointmentEntity) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].AppointmentTime.ToTime().Before(list[j].AppointmentTime.ToTime())
	})
}
