package gateway

import "sync"

// 通知级别
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier 用户提示(对应前端的message弹出)
type Notifier interface {
	Notify(level Level, message string)
}

// NotifyFunc 函数适配
type NotifyFunc func(level Level, message string)

func (f NotifyFunc) Notify(level Level, message string) {
	f(level, message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}

// Notification 一条提示
type Notification struct {
	Level   Level
	Message string
}

// Recorder 记录所有提示,测试和批处理使用
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// Items 已记录的提示
func (r *Recorder) Items() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Messages 指定级别的提示文案
func (r *Recorder) Messages(level Level) []string {
	var res []string
	for _, item := range r.Items() {
		if item.Level == level {
			res = append(res, item.Message)
		}
	}
	return res
}

// Reset 清空
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
