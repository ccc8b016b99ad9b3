package mediflow

import (
	"context"
	"errors"
)

var ErrCancelled = errors.New("操作已取消")

// Confirmer 二次确认(对应前端的确认弹窗)
type Confirmer interface {
	Confirm(ctx context.Context, title, content string) (bool, error)
}

// ConfirmFunc 函数适配
type ConfirmFunc func(ctx context.Context, title, content string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, title, content string) (bool, error) {
	return f(ctx, title, content)
}

// AutoConfirm 自动确认(--yes)
func AutoConfirm() Confirmer {
	return ConfirmFunc(func(context.Context, string, string) (bool, error) {
		return true, nil
	})
}

// Confirm 未注入确认器时视为拒绝,用户取消返回ErrCancelled
func Confirm(ctx context.Context, confirmer Confirmer, title, content string) error {
	if confirmer == nil {
		return ErrCancelled
	}
	ok, err := confirmer.Confirm(ctx, title, content)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
