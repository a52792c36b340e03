// internal/resource/resource.go
package resource

import (
	"context"
	"errors"
	"fmt"
)

// State là trạng thái dữ liệu của một view: đang tải, lỗi hoặc sẵn sàng.
type State int

const (
	Loading State = iota
	Failed
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "error"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resource là dữ liệu mà mọi view hiển thị; chỉ một trong Data hoặc Reason có nghĩa.
type Resource[T any] struct {
	State  State
	Data   T
	Reason string
	Err    error
}

func Pending[T any]() Resource[T] {
	return Resource[T]{State: Loading}
}

func Of[T any](v T) Resource[T] {
	return Resource[T]{State: Ready, Data: v}
}

func Fail[T any](reason string, err error) Resource[T] {
	return Resource[T]{State: Failed, Reason: reason, Err: err}
}

func (r Resource[T]) IsLoading() bool { return r.State == Loading }
func (r Resource[T]) IsError() bool   { return r.State == Failed }
func (r Resource[T]) IsReady() bool   { return r.State == Ready }

// ErrStale: kết quả về khi view đã bị hủy, không được hiển thị.
var ErrStale = errors.New("resource: result discarded, view is gone")

// Fetcher tải dữ liệu và phải tôn trọng ctx.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Describe chuyển lỗi thành thông báo cho người dùng.
type Describe func(err error) string

// Generic luôn trả về msg, bất kể lỗi gì.
func Generic(msg string) Describe {
	return func(error) string { return msg }
}

// Load chạy fetch và trả về Ready hoặc Failed. Nếu ctx đã xong khi fetch trả về
// thì kết quả bị bỏ và Load trả về ErrStale (bọc ctx.Err()).
func Load[T any](ctx context.Context, fetch Fetcher[T], describe Describe) (Resource[T], error) {
	v, err := fetch(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Pending[T](), fmt.Errorf("%w: %w", ErrStale, ctxErr)
	}
	if err != nil {
		return Fail[T](describe(err), err), nil
	}
	return Of(v), nil
}

// Map biến đổi giá trị Ready, giữ nguyên các trạng thái khác.
func Map[T, U any](r Resource[T], f func(T) U) Resource[U] {
	switch r.State {
	case Ready:
		return Of(f(r.Data))
	case Failed:
		return Fail[U](r.Reason, r.Err)
	default:
		return Pending[U]()
	}
}
