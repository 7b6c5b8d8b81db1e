package core

import "github.com/pkg/errors"

// Result carries either the data of a successful backend call or the reason it failed.
// Backend calls return a Result instead of (T, error) so that callers must look at Err
// before touching Data; expected failures (not found, constraint violations, bad
// credentials) are values, never panics.
type Result[T any] struct {
	Data T
	Err  error
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result[T]{Err: err}
}

// Void is the payload of results that carry no data.
type Void = struct{}

func OkVoid() Result[Void] { return Result[Void]{} }

func (r Result[T]) OK() bool { return r.Err == nil }

func (r Result[T]) Unwrap() (T, error) { return r.Data, r.Err }

// Message returns the human-readable failure message, or "" on success.
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return ErrorMessage(r.Err)
}

// ErrorMessage renders err for end users: validation errors list their fields,
// anything else shows its outermost message.
func ErrorMessage(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr.Err == nil && len(vErr.Fields) > 0 {
		msg := ""
		for i, f := range vErr.Fields {
			if i > 0 {
				msg += "; "
			}
			msg += f.Field + ": " + f.Error
		}
		return msg
	}
	return err.Error()
}
