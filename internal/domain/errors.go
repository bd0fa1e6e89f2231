package domain

import (
	"errors"
	"fmt"
)

// Kind 领域错误分类，传输层按 Kind 映射固定状态码
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindInvalidArgument
	KindMaxGuestLimitReached
	KindNoAvailableRooms
	KindUnauthorized
	KindConflict
	KindUnauthenticated
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindNotFound:             "not_found",
	KindInvalidState:         "invalid_state",
	KindInvalidArgument:      "invalid_argument",
	KindMaxGuestLimitReached: "max_guest_limit_reached",
	KindNoAvailableRooms:     "no_available_rooms",
	KindUnauthorized:         "unauthorized",
	KindConflict:             "conflict",
	KindUnauthenticated:      "unauthenticated",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同 Kind 即视为相等，便于 errors.Is(err, domain.ErrNotFound)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// 哨兵值，仅用于 errors.Is 比较
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidState         = &Error{Kind: KindInvalidState}
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument}
	ErrMaxGuestLimitReached = &Error{Kind: KindMaxGuestLimitReached}
	ErrNoAvailableRooms     = &Error{Kind: KindNoAvailableRooms}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized}
	ErrConflict             = &Error{Kind: KindConflict}
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
)

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(msg string) error { return &Error{Kind: KindInvalidArgument, Msg: msg} }

func MaxGuestLimitReached(msg string) error {
	return &Error{Kind: KindMaxGuestLimitReached, Msg: msg}
}

func NoAvailableRooms(msg string) error { return &Error{Kind: KindNoAvailableRooms, Msg: msg} }

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Msg: msg} }

// Internal 包装持久层等非领域错误
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf 非 *Error 一律视为 internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
