package prot

import (
	"errors"
	"fmt"
)

// ErrorKind is the discriminant of DispatchError.
type ErrorKind int

const (
	KindRoute ErrorKind = iota + 1
	KindHandler
	KindDecode
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindRoute:
		return "route"
	case KindHandler:
		return "handler"
	case KindDecode:
		return "decode"
	case KindPanic:
		return "panic"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ErrDecode is wrapped by handlers when a message body can't be decoded.
var ErrDecode = errors.New("message decode")

// DispatchError is an error of handling one inbound message. It doesn't stop
// the dispatcher.
type DispatchError struct {
	Kind    ErrorKind
	MsgType string
	Thid    string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s error: %s thid:%s: %v", e.Kind, e.MsgType, e.Thid, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Is matches another *DispatchError by its Kind.
func (e *DispatchError) Is(target error) bool {
	t, ok := target.(*DispatchError)
	return ok && t.Kind == e.Kind
}
