package presentproof

import (
	"fmt"

	"github.com/findy-network/findy-wallet/agent/pltype"
)

// ErrorKind tells which step of the presentation failed.
type ErrorKind int

const (
	KindNoCredentials ErrorKind = iota + 1
	KindCredentialNotFound
	KindConstruct
	KindSend
	KindNoConnection
	KindNoSchema
	KindRequest
	KindPersist
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoCredentials:
		return "no credentials"
	case KindCredentialNotFound:
		return "credential not found"
	case KindConstruct:
		return "construct"
	case KindSend:
		return "send"
	case KindNoConnection:
		return "no connection"
	case KindNoSchema:
		return "no schema"
	case KindRequest:
		return "request"
	case KindPersist:
		return "persist"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a presentation error. Presentations aren't retried, the verifier
// must send a new request.
type Error struct {
	Kind ErrorKind
	Type pltype.CredType
	Thid string
	Err  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("presentation %s: %s", e.Type, e.Kind)
	if e.Thid != "" {
		s += " thid:" + e.Thid
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by its Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(k ErrorKind, t pltype.CredType, thid string, err error) *Error {
	return &Error{Kind: k, Type: t, Thid: thid, Err: err}
}
