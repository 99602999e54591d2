package issuecredential

import (
	"fmt"

	"github.com/findy-network/findy-wallet/agent/pltype"
)

// ErrorKind tells which step of the issuance failed.
type ErrorKind int

const (
	KindSubjectIdentity ErrorKind = iota + 1
	KindPrepareRequest
	KindSend
	KindNoIssuerIdentity
	KindIssuerNotPublished
	KindNoSchema
	KindNoConnection
	KindOffer
	KindPersist
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindSubjectIdentity:
		return "subject identity"
	case KindPrepareRequest:
		return "prepare request"
	case KindSend:
		return "send"
	case KindNoIssuerIdentity:
		return "no issuer identity"
	case KindIssuerNotPublished:
		return "issuer not published"
	case KindNoSchema:
		return "no schema"
	case KindNoConnection:
		return "no connection"
	case KindOffer:
		return "offer"
	case KindPersist:
		return "persist"
	case KindStore:
		return "store credential"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is an issuance error. The pending thid isn't rolled back on errors.
type Error struct {
	Kind ErrorKind
	Type pltype.CredType
	Thid string
	Err  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("issuance %s: %s", e.Type, e.Kind)
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
