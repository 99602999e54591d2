// Package pltype holds the message type tags the wallet understands, the
// closed set of message kinds they map to, and the credential types the wallet
// can hold.
package pltype

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Protocol constants
const (
	DIDCommOrg = "https://didcomm.org"
	Mercury    = "https://atalaprism.io/mercury"

	ProtocolIssueCredential = "issue-credential"
	ProtocolPresentProof    = "present-proof"
	ProtocolBasicMessage    = "basicmessage"
	ProtocolTrustPing       = "trust-ping"
	ProtocolReportProblem   = "report-problem"
	ProtocolConnections     = "connections"
)

// Issue Credential protocol constants
const (
	HandlerIssueCredentialPropose = "propose-credential"
	HandlerIssueCredentialOffer   = "offer-credential"
	HandlerIssueCredentialRequest = "request-credential"
	HandlerIssueCredentialIssue   = "issue-credential"

	IssueCredential        = DIDCommOrg + "/" + ProtocolIssueCredential + "/3.0/"
	IssueCredentialPropose = IssueCredential + HandlerIssueCredentialPropose
	IssueCredentialOffer   = IssueCredential + HandlerIssueCredentialOffer
	IssueCredentialRequest = IssueCredential + HandlerIssueCredentialRequest
	IssueCredentialIssue   = IssueCredential + HandlerIssueCredentialIssue
)

// Present Proof protocol constants
const (
	HandlerPresentProofPropose      = "propose-presentation"
	HandlerPresentProofRequest      = "request-presentation"
	HandlerPresentProofPresentation = "presentation"

	PresentProof             = DIDCommOrg + "/" + ProtocolPresentProof + "/3.0/"
	PresentProofPropose      = PresentProof + HandlerPresentProofPropose
	PresentProofRequest      = PresentProof + HandlerPresentProofRequest
	PresentProofPresentation = PresentProof + HandlerPresentProofPresentation
)

// Informational protocols, handled by logging only.
const (
	BasicMessage        = DIDCommOrg + "/" + ProtocolBasicMessage + "/2.0/message"
	TrustPing           = DIDCommOrg + "/" + ProtocolTrustPing + "/2.0/ping"
	TrustPingResponse   = DIDCommOrg + "/" + ProtocolTrustPing + "/2.0/ping-response"
	ProblemReport       = DIDCommOrg + "/" + ProtocolReportProblem + "/2.0/problem-report"
	ConnectionRequest   = Mercury + "/" + ProtocolConnections + "/1.0/request"
	ConnectionResponse  = Mercury + "/" + ProtocolConnections + "/1.0/response"
	OutOfBandInvitation = DIDCommOrg + "/out-of-band/2.0/invitation"
)

// Kind is the closed set of inbound message categories the dispatcher routes.
type Kind int

const (
	KindUnknown Kind = iota
	KindBasicMessage
	KindTrustPing
	KindConnection
	KindProblemReport
	KindCredentialOffer
	KindCredentialIssued
	KindPresentationRequest

	kindCount
)

// Kinds returns every message kind. The dispatcher uses it to check its router
// table is complete.
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(kindCount))
	for k := KindUnknown; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

var kindNames = [...]string{
	KindUnknown:             "unknown",
	KindBasicMessage:        "basic-message",
	KindTrustPing:           "trust-ping",
	KindConnection:          "connection",
	KindProblemReport:       "problem-report",
	KindCredentialOffer:     "credential-offer",
	KindCredentialIssued:    "credential-issued",
	KindPresentationRequest: "presentation-request",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Informational tells if the kind is only logged.
func (k Kind) Informational() bool {
	switch k {
	case KindCredentialOffer, KindCredentialIssued, KindPresentationRequest:
		return false
	}
	return true
}

var kindOfType = map[string]Kind{
	BasicMessage:         KindBasicMessage,
	TrustPing:            KindTrustPing,
	TrustPingResponse:    KindTrustPing,
	ConnectionRequest:    KindConnection,
	ConnectionResponse:   KindConnection,
	ProblemReport:        KindProblemReport,
	IssueCredentialOffer: KindCredentialOffer,
	IssueCredentialIssue: KindCredentialIssued,
	PresentProofRequest:  KindPresentationRequest,
}

// KindOf maps a message type tag to its kind. Unknown tags are KindUnknown.
func KindOf(typeTag string) Kind {
	if kind, ok := kindOfType[typeTag]; ok {
		return kind
	}
	glog.V(3).Infof("no kind found for message type %s", typeTag)
	return KindUnknown
}

// CredType is a credential type the wallet requests and presents.
type CredType int

const (
	Passport CredType = iota
	Ticket

	credTypeCount

	// CredTypeUnknown is the type of no known credential type.
	CredTypeUnknown CredType = -1
)

var credTypeNames = [...]string{
	Passport: "Passport",
	Ticket:   "Ticket",
}

// CredTypes returns every credential type in their provisioning order.
func CredTypes() []CredType {
	return []CredType{Passport, Ticket}
}

func (t CredType) String() string {
	if t == CredTypeUnknown {
		return "Unknown"
	}
	if t < 0 || t >= credTypeCount {
		return fmt.Sprintf("CredType(%d)", int(t))
	}
	return credTypeNames[t]
}

// ParseCredType returns the credential type by its name. The match is case
// insensitive.
func ParseCredType(s string) (CredType, error) {
	for _, t := range CredTypes() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return CredTypeUnknown, fmt.Errorf("unknown credential type: %q", s)
}
