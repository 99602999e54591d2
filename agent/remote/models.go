package remote

// Invitation is an out-of-band invitation of the cloud agent.
type Invitation struct {
	ID            string `json:"id"`
	Type          string `json:"type,omitempty"`
	From          string `json:"from"`
	InvitationURL string `json:"invitationUrl"`
}

// Connection is a connection record of the cloud agent.
type Connection struct {
	ConnectionID string     `json:"connectionId"`
	Thid         string     `json:"thid,omitempty"`
	Label        string     `json:"label,omitempty"`
	MyDID        string     `json:"myDid,omitempty"`
	TheirDID     string     `json:"theirDid,omitempty"`
	Role         string     `json:"role,omitempty"`
	State        string     `json:"state,omitempty"`
	Invitation   Invitation `json:"invitation"`
	CreatedAt    string     `json:"createdAt,omitempty"`
}

type createInvitationReq struct {
	Label string `json:"label"`
}

type acceptInvitationReq struct {
	Invitation string `json:"invitation"`
}

type connectionPage struct {
	Contents []Connection `json:"contents"`
	Kind     string       `json:"kind,omitempty"`
}

// Key purposes of DID public keys.
const (
	PurposeAuthentication  = "authentication"
	PurposeAssertionMethod = "assertionMethod"
)

// PublicKey is a key of a DID document template.
type PublicKey struct {
	ID      string `json:"id"`
	Purpose string `json:"purpose"`
}

// Service is a service endpoint of a DID document template.
type Service struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	ServiceEndpoint []string `json:"serviceEndpoint"`
}

// DocumentTemplate is what the cloud agent needs to create a managed DID.
type DocumentTemplate struct {
	PublicKeys []PublicKey `json:"publicKeys"`
	Services   []Service   `json:"services"`
}

type createDIDReq struct {
	DocumentTemplate DocumentTemplate `json:"documentTemplate"`
}

// CreatedDID is the response of DID creation.
type CreatedDID struct {
	LongFormDID string `json:"longFormDid"`
}

// DID publication states of the cloud agent.
const (
	StatusCreated             = "CREATED"
	StatusPublicationPending  = "PUBLICATION_PENDING"
	StatusPublished           = "PUBLISHED"
	StatusDeactivated         = "DEACTIVATED"
	StatusDeactivationPending = "DEACTIVATION_PENDING"
)

// ManagedDID is a DID managed by the cloud agent and its publication status.
type ManagedDID struct {
	DID         string `json:"did"`
	LongFormDID string `json:"longFormDid,omitempty"`
	Status      string `json:"status"`
}

// Published tells if the DID is published to the ledger.
func (d ManagedDID) Published() bool {
	return d.Status == StatusPublished
}

type didPage struct {
	Contents []*ManagedDID `json:"contents"`
}

// ScheduledOperation is the response of a publication request.
type ScheduledOperation struct {
	ID     string `json:"id"`
	DIDRef string `json:"didRef"`
}

type publicationResp struct {
	ScheduledOperation ScheduledOperation `json:"scheduledOperation"`
}

// Schema is a credential schema record of the schema registry. The JSON
// schema document itself is in Schema.
type Schema struct {
	GUID        string         `json:"guid,omitempty"`
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Author      string         `json:"author"`
	Tags        []string       `json:"tags"`
	Schema      map[string]any `json:"schema"`
}

// CredentialFormatJWT is the only credential format the wallet uses.
const CredentialFormatJWT = "JWT"

// OfferRequest is a request to create a credential offer to a connection.
type OfferRequest struct {
	ValidityPeriod    int            `json:"validityPeriod"`
	SchemaID          string         `json:"schemaId"`
	CredentialFormat  string         `json:"credentialFormat"`
	Claims            map[string]any `json:"claims"`
	AutomaticIssuance bool           `json:"automaticIssuance"`
	IssuingDID        string         `json:"issuingDID"`
	ConnectionID      string         `json:"connectionId"`
}

// CredentialRecord is an issue credential record of the cloud agent.
type CredentialRecord struct {
	RecordID          string         `json:"recordId"`
	Thid              string         `json:"thid"`
	CredentialFormat  string         `json:"credentialFormat,omitempty"`
	ValidityPeriod    float64        `json:"validityPeriod,omitempty"`
	Claims            map[string]any `json:"claims,omitempty"`
	AutomaticIssuance bool           `json:"automaticIssuance,omitempty"`
	Role              string         `json:"role,omitempty"`
	ProtocolState     string         `json:"protocolState,omitempty"`
	CreatedAt         string         `json:"createdAt,omitempty"`
}

// ProofOptions are the challenge and domain of a JWT proof request.
type ProofOptions struct {
	Challenge string `json:"challenge"`
	Domain    string `json:"domain"`
}

// ProofRequestAux names the schema and the trusted issuers of a requested
// proof.
type ProofRequestAux struct {
	SchemaID     string   `json:"schemaId"`
	TrustIssuers []string `json:"trustIssuers,omitempty"`
}

// PresentationRequest is a request to ask a presentation over a connection.
type PresentationRequest struct {
	ConnectionID string            `json:"connectionId"`
	Options      ProofOptions      `json:"options"`
	Proofs       []ProofRequestAux `json:"proofs"`
}

// PresentationRecord is a present proof record of the cloud agent.
type PresentationRecord struct {
	PresentationID string   `json:"presentationId"`
	Thid           string   `json:"thid"`
	Role           string   `json:"role,omitempty"`
	Status         string   `json:"status,omitempty"`
	Proofs         []any    `json:"proofs,omitempty"`
	Data           []string `json:"data,omitempty"`
	ConnectionID   string   `json:"connectionId,omitempty"`
}
