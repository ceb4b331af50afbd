package acapy

import "encoding/json"

// Record shapes of the agent admin API. Only the fields the
// orchestration flows read are mapped; the agent owns these records and
// this process never persists a copy of them.

// Connection is one pairwise connection record.
type Connection struct {
	ConnectionID    string `json:"connection_id"`
	State           string `json:"state"`
	Alias           string `json:"alias,omitempty"`
	TheirDID        string `json:"their_did,omitempty"`
	TheirLabel      string `json:"their_label,omitempty"`
	InvitationMsgID string `json:"invitation_msg_id,omitempty"`
}

// Connection states this repo cares about.
const (
	ConnectionStateCompleted = "completed"
	ConnectionStateActive    = "active"
)

// ConnectionFilter narrows a connection list call. Zero fields are
// omitted from the query.
type ConnectionFilter struct {
	Alias           string
	InvitationMsgID string
	State           string
}

// Service is one service block of an out-of-band invitation.
type Service struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	RecipientKeys   []string `json:"recipientKeys,omitempty"`
	ServiceEndpoint string   `json:"serviceEndpoint,omitempty"`
}

// Invitation is the out-of-band invitation message itself.
type Invitation struct {
	ID                 string            `json:"@id,omitempty"`
	Type               string            `json:"@type,omitempty"`
	Label              string            `json:"label,omitempty"`
	HandshakeProtocols []string          `json:"handshake_protocols,omitempty"`
	Services           []json.RawMessage `json:"services,omitempty"`
}

// ParsedServices decodes the invitation's service blocks. A service may
// be a plain DID string instead of an object; those decode to a zero
// Service.
func (inv *Invitation) ParsedServices() []Service {
	services := make([]Service, 0, len(inv.Services))
	for _, raw := range inv.Services {
		var s Service
		_ = json.Unmarshal(raw, &s)
		services = append(services, s)
	}
	return services
}

// InvitationRecord wraps a created invitation with its tracking ids.
type InvitationRecord struct {
	InviMsgID     string      `json:"invi_msg_id"`
	InvitationURL string      `json:"invitation_url"`
	Invitation    *Invitation `json:"invitation"`
}

// InvitationRequest parametrizes invitation creation.
type InvitationRequest struct {
	Alias              string   `json:"alias,omitempty"`
	HandshakeProtocols []string `json:"handshake_protocols,omitempty"`
	UsePublicDID       bool     `json:"use_public_did,omitempty"`
	MultiUse           bool     `json:"-"`
	AutoAccept         bool     `json:"-"`
}

// DIDExchangeV1 is the only handshake protocol these flows negotiate.
const DIDExchangeV1 = "https://didcomm.org/didexchange/1.0"

// DID is a wallet DID with its verification key.
type DID struct {
	DID     string `json:"did"`
	Verkey  string `json:"verkey"`
	Posture string `json:"posture,omitempty"`
}

// TAARecord is the ledger's transaction-author-agreement document.
type TAARecord struct {
	Digest  string `json:"digest,omitempty"`
	Text    string `json:"text,omitempty"`
	Version string `json:"version,omitempty"`
}

// TAAAcceptance records a prior acceptance.
type TAAAcceptance struct {
	Mechanism string `json:"mechanism,omitempty"`
	Time      int64  `json:"time,omitempty"`
}

// TAAInfo is the ledger TAA state as the agent reports it.
type TAAInfo struct {
	TAARequired bool           `json:"taa_required"`
	TAARecord   *TAARecord     `json:"taa_record,omitempty"`
	TAAAccepted *TAAAcceptance `json:"taa_accepted,omitempty"`
}

// Attachment is one endorsement-request attachment of a transaction.
type Attachment struct {
	Data struct {
		JSON json.RawMessage `json:"json"`
	} `json:"data"`
}

// Transaction is a ledger transaction pending or past endorsement.
type Transaction struct {
	TransactionID  string       `json:"transaction_id"`
	State          string       `json:"state"`
	MessagesAttach []Attachment `json:"messages_attach,omitempty"`
}

// Transaction states relevant to the flows here.
const (
	TransactionStateRequestReceived = "request_received"
	TransactionStateAcked           = "transaction_acked"
)

// RegistryRecord is one issuer revocation registry.
type RegistryRecord struct {
	RevocRegID string   `json:"revoc_reg_id"`
	CredDefID  string   `json:"cred_def_id"`
	State      string   `json:"state"`
	MaxCredNum int      `json:"max_cred_num,omitempty"`
	PendingPub []string `json:"pending_pub,omitempty"`
}

// RegistryStateActive marks a registry published and usable.
const RegistryStateActive = "active"

// CredDefRequest parametrizes credential-definition publication. The
// publish call always requests an endorser transaction; issuers cannot
// write the ledger directly.
type CredDefRequest struct {
	SchemaID               string `json:"schema_id"`
	Tag                    string `json:"tag,omitempty"`
	SupportRevocation      bool   `json:"support_revocation,omitempty"`
	RevocationRegistrySize int    `json:"revocation_registry_size,omitempty"`
}

// CredDefResponse is the publish result: the definition id plus,
// when the write went through endorsement, the pending transaction.
type CredDefResponse struct {
	Sent struct {
		CredentialDefinitionID string `json:"credential_definition_id"`
	} `json:"sent"`
	Txn *Transaction `json:"txn,omitempty"`
}

// RevokeRequest revokes one issued credential, optionally publishing
// directly instead of staging the revocation as pending.
type RevokeRequest struct {
	CredExID string `json:"cred_ex_id"`
	Publish  bool   `json:"publish"`
}

// CredExRecordV1 is the older credential-exchange record shape.
type CredExRecordV1 struct {
	CredentialExchangeID   string `json:"credential_exchange_id"`
	CredentialDefinitionID string `json:"credential_definition_id"`
}

// CredExRecordV2 is the newer shape; the indy sub-record carries the
// revocation registry id.
type CredExRecordV2 struct {
	Indy struct {
		RevRegID  string `json:"rev_reg_id"`
		CredRevID string `json:"cred_rev_id"`
	} `json:"indy"`
}

// Schema is a ledger schema as the agent returns it.
type Schema struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}
