package endorsement

import (
	"encoding/json"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/golang/glog"
)

// Indy ledger write types an endorser is willing to co-sign.
const (
	txnTypeAttrib        = "100"
	txnTypeClaimDef      = "102"
	txnTypeRevocRegDef   = "113"
	txnTypeRevocRegEntry = "114"
)

// requestAttachment is the decoded endorsement-request payload.
type requestAttachment struct {
	Identifier string `json:"identifier"`
	Operation  struct {
		Type string          `json:"type"`
		Ref  json.RawMessage `json:"ref"`
	} `json:"operation"`
}

// parseAttachment extracts the ledger-write payload from a transaction.
// Both object and string encodings of the attachment data occur in the
// wild; a string payload is decoded a second time.
func parseAttachment(tx *acapy.Transaction) (*requestAttachment, bool) {
	if len(tx.MessagesAttach) == 0 {
		glog.Warningln("no message attachments in transaction:",
			tx.TransactionID)
		return nil, false
	}
	raw := tx.MessagesAttach[0].Data.JSON
	if len(raw) == 0 {
		return nil, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			glog.Warningln("invalid attachment encoding:", err)
			return nil, false
		}
		raw = []byte(s)
	}
	var a requestAttachment
	if err := json.Unmarshal(raw, &a); err != nil {
		glog.Warningln("failed to decode attachment payload:", err)
		return nil, false
	}
	return &a, true
}

// shouldEndorse applies the acceptance rules: revocation definition and
// entry writes are always co-signed, credential definition writes must
// name their author and schema, everything else is refused.
func shouldEndorse(tx *acapy.Transaction) bool {
	a, ok := parseAttachment(tx)
	if !ok {
		return false
	}
	switch a.Operation.Type {
	case txnTypeRevocRegDef, txnTypeRevocRegEntry:
		return true
	case txnTypeClaimDef:
		if a.Identifier == "" {
			glog.Warningln("claim-def request without identifier:",
				tx.TransactionID)
			return false
		}
		if len(a.Operation.Ref) == 0 {
			glog.Warningln("claim-def request without schema ref:",
				tx.TransactionID)
			return false
		}
		return true
	default:
		glog.V(1).Infoln("refusing to endorse txn type:",
			a.Operation.Type)
		return false
	}
}
