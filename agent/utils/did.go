// Package utils has small helpers shared by the flows.
package utils

import (
	"strings"

	"github.com/mr-tron/base58"
)

const sovPrefix = "did:sov:"

// QualifiedDIDSov prefixes an unqualified sov DID. Already qualified
// DIDs (of any method) pass through unchanged.
func QualifiedDIDSov(did string) string {
	if did == "" || strings.HasPrefix(did, "did:") {
		return did
	}
	return sovPrefix + did
}

// UnqualifiedDID strips the sov prefix when present; ledger calls want
// the bare identifier.
func UnqualifiedDID(did string) string {
	return strings.TrimPrefix(did, sovPrefix)
}

// IsVerkey reports whether s decodes to a 32-byte ed25519 verification
// key in base58. Verifier onboarding advertises such a key instead of a
// public DID.
func IsVerkey(s string) bool {
	b, err := base58.Decode(s)
	return err == nil && len(b) == 32
}
