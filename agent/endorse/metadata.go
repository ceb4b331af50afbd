package endorse

import (
	"context"

	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
)

// Transaction jobs negotiated on an author-endorser connection.
const (
	JobAuthor   = "TRANSACTION_AUTHOR"
	JobEndorser = "TRANSACTION_ENDORSER"
)

// Metadata key paths the agent stores the negotiation under.
const (
	metaTransactionJobs = "transaction_jobs"
	metaMyJob           = "transaction_my_job"
	metaTheirJob        = "transaction_their_job"
	metaEndorserInfo    = "endorser_info"
	metaEndorserDID     = "endorser_did"
)

// RoleMetadata is the typed view of the endorsement-related connection
// metadata. The raw map is parsed once so the checks below operate on
// named fields instead of repeated nested lookups.
type RoleMetadata struct {
	MyJob       string
	TheirJob    string
	EndorserDID string
}

// ParseRoleMetadata extracts the endorsement fields from a raw
// connection metadata map. Missing keys leave zero fields.
func ParseRoleMetadata(md map[string]any) RoleMetadata {
	var r RoleMetadata
	if jobs, ok := md[metaTransactionJobs].(map[string]any); ok {
		r.MyJob, _ = jobs[metaMyJob].(string)
		r.TheirJob, _ = jobs[metaTheirJob].(string)
	}
	if info, ok := md[metaEndorserInfo].(map[string]any); ok {
		r.EndorserDID, _ = info[metaEndorserDID].(string)
	}
	return r
}

// MetadataReader reads connection-scoped key/value metadata.
type MetadataReader interface {
	GetConnectionMetadata(
		ctx context.Context, connID string) (map[string]any, error)
}

// AssertMetadata polls the connection metadata until check accepts it.
// The policy's delay is slept before every read, the first one included:
// metadata is read right after a dependent write, and an immediate read
// races the agent's own record update (which can even fail with a
// duplicate-record storage error). Such read errors are retryable here,
// not fatal.
func AssertMetadata(
	ctx context.Context,
	agent MetadataReader,
	connID string,
	check func(RoleMetadata) bool,
	p poll.Policy,
) error {
	p.SleepFirst = true
	// read errors surface through the op return value so the loop
	// treats them as one more failed attempt, not as a fatal error
	_, err := poll.Until(ctx, p,
		func(ctx context.Context) (RoleMetadata, error) {
			md, err := agent.GetConnectionMetadata(ctx, connID)
			if err != nil {
				return RoleMetadata{}, err
			}
			return ParseRoleMetadata(md), nil
		},
		check)
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"metadata did not reach the expected state within the attempt bound")
	}
	return nil
}

// AssertEndorserRoleSet waits until the endorser side of the connection
// reports itself as the transaction endorser.
func AssertEndorserRoleSet(
	ctx context.Context,
	agent MetadataReader,
	connID string,
	p poll.Policy,
) error {
	err := AssertMetadata(ctx, agent, connID,
		func(md RoleMetadata) bool {
			return md.MyJob == JobEndorser
		}, p)
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"failed to assert that the endorser role has been set in the connection metadata")
	}
	return nil
}

// AssertAuthorRoleSet waits until the author side reports both jobs
// negotiated.
func AssertAuthorRoleSet(
	ctx context.Context,
	agent MetadataReader,
	connID string,
	p poll.Policy,
) error {
	err := AssertMetadata(ctx, agent, connID,
		func(md RoleMetadata) bool {
			return md.MyJob == JobAuthor && md.TheirJob == JobEndorser
		}, p)
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"failed to assert that the author role has been set in the connection metadata")
	}
	return nil
}

// AssertEndorserInfoSet waits until the author side additionally
// carries the endorser's DID.
func AssertEndorserInfoSet(
	ctx context.Context,
	agent MetadataReader,
	connID, endorserDID string,
	p poll.Policy,
) error {
	err := AssertMetadata(ctx, agent, connID,
		func(md RoleMetadata) bool {
			return md.MyJob == JobAuthor &&
				md.TheirJob == JobEndorser &&
				md.EndorserDID == endorserDID
		}, p)
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"failed to assert that the endorser info has been set in the connection metadata")
	}
	return nil
}
