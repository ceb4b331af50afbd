/*
Package acapy is a typed client for the admin API of the external
cryptographic-identity agent. One Client speaks for one tenant wallet
(or for the privileged endorser wallet when built with the endorser's
token). Every call is a plain request/response; the observable side
effects of the mutating calls appear asynchronously and are waited for
by the poll-based waiters built on top of this package.

The client owns no state beyond its connection parameters. Upstream
failures are converted into apierr errors carrying the upstream status
and reason; 404 and 409 map to their own kinds so callers can branch on
them without string matching.
*/
package acapy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Client calls one agent admin API on behalf of one wallet.
type Client struct {
	base   string
	apiKey string
	token  string
	hc     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the admin API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithToken sets the tenant bearer token. Without it the client speaks
// for the base wallet of the agent.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New builds a Client for the admin API at base.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: base,
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type errorBody struct {
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) (
	err error,
) {
	defer err2.Handle(&err)

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(try.To1(json.Marshal(body)))
	}
	req := try.To1(http.NewRequestWithContext(ctx, method, u, rd))
	req.Header.Set("Content-Type", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	glog.V(5).Infoln(reqID, method, path)
	resp := try.To1(c.hc.Do(req))
	defer func() { _ = resp.Body.Close() }()

	data := try.To1(io.ReadAll(resp.Body))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		try.To(json.Unmarshal(data, out))
	}
	return nil
}

func upstreamError(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	reason := eb.Reason
	if reason == "" {
		reason = eb.Detail
	}
	if reason == "" {
		reason = string(body)
	}
	kind := apierr.Upstream
	switch status {
	case http.StatusNotFound:
		kind = apierr.NotFound
	case http.StatusConflict:
		kind = apierr.Conflict
	}
	return apierr.New(kind, reason).WithStatus(status)
}

func boolStr(b bool) string {
	return strconv.FormatBool(b)
}

// --- connections & invitations ---

// CreateInvitation creates an out-of-band invitation.
func (c *Client) CreateInvitation(
	ctx context.Context,
	req InvitationRequest,
) (
	inv *InvitationRecord,
	err error,
) {
	defer err2.Handle(&err, "create invitation")

	q := url.Values{
		"auto_accept": {boolStr(req.AutoAccept)},
		"multi_use":   {boolStr(req.MultiUse)},
	}
	inv = new(InvitationRecord)
	try.To(c.do(ctx, http.MethodPost, "/out-of-band/create-invitation",
		q, req, inv))
	return inv, nil
}

// ReceiveInvitation accepts an out-of-band invitation on behalf of this
// client's wallet and returns the resulting connection record.
func (c *Client) ReceiveInvitation(
	ctx context.Context,
	inv *Invitation,
	alias string,
) (
	conn *Connection,
	err error,
) {
	defer err2.Handle(&err, "receive invitation")

	q := url.Values{
		"auto_accept":             {"true"},
		"use_existing_connection": {"false"},
	}
	if alias != "" {
		q.Set("alias", alias)
	}
	conn = new(Connection)
	try.To(c.do(ctx, http.MethodPost, "/out-of-band/receive-invitation",
		q, inv, conn))
	return conn, nil
}

type connectionList struct {
	Results []Connection `json:"results"`
}

// GetConnections lists connection records matching the filter.
func (c *Client) GetConnections(
	ctx context.Context,
	filter ConnectionFilter,
) (
	conns []Connection,
	err error,
) {
	defer err2.Handle(&err, "get connections")

	q := url.Values{}
	if filter.Alias != "" {
		q.Set("alias", filter.Alias)
	}
	if filter.InvitationMsgID != "" {
		q.Set("invitation_msg_id", filter.InvitationMsgID)
	}
	if filter.State != "" {
		q.Set("state", filter.State)
	}
	var l connectionList
	try.To(c.do(ctx, http.MethodGet, "/connections", q, nil, &l))
	return l.Results, nil
}

// GetConnection fetches one connection record.
func (c *Client) GetConnection(
	ctx context.Context,
	connID string,
) (
	conn *Connection,
	err error,
) {
	defer err2.Handle(&err, "get connection")

	conn = new(Connection)
	try.To(c.do(ctx, http.MethodGet, "/connections/"+connID, nil, nil, conn))
	return conn, nil
}

type metadataResult struct {
	Results map[string]any `json:"results"`
}

// GetConnectionMetadata reads the key/value metadata of a connection.
// The raw map is returned; callers parse it into typed form once.
func (c *Client) GetConnectionMetadata(
	ctx context.Context,
	connID string,
) (
	md map[string]any,
	err error,
) {
	defer err2.Handle(&err, "get connection metadata")

	var r metadataResult
	try.To(c.do(ctx, http.MethodGet,
		"/connections/"+connID+"/metadata", nil, nil, &r))
	return r.Results, nil
}

// SetConnectionRole assigns this wallet's transaction job on the
// connection. The assignment becomes visible in the connection metadata
// only after a propagation delay.
func (c *Client) SetConnectionRole(
	ctx context.Context,
	connID, role string,
) (
	err error,
) {
	defer err2.Handle(&err, "set connection role")

	q := url.Values{"transaction_my_job": {role}}
	try.To(c.do(ctx, http.MethodPost,
		"/transactions/"+connID+"/set-endorser-role", q, nil, nil))
	return nil
}

// SetEndorserInfo records the endorser's DID on the author-side
// connection.
func (c *Client) SetEndorserInfo(
	ctx context.Context,
	connID, endorserDID string,
) (
	err error,
) {
	defer err2.Handle(&err, "set endorser info")

	q := url.Values{"endorser_did": {endorserDID}}
	try.To(c.do(ctx, http.MethodPost,
		"/transactions/"+connID+"/set-endorser-info", q, nil, nil))
	return nil
}

// --- wallet DIDs ---

type didResult struct {
	Result *DID `json:"result"`
}

// CreateDID creates a new local DID in the wallet.
func (c *Client) CreateDID(ctx context.Context) (did *DID, err error) {
	defer err2.Handle(&err, "create did")

	var r didResult
	try.To(c.do(ctx, http.MethodPost, "/wallet/did/create", nil,
		map[string]any{}, &r))
	if r.Result == nil || r.Result.DID == "" || r.Result.Verkey == "" {
		return nil, apierr.New(apierr.Upstream, "agent returned no did")
	}
	return r.Result, nil
}

// GetPublicDID returns the wallet's public DID. A wallet without one
// gets a NotFound-kinded error.
func (c *Client) GetPublicDID(ctx context.Context) (did *DID, err error) {
	defer err2.Handle(&err, "get public did")

	var r didResult
	try.To(c.do(ctx, http.MethodGet, "/wallet/did/public", nil, nil, &r))
	if r.Result == nil || r.Result.DID == "" {
		return nil, apierr.New(apierr.NotFound, "no public did found")
	}
	return r.Result, nil
}

// SetPublicDIDResponse carries whichever the agent produced: the
// assigned DID, or the transaction pending endorsement.
type SetPublicDIDResponse struct {
	Result *DID         `json:"result,omitempty"`
	Txn    *Transaction `json:"txn,omitempty"`
}

// SetPublicDID assigns the wallet's public DID. When the wallet cannot
// write the ledger directly, createTransactionForEndorser routes the
// write through the endorser connection.
func (c *Client) SetPublicDID(
	ctx context.Context,
	did string,
	createTransactionForEndorser bool,
) (
	r *SetPublicDIDResponse,
	err error,
) {
	defer err2.Handle(&err, "set public did")

	q := url.Values{
		"did": {did},
		"create_transaction_for_endorser": {
			boolStr(createTransactionForEndorser)},
	}
	r = new(SetPublicDIDResponse)
	try.To(c.do(ctx, http.MethodPost, "/wallet/did/public", q, nil, r))
	if r.Result == nil && !createTransactionForEndorser {
		return nil, apierr.Newf(apierr.Upstream,
			"error setting public did to %s", did)
	}
	return r, nil
}

// --- ledger ---

// RegisterNym writes a DID-to-verkey registration onto the ledger.
// Called on the endorser's client it writes directly; an author passes
// its endorser connection id to route the write through endorsement.
func (c *Client) RegisterNym(
	ctx context.Context,
	did, verkey, alias, endorserConnID string,
) (
	err error,
) {
	defer err2.Handle(&err, "register nym")

	q := url.Values{"did": {did}, "verkey": {verkey}}
	if alias != "" {
		q.Set("alias", alias)
	}
	if endorserConnID != "" {
		q.Set("conn_id", endorserConnID)
		q.Set("create_transaction_for_endorser", "true")
	}
	try.To(c.do(ctx, http.MethodPost, "/ledger/register-nym", q, nil, nil))
	return nil
}

type taaResult struct {
	Result *TAAInfo `json:"result"`
}

// GetTAA reads the ledger's transaction-author-agreement state.
func (c *Client) GetTAA(ctx context.Context) (info *TAAInfo, err error) {
	defer err2.Handle(&err, "get taa")

	var r taaResult
	try.To(c.do(ctx, http.MethodGet, "/ledger/taa", nil, nil, &r))
	if r.Result == nil {
		return nil, apierr.New(apierr.Upstream, "could not get taa")
	}
	return r.Result, nil
}

// AcceptTAA accepts the agreement with the given mechanism.
func (c *Client) AcceptTAA(
	ctx context.Context,
	record *TAARecord,
	mechanism string,
) (
	err error,
) {
	defer err2.Handle(&err, "accept taa")

	body := map[string]string{
		"text":      record.Text,
		"version":   record.Version,
		"mechanism": mechanism,
	}
	try.To(c.do(ctx, http.MethodPost, "/ledger/taa/accept", nil, body, nil))
	return nil
}

type schemaResult struct {
	Schema    *Schema `json:"schema"`
	SchemaAlt *Schema `json:"schema_"`
}

// GetSchema fetches a schema by id or ledger sequence number.
func (c *Client) GetSchema(
	ctx context.Context,
	schemaID string,
) (
	schema *Schema,
	err error,
) {
	defer err2.Handle(&err, "get schema")

	var r schemaResult
	try.To(c.do(ctx, http.MethodGet, "/schemas/"+schemaID, nil, nil, &r))
	schema = r.Schema
	if schema == nil {
		schema = r.SchemaAlt
	}
	if schema == nil || schema.ID == "" {
		return nil, apierr.Newf(apierr.NotFound,
			"schema %s not found", schemaID)
	}
	return schema, nil
}

// --- endorsement transactions ---

// GetTransaction fetches one endorsement transaction.
func (c *Client) GetTransaction(
	ctx context.Context,
	txID string,
) (
	tx *Transaction,
	err error,
) {
	defer err2.Handle(&err, "get transaction")

	tx = new(Transaction)
	try.To(c.do(ctx, http.MethodGet, "/transactions/"+txID, nil, nil, tx))
	return tx, nil
}

type transactionList struct {
	Results []Transaction `json:"results"`
}

// GetTransactions lists this wallet's endorsement transactions.
func (c *Client) GetTransactions(
	ctx context.Context,
) (
	txs []Transaction,
	err error,
) {
	defer err2.Handle(&err, "get transactions")

	var l transactionList
	try.To(c.do(ctx, http.MethodGet, "/transactions", nil, nil, &l))
	return l.Results, nil
}

// EndorseTransaction co-signs a received endorsement request. Only the
// endorser's client may call it.
func (c *Client) EndorseTransaction(
	ctx context.Context,
	txID string,
) (
	err error,
) {
	defer err2.Handle(&err, "endorse transaction")

	try.To(c.do(ctx, http.MethodPost,
		"/transactions/"+txID+"/endorse", nil, nil, nil))
	return nil
}

// --- credential definitions ---

// PublishCredentialDefinition submits a credential definition for
// publication through the endorser.
func (c *Client) PublishCredentialDefinition(
	ctx context.Context,
	req CredDefRequest,
) (
	r *CredDefResponse,
	err error,
) {
	defer err2.Handle(&err, "publish credential definition")

	q := url.Values{"create_transaction_for_endorser": {"true"}}
	r = new(CredDefResponse)
	try.To(c.do(ctx, http.MethodPost, "/credential-definitions", q, req, r))
	return r, nil
}

// --- revocation ---

type createdRegistries struct {
	RevRegIDs []string `json:"rev_reg_ids"`
}

// GetCreatedRegistries lists registry ids created for the credential
// definition, optionally filtered by state.
func (c *Client) GetCreatedRegistries(
	ctx context.Context,
	credDefID, state string,
) (
	regIDs []string,
	err error,
) {
	defer err2.Handle(&err, "get created registries")

	q := url.Values{"cred_def_id": {credDefID}}
	if state != "" {
		q.Set("state", state)
	}
	var l createdRegistries
	try.To(c.do(ctx, http.MethodGet,
		"/revocation/registries/created", q, nil, &l))
	return l.RevRegIDs, nil
}

type registryResult struct {
	Result *RegistryRecord `json:"result"`
}

// GetRegistry fetches one revocation registry record fresh from the
// agent.
func (c *Client) GetRegistry(
	ctx context.Context,
	regID string,
) (
	reg *RegistryRecord,
	err error,
) {
	defer err2.Handle(&err, "get registry")

	var r registryResult
	try.To(c.do(ctx, http.MethodGet,
		"/revocation/registry/"+regID, nil, nil, &r))
	if r.Result == nil {
		return nil, apierr.Newf(apierr.NotFound,
			"revocation registry %s not found", regID)
	}
	return r.Result, nil
}

// ActiveRegistry returns the currently active registry for the
// credential definition.
func (c *Client) ActiveRegistry(
	ctx context.Context,
	credDefID string,
) (
	reg *RegistryRecord,
	err error,
) {
	defer err2.Handle(&err, "active registry")

	var r registryResult
	try.To(c.do(ctx, http.MethodGet,
		"/revocation/active-registry/"+credDefID, nil, nil, &r))
	if r.Result == nil {
		return nil, apierr.Newf(apierr.NotFound,
			"no active registry for %s", credDefID)
	}
	return r.Result, nil
}

// CreateRegistry provisions a new revocation registry for the
// credential definition.
func (c *Client) CreateRegistry(
	ctx context.Context,
	credDefID string,
	maxCredNum int,
) (
	reg *RegistryRecord,
	err error,
) {
	defer err2.Handle(&err, "create registry")

	body := map[string]any{
		"credential_definition_id": credDefID,
		"max_cred_num":             maxCredNum,
	}
	var r registryResult
	try.To(c.do(ctx, http.MethodPost,
		"/revocation/create-registry", nil, body, &r))
	if r.Result == nil {
		return nil, apierr.Newf(apierr.Upstream,
			"error creating revocation registry for %s", credDefID)
	}
	return r.Result, nil
}

// PublishRegistryDefinition writes the registry definition to the
// ledger, through the endorser when requested.
func (c *Client) PublishRegistryDefinition(
	ctx context.Context,
	regID, connID string,
	createTransactionForEndorser bool,
) (
	tx *Transaction,
	err error,
) {
	defer err2.Handle(&err, "publish registry definition")

	q := url.Values{"create_transaction_for_endorser": {
		boolStr(createTransactionForEndorser)}}
	if createTransactionForEndorser && connID != "" {
		q.Set("conn_id", connID)
	}
	var r struct {
		Result *RegistryRecord `json:"result,omitempty"`
		Txn    *Transaction    `json:"txn,omitempty"`
	}
	try.To(c.do(ctx, http.MethodPost,
		"/revocation/registry/"+regID+"/definition", q, nil, &r))
	return r.Txn, nil
}

// PublishRegistryEntry writes the registry's accumulator entry to the
// ledger.
func (c *Client) PublishRegistryEntry(
	ctx context.Context,
	regID, connID string,
	createTransactionForEndorser bool,
) (
	reg *RegistryRecord,
	err error,
) {
	defer err2.Handle(&err, "publish registry entry")

	q := url.Values{"create_transaction_for_endorser": {
		boolStr(createTransactionForEndorser)}}
	if createTransactionForEndorser && connID != "" {
		q.Set("conn_id", connID)
	}
	var r registryResult
	try.To(c.do(ctx, http.MethodPost,
		"/revocation/registry/"+regID+"/entry", q, nil, &r))
	if r.Result == nil {
		return nil, apierr.New(apierr.Upstream,
			"failed to publish revocation entry to ledger")
	}
	return r.Result, nil
}

// RevokeCredential revokes one credential, staging or publishing per
// the request.
func (c *Client) RevokeCredential(
	ctx context.Context,
	req RevokeRequest,
) (
	err error,
) {
	defer err2.Handle(&err, "revoke credential")

	try.To(c.do(ctx, http.MethodPost, "/revocation/revoke", nil, req, nil))
	return nil
}

// PublishRevocations publishes the staged revocations named by the
// registry-to-credential map.
func (c *Client) PublishRevocations(
	ctx context.Context,
	rrid2crid map[string][]string,
) (
	err error,
) {
	defer err2.Handle(&err, "publish revocations")

	body := map[string]any{"rrid2crid": rrid2crid}
	try.To(c.do(ctx, http.MethodPost,
		"/revocation/publish-revocations", nil, body, nil))
	return nil
}

// ClearPendingRevocations drops staged revocations and returns what
// remains pending per registry.
func (c *Client) ClearPendingRevocations(
	ctx context.Context,
	purge map[string][]string,
) (
	remaining map[string][]string,
	err error,
) {
	defer err2.Handle(&err, "clear pending revocations")

	body := map[string]any{"purge": purge}
	var r struct {
		RRID2CRID map[string][]string `json:"rrid2crid"`
	}
	try.To(c.do(ctx, http.MethodPost,
		"/revocation/clear-pending-revocations", nil, body, &r))
	return r.RRID2CRID, nil
}

// --- credential exchange records ---

// GetCredExRecordV1 fetches the older-shape exchange record.
func (c *Client) GetCredExRecordV1(
	ctx context.Context,
	credExID string,
) (
	rec *CredExRecordV1,
	err error,
) {
	defer err2.Handle(&err, "get cred ex record v1")

	rec = new(CredExRecordV1)
	try.To(c.do(ctx, http.MethodGet,
		"/issue-credential/records/"+credExID, nil, nil, rec))
	return rec, nil
}

// GetCredExRecordV2 fetches the newer-shape exchange record.
func (c *Client) GetCredExRecordV2(
	ctx context.Context,
	credExID string,
) (
	rec *CredExRecordV2,
	err error,
) {
	defer err2.Handle(&err, "get cred ex record v2")

	rec = new(CredExRecordV2)
	try.To(c.do(ctx, http.MethodGet,
		"/issue-credential-2.0/records/"+credExID, nil, nil, rec))
	return rec, nil
}