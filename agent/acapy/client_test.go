package acapy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/stretchr/testify/require"
)

func TestAuthHeadersAndPath(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotReq = r.Clone(r.Context())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"results":[]}`))
		}))
	defer srv.Close()

	c := New(srv.URL, WithAPIKey("admin-key-1"), WithToken("tenant-jwt-1"))
	_, err := c.GetConnections(context.Background(), ConnectionFilter{
		Alias: "endorser",
	})
	require.NoError(t, err)

	require.Equal(t, "/connections", gotReq.URL.Path)
	require.Equal(t, "endorser", gotReq.URL.Query().Get("alias"))
	require.Equal(t, "admin-key-1", gotReq.Header.Get("X-API-Key"))
	require.Equal(t, "Bearer tenant-jwt-1",
		gotReq.Header.Get("Authorization"))
	require.NotEmpty(t, gotReq.Header.Get("X-Request-ID"))
	require.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))
}

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apierr.Kind
		detail string
	}{
		{"not found", 404, `{"reason":"record not found"}`,
			apierr.NotFound, "record not found"},
		{"conflict", 409, `{"reason":"already exists"}`,
			apierr.Conflict, "already exists"},
		{"detail field", 422, `{"detail":"invalid structure"}`,
			apierr.Upstream, "invalid structure"},
		{"plain body", 500, `ledger is down`,
			apierr.Upstream, "ledger is down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				}))
			defer srv.Close()

			c := New(srv.URL)
			_, err := c.GetTransaction(context.Background(), "tx-1")
			require.Error(t, err)
			e := apierr.AsError(err)
			require.NotNil(t, e)
			require.Equal(t, tt.kind, e.Kind)
			require.Equal(t, tt.status, e.Status)
			require.Contains(t, e.Detail, tt.detail)
		})
	}
}

func TestGetPublicDIDEmptyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":null}`))
		}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetPublicDID(context.Background())
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.NotFound))
}

func TestRegisterNymEndorserRouting(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.RegisterNym(context.Background(),
		"ISSUER1", "IssuerVerkey1", "Acme Issuing", "")
	require.NoError(t, err)
	require.Empty(t, gotQuery["conn_id"])
	require.Empty(t, gotQuery["create_transaction_for_endorser"])

	err = c.RegisterNym(context.Background(),
		"ISSUER1", "IssuerVerkey1", "Acme Issuing", "endorser-conn-1")
	require.NoError(t, err)
	require.Equal(t, []string{"endorser-conn-1"}, gotQuery["conn_id"])
	require.Equal(t, []string{"true"},
		gotQuery["create_transaction_for_endorser"])
}

func TestGetSchemaHandlesBothKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"schema key", `{"schema":{"id":"S:2:email:1.0"}}`},
		{"schema_ key", `{"schema_":{"id":"S:2:email:1.0"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte(tt.body))
				}))
			defer srv.Close()

			c := New(srv.URL)
			schema, err := c.GetSchema(context.Background(), "15")
			require.NoError(t, err)
			require.Equal(t, "S:2:email:1.0", schema.ID)
		})
	}
}

func TestInvitationServicesParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"invi_msg_id": "invi-msg-1",
				"invitation_url": "http://agent?oob=eyJp",
				"invitation": {
					"services": [
						{"id":"#inline","recipientKeys":["Key1"]},
						"did:sov:WgWxqztrNooG92RXvxSTWv"
					]
				}
			}`))
		}))
	defer srv.Close()

	c := New(srv.URL)
	inv, err := c.CreateInvitation(context.Background(), InvitationRequest{
		Alias: "Acme",
	})
	require.NoError(t, err)
	require.Equal(t, "invi-msg-1", inv.InviMsgID)

	services := inv.Invitation.ParsedServices()
	require.Len(t, services, 2)
	require.Equal(t, []string{"Key1"}, services[0].RecipientKeys)
	// a plain DID service decodes to a zero Service, not an error
	require.Empty(t, services[1].RecipientKeys)
}
