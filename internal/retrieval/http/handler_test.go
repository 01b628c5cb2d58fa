package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentDomain "github.com/dennisMeeQ/clavum/internal/agent/domain"
	approvalDomain "github.com/dennisMeeQ/clavum/internal/approval/domain"
	approvalUsecase "github.com/dennisMeeQ/clavum/internal/approval/usecase"
	auditDomain "github.com/dennisMeeQ/clavum/internal/audit/domain"
	authgateDomain "github.com/dennisMeeQ/clavum/internal/authgate/domain"
	authgateHTTP "github.com/dennisMeeQ/clavum/internal/authgate/http"
	phoneDomain "github.com/dennisMeeQ/clavum/internal/phone/domain"
	"github.com/dennisMeeQ/clavum/internal/primitives"
	secretDomain "github.com/dennisMeeQ/clavum/internal/secret/domain"

	"github.com/dennisMeeQ/clavum/internal/retrieval/usecase"
)

type fakeSecretLookup struct {
	secret *secretDomain.Secret
	err    error
}

func (f *fakeSecretLookup) Get(ctx context.Context, tenantID, id uuid.UUID) (*secretDomain.Secret, error) {
	return f.secret, f.err
}

type fakeAgentLookup struct {
	agent *agentDomain.Agent
	err   error
}

func (f *fakeAgentLookup) Get(ctx context.Context, tenantID, agentID uuid.UUID) (*agentDomain.Agent, error) {
	return f.agent, f.err
}

type fakePhoneLookup struct {
	phone *phoneDomain.Phone
	err   error
}

func (f *fakePhoneLookup) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*phoneDomain.Phone, error) {
	return f.phone, f.err
}

type fakeTenantKeyLoader struct {
	key []byte
	err error
}

func (f *fakeTenantKeyLoader) Get(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
	return f.key, f.err
}

type fakeApprovalCreator struct {
	created *approvalDomain.Approval
	status  *approvalDomain.Approval
	err     error
}

func (f *fakeApprovalCreator) Create(ctx context.Context, in approvalUsecase.CreateInput) (*approvalDomain.Approval, error) {
	return f.created, f.err
}

func (f *fakeApprovalCreator) GetStatus(ctx context.Context, approvalID uuid.UUID) (*approvalDomain.Approval, error) {
	return f.status, f.err
}

type fakeAuditRecorder struct {
	recorded []*auditDomain.Entry
	err      error
}

func (f *fakeAuditRecorder) Record(ctx context.Context, tenantID uuid.UUID, e *auditDomain.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, e)
	return nil
}

type fixture struct {
	secrets   *fakeSecretLookup
	agents    *fakeAgentLookup
	phones    *fakePhoneLookup
	tenantKey *fakeTenantKeyLoader
	approvals *fakeApprovalCreator
	audit     *fakeAuditRecorder
}

func createTestContext(method, path string, body interface{}, identity *authgateDomain.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if identity != nil {
		req = req.WithContext(authgateHTTP.WithIdentity(req.Context(), identity))
	}
	c.Request = req

	return c, w
}

func setupTestHandler() (*Handler, *fixture) {
	gin.SetMode(gin.TestMode)
	fx := &fixture{
		secrets:   &fakeSecretLookup{},
		agents:    &fakeAgentLookup{},
		phones:    &fakePhoneLookup{},
		tenantKey: &fakeTenantKeyLoader{},
		approvals: &fakeApprovalCreator{},
		audit:     &fakeAuditRecorder{},
	}
	coordinator := usecase.New(fx.secrets, fx.agents, fx.phones, fx.tenantKey, fx.approvals, fx.audit)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(coordinator, logger), fx
}

func TestHandler_Retrieve(t *testing.T) {
	tenantID := uuid.Must(uuid.NewV7())
	agentID := uuid.Must(uuid.NewV7())
	secretID := uuid.Must(uuid.NewV7())
	identity := &authgateDomain.Identity{Kind: authgateDomain.IdentityAgent, ID: agentID.String(), TenantID: tenantID.String()}

	serverPriv, _, err := primitives.X25519Keygen()
	require.NoError(t, err)
	agentPriv, agentPub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	_ = agentPriv

	validReq := RetrieveRequest{
		EphX25519Pub: base64.RawURLEncoding.EncodeToString(agentPub),
		KEKSalt:      base64.RawURLEncoding.EncodeToString(make([]byte, 16)),
		Reason:       "scheduled rotation",
	}

	t.Run("Success_RoutineTierGranted", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.secret = &secretDomain.Secret{ID: secretID, AgentID: agentID, Tier: secretDomain.TierRoutine}
		fx.tenantKey.key = serverPriv
		fx.agents.agent = &agentDomain.Agent{ID: agentID, TenantID: tenantID, X25519Pub: agentPub}

		c, w := createTestContext(http.MethodPost, "/api/secrets/"+secretID.String()+"/retrieve", validReq, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Retrieve(c)

		require.Equal(t, http.StatusOK, w.Code)

		var resp GrantedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.EncKEK)
		assert.Len(t, fx.audit.recorded, 1)
	})

	t.Run("Success_SensitiveTierPending", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.secret = &secretDomain.Secret{ID: secretID, AgentID: agentID, Tier: secretDomain.TierSensitive}
		fx.phones.phone = &phoneDomain.Phone{ID: uuid.Must(uuid.NewV7()), TenantID: tenantID}
		approvalID := uuid.Must(uuid.NewV7())
		fx.approvals.created = &approvalDomain.Approval{ID: approvalID, SecretID: secretID}

		c, w := createTestContext(http.MethodPost, "/api/secrets/"+secretID.String()+"/retrieve", validReq, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Retrieve(c)

		require.Equal(t, http.StatusAccepted, w.Code)

		var resp PendingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, approvalID.String(), resp.ApprovalID)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/api/secrets/"+secretID.String()+"/retrieve", validReq, nil)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Retrieve(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MalformedSecretID", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/api/secrets/not-a-uuid/retrieve", validReq, identity)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		handler.Retrieve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_MalformedEphPub", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.secret = &secretDomain.Secret{ID: secretID, AgentID: agentID, Tier: secretDomain.TierRoutine}

		req := validReq
		req.EphX25519Pub = "not valid base64url!!"

		c, w := createTestContext(http.MethodPost, "/api/secrets/"+secretID.String()+"/retrieve", req, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Retrieve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NotOwner", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.secret = &secretDomain.Secret{ID: secretID, AgentID: uuid.Must(uuid.NewV7()), Tier: secretDomain.TierRoutine}

		c, w := createTestContext(http.MethodPost, "/api/secrets/"+secretID.String()+"/retrieve", validReq, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Retrieve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_SecretNotFound", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.err = secretDomain.ErrSecretNotFound

		c, w := createTestContext(http.MethodPost, "/api/secrets/"+secretID.String()+"/retrieve", validReq, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Retrieve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Status(t *testing.T) {
	tenantID := uuid.Must(uuid.NewV7())
	agentID := uuid.Must(uuid.NewV7())
	secretID := uuid.Must(uuid.NewV7())
	approvalID := uuid.Must(uuid.NewV7())
	identity := &authgateDomain.Identity{Kind: authgateDomain.IdentityAgent, ID: agentID.String(), TenantID: tenantID.String()}

	t.Run("Success_StillPending", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.secret = &secretDomain.Secret{ID: secretID, AgentID: agentID, Tier: secretDomain.TierSensitive}
		fx.approvals.status = &approvalDomain.Approval{ID: approvalID, SecretID: secretID, Status: approvalDomain.StatusPending}

		c, w := createTestContext(http.MethodGet, "/api/secrets/"+secretID.String()+"/retrieve/status?approval_id="+approvalID.String(), nil, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Status(c)

		require.Equal(t, http.StatusOK, w.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodGet, "/api/secrets/"+secretID.String()+"/retrieve/status?approval_id="+approvalID.String(), nil, nil)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Status(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MalformedApprovalID", func(t *testing.T) {
		handler, fx := setupTestHandler()
		fx.secrets.secret = &secretDomain.Secret{ID: secretID, AgentID: agentID, Tier: secretDomain.TierSensitive}

		c, w := createTestContext(http.MethodGet, "/api/secrets/"+secretID.String()+"/retrieve/status?approval_id=not-a-uuid", nil, identity)
		c.Params = gin.Params{{Key: "id", Value: secretID.String()}}
		handler.Status(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
