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

	"github.com/dennisMeeQ/clavum/internal/agent/domain"
	"github.com/dennisMeeQ/clavum/internal/agent/usecase"
)

type fakeRepository struct {
	created   *domain.Agent
	createErr error
}

func (f *fakeRepository) Create(ctx context.Context, a *domain.Agent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = a
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Agent, error) {
	return nil, domain.ErrAgentNotFound
}

func (f *fakeRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Agent, error) {
	return nil, nil
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func setupTestHandler() (*Handler, *fakeRepository) {
	gin.SetMode(gin.TestMode)
	repo := &fakeRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(usecase.New(repo), logger), repo
}

func validRequest() CreateRequest {
	return CreateRequest{
		Name:       "agent-1",
		X25519Pub:  base64.RawURLEncoding.EncodeToString(make([]byte, 32)),
		Ed25519Pub: base64.RawURLEncoding.EncodeToString(make([]byte, 32)),
	}
}

func TestHandler_Create(t *testing.T) {
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, repo := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/tenants/"+tenantID.String()+"/agents", validRequest())
		c.Params = gin.Params{{Key: "id", Value: tenantID.String()}}
		handler.Create(c)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, repo.created)
		assert.Equal(t, "agent-1", repo.created.Name)

		var resp CreateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, tenantID.String(), resp.TenantID)
	})

	t.Run("Error_MalformedTenantID", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/tenants/not-a-uuid/agents", validRequest())
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/tenants/"+tenantID.String()+"/agents", nil)
		c.Params = gin.Params{{Key: "id", Value: tenantID.String()}}
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("not json")))
		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ValidationFailed_InvalidBase64", func(t *testing.T) {
		handler, _ := setupTestHandler()

		req := validRequest()
		req.X25519Pub = "not valid base64url!!"

		c, w := createTestContext(http.MethodPost, "/v1/tenants/"+tenantID.String()+"/agents", req)
		c.Params = gin.Params{{Key: "id", Value: tenantID.String()}}
		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_WrongKeyLength", func(t *testing.T) {
		handler, _ := setupTestHandler()

		req := validRequest()
		req.X25519Pub = base64.RawURLEncoding.EncodeToString([]byte("too-short"))

		c, w := createTestContext(http.MethodPost, "/v1/tenants/"+tenantID.String()+"/agents", req)
		c.Params = gin.Params{{Key: "id", Value: tenantID.String()}}
		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NameTaken", func(t *testing.T) {
		handler, repo := setupTestHandler()
		repo.createErr = domain.ErrAgentNameTaken

		c, w := createTestContext(http.MethodPost, "/v1/tenants/"+tenantID.String()+"/agents", validRequest())
		c.Params = gin.Params{{Key: "id", Value: tenantID.String()}}
		handler.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
