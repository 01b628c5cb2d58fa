package http

import (
	"bytes"
	"context"
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

	"github.com/dennisMeeQ/clavum/internal/tenant/domain"
	"github.com/dennisMeeQ/clavum/internal/tenant/usecase"
)

// fakeRepository is an in-memory usecase.Repository used to exercise the
// handler without a database.
type fakeRepository struct {
	created    *domain.Tenant
	createErr  error
	getResult  *domain.Tenant
	getErr     error
}

func (f *fakeRepository) Create(ctx context.Context, t *domain.Tenant) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = t
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
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

func TestHandler_Create(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, repo := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/tenants", CreateRequest{Name: "acme-corp"})
		handler.Create(c)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, repo.created)
		assert.Equal(t, "acme-corp", repo.created.Name)

		var resp CreateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "acme-corp", resp.Name)
		assert.NotEmpty(t, resp.ServerPub)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/tenants", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("not json")))
		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ValidationFailed_BlankName", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/tenants", CreateRequest{Name: "   "})
		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NameTaken", func(t *testing.T) {
		handler, repo := setupTestHandler()
		repo.createErr = domain.ErrTenantNameTaken

		c, w := createTestContext(http.MethodPost, "/v1/tenants", CreateRequest{Name: "acme-corp"})
		handler.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
