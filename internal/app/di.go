// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	agentHTTP "github.com/dennisMeeQ/clavum/internal/agent/http"
	agentRepository "github.com/dennisMeeQ/clavum/internal/agent/repository"
	agentUsecase "github.com/dennisMeeQ/clavum/internal/agent/usecase"
	approvalHTTP "github.com/dennisMeeQ/clavum/internal/approval/http"
	approvalRepository "github.com/dennisMeeQ/clavum/internal/approval/repository"
	approvalUsecase "github.com/dennisMeeQ/clavum/internal/approval/usecase"
	auditHTTP "github.com/dennisMeeQ/clavum/internal/audit/http"
	auditRepository "github.com/dennisMeeQ/clavum/internal/audit/repository"
	auditService "github.com/dennisMeeQ/clavum/internal/audit/service"
	auditUsecase "github.com/dennisMeeQ/clavum/internal/audit/usecase"
	authgateRepository "github.com/dennisMeeQ/clavum/internal/authgate/repository"
	authgateUsecase "github.com/dennisMeeQ/clavum/internal/authgate/usecase"
	"github.com/dennisMeeQ/clavum/internal/config"
	"github.com/dennisMeeQ/clavum/internal/database"
	clavumHTTP "github.com/dennisMeeQ/clavum/internal/http"
	"github.com/dennisMeeQ/clavum/internal/keycache"
	"github.com/dennisMeeQ/clavum/internal/metrics"
	phoneHTTP "github.com/dennisMeeQ/clavum/internal/phone/http"
	phoneRepository "github.com/dennisMeeQ/clavum/internal/phone/repository"
	phoneUsecase "github.com/dennisMeeQ/clavum/internal/phone/usecase"
	retrievalHTTP "github.com/dennisMeeQ/clavum/internal/retrieval/http"
	retrievalUsecase "github.com/dennisMeeQ/clavum/internal/retrieval/usecase"
	secretHTTP "github.com/dennisMeeQ/clavum/internal/secret/http"
	secretRepository "github.com/dennisMeeQ/clavum/internal/secret/repository"
	secretUsecase "github.com/dennisMeeQ/clavum/internal/secret/usecase"
	tenantHTTP "github.com/dennisMeeQ/clavum/internal/tenant/http"
	tenantRepository "github.com/dennisMeeQ/clavum/internal/tenant/repository"
	tenantUsecase "github.com/dennisMeeQ/clavum/internal/tenant/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Tenant vertical
	tenantRepo *tenantRepository.PostgreSQLTenantRepository
	tenantUC   *tenantUsecase.TenantUseCase

	// Agent vertical
	agentRepo *agentRepository.PostgreSQLAgentRepository
	agentUC   *agentUsecase.AgentUseCase

	// Phone vertical
	phoneRepo *phoneRepository.PostgreSQLPhoneRepository
	phoneUC   *phoneUsecase.PhoneUseCase

	// Tenant server-private-key cache, shared by the audit and retrieval verticals
	keyCache *keycache.Cache

	// AuthGate (request authentication + replay protection)
	nonceRepo *authgateRepository.PostgreSQLNonceRepository
	authGate  *authgateUsecase.AuthGate

	// Secret metadata vertical
	secretRepo *secretRepository.PostgreSQLSecretRepository
	secretUC   *secretUsecase.SecretUseCase

	// Approval vertical
	approvalRepo    *approvalRepository.PostgreSQLApprovalRepository
	approvalMachine *approvalUsecase.ApprovalMachine

	// Audit vertical
	auditRepo *auditRepository.PostgreSQLAuditRepository
	auditUC   *auditUsecase.AuditUseCase

	// Retrieval coordinator
	coordinator *retrievalUsecase.Coordinator

	// HTTP handlers
	tenantHandler    *tenantHTTP.Handler
	agentHandler     *agentHTTP.Handler
	phoneHandler     *phoneHTTP.Handler
	secretHandler    *secretHTTP.Handler
	retrievalHandler *retrievalHTTP.Handler
	approvalHandler  *approvalHTTP.Handler
	auditHandler     *auditHTTP.Handler

	// Metrics
	metricsProvider *metrics.Provider

	// Servers
	httpServer    *clavumHTTP.Server
	metricsServer *clavumHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu sync.Mutex

	loggerInit          sync.Once
	dbInit              sync.Once
	tenantRepoInit      sync.Once
	tenantUCInit        sync.Once
	agentRepoInit       sync.Once
	agentUCInit         sync.Once
	phoneRepoInit       sync.Once
	phoneUCInit         sync.Once
	keyCacheInit        sync.Once
	nonceRepoInit       sync.Once
	authGateInit        sync.Once
	secretRepoInit      sync.Once
	secretUCInit        sync.Once
	approvalRepoInit    sync.Once
	approvalMachineInit sync.Once
	auditRepoInit       sync.Once
	auditUCInit         sync.Once
	coordinatorInit     sync.Once
	tenantHandlerInit   sync.Once
	agentHandlerInit    sync.Once
	phoneHandlerInit    sync.Once
	secretHandlerInit   sync.Once
	retrievalHandlerInit sync.Once
	approvalHandlerInit sync.Once
	auditHandlerInit    sync.Once
	metricsProviderInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once

	initErrors map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

// DB returns the database connection, connecting on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// TenantRepository returns the tenant repository instance.
func (c *Container) TenantRepository() (*tenantRepository.PostgreSQLTenantRepository, error) {
	var err error
	c.tenantRepoInit.Do(func() {
		c.tenantRepo, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepo"]; exists {
		return nil, storedErr
	}
	return c.tenantRepo, nil
}

func (c *Container) initTenantRepository() (*tenantRepository.PostgreSQLTenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for tenant repository: %s", c.config.DBDriver)
	}
	return tenantRepository.NewPostgreSQLTenantRepository(db), nil
}

// TenantUseCase returns the tenant use case instance.
func (c *Container) TenantUseCase() (*tenantUsecase.TenantUseCase, error) {
	var err error
	c.tenantUCInit.Do(func() {
		c.tenantUC, err = c.initTenantUseCase()
		if err != nil {
			c.initErrors["tenantUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantUC"]; exists {
		return nil, storedErr
	}
	return c.tenantUC, nil
}

func (c *Container) initTenantUseCase() (*tenantUsecase.TenantUseCase, error) {
	repo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
	}
	return tenantUsecase.New(repo), nil
}

// AgentRepository returns the agent repository instance.
func (c *Container) AgentRepository() (*agentRepository.PostgreSQLAgentRepository, error) {
	var err error
	c.agentRepoInit.Do(func() {
		c.agentRepo, err = c.initAgentRepository()
		if err != nil {
			c.initErrors["agentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["agentRepo"]; exists {
		return nil, storedErr
	}
	return c.agentRepo, nil
}

func (c *Container) initAgentRepository() (*agentRepository.PostgreSQLAgentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for agent repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for agent repository: %s", c.config.DBDriver)
	}
	return agentRepository.NewPostgreSQLAgentRepository(db), nil
}

// AgentUseCase returns the agent use case instance.
func (c *Container) AgentUseCase() (*agentUsecase.AgentUseCase, error) {
	var err error
	c.agentUCInit.Do(func() {
		c.agentUC, err = c.initAgentUseCase()
		if err != nil {
			c.initErrors["agentUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["agentUC"]; exists {
		return nil, storedErr
	}
	return c.agentUC, nil
}

func (c *Container) initAgentUseCase() (*agentUsecase.AgentUseCase, error) {
	repo, err := c.AgentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get agent repository for agent use case: %w", err)
	}
	return agentUsecase.New(repo), nil
}

// PhoneRepository returns the phone repository instance.
func (c *Container) PhoneRepository() (*phoneRepository.PostgreSQLPhoneRepository, error) {
	var err error
	c.phoneRepoInit.Do(func() {
		c.phoneRepo, err = c.initPhoneRepository()
		if err != nil {
			c.initErrors["phoneRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["phoneRepo"]; exists {
		return nil, storedErr
	}
	return c.phoneRepo, nil
}

func (c *Container) initPhoneRepository() (*phoneRepository.PostgreSQLPhoneRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for phone repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for phone repository: %s", c.config.DBDriver)
	}
	return phoneRepository.NewPostgreSQLPhoneRepository(db), nil
}

// PhoneUseCase returns the phone use case instance.
func (c *Container) PhoneUseCase() (*phoneUsecase.PhoneUseCase, error) {
	var err error
	c.phoneUCInit.Do(func() {
		c.phoneUC, err = c.initPhoneUseCase()
		if err != nil {
			c.initErrors["phoneUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["phoneUC"]; exists {
		return nil, storedErr
	}
	return c.phoneUC, nil
}

func (c *Container) initPhoneUseCase() (*phoneUsecase.PhoneUseCase, error) {
	repo, err := c.PhoneRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get phone repository for phone use case: %w", err)
	}
	return phoneUsecase.New(repo), nil
}

// KeyCache returns the tenant server-private-key cache, shared by the audit
// and retrieval verticals.
func (c *Container) KeyCache() (*keycache.Cache, error) {
	var err error
	c.keyCacheInit.Do(func() {
		c.keyCache, err = c.initKeyCache()
		if err != nil {
			c.initErrors["keyCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyCache"]; exists {
		return nil, storedErr
	}
	return c.keyCache, nil
}

func (c *Container) initKeyCache() (*keycache.Cache, error) {
	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for key cache: %w", err)
	}
	return keycache.New(tenantKeyLoader(tenantRepo), c.config.TenantKeyCacheTTL), nil
}

// NonceRepository returns the AuthGate replay-protection repository.
func (c *Container) NonceRepository() (*authgateRepository.PostgreSQLNonceRepository, error) {
	var err error
	c.nonceRepoInit.Do(func() {
		c.nonceRepo, err = c.initNonceRepository()
		if err != nil {
			c.initErrors["nonceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["nonceRepo"]; exists {
		return nil, storedErr
	}
	return c.nonceRepo, nil
}

func (c *Container) initNonceRepository() (*authgateRepository.PostgreSQLNonceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for nonce repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for nonce repository: %s", c.config.DBDriver)
	}
	return authgateRepository.NewPostgreSQLNonceRepository(db), nil
}

// AuthGate returns the request authentication + replay protection gate.
func (c *Container) AuthGate() (*authgateUsecase.AuthGate, error) {
	var err error
	c.authGateInit.Do(func() {
		c.authGate, err = c.initAuthGate()
		if err != nil {
			c.initErrors["authGate"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authGate"]; exists {
		return nil, storedErr
	}
	return c.authGate, nil
}

func (c *Container) initAuthGate() (*authgateUsecase.AuthGate, error) {
	agentRepo, err := c.AgentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get agent repository for auth gate: %w", err)
	}
	phoneRepo, err := c.PhoneRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get phone repository for auth gate: %w", err)
	}
	nonceRepo, err := c.NonceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce repository for auth gate: %w", err)
	}

	identities := newIdentityLookup(agentRepo, phoneRepo)
	return authgateUsecase.New(
		identities,
		nonceRepo,
		c.config.RequestMaxAgeMillis,
		c.config.NonceTTLMultiplier,
	), nil
}

// SecretRepository returns the secret metadata repository instance.
func (c *Container) SecretRepository() (*secretRepository.PostgreSQLSecretRepository, error) {
	var err error
	c.secretRepoInit.Do(func() {
		c.secretRepo, err = c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRepo, nil
}

func (c *Container) initSecretRepository() (*secretRepository.PostgreSQLSecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for secret repository: %s", c.config.DBDriver)
	}
	return secretRepository.NewPostgreSQLSecretRepository(db), nil
}

// SecretUseCase returns the secret metadata use case instance.
func (c *Container) SecretUseCase() (*secretUsecase.SecretUseCase, error) {
	var err error
	c.secretUCInit.Do(func() {
		c.secretUC, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUC"]; exists {
		return nil, storedErr
	}
	return c.secretUC, nil
}

func (c *Container) initSecretUseCase() (*secretUsecase.SecretUseCase, error) {
	repo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}
	return secretUsecase.New(repo), nil
}

// ApprovalRepository returns the approval repository instance.
func (c *Container) ApprovalRepository() (*approvalRepository.PostgreSQLApprovalRepository, error) {
	var err error
	c.approvalRepoInit.Do(func() {
		c.approvalRepo, err = c.initApprovalRepository()
		if err != nil {
			c.initErrors["approvalRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["approvalRepo"]; exists {
		return nil, storedErr
	}
	return c.approvalRepo, nil
}

func (c *Container) initApprovalRepository() (*approvalRepository.PostgreSQLApprovalRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for approval repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for approval repository: %s", c.config.DBDriver)
	}
	return approvalRepository.NewPostgreSQLApprovalRepository(db), nil
}

// ApprovalMachine returns the sensitive-tier approval state machine.
func (c *Container) ApprovalMachine() (*approvalUsecase.ApprovalMachine, error) {
	var err error
	c.approvalMachineInit.Do(func() {
		c.approvalMachine, err = c.initApprovalMachine()
		if err != nil {
			c.initErrors["approvalMachine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["approvalMachine"]; exists {
		return nil, storedErr
	}
	return c.approvalMachine, nil
}

func (c *Container) initApprovalMachine() (*approvalUsecase.ApprovalMachine, error) {
	repo, err := c.ApprovalRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get approval repository for approval machine: %w", err)
	}
	phoneRepo, err := c.PhoneRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get phone repository for approval machine: %w", err)
	}
	return approvalUsecase.New(repo, newPhoneKeyLookup(phoneRepo)), nil
}

// AuditRepository returns the audit log repository instance.
func (c *Container) AuditRepository() (*auditRepository.PostgreSQLAuditRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

func (c *Container) initAuditRepository() (*auditRepository.PostgreSQLAuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for audit repository: %s", c.config.DBDriver)
	}
	return auditRepository.NewPostgreSQLAuditRepository(db), nil
}

// AuditUseCase returns the audit log use case instance.
func (c *Container) AuditUseCase() (*auditUsecase.AuditUseCase, error) {
	var err error
	c.auditUCInit.Do(func() {
		c.auditUC, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUC"]; exists {
		return nil, storedErr
	}
	return c.auditUC, nil
}

func (c *Container) initAuditUseCase() (*auditUsecase.AuditUseCase, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}
	keyCache, err := c.KeyCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get key cache for audit use case: %w", err)
	}
	signer := auditService.NewSigner()
	return auditUsecase.New(repo, signer, newTenantKeyLookup(keyCache.Get)), nil
}

// Coordinator returns the retrieval coordinator.
func (c *Container) Coordinator() (*retrievalUsecase.Coordinator, error) {
	var err error
	c.coordinatorInit.Do(func() {
		c.coordinator, err = c.initCoordinator()
		if err != nil {
			c.initErrors["coordinator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["coordinator"]; exists {
		return nil, storedErr
	}
	return c.coordinator, nil
}

func (c *Container) initCoordinator() (*retrievalUsecase.Coordinator, error) {
	secretRepo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for coordinator: %w", err)
	}
	agentRepo, err := c.AgentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get agent repository for coordinator: %w", err)
	}
	phoneRepo, err := c.PhoneRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get phone repository for coordinator: %w", err)
	}
	keyCache, err := c.KeyCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get key cache for coordinator: %w", err)
	}
	approvalMachine, err := c.ApprovalMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to get approval machine for coordinator: %w", err)
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for coordinator: %w", err)
	}

	return retrievalUsecase.New(secretRepo, agentRepo, phoneRepo, keyCache, approvalMachine, auditUC), nil
}

// TenantHandler returns the tenant HTTP handler.
func (c *Container) TenantHandler() (*tenantHTTP.Handler, error) {
	var err error
	c.tenantHandlerInit.Do(func() {
		c.tenantHandler, err = c.initTenantHandler()
		if err != nil {
			c.initErrors["tenantHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantHandler"]; exists {
		return nil, storedErr
	}
	return c.tenantHandler, nil
}

func (c *Container) initTenantHandler() (*tenantHTTP.Handler, error) {
	useCase, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for tenant handler: %w", err)
	}
	return tenantHTTP.NewHandler(useCase, c.Logger()), nil
}

// AgentHandler returns the agent HTTP handler.
func (c *Container) AgentHandler() (*agentHTTP.Handler, error) {
	var err error
	c.agentHandlerInit.Do(func() {
		c.agentHandler, err = c.initAgentHandler()
		if err != nil {
			c.initErrors["agentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["agentHandler"]; exists {
		return nil, storedErr
	}
	return c.agentHandler, nil
}

func (c *Container) initAgentHandler() (*agentHTTP.Handler, error) {
	useCase, err := c.AgentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get agent use case for agent handler: %w", err)
	}
	return agentHTTP.NewHandler(useCase, c.Logger()), nil
}

// PhoneHandler returns the phone HTTP handler.
func (c *Container) PhoneHandler() (*phoneHTTP.Handler, error) {
	var err error
	c.phoneHandlerInit.Do(func() {
		c.phoneHandler, err = c.initPhoneHandler()
		if err != nil {
			c.initErrors["phoneHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["phoneHandler"]; exists {
		return nil, storedErr
	}
	return c.phoneHandler, nil
}

func (c *Container) initPhoneHandler() (*phoneHTTP.Handler, error) {
	useCase, err := c.PhoneUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get phone use case for phone handler: %w", err)
	}
	return phoneHTTP.NewHandler(useCase, c.Logger()), nil
}

// SecretHandler returns the secret HTTP handler.
func (c *Container) SecretHandler() (*secretHTTP.Handler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		c.secretHandler, err = c.initSecretHandler()
		if err != nil {
			c.initErrors["secretHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

func (c *Container) initSecretHandler() (*secretHTTP.Handler, error) {
	useCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for secret handler: %w", err)
	}
	return secretHTTP.NewHandler(useCase, c.Logger()), nil
}

// RetrievalHandler returns the retrieval HTTP handler.
func (c *Container) RetrievalHandler() (*retrievalHTTP.Handler, error) {
	var err error
	c.retrievalHandlerInit.Do(func() {
		c.retrievalHandler, err = c.initRetrievalHandler()
		if err != nil {
			c.initErrors["retrievalHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["retrievalHandler"]; exists {
		return nil, storedErr
	}
	return c.retrievalHandler, nil
}

func (c *Container) initRetrievalHandler() (*retrievalHTTP.Handler, error) {
	coordinator, err := c.Coordinator()
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator for retrieval handler: %w", err)
	}
	return retrievalHTTP.NewHandler(coordinator, c.Logger()), nil
}

// ApprovalHandler returns the approval HTTP handler.
func (c *Container) ApprovalHandler() (*approvalHTTP.Handler, error) {
	var err error
	c.approvalHandlerInit.Do(func() {
		c.approvalHandler, err = c.initApprovalHandler()
		if err != nil {
			c.initErrors["approvalHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["approvalHandler"]; exists {
		return nil, storedErr
	}
	return c.approvalHandler, nil
}

func (c *Container) initApprovalHandler() (*approvalHTTP.Handler, error) {
	machine, err := c.ApprovalMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to get approval machine for approval handler: %w", err)
	}
	return approvalHTTP.NewHandler(machine, c.Logger()), nil
}

// AuditHandler returns the audit HTTP handler.
func (c *Container) AuditHandler() (*auditHTTP.Handler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		c.auditHandler, err = c.initAuditHandler()
		if err != nil {
			c.initErrors["auditHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

func (c *Container) initAuditHandler() (*auditHTTP.Handler, error) {
	useCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for audit handler: %w", err)
	}
	return auditHTTP.NewHandler(useCase, c.Logger()), nil
}

// MetricsProvider returns the OpenTelemetry/Prometheus metrics provider.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// HTTPServer returns the agent/phone/operator-facing HTTP server, fully
// routed and ready to Start.
func (c *Container) HTTPServer() (*clavumHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

func (c *Container) initHTTPServer() (*clavumHTTP.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	gate, err := c.AuthGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth gate for http server: %w", err)
	}

	tenantHandler, err := c.TenantHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant handler for http server: %w", err)
	}
	agentHandler, err := c.AgentHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get agent handler for http server: %w", err)
	}
	phoneHandler, err := c.PhoneHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get phone handler for http server: %w", err)
	}
	secretHandler, err := c.SecretHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret handler for http server: %w", err)
	}
	retrievalHandler, err := c.RetrievalHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get retrieval handler for http server: %w", err)
	}
	approvalHandler, err := c.ApprovalHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get approval handler for http server: %w", err)
	}
	auditHandler, err := c.AuditHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit handler for http server: %w", err)
	}

	server := clavumHTTP.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.config, gate, clavumHTTP.Handlers{
		Tenant:    tenantHandler,
		Agent:     agentHandler,
		Phone:     phoneHandler,
		Secret:    secretHandler,
		Retrieval: retrievalHandler,
		Approval:  approvalHandler,
		Audit:     auditHandler,
	})

	return server, nil
}

// MetricsServer returns the standalone Prometheus /metrics server. Returns
// nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*clavumHTTP.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

func (c *Container) initMetricsServer() (*clavumHTTP.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	return clavumHTTP.NewMetricsServer(c.config.MetricsHost, c.config.MetricsPort, c.Logger(), provider), nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}
