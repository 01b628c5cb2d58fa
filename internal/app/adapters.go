package app

import (
	"context"

	"github.com/google/uuid"

	agentDomain "github.com/dennisMeeQ/clavum/internal/agent/domain"
	authgateDomain "github.com/dennisMeeQ/clavum/internal/authgate/domain"
	phoneDomain "github.com/dennisMeeQ/clavum/internal/phone/domain"
	tenantDomain "github.com/dennisMeeQ/clavum/internal/tenant/domain"
)

// agentGetter and phoneGetter are the narrow slices of the agent/phone
// repositories the adapters below depend on, so they can be satisfied by
// either the concrete repository or a test double.
type agentGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*agentDomain.Agent, error)
}

type phoneGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*phoneDomain.Phone, error)
}

type tenantGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*tenantDomain.Tenant, error)
}

// identityLookup implements authgate/usecase.IdentityLookup by resolving an
// agent or phone's tenant and Ed25519 public key from their respective
// repositories. A repository miss is folded into ErrUnauthenticated here:
// AuthGate's own pipeline treats every lookup failure as indistinguishable
// from a bad signature.
type identityLookup struct {
	agents agentGetter
	phones phoneGetter
}

func newIdentityLookup(agents agentGetter, phones phoneGetter) *identityLookup {
	return &identityLookup{agents: agents, phones: phones}
}

func (l *identityLookup) LookupAgent(ctx context.Context, agentID string) (string, []byte, error) {
	id, err := uuid.Parse(agentID)
	if err != nil {
		return "", nil, authgateDomain.ErrUnauthenticated
	}
	a, err := l.agents.GetByID(ctx, id)
	if err != nil {
		return "", nil, authgateDomain.ErrUnauthenticated
	}
	return a.TenantID.String(), a.Ed25519Pub, nil
}

func (l *identityLookup) LookupPhone(ctx context.Context, phoneID string) (string, []byte, error) {
	id, err := uuid.Parse(phoneID)
	if err != nil {
		return "", nil, authgateDomain.ErrUnauthenticated
	}
	p, err := l.phones.GetByID(ctx, id)
	if err != nil {
		return "", nil, authgateDomain.ErrUnauthenticated
	}
	return p.TenantID.String(), p.Ed25519Pub, nil
}

// phoneKeyLookup implements approval/usecase.PhoneKeyLookup on top of the
// phone repository.
type phoneKeyLookup struct {
	phones phoneGetter
}

func newPhoneKeyLookup(phones phoneGetter) *phoneKeyLookup {
	return &phoneKeyLookup{phones: phones}
}

func (l *phoneKeyLookup) Ed25519Pub(ctx context.Context, phoneID uuid.UUID) ([]byte, error) {
	p, err := l.phones.GetByID(ctx, phoneID)
	if err != nil {
		return nil, err
	}
	return p.Ed25519Pub, nil
}

// tenantKeyLookup implements audit/usecase.TenantKeyLookup on top of the
// tenant server-private-key cache.
type tenantKeyLookup struct {
	cache *keycacheGetter
}

// keycacheGetter narrows internal/keycache.Cache to the single method this
// adapter needs, so it can be swapped in tests without importing keycache.
type keycacheGetter struct {
	get func(ctx context.Context, tenantID uuid.UUID) ([]byte, error)
}

func newTenantKeyLookup(get func(ctx context.Context, tenantID uuid.UUID) ([]byte, error)) *tenantKeyLookup {
	return &tenantKeyLookup{cache: &keycacheGetter{get: get}}
}

func (l *tenantKeyLookup) ServerPrivateKey(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
	return l.cache.get(ctx, tenantID)
}

// tenantKeyLoader builds the keycache.Loader that hydrates the cache from
// the tenant repository on a miss.
func tenantKeyLoader(tenants tenantGetter) func(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
	return func(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
		t, err := tenants.Get(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		return t.ServerPriv, nil
	}
}
