package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	approvalDomain "github.com/dennisMeeQ/clavum/internal/approval/domain"
	approvalUsecase "github.com/dennisMeeQ/clavum/internal/approval/usecase"
	auditDomain "github.com/dennisMeeQ/clavum/internal/audit/domain"
	"github.com/dennisMeeQ/clavum/internal/crypto/flows"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	"github.com/dennisMeeQ/clavum/internal/primitives"
	secretDomain "github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// Outcome is the closed sum of shapes a retrieval response can take.
type Outcome string

const (
	// OutcomeGranted carries key material ready for transport.
	OutcomeGranted Outcome = "granted"
	// OutcomePending carries an approval token the agent must poll.
	OutcomePending Outcome = "pending"
)

// RetrieveInput carries the base64url-decoded inputs to Retrieve. Decoding
// and the BadRequest mapping for malformed input both happen at the HTTP
// boundary, not here.
type RetrieveInput struct {
	TenantID     uuid.UUID
	AgentID      uuid.UUID
	SecretID     uuid.UUID
	EphX25519Pub []byte
	KEKSalt      []byte
	Reason       string
}

// RetrieveResult is the coordinator's outcome for one retrieval attempt.
type RetrieveResult struct {
	Outcome Outcome

	EncKEK    []byte
	EncKEKIV  []byte
	EncKEKTag []byte

	ApprovalID uuid.UUID
	ExpiresAt  time.Time
}

// PollInput carries the inputs to PollStatus.
type PollInput struct {
	TenantID   uuid.UUID
	AgentID    uuid.UUID
	SecretID   uuid.UUID
	ApprovalID uuid.UUID
}

// PollResult is the coordinator's outcome for one status poll.
type PollResult struct {
	Status      string
	RespondedAt *time.Time

	EncKEK    []byte
	EncKEKIV  []byte
	EncKEKTag []byte
}

// Coordinator is the entry point for secret retrieval: it validates
// ownership, routes by tier, derives key material, and emits the audit
// entry, without ever persisting a KEK or DEK.
type Coordinator struct {
	secrets    SecretLookup
	agents     AgentLookup
	phones     PhoneLookup
	tenantKeys TenantKeyLoader
	approvals  ApprovalCreator
	audit      AuditRecorder
	now        func() time.Time
}

// New constructs a Coordinator.
func New(secrets SecretLookup, agents AgentLookup, phones PhoneLookup, tenantKeys TenantKeyLoader, approvals ApprovalCreator, audit AuditRecorder) *Coordinator {
	return &Coordinator{
		secrets:    secrets,
		agents:     agents,
		phones:     phones,
		tenantKeys: tenantKeys,
		approvals:  approvals,
		audit:      audit,
		now:        time.Now,
	}
}

// recordFailure writes a best-effort result=error audit entry for a terminal
// failure the caller is about to return (crypto failure, key-load failure,
// forbidden, or any other internal error reached after the secret and its
// tier are known). The audit write's own error is swallowed: the failure
// that triggered it remains the one returned to the caller.
func (c *Coordinator) recordFailure(ctx context.Context, tenantID, agentID, secretID uuid.UUID, reason string, tier secretDomain.Tier, start time.Time) {
	latency := c.now().Sub(start).Milliseconds()
	entry := auditDomain.New(agentID, secretID, reason, tier, auditDomain.ResultError, latency, nil, c.now())
	_ = c.audit.Record(ctx, tenantID, entry)
}

// Retrieve authenticates ownership, then routes by tier: auto-granted tiers
// resolve immediately; sensitive and critical tiers delegate to
// ApprovalMachine and return a pending token for the agent to poll.
func (c *Coordinator) Retrieve(ctx context.Context, in RetrieveInput) (*RetrieveResult, error) {
	start := c.now()

	secret, err := c.secrets.Get(ctx, in.TenantID, in.SecretID)
	if err != nil {
		return nil, err
	}
	if secret.AgentID != in.AgentID {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, secretDomain.ErrNotOwner
	}

	switch secret.Tier {
	case secretDomain.TierRoutine:
		return c.grantRoutine(ctx, start, in, secret)
	case secretDomain.TierSensitive, secretDomain.TierCritical:
		return c.initiateApproval(ctx, start, in, secret)
	default:
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown tier")
	}
}

func (c *Coordinator) grantRoutine(ctx context.Context, start time.Time, in RetrieveInput, secret *secretDomain.Secret) (*RetrieveResult, error) {
	serverPriv, err := c.tenantKeys.Get(ctx, in.TenantID)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}
	defer primitives.Zero(serverPriv)

	agent, err := c.agents.Get(ctx, in.TenantID, in.AgentID)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}

	kek, err := flows.GreenKEK(serverPriv, in.EphX25519Pub, in.KEKSalt, in.SecretID.String())
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}
	defer primitives.Zero(kek)

	sessionKey, err := primitives.X25519Shared(serverPriv, agent.X25519Pub)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}

	encKEK, iv, tag, err := flows.WrapSessionKEK(sessionKey, kek)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}

	latency := c.now().Sub(start).Milliseconds()
	entry := auditDomain.New(in.AgentID, in.SecretID, in.Reason, secret.Tier, auditDomain.ResultAutoGranted, latency, nil, c.now())
	if err := c.audit.Record(ctx, in.TenantID, entry); err != nil {
		return nil, err
	}

	return &RetrieveResult{Outcome: OutcomeGranted, EncKEK: encKEK, EncKEKIV: iv, EncKEKTag: tag}, nil
}

func (c *Coordinator) initiateApproval(ctx context.Context, start time.Time, in RetrieveInput, secret *secretDomain.Secret) (*RetrieveResult, error) {
	phone, err := c.phones.GetByTenant(ctx, in.TenantID)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}

	createInput := approvalUsecase.CreateInput{
		PhoneID:  phone.ID,
		SecretID: in.SecretID,
		Reason:   in.Reason,
	}
	if secret.Tier == secretDomain.TierSensitive {
		createInput.EphX25519Pub = in.EphX25519Pub
		createInput.KEKSalt = in.KEKSalt
	}

	approval, err := c.approvals.Create(ctx, createInput)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, in.Reason, secret.Tier, start)
		return nil, err
	}

	return &RetrieveResult{Outcome: OutcomePending, ApprovalID: approval.ID, ExpiresAt: approval.ExpiresAt}, nil
}

// PollStatus resolves the current state of a pending retrieval. On the
// first poll that observes a terminal state, it derives key material (for
// approved) or simply reports the terminal kind (denied, expired) and
// writes the matching audit entry.
func (c *Coordinator) PollStatus(ctx context.Context, in PollInput) (*PollResult, error) {
	start := c.now()

	secret, err := c.secrets.Get(ctx, in.TenantID, in.SecretID)
	if err != nil {
		return nil, err
	}
	if secret.AgentID != in.AgentID {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, "", secret.Tier, start)
		return nil, secretDomain.ErrNotOwner
	}

	approval, err := c.approvals.GetStatus(ctx, in.ApprovalID)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, "", secret.Tier, start)
		return nil, err
	}
	if approval.SecretID != in.SecretID {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
		return nil, secretDomain.ErrNotOwner
	}

	switch approval.Status {
	case approvalDomain.StatusPending:
		return &PollResult{Status: string(approvalDomain.StatusPending)}, nil

	case approvalDomain.StatusDenied:
		latency := c.now().Sub(start).Milliseconds()
		entry := auditDomain.New(in.AgentID, in.SecretID, approval.Reason, secret.Tier, auditDomain.ResultDenied, latency, nil, c.now())
		if err := c.audit.Record(ctx, in.TenantID, entry); err != nil {
			return nil, err
		}
		return &PollResult{Status: string(approvalDomain.StatusDenied), RespondedAt: approval.RespondedAt}, nil

	case approvalDomain.StatusExpired:
		latency := c.now().Sub(start).Milliseconds()
		entry := auditDomain.New(in.AgentID, in.SecretID, approval.Reason, secret.Tier, auditDomain.ResultExpired, latency, nil, c.now())
		if err := c.audit.Record(ctx, in.TenantID, entry); err != nil {
			return nil, err
		}
		return &PollResult{Status: string(approvalDomain.StatusExpired), RespondedAt: approval.RespondedAt}, nil

	case approvalDomain.StatusApproved:
		return c.deliverApproved(ctx, start, in, secret, approval)

	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown approval status")
	}
}

func (c *Coordinator) deliverApproved(ctx context.Context, start time.Time, in PollInput, secret *secretDomain.Secret, approval *approvalDomain.Approval) (*PollResult, error) {
	serverPriv, err := c.tenantKeys.Get(ctx, in.TenantID)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
		return nil, err
	}
	defer primitives.Zero(serverPriv)

	agent, err := c.agents.Get(ctx, in.TenantID, in.AgentID)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
		return nil, err
	}

	var kek []byte
	var result auditDomain.Result
	if secret.Tier == secretDomain.TierCritical {
		phone, err := c.phones.GetByTenant(ctx, in.TenantID)
		if err != nil {
			c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
			return nil, err
		}
		kek, err = flows.RedKEK(serverPriv, agent.X25519Pub, phone.X25519Pub, approval.Challenge, in.SecretID.String())
		if err != nil {
			c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
			return nil, err
		}
		result = auditDomain.ResultDeviceUnlocked
	} else {
		kek, err = flows.GreenKEK(serverPriv, approval.EphX25519Pub, approval.KEKSalt, in.SecretID.String())
		if err != nil {
			c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
			return nil, err
		}
		result = auditDomain.ResultHumanApproved
	}
	defer primitives.Zero(kek)

	sessionKey, err := primitives.X25519Shared(serverPriv, agent.X25519Pub)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
		return nil, err
	}

	encKEK, iv, tag, err := flows.WrapSessionKEK(sessionKey, kek)
	if err != nil {
		c.recordFailure(ctx, in.TenantID, in.AgentID, in.SecretID, approval.Reason, secret.Tier, start)
		return nil, err
	}

	latency := c.now().Sub(start).Milliseconds()
	entry := auditDomain.New(in.AgentID, in.SecretID, approval.Reason, secret.Tier, result, latency, approval.ApprovalSignature, c.now())
	if err := c.audit.Record(ctx, in.TenantID, entry); err != nil {
		return nil, err
	}

	return &PollResult{
		Status:      string(approvalDomain.StatusApproved),
		RespondedAt: approval.RespondedAt,
		EncKEK:      encKEK,
		EncKEKIV:    iv,
		EncKEKTag:   tag,
	}, nil
}
