package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Interactions() Interactions
	SignInExperience() SignInExperience

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used when identifying the interaction's user.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateMfaVerifications replaces the committed MFA verification set
	// and bumps updated_at.
	UpdateMfaVerifications(ctx context.Context, userID string, verifications []domain.MfaVerification) error

	// UpdateConfig replaces the account config blob and bumps updated_at.
	UpdateConfig(ctx context.Context, userID string, config []byte) error

	// DeleteUser removes a user; interactions cascade per schema.
	DeleteUser(ctx context.Context, userID string) error
}

type Interactions interface {
	// CreateInteraction stores a freshly started interaction.
	CreateInteraction(ctx context.Context, i domain.Interaction) error

	// GetInteraction returns an interaction by id, only if not expired.
	GetInteraction(ctx context.Context, id string) (domain.Interaction, error)

	// UpdateInteraction persists the current binding state and
	// verification records of an interaction.
	UpdateInteraction(ctx context.Context, i domain.Interaction) error

	// DeleteInteraction removes an interaction (on submit or abandon).
	DeleteInteraction(ctx context.Context, id string) error

	// DeleteExpiredInteractions is housekeeping.
	DeleteExpiredInteractions(ctx context.Context) error
}

type SignInExperience interface {
	// GetSignInExperience returns the tenant sign-in-experience row. The
	// raw MFA section is returned unparsed; the policy validator owns
	// structural validation.
	GetSignInExperience(ctx context.Context) (RawSignInExperience, error)

	// UpdateSignInExperience replaces the tenant MFA configuration.
	UpdateSignInExperience(ctx context.Context, factors []byte, policy string) error
}

// RawSignInExperience is the stored tenant configuration before
// validation. MfaFactors is a JSON array of factor kind strings.
type RawSignInExperience struct {
	MfaFactors []byte
	MfaPolicy  string
}
