package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
	"github.com/aussiebroadwan/mfabind/pkg/cryptox"
	"github.com/aussiebroadwan/mfabind/pkg/idx"
)

// DefaultInteractionTTL bounds how long a binding flow can stay open.
const DefaultInteractionTTL = 30 * time.Minute

var ErrInvalidCredentials = errors.New("invalid username or password")

// InteractionService owns the lifecycle of authentication interactions:
// creation for an identified user, rehydration between round trips, and
// the final submit that persists the accumulated MFA bindings.
type InteractionService struct {
	Store  store.Store
	Policy PolicyValidator
	TTL    time.Duration
}

// Start identifies the user by username and password and opens a fresh
// interaction for them.
func (s *InteractionService) Start(ctx context.Context, username, password string) (domain.Interaction, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Interaction{}, ErrInvalidCredentials
		}
		return domain.Interaction{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.Interaction{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultInteractionTTL
	}

	now := time.Now().UTC()
	interaction := domain.Interaction{
		ID:        idx.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.Store.Interactions().CreateInteraction(ctx, interaction); err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to create interaction: %w", err)
	}

	return interaction, nil
}

// Get rehydrates an interaction by id. Expired or unknown interactions
// read as not found.
func (s *InteractionService) Get(ctx context.Context, id string) (domain.Interaction, error) {
	interaction, err := s.Store.Interactions().GetInteraction(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Interaction{}, ErrInteractionNotFound
		}
		return domain.Interaction{}, fmt.Errorf("failed to load interaction: %w", err)
	}
	return interaction, nil
}

// Save persists the interaction's binding state and verification records
// after a mutating operation.
func (s *InteractionService) Save(ctx context.Context, interaction domain.Interaction) error {
	if err := s.Store.Interactions().UpdateInteraction(ctx, interaction); err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}
	return nil
}

// Engine builds a binding engine bound to the given interaction. The
// engine mutates the interaction's binding state in place; call Save
// afterwards to persist it.
func (s *InteractionService) Engine(interaction *domain.Interaction) *BindingEngine {
	return NewBindingEngine(
		s.Policy,
		&interactionUserResolver{store: s.Store, userID: interaction.UserID},
		&interactionVerificationResolver{interaction: interaction},
		nil,
		&interaction.BindingState,
	)
}

// Submit runs the final policy gates, materializes the new verification
// records, and persists them to the user account in one transaction. The
// interaction is consumed on success.
func (s *InteractionService) Submit(ctx context.Context, interaction *domain.Interaction) (domain.MaterializedMfa, error) {
	engine := s.Engine(interaction)

	if err := engine.CheckAvailability(ctx); err != nil {
		return domain.MaterializedMfa{}, err
	}
	if err := engine.AssertMandatoryFulfilled(ctx); err != nil {
		return domain.MaterializedMfa{}, err
	}

	materialized := engine.Materialize()

	user, err := s.Store.Users().GetUserByID(ctx, interaction.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.MaterializedMfa{}, ErrUserNotFound
		}
		return domain.MaterializedMfa{}, fmt.Errorf("failed to load user: %w", err)
	}

	merged := append(user.MfaVerifications, materialized.Verifications...)

	var config []byte
	if materialized.Skipped != nil {
		config, err = domain.SetMfaSkipped(user.Config, *materialized.Skipped)
		if err != nil {
			return domain.MaterializedMfa{}, fmt.Errorf("failed to update account config: %w", err)
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateMfaVerifications(ctx, user.ID, merged); err != nil {
			return fmt.Errorf("failed to persist MFA verifications: %w", err)
		}
		if config != nil {
			if err := tx.Users().UpdateConfig(ctx, user.ID, config); err != nil {
				return fmt.Errorf("failed to persist account config: %w", err)
			}
		}
		if err := tx.Interactions().DeleteInteraction(ctx, interaction.ID); err != nil {
			return fmt.Errorf("failed to consume interaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.MaterializedMfa{}, err
	}

	return materialized, nil
}

// interactionUserResolver reads the committed account state for the
// interaction's user on demand.
type interactionUserResolver struct {
	store  store.Store
	userID string
}

func (r *interactionUserResolver) GetIdentifierUser(ctx context.Context) (domain.User, error) {
	user, err := r.store.Users().GetUserByID(ctx, r.userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// interactionVerificationResolver resolves challenge records from the
// interaction's own record set.
type interactionVerificationResolver struct {
	interaction *domain.Interaction
}

func (r *interactionVerificationResolver) GetVerificationRecordByTypeAndID(
	vt domain.VerificationType,
	id string,
) (*domain.VerificationRecord, error) {
	record := r.interaction.FindVerificationRecord(vt, id)
	if record == nil {
		return nil, ErrVerificationNotFound
	}
	return record, nil
}
