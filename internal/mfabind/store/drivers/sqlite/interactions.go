package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
)

type interactionsRepo struct {
	db dbtx
}

func (r *interactionsRepo) CreateInteraction(ctx context.Context, i domain.Interaction) error {
	state, records, err := marshalInteraction(i)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, binding_state, verification_records, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		i.ID, i.UserID, state, records, formatTime(i.CreatedAt), formatTime(i.ExpiresAt))
	return mapConflict(err)
}

func (r *interactionsRepo) GetInteraction(ctx context.Context, id string) (domain.Interaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, binding_state, verification_records, created_at, expires_at
		 FROM interactions WHERE id = ? AND expires_at > ?`,
		id, formatTime(time.Now()))

	var (
		i         domain.Interaction
		state     string
		records   string
		createdAt string
		expiresAt string
	)

	err := row.Scan(&i.ID, &i.UserID, &state, &records, &createdAt, &expiresAt)
	if err != nil {
		return domain.Interaction{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(state), &i.BindingState); err != nil {
		return domain.Interaction{}, err
	}
	if err := json.Unmarshal([]byte(records), &i.VerificationRecords); err != nil {
		return domain.Interaction{}, err
	}
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Interaction{}, err
	}
	if i.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return domain.Interaction{}, err
	}

	return i, nil
}

func (r *interactionsRepo) UpdateInteraction(ctx context.Context, i domain.Interaction) error {
	state, records, err := marshalInteraction(i)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE interactions SET binding_state = ?, verification_records = ? WHERE id = ?`,
		state, records, i.ID)
	return err
}

func (r *interactionsRepo) DeleteInteraction(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM interactions WHERE id = ?`, id)
	return err
}

func (r *interactionsRepo) DeleteExpiredInteractions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM interactions WHERE expires_at <= ?`, formatTime(time.Now()))
	return err
}

func marshalInteraction(i domain.Interaction) (state, records string, err error) {
	stateBlob, err := json.Marshal(i.BindingState)
	if err != nil {
		return "", "", err
	}

	verificationRecords := i.VerificationRecords
	if verificationRecords == nil {
		verificationRecords = []domain.VerificationRecord{}
	}
	recordsBlob, err := json.Marshal(verificationRecords)
	if err != nil {
		return "", "", err
	}

	return string(stateBlob), string(recordsBlob), nil
}
