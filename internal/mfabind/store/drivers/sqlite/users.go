package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, mfa_verifications, config, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	verifications, err := marshalVerifications(u.MfaVerifications)
	if err != nil {
		return err
	}

	config := u.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	now := formatTime(time.Now())
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, mfa_verifications, config, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, verifications, string(config), now, now)
	return mapConflict(err)
}

func (r *usersRepo) UpdateMfaVerifications(ctx context.Context, userID string, verifications []domain.MfaVerification) error {
	blob, err := marshalVerifications(verifications)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET mfa_verifications = ?, updated_at = ? WHERE id = ?`,
		blob, formatTime(time.Now()), userID)
	return err
}

func (r *usersRepo) UpdateConfig(ctx context.Context, userID string, config []byte) error {
	if len(config) == 0 {
		config = []byte(`{}`)
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET config = ?, updated_at = ? WHERE id = ?`,
		string(config), formatTime(time.Now()), userID)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

func marshalVerifications(verifications []domain.MfaVerification) (string, error) {
	if verifications == nil {
		verifications = []domain.MfaVerification{}
	}
	blob, err := json.Marshal(verifications)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u             domain.User
		verifications string
		config        string
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &verifications, &config, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(verifications), &u.MfaVerifications); err != nil {
		return domain.User{}, err
	}
	u.Config = json.RawMessage(config)

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.User{}, err
	}

	return u, nil
}
