package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
)

type signInExperienceRepo struct {
	db dbtx
}

func (r *signInExperienceRepo) GetSignInExperience(ctx context.Context) (store.RawSignInExperience, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT mfa_factors, mfa_policy FROM sign_in_experience WHERE id = 1`)

	var (
		factors string
		policy  string
	)
	if err := row.Scan(&factors, &policy); err != nil {
		return store.RawSignInExperience{}, mapNotFound(err)
	}

	return store.RawSignInExperience{
		MfaFactors: []byte(factors),
		MfaPolicy:  policy,
	}, nil
}

func (r *signInExperienceRepo) UpdateSignInExperience(ctx context.Context, factors []byte, policy string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sign_in_experience SET mfa_factors = ?, mfa_policy = ?, updated_at = ? WHERE id = 1`,
		string(factors), policy, formatTime(time.Now()))
	return err
}
