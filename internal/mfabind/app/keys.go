package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/mfabind/pkg/cryptox"
	"github.com/aussiebroadwan/mfabind/pkg/idx"
	"github.com/aussiebroadwan/mfabind/pkg/jwtx"
)

// InitInteractionKeys generates an ephemeral Ed25519 key pair for signing
// interaction tokens. Tokens do not survive a restart; clients recover by
// identifying again and opening a fresh interaction.
func InitInteractionKeys(issuer string, logger *slog.Logger) (*jwtx.KeySet, *jwtx.EdDSASigner, jwtx.Verifier, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate Ed25519 key: %w", err)
	}

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load Ed25519 signer: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid Ed25519 signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifierEdDSA(keys, issuer)

	logger.Info("interaction token keys generated", "kid", kid, "alg", signer.Alg())

	return keys, signer, verifier, nil
}
