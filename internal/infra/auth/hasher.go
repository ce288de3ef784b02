package auth

import (
	"log/slog"

	"userhub/config"
	"userhub/internal/domain/service"

	"go.uber.org/fx"
)

// HasherParams holds dependencies for the PasswordHasher, injected by Fx.
type HasherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPasswordHasher selects the hashing algorithm named by auth.hasher.
func NewPasswordHasher(params HasherParams) service.PasswordHasher {
	authCfg := params.Config.Auth
	if authCfg == nil {
		return NewBcryptHasher()
	}

	if authCfg.Hasher == config.HasherArgon2 {
		params.Logger.Info("Using Argon2id password hasher")

		return NewArgon2Hasher(authCfg.Argon2)
	}

	params.Logger.Info("Using bcrypt password hasher", slog.Int("cost", authCfg.BcryptCost))

	return NewBcryptHasherWithCost(authCfg.BcryptCost)
}
