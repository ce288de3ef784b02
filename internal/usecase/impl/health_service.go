package impl

import (
	"context"

	"userhub/internal/domain/repository"
	"userhub/internal/errors"
	"userhub/internal/usecase"
)

type healthService struct {
	accountRepo repository.AccountRepository
}

// NewHealthService returns a HealthUsecase that pings the account store.
func NewHealthService(accountRepo repository.AccountRepository) usecase.HealthUsecase {
	return &healthService{accountRepo: accountRepo}
}

func (srv *healthService) Check(ctx context.Context) error {
	return errors.Wrap(srv.accountRepo.Ping(ctx), "account store unreachable")
}
