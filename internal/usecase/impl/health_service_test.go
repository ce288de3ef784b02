package impl

import (
	"context"
	"testing"

	mockRepo "userhub/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthService_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		repo := mockRepo.NewMockAccountRepository(t)
		repo.EXPECT().Ping(mock.Anything).Return(nil)

		assert.NoError(t, NewHealthService(repo).Check(context.Background()))
	})

	t.Run("store down", func(t *testing.T) {
		repo := mockRepo.NewMockAccountRepository(t)
		pingErr := errors.New("no reachable servers")
		repo.EXPECT().Ping(mock.Anything).Return(pingErr)

		err := NewHealthService(repo).Check(context.Background())
		assert.ErrorIs(t, err, pingErr)
	})
}
