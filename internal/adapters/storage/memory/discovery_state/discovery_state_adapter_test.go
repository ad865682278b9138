package discovery_state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tx_streamer/internal/adapters/storage/memory/discovery_state"
	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDiscoveryStateRepo_GetSet(t *testing.T) {
	repo := discovery_state.NewInMemoryDiscoveryStateRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.Error(t, err, "Get() should return an error on initial call")
	assert.True(t, errors.Is(err, repository.ErrStateNotInitialized), "Error should be ErrStateNotInitialized")

	state1 := domain.DiscoveryState{RefreshedAt: time.Unix(100, 0), EndpointCount: 3, Candidates: 5}
	require.NoError(t, repo.Set(ctx, state1), "Set() for first state failed")

	got1, err := repo.Get(ctx)
	require.NoError(t, err, "Get() after set 1 failed")
	assert.Equal(t, state1, got1, "Get() after set 1 returned wrong state")

	state2 := domain.DiscoveryState{RefreshedAt: time.Unix(200, 0), Candidates: 5, Err: "no healthy endpoints"}
	require.NoError(t, repo.Set(ctx, state2), "Set() for second state failed")

	got2, err := repo.Get(ctx)
	require.NoError(t, err, "Get() after set 2 failed")
	assert.Equal(t, state2, got2, "Get() after set 2 returned wrong state")
}
