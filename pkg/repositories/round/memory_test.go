package round

import (
	"context"
	"testing"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositorySaveAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRound(ctx, &entities.RoundResult{
		Game: "slots", Bet: 5, Payout: 20, Outcome: entities.OutcomePair,
	}))
	require.NoError(t, repo.SaveRound(ctx, &entities.RoundResult{
		Game: "blackjack", Bet: 10, Payout: 0, Outcome: entities.OutcomeLose, Detail: "bust",
	}))
	require.NoError(t, repo.SaveRound(ctx, &entities.RoundResult{
		Game: "slots", Bet: 5, Payout: 0, Outcome: entities.OutcomeNoMatch,
	}))

	slots, err := repo.GetRounds(ctx, "slots", 10)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	// Most recent first.
	assert.Equal(t, entities.OutcomeNoMatch, slots[0].Outcome)

	all, err := repo.GetRounds(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := repo.GetRounds(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryRepositoryAssignsIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	r := &entities.RoundResult{Game: "slots", Bet: 1, Outcome: entities.OutcomeNoMatch}
	require.NoError(t, repo.SaveRound(ctx, r))

	got, err := repo.GetRounds(ctx, "slots", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CompletedAt.IsZero())
}
