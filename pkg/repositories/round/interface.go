package round

import (
	"context"

	"github.com/driftgames/arcade/pkg/entities"
)

// Repository defines the interface for round-history persistence
type Repository interface {
	// SaveRound records one settled round
	SaveRound(ctx context.Context, result *entities.RoundResult) error

	// GetRounds retrieves the most recent rounds for a game. An empty
	// game selects every game.
	GetRounds(ctx context.Context, game string, limit int) ([]*entities.RoundResult, error)
}
