package stats

import (
	"context"

	"github.com/driftgames/arcade/pkg/entities"
	roundRepo "github.com/driftgames/arcade/pkg/repositories/round"
	"github.com/driftgames/arcade/pkg/storage"
)

// Summary aggregates a game's round history.
type Summary struct {
	Game        string `json:"game"`
	Rounds      int    `json:"rounds"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Pushes      int    `json:"pushes"`
	TotalBet    int64  `json:"total_bet"`
	TotalPayout int64  `json:"total_payout"`
	Net         int64  `json:"net"`
	Best        int64  `json:"best"` // best balance ever reached on this game
}

// Service computes per-game summaries from the round history and the
// persisted high-water marks.
type Service struct {
	rounds roundRepo.Repository
	store  storage.Store
}

// New creates a stats service over the given round history.
func New(rounds roundRepo.Repository, store storage.Store) *Service {
	return &Service{rounds: rounds, store: store}
}

// SummaryLimit caps how much history one summary walks.
const SummaryLimit = 1000

// Summarize aggregates the most recent rounds of a game. A game with no
// history yields a zero summary rather than an error.
func (s *Service) Summarize(ctx context.Context, game string) (*Summary, error) {
	rounds, err := s.rounds.GetRounds(ctx, game, SummaryLimit)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Game: game}
	for _, r := range rounds {
		sum.Rounds++
		sum.TotalBet += r.Bet
		sum.TotalPayout += r.Payout
		switch {
		case r.Outcome.IsWin():
			sum.Wins++
		case r.Outcome == entities.OutcomePush:
			sum.Pushes++
		default:
			sum.Losses++
		}
	}
	sum.Net = sum.TotalPayout - sum.TotalBet
	sum.Best = s.best(game)
	return sum, nil
}

func (s *Service) best(game string) int64 {
	switch game {
	case "slots":
		return storage.GetJSON(s.store, storage.KeySlotsBest, int64(0))
	case "blackjack":
		return storage.GetJSON(s.store, storage.KeyBlackjackBest, int64(0))
	default:
		return 0
	}
}
