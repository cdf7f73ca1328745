package entities

import "time"

// Outcome classifies how a round settled, across both games.
type Outcome string

const (
	// Blackjack outcomes
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"

	// Slot outcomes
	OutcomeTriple  Outcome = "TRIPLE"
	OutcomePair    Outcome = "PAIR"
	OutcomeNoMatch Outcome = "NO_MATCH"
)

// IsWin returns true if this outcome paid more than the stake back.
func (o Outcome) IsWin() bool {
	switch o {
	case OutcomeWin, OutcomeBlackjack, OutcomeTriple, OutcomePair:
		return true
	}
	return false
}

// RoundResult records one settled round for the history repositories.
type RoundResult struct {
	ID          string    `json:"id"`
	Game        string    `json:"game"` // "slots" or "blackjack"
	Bet         int64     `json:"bet"`
	Payout      int64     `json:"payout"`
	Outcome     Outcome   `json:"outcome"`
	Detail      string    `json:"detail,omitempty"` // e.g. winning symbol, "bust"
	CompletedAt time.Time `json:"completed_at"`
}
