package blackjack

import (
	"strconv"

	"github.com/driftgames/arcade/pkg/entities"
)

// DealerStandTotal is the total at which the dealer stops drawing.
// Dealer always hits 16 and below, always stands at 17 and above.
const DealerStandTotal = 17

func CardValue(card entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

func IsAce(card entities.Card) bool {
	return card.Rank == entities.Ace
}

// BestScore computes the ace-flexible hand total: every ace counts 11
// unless that would bust the hand, in which case it is demoted to 1, one
// ace at a time. Always recomputed from the cards, never cached.
func BestScore(cards []entities.Card) int {
	score := 0
	aces := 0

	// First count non-aces

	for _, card := range cards {
		if IsAce(card) {
			aces++
		} else {
			score += CardValue(card)
		}
	}

	// Then handle aces: all count 1, and one promotes to 11 if the
	// hand can absorb the extra 10. At most one ace can ever be 11.

	score += aces
	if aces > 0 && score+10 <= 21 {
		score += 10
	}

	return score
}

// IsNatural reports a two-card 21 dealt straight from the deck.
func IsNatural(cards []entities.Card) bool {
	return len(cards) == 2 && BestScore(cards) == 21
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []entities.Card) bool {
	return BestScore(cards) > 21
}

// NaturalPayout returns the total payout for a player natural: the bet
// returned plus 3:2 profit, i.e. 2.5× the bet rounded half-up. Rounding
// applies to the total payout; displayed profit is derived by
// subtraction.
func NaturalPayout(bet int64) int64 {
	return (bet*5 + 1) / 2
}
