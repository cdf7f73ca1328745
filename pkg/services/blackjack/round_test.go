package blackjack

import (
	"context"
	"testing"

	"github.com/driftgames/arcade/pkg/entities"
	roundRepo "github.com/driftgames/arcade/pkg/repositories/round"
	"github.com/driftgames/arcade/pkg/rng"
	"github.com/driftgames/arcade/pkg/services/wallet"
	"github.com/driftgames/arcade/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank entities.Rank, suit entities.Suit) entities.Card {
	return entities.Card{Suit: suit, Rank: rank}
}

// riggedGen stacks chosen cards on top of the deck. Its Shuffle mirrors
// the deterministic construction order of entities.NewDeck, so the deal
// order is: player card 1, player card 2, dealer card 1 (hidden), dealer
// card 2, then hits and dealer draws in sequence.
type riggedGen struct {
	top []entities.Card
}

func (g *riggedGen) UniformInt(min, max int) int { return min }
func (g *riggedGen) Float64() float64            { return 0 }

func (g *riggedGen) Shuffle(n int, swap func(i, j int)) {
	order := entities.NewDeck().Cards
	if n != len(order) {
		return
	}
	for i, want := range g.top {
		for j := i; j < n; j++ {
			if order[j] == want {
				if i != j {
					swap(i, j)
					order[i], order[j] = order[j], order[i]
				}
				break
			}
		}
	}
}

func newTestTable(t *testing.T, gen rng.Generator) (*Table, *wallet.Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	w := wallet.New(store) // balance 100
	return New(w, store, gen), w, store
}

func TestPlayerNaturalSettlesImmediately(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.Ace, entities.Spades), card(entities.King, entities.Hearts), // player: natural
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs), // dealer: 16
	}}
	table, w, _ := newTestTable(t, gen)

	v, err := table.Deal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseSettled, v.Phase)
	assert.Equal(t, entities.OutcomeBlackjack, v.Outcome)
	assert.Equal(t, int64(25), v.Payout) // bet returned + 15 profit
	assert.Equal(t, int64(115), w.Balance())
	assert.Equal(t, int64(115), table.Best())
}

func TestDealerNaturalLosesTheBet(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs),
		card(entities.Ace, entities.Spades), card(entities.King, entities.Hearts),
	}}
	table, w, _ := newTestTable(t, gen)

	v, err := table.Deal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseSettled, v.Phase)
	assert.Equal(t, entities.OutcomeLose, v.Outcome)
	assert.Zero(t, v.Payout)
	assert.Equal(t, int64(90), w.Balance())
}

func TestBothNaturalsPush(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.Ace, entities.Spades), card(entities.King, entities.Hearts),
		card(entities.Ace, entities.Diamonds), card(entities.King, entities.Diamonds),
	}}
	table, w, _ := newTestTable(t, gen)

	v, err := table.Deal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomePush, v.Outcome)
	assert.Equal(t, int64(10), v.Payout) // bet refunded exactly
	assert.Equal(t, int64(100), w.Balance())
}

func TestStandPushAtEqualTotals(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Queen, entities.Spades), // player 20
		card(entities.King, entities.Hearts), card(entities.Queen, entities.Hearts), // dealer 20
	}}
	table, w, _ := newTestTable(t, gen)

	v, err := table.Deal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhasePlayerTurn, v.Phase)

	v, err = table.Stand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseSettled, v.Phase)
	assert.Equal(t, entities.OutcomePush, v.Outcome)
	assert.Equal(t, int64(10), v.Payout)
	assert.Equal(t, int64(100), w.Balance())
}

func TestHitIntoBustForfeitsBet(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Seven, entities.Spades), // player 17
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs), // dealer 16
		card(entities.Queen, entities.Hearts), // hit: 27, bust
	}}
	table, w, _ := newTestTable(t, gen)

	_, err := table.Deal(context.Background())
	require.NoError(t, err)

	v, err := table.Hit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseSettled, v.Phase)
	assert.Equal(t, entities.OutcomeLose, v.Outcome)
	assert.Zero(t, v.Payout)
	assert.Equal(t, int64(90), w.Balance())
}

func TestDealerBustPaysDouble(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Queen, entities.Spades), // player 20
		card(entities.King, entities.Hearts), card(entities.Six, entities.Hearts), // dealer 16, must hit
		card(entities.Nine, entities.Diamonds), // dealer draws: 25, bust
	}}
	table, w, _ := newTestTable(t, gen)

	_, err := table.Deal(context.Background())
	require.NoError(t, err)

	v, err := table.Stand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeWin, v.Outcome)
	assert.Equal(t, int64(20), v.Payout)
	assert.Equal(t, int64(110), w.Balance())
}

func TestDealerStandsAtSeventeen(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Queen, entities.Spades), // player 20
		card(entities.King, entities.Hearts), card(entities.Seven, entities.Hearts), // dealer 17
	}}
	table, w, _ := newTestTable(t, gen)

	_, err := table.Deal(context.Background())
	require.NoError(t, err)

	v, err := table.Stand(context.Background())
	require.NoError(t, err)

	// Dealer stood on 17 without drawing.
	assert.Len(t, v.Dealer, 2)
	assert.Equal(t, entities.OutcomeWin, v.Outcome)
	assert.Equal(t, int64(110), w.Balance())
}

func TestDealerHigherTotalWins(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Nine, entities.Spades), // player 19
		card(entities.King, entities.Hearts), card(entities.Queen, entities.Hearts), // dealer 20
	}}
	table, w, _ := newTestTable(t, gen)

	_, err := table.Deal(context.Background())
	require.NoError(t, err)

	v, err := table.Stand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeLose, v.Outcome)
	assert.Equal(t, int64(90), w.Balance())
}

func TestDeckIntegrityAfterDeal(t *testing.T) {
	table, _, _ := newTestTable(t, rng.NewSeeded(99))

	v, err := table.Deal(context.Background())
	require.NoError(t, err)

	if v.Phase == PhaseSettled {
		t.Skip("seeded deal produced a natural; integrity covered by other seeds")
	}

	seen := make(map[entities.Card]int)
	for _, c := range table.player {
		seen[c]++
	}
	for _, c := range table.dealer {
		seen[c]++
	}
	for _, c := range table.deck.Cards {
		seen[c]++
	}

	assert.Len(t, seen, 52)
	for c, n := range seen {
		assert.Equal(t, 1, n, "card %s appears %d times", c, n)
	}
	assert.Equal(t, 48, table.deck.Remaining())
}

func TestDealWhileRoundInProgressIsRefused(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Seven, entities.Spades),
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs),
	}}
	table, w, _ := newTestTable(t, gen)

	_, err := table.Deal(context.Background())
	require.NoError(t, err)

	_, err = table.Deal(context.Background())
	assert.ErrorIs(t, err, ErrRoundInProgress)
	// No second debit.
	assert.Equal(t, int64(90), w.Balance())
}

func TestDealRefusedWhenUnaffordable(t *testing.T) {
	table, w, _ := newTestTable(t, rng.NewSeeded(1))
	require.True(t, w.Spend(95)) // balance 5, bet 10

	_, err := table.Deal(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(5), w.Balance())
	assert.Equal(t, PhaseIdle, table.Phase())
}

func TestHitAndStandOutsidePlayerTurnAreNoOps(t *testing.T) {
	table, w, _ := newTestTable(t, rng.NewSeeded(1))

	_, err := table.Hit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = table.Stand(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, int64(100), w.Balance())
}

func TestDealerFirstCardHiddenDuringPlayerTurn(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Seven, entities.Spades), // player 17
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs), // dealer 16
	}}
	table, _, _ := newTestTable(t, gen)

	v, err := table.Deal(context.Background())
	require.NoError(t, err)

	assert.True(t, v.DealerHidden)
	assert.Len(t, v.Dealer, 1)
	assert.Equal(t, card(entities.Seven, entities.Clubs), v.Dealer[0])
	assert.Equal(t, 7, v.DealerValue) // visible cards only
	// The engine's internal total is always exact.
	assert.Equal(t, 16, BestScore(table.dealer))

	v, err = table.Stand(context.Background())
	require.NoError(t, err)
	assert.False(t, v.DealerHidden)
	assert.GreaterOrEqual(t, v.DealerValue, 17)
}

func TestNewRoundAfterSettlement(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.Ace, entities.Spades), card(entities.King, entities.Hearts),
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs),
	}}
	table, w, _ := newTestTable(t, gen)

	_, err := table.Deal(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseSettled, table.Phase())

	// Settled implicitly passes through Idle; a fresh deal works.
	v, err := table.Deal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, v.Phase) // same rigged natural again
	assert.Equal(t, int64(130), w.Balance())
}

func TestSettledViewReportsDealtStake(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.King, entities.Spades), card(entities.Nine, entities.Hearts), // player: 19
		card(entities.Nine, entities.Diamonds), card(entities.Eight, entities.Clubs), // dealer: 17
	}}
	table, _, _ := newTestTable(t, gen)

	v, err := table.Deal(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhasePlayerTurn, v.Phase)
	assert.Equal(t, int64(10), v.Stake)

	// The bet can move while a round is live; the stake in play must not.
	table.AdjustBet(+1)

	v, err = table.Stand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseSettled, v.Phase)
	assert.Equal(t, int64(11), v.Bet)
	assert.Equal(t, int64(10), v.Stake)
}

func TestAdjustBetClamping(t *testing.T) {
	table, w, store := newTestTable(t, rng.NewSeeded(1))
	require.True(t, w.Spend(93)) // balance 7

	for i := 0; i < 30; i++ {
		table.AdjustBet(+1)
	}
	assert.Equal(t, int64(7), table.Bet())

	for i := 0; i < 30; i++ {
		table.AdjustBet(-1)
	}
	assert.Equal(t, int64(1), table.Bet())
	assert.Equal(t, int64(1), storage.GetJSON(store, storage.KeyBlackjackBet, int64(-1)))
}

func TestRoundRecorded(t *testing.T) {
	gen := &riggedGen{top: []entities.Card{
		card(entities.Ace, entities.Spades), card(entities.King, entities.Hearts),
		card(entities.Nine, entities.Diamonds), card(entities.Seven, entities.Clubs),
	}}
	store := storage.NewMemoryStore()
	w := wallet.New(store)
	repo := roundRepo.NewMemoryRepository()
	table := New(w, store, gen, WithRoundRepository(repo))

	_, err := table.Deal(context.Background())
	require.NoError(t, err)

	rounds, err := repo.GetRounds(context.Background(), GameName, 1)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, entities.OutcomeBlackjack, rounds[0].Outcome)
	assert.Equal(t, int64(10), rounds[0].Bet)
	assert.Equal(t, int64(25), rounds[0].Payout)
}
