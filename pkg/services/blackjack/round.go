package blackjack

import (
	"context"
	"errors"
	"sync"

	"github.com/driftgames/arcade/pkg/entities"
	roundRepo "github.com/driftgames/arcade/pkg/repositories/round"
	"github.com/driftgames/arcade/pkg/rng"
	"github.com/driftgames/arcade/pkg/services/wallet"
	"github.com/driftgames/arcade/pkg/storage"
	"go.uber.org/zap"
)

var (
	ErrRoundInProgress   = errors.New("round already in progress")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAction     = errors.New("invalid action for current round phase")
)

// GameName identifies blackjack rounds in the history repositories.
const GameName = "blackjack"

// DefaultBet is the bet a fresh player starts with.
const DefaultBet int64 = 10

// Phase is a named state in the round state machine. Rounds progress
// strictly forward: Idle → Dealt → PlayerTurn → DealerTurn → Settled,
// with Dealt jumping straight to Settled on a natural.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseDealt      Phase = "DEALT"
	PhasePlayerTurn Phase = "PLAYER_TURN"
	PhaseDealerTurn Phase = "DEALER_TURN"
	PhaseSettled    Phase = "SETTLED"
)

// View is the player-facing snapshot of the table. While a round is
// live the dealer's first card stays hidden and DealerValue covers only
// the visible cards; the engine itself always knows the exact total.
type View struct {
	Phase        Phase            `json:"phase"`
	Bet          int64            `json:"bet"`
	Stake        int64            `json:"stake,omitempty"` // amount debited for the round in play
	Player       []entities.Card  `json:"player"`
	PlayerValue  int              `json:"player_value"`
	Dealer       []entities.Card  `json:"dealer"` // first card omitted while hidden
	DealerValue  int              `json:"dealer_value"`
	DealerHidden bool             `json:"dealer_hidden"`
	Outcome      entities.Outcome `json:"outcome,omitempty"` // set once settled
	Payout       int64            `json:"payout"`            // set once settled
	Balance      int64            `json:"balance"`
}

// Table manages one blackjack table: a single active round at a time
// against the shared wallet. The bet is debited exactly once at deal
// and the payout credited exactly once at settlement.
type Table struct {
	wallet *wallet.Service
	store  storage.Store
	gen    rng.Generator
	rounds roundRepo.Repository
	log    *zap.Logger

	mu      sync.Mutex
	phase   Phase
	deck    *entities.Deck
	player  []entities.Card
	dealer  []entities.Card
	bet     int64 // persisted bet for the next round
	stake   int64 // bet debited for the current round
	outcome entities.Outcome
	payout  int64
}

// Option configures optional Table dependencies.
type Option func(*Table)

// WithRoundRepository records settled rounds in a round history.
func WithRoundRepository(repo roundRepo.Repository) Option {
	return func(t *Table) { t.rounds = repo }
}

// WithLogger sets the table logger.
func WithLogger(log *zap.Logger) Option {
	return func(t *Table) { t.log = log }
}

// New creates a table in the Idle phase, restoring the persisted bet.
func New(w *wallet.Service, store storage.Store, gen rng.Generator, opts ...Option) *Table {
	t := &Table{
		wallet: w,
		store:  store,
		gen:    gen,
		log:    zap.NewNop(),
		phase:  PhaseIdle,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.bet = storage.GetJSON(store, storage.KeyBlackjackBet, DefaultBet)
	if t.bet < 1 {
		t.bet = 1
	}
	return t
}

// Bet returns the bet for the next round.
func (t *Table) Bet() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bet
}

// Best returns the best balance ever reached on blackjack.
func (t *Table) Best() int64 {
	return storage.GetJSON(t.store, storage.KeyBlackjackBest, int64(0))
}

// AdjustBet moves the bet one step in the given direction, clamped to
// [1, wallet balance] (floor 1 even when broke), persists and returns it.
func (t *Table) AdjustBet(direction int) int64 {
	step := int64(1)
	if direction < 0 {
		step = -1
	}

	max := t.wallet.Balance()
	if max < 1 {
		max = 1
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.bet += step
	if t.bet < 1 {
		t.bet = 1
	}
	if t.bet > max {
		t.bet = max
	}
	if err := storage.SetJSON(t.store, storage.KeyBlackjackBet, t.bet); err != nil {
		t.log.Warn("failed to persist blackjack bet", zap.Error(err))
	}
	return t.bet
}

// Phase returns the current round phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// View returns the player-facing table snapshot.
func (t *Table) View() *View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *Table) viewLocked() *View {
	v := &View{
		Phase:       t.phase,
		Bet:         t.bet,
		Stake:       t.stake,
		Player:      append([]entities.Card(nil), t.player...),
		PlayerValue: BestScore(t.player),
		Outcome:     t.outcome,
		Payout:      t.payout,
		Balance:     t.wallet.Balance(),
	}

	hidden := t.phase == PhaseDealt || t.phase == PhasePlayerTurn
	if hidden && len(t.dealer) > 0 {
		v.DealerHidden = true
		v.Dealer = append([]entities.Card(nil), t.dealer[1:]...)
		v.DealerValue = BestScore(v.Dealer)
	} else {
		v.Dealer = append([]entities.Card(nil), t.dealer...)
		v.DealerValue = BestScore(t.dealer)
	}
	return v
}

// Deal starts a new round: builds a fresh shuffled 52-card deck, debits
// the bet and deals two cards each. A natural settles immediately.
// Returns ErrRoundInProgress while a round is live and
// ErrInsufficientFunds when the bet is unaffordable.
func (t *Table) Deal(ctx context.Context) (*View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.phase {
	case PhaseIdle, PhaseSettled:
		// A settled table implicitly passes through Idle.
	default:
		return nil, ErrRoundInProgress
	}

	bet := t.bet
	if bet < 1 {
		bet = 1
	}
	if !t.wallet.CanSpend(bet) {
		return nil, ErrInsufficientFunds
	}

	deck := entities.NewDeck()
	deck.Shuffle(t.gen)

	// Single debit for the whole round, at the Idle → Dealt transition.
	if !t.wallet.Spend(bet) {
		return nil, ErrInsufficientFunds
	}
	t.stake = bet
	t.deck = deck
	t.player = t.drawLocked(2)
	t.dealer = t.drawLocked(2)
	t.outcome = ""
	t.payout = 0
	t.phase = PhaseDealt

	pNatural := IsNatural(t.player)
	dNatural := IsNatural(t.dealer)
	switch {
	case pNatural && dNatural:
		t.settleLocked(ctx, entities.OutcomePush, t.stake, "both natural")
	case pNatural:
		t.settleLocked(ctx, entities.OutcomeBlackjack, NaturalPayout(t.stake), "natural")
	case dNatural:
		t.settleLocked(ctx, entities.OutcomeLose, 0, "dealer natural")
	default:
		t.phase = PhasePlayerTurn
	}

	return t.viewLocked(), nil
}

// Hit draws one card for the player. Busting settles the round with no
// payout; the bet was already forfeited at deal time.
func (t *Table) Hit(ctx context.Context) (*View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhasePlayerTurn {
		return nil, ErrInvalidAction
	}

	t.player = append(t.player, t.drawLocked(1)...)
	if IsBust(t.player) {
		t.settleLocked(ctx, entities.OutcomeLose, 0, "bust")
	}
	return t.viewLocked(), nil
}

// Stand ends the player's turn. The dealer draws to DealerStandTotal
// with no further user input, then the round settles: win pays 2× the
// stake, push refunds it, loss pays nothing.
func (t *Table) Stand(ctx context.Context) (*View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhasePlayerTurn {
		return nil, ErrInvalidAction
	}

	t.phase = PhaseDealerTurn
	for BestScore(t.dealer) < DealerStandTotal {
		t.dealer = append(t.dealer, t.drawLocked(1)...)
	}

	pv := BestScore(t.player)
	dv := BestScore(t.dealer)
	switch {
	case dv > 21 || pv > dv:
		t.settleLocked(ctx, entities.OutcomeWin, 2*t.stake, "")
	case pv == dv:
		t.settleLocked(ctx, entities.OutcomePush, t.stake, "")
	default:
		t.settleLocked(ctx, entities.OutcomeLose, 0, "")
	}
	return t.viewLocked(), nil
}

func (t *Table) drawLocked(n int) []entities.Card {
	cards := make([]entities.Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := t.deck.Draw()
		if !ok {
			// A 52-card deck cannot run out within one round; guard
			// anyway rather than panic.
			t.log.Error("deck exhausted mid-round")
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// settleLocked transitions into Settled, crediting the payout exactly
// once and recording the round.
func (t *Table) settleLocked(ctx context.Context, outcome entities.Outcome, payout int64, detail string) {
	if payout > 0 {
		t.wallet.Credit(payout)
	}
	t.outcome = outcome
	t.payout = payout
	t.phase = PhaseSettled

	balance := t.wallet.Balance()
	best := storage.GetJSON(t.store, storage.KeyBlackjackBest, int64(0))
	if balance > best {
		if err := storage.SetJSON(t.store, storage.KeyBlackjackBest, balance); err != nil {
			t.log.Warn("failed to persist blackjack best", zap.Error(err))
		}
	}

	if t.rounds != nil {
		err := t.rounds.SaveRound(ctx, &entities.RoundResult{
			Game:    GameName,
			Bet:     t.stake,
			Payout:  payout,
			Outcome: outcome,
			Detail:  detail,
		})
		if err != nil {
			t.log.Warn("failed to record blackjack round", zap.Error(err))
		}
	}

	t.log.Debug("round settled",
		zap.String("outcome", string(outcome)),
		zap.Int64("stake", t.stake),
		zap.Int64("payout", payout))
}
