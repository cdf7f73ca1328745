package slots

import (
	"context"
	"errors"
	"sync"

	"github.com/driftgames/arcade/pkg/entities"
	roundRepo "github.com/driftgames/arcade/pkg/repositories/round"
	"github.com/driftgames/arcade/pkg/rng"
	"github.com/driftgames/arcade/pkg/services/boosts"
	"github.com/driftgames/arcade/pkg/services/wallet"
	"github.com/driftgames/arcade/pkg/storage"
	"go.uber.org/zap"
)

var (
	ErrSpinInProgress    = errors.New("spin already in progress")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// GameName identifies slot rounds in the history repositories.
const GameName = "slots"

// DefaultBet is the bet a fresh player starts with.
const DefaultBet int64 = 5

// SpinResult describes one settled spin.
type SpinResult struct {
	Symbols [3]string        `json:"symbols"`
	Outcome entities.Outcome `json:"outcome"`
	Payout  int64            `json:"payout"`
	Boosted bool             `json:"boosted"` // spin consumed a luck boost charge
	Balance int64            `json:"balance"` // wallet balance after settlement
}

// Engine runs slot rounds against the shared wallet. A spin is atomic:
// the bet is debited before the outcome is drawn and the payout credited
// after, with a busy flag rejecting reentrant spins in between.
type Engine struct {
	wallet *wallet.Service
	store  storage.Store
	gen    rng.Generator
	table  *Paytable
	boosts *boosts.Service
	rounds roundRepo.Repository
	log    *zap.Logger

	mu       sync.Mutex
	spinning bool
	bet      int64
	best     int64
}

// Option configures optional Engine dependencies.
type Option func(*Engine)

// WithRoundRepository records settled spins in a round history.
func WithRoundRepository(repo roundRepo.Repository) Option {
	return func(e *Engine) { e.rounds = repo }
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithBoosts shares a boost counter service with the engine. Pass the
// same instance to every component that touches boosts; the engine
// falls back to a private one otherwise.
func WithBoosts(svc *boosts.Service) Option {
	return func(e *Engine) { e.boosts = svc }
}

// New creates a slot engine. The persisted bet and best-balance values
// are restored from the store.
func New(w *wallet.Service, store storage.Store, gen rng.Generator, table *Paytable, opts ...Option) *Engine {
	e := &Engine{
		wallet: w,
		store:  store,
		gen:    gen,
		table:  table,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.boosts == nil {
		e.boosts = boosts.New(store, boosts.WithLogger(e.log))
	}

	e.bet = storage.GetJSON(store, storage.KeySlotsBet, DefaultBet)
	if e.bet < 1 {
		e.bet = 1
	}
	e.best = storage.GetJSON(store, storage.KeySlotsBest, int64(0))
	return e
}

// Bet returns the current bet.
func (e *Engine) Bet() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bet
}

// Best returns the best balance ever reached on slots.
func (e *Engine) Best() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.best
}

// AdjustBet moves the bet one step in the given direction, clamped to
// [1, wallet balance] (with a floor of 1 even when broke), persists the
// result and returns it.
func (e *Engine) AdjustBet(direction int) int64 {
	step := int64(1)
	if direction < 0 {
		step = -1
	}

	max := e.wallet.Balance()
	if max < 1 {
		max = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.bet += step
	if e.bet < 1 {
		e.bet = 1
	}
	if e.bet > max {
		e.bet = max
	}
	if err := storage.SetJSON(e.store, storage.KeySlotsBet, e.bet); err != nil {
		e.log.Warn("failed to persist slots bet", zap.Error(err))
	}
	return e.bet
}

// Spin plays one round: debit the bet, draw three symbols, credit the
// payout. Returns ErrInsufficientFunds without drawing when the bet is
// unaffordable, and ErrSpinInProgress when invoked reentrantly.
func (e *Engine) Spin(ctx context.Context, bet int64) (*SpinResult, error) {
	e.mu.Lock()
	if e.spinning {
		e.mu.Unlock()
		return nil, ErrSpinInProgress
	}
	e.spinning = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.spinning = false
		e.mu.Unlock()
	}()

	if bet < 1 {
		bet = 1
	}

	if !e.wallet.CanSpend(bet) {
		return nil, ErrInsufficientFunds
	}

	// The house takes the bet up front, before the outcome is known.
	if !e.wallet.Spend(bet) {
		return nil, ErrInsufficientFunds
	}

	luck, boosted := e.consumeBoost()
	symbols := e.draw(luck)

	outcome, payout, detail := e.classify(symbols, bet)
	if payout > 0 {
		e.wallet.Credit(payout)
	}

	balance := e.wallet.Balance()
	e.recordBest(balance)

	result := &SpinResult{
		Symbols: symbols,
		Outcome: outcome,
		Payout:  payout,
		Boosted: boosted,
		Balance: balance,
	}

	if e.rounds != nil {
		err := e.rounds.SaveRound(ctx, &entities.RoundResult{
			Game:    GameName,
			Bet:     bet,
			Payout:  payout,
			Outcome: outcome,
			Detail:  detail,
		})
		if err != nil {
			e.log.Warn("failed to record slot round", zap.Error(err))
		}
	}

	e.log.Debug("spin settled",
		zap.Strings("symbols", symbols[:]),
		zap.String("outcome", string(outcome)),
		zap.Int64("bet", bet),
		zap.Int64("payout", payout))

	return result, nil
}

// consumeBoost spends one luck boost charge if any remain and returns
// the extra match chance it grants. The charge is spent whatever the
// spin outcome turns out to be.
func (e *Engine) consumeBoost() (float64, bool) {
	if !e.boosts.Consume(storage.BoostSlotLuck) {
		return 0, false
	}
	return e.table.LuckBonus, true
}

// draw picks three symbols: independent uniform draws, then a forced
// triple or pair according to the table's chances.
func (e *Engine) draw(luck float64) [3]string {
	pick := func() string {
		return e.table.Symbols[e.gen.UniformInt(0, len(e.table.Symbols)-1)]
	}

	r1, r2, r3 := pick(), pick(), pick()

	if e.gen.Float64() < e.table.TripleChance+luck {
		return [3]string{r1, r1, r1}
	}
	if e.gen.Float64() < e.table.PairChance+luck {
		if e.gen.Float64() < 0.5 {
			r2 = r1
		} else {
			r3 = r1
		}
	}
	return [3]string{r1, r2, r3}
}

func (e *Engine) classify(symbols [3]string, bet int64) (entities.Outcome, int64, string) {
	distinct := map[string]bool{symbols[0]: true, symbols[1]: true, symbols[2]: true}
	switch len(distinct) {
	case 1:
		return entities.OutcomeTriple, e.table.TripleMultiplier(symbols[0]) * bet, symbols[0]
	case 2:
		return entities.OutcomePair, e.table.Pair * bet, pairedSymbol(symbols)
	default:
		return entities.OutcomeNoMatch, 0, ""
	}
}

func pairedSymbol(symbols [3]string) string {
	if symbols[0] == symbols[1] || symbols[0] == symbols[2] {
		return symbols[0]
	}
	return symbols[1]
}

// recordBest updates the best-balance high-water mark.
func (e *Engine) recordBest(balance int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if balance <= e.best {
		return
	}
	e.best = balance
	if err := storage.SetJSON(e.store, storage.KeySlotsBest, e.best); err != nil {
		e.log.Warn("failed to persist slots best", zap.Error(err))
	}
}
