package shop

import (
	"errors"

	"github.com/driftgames/arcade/pkg/services/boosts"
	"github.com/driftgames/arcade/pkg/services/wallet"
	"github.com/driftgames/arcade/pkg/storage"
	"go.uber.org/zap"
)

var (
	ErrUnknownItem       = errors.New("unknown item")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrNotOwned          = errors.New("item not owned")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Service sells catalog items against the shared wallet and applies
// owned items to the persisted preferences.
type Service struct {
	wallet *wallet.Service
	store  storage.Store
	boosts *boosts.Service
	log    *zap.Logger
	items  map[string]Item
	order  []Item
}

// Option configures the shop service.
type Option func(*Service)

// WithLogger sets the shop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithBoosts shares a boost counter service with the shop. Pass the
// same instance to every component that touches boosts; the shop falls
// back to a private one otherwise.
func WithBoosts(svc *boosts.Service) Option {
	return func(s *Service) { s.boosts = svc }
}

// New creates a shop backed by the fixed catalog.
func New(w *wallet.Service, store storage.Store, opts ...Option) *Service {
	s := &Service{
		wallet: w,
		store:  store,
		log:    zap.NewNop(),
		items:  make(map[string]Item),
		order:  Catalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.boosts == nil {
		s.boosts = boosts.New(store, boosts.WithLogger(s.log))
	}
	for _, item := range s.order {
		s.items[item.ID] = item
	}
	return s
}

// ItemView is a catalog entry plus its ownership state for the caller.
type ItemView struct {
	Item
	Owned bool `json:"owned"`
}

// Items returns the catalog in display order with ownership flags.
// Boosts never show as owned; they are consumed, not kept.
func (s *Service) Items() []ItemView {
	owned := s.ownedSet()
	views := make([]ItemView, 0, len(s.order))
	for _, item := range s.order {
		views = append(views, ItemView{Item: item, Owned: owned[item.ID]})
	}
	return views
}

// Owned reports whether the item has been purchased.
func (s *Service) Owned(id string) bool {
	return s.ownedSet()[id]
}

// Purchase buys an item. Non-boost items can be bought once and join
// the owned set; boosts can be bought repeatedly and add their charges
// immediately. The price is debited atomically, so a failed purchase
// never costs anything.
func (s *Service) Purchase(id string) error {
	item, ok := s.items[id]
	if !ok {
		return ErrUnknownItem
	}
	if item.Type != TypeBoost && s.Owned(id) {
		return ErrAlreadyOwned
	}
	if !s.wallet.Spend(item.Price) {
		return ErrInsufficientFunds
	}

	if item.Type == TypeBoost {
		s.boosts.Add(item.BoostKey, item.BoostCharges)
	} else {
		s.grant(id)
	}

	s.log.Info("item purchased",
		zap.String("item", id),
		zap.Int64("price", item.Price))
	return nil
}

// Equip applies an owned item to the persisted preferences. Equipping
// a boost is a no-op; its charges were added at purchase.
func (s *Service) Equip(id string) error {
	item, ok := s.items[id]
	if !ok {
		return ErrUnknownItem
	}
	if item.Type == TypeBoost {
		return nil
	}
	if !s.Owned(id) {
		return ErrNotOwned
	}

	var err error
	switch item.Type {
	case TypeTheme:
		err = storage.SetJSON(s.store, storage.KeyAccent, item.Accent)
	case TypeCar:
		err = storage.SetJSON(s.store, storage.KeyCarSkin, storage.CarSkin{
			Color: item.CarColor,
			Name:  item.CarName,
		})
	case TypeTrail:
		err = storage.SetJSON(s.store, storage.KeyTrailColor, item.TrailColor)
	case TypeTyping:
		dur := item.TypingDur
		if dur <= 0 {
			dur = 30
		}
		err = storage.SetJSON(s.store, storage.KeyTypingDuration, dur)
	}
	if err != nil {
		s.log.Warn("failed to persist equipped item", zap.String("item", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) ownedSet() map[string]bool {
	ids := storage.GetJSON(s.store, storage.KeyOwned, []string{})
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (s *Service) grant(id string) {
	ids := storage.GetJSON(s.store, storage.KeyOwned, []string{})
	for _, existing := range ids {
		if existing == id {
			return
		}
	}
	ids = append(ids, id)
	if err := storage.SetJSON(s.store, storage.KeyOwned, ids); err != nil {
		s.log.Warn("failed to persist owned items", zap.Error(err))
	}
}
