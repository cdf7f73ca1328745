package shop

import (
	"testing"

	"github.com/driftgames/arcade/pkg/services/wallet"
	"github.com/driftgames/arcade/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShop(t *testing.T, balance int64) (*Service, *wallet.Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	w := wallet.New(store)
	w.Reset()
	if balance > 100 {
		w.Credit(balance - 100)
	} else if balance < 100 {
		require.True(t, w.Spend(100-balance))
	}
	return New(w, store), w, store
}

func TestPurchaseGrantsOwnership(t *testing.T) {
	shop, w, store := newTestShop(t, 500)

	require.NoError(t, shop.Purchase("theme_neon"))

	assert.Equal(t, int64(380), w.Balance())
	assert.True(t, shop.Owned("theme_neon"))
	assert.Equal(t, []string{"theme_neon"}, storage.GetJSON(store, storage.KeyOwned, []string{}))
}

func TestPurchaseRefusedWhenAlreadyOwned(t *testing.T) {
	shop, w, _ := newTestShop(t, 500)

	require.NoError(t, shop.Purchase("car_red"))
	err := shop.Purchase("car_red")

	assert.ErrorIs(t, err, ErrAlreadyOwned)
	assert.Equal(t, int64(350), w.Balance(), "refused purchase must not charge")
}

func TestPurchaseRefusedWhenUnaffordable(t *testing.T) {
	shop, w, _ := newTestShop(t, 50)

	err := shop.Purchase("trail_cyan")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(50), w.Balance())
	assert.False(t, shop.Owned("trail_cyan"))
}

func TestPurchaseUnknownItem(t *testing.T) {
	shop, w, _ := newTestShop(t, 500)

	err := shop.Purchase("jetpack")

	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Equal(t, int64(500), w.Balance())
}

func TestBoostPurchaseStacksCharges(t *testing.T) {
	shop, w, store := newTestShop(t, 500)

	require.NoError(t, shop.Purchase("boost_slots_10"))
	require.NoError(t, shop.Purchase("boost_slots_10"))

	boosts := storage.GetJSON(store, storage.KeyBoosts, map[string]int64{})
	assert.Equal(t, int64(20), boosts[storage.BoostSlotLuck])
	assert.Equal(t, int64(220), w.Balance())
	// Boosts are consumables, never owned.
	assert.False(t, shop.Owned("boost_slots_10"))
}

func TestEquipRequiresOwnership(t *testing.T) {
	shop, _, store := newTestShop(t, 500)

	err := shop.Equip("car_black")
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.Equal(t, "", storage.GetJSON(store, storage.KeyCarSkin, storage.CarSkin{}).Name)
}

func TestEquipWritesPreferences(t *testing.T) {
	shop, _, store := newTestShop(t, 1000)

	for _, id := range []string{"theme_neon", "car_black", "trail_cyan", "typing_60"} {
		require.NoError(t, shop.Purchase(id))
		require.NoError(t, shop.Equip(id))
	}

	assert.Equal(t, "#39ffb6", storage.GetJSON(store, storage.KeyAccent, ""))
	skin := storage.GetJSON(store, storage.KeyCarSkin, storage.CarSkin{})
	assert.Equal(t, storage.CarSkin{Color: "#111111", Name: "Onyx"}, skin)
	assert.Equal(t, "#00e5ff", storage.GetJSON(store, storage.KeyTrailColor, ""))
	assert.Equal(t, 60, storage.GetJSON(store, storage.KeyTypingDuration, 0))
}

func TestEquipBoostIsNoOp(t *testing.T) {
	shop, _, _ := newTestShop(t, 500)

	assert.NoError(t, shop.Equip("boost_slots_10"))
}

func TestItemsReportOwnership(t *testing.T) {
	shop, _, _ := newTestShop(t, 500)
	require.NoError(t, shop.Purchase("trail_cyan"))

	views := shop.Items()
	require.Len(t, views, 6)

	byID := make(map[string]ItemView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.True(t, byID["trail_cyan"].Owned)
	assert.False(t, byID["theme_neon"].Owned)
}
