package boosts

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftgames/arcade/pkg/storage"
)

func TestAddAndConsume(t *testing.T) {
	svc := New(storage.NewMemoryStore())

	assert.Equal(t, int64(0), svc.Count(storage.BoostSlotLuck))
	assert.False(t, svc.Consume(storage.BoostSlotLuck))

	svc.Add(storage.BoostSlotLuck, 3)
	assert.Equal(t, int64(3), svc.Count(storage.BoostSlotLuck))

	assert.True(t, svc.Consume(storage.BoostSlotLuck))
	assert.Equal(t, int64(2), svc.Count(storage.BoostSlotLuck))
}

func TestAddIgnoresNonPositiveCharges(t *testing.T) {
	svc := New(storage.NewMemoryStore())

	svc.Add(storage.BoostSlotLuck, 0)
	svc.Add(storage.BoostSlotLuck, -5)

	assert.Equal(t, int64(0), svc.Count(storage.BoostSlotLuck))
}

func TestCountersPersistAcrossServices(t *testing.T) {
	store := storage.NewMemoryStore()

	New(store).Add(storage.BoostSlotLuck, 4)

	assert.Equal(t, int64(4), New(store).Count(storage.BoostSlotLuck))
}

// handoffStore fires a hook the first time the boost counters are read,
// simulating another caller racing in while a consume is mid-flight.
type handoffStore struct {
	storage.Store
	hook func()
	once sync.Once
}

func (s *handoffStore) Get(key string) ([]byte, bool) {
	v, ok := s.Store.Get(key)
	if key == storage.KeyBoosts && s.hook != nil {
		s.once.Do(s.hook)
	}
	return v, ok
}

func TestPurchaseDuringConsumeIsNotLost(t *testing.T) {
	store := &handoffStore{Store: storage.NewMemoryStore()}
	require.NoError(t, storage.SetJSON(store, storage.KeyBoosts, map[string]int64{
		storage.BoostSlotLuck: 1,
	}))

	svc := New(store)
	added := make(chan struct{})
	store.hook = func() {
		go func() {
			svc.Add(storage.BoostSlotLuck, 10)
			close(added)
		}()
		// Give the add a moment to sneak in between the read and the
		// write; it must block until the consume commits.
		time.Sleep(20 * time.Millisecond)
	}

	require.True(t, svc.Consume(storage.BoostSlotLuck))

	select {
	case <-added:
	case <-time.After(time.Second):
		t.Fatal("concurrent add never completed")
	}

	assert.Equal(t, int64(10), svc.Count(storage.BoostSlotLuck))
}

func TestConcurrentAddsAndConsumes(t *testing.T) {
	svc := New(storage.NewMemoryStore())
	svc.Add(storage.BoostSlotLuck, 50)

	var wg sync.WaitGroup
	var consumed int64
	var mu sync.Mutex

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.Add(storage.BoostSlotLuck, 5)
		}()
		go func() {
			defer wg.Done()
			if svc.Consume(storage.BoostSlotLuck) {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50+20*5-consumed, svc.Count(storage.BoostSlotLuck))
}
