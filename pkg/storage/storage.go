package storage

import "encoding/json"

// Store is a durable string-keyed store of JSON-serialized values. Writes
// are synchronous from the caller's perspective and survive restarts.
// Each key is independently consistent; there is no multi-key transaction.
type Store interface {
	// Get returns the raw JSON value for key. ok is false when the key
	// is missing.
	Get(key string) (value []byte, ok bool)

	// Set serializes and durably stores value under key.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Close releases any underlying resources.
	Close() error
}

// GetJSON reads key and decodes it into T. A missing or corrupt-on-read
// value yields the caller-supplied default rather than an error.
func GetJSON[T any](s Store, key string, def T) T {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// SetJSON serializes value as JSON and stores it under key.
func SetJSON(s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}
