package storage

import (
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a new mock store
func NewMockStore(t mock.TestingT) *MockStore {
	m := &MockStore{}
	m.Test(t)
	return m
}

// Get mocks the Get method
func (m *MockStore) Get(key string) ([]byte, bool) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}

// Set mocks the Set method
func (m *MockStore) Set(key string, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Close mocks the Close method
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
