package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/eigerco/bridgebench/internal/block"
	"github.com/eigerco/bridgebench/internal/finality"
)

// MockFinalityStore implements benchmarking.FinalityStore for testing
type MockFinalityStore struct {
	mock.Mock
}

func NewMockFinalityStore() *MockFinalityStore {
	return &MockFinalityStore{}
}

func (m *MockFinalityStore) RegisterFinalizedHeader(scheme finality.Scheme, header block.Header) error {
	args := m.Called(scheme, header)
	return args.Error(0)
}
