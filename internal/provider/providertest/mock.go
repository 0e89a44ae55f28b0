// Package providertest provides test helpers for the provider package.
package providertest

import (
	"context"
	"sync"

	"github.com/fbianco/proghelper/internal/provider"
)

// MockProvider is a configurable test double for provider.Provider.
// Set the Func fields to control behavior; unset InvokeFunc returns an
// empty reply. All methods are safe for concurrent use.
type MockProvider struct {
	NameValue        string
	ResolveModelFunc func(size provider.Size) string
	InvokeFunc       func(ctx context.Context, req provider.Request) (string, error)

	mu          sync.Mutex
	InvokeCalls int
	LastRequest provider.Request
}

// Name returns the configured routing name, defaulting to "mock".
func (m *MockProvider) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// ResolveModel delegates to ResolveModelFunc, defaulting to "mock-model".
func (m *MockProvider) ResolveModel(size provider.Size) string {
	if m.ResolveModelFunc == nil {
		return "mock-model"
	}
	return m.ResolveModelFunc(size)
}

// Invoke delegates to InvokeFunc, tracking the call count and the last
// request seen.
func (m *MockProvider) Invoke(ctx context.Context, req provider.Request) (string, error) {
	m.mu.Lock()
	m.InvokeCalls++
	m.LastRequest = req
	m.mu.Unlock()
	if m.InvokeFunc == nil {
		return "", nil
	}
	return m.InvokeFunc(ctx, req)
}

// Calls returns the number of Invoke calls observed.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.InvokeCalls
}
