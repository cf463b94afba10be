package mocks

import "sync"

// MockReadStore is an in-memory ReadStoreInterface recording Set calls.
type MockReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any

	SetCalls []SetCall
	GetErr   error
	SetErr   error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Collection string
	ID         string
	Data       any
}

func NewMockReadStore() *MockReadStore {
	return &MockReadStore{
		data: make(map[string]map[string]any),
	}
}

func (m *MockReadStore) Set(collection, id string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Collection: collection, ID: id, Data: data})
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	m.data[collection][id] = data
	return nil
}

func (m *MockReadStore) Get(collection, id string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	if m.data[collection] == nil {
		return nil, false, nil
	}
	data, ok := m.data[collection][id]
	return data, ok, nil
}

func (m *MockReadStore) GetAll(collection string) ([]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []any
	for _, item := range m.data[collection] {
		items = append(items, item)
	}
	return items, nil
}

func (m *MockReadStore) Delete(collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[collection] != nil {
		delete(m.data[collection], id)
	}
	return nil
}
