package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id         string
	budgetType domain.BudgetType
	messages   [][]byte
	mu         sync.Mutex
	closed     bool
}

func newMockClient(id string, budgetType domain.BudgetType) *mockClient {
	return &mockClient{
		id:         id,
		budgetType: budgetType,
		messages:   make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) BudgetType() domain.BudgetType {
	return m.budgetType
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", domain.BudgetTypePersonal)
	client2 := newMockClient("client-2", domain.BudgetTypePersonal)
	client3 := newMockClient("client-3", domain.BudgetTypeFamily)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(domain.BudgetTypePersonal))
	assert.Equal(t, 1, hub.ClientCount(domain.BudgetTypeFamily))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(domain.BudgetTypePersonal))

	// Unregistering twice is harmless
	hub.Unregister(client1)
	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_BroadcastIsolatedByBudgetType(t *testing.T) {
	hub := NewHub()

	personal := newMockClient("client-1", domain.BudgetTypePersonal)
	family := newMockClient("client-2", domain.BudgetTypeFamily)
	hub.Register(personal)
	hub.Register(family)

	hub.Broadcast(domain.BudgetTypePersonal, ActualsSaved(map[string]interface{}{"year": 2025, "month": 3}))

	require.Eventually(t, func() bool { return len(personal.GetMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, family.GetMessages(), 0, "family subscriber must not see personal events")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(personal.GetMessages()[0], &event))
	assert.Equal(t, "actuals.saved", event["type"])
	assert.Equal(t, "actuals", event["entity"])
}

func TestHub_ConcurrentRegister(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			budgetType := domain.BudgetTypePersonal
			if i%2 == 1 {
				budgetType = domain.BudgetTypeFamily
			}
			hub.Register(newMockClient(fmt.Sprintf("client-%d", i), budgetType))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, hub.ClientCount(domain.BudgetTypePersonal))
	assert.Equal(t, 10, hub.ClientCount(domain.BudgetTypeFamily))
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.Broadcast(domain.BudgetTypeFamily, BudgetSaved(nil))
	})
}

func TestHub_ClosedClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()

	closed := newMockClient("closed", domain.BudgetTypePersonal)
	_ = closed.Close()
	open := newMockClient("open", domain.BudgetTypePersonal)
	hub.Register(closed)
	hub.Register(open)

	hub.Broadcast(domain.BudgetTypePersonal, BudgetSaved(map[string]interface{}{"year": 2025}))

	require.Eventually(t, func() bool { return len(open.GetMessages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, closed.GetMessages())
}

func TestHub_Move(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", domain.BudgetTypePersonal)
	hub.Register(client)

	client.budgetType = domain.BudgetTypeFamily
	hub.Move(client, domain.BudgetTypePersonal)

	assert.Zero(t, hub.ClientCount(domain.BudgetTypePersonal))
	assert.Equal(t, 1, hub.ClientCount(domain.BudgetTypeFamily))

	// Unregistered clients are not re-added
	hub.Unregister(client)
	client.budgetType = domain.BudgetTypePersonal
	hub.Move(client, domain.BudgetTypeFamily)
	assert.Zero(t, hub.TotalClientCount())
}
