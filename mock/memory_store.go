package mock

import (
	"context"
	"sync"
	"time"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/domain"
)

type memoryItem struct {
	snapshot  domain.WorkflowSnapshot
	expiresAt time.Time
}

// MemoryWorkflowStore is an in-process WorkflowStorePort with the same
// TTL-on-every-put semantics as the DynamoDB store. It additionally keeps
// the full snapshot history per run, which tests use to check transitions.
type MemoryWorkflowStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	items   map[string]memoryItem
	history map[string][]domain.WorkflowSnapshot
}

var _ outbound.WorkflowStorePort = (*MemoryWorkflowStore)(nil)

func NewMemoryWorkflowStore(ttl time.Duration) *MemoryWorkflowStore {
	return &MemoryWorkflowStore{
		ttl:     ttl,
		items:   make(map[string]memoryItem),
		history: make(map[string][]domain.WorkflowSnapshot),
	}
}

func (m *MemoryWorkflowStore) Put(_ context.Context, workflowID string, snapshot domain.WorkflowSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[workflowID] = memoryItem{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.history[workflowID] = append(m.history[workflowID], snapshot)
	return nil
}

func (m *MemoryWorkflowStore) Get(_ context.Context, workflowID string) (domain.WorkflowSnapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[workflowID]
	if !ok || time.Now().After(item.expiresAt) {
		return domain.WorkflowSnapshot{}, false, nil
	}
	return item.snapshot, true, nil
}

func (m *MemoryWorkflowStore) Delete(_ context.Context, workflowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, workflowID)
	return nil
}

// History returns every snapshot ever written for a run, in write order.
func (m *MemoryWorkflowStore) History(workflowID string) []domain.WorkflowSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]domain.WorkflowSnapshot, len(m.history[workflowID]))
	copy(history, m.history[workflowID])
	return history
}
