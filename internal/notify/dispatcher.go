// Package notify publishes decree events to interested consumers (parish
// secretaries, the diocesan archive). Dispatch is fire-and-forget: a decree
// operation never fails because a notification could not be delivered.
package notify

import (
	"context"
	"sync"
	"time"

	"chancery/pkg/domain"
)

// Notification describes one decree lifecycle event.
type Notification struct {
	DecreeKind domain.DecreeKind `json:"decree_kind"`
	DecreeID   domain.DecreeID   `json:"decree_id"`
	Action     string            `json:"action"`
	Message    string            `json:"message"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Dispatcher delivers notifications for a parish.
type Dispatcher interface {
	Notify(ctx context.Context, parishID domain.ParishID, n Notification) error
}

// InMemory collects notifications for inspection in tests and for running
// without a broker.
type InMemory struct {
	mu   sync.RWMutex
	sent map[domain.ParishID][]Notification
}

func NewInMemory() *InMemory {
	return &InMemory{sent: make(map[domain.ParishID][]Notification)}
}

func (d *InMemory) Notify(_ context.Context, parishID domain.ParishID, n Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[parishID] = append(d.sent[parishID], n)
	return nil
}

// Sent returns the notifications recorded for a parish.
func (d *InMemory) Sent(parishID domain.ParishID) []Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Notification(nil), d.sent[parishID]...)
}
