// Package notification keeps the ephemeral, process-local feed of UI
// events. Nothing here is ever synchronized with the backend.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ehmtravel/backoffice/internal/core/events"
	"github.com/ehmtravel/backoffice/internal/entity"
)

type Notification struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Icon     string    `json:"icon"`
	TitleKey string    `json:"titleKey"`
	Time     time.Time `json:"time"`
	IsRead   bool      `json:"isRead"`
}

type Feed struct {
	mu     sync.RWMutex
	items  []Notification
	logger *slog.Logger
}

func NewFeed(logger *slog.Logger) *Feed {
	return &Feed{logger: logger}
}

// Push prepends a notification stamped with the current time.
func (f *Feed) Push(typ, icon, titleKey string) Notification {
	n := Notification{
		ID:       uuid.NewString(),
		Type:     typ,
		Icon:     icon,
		TitleKey: titleKey,
		Time:     time.Now(),
	}

	f.mu.Lock()
	f.items = append([]Notification{n}, f.items...)
	f.mu.Unlock()

	f.logger.Debug("notification pushed", "type", typ, "title_key", titleKey)
	return n
}

// MarkRead is a no-op for absent ids.
func (f *Feed) MarkRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
			return
		}
	}
}

func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].IsRead = true
	}
}

// Remove is a no-op for absent ids.
func (f *Feed) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return
		}
	}
}

func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	count := 0
	for _, n := range f.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// All returns the feed newest-first.
func (f *Feed) All() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Bind subscribes the feed to the record events the cache manager publishes
// for the given kinds.
func (f *Feed) Bind(bus *events.EventBus, kinds ...entity.Kind) {
	for _, kind := range kinds {
		eventType := fmt.Sprintf("%s.created", kind)
		f.subscribe(bus, eventType, string(kind))
	}
}

func (f *Feed) subscribe(bus *events.EventBus, eventType, kind string) {
	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		f.Push("created", iconFor(kind), fmt.Sprintf("notifications.%s", eventType))
		return nil
	})
}

func iconFor(kind string) string {
	switch entity.Kind(kind) {
	case entity.KindReservations:
		return "calendar"
	case entity.KindSuppliers:
		return "truck"
	case entity.KindUsers, entity.KindRoles:
		return "user"
	case entity.KindBags:
		return "briefcase"
	case entity.KindTransfers:
		return "bus"
	default:
		return "bell"
	}
}
