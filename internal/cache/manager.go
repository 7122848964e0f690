package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/core/events"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/localstore"
)

// Gateway is the slice of the API client the manager needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Manager applies the one cache discipline everywhere: every successful
// write refreshes the affected collection before the caller gets control
// back, and every failure leaves the cache untouched.
type Manager struct {
	gw     Gateway
	store  *Store
	bus    *events.EventBus
	local  *localstore.Store
	logger *slog.Logger
}

func NewManager(gw Gateway, bus *events.EventBus, local *localstore.Store, logger *slog.Logger) *Manager {
	return &Manager{
		gw:     gw,
		store:  NewStore(),
		bus:    bus,
		local:  local,
		logger: logger,
	}
}

// Refresh fully replaces the cached collection from the backend. Records
// are type-checked against the schema at this boundary.
func (m *Manager) Refresh(ctx context.Context, kind entity.Kind) ([]entity.Record, error) {
	schema, err := entity.Get(kind)
	if err != nil {
		return nil, internal.NewValidationError("unknown entity kind", internal.ErrCodeUnknownEntity).WithCause(err)
	}

	gen := m.store.begin(kind)

	var records []entity.Record
	if err := m.gw.Get(ctx, schema.Path, &records); err != nil {
		m.logger.Error("cache refresh failed", "kind", kind, "error", err)
		return nil, err
	}
	for _, rec := range records {
		if typeErr := schema.CheckTypes(rec); typeErr != nil {
			m.logger.Error("backend record failed boundary check",
				"kind", kind, "record_id", rec.ID(), "error", typeErr)
			return nil, typeErr
		}
	}

	if !m.store.commit(kind, gen, records) {
		m.logger.Debug("discarding stale refresh result", "kind", kind, "generation", gen)
		return m.store.Get(kind), nil
	}

	m.logger.Debug("cache refreshed", "kind", kind, "records", len(records))

	if kind == entity.KindUsers && m.local != nil {
		m.snapshotUsers(records)
	}

	return m.store.Get(kind), nil
}

// Create validates the payload locally, posts it and refreshes the cache
// before returning, so the next read sees the server's canonical version.
func (m *Manager) Create(ctx context.Context, kind entity.Kind, payload entity.Record) (entity.Record, error) {
	schema, err := entity.Get(kind)
	if err != nil {
		return nil, internal.NewValidationError("unknown entity kind", internal.ErrCodeUnknownEntity).WithCause(err)
	}
	if verr := schema.Validate(payload); verr != nil {
		return nil, verr
	}

	var created entity.Record
	if err := m.gw.Post(ctx, schema.Path, payload, &created); err != nil {
		return nil, err
	}

	if _, err := m.Refresh(ctx, kind); err != nil {
		m.logger.Warn("post-create refresh failed, cache may lag the backend",
			"kind", kind, "error", err)
	}

	m.publish(ctx, kind, "created", created.ID())
	return created, nil
}

func (m *Manager) Update(ctx context.Context, kind entity.Kind, id string, patch entity.Record) (entity.Record, error) {
	schema, err := entity.Get(kind)
	if err != nil {
		return nil, internal.NewValidationError("unknown entity kind", internal.ErrCodeUnknownEntity).WithCause(err)
	}
	if id == "" {
		return nil, internal.NewValidationFieldError("id", "id is required", internal.ErrCodeMissingField)
	}
	if typeErr := schema.CheckTypes(patch); typeErr != nil {
		return nil, typeErr
	}

	var updated entity.Record
	if err := m.gw.Put(ctx, fmt.Sprintf("%s/%s", schema.Path, id), patch, &updated); err != nil {
		return nil, err
	}

	if _, err := m.Refresh(ctx, kind); err != nil {
		m.logger.Warn("post-update refresh failed, cache may lag the backend",
			"kind", kind, "error", err)
	}

	m.publish(ctx, kind, "updated", id)
	return updated, nil
}

func (m *Manager) Delete(ctx context.Context, kind entity.Kind, id string) error {
	schema, err := entity.Get(kind)
	if err != nil {
		return internal.NewValidationError("unknown entity kind", internal.ErrCodeUnknownEntity).WithCause(err)
	}
	if id == "" {
		return internal.NewValidationFieldError("id", "id is required", internal.ErrCodeMissingField)
	}

	if err := m.gw.Delete(ctx, fmt.Sprintf("%s/%s", schema.Path, id)); err != nil {
		return err
	}

	if _, err := m.Refresh(ctx, kind); err != nil {
		m.logger.Warn("post-delete refresh failed, cache may lag the backend",
			"kind", kind, "error", err)
	}

	m.publish(ctx, kind, "deleted", id)
	return nil
}

// WarmUp populates several caches concurrently, as happens right after
// login. The first failure wins but does not cancel the session.
func (m *Manager) WarmUp(ctx context.Context, kinds ...entity.Kind) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			_, err := m.Refresh(gctx, kind)
			return err
		})
	}
	return g.Wait()
}

// Records returns the cached collection in insertion order.
func (m *Manager) Records(kind entity.Kind) []entity.Record {
	return m.store.Get(kind)
}

// Search filters the cached collection client-side.
func (m *Manager) Search(kind entity.Kind, query string) ([]entity.Record, error) {
	schema, err := entity.Get(kind)
	if err != nil {
		return nil, internal.NewValidationError("unknown entity kind", internal.ErrCodeUnknownEntity).WithCause(err)
	}
	return Filter(schema, m.store.Get(kind), query), nil
}

// Clear empties every cache; called on logout.
func (m *Manager) Clear() {
	m.store.Clear()
}

func (m *Manager) publish(ctx context.Context, kind entity.Kind, action, id string) {
	if m.bus == nil {
		return
	}
	if err := m.bus.PublishSync(ctx, events.NewRecordEvent(string(kind), action, id)); err != nil {
		m.logger.Error("failed to publish record event", "kind", kind, "action", action, "error", err)
	}
}

func (m *Manager) snapshotUsers(records []entity.Record) {
	payload, err := json.Marshal(records)
	if err != nil {
		m.logger.Error("failed to serialize users snapshot", "error", err)
		return
	}
	if err := m.local.SaveSnapshot(localstore.KeyUsers, string(payload)); err != nil {
		m.logger.Error("failed to save users snapshot", "error", err)
	}
}
