// Package view is the one generic CRUD facade every entity screen is an
// instance of: list+filter, validated create/update, delete and CSV export
// over a single schema.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/cache"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/export"
)

type Facade struct {
	schema entity.Schema
	caches *cache.Manager
	logger *slog.Logger
}

func New(kind entity.Kind, caches *cache.Manager, logger *slog.Logger) (*Facade, error) {
	schema, err := entity.Get(kind)
	if err != nil {
		return nil, internal.NewValidationError("unknown entity kind", internal.ErrCodeUnknownEntity).WithCause(err)
	}
	return &Facade{
		schema: schema,
		caches: caches,
		logger: logger.With("entity", kind),
	}, nil
}

func (f *Facade) Kind() entity.Kind {
	return f.schema.Kind
}

func (f *Facade) Title() string {
	return f.schema.Title
}

// Load refreshes the cache from the backend.
func (f *Facade) Load(ctx context.Context) ([]entity.Record, error) {
	return f.caches.Refresh(ctx, f.schema.Kind)
}

// List filters the cached collection; it never hits the network.
func (f *Facade) List(query string) []entity.Record {
	return cache.Filter(f.schema, f.caches.Records(f.schema.Kind), query)
}

func (f *Facade) Get(id string) (entity.Record, bool) {
	for _, rec := range f.caches.Records(f.schema.Kind) {
		if rec.ID() == id {
			return rec, true
		}
	}
	return nil, false
}

// Create validates field-level rules and uniqueness against the cache
// before the payload leaves the client.
func (f *Facade) Create(ctx context.Context, payload entity.Record) (entity.Record, error) {
	if err := f.schema.Validate(payload); err != nil {
		return nil, err
	}
	if err := f.checkUnique(payload, ""); err != nil {
		return nil, err
	}
	created, err := f.caches.Create(ctx, f.schema.Kind, payload)
	if err != nil {
		f.logger.Error("create failed", "error", err)
		return nil, err
	}
	f.logger.Info("record created", "record_id", created.ID())
	return created, nil
}

func (f *Facade) Update(ctx context.Context, id string, patch entity.Record) (entity.Record, error) {
	if err := f.checkUnique(patch, id); err != nil {
		return nil, err
	}
	updated, err := f.caches.Update(ctx, f.schema.Kind, id, patch)
	if err != nil {
		f.logger.Error("update failed", "record_id", id, "error", err)
		return nil, err
	}
	f.logger.Info("record updated", "record_id", id)
	return updated, nil
}

func (f *Facade) Delete(ctx context.Context, id string) error {
	if err := f.caches.Delete(ctx, f.schema.Kind, id); err != nil {
		f.logger.Error("delete failed", "record_id", id, "error", err)
		return err
	}
	f.logger.Info("record deleted", "record_id", id)
	return nil
}

// ExportCSV builds a CSV of the (optionally filtered) cached collection and
// returns the conventional filename alongside the document.
func (f *Facade) ExportCSV(query string) (string, []byte) {
	records := f.List(query)
	return export.Filename(f.schema.Kind, time.Now()), export.Marshal(f.schema, records)
}

// checkUnique rejects values already present in the cache for fields the
// schema marks unique, e.g. duplicate usernames. excludeID skips the record
// being updated.
func (f *Facade) checkUnique(payload entity.Record, excludeID string) *internal.AppError {
	for _, field := range f.schema.Fields {
		if !field.Unique {
			continue
		}
		value, ok := payload[field.Name]
		if !ok || value == nil || value == "" {
			continue
		}
		str, isStr := value.(string)
		if !isStr {
			continue
		}
		for _, rec := range f.caches.Records(f.schema.Kind) {
			if excludeID != "" && rec.ID() == excludeID {
				continue
			}
			if rec.String(field.Name) == str {
				return internal.NewValidationFieldError(
					field.Name,
					fmt.Sprintf("%s %q already exists", field.Name, str),
					internal.ErrCodeDuplicateValue,
				)
			}
		}
	}
	return nil
}
