// Package entrywrite persists entry counts against stores whose schema may
// lack the completed column or the unique index on the entry key.
//
// Persist walks a fixed cascade of named stages (upsert, then update, then
// insert, then one retry of the update) and reruns it with a count-only
// payload when the completed column is missing. Recorder layers an
// optimistic in-memory cache with rollback on top.
package entrywrite

import (
	"context"
	"fmt"

	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/storage"
)

// Driver is the three primitive writes for one entry key.
type Driver interface {
	Upsert(ctx context.Context, v storage.EntryValues) error
	// Update reports whether a row matched.
	Update(ctx context.Context, v storage.EntryValues) (bool, error)
	Insert(ctx context.Context, v storage.EntryValues) error
}

// Stage names the step of the cascade that produced a terminal failure.
type Stage string

const (
	StageUpsert      Stage = "upsert"
	StageUpdate      Stage = "update"
	StageInsert      Stage = "insert"
	StageRetryUpdate Stage = "retry-update"
)

// Result is the outcome of Persist. Stage and Err are set only on failure.
type Result struct {
	OK                bool
	Stage             Stage
	UsedLegacyPayload bool
	Err               error
}

// Error returns nil for a successful result and a *WriteError otherwise.
func (r Result) Error() error {
	if r.OK {
		return nil
	}
	return &WriteError{Stage: r.Stage, UsedLegacyPayload: r.UsedLegacyPayload, Err: r.Err}
}

// WriteError is a terminal write failure.
type WriteError struct {
	Stage             Stage
	UsedLegacyPayload bool
	Err               error
}

func (e *WriteError) Error() string {
	payload := "full"
	if e.UsedLegacyPayload {
		payload = "legacy"
	}
	return fmt.Sprintf("entry write failed at %s (%s payload): %v", e.Stage, payload, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type attempt struct {
	ok    bool
	stage Stage
	err   error
}

func cascade(ctx context.Context, d Driver, v storage.EntryValues) attempt {
	err := d.Upsert(ctx, v)
	if err == nil {
		return attempt{ok: true}
	}
	if !ShouldFallbackUpsert(err) {
		return attempt{stage: StageUpsert, err: err}
	}
	logger.Debug("Upsert has no conflict target, falling back to update", "error", err)

	updated, err := d.Update(ctx, v)
	if err != nil {
		return attempt{stage: StageUpdate, err: err}
	}
	if updated {
		return attempt{ok: true}
	}

	err = d.Insert(ctx, v)
	if err == nil {
		return attempt{ok: true}
	}
	if !isDuplicateKey(err) {
		return attempt{stage: StageInsert, err: err}
	}
	logger.Debug("Insert raced with another writer, retrying update")

	if _, err := d.Update(ctx, v); err != nil {
		return attempt{stage: StageRetryUpdate, err: err}
	}
	return attempt{ok: true}
}

// Persist writes values through d, rerunning the cascade with legacyValues
// only when the first run fails on a missing completed column.
func Persist(ctx context.Context, d Driver, values, legacyValues storage.EntryValues) Result {
	primary := cascade(ctx, d, values)
	if primary.ok {
		return Result{OK: true}
	}
	if !ShouldFallbackCompletedColumn(primary.err) {
		logger.Warn("Entry write failed", "stage", primary.stage, "legacy", false, "error", primary.err)
		return Result{Stage: primary.stage, Err: primary.err}
	}
	logger.Debug("Entries table has no completed column, retrying with legacy payload")

	legacy := cascade(ctx, d, legacyValues)
	if legacy.ok {
		return Result{OK: true, UsedLegacyPayload: true}
	}
	logger.Warn("Entry write failed", "stage", legacy.stage, "legacy", true, "error", legacy.err)
	return Result{Stage: legacy.stage, UsedLegacyPayload: true, Err: legacy.err}
}

type storeDriver struct {
	w   storage.EntryWriter
	key models.EntryKey
}

// StoreDriver binds a store's entry primitives to one key.
func StoreDriver(w storage.EntryWriter, key models.EntryKey) Driver {
	return storeDriver{w: w, key: key}
}

func (d storeDriver) Upsert(ctx context.Context, v storage.EntryValues) error {
	return d.w.UpsertEntry(ctx, d.key, v)
}

func (d storeDriver) Update(ctx context.Context, v storage.EntryValues) (bool, error) {
	return d.w.UpdateEntry(ctx, d.key, v)
}

func (d storeDriver) Insert(ctx context.Context, v storage.EntryValues) error {
	return d.w.InsertEntry(ctx, d.key, v)
}
