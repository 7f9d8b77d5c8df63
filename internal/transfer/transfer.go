// Package transfer moves an owner's habits, entries and settings in and out
// of the store as a single JSON document.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/models"
	"github.com/julianstephens/habhub/internal/storage"
)

// Payload is the export document. Import accepts the same shape.
type Payload struct {
	Habits       []models.Habit       `json:"habits"`
	Entries      []models.Entry       `json:"entries"`
	UserSettings *models.UserSettings `json:"user_settings"`
}

// Source is the read side of a store.
type Source interface {
	ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error)
	ListEntries(ownerID, start, end string) ([]models.Entry, error)
	GetSettings(ownerID string) (models.UserSettings, error)
}

// Sink is the write side of a store.
type Sink interface {
	UpsertHabits([]models.Habit) error
	UpsertEntries([]models.Entry) error
	SaveSettings(models.UserSettings) error
	MarkMigrationDone(ownerID string) error
}

// Export reads the three sections concurrently.
func Export(ctx context.Context, src Source, ownerID string) (*Payload, error) {
	p := &Payload{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		habits, err := src.ListHabits(ownerID, true)
		if err != nil {
			return fmt.Errorf("failed to read habits: %w", err)
		}
		p.Habits = habits
		return nil
	})
	g.Go(func() error {
		entries, err := src.ListEntries(ownerID, "", "")
		if err != nil {
			return fmt.Errorf("failed to read entries: %w", err)
		}
		p.Entries = entries
		return nil
	})
	g.Go(func() error {
		settings, err := src.GetSettings(ownerID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		p.UserSettings = &settings
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if p.Habits == nil {
		p.Habits = []models.Habit{}
	}
	if p.Entries == nil {
		p.Entries = []models.Entry{}
	}
	return p, nil
}

// Status is the outcome of one import section.
type Status string

const NotRun Status = "Not run"

func succeeded(n int) Status {
	unit := "items"
	if n == 1 {
		unit = "item"
	}
	return Status(fmt.Sprintf("Success (%d %s)", n, unit))
}

func failed(err error) Status {
	return Status("Failed: " + err.Error())
}

// Failed reports whether the section ran and failed.
func (s Status) Failed() bool {
	return strings.HasPrefix(string(s), "Failed")
}

// Result reports each section independently.
type Result struct {
	Habits       Status
	Entries      Status
	UserSettings Status
	// Migration is only run for legacy imports.
	Migration Status
}

// HasFailure reports whether any section failed.
func (r Result) HasFailure() bool {
	return r.Habits.Failed() || r.Entries.Failed() || r.UserSettings.Failed() || r.Migration.Failed()
}

// Summary renders the result the way the import command prints it.
func (r Result) Summary() string {
	head := "Import completed"
	if r.HasFailure() {
		head = "Import completed (with errors)"
	}
	lines := []string{
		head,
		"habits: " + string(r.Habits),
		"entries: " + string(r.Entries),
		"user_settings: " + string(r.UserSettings),
	}
	if r.Migration != NotRun {
		lines = append(lines, "migration: "+string(r.Migration))
	}
	return strings.Join(lines, "\n")
}

// Options control an import.
type Options struct {
	// Legacy marks the owner's one-time migration as done afterwards.
	Legacy bool
}

// Import upserts habits, then entries, then settings. Every record is
// stamped with ownerID. A failing section does not stop the ones after it.
func Import(sink Sink, ownerID string, p *Payload, opts Options) Result {
	res := Result{Habits: NotRun, Entries: NotRun, UserSettings: NotRun, Migration: NotRun}

	habits := make([]models.Habit, len(p.Habits))
	for i, h := range p.Habits {
		h.OwnerID = ownerID
		habits[i] = h
	}
	if err := sink.UpsertHabits(habits); err != nil {
		logger.Warn("import: habits failed", "error", err)
		res.Habits = failed(err)
	} else {
		res.Habits = succeeded(len(habits))
	}

	entries := make([]models.Entry, len(p.Entries))
	for i, e := range p.Entries {
		e.OwnerID = ownerID
		entries[i] = e
	}
	if err := sink.UpsertEntries(entries); err != nil {
		logger.Warn("import: entries failed", "error", err)
		res.Entries = failed(err)
	} else {
		res.Entries = succeeded(len(entries))
	}

	if p.UserSettings != nil {
		settings := *p.UserSettings
		settings.OwnerID = ownerID
		if err := sink.SaveSettings(settings); err != nil {
			logger.Warn("import: settings failed", "error", err)
			res.UserSettings = failed(err)
		} else {
			res.UserSettings = succeeded(1)
		}
	}

	if opts.Legacy {
		if err := sink.MarkMigrationDone(ownerID); err != nil {
			logger.Warn("import: marking migration done failed", "error", err)
			res.Migration = failed(err)
		} else {
			res.Migration = "Success"
		}
	}

	return res
}
