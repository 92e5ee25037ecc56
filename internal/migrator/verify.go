package migrator

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
)

type ObjectState struct {
	Object  database.Object
	Present bool
}

type Report struct {
	Version    int64
	AllApplied bool
	Objects    []ObjectState
}

func (r Report) Missing() []database.Object {
	var missing []database.Object
	for _, o := range r.Objects {
		if !o.Present {
			missing = append(missing, o.Object)
		}
	}

	return missing
}

// Verify compares the ledger with the catalog. When every migration is recorded
// as applied but an owned object is absent it returns ErrSchemaIncomplete along
// with the report.
func (m *Migrator) Verify(ctx context.Context) (Report, error) {
	statuses, err := m.Status(ctx)
	if err != nil {
		return Report{}, err
	}

	version, err := m.Version(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Version: version, AllApplied: true}
	for _, s := range statuses {
		if s.State != goose.StateApplied {
			report.AllApplied = false
		}
	}

	for _, obj := range m.opts.objects {
		present, err := database.ObjectExists(ctx, m.opts.db, obj)
		if err != nil {
			return Report{}, fmt.Errorf("verify %s: %w", obj, err)
		}

		report.Objects = append(report.Objects, ObjectState{Object: obj, Present: present})
	}

	if missing := report.Missing(); report.AllApplied && len(missing) > 0 {
		return report, fmt.Errorf("%w: %d objects missing, first %s", ErrSchemaIncomplete, len(missing), missing[0])
	}

	return report, nil
}
