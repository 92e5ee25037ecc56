package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evgeniy-krivenko/notes-migrations/internal/entity"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/logger/slogx"
)

const (
	NotesVersion int64 = 20250104000000

	NotesTable    = "notes"
	UUIDExtension = "uuid-ossp"
	NotesFunction = "update_notes_updated_at"
	NotesTrigger  = "trigger_update_notes_updated_at"
)

var NotesIndexes = []string{
	"idx_notes_room_id",
	"idx_notes_user_id",
	"idx_notes_room_user",
	"idx_notes_created_at",
}

type statement struct {
	name string
	sql  string
}

const createUUIDExtension = `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`

var createNotesStatements = []statement{
	{
		name: "create table notes",
		sql: fmt.Sprintf(`
CREATE TABLE notes (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	title VARCHAR(%d) NOT NULL,
	content TEXT NOT NULL,
	color VARCHAR(%d) NOT NULL DEFAULT '%s',
	position_x FLOAT NOT NULL DEFAULT 0,
	position_y FLOAT NOT NULL DEFAULT 0,
	user_id VARCHAR(%d) NOT NULL,
	room_id VARCHAR(%d) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`,
			entity.MaxTitleLen,
			entity.MaxColorLen,
			entity.DefaultNoteColor,
			entity.MaxScopeLen,
			entity.MaxScopeLen,
		),
	},
	{
		name: "create index idx_notes_room_id",
		sql:  `CREATE INDEX IF NOT EXISTS idx_notes_room_id ON notes(room_id)`,
	},
	{
		name: "create index idx_notes_user_id",
		sql:  `CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id)`,
	},
	{
		name: "create index idx_notes_room_user",
		sql:  `CREATE INDEX IF NOT EXISTS idx_notes_room_user ON notes(room_id, user_id)`,
	},
	{
		name: "create index idx_notes_created_at",
		sql:  `CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at)`,
	},
	{
		name: "create function update_notes_updated_at",
		sql: `
CREATE OR REPLACE FUNCTION update_notes_updated_at()
RETURNS TRIGGER AS $$
BEGIN
	NEW.updated_at = NOW();
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,
	},
	{
		name: "create trigger trigger_update_notes_updated_at",
		sql: `
CREATE TRIGGER trigger_update_notes_updated_at
	BEFORE UPDATE ON notes
	FOR EACH ROW
	EXECUTE FUNCTION update_notes_updated_at()`,
	},
}

// Dependents go first. Indexes are owned by the table and go with it.
// The uuid-ossp extension is database wide and is left installed.
var dropNotesStatements = []statement{
	{
		name: "drop trigger trigger_update_notes_updated_at",
		sql:  `DROP TRIGGER IF EXISTS trigger_update_notes_updated_at ON notes`,
	},
	{
		name: "drop function update_notes_updated_at",
		sql:  `DROP FUNCTION IF EXISTS update_notes_updated_at()`,
	},
	{
		name: "drop table notes",
		sql:  `DROP TABLE IF EXISTS notes`,
	},
}

// UpCreateNotesTable installs uuid-ossp and creates the notes table with its
// indexes and updated_at trigger. An existing notes table means the whole
// block was applied before, so nothing else is touched.
func UpCreateNotesTable(ctx context.Context, conn database.Conn) error {
	if _, err := conn.ExecContext(ctx, createUUIDExtension); err != nil {
		return fmt.Errorf("create extension uuid-ossp: %w", err)
	}

	exists, err := database.TableExists(ctx, conn, NotesTable)
	if err != nil {
		return fmt.Errorf("check notes table: %w", err)
	}

	if exists {
		slogx.Info(ctx, "table already exists, skipping creation", slogx.Table(NotesTable))
		return nil
	}

	return execAll(ctx, conn, createNotesStatements)
}

// DownCreateNotesTable drops everything UpCreateNotesTable may have created
// except the extension. Missing objects are skipped.
func DownCreateNotesTable(ctx context.Context, conn database.Conn) error {
	return execAll(ctx, conn, dropNotesStatements)
}

func execAll(ctx context.Context, conn database.Conn, stmts []statement) error {
	for _, st := range stmts {
		if _, err := conn.ExecContext(ctx, st.sql); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}

		slogx.Debug(ctx, "statement executed", slogx.Step(st.name))
	}

	return nil
}

func upCreateNotesTableTx(ctx context.Context, tx *sql.Tx) error {
	return UpCreateNotesTable(ctx, tx)
}

func downCreateNotesTableTx(ctx context.Context, tx *sql.Tx) error {
	return DownCreateNotesTable(ctx, tx)
}
