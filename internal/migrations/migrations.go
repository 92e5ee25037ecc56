// Package migrations holds the versioned schema changes of the notes database.
package migrations

import (
	"github.com/pressly/goose/v3"

	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/logger/slogx"
)

// All returns every migration in ascending version order.
func All() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(
			NotesVersion,
			&goose.GoFunc{RunTx: slogx.Traced("create notes table", upCreateNotesTableTx)},
			&goose.GoFunc{RunTx: slogx.Traced("drop notes table", downCreateNotesTableTx)},
		),
	}
}

// NotesSchema lists the objects the notes migration owns, extension included.
func NotesSchema() []database.Object {
	objs := []database.Object{
		{Kind: database.KindExtension, Name: UUIDExtension},
		{Kind: database.KindTable, Name: NotesTable},
	}

	for _, idx := range NotesIndexes {
		objs = append(objs, database.Object{Kind: database.KindIndex, Name: idx, Table: NotesTable})
	}

	return append(objs,
		database.Object{Kind: database.KindFunction, Name: NotesFunction},
		database.Object{Kind: database.KindTrigger, Name: NotesTrigger, Table: NotesTable},
	)
}
