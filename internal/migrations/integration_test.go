package migrations

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-migrations/internal/entity"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
)

type columnInfo struct {
	Name     string
	Type     string
	Nullable string
	Default  *string
	MaxLen   *int32
}

func describeNotes(t *testing.T, pool *pgxpool.Pool) []columnInfo {
	t.Helper()

	rows, err := pool.Query(context.Background(), `
		SELECT column_name::text, data_type::text, is_nullable::text,
			column_default::text, character_maximum_length::int
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'notes'
		ORDER BY ordinal_position`)
	require.NoError(t, err)

	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[columnInfo])
	require.NoError(t, err)

	return cols
}

func schemaState(t *testing.T, conn database.Conn) map[string]bool {
	t.Helper()

	state := make(map[string]bool)
	for _, obj := range NotesSchema() {
		ok, err := database.ObjectExists(context.Background(), conn, obj)
		require.NoError(t, err)
		state[obj.String()] = ok
	}

	return state
}

func insertNote(t *testing.T, pool *pgxpool.Pool, title, userID, roomID string) entity.Note {
	t.Helper()

	rows, err := pool.Query(context.Background(), `
		INSERT INTO notes (title, content, user_id, room_id)
		VALUES ($1, 'content', $2, $3)
		RETURNING id, title, content, color, position_x, position_y, user_id, room_id, created_at, updated_at`,
		title, userID, roomID,
	)
	require.NoError(t, err)

	note, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Note])
	require.NoError(t, err)

	return note
}

func getNote(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) entity.Note {
	t.Helper()

	rows, err := pool.Query(context.Background(), `SELECT * FROM notes WHERE id = $1`, id)
	require.NoError(t, err)

	note, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Note])
	require.NoError(t, err)

	return note
}

func TestUpIsIdempotent(t *testing.T) {
	pg := requirePostgres(t)
	ctx := context.Background()

	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))
	firstCols := describeNotes(t, pg.Pool)
	firstState := schemaState(t, pg.DB)

	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))
	secondCols := describeNotes(t, pg.Pool)
	secondState := schemaState(t, pg.DB)

	assert.Equal(t, firstCols, secondCols)
	assert.Equal(t, firstState, secondState)

	for obj, present := range secondState {
		assert.True(t, present, obj)
	}

	require.Len(t, secondCols, 10)
	assert.Equal(t, "uuid", secondCols[0].Type)
	assert.Equal(t, "character varying", secondCols[1].Type)
	require.NotNil(t, secondCols[1].MaxLen)
	assert.EqualValues(t, 255, *secondCols[1].MaxLen)
	assert.Equal(t, "double precision", secondCols[4].Type)
	assert.Equal(t, "timestamp with time zone", secondCols[9].Type)
	for _, c := range secondCols {
		assert.Equal(t, "NO", c.Nullable, c.Name)
	}
}

func TestUpSkipsWhenTableWasCreatedElsewhere(t *testing.T) {
	pg := requirePostgres(t)
	ctx := context.Background()

	_, err := pg.DB.ExecContext(ctx, `CREATE TABLE notes (id INT PRIMARY KEY)`)
	require.NoError(t, err)

	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))

	state := schemaState(t, pg.DB)
	assert.True(t, state["extension uuid-ossp"])
	assert.False(t, state["index idx_notes_room_id on notes"])
	assert.False(t, state["trigger trigger_update_notes_updated_at on notes"])
}

func TestRoundTripLeavesOnlyExtension(t *testing.T) {
	pg := requirePostgres(t)
	ctx := context.Background()

	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))
	require.NoError(t, DownCreateNotesTable(ctx, pg.DB))

	for obj, present := range schemaState(t, pg.DB) {
		if obj == "extension uuid-ossp" {
			assert.True(t, present, obj)
			continue
		}
		assert.False(t, present, obj)
	}
}

func TestDownOnEmptyDatabase(t *testing.T) {
	pg := requirePostgres(t)

	require.NoError(t, DownCreateNotesTable(context.Background(), pg.DB))
	require.NoError(t, DownCreateNotesTable(context.Background(), pg.DB))
}

func TestInsertFillsDefaults(t *testing.T) {
	pg := requirePostgres(t)
	require.NoError(t, UpCreateNotesTable(context.Background(), pg.DB))

	note := insertNote(t, pg.Pool, "todo", "user-1", "room-1")

	assert.NotEqual(t, uuid.Nil, note.ID)
	assert.Equal(t, entity.DefaultNoteColor, note.Color)
	assert.Zero(t, note.PositionX)
	assert.Zero(t, note.PositionY)
	assert.False(t, note.CreatedAt.IsZero())
	assert.True(t, note.CreatedAt.Equal(note.UpdatedAt))

	other := insertNote(t, pg.Pool, "todo", "user-1", "room-1")
	assert.NotEqual(t, note.ID, other.ID)
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	pg := requirePostgres(t)
	ctx := context.Background()
	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))

	note := insertNote(t, pg.Pool, "todo", "user-1", "room-1")

	time.Sleep(10 * time.Millisecond)
	_, err := pg.Pool.Exec(ctx, `UPDATE notes SET position_x = 42 WHERE id = $1`, note.ID)
	require.NoError(t, err)

	moved := getNote(t, pg.Pool, note.ID)
	assert.Equal(t, 42.0, moved.PositionX)
	assert.True(t, moved.UpdatedAt.After(note.UpdatedAt))
	assert.True(t, moved.CreatedAt.Equal(note.CreatedAt))

	time.Sleep(10 * time.Millisecond)
	_, err = pg.Pool.Exec(ctx, `UPDATE notes SET title = 'done', updated_at = $2 WHERE id = $1`, note.ID, note.CreatedAt)
	require.NoError(t, err)

	renamed := getNote(t, pg.Pool, note.ID)
	assert.Equal(t, "done", renamed.Title)
	assert.True(t, renamed.UpdatedAt.After(moved.UpdatedAt))
}

func TestInsertRequiresMandatoryColumns(t *testing.T) {
	pg := requirePostgres(t)
	ctx := context.Background()
	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))

	values := map[string]string{
		"title":   "todo",
		"content": "content",
		"user_id": "user-1",
		"room_id": "room-1",
	}

	for omitted := range values {
		t.Run(omitted, func(t *testing.T) {
			var (
				cols []string
				args []any
			)
			for col, v := range values {
				if col == omitted {
					continue
				}
				cols = append(cols, col)
				args = append(args, v)
			}

			query := `INSERT INTO notes (` + cols[0] + `, ` + cols[1] + `, ` + cols[2] + `) VALUES ($1, $2, $3)`
			_, err := pg.Pool.Exec(ctx, query, args...)

			var pgErr *pgconn.PgError
			require.True(t, errors.As(err, &pgErr), "expected postgres error, got %v", err)
			assert.Equal(t, pgerrcode.NotNullViolation, pgErr.Code)
			assert.Equal(t, omitted, pgErr.ColumnName)
		})
	}
}

func TestScopedQueriesIgnoreIndexes(t *testing.T) {
	pg := requirePostgres(t)
	ctx := context.Background()
	require.NoError(t, UpCreateNotesTable(ctx, pg.DB))

	for _, n := range []struct{ user, room string }{
		{"alice", "room-a"},
		{"alice", "room-a"},
		{"alice", "room-b"},
		{"bob", "room-a"},
		{"bob", "room-c"},
	} {
		insertNote(t, pg.Pool, n.user+"@"+n.room, n.user, n.room)
	}

	queries := []struct {
		name  string
		sql   string
		args  []any
		count int
	}{
		{"by room", `SELECT id FROM notes WHERE room_id = $1`, []any{"room-a"}, 3},
		{"by user", `SELECT id FROM notes WHERE user_id = $1`, []any{"alice"}, 3},
		{"by room and user", `SELECT id FROM notes WHERE room_id = $1 AND user_id = $2`, []any{"room-a", "bob"}, 1},
	}

	collect := func(sql string, args []any) []string {
		rows, err := pg.Pool.Query(ctx, sql, args...)
		require.NoError(t, err)

		ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
			var id uuid.UUID
			err := row.Scan(&id)
			return id.String(), err
		})
		require.NoError(t, err)

		sort.Strings(ids)
		return ids
	}

	withIndexes := make(map[string][]string, len(queries))
	for _, q := range queries {
		withIndexes[q.name] = collect(q.sql, q.args)
		assert.Len(t, withIndexes[q.name], q.count, q.name)
	}

	for _, idx := range NotesIndexes {
		_, err := pg.Pool.Exec(ctx, `DROP INDEX `+idx)
		require.NoError(t, err)
	}

	for _, q := range queries {
		assert.Equal(t, withIndexes[q.name], collect(q.sql, q.args), q.name)
	}
}
