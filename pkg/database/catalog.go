package database

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownObjectKind = errors.New("unknown object kind")

type ObjectKind string

const (
	KindExtension ObjectKind = "extension"
	KindTable     ObjectKind = "table"
	KindIndex     ObjectKind = "index"
	KindFunction  ObjectKind = "function"
	KindTrigger   ObjectKind = "trigger"
)

// Object names a schema object. Table is set for indexes and triggers.
type Object struct {
	Kind  ObjectKind
	Name  string
	Table string
}

func (o Object) String() string {
	if o.Table != "" {
		return fmt.Sprintf("%s %s on %s", o.Kind, o.Name, o.Table)
	}

	return fmt.Sprintf("%s %s", o.Kind, o.Name)
}

const (
	extensionExistsQuery = `SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = $1)`

	tableExistsQuery = `SELECT EXISTS (
		SELECT 1 FROM pg_tables
		WHERE schemaname = current_schema() AND tablename = $1
	)`

	indexExistsQuery = `SELECT EXISTS (
		SELECT 1 FROM pg_indexes
		WHERE schemaname = current_schema() AND tablename = $1 AND indexname = $2
	)`

	functionExistsQuery = `SELECT EXISTS (
		SELECT 1 FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		WHERE n.nspname = current_schema() AND p.proname = $1
	)`

	triggerExistsQuery = `SELECT EXISTS (
		SELECT 1 FROM pg_trigger t
		JOIN pg_class c ON c.oid = t.tgrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE NOT t.tgisinternal
			AND n.nspname = current_schema()
			AND c.relname = $1
			AND t.tgname = $2
	)`
)

// ObjectExists looks obj up in the system catalog. Everything except extensions
// is resolved in current_schema().
func ObjectExists(ctx context.Context, conn Conn, obj Object) (bool, error) {
	var (
		query string
		args  []any
	)

	switch obj.Kind {
	case KindExtension:
		query, args = extensionExistsQuery, []any{obj.Name}
	case KindTable:
		query, args = tableExistsQuery, []any{obj.Name}
	case KindIndex:
		query, args = indexExistsQuery, []any{obj.Table, obj.Name}
	case KindFunction:
		query, args = functionExistsQuery, []any{obj.Name}
	case KindTrigger:
		query, args = triggerExistsQuery, []any{obj.Table, obj.Name}
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownObjectKind, obj.Kind)
	}

	var exists bool
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup %s: %w", obj, err)
	}

	return exists, nil
}

func TableExists(ctx context.Context, conn Conn, name string) (bool, error) {
	return ObjectExists(ctx, conn, Object{Kind: KindTable, Name: name})
}
