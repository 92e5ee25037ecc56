package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultNoteColor = "#ffeb3b"

	MaxTitleLen = 255
	MaxColorLen = 20
	MaxScopeLen = 100
)

// Note is a sticky note placed on a room's shared canvas.
// RoomID and UserID are opaque tags owned by another system.
type Note struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Color     string    `db:"color"`
	PositionX float64   `db:"position_x"`
	PositionY float64   `db:"position_y"`
	UserID    string    `db:"user_id"`
	RoomID    string    `db:"room_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
