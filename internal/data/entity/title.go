package entity

import "github.com/google/uuid"

type Title struct {
	Base
	Name        string     `db:"name"`
	Year        int        `db:"year"`
	Description string     `db:"description"`
	CategoryID  *uuid.UUID `db:"category_id"`

	// Read-side joins, filled by the repository.
	Category *Category `db:"-"`
	Genres   []*Genre  `db:"-"`
	Rating   *float64  `db:"rating"`
}
