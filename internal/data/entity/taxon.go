package entity

import "github.com/google/uuid"

// Taxon is a named, slug-keyed grouping of titles.
type Taxon struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
	Slug string    `db:"slug"`
}

type (
	Category = Taxon
	Genre    = Taxon
)
