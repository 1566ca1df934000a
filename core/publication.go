package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PublicationKind identifies the variant of a publication.
type PublicationKind string

// The variant tags for the closed publication set.
const (
	KindBook     PublicationKind = "Book"
	KindMagazine PublicationKind = "Magazine"
	KindDVD      PublicationKind = "DVD"
)

// Publication is a catalog item that can be lent out. It tracks its own
// availability and exposes a per-variant daily late-fee rate.
//
// The variant set is closed: exactly Book, Magazine and DVD implement it,
// because the fee-rate table is fixed and exhaustive. Availability changes
// only through MarkLoaned and MarkReturned; there is no direct setter.
type Publication interface {
	ID() uuid.UUID
	Title() string
	PublicationYear() int
	Kind() PublicationKind
	LateFeeRate() decimal.Decimal
	IsAvailable() bool
	MarkLoaned() error
	MarkReturned() error

	// isVariant keeps the variant set closed to this package.
	isVariant()
}

// circulatingItem carries the attributes and availability transitions shared
// by all publication variants.
type circulatingItem struct {
	id              uuid.UUID
	title           string
	publicationYear int
	available       bool
}

func newCirculatingItem(id uuid.UUID, title string, publicationYear int) circulatingItem {
	return circulatingItem{
		id:              id,
		title:           title,
		publicationYear: publicationYear,
		available:       true,
	}
}

// ID returns the immutable publication identifier.
func (c *circulatingItem) ID() uuid.UUID {
	return c.id
}

// Title returns the publication title.
func (c *circulatingItem) Title() string {
	return c.title
}

// PublicationYear returns the year the publication appeared.
func (c *circulatingItem) PublicationYear() int {
	return c.publicationYear
}

// IsAvailable reports whether the publication can currently be lent out.
func (c *circulatingItem) IsAvailable() bool {
	return c.available
}

// MarkLoaned transitions the publication from Available to Loaned.
// It fails with ErrPublicationAlreadyLoaned when the publication is already
// loaned out, leaving the state unchanged.
func (c *circulatingItem) MarkLoaned() error {
	if !c.available {
		return ErrPublicationAlreadyLoaned
	}

	c.available = false

	return nil
}

// MarkReturned transitions the publication from Loaned back to Available.
// It fails with ErrPublicationNotLoaned when the publication is not loaned
// out, leaving the state unchanged.
func (c *circulatingItem) MarkReturned() error {
	if c.available {
		return ErrPublicationNotLoaned
	}

	c.available = true

	return nil
}
