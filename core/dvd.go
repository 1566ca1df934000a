package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dvdDailyLateFee is the late fee charged per day a DVD is returned late.
var dvdDailyLateFee = decimal.RequireFromString("2.00")

// DVD is a publication variant carrying a playing duration.
type DVD struct {
	circulatingItem
	durationMinutes int
}

// BuildDVD creates a DVD that is available for lending.
func BuildDVD(id uuid.UUID, title string, publicationYear int, durationMinutes int) *DVD {
	return &DVD{
		circulatingItem: newCirculatingItem(id, title, publicationYear),
		durationMinutes: durationMinutes,
	}
}

// Kind returns the DVD variant tag.
func (d *DVD) Kind() PublicationKind {
	return KindDVD
}

// LateFeeRate returns the daily late-fee rate for DVDs.
func (d *DVD) LateFeeRate() decimal.Decimal {
	return dvdDailyLateFee
}

// DurationMinutes returns the DVD's playing time in minutes.
func (d *DVD) DurationMinutes() int {
	return d.durationMinutes
}

func (d *DVD) isVariant() {}

var _ Publication = (*DVD)(nil)
