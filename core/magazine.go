package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// magazineDailyLateFee is the late fee charged per day a magazine is returned late.
var magazineDailyLateFee = decimal.RequireFromString("0.50")

// Magazine is a publication variant carrying an issue number.
type Magazine struct {
	circulatingItem
	issueNumber int
}

// BuildMagazine creates a magazine that is available for lending.
func BuildMagazine(id uuid.UUID, title string, publicationYear int, issueNumber int) *Magazine {
	return &Magazine{
		circulatingItem: newCirculatingItem(id, title, publicationYear),
		issueNumber:     issueNumber,
	}
}

// Kind returns the Magazine variant tag.
func (m *Magazine) Kind() PublicationKind {
	return KindMagazine
}

// LateFeeRate returns the daily late-fee rate for magazines.
func (m *Magazine) LateFeeRate() decimal.Decimal {
	return magazineDailyLateFee
}

// IssueNumber returns the magazine's issue number.
func (m *Magazine) IssueNumber() int {
	return m.issueNumber
}

func (m *Magazine) isVariant() {}

var _ Publication = (*Magazine)(nil)
