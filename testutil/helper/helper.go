package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/opencirc/circulation-go/catalog"
	"github.com/opencirc/circulation-go/core"
)

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

func FixtureBook(id uuid.UUID) *core.Book {
	return core.BuildBook(
		id,
		"Learning Domain-Driven Design",
		2021,
		"Vlad Khononov",
		"978-1-098-10013-1",
	)
}

func FixtureMagazine(id uuid.UUID) *core.Magazine {
	return core.BuildMagazine(id, "Communications of the ACM", 2024, 67)
}

func FixtureDVD(id uuid.UUID) *core.DVD {
	return core.BuildDVD(id, "The Secret of Kells", 2009, 75)
}

func FixturePatron(id uuid.UUID) *core.Patron {
	return core.BuildPatron(id, "Ada Lovelace", "ada@example.org")
}

func GivenRegisteredBook(t testing.TB, ctx context.Context, lib *catalog.Catalog) *core.Book {
	book := FixtureBook(GivenUniqueID(t))
	err := lib.RegisterPublication(ctx, book)
	assert.NoError(t, err, "error in arranging test data")

	return book
}

func GivenRegisteredMagazine(t testing.TB, ctx context.Context, lib *catalog.Catalog) *core.Magazine {
	magazine := FixtureMagazine(GivenUniqueID(t))
	err := lib.RegisterPublication(ctx, magazine)
	assert.NoError(t, err, "error in arranging test data")

	return magazine
}

func GivenRegisteredDVD(t testing.TB, ctx context.Context, lib *catalog.Catalog) *core.DVD {
	dvd := FixtureDVD(GivenUniqueID(t))
	err := lib.RegisterPublication(ctx, dvd)
	assert.NoError(t, err, "error in arranging test data")

	return dvd
}

func GivenRegisteredPatron(t testing.TB, ctx context.Context, lib *catalog.Catalog) *core.Patron {
	patron := FixturePatron(GivenUniqueID(t))
	err := lib.RegisterPatron(ctx, patron)
	assert.NoError(t, err, "error in arranging test data")

	return patron
}

func GivenActiveLoan(
	t testing.TB,
	ctx context.Context,
	lib *catalog.Catalog,
	patron *core.Patron,
	publication core.Publication,
) *core.Loan {

	loan, err := lib.CreateLoan(ctx, patron.ID(), publication.ID(), 0)
	assert.NoError(t, err, "error in arranging test data")

	return loan
}

func GivenLoanWithPeriod(
	t testing.TB,
	ctx context.Context,
	lib *catalog.Catalog,
	patron *core.Patron,
	publication core.Publication,
	period time.Duration,
) *core.Loan {

	loan, err := lib.CreateLoan(ctx, patron.ID(), publication.ID(), period)
	assert.NoError(t, err, "error in arranging test data")

	return loan
}
