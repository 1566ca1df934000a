package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// bookDailyLateFee is the late fee charged per day a book is returned late.
var bookDailyLateFee = decimal.RequireFromString("1.00")

// Book is a publication variant carrying an author and an ISBN.
type Book struct {
	circulatingItem
	author string
	isbn   string
}

// BuildBook creates a book that is available for lending.
func BuildBook(id uuid.UUID, title string, publicationYear int, author string, isbn string) *Book {
	return &Book{
		circulatingItem: newCirculatingItem(id, title, publicationYear),
		author:          author,
		isbn:            isbn,
	}
}

// Kind returns the Book variant tag.
func (b *Book) Kind() PublicationKind {
	return KindBook
}

// LateFeeRate returns the daily late-fee rate for books.
func (b *Book) LateFeeRate() decimal.Decimal {
	return bookDailyLateFee
}

// Author returns the book's author.
func (b *Book) Author() string {
	return b.author
}

// ISBN returns the book's ISBN.
func (b *Book) ISBN() string {
	return b.isbn
}

func (b *Book) isVariant() {}

var _ Publication = (*Book)(nil)
