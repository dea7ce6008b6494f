package domain

import (
	"fmt"
	"strings"

	dErrors "chancery/pkg/domain-errors"
)

// Locator is the three-part physical address of a partida inside a parish's
// ledgers: book, folio (page), and entry number. It appears on records, on
// decree snapshots, and (typed by hand) on replacement decrees whose
// original ledger no longer exists.
type Locator struct {
	Book  string `json:"book"`
	Folio string `json:"folio"`
	Entry string `json:"entry"`
}

// Validate enforces that all three parts are present. Replacement decrees
// accept partial locators (the book may be gone); use IsEmpty there instead.
func (l Locator) Validate() error {
	if strings.TrimSpace(l.Book) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "locator book is required")
	}
	if strings.TrimSpace(l.Folio) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "locator folio is required")
	}
	if strings.TrimSpace(l.Entry) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "locator entry is required")
	}
	return nil
}

// IsEmpty reports whether no part of the locator was provided.
func (l Locator) IsEmpty() bool {
	return strings.TrimSpace(l.Book) == "" &&
		strings.TrimSpace(l.Folio) == "" &&
		strings.TrimSpace(l.Entry) == ""
}

// String renders the conventional "libro/folio/número" form used on decrees.
func (l Locator) String() string {
	return fmt.Sprintf("libro %s, folio %s, número %s", l.Book, l.Folio, l.Entry)
}
