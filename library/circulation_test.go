package library

import (
	"errors"
	"testing"
	"time"
)

func TestCheckOutAndReturn(t *testing.T) {
	db := tempDB(t)
	now := fixClock(t, db)

	userID, _ := db.RegisterUser("Jack", "Fraley", "jfraley", "secret")
	bookID, _ := db.AddBook("Dune", "SciFi", "Herbert", "Desert planet epic")

	co, err := db.CheckOutBook(userID, bookID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !co.CheckoutDate.Equal(now) {
		t.Fatalf("want checkout date %v, got %v", now, co.CheckoutDate)
	}
	if want := now.Add(14 * 24 * time.Hour); !co.DueDate.Equal(want) {
		t.Fatalf("want due date %v, got %v", want, co.DueDate)
	}

	book, _ := db.GetBook(bookID)
	if book.Available != defaultCopies-1 {
		t.Fatalf("want %d available, got %d", defaultCopies-1, book.Available)
	}

	// Round trip: the return restores the counter and removes the record.
	if err := db.ReturnBook(userID, bookID); err != nil {
		t.Fatalf("return: %v", err)
	}
	book, _ = db.GetBook(bookID)
	if book.Available != defaultCopies {
		t.Fatalf("want %d available after return, got %d", defaultCopies, book.Available)
	}
	holders, _ := db.CheckoutsForBook(bookID)
	if len(holders) != 0 {
		t.Fatalf("want no checkouts after return, got %d", len(holders))
	}
}

func TestCheckOutUnavailable(t *testing.T) {
	db := tempDB(t)
	u1, _ := db.RegisterUser("Alice", "Anderson", "alicea", "pw")
	u2, _ := db.RegisterUser("Bob", "Allison", "bobal", "pw")
	u3, _ := db.RegisterUser("Carol", "Smith", "csmith", "pw")
	bookID, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	if _, err := db.CheckOutBook(u1, bookID); err != nil {
		t.Fatalf("checkout 1: %v", err)
	}
	if _, err := db.CheckOutBook(u2, bookID); err != nil {
		t.Fatalf("checkout 2: %v", err)
	}

	// Both copies are out; the third attempt fails without side effects.
	if _, err := db.CheckOutBook(u3, bookID); !errors.Is(err, ErrBookUnavailable) {
		t.Fatalf("want ErrBookUnavailable, got %v", err)
	}
	book, _ := db.GetBook(bookID)
	if book.Available != 0 {
		t.Fatalf("failed checkout changed availability: %d", book.Available)
	}
	holders, _ := db.CheckoutsForBook(bookID)
	if len(holders) != 2 {
		t.Fatalf("failed checkout left a record: %d holders", len(holders))
	}
}

func TestCheckOutDuplicate(t *testing.T) {
	db := tempDB(t)
	userID, _ := db.RegisterUser("Jack", "Fraley", "jfraley", "secret")
	bookID, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	if _, err := db.CheckOutBook(userID, bookID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// One active checkout per (user, book): the second attempt is refused
	// and the counter is untouched.
	if _, err := db.CheckOutBook(userID, bookID); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Fatalf("want ErrAlreadyCheckedOut, got %v", err)
	}
	book, _ := db.GetBook(bookID)
	if book.Available != defaultCopies-1 {
		t.Fatalf("duplicate attempt changed availability: %d", book.Available)
	}
}

func TestCheckOutMissingBook(t *testing.T) {
	db := tempDB(t)
	userID, _ := db.RegisterUser("Jack", "Fraley", "jfraley", "secret")

	if _, err := db.CheckOutBook(userID, 99999); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("want ErrBookNotFound, got %v", err)
	}
}

func TestReturnWithoutCheckout(t *testing.T) {
	db := tempDB(t)
	userID, _ := db.RegisterUser("Jack", "Fraley", "jfraley", "secret")
	bookID, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	if err := db.ReturnBook(userID, bookID); !errors.Is(err, ErrNoActiveCheckout) {
		t.Fatalf("want ErrNoActiveCheckout, got %v", err)
	}
	book, _ := db.GetBook(bookID)
	if book.Available != defaultCopies {
		t.Fatalf("failed return changed availability: %d", book.Available)
	}
}

func TestAvailabilityNeverNegative(t *testing.T) {
	db := tempDB(t)
	u1, _ := db.RegisterUser("Alice", "Anderson", "alicea", "pw")
	u2, _ := db.RegisterUser("Bob", "Allison", "bobal", "pw")
	bookID, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	// Arbitrary mixed sequence of checkouts, returns, and rejected calls.
	db.CheckOutBook(u1, bookID)
	db.CheckOutBook(u2, bookID)
	db.CheckOutBook(u1, bookID) // duplicate, rejected
	db.ReturnBook(u1, bookID)
	db.ReturnBook(u1, bookID) // no checkout, rejected
	db.CheckOutBook(u1, bookID)
	db.ReturnBook(u2, bookID)
	db.ReturnBook(u1, bookID)

	book, _ := db.GetBook(bookID)
	if book.Available < 0 {
		t.Fatalf("availability went negative: %d", book.Available)
	}
	if book.Available != defaultCopies {
		t.Fatalf("balanced sequence should restore %d, got %d", defaultCopies, book.Available)
	}
}

func TestCheckoutListings(t *testing.T) {
	db := tempDB(t)
	now := fixClock(t, db)

	alice, _ := db.RegisterUser("Alice", "Anderson", "alicea", "pw")
	bob, _ := db.RegisterUser("Bob", "Allison", "bobal", "pw")
	dune, _ := db.AddBook("Dune", "SciFi", "Herbert", "")
	orwell, _ := db.AddBook("1984", "Fiction", "Orwell", "")

	db.CheckOutBook(alice, dune)
	db.CheckOutBook(bob, dune)
	db.CheckOutBook(alice, orwell)

	holders, err := db.CheckoutsForBook(dune)
	if err != nil {
		t.Fatalf("holders: %v", err)
	}
	if len(holders) != 2 {
		t.Fatalf("want 2 holders, got %d", len(holders))
	}
	due := now.Add(14 * 24 * time.Hour)
	for _, h := range holders {
		if !h.DueDate.Equal(due) {
			t.Fatalf("want due %v, got %v", due, h.DueDate)
		}
	}

	loans, err := db.CheckoutsForUser(alice)
	if err != nil {
		t.Fatalf("loans: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("want 2 loans, got %d", len(loans))
	}

	loans, _ = db.CheckoutsForUser(bob)
	if len(loans) != 1 || loans[0].Book.Title != "Dune" {
		t.Fatalf("unexpected loans for bob: %+v", loans)
	}
}

// TestDuneScenario walks the end-to-end circulation scenario: add, check out,
// verify the counter and due date, return, verify restoration.
func TestDuneScenario(t *testing.T) {
	db := tempDB(t)
	now := fixClock(t, db)

	userID, _ := db.RegisterUser("Jack", "Fraley", "jfraley", "secret")
	bookID, err := db.AddBook("Dune", "SciFi", "Herbert", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	book, _ := db.GetBook(bookID)
	if book.Available != 2 {
		t.Fatalf("want 2 copies, got %d", book.Available)
	}

	co, err := db.CheckOutBook(userID, bookID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	book, _ = db.GetBook(bookID)
	if book.Available != 1 {
		t.Fatalf("want 1 copy after checkout, got %d", book.Available)
	}
	if want := now.Add(14 * 24 * time.Hour); !co.DueDate.Equal(want) {
		t.Fatalf("due date: want %v, got %v", want, co.DueDate)
	}
	holders, _ := db.CheckoutsForBook(bookID)
	if len(holders) != 1 {
		t.Fatalf("want 1 checkout, got %d", len(holders))
	}

	if err := db.ReturnBook(userID, bookID); err != nil {
		t.Fatalf("return: %v", err)
	}
	book, _ = db.GetBook(bookID)
	if book.Available != 2 {
		t.Fatalf("want 2 copies after return, got %d", book.Available)
	}
	holders, _ = db.CheckoutsForBook(bookID)
	if len(holders) != 0 {
		t.Fatalf("want no checkouts after return, got %d", len(holders))
	}
}
