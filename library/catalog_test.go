package library

import (
	"errors"
	"testing"
)

func TestAddBookDefaults(t *testing.T) {
	db := tempDB(t)

	id, err := db.AddBook("Dune", "SciFi", "Herbert", "Desert planet epic")
	if err != nil {
		t.Fatalf("add book: %v", err)
	}

	book, err := db.GetBook(id)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if book.Available != defaultCopies {
		t.Fatalf("want %d copies, got %d", defaultCopies, book.Available)
	}
	if book.Title != "Dune" || book.Subject != "SciFi" || book.Author != "Herbert" {
		t.Fatalf("unexpected book: %+v", book)
	}
}

func TestGetBookNotFound(t *testing.T) {
	db := tempDB(t)
	if _, err := db.GetBook(99999); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("want ErrBookNotFound, got %v", err)
	}
}

func TestSearchBooksAllFields(t *testing.T) {
	db := tempDB(t)

	db.AddBook("Dune", "SciFi", "Frank Herbert", "Desert planet epic")
	db.AddBook("1984", "Fiction", "George Orwell", "Surveillance state")
	db.AddBook("The Art of War", "Strategy", "Sun Tzu", "Ancient treatise")

	// One query per searchable column, all case-insensitive.
	for _, term := range []string{"dune", "SCIFI", "herbert", "desert PLANET"} {
		books, err := db.SearchBooks(term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(books) != 1 || books[0].Title != "Dune" {
			t.Fatalf("search %q: want Dune, got %+v", term, books)
		}
	}

	books, _ := db.SearchBooks("a")
	if len(books) != 3 {
		t.Fatalf("broad search: want 3, got %d", len(books))
	}

	books, _ = db.SearchBooks("hobbits")
	if len(books) != 0 {
		t.Fatalf("want no matches, got %d", len(books))
	}
}

func TestDeleteBook(t *testing.T) {
	db := tempDB(t)
	id, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	if err := db.DeleteBook(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetBook(id); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("book still present after delete")
	}
	if err := db.DeleteBook(id); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("want ErrBookNotFound, got %v", err)
	}
}

func TestDeleteBookClearsCheckouts(t *testing.T) {
	db := tempDB(t)
	userID, _ := db.RegisterUser("Jack", "Fraley", "jfraley", "secret")
	bookID, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	if _, err := db.CheckOutBook(userID, bookID); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if err := db.DeleteBook(bookID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	loans, err := db.CheckoutsForUser(userID)
	if err != nil {
		t.Fatalf("list checkouts: %v", err)
	}
	if len(loans) != 0 {
		t.Fatalf("checkout rows should be gone, got %d", len(loans))
	}
}

func TestAdjustAvailability(t *testing.T) {
	db := tempDB(t)
	id, _ := db.AddBook("Dune", "SciFi", "Herbert", "")

	if err := db.AdjustAvailability(id, -2); err != nil {
		t.Fatalf("adjust to zero: %v", err)
	}
	book, _ := db.GetBook(id)
	if book.Available != 0 {
		t.Fatalf("want 0, got %d", book.Available)
	}

	// The floor is zero.
	if err := db.AdjustAvailability(id, -1); !errors.Is(err, ErrNegativeAvailability) {
		t.Fatalf("want ErrNegativeAvailability, got %v", err)
	}
	book, _ = db.GetBook(id)
	if book.Available != 0 {
		t.Fatalf("rejected adjustment changed the counter: %d", book.Available)
	}

	if err := db.AdjustAvailability(id, 5); err != nil {
		t.Fatalf("adjust up: %v", err)
	}
	book, _ = db.GetBook(id)
	if book.Available != 5 {
		t.Fatalf("want 5, got %d", book.Available)
	}

	if err := db.AdjustAvailability(99999, 1); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("want ErrBookNotFound, got %v", err)
	}
}
