package library

import (
	"database/sql"
	"fmt"
	"strings"
)

// AddBook inserts a catalog entry with the default copy count.
func (d *Database) AddBook(title, subject, author, details string) (int64, error) {
	res, err := d.addBookStmt.Exec(title, subject, author, details, defaultCopies)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return res.LastInsertId()
}

// GetBook fetches a single catalog entry.
func (d *Database) GetBook(id int64) (*Book, error) {
	var b Book
	err := d.db.QueryRow(
		`SELECT bookId, title, subject, author, details, available FROM books WHERE bookId = ?`,
		id,
	).Scan(&b.ID, &b.Title, &b.Subject, &b.Author, &b.Details, &b.Available)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// SearchBooks matches the term as a case-insensitive substring of title,
// subject, author, or details.
func (d *Database) SearchBooks(term string) ([]*Book, error) {
	pattern := "%" + term + "%"
	rows, err := d.db.Query(`
        SELECT bookId, title, subject, author, details, available FROM books
        WHERE title LIKE ? COLLATE NOCASE
           OR subject LIKE ? COLLATE NOCASE
           OR author LIKE ? COLLATE NOCASE
           OR details LIKE ? COLLATE NOCASE
        ORDER BY bookId`, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Subject, &b.Author, &b.Details, &b.Available); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// DeleteBook removes a catalog entry and its checkout rows. The caller is
// responsible for gating this behind root access.
func (d *Database) DeleteBook(id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM checkouts WHERE bookId = ?`, id); err != nil {
		return fmt.Errorf("clear checkouts: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM books WHERE bookId = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookNotFound
	}

	return tx.Commit()
}

// AdjustAvailability shifts a book's loanable-copy counter by delta, refusing
// any change that would take it below zero. The circulation ledger is the
// only intended caller.
func (d *Database) AdjustAvailability(bookID int64, delta int) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := adjustAvailabilityTx(tx, bookID, delta); err != nil {
		return err
	}
	return tx.Commit()
}

// adjustAvailabilityTx is the transaction-scoped form used by checkout and
// return so the counter moves atomically with the checkout row.
func adjustAvailabilityTx(tx *sql.Tx, bookID int64, delta int) error {
	var available int
	err := tx.QueryRow(`SELECT available FROM books WHERE bookId = ?`, bookID).Scan(&available)
	if err == sql.ErrNoRows {
		return ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("read availability: %w", err)
	}
	if available+delta < 0 {
		return ErrNegativeAvailability
	}

	if _, err := tx.Exec(`UPDATE books SET available = available + ? WHERE bookId = ?`, delta, bookID); err != nil {
		// The CHECK constraint backs up the guard above.
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return ErrNegativeAvailability
		}
		return fmt.Errorf("update availability: %w", err)
	}
	return nil
}
