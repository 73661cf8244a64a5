package library

import (
	"database/sql"
	"fmt"
	"strings"
)

// CheckOutBook lends one copy of a book to a user. The checkout row and the
// availability decrement commit together or not at all.
//
// A user can hold at most one active checkout per book; a second attempt
// fails with ErrAlreadyCheckedOut instead of silently stacking loans.
func (d *Database) CheckOutBook(userID, bookID int64) (*Checkout, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var available int
	err = tx.QueryRow(`SELECT available FROM books WHERE bookId = ?`, bookID).Scan(&available)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read availability: %w", err)
	}
	if available <= 0 {
		return nil, ErrBookUnavailable
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM checkouts WHERE userId=? AND bookId=?)`, userID, bookID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check active checkout: %w", err)
	}
	if exists {
		return nil, ErrAlreadyCheckedOut
	}

	checkoutDate := d.now()
	dueDate := checkoutDate.Add(loanPeriod)

	res, err := tx.Exec(
		`INSERT INTO checkouts(userId, bookId, checkoutDate, dueDate) VALUES(?,?,?,?)`,
		userID, bookID, formatDate(checkoutDate), formatDate(dueDate),
	)
	if err != nil {
		// UNIQUE(userId,bookId) backs up the existence check above.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrAlreadyCheckedOut
		}
		return nil, fmt.Errorf("insert checkout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := adjustAvailabilityTx(tx, bookID, -1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &Checkout{
		ID:           id,
		UserID:       userID,
		BookID:       bookID,
		CheckoutDate: checkoutDate,
		DueDate:      dueDate,
	}, nil
}

// ReturnBook ends the (user, book) loan: the checkout row is deleted and the
// availability counter incremented in one transaction.
func (d *Database) ReturnBook(userID, bookID int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var checkoutID int64
	err = tx.QueryRow(
		`SELECT checkoutId FROM checkouts WHERE userId = ? AND bookId = ?`,
		userID, bookID,
	).Scan(&checkoutID)
	if err == sql.ErrNoRows {
		return ErrNoActiveCheckout
	}
	if err != nil {
		return fmt.Errorf("find checkout: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM checkouts WHERE checkoutId = ?`, checkoutID); err != nil {
		return fmt.Errorf("delete checkout: %w", err)
	}
	if err := adjustAvailabilityTx(tx, bookID, +1); err != nil {
		return err
	}

	return tx.Commit()
}

// CheckoutsForBook lists who currently holds copies of a book, with due
// dates, for the root-level detail view.
func (d *Database) CheckoutsForBook(bookID int64) ([]*BookCheckout, error) {
	rows, err := d.db.Query(`
        SELECT u.userId, u.firstName, u.lastName, u.userName, u.access, c.dueDate
        FROM checkouts c
        JOIN users u ON u.userId = c.userId
        WHERE c.bookId = ?
        ORDER BY c.checkoutDate, c.checkoutId`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list holders: %w", err)
	}
	defer rows.Close()

	var holders []*BookCheckout
	for rows.Next() {
		var h BookCheckout
		var due string
		if err := rows.Scan(&h.User.ID, &h.User.FirstName, &h.User.LastName, &h.User.UserName, &h.User.Access, &due); err != nil {
			return nil, err
		}
		if h.DueDate, err = parseDate(due); err != nil {
			return nil, err
		}
		holders = append(holders, &h)
	}
	return holders, rows.Err()
}

// CheckoutsForUser lists the books a user currently has out, with due dates.
func (d *Database) CheckoutsForUser(userID int64) ([]*UserCheckout, error) {
	rows, err := d.db.Query(`
        SELECT b.bookId, b.title, b.subject, b.author, b.details, b.available, c.dueDate
        FROM checkouts c
        JOIN books b ON b.bookId = c.bookId
        WHERE c.userId = ?
        ORDER BY c.checkoutDate, c.checkoutId`, userID)
	if err != nil {
		return nil, fmt.Errorf("list checkouts: %w", err)
	}
	defer rows.Close()

	var loans []*UserCheckout
	for rows.Next() {
		var l UserCheckout
		var due string
		if err := rows.Scan(&l.Book.ID, &l.Book.Title, &l.Book.Subject, &l.Book.Author, &l.Book.Details, &l.Book.Available, &due); err != nil {
			return nil, err
		}
		if l.DueDate, err = parseDate(due); err != nil {
			return nil, err
		}
		loans = append(loans, &l)
	}
	return loans, rows.Err()
}
