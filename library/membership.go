package library

import (
	"database/sql"
	"fmt"
	"strings"
)

// RegisterUser creates a standard-access account and returns its id.
// Every field is required; usernames collide case-insensitively.
func (d *Database) RegisterUser(firstName, lastName, userName, password string) (int64, error) {
	if firstName == "" || lastName == "" || userName == "" || password == "" {
		return 0, ErrMissingField
	}

	stored, err := d.passwords.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	res, err := d.addUserStmt.Exec(firstName, lastName, userName, stored, AccessStandard)
	if err != nil {
		// The userName column is UNIQUE COLLATE NOCASE, so the constraint
		// catches collisions in any letter case.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateUserName
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

// Authenticate resolves a username case-insensitively and verifies the
// password through the active scheme. Both failure modes report the same
// error so login attempts cannot probe for valid usernames.
func (d *Database) Authenticate(userName, password string) (*User, error) {
	var u User
	err := d.db.QueryRow(
		`SELECT userId, firstName, lastName, userName, password, access FROM users WHERE userName = ?`,
		userName,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.UserName, &u.Password, &u.Access)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !d.passwords.Verify(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// GetUser fetches a single account by id.
func (d *Database) GetUser(id int64) (*User, error) {
	var u User
	err := d.db.QueryRow(
		`SELECT userId, firstName, lastName, userName, password, access FROM users WHERE userId = ?`,
		id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.UserName, &u.Password, &u.Access)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SearchUsers matches the term as a case-insensitive substring of first name,
// last name, or username.
func (d *Database) SearchUsers(term string) ([]*User, error) {
	pattern := "%" + term + "%"
	rows, err := d.db.Query(`
        SELECT userId, firstName, lastName, userName, password, access FROM users
        WHERE firstName LIKE ? COLLATE NOCASE
           OR lastName LIKE ? COLLATE NOCASE
           OR userName LIKE ? COLLATE NOCASE
        ORDER BY userId`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.UserName, &u.Password, &u.Access); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// SetAccess changes an account's access level, matching the username
// case-insensitively.
func (d *Database) SetAccess(userName string, level AccessLevel) error {
	res, err := d.db.Exec(`UPDATE users SET access = ? WHERE userName = ?`, level, userName)
	if err != nil {
		return fmt.Errorf("set access: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes an account. Any books the user still has out are
// returned in the same transaction so availability counters stay honest.
func (d *Database) DeleteUser(userName string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRow(`SELECT userId FROM users WHERE userName = ?`, userName).Scan(&userID)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	if _, err := tx.Exec(`
        UPDATE books SET available = available + 1
        WHERE bookId IN (SELECT bookId FROM checkouts WHERE userId = ?)`, userID); err != nil {
		return fmt.Errorf("restore availability: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM checkouts WHERE userId = ?`, userID); err != nil {
		return fmt.Errorf("clear checkouts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE userId = ?`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return tx.Commit()
}
