package library

import "fmt"

// LibraryManager is a thin façade over the Database, keeping CLI code simple.
type LibraryManager struct {
	db *Database
}

// NewLibraryManager opens (or creates) the SQLite database at dbPath.
func NewLibraryManager(dbPath string) (*LibraryManager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &LibraryManager{db: db}, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error { return lm.db.Close() }

// UsePasswordScheme swaps the credential scheme before any accounts exist.
func (lm *LibraryManager) UsePasswordScheme(s PasswordScheme) { lm.db.UsePasswordScheme(s) }

// ------------------ Membership ------------------

func (lm *LibraryManager) RegisterUser(firstName, lastName, userName, password string) (int64, error) {
	return lm.db.RegisterUser(firstName, lastName, userName, password)
}

func (lm *LibraryManager) Authenticate(userName, password string) (*User, error) {
	return lm.db.Authenticate(userName, password)
}

func (lm *LibraryManager) GetUser(id int64) (*User, error)          { return lm.db.GetUser(id) }
func (lm *LibraryManager) SearchUsers(term string) ([]*User, error) { return lm.db.SearchUsers(term) }

func (lm *LibraryManager) SetAccess(userName string, level AccessLevel) error {
	return lm.db.SetAccess(userName, level)
}

func (lm *LibraryManager) DeleteUser(userName string) error { return lm.db.DeleteUser(userName) }

// ------------------ Catalog ------------------

func (lm *LibraryManager) AddBook(title, subject, author, details string) (int64, error) {
	return lm.db.AddBook(title, subject, author, details)
}

func (lm *LibraryManager) GetBook(id int64) (*Book, error)          { return lm.db.GetBook(id) }
func (lm *LibraryManager) SearchBooks(term string) ([]*Book, error) { return lm.db.SearchBooks(term) }
func (lm *LibraryManager) DeleteBook(id int64) error                { return lm.db.DeleteBook(id) }

// ------------------ Circulation ------------------

func (lm *LibraryManager) CheckOutBook(userID, bookID int64) (*Checkout, error) {
	return lm.db.CheckOutBook(userID, bookID)
}

func (lm *LibraryManager) ReturnBook(userID, bookID int64) error {
	return lm.db.ReturnBook(userID, bookID)
}

func (lm *LibraryManager) CheckoutsForBook(bookID int64) ([]*BookCheckout, error) {
	return lm.db.CheckoutsForBook(bookID)
}

func (lm *LibraryManager) CheckoutsForUser(userID int64) ([]*UserCheckout, error) {
	return lm.db.CheckoutsForUser(userID)
}

// ------------------ Access control ------------------

// Can reports whether a user may perform the action.
func (lm *LibraryManager) Can(u *User, action Action) bool {
	return CanPerform(u.Access, action)
}

// ------------------ Utilities ------------------

// PrettyBook formats a book for lists.
func PrettyBook(b *Book) string {
	return fmt.Sprintf("%-5d %-30s %-20s %-25s %-9d", b.ID, b.Title, b.Subject, b.Author, b.Available)
}

// PrettyUser formats a user for lists.
func PrettyUser(u *User) string {
	return fmt.Sprintf("%-5d %-15s %-15s %-20s %-8s", u.ID, u.FirstName, u.LastName, u.UserName, u.Access)
}
