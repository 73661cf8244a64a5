package library

import "time"

// AccessLevel is the permission tier attached to a user account.
type AccessLevel int

const (
	AccessRoot     AccessLevel = 1
	AccessStandard AccessLevel = 2
)

func (a AccessLevel) String() string {
	switch a {
	case AccessRoot:
		return "Root"
	case AccessStandard:
		return "Standard"
	default:
		return "Unknown"
	}
}

// User is a registered account. Password holds whatever the active
// PasswordScheme stored; nothing outside the scheme interprets it.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	UserName  string
	Password  string
	Access    AccessLevel
}

// Book represents a catalog entry. Available counts the copies currently
// loanable and never goes below zero.
type Book struct {
	ID        int64
	Title     string
	Subject   string
	Author    string
	Details   string
	Available int
}

// Checkout is an active loan linking one user to one book copy.
type Checkout struct {
	ID           int64
	UserID       int64
	BookID       int64
	CheckoutDate time.Time
	DueDate      time.Time
}

// BookCheckout is a holder of a given book, for root-level listings.
type BookCheckout struct {
	User    User
	DueDate time.Time
}

// UserCheckout is a book held by a given user.
type UserCheckout struct {
	Book    Book
	DueDate time.Time
}
