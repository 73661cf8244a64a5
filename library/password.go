package library

import "golang.org/x/crypto/bcrypt"

// PasswordScheme isolates credential storage so hashing can be swapped in
// without touching the membership model.
type PasswordScheme interface {
	Hash(plain string) (string, error)
	Verify(stored, plain string) bool
}

// PlainScheme stores credentials verbatim and compares them case-sensitively.
// It matches the legacy database contents and is the default.
type PlainScheme struct{}

func (PlainScheme) Hash(plain string) (string, error) { return plain, nil }

func (PlainScheme) Verify(stored, plain string) bool { return stored == plain }

// BcryptScheme stores bcrypt hashes. Databases written with one scheme are
// not readable with the other.
type BcryptScheme struct{}

func (BcryptScheme) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (BcryptScheme) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
