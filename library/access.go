package library

// Action enumerates everything a session can ask the stores to do.
type Action int

const (
	ActionAddBook Action = iota
	ActionDeleteBook
	ActionViewCheckoutHolders
	ActionEditUser
	ActionSetAccess
	ActionDeleteUser
	ActionCheckOut
	ActionReturnBook
	ActionSearchBooks
)

var standardActions = map[Action]bool{
	ActionCheckOut:    true,
	ActionReturnBook:  true,
	ActionSearchBooks: true,
}

// CanPerform reports whether the given access level permits the action.
// Root may do everything; standard users only circulate and search.
func CanPerform(level AccessLevel, action Action) bool {
	switch level {
	case AccessRoot:
		return true
	case AccessStandard:
		return standardActions[action]
	default:
		return false
	}
}
