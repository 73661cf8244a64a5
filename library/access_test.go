package library

import "testing"

func TestCanPerform(t *testing.T) {
	allActions := []Action{
		ActionAddBook, ActionDeleteBook, ActionViewCheckoutHolders,
		ActionEditUser, ActionSetAccess, ActionDeleteUser,
		ActionCheckOut, ActionReturnBook, ActionSearchBooks,
	}

	// Root may do everything.
	for _, a := range allActions {
		if !CanPerform(AccessRoot, a) {
			t.Fatalf("root denied action %d", a)
		}
	}

	tests := []struct {
		action Action
		want   bool
	}{
		{ActionCheckOut, true},
		{ActionReturnBook, true},
		{ActionSearchBooks, true},
		{ActionAddBook, false},
		{ActionDeleteBook, false},
		{ActionViewCheckoutHolders, false},
		{ActionEditUser, false},
		{ActionSetAccess, false},
		{ActionDeleteUser, false},
	}
	for _, tt := range tests {
		if got := CanPerform(AccessStandard, tt.action); got != tt.want {
			t.Fatalf("standard action %d: want %v, got %v", tt.action, tt.want, got)
		}
	}

	// Unknown levels are denied everything.
	if CanPerform(AccessLevel(0), ActionSearchBooks) {
		t.Fatalf("unknown access level should be denied")
	}
}
