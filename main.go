package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"booklook/library"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// maxAttempts bounds every re-prompt loop so bad input can never spin the
// session forever.
const maxAttempts = 3

// config is read once from the environment at startup; the --db flag
// overrides the database path.
type config struct {
	DBPath string `env:"BOOKLOOK_DB" envDefault:"books.db"`
	Bcrypt bool   `env:"BOOKLOOK_BCRYPT"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "booklook",
		Short: "Library catalog and circulation manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cfg)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// session holds everything the interactive loop needs: the store façade, the
// input scanner, a structured log tagged with the session id, and the user
// once authenticated.
type session struct {
	mgr  *library.LibraryManager
	sc   *bufio.Scanner
	log  *slog.Logger
	user *library.User
}

func runSession(cfg config) error {
	mgr, err := library.NewLibraryManager(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer mgr.Close()

	if cfg.Bcrypt {
		mgr.UsePasswordScheme(library.BcryptScheme{})
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("session_id", uuid.NewString())
	logger.Info("session started", "db", cfg.DBPath)

	s := &session{
		mgr: mgr,
		sc:  bufio.NewScanner(os.Stdin),
		log: logger,
	}

	for s.loginMenu() {
		if !s.commandLoop() {
			break
		}
		s.user = nil
	}
	logger.Info("session ended")
	return nil
}

// readLine prompts and returns the trimmed next input line. ok is false once
// stdin is closed.
func (s *session) readLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// readPassword reads a password with terminal echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

// ---------------------------------------------------------------------------
// Login state machine
// ---------------------------------------------------------------------------

// loginMenu runs until a user is authenticated (true) or the session should
// end (false).
func (s *session) loginMenu() bool {
	for {
		fmt.Println("\nPlease Login:")
		fmt.Println("1. Sign In")
		fmt.Println("2. Sign Up")
		fmt.Println("3. Quit")

		choice, ok := s.readLine("\nSelection: ")
		if !ok {
			return false
		}
		switch choice {
		case "1":
			if s.signIn() {
				return true
			}
		case "2":
			if s.signUp() && s.signIn() {
				return true
			}
		case "3":
			return false
		default:
			fmt.Println("Invalid input")
		}
	}
}

func (s *session) signIn() bool {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		userName, ok := s.readLine("\nUserName: ")
		if !ok {
			return false
		}
		password, err := readPassword("Password: ")
		if err != nil {
			fmt.Printf("Error reading password: %v\n", err)
			return false
		}

		user, err := s.mgr.Authenticate(userName, password)
		if err == nil {
			s.user = user
			s.log.Info("login", "user_id", user.ID, "access", user.Access.String())
			fmt.Printf("\nSuccessfully logged in %s (%d)\n", user.FirstName, user.ID)
			return true
		}
		if errors.Is(err, library.ErrInvalidCredentials) {
			s.log.Warn("login failed", "username", userName)
			fmt.Println("Incorrect login info.")
			continue
		}
		s.log.Error("login error", "error", err)
		fmt.Printf("Error: %v\n", err)
		return false
	}
	return false
}

func (s *session) signUp() bool {
	fmt.Println("\nPlease enter account info:")
	firstName, ok := s.readLine("First Name: ")
	if !ok {
		return false
	}
	lastName, ok := s.readLine("Last Name: ")
	if !ok {
		return false
	}
	userName, ok := s.readLine("UserName: ")
	if !ok {
		return false
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}

	id, err := s.mgr.RegisterUser(firstName, lastName, userName, password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	s.log.Info("user registered", "user_id", id)
	fmt.Println("Account created. Please sign in.")
	return true
}

// ---------------------------------------------------------------------------
// Command loop
// ---------------------------------------------------------------------------

// commandLoop dispatches commands for the authenticated user. It returns
// true on logout (back to the login menu) and false when the session should
// end entirely.
func (s *session) commandLoop() bool {
	for {
		fmt.Println("\nWhat would you like to do?")
		fmt.Println("  search book")
		fmt.Println("  my books")
		if s.mgr.Can(s.user, library.ActionAddBook) {
			fmt.Println("  add book")
		}
		if s.mgr.Can(s.user, library.ActionEditUser) {
			fmt.Println("  lookup user")
		}
		fmt.Println("  logout")
		fmt.Println("  exit")

		cmd, ok := s.readLine("\n> ")
		if !ok {
			return false
		}
		s.log.Info("command", "cmd", cmd, "user_id", s.user.ID)

		switch cmd {
		case "search book":
			if !s.require(library.ActionSearchBooks) {
				continue
			}
			s.handleSearchBook()
		case "my books":
			s.handleMyBooks()
		case "add book":
			if !s.require(library.ActionAddBook) {
				continue
			}
			s.handleAddBook()
		case "lookup user":
			if !s.require(library.ActionEditUser) {
				continue
			}
			s.handleLookupUser()
		case "logout":
			s.log.Info("logout", "user_id", s.user.ID)
			return true
		case "exit":
			s.log.Info("exit", "user_id", s.user.ID)
			fmt.Println("Goodbye!")
			return false
		default:
			fmt.Println("Unknown command. Type one of the commands listed above.")
		}
	}
}

// require gates an action on the logged-in user's access level.
func (s *session) require(action library.Action) bool {
	if s.mgr.Can(s.user, action) {
		return true
	}
	fmt.Printf("Error: %v\n", library.ErrPermissionDenied)
	return false
}

// pickNumber prompts for a 1-based selection into a list of n items and
// returns the 0-based index.
func (s *session) pickNumber(n int) (int, bool) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, ok := s.readLine(fmt.Sprintf("\nEnter desired number (1-%d): ", n))
		if !ok {
			return 0, false
		}
		idx, err := strconv.Atoi(line)
		if err == nil && idx >= 1 && idx <= n {
			return idx - 1, true
		}
		fmt.Println("Invalid input")
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Book commands
// ---------------------------------------------------------------------------

func (s *session) handleAddBook() {
	title, ok := s.readLine("Title: ")
	if !ok {
		return
	}
	subject, ok := s.readLine("Subject: ")
	if !ok {
		return
	}
	author, ok := s.readLine("Author: ")
	if !ok {
		return
	}
	details, ok := s.readLine("Description: ")
	if !ok {
		return
	}

	id, err := s.mgr.AddBook(title, subject, author, details)
	if err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Printf("Added book ID %d\n", id)
}

func (s *session) handleSearchBook() {
	term, ok := s.readLine("Search: ")
	if !ok {
		return
	}

	books, err := s.mgr.SearchBooks(term)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Printf("No books found matching '%s'.\n", term)
		return
	}

	fmt.Println("\nBooks found:")
	fmt.Printf("%-5s %-5s %-30s %-20s %-25s %-9s\n", "No.", "ID", "Title", "Subject", "Author", "Available")
	fmt.Println(strings.Repeat("-", 100))
	for i, b := range books {
		fmt.Printf("%-5d %s\n", i+1, library.PrettyBook(b))
	}

	idx, ok := s.pickNumber(len(books))
	if !ok {
		return
	}
	s.bookDetail(books[idx].ID)
}

func (s *session) bookDetail(bookID int64) {
	book, err := s.mgr.GetBook(bookID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("\nDetails for %s:\n", book.Title)
	fmt.Printf("Subject: %s\n", orNone(book.Subject))
	fmt.Printf("Author: %s\n", orNone(book.Author))
	fmt.Printf("Description: %s\n", orNone(book.Details))
	fmt.Printf("Available: %d\n", book.Available)

	if s.mgr.Can(s.user, library.ActionViewCheckoutHolders) {
		holders, err := s.mgr.CheckoutsForBook(book.ID)
		if err != nil {
			fmt.Printf("Error listing holders: %v\n", err)
		} else if len(holders) == 0 {
			fmt.Println("No users have checked out this book.")
		} else {
			fmt.Println("Checked out to:")
			for i, h := range holders {
				fmt.Printf("%d. %s, %s (due %s)\n", i+1, h.User.LastName, h.User.FirstName, h.DueDate.Format("2006-01-02"))
			}
		}
	}

	fmt.Println("\nOptions:")
	fmt.Println("1. Check Out Book")
	fmt.Println("2. Return Book")
	if s.mgr.Can(s.user, library.ActionDeleteBook) {
		fmt.Println("3. Delete Book")
	}
	fmt.Println("4. Cancel")

	for attempt := 0; attempt < maxAttempts; attempt++ {
		action, ok := s.readLine("\nEnter the action: ")
		if !ok {
			return
		}
		switch action {
		case "1":
			if !s.require(library.ActionCheckOut) {
				return
			}
			co, err := s.mgr.CheckOutBook(s.user.ID, book.ID)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			s.log.Info("checkout", "user_id", s.user.ID, "book_id", book.ID)
			fmt.Printf("Checked out '%s', due %s\n", book.Title, co.DueDate.Format("2006-01-02"))
			return
		case "2":
			if !s.require(library.ActionReturnBook) {
				return
			}
			if err := s.mgr.ReturnBook(s.user.ID, book.ID); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			s.log.Info("return", "user_id", s.user.ID, "book_id", book.ID)
			fmt.Printf("Returned '%s'\n", book.Title)
			return
		case "3":
			if !s.require(library.ActionDeleteBook) {
				return
			}
			if err := s.mgr.DeleteBook(book.ID); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			s.log.Info("book deleted", "book_id", book.ID)
			fmt.Printf("Deleted '%s'\n", book.Title)
			return
		case "4":
			fmt.Println("Action has been cancelled")
			return
		default:
			fmt.Println("Invalid input")
		}
	}
}

func (s *session) handleMyBooks() {
	loans, err := s.mgr.CheckoutsForUser(s.user.ID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Println("No books checked out")
		return
	}
	fmt.Println("Books checked out:")
	for i, l := range loans {
		fmt.Printf("%d. %s by %s (due %s)\n", i+1, l.Book.Title, l.Book.Author, l.DueDate.Format("2006-01-02"))
	}
}

// ---------------------------------------------------------------------------
// User commands (root)
// ---------------------------------------------------------------------------

func (s *session) handleLookupUser() {
	term, ok := s.readLine("Search users by name: ")
	if !ok {
		return
	}

	users, err := s.mgr.SearchUsers(term)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return
	}

	fmt.Println("\nUsers found:")
	fmt.Printf("%-5s %-5s %-15s %-15s %-20s %-8s\n", "No.", "ID", "First", "Last", "UserName", "Access")
	fmt.Println(strings.Repeat("-", 75))
	for i, u := range users {
		fmt.Printf("%-5d %s\n", i+1, library.PrettyUser(u))
	}

	idx, ok := s.pickNumber(len(users))
	if !ok {
		return
	}
	s.userDetail(users[idx])
}

func (s *session) userDetail(user *library.User) {
	fmt.Printf("\nDetails for %s, %s:\n", user.LastName, user.FirstName)
	fmt.Printf("UserName: %s\n", user.UserName)
	fmt.Printf("Access: %s\n", user.Access)

	loans, err := s.mgr.CheckoutsForUser(user.ID)
	if err != nil {
		fmt.Printf("Error listing checkouts: %v\n", err)
	} else if len(loans) == 0 {
		fmt.Println("No books checked out")
	} else {
		fmt.Println("Books checked out:")
		for i, l := range loans {
			fmt.Printf("%d. %s by %s (due %s)\n", i+1, l.Book.Title, l.Book.Author, l.DueDate.Format("2006-01-02"))
		}
	}

	fmt.Println("\nOptions:")
	fmt.Println("1. Delete User")
	fmt.Println("2. Change Access")
	fmt.Println("3. Cancel")

	for attempt := 0; attempt < maxAttempts; attempt++ {
		action, ok := s.readLine("\nEnter the action: ")
		if !ok {
			return
		}
		switch action {
		case "1":
			if !s.require(library.ActionDeleteUser) {
				return
			}
			if err := s.mgr.DeleteUser(user.UserName); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			s.log.Info("user deleted", "user_id", user.ID)
			fmt.Printf("%s deleted successfully\n", user.UserName)
			return
		case "2":
			if !s.require(library.ActionSetAccess) {
				return
			}
			s.changeAccess(user.UserName)
			return
		case "3":
			fmt.Println("Action has been cancelled")
			return
		default:
			fmt.Println("Invalid input")
		}
	}
}

func (s *session) changeAccess(userName string) {
	fmt.Println("Enter the new access level:")
	fmt.Println("1. Root")
	fmt.Println("2. Standard")

	for attempt := 0; attempt < maxAttempts; attempt++ {
		choice, ok := s.readLine("Selection: ")
		if !ok {
			return
		}
		var level library.AccessLevel
		switch choice {
		case "1":
			level = library.AccessRoot
		case "2":
			level = library.AccessStandard
		default:
			fmt.Println("Invalid input")
			continue
		}
		if err := s.mgr.SetAccess(userName, level); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		s.log.Info("access changed", "username", userName, "access", level.String())
		fmt.Printf("Access level updated to %s for %s\n", level, userName)
		return
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
