package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"booklook/library"
)

// Seeds a fresh database with a root account and a starter catalog. Intended
// for demos and local development; it wipes any existing database first.
func main() {
	dbPath := flag.String("db", "books.db", "path to the SQLite database")
	rootPassword := flag.String("root-password", "root", "password for the seeded root account")
	flag.Parse()

	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	dbFiles := []string{*dbPath, *dbPath + "-shm", *dbPath + "-wal"}
	for _, file := range dbFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	manager, err := library.NewLibraryManager(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	rootID, err := manager.RegisterUser("Library", "Admin", "root", *rootPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating root account: %v\n", err)
		os.Exit(1)
	}
	if err := manager.SetAccess("root", library.AccessRoot); err != nil {
		fmt.Fprintf(os.Stderr, "Error promoting root account: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created root account (ID: %d)\n", rootID)

	catalog := []struct {
		title, subject, author, details string
	}{
		{"1984", "Fiction", "George Orwell", "Dystopian classic about surveillance and control."},
		{"Animal Farm", "Fiction", "George Orwell", "A farmyard allegory of revolution gone wrong."},
		{"The Diary of a Young Girl", "History", "Anne Frank", "Wartime diary written in hiding."},
		{"The Art of War", "Strategy", "Sun Tzu", "Ancient treatise on strategy and conflict."},
		{"The Fellowship of the Ring", "Fantasy", "J.R.R. Tolkien", "First volume of The Lord of the Rings."},
		{"The Two Towers", "Fantasy", "J.R.R. Tolkien", "Second volume of The Lord of the Rings."},
		{"The Return of the King", "Fantasy", "J.R.R. Tolkien", "Final volume of The Lord of the Rings."},
		{"Romeo and Juliet", "Drama", "William Shakespeare", "Tragedy of two star-crossed lovers."},
		{"The Three Musketeers", "Adventure", "Alexandre Dumas", "Swashbuckling adventure in 17th-century France."},
		{"Dune", "SciFi", "Frank Herbert", "Desert-planet epic of politics and prophecy."},
	}

	fmt.Println("\nSeeding catalog...")
	successCount := 0
	errorCount := 0

	for _, entry := range catalog {
		fmt.Printf("Adding: %s by %s... ", entry.title, entry.author)
		bookID, err := manager.AddBook(entry.title, entry.subject, entry.author, entry.details)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %d)\n", bookID)
		successCount++
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Books added: %d\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nCatalog:")
		books, err := manager.SearchBooks("")
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
			return
		}
		fmt.Printf("%-5s %-30s %-20s %-25s %-9s\n", "ID", "Title", "Subject", "Author", "Available")
		fmt.Println(strings.Repeat("-", 95))
		for _, book := range books {
			fmt.Println(library.PrettyBook(book))
		}
	}
}
