// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veg-briyani/vediq/internal/library"
	"github.com/Veg-briyani/vediq/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the corpus of source texts",
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a source text in the corpus",
	Long: `Add copies the file into the corpus books directory and records its
metadata. Re-adding a file with the same name is a no-op that returns the
stored record.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryAdd,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered source texts",
	RunE:  runLibraryList,
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	authority, err := authorityFromFlag(cmd)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")

	lib := library.New(cfg.Corpus.BaseDir)
	book, err := lib.Add(args[0], types.Book{
		Title:     title,
		Author:    author,
		Authority: authority,
	}, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("id: %s\ntitle: %s\nauthority: %s\n", book.ID, book.Title, book.Authority)
	return nil
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	lib := library.New(cfg.Corpus.BaseDir)

	books, err := lib.Books(os.Stderr)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Println("No books registered.")
		return nil
	}

	fmt.Printf("%-30s  %-35s  %-20s  %s\n", "ID", "Title", "Author", "Authority")
	for _, b := range books {
		fmt.Printf("%-30s  %-35s  %-20s  %s\n",
			clip(b.ID, 30), clip(b.Title, 35), clip(b.Author, 20), b.Authority)
	}
	fmt.Printf("\n%d books\n", len(books))
	return nil
}

func init() {
	libraryAddCmd.Flags().String("title", "", "book title (defaults to the filename)")
	libraryAddCmd.Flags().String("author", "", "book author")
	libraryAddCmd.Flags().String("authority", "", "authority level: classical, traditional, modern, or commentary")

	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	rootCmd.AddCommand(libraryCmd)
}
