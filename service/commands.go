package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"postboard/app/repositories"
)

// HandleCommand handles comments subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printCommentsHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "clean":
		clean()
		return 0
	case "stats":
		return stats()
	case "backup":
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		return backup(target)
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(args[1])
	case "help":
		printCommentsHelp()
		return 0
	default:
		fmt.Printf("Unknown comments command: %s\n\n", cmd)
		printCommentsHelp()
		osExit(1)
		return 1
	}
}

// printCommentsHelp prints help for comments subcommands.
func printCommentsHelp() {
	helpText := `Usage: postboard comments

Commands:
  stats                           Show how many local comments each post has
  clean                           Delete every local comment
  backup [file]                   Create a backup of the comment database
  restore <file>                  Restore the comment database from a backup
  help                            Display this help message
`
	fmt.Println(helpText)
}

func dbExists() bool {
	_, err := os.Stat(dbPath)
	return err == nil
}

// clean removes the database.
func clean() {
	if !dbExists() {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	if !confirm("Are you sure you want to delete every local comment? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// stats prints the local comment count of every post that has any.
func stats() int {
	if !dbExists() {
		fmt.Println("No local comments")
		return 0
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	counts, err := repo.CountByPost()
	if err != nil {
		fmt.Printf("Failed to read database: %v\n", err)
		return 1
	}
	if len(counts) == 0 {
		fmt.Println("No local comments")
		return 0
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Printf("post %d: %d comments\n", id, counts[id])
	}
	return 0
}

// backup writes a backup of the database to target, or to a timestamped file
// next to the database when target is empty.
func backup(target string) int {
	if !dbExists() {
		fmt.Println("No database exists to backup")
		return 1
	}

	if target == "" {
		target = filepath.Join(backupDir(), fmt.Sprintf("comments_%d.bak", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	f, err := os.Create(target)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := repo.Backup(f); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", target)
	return 0
}

// restore restores the database from a backup.
func restore(backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if dbExists() {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return repo.Restore(f)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}
