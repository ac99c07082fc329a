package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var osExit = os.Exit

// dbPath is the comment database used by the comments commands.
var dbPath = "data/comments"

// SetDBPath points the comments commands at the configured database.
func SetDBPath(path string) {
	if path != "" {
		dbPath = path
	}
}

// backupDir is where backups go when no file is named.
func backupDir() string {
	return filepath.Join(filepath.Dir(dbPath), "backups")
}

// confirm asks a yes/no question on stdin; anything but y/Y is no.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Scanln(&response)
	return strings.EqualFold(strings.TrimSpace(response), "y")
}
