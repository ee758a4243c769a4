package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If CHRONICLE_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.chronicle/logs/chronicle.log
func GetLogFilePath() string {
	if customPath := os.Getenv("CHRONICLE_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "chronicle.log"
	}

	return filepath.Join(homeDir, ".chronicle", "logs", "chronicle.log")
}
