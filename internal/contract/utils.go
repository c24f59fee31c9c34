package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/dealflow/schema"
)

// Color variables for console output.
var (
	AdvanceColor    = color.New(color.FgGreen, color.Bold) // AdvanceColor marks forward progress.
	RegressionColor = color.New(color.FgRed)               // RegressionColor marks a step back or sideways.
	HeaderColor     = color.New(color.FgCyan, color.Bold)  // HeaderColor highlights section headers.
)

// GetColorLabel returns a colored classification label for console output (table).
func GetColorLabel(c schema.Classification) string {
	if c == schema.Advance {
		return AdvanceColor.Sprint(string(c))
	}
	return RegressionColor.Sprint(string(c))
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs a progress message to stderr so stdout stays clean for results.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dealflow_cache.db"
	}
	return filepath.Join(homeDir, ".dealflow_cache.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive); empty means true.
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		profile.Enabled = false
		return nil
	}
	if dir := filepath.Dir(profilePrefix); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("profile directory %q is not accessible: %w", dir, err)
		}
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
