// Package security holds path validation helpers for code that derives
// file names from externally supplied identifiers.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that filePath stays inside safeDir
// once cleaned, rejecting traversal via .. components or absolute paths.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absSafeDir, err := filepath.Abs(filepath.Clean(safeDir))
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(absSafeDir, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes directory %q", filePath, safeDir)
	}
	return nil
}

// ValidateFileName checks that name is a bare file name with no path
// separators or traversal components.
func ValidateFileName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("file name %q must not contain path separators", name)
	}
	return nil
}
