// Package config loads printdir configuration files and the per-directory ignore file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/printdir/internal/utils"
)

const (
	// ignoreSectionHeader identifies the section listing names to exclude.
	ignoreSectionHeader = "[ignore]"
	// noContentSectionHeader identifies the section listing directories rendered without contents.
	noContentSectionHeader = "[no-content]"
	commentPrefix          = "#"
)

// IgnoreFileNames holds the names read from an ignore file.
type IgnoreFileNames struct {
	Ignore    []string
	NoContent []string
}

// LoadIgnoreFile reads the ignore file at ignoreFilePath.
// Lines before any section header belong to the [ignore] section. A missing file yields no names.
//
// #nosec G304
func LoadIgnoreFile(ignoreFilePath string) (IgnoreFileNames, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return IgnoreFileNames{}, nil
		}
		return IgnoreFileNames{}, fmt.Errorf("open %s: %w", ignoreFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var names IgnoreFileNames
	currentSectionHeader := ignoreSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.EqualFold(trimmedLine, noContentSectionHeader) {
			currentSectionHeader = noContentSectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, ignoreSectionHeader) {
			currentSectionHeader = ignoreSectionHeader
			continue
		}
		if currentSectionHeader == noContentSectionHeader {
			names.NoContent = append(names.NoContent, trimmedLine)
			continue
		}
		names.Ignore = append(names.Ignore, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnoreFileNames{}, fmt.Errorf("read %s: %w", ignoreFilePath, scanError)
	}
	names.Ignore = utils.DeduplicatePatterns(names.Ignore)
	names.NoContent = utils.DeduplicatePatterns(names.NoContent)
	return names, nil
}
