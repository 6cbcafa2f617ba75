// Package tree renders the directory tree of a root directory as ordered, prefixed lines.
package tree

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	levelConnector = "│   "
	blankConnector = "    "
	middleBranch   = "├─ "
	lastBranch     = "└─ "
)

// Order selects how siblings are arranged within their group.
type Order string

const (
	// OrderName lists directories and then files, each group sorted by name.
	OrderName Order = "name"
	// OrderLegacy lists directories in reverse name order followed by files in name order.
	OrderLegacy Order = "legacy"
)

// UnlimitedDepth disables the depth bound.
const UnlimitedDepth = -1

// Entry is one item listed from a directory.
type Entry struct {
	Name        string
	Path        string
	IsDirectory bool
}

// Line is a single rendered line of the tree.
type Line struct {
	Depth       int
	Prefix      string
	Name        string
	Path        string
	IsDirectory bool
}

// String returns the line as it is printed.
func (line Line) String() string {
	return line.Prefix + line.Name
}

// Options configures a Render call.
type Options struct {
	// Root is the directory whose contents are rendered.
	Root string
	// DisplayName labels the first line. The base name of Root is used when empty.
	DisplayName string
	// MaxDepth bounds the rendered depth; a negative value means unlimited.
	MaxDepth int
	Policy   IgnorePolicy
	Order    Order
	// Warn receives errors for subdirectories that could not be listed.
	Warn func(error)
}

type treeWalker struct {
	options Options
	handler func(Line) error
}

// Render walks options.Root depth first and passes every line to handler in output order.
// The first line is the root label. A root that cannot be listed yields a *TraversalError;
// nested directories that cannot be listed are reported through options.Warn and skipped.
// An error returned by handler stops the walk and is returned unchanged.
func Render(options Options, handler func(Line) error) error {
	if handler == nil {
		return errors.New(errorNilHandlerMessage)
	}
	if options.Root == "" {
		return errors.New(errorEmptyRootMessage)
	}
	walker := treeWalker{options: options, handler: handler}
	if walker.options.Warn == nil {
		walker.options.Warn = func(error) {}
	}

	rootEntries, listError := walker.listEntries(options.Root)
	if listError != nil {
		return listError
	}

	displayName := options.DisplayName
	if displayName == "" {
		displayName = filepath.Base(filepath.Clean(options.Root))
	}
	rootLine := Line{Depth: 0, Name: displayName, Path: options.Root, IsDirectory: true}
	if handlerError := handler(rootLine); handlerError != nil {
		return handlerError
	}
	if options.MaxDepth == 0 {
		return nil
	}
	return walker.visitEntries(rootEntries, 1, nil)
}

// Collect renders the tree and returns the printed lines.
func Collect(options Options) ([]string, error) {
	var renderedLines []string
	renderError := Render(options, func(line Line) error {
		renderedLines = append(renderedLines, line.String())
		return nil
	})
	if renderError != nil {
		return nil, renderError
	}
	return renderedLines, nil
}

// visitEntries emits the surviving entries of one directory and descends into eligible subdirectories.
// ancestorIsLast holds, for every ancestor level above depth, whether that ancestor closed its level.
func (walker *treeWalker) visitEntries(entries []Entry, depth int, ancestorIsLast []bool) error {
	survivingEntries := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if walker.options.Policy.Excludes(entry.Name) {
			continue
		}
		survivingEntries = append(survivingEntries, entry)
	}

	for entryIndex, entry := range survivingEntries {
		isLast := entryIndex == len(survivingEntries)-1
		line := Line{
			Depth:       depth,
			Prefix:      connectorPrefix(ancestorIsLast, isLast),
			Name:        entry.Name,
			Path:        entry.Path,
			IsDirectory: entry.IsDirectory,
		}
		if handlerError := walker.handler(line); handlerError != nil {
			return handlerError
		}

		if !entry.IsDirectory || !walker.shouldDescend(entry, depth) {
			continue
		}
		childEntries, listError := walker.listEntries(entry.Path)
		if listError != nil {
			walker.options.Warn(listError)
			continue
		}
		childAncestorIsLast := make([]bool, len(ancestorIsLast), len(ancestorIsLast)+1)
		copy(childAncestorIsLast, ancestorIsLast)
		childAncestorIsLast = append(childAncestorIsLast, isLast)
		if visitError := walker.visitEntries(childEntries, depth+1, childAncestorIsLast); visitError != nil {
			return visitError
		}
	}
	return nil
}

func (walker *treeWalker) shouldDescend(entry Entry, depth int) bool {
	if walker.options.Policy.Suppresses(entry.Name) {
		return false
	}
	return walker.options.MaxDepth < 0 || depth < walker.options.MaxDepth
}

// listEntries reads a directory and returns its entries with directories first.
func (walker *treeWalker) listEntries(directoryPath string) ([]Entry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, &TraversalError{Path: directoryPath, Err: readDirectoryError}
	}

	var directories []Entry
	var others []Entry
	for _, directoryEntry := range directoryEntries {
		entry := Entry{
			Name:        directoryEntry.Name(),
			Path:        filepath.Join(directoryPath, directoryEntry.Name()),
			IsDirectory: directoryEntry.IsDir(),
		}
		if entry.IsDirectory {
			directories = append(directories, entry)
		} else {
			others = append(others, entry)
		}
	}

	sortEntriesByName(directories)
	sortEntriesByName(others)
	if walker.options.Order == OrderLegacy {
		for left, right := 0, len(directories)-1; left < right; left, right = left+1, right-1 {
			directories[left], directories[right] = directories[right], directories[left]
		}
	}
	return append(directories, others...), nil
}

func sortEntriesByName(entries []Entry) {
	sort.SliceStable(entries, func(left, right int) bool {
		return entries[left].Name < entries[right].Name
	})
}

func connectorPrefix(ancestorIsLast []bool, isLast bool) string {
	var prefixBuilder strings.Builder
	for _, ancestorClosed := range ancestorIsLast {
		if ancestorClosed {
			prefixBuilder.WriteString(blankConnector)
		} else {
			prefixBuilder.WriteString(levelConnector)
		}
	}
	if isLast {
		prefixBuilder.WriteString(lastBranch)
	} else {
		prefixBuilder.WriteString(middleBranch)
	}
	return prefixBuilder.String()
}
