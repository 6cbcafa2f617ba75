package tree

import "fmt"

const (
	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "reading directory %s: %v"
	// errorNilHandlerMessage is returned when Render is called without a line handler.
	errorNilHandlerMessage = "tree: line handler is nil"
	// errorEmptyRootMessage is returned when Render is called without a root directory.
	errorEmptyRootMessage = "tree: root directory is empty"
)

// TraversalError reports a directory that could not be listed.
type TraversalError struct {
	Path string
	Err  error
}

func (traversalError *TraversalError) Error() string {
	return fmt.Sprintf(errorReadDirectoryFormat, traversalError.Path, traversalError.Err)
}

func (traversalError *TraversalError) Unwrap() error {
	return traversalError.Err
}
