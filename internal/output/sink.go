// Package output delivers rendered tree lines to the console, the tree artifact and in-memory captures.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	lineTerminator = "\n"

	errorCreateArtifactFormat = "create %s: %w"
	errorWriteArtifactFormat  = "write %s: %w"
	errorCloseArtifactFormat  = "close %s: %w"
	errorNilWriterMessage     = "output: writer is nil"
)

// Sink receives rendered lines in output order.
type Sink interface {
	Handle(line string) error
	Flush() error
}

type writerSink struct {
	writer io.Writer
}

// NewWriterSink returns a Sink writing each line to writer, typically os.Stdout.
func NewWriterSink(writer io.Writer) Sink {
	return &writerSink{writer: writer}
}

func (sink *writerSink) Handle(line string) error {
	if sink.writer == nil {
		return errors.New(errorNilWriterMessage)
	}
	_, writeError := io.WriteString(sink.writer, line+lineTerminator)
	return writeError
}

func (sink *writerSink) Flush() error {
	return nil
}

// FileSink writes lines to a file that is truncated when the sink is created.
type FileSink struct {
	path   string
	file   *os.File
	writer *bufio.Writer
}

// NewFileSink truncates or creates path and writes headerLines before any rendered line.
func NewFileSink(path string, headerLines ...string) (*FileSink, error) {
	// #nosec G304
	file, createError := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if createError != nil {
		return nil, fmt.Errorf(errorCreateArtifactFormat, path, createError)
	}
	sink := &FileSink{path: path, file: file, writer: bufio.NewWriter(file)}
	for _, headerLine := range headerLines {
		if handleError := sink.Handle(headerLine); handleError != nil {
			_ = file.Close()
			return nil, handleError
		}
	}
	return sink, nil
}

// Path returns the file written by the sink.
func (sink *FileSink) Path() string {
	return sink.path
}

func (sink *FileSink) Handle(line string) error {
	if _, writeError := sink.writer.WriteString(line + lineTerminator); writeError != nil {
		return fmt.Errorf(errorWriteArtifactFormat, sink.path, writeError)
	}
	return nil
}

// Flush writes buffered lines and closes the file. The sink must not be used afterwards.
func (sink *FileSink) Flush() error {
	flushError := sink.writer.Flush()
	closeError := sink.file.Close()
	if flushError != nil {
		return fmt.Errorf(errorWriteArtifactFormat, sink.path, flushError)
	}
	if closeError != nil {
		return fmt.Errorf(errorCloseArtifactFormat, sink.path, closeError)
	}
	return nil
}

// CaptureSink keeps every line in memory.
type CaptureSink struct {
	builder strings.Builder
	lines   int
}

// NewCaptureSink returns an empty CaptureSink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

func (sink *CaptureSink) Handle(line string) error {
	sink.builder.WriteString(line)
	sink.builder.WriteString(lineTerminator)
	sink.lines++
	return nil
}

func (sink *CaptureSink) Flush() error {
	return nil
}

// Text returns the captured lines, each terminated by a newline.
func (sink *CaptureSink) Text() string {
	return sink.builder.String()
}

// Lines returns the number of captured lines.
func (sink *CaptureSink) Lines() int {
	return sink.lines
}

type multiSink struct {
	sinks []Sink
}

// NewMultiSink fans every line out to sinks in order. Nil sinks are skipped.
func NewMultiSink(sinks ...Sink) Sink {
	activeSinks := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			activeSinks = append(activeSinks, sink)
		}
	}
	return &multiSink{sinks: activeSinks}
}

func (sink *multiSink) Handle(line string) error {
	for _, target := range sink.sinks {
		if handleError := target.Handle(line); handleError != nil {
			return handleError
		}
	}
	return nil
}

// Flush flushes every sink, even after a failure, and joins the errors.
func (sink *multiSink) Flush() error {
	var flushErrors []error
	for _, target := range sink.sinks {
		if flushError := target.Flush(); flushError != nil {
			flushErrors = append(flushErrors, flushError)
		}
	}
	return errors.Join(flushErrors...)
}
