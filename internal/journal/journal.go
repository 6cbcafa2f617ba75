// Package journal stores the invocation that produced a tree artifact and restores it for replay.
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kballard/go-shellquote"
)

const (
	// ProgramName is the first token of every stored command.
	ProgramName = "printdir"
	// ArtifactName is the file holding the stored command followed by the rendered tree.
	ArtifactName = "dir_tree.txt"
	// ReplayFlag is the flag that triggers a replay; it is never stored.
	ReplayFlag = "--use-prev-cmd"

	errorReadArtifactFormat   = "%w: read %s: %v"
	errorSplitCommandFormat   = "%w: parse %q: %v"
	errorForeignCommandFormat = "%w: first line of %s does not start with %s"
	errorInvalidRecordFormat  = "%w: %v"
	replayFlagStoredMessage   = "must not contain " + ReplayFlag
)

// ErrNoStoredCommand is returned when the artifact does not hold a replayable command.
var ErrNoStoredCommand = errors.New("no previous command found")

// Record is an invocation of the program without the program name.
type Record struct {
	Program   string
	Arguments []string
}

// NewRecord builds a Record for the provided command-line arguments.
func NewRecord(arguments []string) Record {
	storedArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if isReplayFlag(argument) {
			continue
		}
		storedArguments = append(storedArguments, argument)
	}
	return Record{Program: ProgramName, Arguments: storedArguments}
}

// Validate checks that the record can be replayed.
func (record Record) Validate() error {
	return validation.ValidateStruct(&record,
		validation.Field(&record.Program, validation.Required, validation.In(ProgramName)),
		validation.Field(&record.Arguments, validation.Each(validation.By(rejectReplayFlag))),
	)
}

// String renders the record as a single shell-quoted command line.
func (record Record) String() string {
	if len(record.Arguments) == 0 {
		return record.Program
	}
	return record.Program + " " + shellquote.Join(record.Arguments...)
}

// Parse restores a Record from a stored command line.
func Parse(commandLine string) (Record, error) {
	tokens, splitError := shellquote.Split(strings.TrimSpace(commandLine))
	if splitError != nil {
		return Record{}, fmt.Errorf(errorSplitCommandFormat, ErrNoStoredCommand, commandLine, splitError)
	}
	if len(tokens) == 0 {
		return Record{}, ErrNoStoredCommand
	}
	record := Record{Program: tokens[0], Arguments: tokens[1:]}
	if validationError := record.Validate(); validationError != nil {
		return Record{}, fmt.Errorf(errorInvalidRecordFormat, ErrNoStoredCommand, validationError)
	}
	return record, nil
}

// Read loads the Record stored in the first line of the artifact at path.
// Every failure wraps ErrNoStoredCommand.
func Read(path string) (Record, error) {
	// #nosec G304
	file, openError := os.Open(path)
	if openError != nil {
		return Record{}, fmt.Errorf(errorReadArtifactFormat, ErrNoStoredCommand, path, openError)
	}
	defer file.Close()

	firstLine, readError := bufio.NewReader(file).ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return Record{}, fmt.Errorf(errorReadArtifactFormat, ErrNoStoredCommand, path, readError)
	}
	firstLine = strings.TrimRight(firstLine, "\r\n")
	if strings.TrimSpace(firstLine) == "" {
		return Record{}, ErrNoStoredCommand
	}
	firstToken, _, _ := strings.Cut(strings.TrimSpace(firstLine), " ")
	if firstToken != ProgramName {
		return Record{}, fmt.Errorf(errorForeignCommandFormat, ErrNoStoredCommand, path, ProgramName)
	}
	return Parse(firstLine)
}

func rejectReplayFlag(value interface{}) error {
	argument, _ := value.(string)
	if isReplayFlag(argument) {
		return errors.New(replayFlagStoredMessage)
	}
	return nil
}

func isReplayFlag(argument string) bool {
	return argument == ReplayFlag || strings.HasPrefix(argument, ReplayFlag+"=")
}
