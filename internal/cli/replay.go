package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/temirov/printdir/internal/journal"
)

const (
	executingPreviousCommandFormat = "Executing previous command: %s"
	nestedReplayMessage            = "stored command must not replay itself"
)

// replay reads the command stored in the artifact of the working directory and runs it in-process.
func (app *application) replay(ctx context.Context) error {
	if app.replaying {
		return fmt.Errorf("%w: %s", journal.ErrNoStoredCommand, nestedReplayMessage)
	}
	workingDirectory, err := app.workingDirectory()
	if err != nil {
		return err
	}
	record, err := journal.Read(filepath.Join(workingDirectory, journal.ArtifactName))
	if err != nil {
		return err
	}
	app.dependencies.Logger.Info(fmt.Sprintf(executingPreviousCommandFormat, record.String()))

	replayed := &application{
		dependencies: app.dependencies,
		arguments:    record.Arguments,
		replaying:    true,
	}
	return replayed.execute(ctx)
}
