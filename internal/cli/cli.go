// Package cli provides the printdir command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/printdir/internal/journal"
	"github.com/temirov/printdir/internal/services/clipboard"
	"github.com/temirov/printdir/internal/tokenizer"
	"github.com/temirov/printdir/internal/tree"
	"github.com/temirov/printdir/internal/utils"
)

const (
	noIgnoreFlagName   = "no-ignore"
	toFileFlagName     = "to-file"
	usePrevCmdFlagName = "use-prev-cmd"
	depthFlagName      = "depth"
	depthFlagShorthand = "d"
	nameFlagName       = "name"
	nameFlagShorthand  = "n"
	ignoreFlagName     = "ignore"
	noContentFlagName  = "no-content"
	hiddenFlagName     = "hidden"
	orderFlagName      = "order"
	copyFlagName       = "copy"
	tokensFlagName     = "tokens"
	modelFlagName      = "model"
	timingFlagName     = "timing"
	configFlagName     = "config"
	versionFlagName    = "version"

	noIgnoreFlagDescription   = "disable ignore rules, including the " + journal.ArtifactName + " exclusion and the " + utils.IgnoreFileName + " file"
	toFileFlagDescription     = "also write the tree, preceded by the command, to " + journal.ArtifactName
	usePrevCmdFlagDescription = "re-run the command stored in " + journal.ArtifactName + "; other flags are ignored"
	depthFlagDescription      = "maximum depth to render; negative means unlimited"
	nameFlagDescription       = "label for the root line (default: name of the working directory)"
	ignoreFlagDescription     = "entry names or glob patterns to exclude (comma separated or repeated)"
	noContentFlagDescription  = "directory names listed without their contents (comma separated or repeated)"
	hiddenFlagDescription     = "show entries whose names start with a dot"
	orderFlagDescription      = "sibling order: name or legacy"
	copyFlagDescription       = "copy the rendered tree to the clipboard"
	tokensFlagDescription     = "log a token estimate of the rendered tree"
	modelFlagDescription      = "tokenizer model used by --tokens"
	timingFlagDescription     = "log the elapsed time"
	configFlagDescription     = "configuration file replacing ./" + utils.LocalConfigFileName
	versionFlagDescription    = "display application version"

	versionTemplate      = "printdir version: %s\n"
	rootUse              = journal.ProgramName
	rootShortDescription = "print a tree of the current directory"
	rootLongDescription  = `printdir renders the current working directory as a tree.
Directories are listed before files. Use --ignore and --no-content to trim the tree,
--depth to bound it, --to-file to save it together with the command that produced it,
and --use-prev-cmd to run that saved command again.`
	rootUsageExample = `  # Two levels, without the build output
  printdir -d 2 --ignore dist,bin

  # Save the tree and replay the same command later
  printdir --to-file --no-content node_modules
  printdir --use-prev-cmd`

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	noStoredCommandMessage      = "No previous command found."
)

// Dependencies are the collaborators used by the command line interface.
// Zero values are replaced with the process defaults.
type Dependencies struct {
	Logger           *zap.Logger
	Stdout           io.Writer
	Stderr           io.Writer
	Clipboard        clipboard.Copier
	WorkingDirectory func() (string, error)
	NewTokenCounter  func(tokenizer.Config) (tokenizer.Counter, string, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.WorkingDirectory == nil {
		dependencies.WorkingDirectory = os.Getwd
	}
	if dependencies.NewTokenCounter == nil {
		dependencies.NewTokenCounter = tokenizer.NewCounter
	}
	return dependencies
}

// application is one invocation of printdir with its raw arguments.
type application struct {
	dependencies Dependencies
	arguments    []string
	replaying    bool
}

// Execute runs printdir with the provided arguments, excluding the program name.
func Execute(ctx context.Context, dependencies Dependencies, arguments []string) error {
	app := &application{dependencies: dependencies.withDefaults(), arguments: arguments}
	return app.execute(ctx)
}

// ErrorMessage returns the text logged for an error returned by Execute.
func ErrorMessage(err error) string {
	if errors.Is(err, journal.ErrNoStoredCommand) {
		return noStoredCommandMessage
	}
	return err.Error()
}

func (app *application) execute(ctx context.Context) error {
	rootCommand := app.newRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, app.arguments))
	return rootCommand.ExecuteContext(ctx)
}

func (app *application) workingDirectory() (string, error) {
	workingDirectory, err := app.dependencies.WorkingDirectory()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

// rootFlags holds the values bound to the root command flags.
type rootFlags struct {
	noIgnore       bool
	toFile         bool
	usePrevCmd     bool
	depth          int
	name           string
	ignoredNames   []string
	noContentNames []string
	hidden         bool
	order          string
	copyToBoard    bool
	tokens         bool
	model          string
	timing         bool
	configPath     string
	showVersion    bool
}

// newRootCommand builds the root Cobra command.
func (app *application) newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.usePrevCmd {
				return app.replay(command.Context())
			}
			if flags.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			options, err := app.resolveOptions(command, flags)
			if err != nil {
				return err
			}
			return app.runTree(command.Context(), options)
		},
	}
	rootCommand.SetOut(app.dependencies.Stdout)
	rootCommand.SetErr(app.dependencies.Stderr)

	flagSet := rootCommand.Flags()
	registerBooleanFlags(flagSet, []booleanFlagDefinition{
		{target: &flags.noIgnore, name: noIgnoreFlagName, usage: noIgnoreFlagDescription},
		{target: &flags.toFile, name: toFileFlagName, usage: toFileFlagDescription},
		{target: &flags.usePrevCmd, name: usePrevCmdFlagName, usage: usePrevCmdFlagDescription},
		{target: &flags.hidden, name: hiddenFlagName, defaultValue: true, usage: hiddenFlagDescription},
		{target: &flags.copyToBoard, name: copyFlagName, usage: copyFlagDescription},
		{target: &flags.tokens, name: tokensFlagName, usage: tokensFlagDescription},
		{target: &flags.timing, name: timingFlagName, usage: timingFlagDescription},
		{target: &flags.showVersion, name: versionFlagName, usage: versionFlagDescription},
	})
	flagSet.IntVarP(&flags.depth, depthFlagName, depthFlagShorthand, tree.UnlimitedDepth, depthFlagDescription)
	flagSet.StringVarP(&flags.name, nameFlagName, nameFlagShorthand, "", nameFlagDescription)
	flagSet.StringSliceVar(&flags.ignoredNames, ignoreFlagName, nil, ignoreFlagDescription)
	flagSet.StringSliceVar(&flags.noContentNames, noContentFlagName, nil, noContentFlagDescription)
	flagSet.StringVar(&flags.order, orderFlagName, string(tree.OrderName), orderFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	rootCommand.PersistentFlags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(app.newConfigCommand(flags))
	rootCommand.CompletionOptions.DisableDefaultCmd = true
	return rootCommand
}
