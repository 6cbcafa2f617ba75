package cli

import (
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"

	"github.com/temirov/printdir/internal/config"
	"github.com/temirov/printdir/internal/journal"
	"github.com/temirov/printdir/internal/tree"
	"github.com/temirov/printdir/internal/utils"
)

const (
	invalidOptionsErrorFormat = "invalid options: %w"
	ignoreFileErrorFormat     = "load %s: %w"
)

// runOptions is the resolved, immutable configuration of one tree invocation.
type runOptions struct {
	WorkingDirectory string     `json:"working_directory"`
	DisplayName      string     `json:"name"`
	MaxDepth         int        `json:"depth"`
	IgnoredNames     []string   `json:"ignore"`
	NoContentNames   []string   `json:"no_content"`
	NoIgnore         bool       `json:"no_ignore"`
	ShowHidden       bool       `json:"hidden"`
	Order            tree.Order `json:"order"`
	ToFile           bool       `json:"to_file"`
	CopyToClipboard  bool       `json:"copy"`
	TokensEnabled    bool       `json:"tokens"`
	TokenModel       string     `json:"model"`
	Timing           bool       `json:"timing"`
}

// Validate checks the resolved options.
func (options runOptions) Validate() error {
	return validation.ValidateStruct(&options,
		validation.Field(&options.WorkingDirectory, validation.Required),
		validation.Field(&options.Order, validation.Required, validation.In(tree.OrderName, tree.OrderLegacy)),
		validation.Field(&options.TokenModel, validation.When(options.TokensEnabled, validation.Required)),
	)
}

// treeOptions converts the resolved options into renderer options.
func (options runOptions) treeOptions() tree.Options {
	return tree.Options{
		Root:        options.WorkingDirectory,
		DisplayName: options.DisplayName,
		MaxDepth:    options.MaxDepth,
		Order:       options.Order,
		Policy: tree.NewIgnorePolicy(tree.PolicyOptions{
			IgnoredNames:    options.IgnoredNames,
			SuppressedNames: options.NoContentNames,
			ReservedName:    journal.ArtifactName,
			Disabled:        options.NoIgnore,
			ShowHidden:      options.ShowHidden,
		}),
	}
}

// resolveOptions overlays explicitly set flags on the effective configuration.
func (app *application) resolveOptions(command *cobra.Command, flags *rootFlags) (runOptions, error) {
	workingDirectory, err := app.workingDirectory()
	if err != nil {
		return runOptions{}, err
	}
	loadedConfiguration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if err != nil {
		return runOptions{}, err
	}
	treeConfiguration := loadedConfiguration.Effective().Tree
	changed := command.Flags().Changed

	options := runOptions{
		WorkingDirectory: workingDirectory,
		DisplayName:      flags.name,
		MaxDepth:         *treeConfiguration.Depth,
		IgnoredNames:     treeConfiguration.Ignore,
		NoContentNames:   treeConfiguration.NoContent,
		NoIgnore:         flags.noIgnore,
		ShowHidden:       *treeConfiguration.Hidden,
		Order:            tree.Order(treeConfiguration.Order),
		ToFile:           *treeConfiguration.ToFile,
		CopyToClipboard:  *treeConfiguration.Copy,
		TokensEnabled:    *treeConfiguration.Tokens.Enabled,
		TokenModel:       treeConfiguration.Tokens.Model,
		Timing:           *treeConfiguration.Timing,
	}
	if changed(depthFlagName) {
		options.MaxDepth = flags.depth
	}
	if changed(ignoreFlagName) {
		options.IgnoredNames = flags.ignoredNames
	}
	if changed(noContentFlagName) {
		options.NoContentNames = flags.noContentNames
	}
	if changed(hiddenFlagName) {
		options.ShowHidden = flags.hidden
	}
	if changed(orderFlagName) {
		options.Order = tree.Order(flags.order)
	}
	if changed(toFileFlagName) {
		options.ToFile = flags.toFile
	}
	if changed(copyFlagName) {
		options.CopyToClipboard = flags.copyToBoard
	}
	if changed(tokensFlagName) {
		options.TokensEnabled = flags.tokens
	}
	if changed(modelFlagName) {
		options.TokenModel = flags.model
	}
	if changed(timingFlagName) {
		options.Timing = flags.timing
	}

	if !options.NoIgnore {
		ignoreFilePath := filepath.Join(workingDirectory, utils.IgnoreFileName)
		ignoreFileNames, loadErr := config.LoadIgnoreFile(ignoreFilePath)
		if loadErr != nil {
			return runOptions{}, fmt.Errorf(ignoreFileErrorFormat, ignoreFilePath, loadErr)
		}
		options.IgnoredNames = append(append([]string{}, options.IgnoredNames...), ignoreFileNames.Ignore...)
		options.NoContentNames = append(append([]string{}, options.NoContentNames...), ignoreFileNames.NoContent...)
	}
	options.IgnoredNames = utils.SplitCommaSeparated(options.IgnoredNames)
	options.NoContentNames = utils.SplitCommaSeparated(options.NoContentNames)

	if err := options.Validate(); err != nil {
		return runOptions{}, fmt.Errorf(invalidOptionsErrorFormat, err)
	}
	return options, nil
}
