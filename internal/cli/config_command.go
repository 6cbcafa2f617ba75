package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/printdir/internal/config"
	"github.com/temirov/printdir/internal/utils"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage printdir configuration files"
	configInitUse              = "init"
	configInitShortDescription = "write the default configuration to ./" + utils.LocalConfigFileName
	configShowUse              = "show"
	configShowShortDescription = "print the effective configuration"
	globalFlagName             = "global"
	globalFlagDescription      = "write to ~/" + utils.GlobalConfigDirectoryName + "/" + utils.ConfigFileName + " instead"
	forceFlagName              = "force"
	forceFlagDescription       = "overwrite an existing configuration file"
	configWrittenFormat        = "Configuration written to %s"
)

func (app *application) newConfigCommand(flags *rootFlags) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
	}
	configCommand.AddCommand(app.newConfigInitCommand(), app.newConfigShowCommand(flags))
	return configCommand
}

func (app *application) newConfigInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := app.workingDirectory()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if err != nil {
				return err
			}
			app.dependencies.Logger.Info(fmt.Sprintf(configWrittenFormat, path))
			return nil
		},
	}
	registerBooleanFlags(initCommand.Flags(), []booleanFlagDefinition{
		{target: &global, name: globalFlagName, usage: globalFlagDescription},
		{target: &force, name: forceFlagName, usage: forceFlagDescription},
	})
	return initCommand
}

func (app *application) newConfigShowCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   configShowUse,
		Short: configShowShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := app.workingDirectory()
			if err != nil {
				return err
			}
			loadedConfiguration, err := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: flags.configPath,
			})
			if err != nil {
				return err
			}
			encoded, err := config.Render(loadedConfiguration.Effective())
			if err != nil {
				return err
			}
			_, err = command.OutOrStdout().Write(encoded)
			return err
		},
	}
}
