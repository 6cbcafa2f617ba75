package main

import (
	"context"
	"os"

	"github.com/temirov/printdir/internal/cli"
	"github.com/temirov/printdir/internal/utils"
)

const exitCodeFailure = 1

// main is the entry point for the printdir command.
func main() {
	loggerInstance := utils.NewApplicationLogger()
	applicationExecutionError := cli.Execute(context.Background(), cli.Dependencies{Logger: loggerInstance}, os.Args[1:])
	if applicationExecutionError != nil {
		loggerInstance.Error(cli.ErrorMessage(applicationExecutionError))
	}
	_ = loggerInstance.Sync()
	if applicationExecutionError != nil {
		os.Exit(exitCodeFailure)
	}
}
