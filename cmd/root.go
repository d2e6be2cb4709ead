package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/errilaz/grimo/cmd/build"
	"github.com/errilaz/grimo/cmd/details"
	"github.com/errilaz/grimo/cmd/serve"
	"github.com/errilaz/grimo/internal/logger"
	"github.com/errilaz/grimo/internal/version"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "grimo",
	Short: "PostgreSQL schema inspector and typed query client",
	Long: fmt.Sprintf(`grimo reads a PostgreSQL catalog, resolves every column to an api type and
builds queries against it.

Version: %s

Commands:
  build    Write the schema graph as JSON or a typed Go adapter
  details  Print the resolved schema
  serve    Serve query intents over HTTP

Use "grimo [command] --help" for more information about a command.`, version.String()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(build.BuildCmd)
	RootCmd.AddCommand(details.DetailsCmd)
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	logger.Setup(os.Stderr, Debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
