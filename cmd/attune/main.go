package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "attune",
	Short:         "attune matches therapy clients to therapists by survey compatibility",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the attune version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("attune version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		startCmd,
		stopCmd,
		statusCmd,
		matchCmd,
		therapistsCmd,
		intakeCmd,
		vocabCmd,
		configCmd,
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
