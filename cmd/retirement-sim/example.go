package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckalew/retirement-sim/internal/config"
	"github.com/buckalew/retirement-sim/internal/output"
)

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Write an example scenario file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := "scenarios.yaml"
		if len(args) == 1 {
			filename = args[0]
		}
		if err := config.NewInputParser().WriteExampleConfiguration(filename); err != nil {
			return err
		}
		fmt.Printf("Example scenario file written to %s\n", filename)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List report formats and aliases",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Formats: %s\n", strings.Join(output.AvailableFormatterNames(), ", "))
		fmt.Printf("Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
	},
}
