package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/adapters/yamlspec"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/statechart"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a YAML diagram definition to PlantUML text",
	Long:  `Reads a diagram definition (from a file argument or stdin) and writes PlantUML state notation to stdout.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := loggerFromFlags(cmd)

		var (
			builder *statechart.Builder
			err     error
		)
		if len(args) > 0 {
			builder, err = yamlspec.LoadFile(args[0], statechart.WithLogger(logger))
		} else {
			var data []byte
			data, err = io.ReadAll(os.Stdin)
			if err == nil {
				builder, err = yamlspec.Load(data, statechart.WithLogger(logger))
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading definition: %v\n", err)
			os.Exit(1)
		}

		out, err := builder.Render()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering diagram: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func loggerFromFlags(cmd *cobra.Command) *slog.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelWarn
	}
	return logging.New(level)
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
