package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tfglib",
	Short: "Seq2seq voice-conversion dataset toolkit",
	Long: `tfglib - prepare vocoded speech parameters for seq2seq
voice-conversion training.

The datatable builder reads a corpus of per-speaker vocoded parameter
files, pads every utterance to the corpus-wide longest sequence,
derives voiced/EOS/speaker-identity flags and padding masks, and
persists the result as a single compressed container.

Expected corpus layout:
  <root>/speakers.list
  <root>/seq2seq_basenames.list
  <root>/vocoded_s2s/<speaker>/<basename>.<tag>.dat   tag ∈ mcp, lf0, lf0.i, vf, vf.i

Examples:
  # Build a datatable from a corpus
  tfglib datatable build -d ./corpus -o seq2seq_datatable.s2s

  # Show the shapes and attributes of an existing container
  tfglib datatable inspect seq2seq_datatable.s2s`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initLogging routes slog to stderr; verbose mode enables the per-pair
// progress lines logged at debug level.
func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
