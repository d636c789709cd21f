package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tfglib/tfglib/pkg/cli"
	"github.com/tfglib/tfglib/pkg/datatable"
	"github.com/tfglib/tfglib/pkg/vocoder"
)

var (
	buildDataRoot string
	buildOutput   string

	inspectFormat string
)

var datatableCmd = &cobra.Command{
	Use:   "datatable",
	Short: "Seq2seq datatable operations",
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a datatable container from a vocoded corpus",
	Long: `Assemble the seq2seq datatable for every ordered speaker pair
(self-pairs included) crossed with every utterance basename, then
write it to a compressed container plus a YAML run manifest.

The whole corpus is assembled in memory before it is written, so the
feasible corpus size is bounded by available RAM.`,
	RunE: runBuild,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <container>",
	Short: "Show the shapes and attributes of a datatable container",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildDataRoot == "" {
		return fmt.Errorf("--data-root is required")
	}

	speakers, err := vocoder.ReadList(vocoder.ListPath(buildDataRoot, vocoder.SpeakersListFile))
	if err != nil {
		return err
	}
	basenames, err := vocoder.ReadList(vocoder.ListPath(buildDataRoot, vocoder.BasenamesListFile))
	if err != nil {
		return err
	}

	manifest := datatable.NewManifest(buildDataRoot)
	start := time.Now()

	d, err := datatable.Construct(buildDataRoot, speakers, basenames)
	if err != nil {
		return err
	}
	if err := d.Save(buildOutput); err != nil {
		return err
	}

	if err := manifest.Finish(d, buildOutput, len(speakers), len(basenames)); err != nil {
		return err
	}
	manifestPath := buildOutput + ".manifest.yaml"
	if err := manifest.Write(manifestPath); err != nil {
		return err
	}

	cli.PrintSuccess("datatable written to %s (%s, %d pairs, longest %d frames) in %s",
		buildOutput,
		cli.FormatBytes(manifest.SizeBytes),
		d.Pairs(),
		d.MaxSeqLength,
		cli.FormatDuration(time.Since(start)))
	cli.PrintSuccess("manifest written to %s (run %s)", manifestPath, manifest.RunID)
	return nil
}

// containerSummary is the inspect command's printable view of a
// container.
type containerSummary struct {
	Path         string    `yaml:"path" json:"path"`
	Pairs        int       `yaml:"pairs" json:"pairs"`
	MaxSeqLength int       `yaml:"max_seq_length" json:"max_seq_length"`
	SrcDatatable [2]int    `yaml:"src_datatable" json:"src_datatable"`
	TrgDatatable [2]int    `yaml:"trg_datatable" json:"trg_datatable"`
	SrcMask      [2]int    `yaml:"src_mask" json:"src_mask"`
	TrgMask      [2]int    `yaml:"trg_mask" json:"trg_mask"`
	SpeakersMax  [2]int    `yaml:"speakers_max" json:"speakers_max"`
	SpeakersMin  [2]int    `yaml:"speakers_min" json:"speakers_min"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	d, err := datatable.Load(path)
	if err != nil {
		return err
	}

	summary := containerSummary{
		Path:         path,
		Pairs:        d.Pairs(),
		MaxSeqLength: d.MaxSeqLength,
		SrcDatatable: [2]int{d.Source.Rows(), d.Source.Cols()},
		TrgDatatable: [2]int{d.Target.Rows(), d.Target.Cols()},
		SrcMask:      [2]int{d.SourceMask.Rows(), d.SourceMask.Cols()},
		TrgMask:      [2]int{d.TargetMask.Rows(), d.TargetMask.Cols()},
		SpeakersMax:  [2]int{d.SpeakersMax.Rows(), d.SpeakersMax.Cols()},
		SpeakersMin:  [2]int{d.SpeakersMin.Rows(), d.SpeakersMin.Cols()},
	}
	return cli.Output(summary, cli.OutputOptions{Format: cli.OutputFormat(inspectFormat)})
}

func init() {
	buildCmd.Flags().StringVarP(&buildDataRoot, "data-root", "d", "", "corpus data root directory")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "seq2seq_datatable.s2s", "output container path")

	inspectCmd.Flags().StringVarP(&inspectFormat, "output", "o", "yaml", "output format (yaml, json)")

	datatableCmd.AddCommand(buildCmd)
	datatableCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(datatableCmd)
}
