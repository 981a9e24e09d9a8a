package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/disdrometer-etl/internal/mockdata"
	"github.com/spf13/cobra"
)

var genmockCmd = &cobra.Command{
	Use:   "genmock",
	Short: "Generate a synthetic raw file",
	Long: `Genmock writes a synthetic Parsivel raw file, and optionally a matching
conditional matrix, for local runs of the ETL service.

Example:
  parsivelctl genmock --out data/incoming/20240426.mis --intervals 1440 --sentinel-every 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		out, _ := flags.GetString("out")
		pcmOut, _ := flags.GetString("pcm-out")

		var opts mockdata.Options
		opts.Intervals, _ = flags.GetInt("intervals")
		opts.StartSeconds, _ = flags.GetInt("start")
		opts.StepSeconds, _ = flags.GetInt("step")
		opts.Seed, _ = flags.GetUint64("seed")
		opts.SentinelEvery, _ = flags.GetInt("sentinel-every")
		opts.MalformedEvery, _ = flags.GetInt("malformed-every")

		return runGenmock(cmd.OutOrStdout(), out, pcmOut, opts)
	},
}

func init() {
	rootCmd.AddCommand(genmockCmd)
	genmockCmd.Flags().String("out", "", "output path for the raw file (required)")
	genmockCmd.Flags().String("pcm-out", "", "output path for a conditional matrix file")
	genmockCmd.Flags().Int("intervals", 1440, "number of intervals to write")
	genmockCmd.Flags().Int("start", 0, "seconds of day of the first interval")
	genmockCmd.Flags().Int("step", 60, "seconds between intervals")
	genmockCmd.Flags().Uint64("seed", 1, "random seed")
	genmockCmd.Flags().Int("sentinel-every", 0, "mask every Nth interval (0 disables)")
	genmockCmd.Flags().Int("malformed-every", 0, "truncate the drop count line of every Nth interval (0 disables)")
	_ = genmockCmd.MarkFlagRequired("out")
}

func runGenmock(log io.Writer, out, pcmOut string, opts mockdata.Options) error {
	if opts.Intervals <= 0 {
		return errors.New("intervals must be positive")
	}

	if err := writeFile(out, func(w io.Writer) error { return mockdata.Write(w, opts) }); err != nil {
		return fmt.Errorf("write raw file: %w", err)
	}
	fmt.Fprintf(log, "wrote %d intervals to %s\n", opts.Intervals, out)

	if pcmOut != "" {
		if err := writeFile(pcmOut, mockdata.WriteConditionalMatrix); err != nil {
			return fmt.Errorf("write conditional matrix: %w", err)
		}
		fmt.Fprintf(log, "wrote conditional matrix to %s\n", pcmOut)
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
