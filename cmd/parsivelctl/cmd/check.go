package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/couchcryptid/disdrometer-etl/internal/config"
	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// phase tracks pass/fail for one group of checks. Warnings are reported but
// do not fail the check.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) status() string {
	switch {
	case len(p.errors) > 0:
		return fmt.Sprintf("FAIL (%d errors)", len(p.errors))
	case len(p.warnings) > 0:
		return fmt.Sprintf("PASS (%d warnings)", len(p.warnings))
	default:
		return "PASS"
	}
}

// checkOptions are the check command's flags.
type checkOptions struct {
	pcmPath     string
	profilePath string
	day         string // YYYY-MM-DD; empty uses the file's modification date
	dump        bool
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Decode and normalize a raw file, reporting data quality",
	Long: `Check runs a raw file through the same decoder and normalizer as the ETL
service and reports skipped lines, alignment, and interval consistency.

Skipped lines and misaligned series fail the check. The consistency phase is
heuristic: out of order timestamps and particle counts that disagree with the
raw matrix are reported as warnings, since instruments emit both on otherwise
usable files.

Example:
  parsivelctl check 20110910.mis --conditional-matrix parsivel_conditional_matrix.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts checkOptions
		opts.pcmPath, _ = cmd.Flags().GetString("conditional-matrix")
		opts.profilePath, _ = cmd.Flags().GetString("profile")
		opts.day, _ = cmd.Flags().GetString("day")
		opts.dump, _ = cmd.Flags().GetBool("dump")
		return runCheck(cmd.OutOrStdout(), args[0], opts)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("conditional-matrix", "", "conditional matrix file to validate alongside the raw file")
	checkCmd.Flags().String("profile", "", "station profile YAML to validate")
	checkCmd.Flags().String("day", "", "UTC day of the file as YYYY-MM-DD (default: the file's modification date)")
	checkCmd.Flags().Bool("dump", false, "print every interval as a JSON line after the report")
}

func runCheck(out io.Writer, path string, opts checkOptions) error {
	info, err := os.Stat(path)
	if err != nil {
		return &domain.FileAccessError{Path: path, Err: err}
	}
	day := info.ModTime().UTC()
	if opts.day != "" {
		if day, err = time.Parse(time.DateOnly, opts.day); err != nil {
			return fmt.Errorf("invalid --day %q: %w", opts.day, err)
		}
	}

	// Pin processed_at to the file's mtime so dumps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(info.ModTime().UTC()))
	defer domain.SetClock(nil)

	var pcm domain.ConditionalMatrix
	phases := []*phase{}
	if opts.pcmPath != "" || opts.profilePath != "" {
		p := &phase{name: "Instrument context"}
		if opts.pcmPath != "" {
			if pcm, err = domain.LoadConditionalMatrix(opts.pcmPath); err != nil {
				p.errorf("conditional matrix: %v", err)
			}
		}
		if opts.profilePath != "" {
			if _, err := config.LoadStationProfile(opts.profilePath); err != nil {
				p.errorf("station profile: %v", err)
			}
		}
		phases = append(phases, p)
	}

	reader := domain.NewReader(domain.ParsivelGeometry(), pcm)
	dsd, report, err := reader.Read(path)
	var fae *domain.FileAccessError
	if errors.As(err, &fae) {
		return err
	}

	decode := &phase{name: "Decode (skipped lines)"}
	for _, w := range report.Warnings {
		decode.errorf("%s", w)
	}
	align := &phase{name: "Alignment (series lengths)"}
	if err != nil {
		align.errorf("%v", err)
	}
	phases = append(phases, decode, align)
	if dsd != nil {
		phases = append(phases, checkConsistency(dsd))
	}

	fmt.Fprintf(out, "=== Parsivel file check: %s ===\n\n", path)
	allPassed := true
	for _, p := range phases {
		allPassed = allPassed && p.passed()
		fmt.Fprintf(out, "  %-32s %s\n", p.name, p.status())
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Lines: %d, intervals: %d, masked reflectivity: %d, zeroed drop counts: %d\n",
		report.Lines, report.Intervals, report.MaskedReflectivity, report.ZeroedDropCounts)
	if dsd != nil {
		if mean, ok := dsd.Z.Mean(); ok {
			fmt.Fprintf(out, "Mean reflectivity: %.2f dBZ\n", mean)
		} else {
			fmt.Fprintln(out, "Mean reflectivity: n/a")
		}
		if first, ok := dsd.Timestamp(day, 0); ok {
			last, _ := dsd.Timestamp(day, dsd.Len()-1)
			fmt.Fprintf(out, "Span: %s to %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
		}
	}
	printInstrument(out, reader, opts.pcmPath != "")

	for _, p := range phases {
		printFindings(out, p.name, p.errors)
		printFindings(out, p.name+" (warnings)", p.warnings)
	}

	if opts.dump && dsd != nil {
		fmt.Fprintln(out)
		enc := json.NewEncoder(out)
		for _, rec := range dsd.Intervals() {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
	}

	if !allPassed {
		fmt.Fprintln(out, "\nCheck FAILED.")
		return errors.New("check failed")
	}
	fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}

func printFindings(out io.Writer, title string, findings []string) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(out, "\n--- %s ---\n", title)
	for i, f := range findings {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, f)
	}
}

// printInstrument summarizes the class geometry and, when one was given, the
// conditional matrix the file was read with.
func printInstrument(out io.Writer, reader *domain.Reader, withMatrix bool) {
	g := reader.Geometry()
	d, dw := g.Centers(), g.Spreads()
	v, vw := g.VelocityCenters(), g.VelocitySpreads()
	fmt.Fprintf(out, "Diameter classes: %d, %.3f to %.3f mm (widths %.3f to %.3f)\n",
		len(d), d[0], d[len(d)-1], dw[0], dw[len(dw)-1])
	fmt.Fprintf(out, "Velocity classes: %d, %.3f to %.3f m/s (widths %.3f to %.3f)\n",
		len(v), v[0], v[len(v)-1], vw[0], vw[len(vw)-1])
	if !withMatrix {
		return
	}
	pcm := reader.Conditional()
	set := 0
	for row := range domain.BinCount {
		for col := range domain.BinCount {
			if pcm.At(row, col) != 0 {
				set++
			}
		}
	}
	fmt.Fprintf(out, "Conditional matrix: %d of %d entries set\n", set, domain.RawMatrixSize)
}

// checkConsistency flags intervals whose timestamps do not increase or whose
// reported particle count disagrees with the raw matrix total.
func checkConsistency(dsd *domain.DropSizeDistribution) *phase {
	p := &phase{name: "Consistency (per interval)"}
	for i := 1; i < len(dsd.Time); i++ {
		if dsd.Time[i] <= dsd.Time[i-1] {
			p.warnf("interval %d: time %d does not follow %d", i, dsd.Time[i], dsd.Time[i-1])
		}
	}
	for i, m := range dsd.RawMatrix {
		total := 0
		for _, row := range m {
			for _, n := range row {
				total += n
			}
		}
		if i < len(dsd.NumParticles) && total != dsd.NumParticles[i] {
			p.warnf("interval %d: %d particles reported, raw matrix holds %d", i, dsd.NumParticles[i], total)
		}
	}
	return p
}
