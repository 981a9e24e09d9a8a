package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/disdrometer-etl/internal/adapter/ledger"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or edit the processed-file ledger",
	Long: `The ledger records which raw files the ETL service has published. The
service holds a lock on it while running, so stop the service first.`,
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show <file>...",
	Short: "Show ledger entries for the named files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("ledger-dir")
		l, err := ledger.Open(dir, nil)
		if err != nil {
			return err
		}
		defer l.Close()
		return showEntries(cmd.OutOrStdout(), l, args)
	},
}

var ledgerForgetCmd = &cobra.Command{
	Use:   "forget <file>...",
	Short: "Remove files from the ledger so the service processes them again",
	Long: `Forget removes ledger entries by file name.

Example:
  parsivelctl ledger forget 20110910.mis --ledger-dir data/ledger`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("ledger-dir")
		l, err := ledger.Open(dir, nil)
		if err != nil {
			return err
		}
		defer l.Close()
		for _, name := range args {
			if err := l.Forget(name); err != nil {
				return fmt.Errorf("forget %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerShowCmd, ledgerForgetCmd)
	ledgerCmd.PersistentFlags().String("ledger-dir", "./data/ledger", "ledger directory (LEDGER_DIR of the service)")
}

func showEntries(out io.Writer, l *ledger.Ledger, names []string) error {
	for _, name := range names {
		e, ok, err := l.Lookup(name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "%s\tnot processed\n", name)
			continue
		}
		fmt.Fprintf(out, "%s\tsize=%d\tmod_time=%s\tcommitted_at=%s\n",
			name, e.Size, e.ModTime.Format(time.RFC3339), e.CommittedAt.Format(time.RFC3339))
	}
	return nil
}
