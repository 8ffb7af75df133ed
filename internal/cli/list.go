package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"

	"github.com/hyp3rd/complog/internal/constants"
	"github.com/hyp3rd/complog/internal/output"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Factory *Factory

	Quiet bool
}

// NewCmdList creates the list command.
func NewCmdList(f *Factory, runF func(context.Context, *ListOptions) error) *cobra.Command {
	opts := &ListOptions{Factory: f}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the components with a log file",
		Example: `  # List components and their record counts
  complog list --dir /var/log/app

  # Print component names only
  complog ls -q`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}

			return listRun(opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print component names")

	return cmd
}

func listRun(opts *ListOptions) error {
	dir, err := opts.Factory.LogDir()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return ewrap.Wrap(err, "reading log directory").WithMetadata("dir", dir)
	}

	writer := tabwriter.NewWriter(opts.Factory.Out, 0, 0, 2, ' ', 0)

	if !opts.Quiet {
		fmt.Fprintln(writer, "COMPONENT\tRECORDS")
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != constants.LogFileExtension {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), constants.LogFileExtension)

		if opts.Quiet {
			fmt.Fprintln(writer, name)

			continue
		}

		records, err := output.ReadRecords(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}

		fmt.Fprintf(writer, "%s\t%d\n", name, len(records))
	}

	return writer.Flush()
}
