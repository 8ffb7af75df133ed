package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyp3rd/complog/internal/output"
)

const defaultTailRecords = 20

// TailOptions holds options for the tail command.
type TailOptions struct {
	Factory *Factory

	Component string
	Records   int
}

// NewCmdTail creates the tail command.
func NewCmdTail(f *Factory, runF func(context.Context, *TailOptions) error) *cobra.Command {
	opts := &TailOptions{Factory: f}

	cmd := &cobra.Command{
		Use:   "tail COMPONENT",
		Short: "Print the newest records of a component",
		Long: `Prints the newest records of a component's log file, oldest first.

Multi-line records, such as errors with a stack trace, are printed whole.`,
		Example: `  # Show the last 20 records of Net
  complog tail Net

  # Show every retained record
  complog tail Net -n 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Component = args[0]
			if runF != nil {
				return runF(cmd.Context(), opts)
			}

			return tailRun(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Records, "lines", "n", defaultTailRecords, "Number of records to show (0 for all)")

	return cmd
}

func tailRun(opts *TailOptions) error {
	path, err := componentPath(opts.Factory, opts.Component)
	if err != nil {
		return err
	}

	records, err := output.ReadRecords(path)
	if err != nil {
		return err
	}

	if opts.Records > 0 && len(records) > opts.Records {
		records = records[len(records)-opts.Records:]
	}

	for _, record := range records {
		fmt.Fprintln(opts.Factory.Out, record)
	}

	return nil
}
