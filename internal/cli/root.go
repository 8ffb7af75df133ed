package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCmdRoot builds the complog command tree.
func NewCmdRoot(f *Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complog",
		Short: "Inspect per-component log files",
		Long: `Complog reads the bounded log files written for each component of an
application, one "<component>.log" file per component in the log directory.

The directory comes from --dir, from the file.dir key of --config, or from the
COMPLOG_FILE_DIR environment variable, in that order.`,
		SilenceUsage: true,
		Version:      f.Version,
	}

	cmd.SetOut(f.Out)
	cmd.SetErr(f.ErrOut)
	cmd.SetVersionTemplate(fmt.Sprintf("complog %s\n", f.Version))

	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&f.Dir, "dir", "", "Log directory, overriding the configuration")

	cmd.AddCommand(NewCmdList(f, nil))
	cmd.AddCommand(NewCmdTail(f, nil))
	cmd.AddCommand(NewCmdClear(f, nil))

	return cmd
}
