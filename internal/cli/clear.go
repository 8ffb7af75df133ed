package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
	"github.com/hyp3rd/complog/internal/output"
	"github.com/hyp3rd/complog/internal/utils"
)

// ErrNoComponentLog is returned for a component without a log file.
var ErrNoComponentLog = ewrap.New("component has no log file")

// ClearOptions holds options for the clear command.
type ClearOptions struct {
	Factory *Factory

	Components []string
}

// NewCmdClear creates the clear command.
func NewCmdClear(f *Factory, runF func(context.Context, *ClearOptions) error) *cobra.Command {
	opts := &ClearOptions{Factory: f}

	cmd := &cobra.Command{
		Use:   "clear COMPONENT [COMPONENT...]",
		Short: "Drop every record of one or more components",
		Long: `Truncates the log files of the given components. The files are rewritten
under the same lock a running application takes when compacting them.`,
		Example: `  # Clear the Net log
  complog clear Net

  # Clear several logs
  complog clear Net DB Sync`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Components = args
			if runF != nil {
				return runF(cmd.Context(), opts)
			}

			return clearRun(opts)
		},
	}

	return cmd
}

func clearRun(opts *ClearOptions) error {
	errorGroup := ewrap.NewErrorGroup()

	for _, component := range opts.Components {
		err := clearComponent(opts.Factory, component)
		if err != nil {
			errorGroup.Add(ewrap.Wrap(err, "clearing component log").WithMetadata("component", component))

			continue
		}

		fmt.Fprintf(opts.Factory.ErrOut, "cleared %s\n", component)
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

func clearComponent(f *Factory, component string) error {
	path, err := componentPath(f, component)
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoComponentLog
		}

		return ewrap.Wrap(err, "inspecting log file").WithMetadata("path", path)
	}

	sink, err := output.NewLineFile(output.LineFileConfig{
		Path:     path,
		MaxLines: constants.DefaultMaxLines,
		FileMode: complog.LogFilePermissions,
	})
	if err != nil {
		return err
	}

	err = sink.Clear()
	closeErr := sink.Close()

	if err != nil {
		return err
	}

	return closeErr
}

// componentPath maps a component name to its file the way the registry's file
// sink factory does.
func componentPath(f *Factory, component string) (string, error) {
	dir, err := f.LogDir()
	if err != nil {
		return "", err
	}

	path, err := utils.SecurePath(dir, utils.SafeFileName(component)+constants.LogFileExtension)
	if err != nil {
		return "", ewrap.Wrap(err, "invalid component name").WithMetadata("component", component)
	}

	return path, nil
}
