// Command complog inspects the per-component log files of an application.
package main

import (
	"os"

	"github.com/hyp3rd/complog/internal/cli"
)

// Version is set at build time.
var Version = "dev"

func main() {
	err := cli.NewCmdRoot(cli.NewFactory(Version)).Execute()
	if err != nil {
		os.Exit(1)
	}
}
