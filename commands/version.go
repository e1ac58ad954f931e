package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bchw version",
		Run: func(c *cobra.Command, args []string) {
			fmt.Println("Version:   ", Version)
			fmt.Println("Go Version:", runtime.Version())
			fmt.Println("OS / Arch: ", runtime.GOOS+"/"+runtime.GOARCH)
		},
	}
}
