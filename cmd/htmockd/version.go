package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print htmockd's version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("htmockd " + version)
		return nil
	},
}
