// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of research-index",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("research-index %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
