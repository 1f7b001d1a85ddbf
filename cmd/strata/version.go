package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the strata version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(o.stdout, "strata %s\n", version)
			return err
		},
	}
}
