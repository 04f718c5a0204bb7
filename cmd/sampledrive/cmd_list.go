package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the sample workflows in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Samples.Len() == 0 {
				fmt.Fprintln(out, "No samples configured.") //nolint:errcheck
				return nil
			}

			fmt.Fprintf(out, "%-20s %s\n", "Key", "Label") //nolint:errcheck
			for _, e := range st.Samples.Entries() {
				fmt.Fprintf(out, "%-20s %s\n", e.Key, e.Label) //nolint:errcheck
			}
			return nil
		},
	}
}
