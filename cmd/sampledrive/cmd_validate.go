package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/sampledrive/internal/projectconfig"
	"github.com/spboyer/sampledrive/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Check a project config file against its schema",
		Long: `Validate a .sampledrive.yaml file against the embedded JSON Schema.

Without an argument the --config file is checked, or else the
.sampledrive.yaml in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: validateCommandE,
	}
}

//nolint:errcheck // display-only writes
func validateCommandE(cmd *cobra.Command, args []string) error {
	path := projectconfig.FileName
	switch {
	case len(args) == 1:
		path = args[0]
	case configPath != "":
		path = configPath
	}

	errs, err := validation.ValidateConfigFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no config file at %s", path)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if len(errs) > 0 {
		fmt.Fprintln(out, errorMsg("%s has %d schema error(s):", path, len(errs)))
		for _, e := range errs {
			fmt.Fprintf(out, "  - %s\n", e)
		}
		return fmt.Errorf("%s is not valid", path)
	}

	// Schema-valid files can still describe a bad catalog.
	cfg, err := projectconfig.LoadFile(path)
	if err != nil {
		return err
	}
	if _, err := cfg.Catalog(); err != nil {
		fmt.Fprintln(out, errorMsg("%v", err))
		return fmt.Errorf("%s is not valid", path)
	}

	fmt.Fprintln(out, successMsg("%s is valid", path))
	return nil
}
