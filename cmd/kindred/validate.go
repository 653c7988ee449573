package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kindred/internal/gedcom"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.ged>",
		Short: "Check a GEDCOM file for structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(path string) error {
	data, err := gedcom.ParseFile(path)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	fmt.Fprintf(os.Stdout, "%s: %d individuals, %d families\n",
		path, len(data.Individuals), len(data.Families))
	return nil
}
