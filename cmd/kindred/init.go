package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var gedcomPath string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a starter kindred.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(gedcomPath)
		},
	}
	cmd.Flags().StringVar(&gedcomPath, "gedcom", "./records/family.ged", "GEDCOM source file path")
	return cmd
}

func runInit(gedcomPath string) error {
	configPath := "kindred.yaml"
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contents := fmt.Sprintf("bind_address: 127.0.0.1:8378\ngedcom_path: %s\npersistence_path: ./records/state.json\n", gedcomPath)
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s\n", configPath)
	return nil
}
