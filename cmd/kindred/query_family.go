package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kindred/internal/config"
)

func queryFamilyCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "family <id>",
		Short: "Display a family record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryFamily(configPath, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: $KINDRED_CONFIG or kindred.yaml)")
	return cmd
}

func runQueryFamily(configPath, id string) error {
	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return err
	}
	st, _, err := buildStore(cfg, newLogger(os.Stderr, log.WarnLevel))
	if err != nil {
		return err
	}

	family, err := st.GetFamily(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "ID: %s\n", family.ID)
	if family.HusbandID != "" {
		fmt.Fprintf(os.Stdout, "Husband: %s\n", family.HusbandID)
	}
	if family.WifeID != "" {
		fmt.Fprintf(os.Stdout, "Wife: %s\n", family.WifeID)
	}
	if len(family.Children) > 0 {
		fmt.Fprintf(os.Stdout, "Children: %s\n", strings.Join(family.Children, ", "))
	}
	return nil
}
