package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kindred/internal/config"
)

func queryListCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:       "list [individuals|families]",
		Short:     "List records in insertion order",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"individuals", "families"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryList(configPath, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: $KINDRED_CONFIG or kindred.yaml)")
	return cmd
}

func runQueryList(configPath, kind string) error {
	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return err
	}
	st, _, err := buildStore(cfg, newLogger(os.Stderr, log.WarnLevel))
	if err != nil {
		return err
	}

	switch kind {
	case "individuals":
		individuals := st.ListIndividuals()
		if len(individuals) == 0 {
			fmt.Fprintln(os.Stdout, "No individuals found.")
			return nil
		}
		for _, individual := range individuals {
			name := individual.Name
			if !individual.HasName() {
				name = "(unnamed)"
			}
			fmt.Fprintf(os.Stdout, "%s %s\n", individual.ID, name)
		}
	case "families":
		families := st.ListFamilies()
		if len(families) == 0 {
			fmt.Fprintln(os.Stdout, "No families found.")
			return nil
		}
		for _, family := range families {
			fmt.Fprintf(os.Stdout, "%s husband=%s wife=%s children=%d\n",
				family.ID, orDash(family.HusbandID), orDash(family.WifeID), len(family.Children))
		}
	}
	return nil
}

func orDash(id string) string {
	if id == "" {
		return "-"
	}
	return id
}
