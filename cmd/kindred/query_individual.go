package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kindred/internal/config"
	"kindred/internal/gedcom"
)

func queryIndividualCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "individual <id>",
		Short: "Display an individual and its family relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryIndividual(configPath, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: $KINDRED_CONFIG or kindred.yaml)")
	return cmd
}

func runQueryIndividual(configPath, id string) error {
	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return err
	}
	st, _, err := buildStore(cfg, newLogger(os.Stderr, log.WarnLevel))
	if err != nil {
		return err
	}

	individual, err := st.GetIndividual(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "ID: %s\n", individual.ID)
	if individual.HasName() {
		fmt.Fprintf(os.Stdout, "Name: %s\n", individual.Name)
	}
	printEvent("Birth", individual.Birth)
	printEvent("Death", individual.Death)
	if len(individual.SpouseIn) > 0 {
		fmt.Fprintf(os.Stdout, "Spouse in: %s\n", strings.Join(individual.SpouseIn, ", "))
	}
	if len(individual.ChildIn) > 0 {
		fmt.Fprintf(os.Stdout, "Child in: %s\n", strings.Join(individual.ChildIn, ", "))
	}
	return nil
}

func printEvent(label string, event *gedcom.Event) {
	if event == nil {
		return
	}
	parts := make([]string, 0, 2)
	if event.Date != "" {
		parts = append(parts, event.Date)
	}
	if event.Place != "" {
		parts = append(parts, event.Place)
	}
	fmt.Fprintf(os.Stdout, "%s: %s\n", label, strings.Join(parts, ", "))
}
