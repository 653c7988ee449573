package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query records from the CLI",
	}
	cmd.AddCommand(queryIndividualCmd())
	cmd.AddCommand(queryFamilyCmd())
	cmd.AddCommand(queryListCmd())
	return cmd
}
