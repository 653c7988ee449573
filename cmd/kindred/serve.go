package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"kindred/internal/config"
	"kindred/internal/mcp"
	"kindred/internal/rpc"
)

func serveCmd() *cobra.Command {
	var configPath string
	var verbose bool
	var useMCP bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve genealogical records over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, verbose, useMCP)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: $KINDRED_CONFIG or kindred.yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&useMCP, "mcp", false, "Serve over the Model Context Protocol instead of the line protocol")
	return cmd
}

func runServe(configPath string, verbose, useMCP bool) error {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := newLogger(os.Stderr, level)

	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return err
	}

	st, snaps, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("serving records",
		"bind_address", cfg.BindAddress,
		"individuals", len(st.ListIndividuals()),
		"families", len(st.ListFamilies()),
		"mcp", useMCP)

	if useMCP {
		server := mcp.NewServer(st, snaps, version)
		return server.Run(context.Background(), &sdk.StdioTransport{})
	}

	var persist rpc.Persister
	if snaps != nil {
		persist = snaps
	}
	server := rpc.NewServer(st, persist, logger)
	return server.Serve(os.Stdin, os.Stdout)
}
