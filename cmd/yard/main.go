package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/theyard/yard/internal/buildinfo"
	"github.com/theyard/yard/internal/client/cli"
	"github.com/theyard/yard/internal/client/config"
	"github.com/theyard/yard/internal/flagx"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

// flags taking a value; everything else on the command line is positional
var valuedFlags = append(append([]string{}, config.Flags...), flagx.ConfigFileFlags...)

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                "yard",
		Short:              "Terminal client for The Yard dog park",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			app, err := cli.NewApp(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			app.Run(cmd.Context())
			return nil
		},
	}

	root.AddCommand(newMigrateCmd(), newQRCmd(), newVersionCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "migrate",
		Short:              "Apply the database schema to the remote data store",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if cfg.DatabaseDSN == "" {
				return fmt.Errorf("database DSN is required (-d or YARD_DATABASE_DSN)")
			}
			log := newLogger(cfg)

			db, err := store.OpenPostgres(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Migrate(cmd.Context(), db, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

func newQRCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "qr <petId>",
		Short:              "Print a pet badge as a QR code",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos := flagx.Positional(args, valuedFlags)
			if len(pos) != 1 {
				return fmt.Errorf("usage: yard qr <petId>")
			}
			art, err := cli.RenderQR(pos[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), art)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("%v", err)
	}
}
