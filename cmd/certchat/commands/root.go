package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"certchat/internal/app"
)

var (
	home       string
	configFile string
	logLevel   string
	passphrase string

	wire      *app.Wire
	logCloser io.Closer
)

// Execute runs the root command.
func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "certchat",
		Short:        "Session-scoped certificates and signatures for chat",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if home != "" {
				overrides["home"] = home
			}
			if logLevel != "" {
				overrides["log.level"] = logLevel
			}
			cfg, err := app.LoadConfig(configFile, overrides)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}

			log, closer, err := app.NewLogger(cfg.Log, cfg.Home, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logCloser = closer
			wire = app.NewWire(*cfg, log, nil)
			log.Debug().Str("home", cfg.Home).Str("session_id", wire.Session.ID()).Msg("session ready")
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire != nil {
				wire.Close()
			}
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.certchat)")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for sealed key files")

	root.AddCommand(
		demoCmd(),
		keygenCmd(),
		signCmd(),
		verifyCmd(),
		hmacSignCmd(),
		hmacVerifyCmd(),
		inspectCmd(),
	)
	return root
}

// issueContext bounds certificate issuance by pki.issue_timeout.
func issueContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := wire.Config.PKI.IssueTimeout; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
