package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"walletlink/internal/infra/config"
	"walletlink/internal/infra/logger"
	"walletlink/internal/infra/tracer"
	"walletlink/pkg/transport/wstransport"
	"walletlink/pkg/walletsdk"
)

var (
	cfgPath string
	hostURL string

	cfg    *config.Config
	log    *slog.Logger
	client *walletsdk.Client

	logClose       func() error
	tracerShutdown func(context.Context) error
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "walletlink",
		Short:         "Diagnostic client for a wallet host",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgPath == "" {
				cfgPath = config.DefaultPath()
			}
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if hostURL != "" {
				cfg.Host.URL = hostURL
				if err := config.Validate(cfg); err != nil {
					return fmt.Errorf("config: %w", err)
				}
			}

			log, logClose, err = logger.New(cfg.Logger)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}

			tracerShutdown, err = tracer.Setup(cmd.Context(), cfg.Tracer)
			if err != nil {
				return fmt.Errorf("tracer: %w", err)
			}

			tr := wstransport.New(cfg.Host.URL,
				wstransport.WithLogger(log),
				wstransport.WithOrigin(cfg.Host.Origin),
			)
			client = walletsdk.New(tr, walletsdk.WithLogger(log))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $WALLETLINK_CONFIG or ~/.walletlink/config.yaml)")
	root.PersistentFlags().StringVar(&hostURL, "url", "", "wallet host websocket URL (overrides config)")

	root.AddCommand(accountsCmd(), currenciesCmd(), requestCmd(), receiveCmd(),
		signCmd(), broadcastCmd(), estimateCmd(), syncCmd(), exchangeCmd(), deviceCmd())

	err := root.ExecuteContext(ctx)

	if tracerShutdown != nil {
		if terr := tracerShutdown(context.Background()); terr != nil && err == nil {
			err = terr
		}
	}
	if logClose != nil {
		_ = logClose()
	}
	return err
}

// withSession connects to the configured host, runs fn, and disconnects.
// The dial honors host.connect_timeout; fn runs under the command context,
// so user interaction on the host side can take as long as it takes.
func withSession(ctx context.Context, fn func(ctx context.Context) error) error {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Host.ConnectTimeoutDuration())
	defer cancel()
	if err := client.Connect(dialCtx); err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	return fn(ctx)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
