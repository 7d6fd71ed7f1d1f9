package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/app"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/shutdown"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "consumer [config-path]",
		Short: "FmtBroker Kafka consumer",
		Long: "Consumes one Kafka topic and logs every record with its extracted fields.\n" +
			"Config path defaults to $IST_CFG/FmtBroker.cfg or " + config.DefaultPath + ".",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), path)
		},
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "consumer: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, arg string) error {
	_ = godotenv.Load(".env.local")

	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	path := config.ResolvePath(arg)
	props, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	if env.Consumer.ApplyDefaults {
		props = config.ApplyDefaults(props)
	}
	consumerCfg, err := config.Validate(props)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	a, cleanup, err := app.Bootstrap(ctx, env, consumerCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	a.Logger.Infof(ctx, "config loaded path=%s", path)

	// SIGINT/SIGTERM → единственный вызов Stop у сессии
	unsubscribe := shutdown.Notify(ctx, a.Consumer, a.Logger)
	defer unsubscribe()

	return a.Run(ctx)
}
