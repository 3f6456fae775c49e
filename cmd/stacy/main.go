package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/mirzahilmi/stacy/internal/common/config"
	"github.com/mirzahilmi/stacy/internal/common/httperr"
	"github.com/mirzahilmi/stacy/internal/common/logging"
	"github.com/rs/zerolog/log"
)

type options struct {
	LogLevel   string `doc:"Log verbosity level" default:"info"`
	ConfigPath string `doc:"Configuration file path (json or yaml)" name:"config"`
}

var cfg config.Config

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *options) {
		if err := logging.Init(options.LogLevel); err != nil {
			stdlog.Fatal(err)
		}

		loaded, err := config.Load(options.ConfigPath)
		if err != nil {
			os.Exit(httperr.Report(err))
		}
		cfg = loaded
		log.Debug().
			Str("base_url", cfg.BaseUrl).
			Str("websocket_url", cfg.WebsocketUrl()).
			Str("identity", cfg.Identity).
			Msg("config: loaded")

		job := newSession()

		hooks.OnStart(func() {
			err := job.run(func(ctx context.Context) error {
				return listen(ctx, cfg, []string{SINK_LOG})
			})
			if code := httperr.Report(err); code != httperr.EXIT_OK {
				os.Exit(code)
			}
		})

		hooks.OnStop(func() {
			if !job.stop(SHUTDOWN_GRACE) {
				log.Warn().Dur("grace", SHUTDOWN_GRACE).Msg("listener: shut down timed out")
				return
			}
			log.Info().Msg("listener: shut down complete")
		})
	})

	root := cli.Root()
	root.Short = "Client for the stacy plant monitoring server"
	root.Long = "Without a subcommand the root command subscribes to the push channel and logs every event."
	root.SilenceUsage = true
	root.AddCommand(commands()...)

	cli.Run()
}
