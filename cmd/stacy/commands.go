package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/mirzahilmi/stacy/internal/common/httperr"
	iot "github.com/mirzahilmi/stacy/internal/iot/port"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func commands() []*cobra.Command {
	return []*cobra.Command{
		createUserCommand(),
		signupCommand(),
		loginCommand(),
		refreshCommand(),
		createPlantCommand(),
		createDeviceCommand(),
		sendReadingCommand(),
		listPlantsCommand(),
		listenCommand(),
	}
}

// exec wraps a command body with signal handling and maps its failure to
// the process exit code.
func exec(fn func(ctx context.Context, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		err := fn(ctx, cmd)
		stop()
		if code := httperr.Report(err); code != httperr.EXIT_OK {
			os.Exit(code)
		}
		return nil
	}
}

func withClient(fn func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error) func(*cobra.Command, []string) error {
	return exec(func(ctx context.Context, cmd *cobra.Command) error {
		client, err := iot.NewClient(cfg)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, client)
	})
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printResult(cmd *cobra.Command, operation string, res iot.Result) error {
	if res.Legacy {
		log.Warn().
			Str("operation", operation).
			Int("status", res.Status).
			Msg("client: server answered with a legacy status code")
	}
	log.Info().Str("operation", operation).Int("status", res.Status).Msg("client: request accepted")
	if len(res.Body) == 0 {
		return nil
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(res.Body); err != nil {
		return err
	}
	_, err := out.Write([]byte("\n"))
	return err
}

func createUserCommand() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a user and print the issued uid",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			uid, err := client.CreateUser(ctx, username, email, password)
			if err != nil {
				return err
			}
			if uid == "" {
				log.Warn().Msg("client: server did not return a uid")
			}
			return printJSON(cmd, map[string]string{"uid": uid})
		}),
	}
	cmd.Flags().StringVar(&username, "username", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "plain password, hashed by the server")
	return cmd
}

func signupCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and print the session",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			session, err := client.Signup(ctx, email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd, session)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the uid and bearer token",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			return printJSON(cmd, session)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func refreshCommand() *cobra.Command {
	var uid, device string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the configured token for a fresh one",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			session, err := client.RefreshToken(ctx, fallback(uid, cfg.Uid), fallback(device, cfg.DeviceId))
			if err != nil {
				return err
			}
			return printJSON(cmd, session)
		}),
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user uid (defaults to config uid)")
	cmd.Flags().StringVar(&device, "device", "", "device id (defaults to config device_id)")
	return cmd
}

func createPlantCommand() *cobra.Command {
	var uid, device, name string
	cmd := &cobra.Command{
		Use:   "create-plant",
		Short: "Attach a named plant to a device and user",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			res, err := client.CreatePlant(ctx, fallback(uid, cfg.Uid), fallback(device, cfg.DeviceId), name)
			if err != nil {
				return err
			}
			return printResult(cmd, "create-plant", res)
		}),
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user uid (defaults to config uid)")
	cmd.Flags().StringVar(&device, "device", "", "device id (defaults to config device_id)")
	cmd.Flags().StringVar(&name, "name", "", "plant name")
	return cmd
}

func createDeviceCommand() *cobra.Command {
	var uid, device string
	cmd := &cobra.Command{
		Use:   "create-device",
		Short: "Associate a device with a user",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			res, err := client.CreateDevice(ctx, fallback(device, cfg.DeviceId), fallback(uid, cfg.Uid))
			if err != nil {
				return err
			}
			return printResult(cmd, "create-device", res)
		}),
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user uid (defaults to config uid)")
	cmd.Flags().StringVar(&device, "device", "", "device id (defaults to config device_id)")
	return cmd
}

func sendReadingCommand() *cobra.Command {
	var (
		uid, device string
		simulate    bool
		count       int
		interval    time.Duration
		values      = map[string]*float64{}
	)
	fields := []string{"temperature", "moisture", "humidity", "pressure", "hic", "battery-voltage", "battery-percentage"}

	cmd := &cobra.Command{
		Use:   "send-reading",
		Short: "Post sensor telemetry for a device",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			random := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
			manual := iot.Reading{}
			set := map[string]**float64{
				"temperature":        &manual.Temperature,
				"moisture":           &manual.Moisture,
				"humidity":           &manual.Humidity,
				"pressure":           &manual.Pressure,
				"hic":                &manual.Hic,
				"battery-voltage":    &manual.BatteryVoltage,
				"battery-percentage": &manual.BatteryPercentage,
			}
			for _, field := range fields {
				if cmd.Flags().Changed(field) {
					*set[field] = values[field]
				}
			}

			for i := 0; i < count; i++ {
				if i > 0 && interval > 0 {
					select {
					case <-time.After(interval):
					case <-ctx.Done():
						return ctx.Err()
					}
				}

				reading := manual
				if simulate {
					reading = iot.SimulateReading(random)
				}
				res, err := client.CreatePlantData(ctx, fallback(uid, cfg.Uid), fallback(device, cfg.DeviceId), reading)
				if err != nil {
					return err
				}
				if err := printResult(cmd, "send-reading", res); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user uid (defaults to config uid)")
	cmd.Flags().StringVar(&device, "device", "", "device id (defaults to config device_id)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "generate plausible random values")
	cmd.Flags().IntVar(&count, "count", 1, "number of readings to send")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between readings")
	for _, field := range fields {
		values[field] = new(float64)
		cmd.Flags().Float64Var(values[field], field, 0, field+" value")
	}
	return cmd
}

func listPlantsCommand() *cobra.Command {
	var uid string
	cmd := &cobra.Command{
		Use:   "list-plants",
		Short: "Print the plants owned by a user",
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, client *iot.Client) error {
			plants, err := client.GetPlantsFromUser(ctx, fallback(uid, cfg.Uid))
			if err != nil {
				return err
			}
			return printJSON(cmd, plants)
		}),
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user uid (defaults to config uid)")
	return cmd
}

func listenCommand() *cobra.Command {
	var (
		uid, identity, clientId string
		sinks                   []string
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Subscribe to the push channel and surface every event",
		RunE: exec(func(ctx context.Context, cmd *cobra.Command) error {
			c := cfg
			c.Uid = fallback(uid, c.Uid)
			c.Listener.Identity = fallback(identity, c.Listener.Identity)
			c.Listener.ClientId = fallback(clientId, c.Listener.ClientId)
			return listen(ctx, c, sinks)
		}),
	}
	cmd.Flags().StringVar(&uid, "uid", "", "user uid (defaults to config uid)")
	cmd.Flags().StringVar(&identity, "identity", "", "identification frame key: uid or clientId")
	cmd.Flags().StringVar(&clientId, "client-id", "", "client id sent when identity is clientId")
	cmd.Flags().StringSliceVar(&sinks, "sink", []string{SINK_LOG}, "event sinks: log, stdout, mqtt")
	return cmd
}
