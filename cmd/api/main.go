package main

import (
	"appointments/cmd/internal/config"
	"appointments/cmd/internal/service"
	"appointments/cmd/internal/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "appointments",
		Usage: "Serve recurring appointments, one-time appointments and game encounters.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				EnvVars: []string{"APPT_CONFIG"},
				Usage:   "YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			sweepCommand(),
			userCommand(),
			grantCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withApplication loads the configuration and runs fn against the wired
// application.
func withApplication(c *cli.Context, fn func(app *application) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApplication(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server.",
		Action: func(c *cli.Context) error {
			return withApplication(c, func(app *application) error {
				if err := app.cfg.Validate(); err != nil {
					return err
				}

				e, err := newServer(app)
				if err != nil {
					return err
				}

				if app.cfg.SweepCron != "" {
					scheduler := cron.New(cron.WithLocation(app.location))
					if _, err := scheduler.AddFunc(app.cfg.SweepCron, app.sweeper.SweepAll); err != nil {
						return fmt.Errorf("invalid sweep_cron %q: %w", app.cfg.SweepCron, err)
					}
					scheduler.Start()
					defer scheduler.Stop()
				}

				ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
				defer stop()

				serveErr := make(chan error, 1)
				go func() {
					serveErr <- e.Start(app.cfg.Listen)
				}()

				select {
				case err := <-serveErr:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				case <-ctx.Done():
				}

				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return e.Shutdown(shutdownCtx)
			})
		},
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Remove elapsed one-time appointments and game encounters once.",
		Action: func(c *cli.Context) error {
			return withApplication(c, func(app *application) error {
				app.sweeper.SweepAll()
				return nil
			})
		},
	}
}

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage users.",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a user for a token subject.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sub", Usage: "token subject, generated when empty"},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.BoolFlag{Name: "admin", Usage: "grant full access to every path"},
				},
				Action: func(c *cli.Context) error {
					return withApplication(c, func(app *application) error {
						sub := c.String("sub")
						if sub == "" {
							sub = uuid.NewString()
						}

						user, apierr := app.users.CreateUser(&service.CreateUserRequest{
							Sub:      sub,
							Username: c.String("username"),
							IsAdmin:  c.Bool("admin"),
						})
						if apierr != nil {
							return apierr
						}

						fmt.Printf("created user %d (%s) with subject %s\n", user.ID, user.Username, sub)
						return nil
					})
				},
			},
		},
	}
}

func grantCommand() *cli.Command {
	return &cli.Command{
		Name:  "grant",
		Usage: "Set the access level of a user for an action in a path.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sub", Required: true},
			&cli.IntFlag{Name: "path", Required: true},
			&cli.StringFlag{Name: "action", Required: true, Usage: "create or delete"},
			&cli.StringFlag{Name: "level", Value: "full", Usage: "forbidden, own, all or full"},
		},
		Action: func(c *cli.Context) error {
			return withApplication(c, func(app *application) error {
				apierr := app.users.SetGrant(&service.GrantRequest{
					Sub:    c.String("sub"),
					PathID: c.Int("path"),
					Action: c.String("action"),
					Level:  c.String("level"),
				})
				if apierr != nil {
					return apierr
				}

				log.Infof("granted %s=%s in path %d to %s", c.String("action"), c.String("level"), c.Int("path"), c.String("sub"))
				return nil
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Sign a bearer token for a subject.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sub", Required: true},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			token, err := utils.SignToken(c.String("sub"), []byte(cfg.JWTSecret), c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}
}
