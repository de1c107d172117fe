// Command documind is a terminal client for a DocuMind API: it checks the
// service, asks questions and uploads PDFs using the same session controller
// as the web console.
package main

import (
	"fmt"
	"os"
	"time"

	"documind/internal/config"
	"documind/internal/session"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// environment is filled in by the app's Before hook.
type environment struct {
	cfg    config.Config
	logger *log.Logger
}

func newApp() *cli.App {
	env := &environment{}
	return &cli.App{
		Name:  "documind",
		Usage: "talk to a DocuMind API from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "DocuMind API base URL",
				EnvVars: []string{"DOCUMIND_API_URL"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: env.setup,
		Commands: []*cli.Command{
			healthCommand(env),
			askCommand(env),
			uploadCommand(env),
		},
	}
}

func (e *environment) setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.IsSet("api") {
		cfg.APIBase = c.String("api")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	logger := log.NewWithOptions(c.App.ErrWriter, log.Options{Prefix: "documind"})
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.WarnLevel
	}
	logger.SetLevel(lvl)

	e.cfg = cfg
	e.logger = logger
	return nil
}

// newSession builds a controller for one command run. The CLI has no page
// origin, so an API URL is required.
func (e *environment) newSession(c *cli.Context, notifier session.Notifier) (*session.Session, error) {
	if e.cfg.APIBase == "" {
		return nil, cli.Exit("no API URL: pass --api or set DOCUMIND_API_URL", 2)
	}
	if notifier == nil {
		notifier = alertPrinter(c)
	}
	return session.New(session.Options{
		APIBase:        e.cfg.APIBase,
		HealthTimeout:  e.cfg.HealthTimeout,
		QueryTimeout:   e.cfg.QueryTimeout,
		AutoCloseDelay: e.cfg.AutoCloseDelay,
		Logger:         e.logger,
		Notifier:       notifier,
		// There is no dialog to close in a terminal.
		AfterFunc: func(time.Duration, func()) {},
	})
}

// alertPrinter writes alerts to stderr and drops everything else.
func alertPrinter(c *cli.Context) session.NotifierFunc {
	return func(ev session.Event) {
		if ev.Type == session.EventAlert {
			fmt.Fprintln(c.App.ErrWriter, ev.Text)
		}
	}
}
