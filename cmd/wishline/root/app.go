package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wishline/internal/api"
	"wishline/internal/config"
	"wishline/internal/flow"
	"wishline/internal/logging"
	"wishline/internal/nav"
	"wishline/internal/storage"
	"wishline/internal/theme"
	"wishline/internal/ui"
	"wishline/internal/wish"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg config.Config
	log *logging.Logger

	kv      storage.KV
	session *storage.Session

	client     *api.Client
	auth       *api.AuthService
	categories *api.CategoryService
	tasks      *api.TaskService
	system     *api.SystemService

	stack  *nav.Stack
	flows  *flow.Flows
	themes *theme.Store

	out io.Writer
}

func openStore(ctx context.Context, cfg config.Config) (storage.KV, func(), error) {
	kv, err := storage.OpenKV(ctx, cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = kv.Close()
	}
	return kv, cleanup, nil
}

func openApp(cmd *cobra.Command) (*app, func(), error) {
	ctx := cmd.Context()
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.Open(logging.Options{Level: cfg.LogLevel, Verbose: cfg.Verbose, Stderr: cmd.ErrOrStderr()})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("config loaded", "file", cfg.File, "api", cfg.APIBaseURL, "store", cfg.StorePath, "driver", cfg.StoreDriver)

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	cleanup := func() {
		closeStore()
		_ = logger.Close()
	}

	session := storage.NewSession(kv)
	client := api.NewClient(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
		Tokens:  session,
		Logger:  logger.Logger,
	})
	auth := api.NewAuthService(client)

	stack := nav.NewStack(true)
	cooldown := cfg.OTPResendCooldown
	if cooldown == 0 {
		cooldown = -1
	}
	flows := flow.New(flow.Deps{
		Session:        session,
		Auth:           auth,
		Nav:            nav.NewHelper(stack, logger.Logger),
		Logger:         logger.Logger,
		ResendCooldown: cooldown,
	})

	themes := theme.NewStore(kv, theme.TerminalDetector, logger.Logger)
	if err := themes.Load(ctx); err != nil {
		logger.Warn("theme preference not loaded", "err", err)
	}
	ui.Use(themes.Scheme())

	return &app{
		cfg:        cfg,
		log:        logger,
		kv:         kv,
		session:    session,
		client:     client,
		auth:       auth,
		categories: api.NewCategoryService(client),
		tasks:      api.NewTaskService(client),
		system:     api.NewSystemService(client),
		stack:      stack,
		flows:      flows,
		themes:     themes,
		out:        cmd.OutOrStdout(),
	}, cleanup, nil
}

// requireUser returns the stored user or an error pointing at the login command.
func (a *app) requireUser(ctx context.Context) (wish.User, error) {
	u, err := a.flows.RequireUser(ctx)
	if err != nil {
		a.printNext()
		return wish.User{}, err
	}
	return u, nil
}

// printNext tells the user which command opens the route the flow navigated to.
func (a *app) printNext() {
	r, ok := a.stack.Current()
	if !ok {
		return
	}
	if msg := r.Param("message"); msg != "" {
		fmt.Fprintln(a.out, ui.Good.Render(ui.IconDone+" "+msg))
	}
	fmt.Fprintln(a.out, ui.Muted.Render("Next: ")+ui.Key.Render(r.Command()))
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(cmd.Context(), a)
}
