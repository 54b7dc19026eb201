package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	claimscog "husky/internal/commands/claims"
	"husky/internal/commands/help"
	"husky/internal/commands/todo"
	"husky/internal/commands/web"

	"husky/internal/claims"
	"husky/internal/command"
	"husky/internal/config"
	"husky/internal/discord"
	"husky/internal/logging"
	"husky/internal/session"
	"husky/internal/store"
	"husky/internal/sweeper"
	v "husky/internal/version"
	"husky/pkg/jobmgr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
		MaxFiles:  cfg.LogMaxFiles,
	})
	log.Info().Str("version", v.Version).Msgf("starting %s", v.AppName)

	st, err := store.Open(cfg.DBPath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	registry := command.NewRegistry()
	for _, cog := range []*command.Cog{
		claimscog.Cog(),
		todo.Cog(),
		web.Cog(),
		help.Cog(),
	} {
		if err := registry.Register(cog); err != nil {
			return err
		}
	}

	validator := claims.NewValidator(st, log, cfg.ClaimRadius, cfg.ClaimLimit)
	sessions := session.NewManager(log)

	bot, err := discord.New(cfg, log, registry, st, validator, sessions)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := jobmgr.New(log)
	defer jobs.StopAll()

	sw := sweeper.New(st, bot.Notifier(), log, cfg.SweepInterval, cfg.SweepThreshold)
	if err := jobs.Start("task-sweep", sw.Run); err != nil {
		return err
	}
	tr := sweeper.NewTrimmer(st, log, cfg.TrimInterval, cfg.TaskRetention)
	if err := jobs.Start("task-trim", tr.Run); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		return <-errCh
	case err := <-errCh:
		return err
	}
}
