package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	LogFile string `default:"blackjack.log" help:"Log file path; the terminal belongs to the table while playing"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	bank, err := ledger.Open(ctx, s, append(cfg.LedgerOptions(), ledger.WithLogger(logger))...)
	if err != nil {
		return err
	}
	if bank.Balance() == 0 {
		return errors.New("your bankroll is empty, run `blackjack bankroll reset` to start again")
	}

	var seedArg *int64
	if c.Seed != 0 {
		seedArg = &c.Seed
	}
	rng, seed := randutil.Resolve(seedArg)

	logger.Info("Starting table",
		"seed", seed,
		"bankroll", bank.Balance(),
		"payout", bank.Payout(),
		"storage", cfg.Storage.Backend)

	engine := blackjack.NewEngine(rng, bank,
		blackjack.WithLogger(logger),
		blackjack.WithRecorder(s))

	model := tui.New(ctx, engine, logger)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			logger.Info("Interrupted")
			return nil
		}
		return fmt.Errorf("running table: %w", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf(" Leaving the table with $%d ", bank.Balance())))
	return nil
}
