package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Rounds  int           `short:"n" default:"100000" help:"Rounds to play per table"`
	Tables  int           `short:"t" default:"4" help:"Independent tables played concurrently"`
	Bet     int           `default:"10" help:"Flat bet placed every round"`
	StandOn int           `default:"17" help:"Auto-player stands at this total or higher"`
	Seed    int64         `default:"0" help:"RNG seed (0 for random)"`
	Timeout time.Duration `default:"0s" help:"Give up after this long (0 for no limit)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg.LogLevel)

	payout, err := ledger.ParsePayout(cfg.Table.BlackjackPayout)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	sim := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Tables:  c.Tables,
		Bet:     c.Bet,
		StandOn: c.StandOn,
		Payout:  payout,
		Seed:    seed,
		Logger:  logger,
	})

	logger.Info("Starting simulation",
		"rounds", c.Rounds,
		"tables", c.Tables,
		"seed", seed)

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, stats, sim.Config())
	fmt.Printf("\nSeed: %d, took %s\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}
