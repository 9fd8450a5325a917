package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/store"
)

type BankrollCmd struct {
	Show  BankrollShowCmd  `cmd:"" default:"1" help:"Show the bankroll and recent rounds"`
	Reset BankrollResetCmd `cmd:"" help:"Restore the starting bankroll"`
}

type BankrollShowCmd struct {
	Limit int `short:"n" default:"10" help:"Number of recent rounds to list"`
}

func (c *BankrollShowCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	return showBankroll(context.Background(), os.Stdout, cfg, c.Limit)
}

type BankrollResetCmd struct{}

func (c *BankrollResetCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	return resetBankroll(context.Background(), os.Stdout, cfg)
}

// withLedger opens the configured store and ledger for the duration of fn
func withLedger(ctx context.Context, cfg *config.Config, fn func(store.Store, *ledger.Ledger) error) error {
	logger := stderrLogger(cfg.LogLevel)

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
	return fn(s, bank)
}

func showBankroll(ctx context.Context, w io.Writer, cfg *config.Config, limit int) error {
	return withLedger(ctx, cfg, func(s store.Store, bank *ledger.Ledger) error {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(" Bankroll: $%d ", bank.Balance())))

		rounds, err := s.RecentRounds(ctx, limit)
		if err != nil {
			return fmt.Errorf("loading round history: %w", err)
		}
		if len(rounds) == 0 {
			fmt.Fprintln(w, "No rounds played yet")
			return nil
		}

		fmt.Fprintf(w, "\nLast %d rounds:\n", len(rounds))
		for _, r := range rounds {
			fmt.Fprintln(w, formatRound(r))
		}
		return nil
	})
}

func resetBankroll(ctx context.Context, w io.Writer, cfg *config.Config) error {
	return withLedger(ctx, cfg, func(_ store.Store, bank *ledger.Ledger) error {
		before := bank.Balance()
		if err := bank.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintf(w, "Bankroll reset from $%d to $%d\n", before, bank.Balance())
		return nil
	})
}

func formatRound(r blackjack.RoundRecord) string {
	return fmt.Sprintf("  %s  %-16s bet %-5d %+6d  -> %-6d %s (%d) vs %s (%d)",
		r.SettledAt.Local().Format("2006-01-02 15:04"),
		r.Outcome,
		r.Bet,
		r.Delta,
		r.BankrollAfter,
		r.Player, r.Player.Value(),
		r.Dealer, r.Dealer.Value())
}
