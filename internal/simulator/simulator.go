// Package simulator plays blackjack rounds headlessly with a fixed
// auto-player, one engine per table, and aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/store"
	"golang.org/x/sync/errgroup"
)

// DefaultStandOn is the total the auto-player stops hitting at, mirroring
// the dealer.
const DefaultStandOn = blackjack.DealerStandsOn

// DefaultRounds is the number of rounds per table when none is set
const DefaultRounds = 10000

// Config holds configuration for running simulations
type Config struct {
	Rounds  int // Rounds per table
	Tables  int
	Bet     int
	StandOn int
	Payout  ledger.Payout
	Seed    int64
	Logger  *log.Logger
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator, filling in defaults for unset fields
func New(config Config) *Simulator {
	if config.Rounds <= 0 {
		config.Rounds = DefaultRounds
	}
	if config.Tables <= 0 {
		config.Tables = 1
	}
	if config.Bet <= 0 {
		config.Bet = 1
	}
	if config.StandOn <= 0 {
		config.StandOn = DefaultStandOn
	}
	if config.Payout == (ledger.Payout{}) {
		config.Payout = ledger.EvenMoney
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every table concurrently and returns the combined statistics.
// Each table owns its engine, bankroll and RNG; results are merged in table
// order so a seed always reproduces the same report.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	bankroll, err := tableBankroll(s.config.Bet, s.config.Rounds)
	if err != nil {
		return nil, err
	}
	tables := make([]*statistics.Statistics, s.config.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := range tables {
		seed := randutil.Derive(s.config.Seed, i)
		g.Go(func() error {
			stats, err := s.playTable(ctx, i, seed, bankroll)
			if err != nil {
				return fmt.Errorf("table %d (seed %d): %w", i, seed, err)
			}
			tables[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, t := range tables {
		stats.Merge(t)
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playTable runs the configured number of rounds on one fresh engine
func (s *Simulator) playTable(ctx context.Context, table int, seed int64, bankroll int) (*statistics.Statistics, error) {
	logger := s.config.Logger.WithPrefix(fmt.Sprintf("table-%d", table))

	l, err := ledger.Open(ctx, store.NewMemory(),
		ledger.WithStartingBankroll(bankroll),
		ledger.WithPayout(s.config.Payout))
	if err != nil {
		return nil, err
	}

	engine := blackjack.NewEngine(randutil.New(seed), l, blackjack.WithLogger(logger))
	stats := &statistics.Statistics{}

	for round := range s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st, err := s.playRound(ctx, engine)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round+1, err)
		}

		stats.Add(statistics.RoundResult{
			Outcome:     st.Outcome.Outcome,
			Bet:         st.Outcome.Bet,
			Delta:       st.Outcome.Delta,
			PlayerCards: len(st.Player),
			PlayerValue: st.PlayerValue,
			Seed:        seed,
		})

		if _, err := engine.NewRound(); err != nil {
			return nil, err
		}
	}

	logger.Debug("Table finished", "rounds", stats.Rounds, "net", stats.NetChips)
	return stats, nil
}

// tableBankroll returns enough chips that a flat bettor can never run dry
func tableBankroll(bet, rounds int) (int, error) {
	if rounds >= math.MaxInt/bet {
		return 0, fmt.Errorf("bet %d over %d rounds overflows the table bankroll", bet, rounds)
	}
	return bet * (rounds + 1), nil
}

// playRound bets, hits below the stand threshold and returns the settled state
func (s *Simulator) playRound(ctx context.Context, engine *blackjack.Engine) (blackjack.State, error) {
	st, err := engine.PlaceBet(ctx, s.config.Bet)
	if err != nil {
		return st, err
	}

	for st.Phase == blackjack.PlayerTurn {
		if st.PlayerValue < s.config.StandOn {
			st, err = engine.Hit(ctx)
		} else {
			st, err = engine.Stand(ctx)
		}
		if err != nil {
			return st, err
		}
	}

	if st.Outcome == nil {
		return st, fmt.Errorf("round ended in %s without an outcome", st.Phase)
	}
	return st, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, config Config) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS (hit below %d, flat bet %d, blackjack pays %s) ===\n",
		config.StandOn, config.Bet, config.Payout)
	fmt.Fprintf(w, "Rounds played: %d across %d tables\n", stats.Rounds, config.Tables)
	fmt.Fprintf(w, "Wagered: %d chips, net %+d chips\n", stats.Wagered, stats.NetChips)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f bets/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f bets/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f bets\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f bets\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] bets/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "House edge: %.2f%%\n", stats.Edge()*100)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for o := blackjack.PlayerBlackjack; o <= blackjack.PlayerBust; o++ {
		counts := stats.Outcomes[o]
		fmt.Fprintf(w, "%-16s %8d rounds (%5.1f%%) %+10d chips\n", o, counts.Rounds, stats.Rate(o)*100, counts.Chips)
	}
	fmt.Fprintf(w, "Drawn 21s: %d\n", stats.DrawnTwentyOnes)
}

// Config returns the effective configuration after defaults
func (s *Simulator) Config() Config {
	return s.config
}
