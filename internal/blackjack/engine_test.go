package blackjack_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackedDecks deals the given decks in order, one per round. Cards are
// dealt player, dealer, player, dealer, then hits and dealer draws.
func stackedDecks(t *testing.T, decks ...string) func() *deck.Deck {
	t.Helper()
	next := 0
	return func() *deck.Deck {
		require.Less(t, next, len(decks), "no scripted deck left")
		d := deck.NewStacked(deck.MustParseCards(decks[next])...)
		next++
		return d
	}
}

type fixture struct {
	engine *blackjack.Engine
	ledger *ledger.Ledger
	store  *store.Memory
	clock  *quartz.Mock
}

func newFixture(t *testing.T, decks []string, opts ...ledger.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	mem := store.NewMemory()
	l, err := ledger.Open(ctx, mem, opts...)
	require.NoError(t, err)

	clock := quartz.NewMock(t)
	clock.Set(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	engineOpts := []blackjack.Option{
		blackjack.WithClock(clock),
		blackjack.WithRecorder(mem),
		blackjack.WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})),
	}
	if decks != nil {
		engineOpts = append(engineOpts, blackjack.WithDeckSource(stackedDecks(t, decks...)))
	}

	e := blackjack.NewEngine(randutil.New(42), l, engineOpts...)
	return &fixture{engine: e, ledger: l, store: mem, clock: clock}
}

func TestPlayerBlackjackOnDeal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"As9dKh7c5h"})

	st, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)

	assert.Equal(t, blackjack.Settled, st.Phase)
	assert.Equal(t, deck.MustParseCards("AsKh"), []deck.Card(st.Player))
	assert.Equal(t, 21, st.PlayerValue)

	// The dealer's 16 must draw even though the player already has 21.
	assert.Len(t, st.Dealer, 3)
	assert.Equal(t, 21, st.DealerValue)

	require.NotNil(t, st.Outcome)
	assert.Equal(t, blackjack.PlayerBlackjack, st.Outcome.Outcome)
	assert.Equal(t, 100, st.Outcome.Delta)
	assert.Equal(t, 1100, st.Bankroll)
}

func TestPlayerBlackjackThreeToTwo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"As9dKh7c5h"}, ledger.WithPayout(ledger.ThreeToTwo))

	st, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, blackjack.PlayerBlackjack, st.Outcome.Outcome)
	assert.Equal(t, 1150, st.Bankroll)
}

func TestBlackjackPushesAgainstDealerBlackjack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"AsAdKhQc"})

	st, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, blackjack.Push, st.Outcome.Outcome)
	assert.Equal(t, 1000, st.Bankroll)
}

func TestPlayerBustOnHit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"Ts9dTh7c5d2c"})

	st, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, blackjack.PlayerTurn, st.Phase)
	assert.Equal(t, 20, st.PlayerValue)
	assert.Nil(t, st.Outcome)

	st, err = f.engine.Hit(ctx)
	require.NoError(t, err)

	assert.Equal(t, blackjack.Settled, st.Phase)
	assert.Equal(t, 25, st.PlayerValue)
	assert.Len(t, st.Dealer, 2, "dealer must not draw after a player bust")
	assert.Equal(t, blackjack.PlayerBust, st.Outcome.Outcome)
	assert.Equal(t, 900, st.Bankroll)
	assert.Equal(t, 1, st.CardsRemaining)
}

func TestHitBelow21StaysInPlayerTurn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"5s9d4h7c2dTc"})

	_, err := f.engine.PlaceBet(ctx, 10)
	require.NoError(t, err)

	st, err := f.engine.Hit(ctx)
	require.NoError(t, err)
	assert.Equal(t, blackjack.PlayerTurn, st.Phase)
	assert.Equal(t, 11, st.PlayerValue)
	assert.Len(t, st.Player, 3)
}

func TestDealerStandsOnSoft17(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"TsAc9h6d5c"})

	_, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)

	st, err := f.engine.Stand(ctx)
	require.NoError(t, err)

	assert.Equal(t, blackjack.Settled, st.Phase)
	assert.Len(t, st.Dealer, 2)
	assert.Equal(t, 17, st.DealerValue)
	assert.True(t, st.DealerSoft)
	assert.Equal(t, blackjack.PlayerWin, st.Outcome.Outcome)
	assert.Equal(t, 1100, st.Bankroll)
	assert.Equal(t, 1, st.CardsRemaining)
}

func TestDealerBusts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"TsTc8h6dKs"})

	_, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	st, err := f.engine.Stand(ctx)
	require.NoError(t, err)

	assert.Equal(t, 26, st.DealerValue)
	assert.Equal(t, blackjack.PlayerWin, st.Outcome.Outcome)
	assert.Equal(t, 1100, st.Bankroll)
}

func TestLossThenPushLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"TsTh7h8s", "Ts9c8h9d"})

	_, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	st, err := f.engine.Stand(ctx)
	require.NoError(t, err)
	assert.Equal(t, blackjack.DealerWin, st.Outcome.Outcome)
	assert.Equal(t, 900, st.Bankroll)

	st, err = f.engine.NewRound()
	require.NoError(t, err)
	assert.Equal(t, blackjack.Betting, st.Phase)
	assert.Empty(t, st.Player)
	assert.Empty(t, st.Dealer)
	assert.Nil(t, st.Outcome)

	_, err = f.engine.PlaceBet(ctx, 50)
	require.NoError(t, err)
	st, err = f.engine.Stand(ctx)
	require.NoError(t, err)
	assert.Equal(t, blackjack.Push, st.Outcome.Outcome)
	assert.Equal(t, 0, st.Outcome.Delta)
	assert.Equal(t, 900, st.Bankroll)

	saved, err := f.store.LoadBankroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900, saved)
}

func TestInvalidBetLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"TsTh7h8s"})

	_, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	_, err = f.engine.Stand(ctx)
	require.NoError(t, err)
	_, err = f.engine.NewRound()
	require.NoError(t, err)

	for _, bet := range []int{1500, 901, 0, -5} {
		t.Run(fmt.Sprint(bet), func(t *testing.T) {
			st, err := f.engine.PlaceBet(ctx, bet)
			assert.ErrorIs(t, err, blackjack.ErrInvalidBet)
			assert.Equal(t, blackjack.Betting, st.Phase)
			assert.Equal(t, 900, st.Bankroll)
			assert.Equal(t, 900, f.ledger.Balance())
		})
	}
}

func TestBetEqualToBankrollIsAccepted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"TsTh7h8s"})

	st, err := f.engine.PlaceBet(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, blackjack.PlayerTurn, st.Phase)

	st, err = f.engine.Stand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Bankroll)

	_, err = f.engine.NewRound()
	require.NoError(t, err)
	_, err = f.engine.PlaceBet(ctx, 1)
	assert.ErrorIs(t, err, blackjack.ErrInvalidBet)
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("betting", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.engine.Hit(ctx)
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		_, err = f.engine.Stand(ctx)
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		_, err = f.engine.NewRound()
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		assert.Equal(t, blackjack.Betting, f.engine.Phase())
	})

	t.Run("player turn", func(t *testing.T) {
		f := newFixture(t, []string{"TsTh7h8s"})
		_, err := f.engine.PlaceBet(ctx, 10)
		require.NoError(t, err)

		_, err = f.engine.PlaceBet(ctx, 10)
		var te *blackjack.TransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "place-bet", te.Command)
		assert.Equal(t, blackjack.PlayerTurn, te.Phase)

		_, err = f.engine.NewRound()
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		assert.Equal(t, blackjack.PlayerTurn, f.engine.Phase())
	})

	t.Run("settled", func(t *testing.T) {
		f := newFixture(t, []string{"TsTh7h8s"})
		_, err := f.engine.PlaceBet(ctx, 10)
		require.NoError(t, err)
		_, err = f.engine.Stand(ctx)
		require.NoError(t, err)

		_, err = f.engine.Hit(ctx)
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		_, err = f.engine.Stand(ctx)
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		_, err = f.engine.PlaceBet(ctx, 10)
		assert.ErrorIs(t, err, blackjack.ErrInvalidTransition)
		assert.Equal(t, blackjack.Settled, f.engine.Phase())
	})
}

func TestDeckExhaustionAbandonsRound(t *testing.T) {
	ctx := context.Background()

	t.Run("on the deal", func(t *testing.T) {
		f := newFixture(t, []string{"Ts9d"})
		st, err := f.engine.PlaceBet(ctx, 100)
		assert.ErrorIs(t, err, blackjack.ErrDeckExhausted)
		assert.Equal(t, blackjack.Betting, st.Phase)
		assert.Equal(t, 1000, st.Bankroll)
	})

	t.Run("on a hit", func(t *testing.T) {
		f := newFixture(t, []string{"Ts9d2h7c"})
		_, err := f.engine.PlaceBet(ctx, 100)
		require.NoError(t, err)
		st, err := f.engine.Hit(ctx)
		assert.ErrorIs(t, err, blackjack.ErrDeckExhausted)
		assert.Equal(t, blackjack.Betting, st.Phase)
		assert.Equal(t, 1000, st.Bankroll)
	})

	t.Run("during the dealer turn", func(t *testing.T) {
		f := newFixture(t, []string{"Ts9dTh2c"})
		_, err := f.engine.PlaceBet(ctx, 100)
		require.NoError(t, err)
		st, err := f.engine.Stand(ctx)
		assert.ErrorIs(t, err, blackjack.ErrDeckExhausted)
		assert.Equal(t, blackjack.Betting, st.Phase)
		assert.Equal(t, 1000, st.Bankroll)

		rounds, err := f.store.RecentRounds(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, rounds)
	})
}

type failingStore struct {
	*store.Memory
	saveErr error
}

func (s *failingStore) SaveBankroll(ctx context.Context, amount int) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Memory.SaveBankroll(ctx, amount)
}

func TestPersistenceFailureStillSettles(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Memory: store.NewMemory(), saveErr: errors.New("disk full")}
	l, err := ledger.Open(ctx, fs)
	require.NoError(t, err)

	e := blackjack.NewEngine(randutil.New(1), l,
		blackjack.WithDeckSource(stackedDecks(t, "TsTh7h8s")))

	_, err = e.PlaceBet(ctx, 100)
	require.NoError(t, err)

	st, err := e.Stand(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, blackjack.Settled, st.Phase)
	assert.Equal(t, 900, st.Bankroll)
}

func TestRoundRecordIsWritten(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"TsTc8h6dKs"})
	started := f.clock.Now()

	st, err := f.engine.PlaceBet(ctx, 100)
	require.NoError(t, err)
	f.clock.Advance(3 * time.Second)
	_, err = f.engine.Stand(ctx)
	require.NoError(t, err)

	rounds, err := f.store.RecentRounds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rounds, 1)

	rec := rounds[0]
	assert.Equal(t, st.RoundID, rec.ID)
	assert.NotEmpty(t, rec.ID)
	assert.True(t, started.Equal(rec.StartedAt))
	assert.True(t, started.Add(3*time.Second).Equal(rec.SettledAt))
	assert.Equal(t, blackjack.PlayerWin, rec.Outcome)
	assert.Equal(t, 100, rec.Delta)
	assert.Equal(t, 1100, rec.BankrollAfter)
	assert.Equal(t, blackjack.Hand(deck.MustParseCards("Ts8h")), rec.Player)
	assert.Equal(t, blackjack.Hand(deck.MustParseCards("Tc6dKs")), rec.Dealer)
}

func TestStateSnapshotDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []string{"5s9d4h7c2dTc"})

	st, err := f.engine.PlaceBet(ctx, 10)
	require.NoError(t, err)
	st.Player[0] = deck.NewCard(deck.Clubs, deck.King)

	again := f.engine.State()
	assert.Equal(t, deck.Five, again.Player[0].Rank)
}

func TestShuffledRoundsAreZeroSum(t *testing.T) {
	// With real shuffles, every round changes the bankroll by exactly the
	// amount the house loses, following the even-money payout table.
	ctx := context.Background()
	mem := store.NewMemory()
	l, err := ledger.Open(ctx, mem, ledger.WithStartingBankroll(1_000_000))
	require.NoError(t, err)
	e := blackjack.NewEngine(randutil.New(7), l)

	const bet = 10
	house := 0
	for i := range 500 {
		before := l.Balance()
		st, err := e.PlaceBet(ctx, bet)
		require.NoError(t, err)
		assert.Equal(t, deck.Size, st.CardsRemaining+len(st.Player)+len(st.Dealer), "round %d", i)

		for st.Phase == blackjack.PlayerTurn && st.PlayerValue < 17 {
			st, err = e.Hit(ctx)
			require.NoError(t, err)
		}
		if st.Phase == blackjack.PlayerTurn {
			st, err = e.Stand(ctx)
			require.NoError(t, err)
		}
		require.Equal(t, blackjack.Settled, st.Phase)
		require.NotNil(t, st.Outcome)

		delta := st.Bankroll - before
		house -= delta
		assert.Equal(t, ledger.Settle(before, bet, st.Outcome.Outcome), st.Bankroll)
		assert.Equal(t, blackjack.Resolve(st.Player, st.Dealer), st.Outcome.Outcome)
		if st.Outcome.Outcome != blackjack.PlayerBust {
			assert.GreaterOrEqual(t, st.DealerValue, blackjack.DealerStandsOn)
		}

		_, err = e.NewRound()
		require.NoError(t, err)
	}
	assert.Zero(t, (l.Balance()-1_000_000)+house)
}

func TestRoundIDs(t *testing.T) {
	ctx := context.Background()
	l, err := ledger.Open(ctx, store.NewMemory())
	require.NoError(t, err)

	n := 0
	e := blackjack.NewEngine(randutil.New(3), l,
		blackjack.WithDeckSource(stackedDecks(t, "TsTh7h8s")),
		blackjack.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("round-%d", n)
		}))

	st, err := e.PlaceBet(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "round-1", st.RoundID)

	// default IDs are UUIDs
	f := newFixture(t, []string{"TsTh7h8s"})
	st, err = f.engine.PlaceBet(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, st.RoundID, 36)
}
