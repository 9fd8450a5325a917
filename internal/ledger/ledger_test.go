package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		outcome blackjack.Outcome
		want    int
	}{
		{blackjack.PlayerWin, 1100},
		{blackjack.PlayerBlackjack, 1100},
		{blackjack.DealerWin, 900},
		{blackjack.PlayerBust, 900},
		{blackjack.Push, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Settle(1000, 100, tt.outcome))
		})
	}
}

func TestPayoutDelta(t *testing.T) {
	assert.Equal(t, 150, ThreeToTwo.Delta(100, blackjack.PlayerBlackjack))
	assert.Equal(t, 7, ThreeToTwo.Delta(5, blackjack.PlayerBlackjack))
	assert.Equal(t, 100, ThreeToTwo.Delta(100, blackjack.PlayerWin))
	assert.Equal(t, -100, ThreeToTwo.Delta(100, blackjack.DealerWin))
	assert.Equal(t, 0, ThreeToTwo.Delta(100, blackjack.Push))
	assert.Equal(t, 100, EvenMoney.Delta(100, blackjack.PlayerBlackjack))
}

func TestParsePayout(t *testing.T) {
	p, err := ParsePayout("3:2")
	require.NoError(t, err)
	assert.Equal(t, ThreeToTwo, p)
	assert.Equal(t, "3:2", p.String())

	p, err = ParsePayout(" 1:1 ")
	require.NoError(t, err)
	assert.Equal(t, EvenMoney, p)

	for _, bad := range []string{"", "3", "3:0", "x:2", "-1:1"} {
		_, err := ParsePayout(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenDefaultsWhenNothingSaved(t *testing.T) {
	l, err := Open(context.Background(), store.NewMemory())
	require.NoError(t, err)
	assert.Equal(t, DefaultStartingBankroll, l.Balance())
	assert.Equal(t, EvenMoney, l.Payout())
}

func TestOpenReadsSavedBankroll(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveBankroll(ctx, 432))

	l, err := Open(ctx, mem, WithStartingBankroll(5000))
	require.NoError(t, err)
	assert.Equal(t, 432, l.Balance())
}

type brokenStore struct {
	loadErr error
	saveErr error
	amount  int
}

func (b *brokenStore) LoadBankroll(context.Context) (int, error) { return b.amount, b.loadErr }
func (b *brokenStore) SaveBankroll(context.Context, int) error    { return b.saveErr }

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), &brokenStore{loadErr: errors.New("boom")})
	assert.ErrorContains(t, err, "boom")

	_, err = Open(context.Background(), &brokenStore{amount: -5})
	assert.Error(t, err)
}

func TestSettleWritesThrough(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	l, err := Open(ctx, mem)
	require.NoError(t, err)

	got, err := l.Settle(ctx, 100, blackjack.DealerWin)
	require.NoError(t, err)
	assert.Equal(t, 900, got)

	got, err = l.Settle(ctx, 50, blackjack.Push)
	require.NoError(t, err)
	assert.Equal(t, 900, got)

	saved, err := mem.LoadBankroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900, saved)
}

func TestSettleSaveFailureKeepsBalance(t *testing.T) {
	ctx := context.Background()
	bs := &brokenStore{loadErr: store.ErrNotFound}
	l, err := Open(ctx, bs)
	require.NoError(t, err)

	bs.saveErr = errors.New("read-only")
	got, err := l.Settle(ctx, 100, blackjack.PlayerWin)
	assert.Error(t, err)
	assert.Equal(t, 1100, got)
	assert.Equal(t, 1100, l.Balance())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	l, err := Open(ctx, mem, WithStartingBankroll(250))
	require.NoError(t, err)

	_, err = l.Settle(ctx, 100, blackjack.PlayerBust)
	require.NoError(t, err)
	require.Equal(t, 150, l.Balance())

	require.NoError(t, l.Reset(ctx))
	assert.Equal(t, 250, l.Balance())
	saved, err := mem.LoadBankroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, saved)
}
