package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/fileutil"
)

// File keeps the bankroll and recent rounds in one JSON document that is
// rewritten atomically on every change.
type File struct {
	path string

	mu    sync.Mutex
	state fileState
}

type fileState struct {
	Bankroll *int        `json:"bankroll,omitempty"`
	Rounds   []roundJSON `json:"rounds,omitempty"`
}

// OpenFile loads path if it exists. A missing file is an empty store.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}

	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &f.state); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return f, nil
}

// LoadBankroll returns ErrNotFound until a bankroll has been saved
func (f *File) LoadBankroll(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Bankroll == nil {
		return 0, ErrNotFound
	}
	return *f.state.Bankroll, nil
}

// SaveBankroll updates the bankroll and rewrites the file atomically
func (f *File) SaveBankroll(_ context.Context, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Bankroll = &amount
	return f.flush()
}

// RecordRound appends rec, keeps the last MaxHistory rounds and rewrites
// the file
func (f *File) RecordRound(_ context.Context, rec blackjack.RoundRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Rounds = append(f.state.Rounds, encodeRound(rec))
	if len(f.state.Rounds) > MaxHistory {
		f.state.Rounds = f.state.Rounds[len(f.state.Rounds)-MaxHistory:]
	}
	return f.flush()
}

// RecentRounds returns up to n rounds, newest first
func (f *File) RecentRounds(_ context.Context, n int) ([]blackjack.RoundRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rounds := make([]blackjack.RoundRecord, 0, len(f.state.Rounds))
	for _, r := range f.state.Rounds {
		rec, err := r.decode()
		if err != nil {
			return nil, fmt.Errorf("round %s: %w", r.ID, err)
		}
		rounds = append(rounds, rec)
	}
	return newestFirst(rounds, n), nil
}

// Close is a no-op; every write is already on disk
func (f *File) Close() error { return nil }

// flush must be called with mu held
func (f *File) flush() error {
	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
