// Package blackjack implements a single-table blackjack round engine.
//
// The main type is Engine, which walks one round at a time through the
// Betting, PlayerTurn, DealerTurn and Settled phases, dealing from a fresh
// shuffled deck each round and settling the bet against a Bankroll.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	e := blackjack.NewEngine(rng, bank)
//	st, err := e.PlaceBet(ctx, 100)
//	for st.Phase == blackjack.PlayerTurn && st.PlayerValue < 17 {
//	    st, err = e.Hit(ctx)
//	}
//	if st.Phase == blackjack.PlayerTurn {
//	    st, err = e.Stand(ctx)
//	}
//	fmt.Println(st.Outcome)
//	st, err = e.NewRound()
//
// # Deterministic Testing
//
// The RNG passed to NewEngine drives every shuffle. For fully scripted
// rounds supply the decks directly:
//
//	e := blackjack.NewEngine(rng, bank,
//	    blackjack.WithDeckSource(func() *deck.Deck {
//	        return deck.NewStacked(deck.MustParseCards("AsKh9d7c")...)
//	    }))
//
// Cards are dealt player, dealer, player, dealer from the top of the deck.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Commands run to completion,
// including the dealer's draw loop, before returning. Tables that run in
// parallel each own an Engine.
package blackjack
