package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/blackjack"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Outcome     blackjack.Outcome
	Bet         int   // Chips staked
	Delta       int   // Bankroll change in chips
	PlayerCards int   // Cards in the player's final hand
	PlayerValue int   // Value of the player's final hand
	Seed        int64 // Table seed the round was played under (for replay)
}

// Units returns the result measured in bets
func (r RoundResult) Units() float64 {
	if r.Bet == 0 {
		return 0
	}
	return float64(r.Delta) / float64(r.Bet)
}

// OutcomeStats tracks results for a single outcome
type OutcomeStats struct {
	Rounds int
	Chips  int
}

// Statistics tracks blackjack simulation results
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	Wagered  int // Total chips bet
	NetChips int // Total chips won or lost

	// Outcomes is indexed by blackjack.Outcome; index 0 is unused
	Outcomes [blackjack.PlayerBust + 1]OutcomeStats

	// Hands of three or more cards that still reached 21
	DrawnTwentyOnes int
}

// Mean returns the arithmetic mean in bets per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	units := result.Units()
	s.Rounds++
	s.SumUnits += units
	s.SumUnits2 += units * units
	s.Values = append(s.Values, units)

	s.Wagered += result.Bet
	s.NetChips += result.Delta

	if o := result.Outcome; o >= blackjack.PlayerBlackjack && o <= blackjack.PlayerBust {
		s.Outcomes[o].Rounds++
		s.Outcomes[o].Chips += result.Delta
	}

	if result.PlayerCards > 2 && result.PlayerValue == blackjack.Target {
		s.DrawnTwentyOnes++
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.NetChips += other.NetChips
	for i := range s.Outcomes {
		s.Outcomes[i].Rounds += other.Outcomes[i].Rounds
		s.Outcomes[i].Chips += other.Outcomes[i].Chips
	}
	s.DrawnTwentyOnes += other.DrawnTwentyOnes
}

// Rate returns the fraction of rounds that ended with outcome o
func (s *Statistics) Rate(o blackjack.Outcome) float64 {
	if s.Rounds == 0 || o < blackjack.PlayerBlackjack || o > blackjack.PlayerBust {
		return 0
	}
	return float64(s.Outcomes[o].Rounds) / float64(s.Rounds)
}

// Edge returns the house edge as a fraction of chips wagered
func (s *Statistics) Edge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -float64(s.NetChips) / float64(s.Wagered)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that per-outcome chips add up to the net result
func (s *Statistics) IsLedgerBalanced() bool {
	sum := 0
	for _, o := range s.Outcomes {
		sum += o.Chips
	}
	return sum == s.NetChips
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: net %d chips does not match outcome totals", s.NetChips)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	total := 0
	for _, o := range s.Outcomes {
		total += o.Rounds
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds count (%d)", total, s.Rounds)
	}

	// A push never moves chips and a bust always loses the stake
	if s.Outcomes[blackjack.Push].Chips != 0 {
		return fmt.Errorf("pushes moved %d chips", s.Outcomes[blackjack.Push].Chips)
	}
	if s.Outcomes[blackjack.PlayerBust].Chips > 0 {
		return fmt.Errorf("busts won %d chips", s.Outcomes[blackjack.PlayerBust].Chips)
	}

	return nil
}
