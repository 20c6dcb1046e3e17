// Package weakness turns raw submission history into per-topic and
// per-rating-band statistics and detects weak areas. Pure data analysis;
// no AI and no I/O.
package weakness

import (
	"sort"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/scoring"
)

// Detection thresholds. Topics and bands below the minimum attempt counts
// are never reported, regardless of failure rate, to keep small samples out
// of the results.
const (
	MinAttemptsWeakBand = 8
	WeakUnsolvedRate    = 0.60

	MinAttemptsWeakTopic = 6
	WeakTopicSolvedRate  = 0.40

	// DefaultTopicLimit and DefaultMinAttempts bound the weakness-score
	// ranking of topics.
	DefaultTopicLimit  = 5
	DefaultMinAttempts = 3

	secondsPerDay = 86400.0
)

// TopicBreakdown is the aggregated weakness view of one topic.
type TopicBreakdown struct {
	Topic         string  `json:"topic"`
	Score         float64 `json:"score"`
	Attempts      int     `json:"attempts"`
	Successes     int     `json:"successes"`
	FailureRate   float64 `json:"failure_rate"`
	AvgRating     int     `json:"avg_rating"`
	DaysSinceLast float64 `json:"days_since_last"`
}

// AggregateTopics computes a weakness breakdown per canonical tag from raw
// submissions. Submissions without tags or without a rating are skipped.
func AggregateTopics(subs []model.Submission, userRating int, now time.Time) map[string]TopicBreakdown {
	type acc struct {
		attempts  int
		successes int
		ratingSum int
		last      time.Time
	}
	stats := make(map[string]*acc)

	for _, sub := range subs {
		if len(sub.Tags) == 0 || !sub.Rated() {
			continue
		}
		for _, tag := range sub.Tags {
			a := stats[tag]
			if a == nil {
				a = &acc{}
				stats[tag] = a
			}
			a.attempts++
			a.ratingSum += sub.Rating
			if sub.Verdict.Accepted() {
				a.successes++
			}
			if sub.At.After(a.last) {
				a.last = sub.At
			}
		}
	}

	out := make(map[string]TopicBreakdown, len(stats))
	for topic, a := range stats {
		if a.attempts == 0 {
			continue
		}
		avgRating := a.ratingSum / a.attempts
		daysAgo := 0.0
		if !a.last.IsZero() && now.After(a.last) {
			daysAgo = now.Sub(a.last).Seconds() / secondsPerDay
		}
		score := scoring.Weakness(scoring.WeaknessInput{
			Attempts:      a.attempts,
			Successes:     a.successes,
			ProblemRating: avgRating,
			UserRating:    userRating,
			DaysSinceLast: daysAgo,
		})
		out[topic] = TopicBreakdown{
			Topic:         topic,
			Score:         score,
			Attempts:      a.attempts,
			Successes:     a.successes,
			FailureRate:   round2(float64(a.attempts-a.successes) / float64(a.attempts)),
			AvgRating:     avgRating,
			DaysSinceLast: round1(daysAgo),
		}
	}
	return out
}

// RankTopics orders topic breakdowns by weakness score descending, breaking
// ties by topic name for determinism, and drops topics below minAttempts.
func RankTopics(breakdowns map[string]TopicBreakdown, minAttempts, limit int) []TopicBreakdown {
	ranked := make([]TopicBreakdown, 0, len(breakdowns))
	for _, b := range breakdowns {
		if b.Attempts >= minAttempts {
			ranked = append(ranked, b)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Topic < ranked[j].Topic
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BandReport describes one weak rating band.
type BandReport struct {
	Band         int     `json:"-"`
	Label        string  `json:"band"`
	Attempted    int     `json:"attempted"`
	Solved       int     `json:"solved"`
	Unsolved     int     `json:"unsolved"`
	UnsolvedRate float64 `json:"unsolved_rate"`
}

// WeakBands detects rating bands where the user keeps failing: at least
// MinAttemptsWeakBand attempts and an unsolved rate of WeakUnsolvedRate or
// worse. Sorted by unsolved rate descending, band ascending on ties.
func WeakBands(stats []model.ContestProblemStat) []BandReport {
	type counts struct{ attempted, solved int }
	bands := make(map[int]*counts)

	for _, s := range stats {
		if !s.Attempted || s.Rating <= 0 {
			continue
		}
		b := model.Band(s.Rating)
		c := bands[b]
		if c == nil {
			c = &counts{}
			bands[b] = c
		}
		c.attempted++
		if s.Solved {
			c.solved++
		}
	}

	var weak []BandReport
	for b, c := range bands {
		if c.attempted < MinAttemptsWeakBand {
			continue
		}
		unsolved := c.attempted - c.solved
		rate := float64(unsolved) / float64(c.attempted)
		if rate < WeakUnsolvedRate {
			continue
		}
		weak = append(weak, BandReport{
			Band:         b,
			Label:        model.BandLabel(b),
			Attempted:    c.attempted,
			Solved:       c.solved,
			Unsolved:     unsolved,
			UnsolvedRate: round2(rate),
		})
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i].UnsolvedRate != weak[j].UnsolvedRate {
			return weak[i].UnsolvedRate > weak[j].UnsolvedRate
		}
		return weak[i].Band < weak[j].Band
	})
	return weak
}

// TopicReport describes one weak topic.
type TopicReport struct {
	Topic      string  `json:"topic"`
	Attempted  int     `json:"attempted"`
	Solved     int     `json:"solved"`
	Failed     int     `json:"failed"`
	SolvedRate float64 `json:"solved_rate"`
}

// WeakTopics detects topics with a low solve rate: at least
// MinAttemptsWeakTopic attempts and a solved rate below WeakTopicSolvedRate.
// Sorted worst first (solved rate ascending), topic name on ties.
func WeakTopics(stats []model.ContestProblemStat) []TopicReport {
	type counts struct{ attempted, solved int }
	topics := make(map[string]*counts)

	for _, s := range stats {
		if !s.Attempted || len(s.Tags) == 0 {
			continue
		}
		for _, tag := range s.Tags {
			c := topics[tag]
			if c == nil {
				c = &counts{}
				topics[tag] = c
			}
			c.attempted++
			if s.Solved {
				c.solved++
			}
		}
	}

	var weak []TopicReport
	for topic, c := range topics {
		if c.attempted < MinAttemptsWeakTopic {
			continue
		}
		rate := float64(c.solved) / float64(c.attempted)
		if rate >= WeakTopicSolvedRate {
			continue
		}
		weak = append(weak, TopicReport{
			Topic:      topic,
			Attempted:  c.attempted,
			Solved:     c.solved,
			Failed:     c.attempted - c.solved,
			SolvedRate: round2(rate),
		})
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i].SolvedRate != weak[j].SolvedRate {
			return weak[i].SolvedRate < weak[j].SolvedRate
		}
		return weak[i].Topic < weak[j].Topic
	})
	return weak
}

func round1(v float64) float64 { return roundTo(v, 10) }
func round2(v float64) float64 { return roundTo(v, 100) }

func roundTo(v float64, factor float64) float64 {
	if v >= 0 {
		return float64(int64(v*factor+0.5)) / factor
	}
	return float64(int64(v*factor-0.5)) / factor
}
