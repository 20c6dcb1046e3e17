package weakness

import (
	"sort"

	"github.com/okian/cpcoach/internal/domain/model"
)

// BuildContestStats folds raw contest submissions into one stat row per
// contest problem. Only submissions made during the contest window or after
// it count; a problem is "solved after contest" when its first accepted
// submission falls outside the contest window.
func BuildContestStats(subs []model.Submission) []model.ContestProblemStat {
	byProblem := make(map[string]*model.ContestProblemStat)
	var order []string

	for _, sub := range subs {
		if sub.ContestID <= 0 || sub.Index == "" {
			continue
		}
		key := sub.ProblemKey()
		stat := byProblem[key]
		if stat == nil {
			stat = &model.ContestProblemStat{
				ContestID: sub.ContestID,
				ProblemID: key,
				Name:      sub.Name,
				Rating:    sub.Rating,
				Tags:      sub.Tags,
			}
			byProblem[key] = stat
			order = append(order, key)
		}
		mergeSubmission(stat, sub)
	}

	out := make([]model.ContestProblemStat, 0, len(order))
	for _, key := range order {
		out = append(out, *byProblem[key])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContestID != out[j].ContestID {
			return out[i].ContestID < out[j].ContestID
		}
		return out[i].ProblemID < out[j].ProblemID
	})
	return out
}

func mergeSubmission(stat *model.ContestProblemStat, sub model.Submission) {
	stat.Attempted = true
	stat.AttemptCount++
	if stat.FirstAttemptAt.IsZero() || sub.At.Before(stat.FirstAttemptAt) {
		stat.FirstAttemptAt = sub.At
	}
	if stat.Rating == 0 && sub.Rating > 0 {
		stat.Rating = sub.Rating
	}
	if len(stat.Tags) == 0 && len(sub.Tags) > 0 {
		stat.Tags = sub.Tags
	}

	if !sub.Verdict.Accepted() {
		return
	}
	if stat.Solved && !stat.SolvedAt.IsZero() && !sub.At.Before(stat.SolvedAt) {
		return
	}
	stat.Solved = true
	stat.SolvedAt = sub.At
	if sub.InContest() {
		stat.SolvedAfterContest = false
		stat.TimeToAC = sub.RelativeTimeSeconds
	} else {
		stat.SolvedAfterContest = true
		stat.TimeToAC = 0
	}
}
