package codeforces

import (
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/tags"
)

// envelope is the outer frame of every Codeforces API response.
type envelope struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

type userInfoResponse struct {
	envelope
	Result []wireUser `json:"result"`
}

type userStatusResponse struct {
	envelope
	Result []wireSubmission `json:"result"`
}

type problemsetResponse struct {
	envelope
	Result struct {
		Problems []wireProblem `json:"problems"`
	} `json:"result"`
}

type wireUser struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	MaxRating int    `json:"maxRating"`
	Rank      string `json:"rank"`
}

type wireProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
}

type wireSubmission struct {
	ID                  int64       `json:"id"`
	ContestID           int         `json:"contestId"`
	CreationTimeSeconds int64       `json:"creationTimeSeconds"`
	RelativeTimeSeconds int64       `json:"relativeTimeSeconds"`
	Problem             wireProblem `json:"problem"`
	Verdict             string      `json:"verdict"`
}

// UserInfo is the profile slice of a Codeforces account the service uses.
type UserInfo struct {
	Handle    string
	Rating    int
	MaxRating int
	Rank      string
}

func (u wireUser) toDomain() UserInfo {
	return UserInfo{
		Handle:    u.Handle,
		Rating:    u.Rating,
		MaxRating: u.MaxRating,
		Rank:      u.Rank,
	}
}

func (s wireSubmission) toDomain() model.Submission {
	return model.Submission{
		ID:                  s.ID,
		ContestID:           s.Problem.ContestID,
		Index:               s.Problem.Index,
		Name:                s.Problem.Name,
		Rating:              s.Problem.Rating,
		Tags:                tags.NormalizeAll(s.Problem.Tags),
		Verdict:             model.ParseVerdict(s.Verdict),
		RelativeTimeSeconds: s.RelativeTimeSeconds,
		At:                  time.Unix(s.CreationTimeSeconds, 0).UTC(),
	}
}

// toDomain validates the wire problem and normalizes its tags. Problems
// without a contest, index, or rating in the supported range are dropped
// by the caller.
func (p wireProblem) toDomain() (model.Problem, error) {
	return model.NewProblem(p.ContestID, p.Index, p.Name, p.Rating, tags.NormalizeAll(p.Tags))
}
