package weakness

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Report is the combined weakness analysis for one user.
type Report struct {
	Handle     string           `json:"handle"`
	Rating     int              `json:"rating"`
	WeakBands  []BandReport     `json:"weak_bands"`
	WeakTopics []TopicReport    `json:"weak_topics"`
	Topics     []TopicBreakdown `json:"topic_breakdown,omitempty"`
	Summary    string           `json:"summary,omitempty"`
}

// Fingerprint returns a stable hash of the detected weaknesses. Two reports
// with identical weak bands and topics share a fingerprint, which lets
// callers cache generated summaries across refreshes.
func (r Report) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d", r.Handle, r.Rating)
	for _, band := range r.WeakBands {
		fmt.Fprintf(&b, "|b:%d:%d:%d", band.Band, band.Attempted, band.Solved)
	}
	for _, topic := range r.WeakTopics {
		fmt.Fprintf(&b, "|t:%s:%d:%d", topic.Topic, topic.Attempted, topic.Solved)
	}
	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return fmt.Sprintf("%016x", h.Sum64())
}

// HasFindings reports whether the analysis detected anything actionable.
func (r Report) HasFindings() bool {
	return len(r.WeakBands) > 0 || len(r.WeakTopics) > 0
}
