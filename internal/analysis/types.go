// Package analysis provides the core types for text analysis results.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ID identifies an analysis record. The service may send it as a JSON
// number or a string; both are kept in their textual form.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	switch res.Type {
	case gjson.Null:
		*id = ""
	case gjson.String, gjson.Number:
		*id = ID(res.String())
	default:
		return fmt.Errorf("id: unsupported JSON type %s", res.Type)
	}
	return nil
}

// MarshalJSON writes integer-looking IDs as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// EmotionScore is one emotion label and its intensity in [0,1].
type EmotionScore struct {
	Label string
	Score float64
}

// Emotions maps emotion labels to scores, keeping the order in which the
// service sent the keys.
type Emotions []EmotionScore

// UnmarshalJSON decodes a JSON object of label → score without losing key order.
func (e *Emotions) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("emotion scores: invalid JSON")
	}

	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*e = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("emotion scores: expected object, got %s", res.Type)
	}

	var out Emotions
	res.ForEach(func(key, value gjson.Result) bool {
		out = out.with(key.String(), scoreValue(value))
		return true
	})

	*e = out
	return nil
}

// scoreValue reads a single emotion score. Null, booleans and anything
// that is not numeric count as 0 so one bad label doesn't reject the record.
func scoreValue(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number, gjson.String:
		return v.Float()
	default:
		return 0
	}
}

// MarshalJSON writes the scores as a JSON object in their original order.
func (e Emotions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(s.Score, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// with sets label to score. A repeated label keeps its first position.
func (e Emotions) with(label string, score float64) Emotions {
	for i := range e {
		if e[i].Label == label {
			e[i].Score = score
			return e
		}
	}
	return append(e, EmotionScore{Label: label, Score: score})
}

// Get returns the score for label.
func (e Emotions) Get(label string) (float64, bool) {
	for _, s := range e {
		if s.Label == label {
			return s.Score, true
		}
	}
	return 0, false
}

// Labels returns the labels in key order.
func (e Emotions) Labels() []string {
	labels := make([]string, 0, len(e))
	for _, s := range e {
		labels = append(labels, s.Label)
	}
	return labels
}

// SortedByScore returns a copy sorted by descending score. Equal scores keep
// their key order.
func (e Emotions) SortedByScore() Emotions {
	sorted := make(Emotions, len(e))
	copy(sorted, e)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

// AnalysisResult is one analysis record as returned by the service.
type AnalysisResult struct {
	ID                 ID        `json:"id"`
	Text               string    `json:"text"`
	HallucinationScore float64   `json:"hallucination_score"` // 0 (unsupported) .. 1 (fully supported)
	EmotionScores      Emotions  `json:"emotion_scores"`
	CreatedAt          time.Time `json:"-"` // Zero when RawTime could not be parsed
	RawTime            string    `json:"-"` // created_at (or timestamp) as sent
}

// timeLayouts are tried in order. Zone-less layouts are read as UTC, which is
// how the service stores created_at.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses an ISO datetime as sent by the service.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime: %q", raw)
}

type wireResult struct {
	ID                 ID       `json:"id"`
	Text               string   `json:"text"`
	HallucinationScore float64  `json:"hallucination_score"`
	EmotionScores      Emotions `json:"emotion_scores"`
	CreatedAt          string   `json:"created_at,omitempty"`
	Timestamp          string   `json:"timestamp,omitempty"`
}

// UnmarshalJSON reads created_at, falling back to timestamp.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	raw := w.CreatedAt
	if raw == "" {
		raw = w.Timestamp
	}

	*r = AnalysisResult{
		ID:                 w.ID,
		Text:               w.Text,
		HallucinationScore: w.HallucinationScore,
		EmotionScores:      w.EmotionScores,
		RawTime:            raw,
	}
	if raw != "" {
		if t, err := ParseTime(raw); err == nil {
			r.CreatedAt = t
		}
	}
	return nil
}

// MarshalJSON writes the record in the service's shape.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	w := wireResult{
		ID:                 r.ID,
		Text:               r.Text,
		HallucinationScore: r.HallucinationScore,
		EmotionScores:      r.EmotionScores,
		CreatedAt:          r.RawTime,
	}
	if w.EmotionScores == nil {
		w.EmotionScores = Emotions{}
	}
	return json.Marshal(w)
}

// LocalTime formats the record time in the local zone. Unparseable times are
// returned as sent.
func (r AnalysisResult) LocalTime() string {
	if r.CreatedAt.IsZero() {
		return r.RawTime
	}
	return r.CreatedAt.Local().Format("2006-01-02 15:04:05")
}
