package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResult_UnmarshalServiceRecord(t *testing.T) {
	data := `{
		"id": 7,
		"text": "I love this",
		"emotion_scores": {"joy": 0.7, "anger": 0.1, "love": 0.7},
		"hallucination_score": 0.42,
		"created_at": "2024-03-01T10:20:30.123456"
	}`

	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(data), &r))

	assert.Equal(t, ID("7"), r.ID)
	assert.Equal(t, "I love this", r.Text)
	assert.InDelta(t, 0.42, r.HallucinationScore, 1e-9)
	assert.Equal(t, []string{"joy", "anger", "love"}, r.EmotionScores.Labels())
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC), r.CreatedAt)
	assert.Equal(t, "2024-03-01T10:20:30.123456", r.RawTime)
}

func TestAnalysisResult_TimestampFallback(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","text":"x","hallucination_score":1,"timestamp":"2024-01-02T03:04:05Z"}`), &r))

	assert.Equal(t, ID("abc"), r.ID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), r.CreatedAt.UTC())
	assert.Empty(t, r.EmotionScores)
}

func TestAnalysisResult_UnparseableTimeKeptRaw(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"text":"x","created_at":"yesterday"}`), &r))

	assert.True(t, r.CreatedAt.IsZero())
	assert.Equal(t, "yesterday", r.LocalTime())
}

func TestEmotions_RejectsNonObject(t *testing.T) {
	var r AnalysisResult
	err := json.Unmarshal([]byte(`{"text":"x","emotion_scores":[1,2]}`), &r)
	assert.Error(t, err)

}

func TestEmotions_BadScoresCountAsZero(t *testing.T) {
	var r AnalysisResult
	data := `{"text":"x","emotion_scores":{"joy":null,"fear":"high","anger":true,"sadness":"0.25","surprise":0.5}}`
	require.NoError(t, json.Unmarshal([]byte(data), &r))

	assert.Equal(t, Emotions{
		{Label: "joy", Score: 0},
		{Label: "fear", Score: 0},
		{Label: "anger", Score: 0},
		{Label: "sadness", Score: 0.25},
		{Label: "surprise", Score: 0.5},
	}, r.EmotionScores)
}

func TestEmotions_NullIsEmpty(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"text":"x","emotion_scores":null}`), &r))
	assert.Empty(t, r.EmotionScores)
}

func TestEmotions_SortedByScoreIsStable(t *testing.T) {
	e := Emotions{
		{Label: "calm", Score: 0.2},
		{Label: "joy", Score: 0.7},
		{Label: "love", Score: 0.2},
		{Label: "anger", Score: 0.7},
	}

	sorted := e.SortedByScore()

	assert.Equal(t, []string{"joy", "anger", "calm", "love"}, sorted.Labels())
	// original untouched
	assert.Equal(t, []string{"calm", "joy", "love", "anger"}, e.Labels())
}

func TestEmotions_MarshalKeepsOrder(t *testing.T) {
	e := Emotions{{Label: "joy", Score: 0.7}, {Label: "anger", Score: 0.1}}

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"joy":0.7,"anger":0.1}`, string(out))
}

func TestID_Marshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}{A: "12", B: "x-1"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":12,"b":"x-1","c":null}`, string(out))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-01T10:20:30Z", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01T10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01 10:20:30.5", time.Date(2024, 3, 1, 10, 20, 30, 500000000, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTime(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, err := ParseTime("not a date")
	assert.Error(t, err)
}

func TestHistory_ReplaceAndPrepend(t *testing.T) {
	list := []AnalysisResult{{ID: "2", Text: "b"}, {ID: "1", Text: "a"}}
	h := NewHistory(list)
	list[0].Text = "mutated"

	require.Equal(t, 2, h.Len())
	assert.Equal(t, "b", h.Entries()[0].Text)

	before := h.Entries()
	h.Prepend(AnalysisResult{ID: "3", Text: "c"})

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, ID("3"), h.Entries()[0].ID)
	assert.Equal(t, ID("2"), h.Entries()[1].ID)
	assert.Len(t, before, 2, "earlier snapshot is not affected by prepend")

	h.Replace(nil)
	assert.Equal(t, 0, h.Len())
}
