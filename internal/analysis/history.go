package analysis

// History is the client-visible log of analyses, newest first.
//
// It is replaced wholesale when the full history is fetched and grows by
// prepending each new analysis. Records are never edited or removed.
type History struct {
	entries []AnalysisResult
}

// NewHistory returns a history holding a copy of entries.
func NewHistory(entries []AnalysisResult) History {
	var h History
	h.Replace(entries)
	return h
}

// Replace swaps the whole history for list.
func (h *History) Replace(list []AnalysisResult) {
	entries := make([]AnalysisResult, len(list))
	copy(entries, list)
	h.entries = entries
}

// Prepend puts entry at index 0.
func (h *History) Prepend(entry AnalysisResult) {
	entries := make([]AnalysisResult, 0, len(h.entries)+1)
	entries = append(entries, entry)
	entries = append(entries, h.entries...)
	h.entries = entries
}

// Entries returns the records, newest first. The slice is shared and must
// not be modified.
func (h History) Entries() []AnalysisResult {
	return h.entries
}

// Len returns the number of records.
func (h History) Len() int {
	return len(h.entries)
}
