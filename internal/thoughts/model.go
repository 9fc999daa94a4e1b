package thoughts

import "time"

// CategorySet is the fixed five-bucket classification shape. All five keys are
// mandatory at the type level so no consumer needs a presence check.
type CategorySet struct {
	Tasks       []string `json:"tasks"`
	Ideas       []string `json:"ideas"`
	Goals       []string `json:"goals"`
	Reflections []string `json:"reflections"`
	Decisions   []string `json:"decisions"`
}

// AnalysisResult is the structured output of analyzing one thought.
// Themes keep model-assigned relevance order; duplicates are not removed here.
type AnalysisResult struct {
	Summary    string      `json:"summary"`
	Themes     []string    `json:"themes"`
	Categories CategorySet `json:"categories"`
	NextSteps  CategorySet `json:"nextSteps"`
	Advice     string      `json:"advice"`
}

// SavedThought is a persisted record: one thought owns exactly one analysis,
// overwritten on edit or reanalyze, never historized.
type SavedThought struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Date     string         `json:"date"`
	Analysis AnalysisResult `json:"analysis"`

	// Machine timestamps used for ordering and the Postgres mirror; the wire
	// and file formats carry only the display date above.
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// normalize fills nil sequences with empty ones so that missing keys in a
// model reply never propagate as null/absent to consumers.
func (r *AnalysisResult) normalize() {
	r.Themes = emptyIfNil(r.Themes)
	r.Categories.normalize()
	r.NextSteps.normalize()
}

func (s *CategorySet) normalize() {
	s.Tasks = emptyIfNil(s.Tasks)
	s.Ideas = emptyIfNil(s.Ideas)
	s.Goals = emptyIfNil(s.Goals)
	s.Reflections = emptyIfNil(s.Reflections)
	s.Decisions = emptyIfNil(s.Decisions)
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// FormatDate renders the display date the way the record collection shows it,
// day first, matching the existing saved data.
func FormatDate(t time.Time) string {
	return t.Format("2.1.2006, 15:04:05")
}
