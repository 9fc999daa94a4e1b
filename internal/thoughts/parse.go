package thoughts

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Replies often wrap the JSON in a fenced code block with surrounding prose;
// only the first fenced block is used.
var fencedJSON = regexp.MustCompile("```json\n([\\s\\S]*?)\n```")

// ParseAnalysis converts a raw model reply into an AnalysisResult. The reply
// is not contractually valid JSON: a fenced ```json block is extracted when
// present, stray fence tokens are stripped (idempotent on fence-free text),
// and the remainder is parsed and shape-normalized so all five category and
// nextSteps keys are always present.
func ParseAnalysis(reply string) (AnalysisResult, error) {
	candidate := reply
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		candidate = m[1]
	}
	if strings.Contains(candidate, "```json") {
		candidate = strings.ReplaceAll(candidate, "```json\n", "")
		candidate = strings.ReplaceAll(candidate, "\n```", "")
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	result.normalize()
	return result, nil
}
