package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/system.txt
var systemPrompt string

// SystemPrompt returns the fixed system instruction with the expected JSON schema.
func SystemPrompt() string {
	return systemPrompt
}

// RequestType selects an optional instruction prepended to the user's text.
type RequestType string

const (
	RequestNone          RequestType = ""
	RequestSummarize     RequestType = "summarize"
	RequestActionPlan    RequestType = "actionPlan"
	RequestDeepAnalysis  RequestType = "deepAnalysis"
	RequestCreativeIdeas RequestType = "creativeIdeas"
	RequestQuestions     RequestType = "questions"
)

// BuildPrompt produces the user prompt for a thought analysis request.
// Known request types prepend their fixed instruction; anything else passes
// the raw text through unmodified.
func BuildPrompt(text string, requestType RequestType) string {
	switch requestType {
	case RequestSummarize:
		return "Produce a concise summary of the following thoughts: " + text
	case RequestActionPlan:
		return "Create a detailed action plan from the following thoughts: " + text
	case RequestDeepAnalysis:
		return "Perform a deep psychological analysis of the following thoughts: " + text
	case RequestCreativeIdeas:
		return "Suggest creative ideas related to the following thoughts: " + text
	case RequestQuestions:
		return "Suggest reflective questions that deepen thinking about the following topics: " + text
	default:
		return text
	}
}

// ParseRequestType maps a wire value to a RequestType. Unknown values fall
// back to RequestNone rather than failing, matching BuildPrompt's pass-through.
func ParseRequestType(raw string) RequestType {
	switch RequestType(strings.TrimSpace(raw)) {
	case RequestSummarize:
		return RequestSummarize
	case RequestActionPlan:
		return RequestActionPlan
	case RequestDeepAnalysis:
		return RequestDeepAnalysis
	case RequestCreativeIdeas:
		return RequestCreativeIdeas
	case RequestQuestions:
		return RequestQuestions
	default:
		return RequestNone
	}
}
