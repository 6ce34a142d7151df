// Package models defines the wire and domain types shared between the HTTP
// surface and the analysis core.
package models

// ModelAuto asks the dispatcher to pick a concrete model from the prompt.
const ModelAuto = "auto"

// AnalyzeRequest is the request body for the /analyze endpoint.
//
// Task may be given as the task id (e.g. "debug"), or the client may send a
// human-friendly phrase via TaskDescription. At least one must resolve to a
// known task.
type AnalyzeRequest struct {
	Code            string `json:"code"`
	Task            string `json:"task,omitempty"`
	TaskDescription string `json:"task_description,omitempty"`
	Model           string `json:"model"`
	Language        string `json:"language"`
}

// Explanation is one titled note attached to an analysis result.
type Explanation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalysisResult is the structured reply returned to the caller: the revised
// or annotated code plus an ordered list of explanations. It is built fresh
// per request and never mutated after construction.
type AnalysisResult struct {
	Code         string        `json:"code"`
	Explanations []Explanation `json:"explanations"`
}

// knownLanguages is the closed set of language identifiers accepted on the
// wire. The language is only ever interpolated into the prompt as a label,
// so membership here is a request-validation concern, not an interpreter one.
var knownLanguages = map[string]bool{
	"javascript": true,
	"typescript": true,
	"python":     true,
	"php":        true,
	"html":       true,
	"css":        true,
	"java":       true,
	"csharp":     true,
	"go":         true,
	"rust":       true,
}

// KnownLanguage reports whether s is one of the accepted language ids.
func KnownLanguage(s string) bool {
	return knownLanguages[s]
}
