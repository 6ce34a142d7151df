// Package analysis implements the relay's core pipeline: rendering a
// deterministic instruction prompt for a provider and recovering a
// structured result from the provider's free-form reply.
package analysis

import (
	"fmt"
	"strings"
)

// Task identifies the kind of code transformation requested by the caller.
type Task string

// The closed set of supported tasks.
const (
	TaskDebug         Task = "debug"
	TaskRefactor      Task = "refactor"
	TaskDebugRefactor Task = "debug-refactor"
	TaskPerformance   Task = "performance"
	TaskComments      Task = "comments"
)

// Tasks returns all supported task ids in a stable order.
func Tasks() []Task {
	return []Task{TaskDebug, TaskRefactor, TaskDebugRefactor, TaskPerformance, TaskComments}
}

// Known reports whether t is one of the supported task ids.
func (t Task) Known() bool {
	_, ok := taskDescriptions[t]
	return ok
}

// taskDescriptions holds the intent description interpolated into the
// prompt's persona framing for each task.
var taskDescriptions = map[Task]string{
	TaskDebug:         "identify and fix bugs, syntax errors, and logical issues",
	TaskRefactor:      "improve code structure, readability, and maintainability without changing functionality",
	TaskDebugRefactor: "first fix any bugs, then improve the code structure and readability",
	TaskPerformance:   "optimize the code for better performance while maintaining correctness",
	TaskComments:      "add comprehensive comments and documentation to explain the code",
}

// taskInstructions holds the task-specific instruction suffix appended after
// the fenced code block.
var taskInstructions = map[Task]string{
	TaskDebug:         "Focus on finding and fixing syntax errors, logical bugs, and runtime issues.",
	TaskRefactor:      "Improve variable names, function structure, and code organization.",
	TaskDebugRefactor: "First ensure the code works correctly, then make it cleaner and more maintainable.",
	TaskPerformance:   "Look for algorithmic improvements, reduce unnecessary operations, and optimize loops.",
	TaskComments:      "Add JSDoc/docstring comments, inline explanations, and usage examples.",
}

// taskSynonyms maps normalized human-friendly phrases to task ids, for
// clients that send a description instead of an id.
var taskSynonyms = map[string]Task{
	"find and fix errors":               TaskDebug,
	"find and fix error":                TaskDebug,
	"find and fix bugs":                 TaskDebug,
	"improve structure":                 TaskRefactor,
	"improve structure and readability": TaskRefactor,
	"full cleanup":                      TaskDebugRefactor,
	"optimize speed":                    TaskPerformance,
	"optimize performance":              TaskPerformance,
	"add comments":                      TaskComments,
	"document code":                     TaskComments,
	"document the code":                 TaskComments,
}

// Every task id must have both an intent description and an instruction
// suffix. A mismatch is a defect in this file, so fail at process start.
func init() {
	for _, t := range Tasks() {
		if taskDescriptions[t] == "" {
			panic(fmt.Sprintf("analysis: task %q has no intent description", t))
		}
		if taskInstructions[t] == "" {
			panic(fmt.Sprintf("analysis: task %q has no instruction suffix", t))
		}
	}
	if len(taskDescriptions) != len(Tasks()) || len(taskInstructions) != len(Tasks()) {
		panic("analysis: instruction tables do not match the task set")
	}
}

// ResolveTask maps free text to a task id. The input is trimmed and
// lowercased; a literal task id passes through, otherwise the synonym table
// is consulted. The second return value is false when nothing matches —
// that is an invalid-input condition for the caller to report, not an error.
func ResolveTask(description string) (Task, bool) {
	key := strings.ToLower(strings.TrimSpace(description))
	if key == "" {
		return "", false
	}
	if t := Task(key); t.Known() {
		return t, true
	}
	t, ok := taskSynonyms[key]
	return t, ok
}
