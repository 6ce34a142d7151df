package analysis

import (
	"fmt"
	"strings"
)

const codeFence = "```"

// replyShapeExample is the literal example of the reply shape the provider
// is instructed to produce. ParseReply expects this same shape back.
const replyShapeExample = `{
  "code": "the improved code here",
  "explanations": [
    {
      "title": "Brief title of the change",
      "description": "Detailed explanation of why this change was made"
    }
  ]
}`

// BuildPrompt renders the instruction prompt for a provider. It is pure:
// the same (code, task, language) always yields the same string, and no I/O
// happens here.
//
// The task must be a known task id. An unknown task is a bug in the caller,
// not a runtime condition, so BuildPrompt panics on it.
func BuildPrompt(code string, task Task, language string) string {
	description, ok := taskDescriptions[task]
	if !ok {
		panic(fmt.Sprintf("analysis: BuildPrompt called with unknown task %q", task))
	}
	instructions := taskInstructions[task]

	var b strings.Builder
	fmt.Fprintf(&b, "Act as a senior software engineer with extensive experience in %s development.\n\n", language)
	fmt.Fprintf(&b, "You are helping a junior developer debug and improve their code. Your task is to %s.\n\n", description)
	b.WriteString("IMPORTANT CONSTRAINTS:\n")
	b.WriteString("- Keep original function names unless they are clearly wrong\n")
	b.WriteString("- Do not exceed 50 lines of code in your response\n")
	b.WriteString("- Provide clear, educational explanations\n")
	fmt.Fprintf(&b, "- Focus on best practices for %s\n\n", language)
	b.WriteString("CODE TO ANALYZE:\n")
	fmt.Fprintf(&b, "%s %s\n%s\n%s\n\n", codeFence, language, code, codeFence)
	b.WriteString(instructions)
	b.WriteString("\n\nReturn your response in the following JSON format:\n")
	b.WriteString(replyShapeExample)
	b.WriteString("\n\nEnsure the code is properly formatted and functional.")
	return b.String()
}
