package recommend

import (
	"strconv"
	"strings"

	_ "embed"
)

//go:embed prompt.md
var promptTemplate string

// The oracle keeps no context between calls, so every prompt restates the
// whole candidate universe. Blocks are separated by a visible divider.
const corpusDivider = "------------------------------"

func buildPrompt(query string, corpus []string, maxResults int) string {
	blocks := strings.Join(corpus, "\n"+corpusDivider+"\n")

	prompt := strings.ReplaceAll(promptTemplate, "{{QUERY}}", query)
	prompt = strings.ReplaceAll(prompt, "{{CATALOG}}", blocks)
	prompt = strings.ReplaceAll(prompt, "{{MAX_RESULTS}}", strconv.Itoa(maxResults))

	return prompt
}
