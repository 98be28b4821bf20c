// Package formatter builds the chat prompts sent to the backend and tidies
// the commit messages it returns.
package formatter

import (
	"regexp"
	"strings"

	"github.com/samzong/aigit/internal/llm"
)

// CommitType is an allowed conventional commit type.
type CommitType struct {
	Name        string
	Description string
}

// CommitTypes is the closed set of types a generated message may use.
var CommitTypes = []CommitType{
	{Name: "feat", Description: "a new feature"},
	{Name: "fix", Description: "a bug fix"},
	{Name: "docs", Description: "documentation only changes"},
	{Name: "style", Description: "formatting and whitespace changes that do not affect behavior"},
	{Name: "refactor", Description: "a code change that neither fixes a bug nor adds a feature"},
	{Name: "test", Description: "adding or correcting tests"},
	{Name: "chore", Description: "build process, tooling or dependency changes"},
}

// Lead-in sentences placed before the verbatim input in the user turn.
const (
	ExplainLeadIn = "Explain the following git changes:\n\n"
	CommitLeadIn  = "Generate a commit message for the change described below. " +
		"Reply with the commit message only, without any surrounding commentary.\n\n"
)

var (
	explainSystemPrompt = mustRender(explainTemplateName)
	commitSystemPrompt  = mustRender(commitTemplateName)

	headerPattern = regexp.MustCompile(`^([A-Za-z]+)(\([^\)]*\))?(!)?:\s*(.*)$`)
	fencePattern  = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*\\s*\n(.*?)\n?```$")
)

func mustRender(name string) string {
	prompt, err := RenderTemplate(name, TemplateData{Types: CommitTypes})
	if err != nil {
		panic(err)
	}
	return prompt
}

// BuildExplainPrompt returns the [system, user] conversation asking for a
// Markdown analysis of diff. diff is appended to the user turn unchanged.
func BuildExplainPrompt(diff string) []llm.ChatMessage {
	return []llm.ChatMessage{
		llm.System(explainSystemPrompt),
		llm.User(ExplainLeadIn + diff),
	}
}

// BuildCommitMessagePrompt returns the [system, user] conversation asking for a
// conventional commit message derived from explanation.
func BuildCommitMessagePrompt(explanation string) []llm.ChatMessage {
	return []llm.ChatMessage{
		llm.System(commitSystemPrompt),
		llm.User(CommitLeadIn + explanation),
	}
}

// IsCommitType reports whether name belongs to CommitTypes.
func IsCommitType(name string) bool {
	for _, t := range CommitTypes {
		if t.Name == name {
			return true
		}
	}
	return false
}

// CleanCommitMessage trims a generated message, unwraps a surrounding code
// fence and lowercases a known type in the header. Body and footers are kept.
func CleanCommitMessage(message string) string {
	message = strings.TrimSpace(message)
	if matches := fencePattern.FindStringSubmatch(message); len(matches) == 2 {
		message = strings.TrimSpace(matches[1])
	}
	if message == "" {
		return message
	}

	header, rest, hasRest := strings.Cut(message, "\n")
	header = normalizeHeader(strings.TrimSpace(header))
	if !hasRest {
		return header
	}
	return header + "\n" + rest
}

func normalizeHeader(header string) string {
	matches := headerPattern.FindStringSubmatch(header)
	if len(matches) < 5 {
		return header
	}
	commitType := strings.ToLower(matches[1])
	if !IsCommitType(commitType) {
		return header
	}
	return commitType + matches[2] + matches[3] + ": " + strings.TrimSpace(matches[4])
}
