package formatter

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateData feeds the system prompt templates.
type TemplateData struct {
	Types []CommitType
}

const (
	explainTemplateName = "explain"
	commitTemplateName  = "commit"
)

var builtinTemplates = map[string]string{
	explainTemplateName: `You are an experienced software engineer reviewing a change set produced by git.
Analyze the diff supplied by the user and answer in structured Markdown with these sections:

## Files
A bullet list of every file touched by the diff.

## Changes
For each file, the kind of change (added, modified, deleted, renamed or mode change) and a short description of what changed.

## Line ranges
For each hunk, the affected line range (from the "@@" headers) and a one-sentence summary of the edit.

## Warnings
Call out any unresolved merge conflict markers ("<<<<<<<", "=======", ">>>>>>>"), leftover debug output or obviously broken code. Write "None." when there is nothing to report.

Describe only what the diff shows. Do not invent files or changes.`,

	commitTemplateName: `You write git commit messages that follow the Conventional Commits format.

The header line must be:
<type>(<scope>): <subject>

Rules:
1. <type> must be exactly one of:
{{- range .Types}}
   - {{.Name}}: {{.Description}}
{{- end}}
2. <scope> is optional and names the component or module that changed. Omit the parentheses when there is no scope.
3. <subject> is written in the imperative mood, starts with a lowercase letter, has no trailing period and stays under 72 characters.
4. The body is optional. Separate it from the header with one blank line, wrap it at 72 characters and explain what changed and why.
5. The footer is optional. Separate it from the body with one blank line. Use it for "BREAKING CHANGE: <description>" and issue references such as "Closes #123".

Output only the commit message. Do not add explanations, headings, quotes or Markdown code fences.`,
}

// RenderTemplate executes the named built-in template.
func RenderTemplate(name string, data TemplateData) (string, error) {
	content, ok := builtinTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", name)
	}

	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return "", fmt.Errorf("template parsing error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template rendering error: %w", err)
	}

	return buf.String(), nil
}
