// Package agents holds the per-document-type builders that turn a tabletop
// exercise into LLM prompts. Each document type is a single Agent value
// carrying its static persona, purpose, and content outline; the prompt
// assembly itself is shared.
package agents

import (
	"fmt"
	"strings"

	"github.com/owasp-zof/tabletop-portal/internal/types"
)

// Agent builds the three prompts and the title for one document type. All
// methods are pure functions of the tabletop snapshot.
type Agent struct {
	Name         string
	DocumentType types.DocumentType

	// Role is the persona paragraph that opens every prompt.
	Role string
	// Purpose is the human-readable document name used inside instructions.
	Purpose string
	// Guidelines is the required-section outline for the content prompt.
	Guidelines string
}

// BuildContext renders the tabletop title, description, story prompt, and
// every answered intake question/answer pair into one plain-text block. It is
// the only channel through which exercise data reaches the model; unanswered
// questions are omitted and answered ones keep the declared category order.
func (a *Agent) BuildContext(t *types.Tabletop) string {
	parts := []string{
		fmt.Sprintf("# Tabletop Exercise: %s", t.Title),
		"",
	}

	if strings.TrimSpace(t.Description) != "" {
		parts = append(parts, "## Description", t.Description, "")
	}
	if strings.TrimSpace(t.StoryPrompt) != "" {
		parts = append(parts, "## Initial Story Prompt", t.StoryPrompt, "")
	}

	byType := map[types.QuestionType]*types.TabletopQuestion{}
	for _, q := range t.Questions {
		if q != nil {
			byType[q.QuestionType] = q
		}
	}
	for _, qt := range types.QuestionTypeOrder {
		q, ok := byType[qt]
		if !ok || strings.TrimSpace(q.Answer) == "" {
			continue
		}
		parts = append(parts,
			fmt.Sprintf("## %s", humanizeCategory(qt)),
			fmt.Sprintf("**Question:** %s", q.QuestionText),
			"",
			fmt.Sprintf("**Answer:** %s", q.Answer),
			"",
		)
	}

	return strings.Join(parts, "\n")
}

// DescriptionPrompt asks for a 2-3 sentence description of the document.
func (a *Agent) DescriptionPrompt(t *types.Tabletop) string {
	return fmt.Sprintf(`%s

Based on the following tabletop exercise information, write a brief description
(2-3 sentences) of what this %s will contain and how it
will be used.

%s

Write ONLY the description, nothing else.
`, a.Role, a.Purpose, a.BuildContext(t))
}

// ContentPrompt asks for the full document body following the type's outline.
func (a *Agent) ContentPrompt(t *types.Tabletop) string {
	return fmt.Sprintf(`%s

Based on the following tabletop exercise information, create the main content
for a %s.

%s

%s

Create comprehensive, well-structured content. Use markdown formatting.
`, a.Role, a.Purpose, a.BuildContext(t), a.Guidelines)
}

// LearningGoalsPrompt asks for 4-6 numbered, measurable objectives.
func (a *Agent) LearningGoalsPrompt(t *types.Tabletop) string {
	return fmt.Sprintf(`%s

Based on the following tabletop exercise information, create a list of
learning goals for this %s.

%s

Create 4-6 specific, measurable learning objectives. Format as a numbered list.
Each goal should describe what participants will learn, understand, or be able to do.
`, a.Role, a.Purpose, a.BuildContext(t))
}

// Title is computed locally, never from the model.
func (a *Agent) Title(t *types.Tabletop) string {
	return fmt.Sprintf("%s - %s", t.Title, a.DocumentType.HumanizedLabel())
}

func humanizeCategory(qt types.QuestionType) string {
	s := strings.ReplaceAll(string(qt), "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
