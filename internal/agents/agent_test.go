package agents

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/owasp-zof/tabletop-portal/internal/types"
)

func testTabletop() *types.Tabletop {
	t := &types.Tabletop{
		ID:          uuid.New(),
		Title:       "Clinic Blackout",
		Description: "A regional clinic loses power during a heat wave.",
		StoryPrompt: "Backup generators have fuel for six hours.",
	}
	for _, qt := range types.QuestionTypeOrder {
		t.Questions = append(t.Questions, &types.TabletopQuestion{
			ID:           uuid.New(),
			TabletopID:   t.ID,
			QuestionType: qt,
			QuestionText: types.DefaultQuestions[qt],
			Answer:       "answer for " + string(qt),
		})
	}
	return t
}

func TestBuildContextOrdersAnsweredQuestions(t *testing.T) {
	agent, err := Resolve(types.DocScenarioBrief)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	tabletop := testTabletop()
	got := agent.BuildContext(tabletop)

	if !strings.HasPrefix(got, "# Tabletop Exercise: Clinic Blackout") {
		t.Fatalf("context header: got=%q", got[:min(len(got), 60)])
	}
	if !strings.Contains(got, "## Description") || !strings.Contains(got, "## Initial Story Prompt") {
		t.Fatalf("context missing description or story prompt sections")
	}
	prev := -1
	for _, qt := range types.QuestionTypeOrder {
		idx := strings.Index(got, "answer for "+string(qt))
		if idx < 0 {
			t.Fatalf("context missing answer for %s", qt)
		}
		if idx < prev {
			t.Fatalf("answer for %s appears out of order", qt)
		}
		prev = idx
	}
}

func TestBuildContextOmitsUnanswered(t *testing.T) {
	agent, err := Resolve(types.DocScenarioBrief)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	tabletop := testTabletop()
	tabletop.Questions[1].Answer = "   "
	tabletop.Description = ""

	got := agent.BuildContext(tabletop)
	if strings.Contains(got, "answer for "+string(types.QuestionChallenges)) {
		t.Fatalf("blank answer leaked into context")
	}
	if strings.Contains(got, "## Description") {
		t.Fatalf("empty description rendered a section")
	}
	if strings.Contains(got, types.DefaultQuestions[types.QuestionChallenges]) {
		t.Fatalf("unanswered question text leaked into context")
	}
}

func TestBuildContextIsDeterministic(t *testing.T) {
	agent, err := Resolve(types.DocFacilitatorGuide)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	tabletop := testTabletop()
	first := agent.BuildContext(tabletop)
	for i := 0; i < 5; i++ {
		if got := agent.BuildContext(tabletop); got != first {
			t.Fatalf("context changed between calls")
		}
	}
}

func TestPromptsEmbedPersonaAndContext(t *testing.T) {
	tabletop := testTabletop()
	for _, agent := range All() {
		for name, prompt := range map[string]string{
			"description":    agent.DescriptionPrompt(tabletop),
			"content":        agent.ContentPrompt(tabletop),
			"learning_goals": agent.LearningGoalsPrompt(tabletop),
		} {
			if !strings.Contains(prompt, agent.Role) {
				t.Fatalf("%s/%s prompt missing persona", agent.DocumentType, name)
			}
			if !strings.Contains(prompt, "Clinic Blackout") {
				t.Fatalf("%s/%s prompt missing exercise context", agent.DocumentType, name)
			}
		}
		if !strings.Contains(agent.ContentPrompt(tabletop), agent.Guidelines) {
			t.Fatalf("%s content prompt missing guidelines", agent.DocumentType)
		}
	}
}

func TestTitleUsesHumanizedLabel(t *testing.T) {
	tabletop := testTabletop()
	cases := []struct {
		dt   types.DocumentType
		want string
	}{
		{types.DocScenarioBrief, "Clinic Blackout - Scenario Brief"},
		{types.DocAfterActionTemplate, "Clinic Blackout - After Action Template"},
		{types.DocInjectCards, "Clinic Blackout - Inject Cards"},
	}
	for _, tc := range cases {
		agent, err := Resolve(tc.dt)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.dt, err)
		}
		if got := agent.Title(tabletop); got != tc.want {
			t.Fatalf("title: want=%q got=%q", tc.want, got)
		}
	}
}

func TestResolveAllRegisteredTypes(t *testing.T) {
	for _, dt := range types.DocumentTypeOrder {
		agent, err := Resolve(dt)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", dt, err)
		}
		if agent.DocumentType != dt {
			t.Fatalf("agent type: want=%s got=%s", dt, agent.DocumentType)
		}
		if agent.Name == "" || agent.Role == "" || agent.Purpose == "" || agent.Guidelines == "" {
			t.Fatalf("agent %s has empty persona fields", dt)
		}
	}
	if got := len(All()); got != len(types.DocumentTypeOrder) {
		t.Fatalf("registered agent count: want=%d got=%d", len(types.DocumentTypeOrder), got)
	}
}

func TestResolveUnknownTag(t *testing.T) {
	_, err := Resolve(types.DocumentType("threat_matrix"))
	if err == nil {
		t.Fatalf("expected error for unknown tag")
	}
	if !errors.Is(err, ErrUnregisteredDocumentType) {
		t.Fatalf("error identity: want ErrUnregisteredDocumentType got %v", err)
	}
	if !strings.Contains(err.Error(), "threat_matrix") {
		t.Fatalf("error should name the tag: got=%q", err.Error())
	}
}
