package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TabletopStatus string

const (
	TabletopStatusDraft      TabletopStatus = "draft"
	TabletopStatusInProgress TabletopStatus = "in_progress"
	TabletopStatusCompleted  TabletopStatus = "completed"
	TabletopStatusArchived   TabletopStatus = "archived"
)

func ValidTabletopStatus(s TabletopStatus) bool {
	switch s {
	case TabletopStatusDraft, TabletopStatusInProgress, TabletopStatusCompleted, TabletopStatusArchived:
		return true
	}
	return false
}

// QuestionType is one of the four fixed intake categories every tabletop
// walks through before documents can be generated.
type QuestionType string

const (
	QuestionOverview   QuestionType = "overview"
	QuestionChallenges QuestionType = "challenges"
	QuestionTwists     QuestionType = "twists"
	QuestionConclusion QuestionType = "conclusion"
)

// QuestionTypeOrder is the declared intake order. Context blocks and seeded
// questions both follow it.
var QuestionTypeOrder = []QuestionType{
	QuestionOverview,
	QuestionChallenges,
	QuestionTwists,
	QuestionConclusion,
}

func ValidQuestionType(qt QuestionType) bool {
	for _, t := range QuestionTypeOrder {
		if t == qt {
			return true
		}
	}
	return false
}

type Tabletop struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator     *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatorID;references:ID" json:"-"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	StoryPrompt string         `gorm:"column:story_prompt" json:"story_prompt"`
	Status      TabletopStatus `gorm:"column:status;not null;default:draft" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`

	Questions []*TabletopQuestion `gorm:"foreignKey:TabletopID" json:"questions,omitempty"`
	Documents []*Document         `gorm:"foreignKey:TabletopID" json:"documents,omitempty"`
}

func (Tabletop) TableName() string { return "tabletop" }

type TabletopQuestion struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TabletopID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"tabletop_id"`
	QuestionType QuestionType `gorm:"column:question_type;not null" json:"question_type"`
	QuestionText string       `gorm:"column:question_text;not null" json:"question_text"`
	Answer       string       `gorm:"column:answer" json:"answer"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

func (TabletopQuestion) TableName() string { return "tabletop_question" }

// IsComplete reports whether every intake category has a non-empty answer.
// Derived from the current answers on purpose, never stored.
func (t *Tabletop) IsComplete() bool {
	return len(t.MissingCategories()) == 0
}

// MissingCategories lists intake categories without an answer, in declared
// order.
func (t *Tabletop) MissingCategories() []QuestionType {
	answered := map[QuestionType]bool{}
	if t != nil {
		for _, q := range t.Questions {
			if q != nil && strings.TrimSpace(q.Answer) != "" {
				answered[q.QuestionType] = true
			}
		}
	}
	var missing []QuestionType
	for _, qt := range QuestionTypeOrder {
		if !answered[qt] {
			missing = append(missing, qt)
		}
	}
	return missing
}

// DefaultQuestions is the immutable prompt text seeded for each category when
// a tabletop is created.
var DefaultQuestions = map[QuestionType]string{
	QuestionOverview: "Describe the game's overview and scenario. What is the setting, " +
		"who are the main characters or factions, and what is the central narrative? " +
		"Examples: A Lord of the Rings quest following elves to the boats dealing with orcs; " +
		"A hospital operating without power and running out of batteries; " +
		"A region facing critical infrastructure failure.",
	QuestionChallenges: "What are the main issues, problems, and challenges that players will need to address? " +
		"List the key decisions they'll have to make and obstacles they'll need to overcome.",
	QuestionTwists: "What unexpected events, information, or twists will be thrown at the players during the exercise? " +
		"These should challenge their assumptions and force them to adapt their strategies.",
	QuestionConclusion: "What is the expected or ideal conclusion of the game? " +
		"Describe the learning outcomes, resolution scenarios, and how success should be measured.",
}
