package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentType is the closed set of documents the portal can draft for a
// tabletop exercise. Adding a tag requires registering a matching agent.
type DocumentType string

const (
	DocScenarioBrief       DocumentType = "scenario_brief"
	DocFacilitatorGuide    DocumentType = "facilitator_guide"
	DocParticipantHandbook DocumentType = "participant_handbook"
	DocInjectCards         DocumentType = "inject_cards"
	DocAssessmentRubric    DocumentType = "assessment_rubric"
	DocAfterActionTemplate DocumentType = "after_action_template"
)

// DocumentTypeOrder is the order batches generate in and listings render in.
var DocumentTypeOrder = []DocumentType{
	DocScenarioBrief,
	DocFacilitatorGuide,
	DocParticipantHandbook,
	DocInjectCards,
	DocAssessmentRubric,
	DocAfterActionTemplate,
}

// HumanizedLabel turns a document type tag into its display name, e.g.
// "scenario_brief" -> "Scenario Brief".
func (dt DocumentType) HumanizedLabel() string {
	parts := strings.Split(string(dt), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

type DocumentStatus string

const (
	DocumentStatusGenerating DocumentStatus = "generating"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document is the single persisted outcome of generation for one
// (tabletop, document type) pair. Regeneration overwrites this record, it
// never appends a second one.
type Document struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TabletopID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_document_tabletop_type" json:"tabletop_id"`
	DocumentType  DocumentType   `gorm:"column:document_type;not null;uniqueIndex:idx_document_tabletop_type" json:"document_type"`
	Status        DocumentStatus `gorm:"column:status;not null;index" json:"status"`
	AgentName     string         `gorm:"column:agent_name" json:"agent_name"`
	Title         string         `gorm:"column:title" json:"title"`
	Description   string         `gorm:"column:description" json:"description"`
	Content       string         `gorm:"column:content" json:"content"`
	LearningGoals string         `gorm:"column:learning_goals" json:"learning_goals"`
	PDFFilePath   string         `gorm:"column:pdf_file_path" json:"pdf_file_path"`
	ErrorMessage  string         `gorm:"column:error_message" json:"error_message"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	GeneratedAt   *time.Time     `gorm:"column:generated_at" json:"generated_at,omitempty"`
}

func (Document) TableName() string { return "document" }

// DocumentTypeInfo drives the document-type listing endpoint.
type DocumentTypeInfo struct {
	Name        string
	Description string
}

var DocumentTypeInfos = map[DocumentType]DocumentTypeInfo{
	DocScenarioBrief: {
		Name:        "Scenario Brief",
		Description: "The main narrative document that sets the stage for the exercise.",
	},
	DocFacilitatorGuide: {
		Name:        "Facilitator Guide",
		Description: "Everything an exercise leader needs to run the session.",
	},
	DocParticipantHandbook: {
		Name:        "Participant Handbook",
		Description: "Background, roles, and reference material for participants.",
	},
	DocInjectCards: {
		Name:        "Inject Cards",
		Description: "Unexpected events and information introduced during the exercise.",
	},
	DocAssessmentRubric: {
		Name:        "Assessment Rubric",
		Description: "Criteria for evaluating participant performance and outcomes.",
	},
	DocAfterActionTemplate: {
		Name:        "After Action Review Template",
		Description: "A structured format for the post-exercise debrief and lessons learned.",
	},
}
