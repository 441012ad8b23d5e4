package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/owasp-zof/tabletop-portal/internal/agents"
	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/repos"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

// IncompleteTabletopError rejects generation while intake categories are
// still unanswered.
type IncompleteTabletopError struct {
	Missing []types.QuestionType
}

func (e *IncompleteTabletopError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, qt := range e.Missing {
		names = append(names, string(qt))
	}
	return fmt.Sprintf("cannot generate documents until all questions are answered; missing: %s", strings.Join(names, ", "))
}

// DocumentGenerationService orchestrates the three-prompt pipeline for one
// document at a time and owns the document record's status transitions.
//
// Concurrency note: the generating status is the only guard. Two overlapping
// requests for the same (tabletop, type) pair both run and the later writer
// wins; callers needing stricter serialization must lock around this service.
type DocumentGenerationService interface {
	// Generate runs the full pipeline for one (tabletop, document type)
	// pair. The returned document carries the outcome, completed or failed;
	// the error return is reserved for configuration and precondition
	// rejections that happen before any record is touched.
	Generate(ctx context.Context, tabletop *types.Tabletop, dt types.DocumentType) (*types.Document, error)
	// GenerateAll runs Generate once per requested type, strictly in order,
	// never aborting on a failed document. Defaults to every known type.
	GenerateAll(ctx context.Context, tabletop *types.Tabletop, docTypes []types.DocumentType) ([]*types.Document, error)
	// Regenerate re-enters Generate for an existing record's pair.
	Regenerate(ctx context.Context, document *types.Document) (*types.Document, error)
	// Delete removes a document record and its rendered file.
	Delete(ctx context.Context, document *types.Document) error
}

type documentGenerationService struct {
	db  *gorm.DB
	log *logger.Logger

	tabletopRepo repos.TabletopRepo
	documentRepo repos.DocumentRepo

	ai  AIClient
	pdf PDFService
}

func NewDocumentGenerationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tabletopRepo repos.TabletopRepo,
	documentRepo repos.DocumentRepo,
	ai AIClient,
	pdf PDFService,
) DocumentGenerationService {
	return &documentGenerationService{
		db:           db,
		log:          baseLog.With("service", "DocumentGenerationService"),
		tabletopRepo: tabletopRepo,
		documentRepo: documentRepo,
		ai:           ai,
		pdf:          pdf,
	}
}

func (s *documentGenerationService) Generate(ctx context.Context, tabletop *types.Tabletop, dt types.DocumentType) (*types.Document, error) {
	// Registry miss and incomplete intake reject the operation before any
	// record exists or changes.
	agent, err := agents.Resolve(dt)
	if err != nil {
		return nil, err
	}
	if missing := tabletop.MissingCategories(); len(missing) > 0 {
		return nil, &IncompleteTabletopError{Missing: missing}
	}

	document, err := s.findOrCreateGenerating(ctx, tabletop.ID, dt, agent.Name)
	if err != nil {
		return nil, err
	}

	log := s.log.With("tabletop_id", tabletop.ID, "document_type", dt)
	log.Info("Generating document", "agent", agent.Name)

	title := agent.Title(tabletop)

	// Three sequential backend calls. A failure at any step abandons the
	// remaining ones; previously persisted content fields stay as they are.
	description, err := s.ai.GenerateText(ctx, agent.DescriptionPrompt(tabletop))
	if err != nil {
		return s.markFailed(ctx, document, err)
	}
	content, err := s.ai.GenerateText(ctx, agent.ContentPrompt(tabletop))
	if err != nil {
		return s.markFailed(ctx, document, err)
	}
	learningGoals, err := s.ai.GenerateText(ctx, agent.LearningGoalsPrompt(tabletop))
	if err != nil {
		return s.markFailed(ctx, document, err)
	}

	pdfPath, err := s.pdf.Generate(title, description, content, learningGoals)
	if err != nil {
		return s.markFailed(ctx, document, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         types.DocumentStatusCompleted,
		"title":          title,
		"description":    description,
		"content":        content,
		"learning_goals": learningGoals,
		"pdf_file_path":  pdfPath,
		"error_message":  "",
		"generated_at":   now,
	}
	if err := s.documentRepo.UpdateFields(ctx, nil, document.ID, updates); err != nil {
		return nil, fmt.Errorf("persist completed document: %w", err)
	}

	log.Info("Document generated", "pdf_path", pdfPath)
	return s.documentRepo.GetByID(ctx, nil, document.ID)
}

func (s *documentGenerationService) GenerateAll(ctx context.Context, tabletop *types.Tabletop, docTypes []types.DocumentType) ([]*types.Document, error) {
	if len(docTypes) == 0 {
		docTypes = types.DocumentTypeOrder
	}
	// Validate the whole batch up front so a bad tag rejects the request
	// before any record changes.
	for _, dt := range docTypes {
		if _, err := agents.Resolve(dt); err != nil {
			return nil, err
		}
	}
	if missing := tabletop.MissingCategories(); len(missing) > 0 {
		return nil, &IncompleteTabletopError{Missing: missing}
	}

	documents := make([]*types.Document, 0, len(docTypes))
	for _, dt := range docTypes {
		document, err := s.Generate(ctx, tabletop, dt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, nil
}

func (s *documentGenerationService) Regenerate(ctx context.Context, document *types.Document) (*types.Document, error) {
	tabletop, err := s.tabletopRepo.GetByID(ctx, nil, document.TabletopID)
	if err != nil {
		return nil, fmt.Errorf("load tabletop for regeneration: %w", err)
	}
	if tabletop == nil {
		return nil, fmt.Errorf("tabletop %s not found for document %s", document.TabletopID, document.ID)
	}
	return s.Generate(ctx, tabletop, document.DocumentType)
}

func (s *documentGenerationService) Delete(ctx context.Context, document *types.Document) error {
	if path := strings.TrimSpace(document.PDFFilePath); path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("Failed to remove rendered pdf (ignored)", "path", path, "error", err)
		}
	}
	return s.documentRepo.Delete(ctx, nil, document.ID)
}

// findOrCreateGenerating is the idempotent-upsert entry: at most one record
// exists per (tabletop, type), and it is flipped to generating before any
// backend work starts so observers see the attempt in progress.
func (s *documentGenerationService) findOrCreateGenerating(ctx context.Context, tabletopID uuid.UUID, dt types.DocumentType, agentName string) (*types.Document, error) {
	existing, err := s.documentRepo.GetByTabletopAndType(ctx, nil, tabletopID, dt)
	if err != nil {
		return nil, fmt.Errorf("look up document record: %w", err)
	}
	if existing != nil {
		updates := map[string]interface{}{
			"status":     types.DocumentStatusGenerating,
			"agent_name": agentName,
		}
		if err := s.documentRepo.UpdateFields(ctx, nil, existing.ID, updates); err != nil {
			return nil, fmt.Errorf("mark document generating: %w", err)
		}
		existing.Status = types.DocumentStatusGenerating
		existing.AgentName = agentName
		return existing, nil
	}

	now := time.Now()
	document := &types.Document{
		ID:           uuid.New(),
		TabletopID:   tabletopID,
		DocumentType: dt,
		Status:       types.DocumentStatusGenerating,
		AgentName:    agentName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.documentRepo.Create(ctx, nil, document); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}
	return document, nil
}

// markFailed folds any pipeline error into the record: status and message
// change, every other field keeps its prior value.
func (s *documentGenerationService) markFailed(ctx context.Context, document *types.Document, cause error) (*types.Document, error) {
	s.log.Warn("Document generation failed",
		"document_id", document.ID,
		"document_type", document.DocumentType,
		"error", cause,
	)
	updates := map[string]interface{}{
		"status":        types.DocumentStatusFailed,
		"error_message": cause.Error(),
	}
	if err := s.documentRepo.UpdateFields(ctx, nil, document.ID, updates); err != nil {
		return nil, fmt.Errorf("persist failed document: %w", err)
	}
	return s.documentRepo.GetByID(ctx, nil, document.ID)
}
