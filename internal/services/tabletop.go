package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/normalization"
	"github.com/owasp-zof/tabletop-portal/internal/repos"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

// ErrTabletopNotFound covers both unknown ids and tabletops owned by someone
// else; callers cannot tell the two apart.
var ErrTabletopNotFound = fmt.Errorf("tabletop not found")

type TabletopCreateInput struct {
	Title       string
	Description string
	StoryPrompt string
}

type TabletopUpdateInput struct {
	Title       *string
	Description *string
	StoryPrompt *string
	Status      *types.TabletopStatus
}

type TabletopService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input TabletopCreateInput) (*types.Tabletop, error)
	List(ctx context.Context, creatorID uuid.UUID, status types.TabletopStatus) ([]*types.Tabletop, error)
	Get(ctx context.Context, id, creatorID uuid.UUID) (*types.Tabletop, error)
	Update(ctx context.Context, id, creatorID uuid.UUID, input TabletopUpdateInput) (*types.Tabletop, error)
	// AnswerQuestion stores the answer for one intake category. Once all four
	// are answered a draft tabletop moves to in_progress.
	AnswerQuestion(ctx context.Context, id, creatorID uuid.UUID, qt types.QuestionType, answer string) (*types.Tabletop, error)
	Delete(ctx context.Context, id, creatorID uuid.UUID) error
}

type tabletopService struct {
	db  *gorm.DB
	log *logger.Logger

	tabletopRepo repos.TabletopRepo
	questionRepo repos.TabletopQuestionRepo
	documentRepo repos.DocumentRepo

	documents DocumentGenerationService
}

func NewTabletopService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tabletopRepo repos.TabletopRepo,
	questionRepo repos.TabletopQuestionRepo,
	documentRepo repos.DocumentRepo,
	documents DocumentGenerationService,
) TabletopService {
	return &tabletopService{
		db:           db,
		log:          baseLog.With("service", "TabletopService"),
		tabletopRepo: tabletopRepo,
		questionRepo: questionRepo,
		documentRepo: documentRepo,
		documents:    documents,
	}
}

func (s *tabletopService) Create(ctx context.Context, creatorID uuid.UUID, input TabletopCreateInput) (*types.Tabletop, error) {
	title := normalization.TrimText(input.Title)
	if title == "" {
		return nil, fmt.Errorf("a title is required to create a tabletop")
	}

	now := time.Now()
	tabletop := &types.Tabletop{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		Title:       title,
		Description: normalization.TrimText(input.Description),
		StoryPrompt: normalization.TrimText(input.StoryPrompt),
		Status:      types.TabletopStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.tabletopRepo.Create(ctx, tx, tabletop); err != nil {
			return fmt.Errorf("create tabletop: %w", err)
		}
		questions := make([]*types.TabletopQuestion, 0, len(types.QuestionTypeOrder))
		for _, qt := range types.QuestionTypeOrder {
			questions = append(questions, &types.TabletopQuestion{
				ID:           uuid.New(),
				TabletopID:   tabletop.ID,
				QuestionType: qt,
				QuestionText: types.DefaultQuestions[qt],
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		created, err := s.questionRepo.Create(ctx, tx, questions)
		if err != nil {
			return fmt.Errorf("seed tabletop questions: %w", err)
		}
		tabletop.Questions = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Tabletop created", "tabletop_id", tabletop.ID, "creator_id", creatorID)
	return tabletop, nil
}

func (s *tabletopService) List(ctx context.Context, creatorID uuid.UUID, status types.TabletopStatus) ([]*types.Tabletop, error) {
	return s.tabletopRepo.ListByCreator(ctx, nil, creatorID, status)
}

func (s *tabletopService) Get(ctx context.Context, id, creatorID uuid.UUID) (*types.Tabletop, error) {
	tabletop, err := s.tabletopRepo.GetByIDForCreator(ctx, nil, id, creatorID)
	if err != nil {
		return nil, err
	}
	if tabletop == nil {
		return nil, ErrTabletopNotFound
	}
	return tabletop, nil
}

func (s *tabletopService) Update(ctx context.Context, id, creatorID uuid.UUID, input TabletopUpdateInput) (*types.Tabletop, error) {
	tabletop, err := s.Get(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := normalization.TrimText(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("tabletop title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = normalization.TrimText(*input.Description)
	}
	if input.StoryPrompt != nil {
		updates["story_prompt"] = normalization.TrimText(*input.StoryPrompt)
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if len(updates) == 0 {
		return tabletop, nil
	}

	if err := s.tabletopRepo.UpdateFields(ctx, nil, tabletop.ID, updates); err != nil {
		return nil, fmt.Errorf("update tabletop: %w", err)
	}
	return s.Get(ctx, id, creatorID)
}

func (s *tabletopService) AnswerQuestion(ctx context.Context, id, creatorID uuid.UUID, qt types.QuestionType, answer string) (*types.Tabletop, error) {
	if !types.ValidQuestionType(qt) {
		return nil, fmt.Errorf("unknown question type: %s", qt)
	}
	tabletop, err := s.Get(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByTabletopAndType(ctx, nil, tabletop.ID, qt)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %s not found for tabletop %s", qt, tabletop.ID)
	}

	if err := s.questionRepo.UpdateAnswer(ctx, nil, question.ID, normalization.TrimText(answer)); err != nil {
		return nil, fmt.Errorf("store answer: %w", err)
	}

	tabletop, err = s.Get(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}
	if tabletop.Status == types.TabletopStatusDraft && tabletop.IsComplete() {
		if err := s.tabletopRepo.UpdateFields(ctx, nil, tabletop.ID, map[string]interface{}{
			"status": types.TabletopStatusInProgress,
		}); err != nil {
			return nil, fmt.Errorf("advance tabletop status: %w", err)
		}
		tabletop.Status = types.TabletopStatusInProgress
	}
	return tabletop, nil
}

func (s *tabletopService) Delete(ctx context.Context, id, creatorID uuid.UUID) error {
	tabletop, err := s.Get(ctx, id, creatorID)
	if err != nil {
		return err
	}

	// Rendered files are not reachable once the rows cascade away, so remove
	// them first.
	documents, err := s.documentRepo.ListByTabletop(ctx, nil, tabletop.ID)
	if err != nil {
		return fmt.Errorf("list documents for delete: %w", err)
	}
	for _, document := range documents {
		if err := s.documents.Delete(ctx, document); err != nil {
			return fmt.Errorf("delete document %s: %w", document.ID, err)
		}
	}

	if err := s.questionRepo.DeleteByTabletopID(ctx, nil, tabletop.ID); err != nil {
		return fmt.Errorf("delete tabletop questions: %w", err)
	}
	if err := s.tabletopRepo.Delete(ctx, nil, tabletop.ID); err != nil {
		return fmt.Errorf("delete tabletop: %w", err)
	}
	s.log.Info("Tabletop deleted", "tabletop_id", tabletop.ID)
	return nil
}
