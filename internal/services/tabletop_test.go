package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/repos"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

type fakeGenerationService struct {
	deleted []uuid.UUID
}

func (f *fakeGenerationService) Generate(ctx context.Context, tabletop *types.Tabletop, dt types.DocumentType) (*types.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGenerationService) GenerateAll(ctx context.Context, tabletop *types.Tabletop, docTypes []types.DocumentType) ([]*types.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGenerationService) Regenerate(ctx context.Context, document *types.Document) (*types.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGenerationService) Delete(ctx context.Context, document *types.Document) error {
	f.deleted = append(f.deleted, document.ID)
	return nil
}

func newTestTabletopService(t *testing.T, db *gorm.DB, log *logger.Logger, gen DocumentGenerationService) TabletopService {
	t.Helper()
	if gen == nil {
		gen = &fakeGenerationService{}
	}
	return NewTabletopService(
		db,
		log,
		repos.NewTabletopRepo(db, log),
		repos.NewTabletopQuestionRepo(db, log),
		repos.NewDocumentRepo(db, log),
		gen,
	)
}

func TestCreateSeedsDefaultQuestions(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	svc := newTestTabletopService(t, db, log, nil)

	creatorID := uuid.New()
	tabletop, err := svc.Create(context.Background(), creatorID, TabletopCreateInput{
		Title:       "  Clinic Blackout  ",
		Description: "A regional clinic loses power.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tabletop.Title != "Clinic Blackout" {
		t.Fatalf("title not trimmed: got=%q", tabletop.Title)
	}
	if tabletop.Status != types.TabletopStatusDraft {
		t.Fatalf("status: want=%s got=%s", types.TabletopStatusDraft, tabletop.Status)
	}
	if len(tabletop.Questions) != len(types.QuestionTypeOrder) {
		t.Fatalf("seeded question count: want=%d got=%d", len(types.QuestionTypeOrder), len(tabletop.Questions))
	}
	for i, q := range tabletop.Questions {
		wantType := types.QuestionTypeOrder[i]
		if q.QuestionType != wantType {
			t.Fatalf("question %d type: want=%s got=%s", i, wantType, q.QuestionType)
		}
		if q.QuestionText != types.DefaultQuestions[wantType] {
			t.Fatalf("question %d text does not match default", i)
		}
		if q.Answer != "" {
			t.Fatalf("question %d seeded with an answer", i)
		}
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	svc := newTestTabletopService(t, db, log, nil)

	if _, err := svc.Create(context.Background(), uuid.New(), TabletopCreateInput{Title: "   "}); err == nil {
		t.Fatalf("expected error for blank title")
	}
}

func TestGetIsOwnerScoped(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	svc := newTestTabletopService(t, db, log, nil)

	owner := uuid.New()
	tabletop, err := svc.Create(context.Background(), owner, TabletopCreateInput{Title: "Clinic Blackout"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), tabletop.ID, owner); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if _, err := svc.Get(context.Background(), tabletop.ID, uuid.New()); !errors.Is(err, ErrTabletopNotFound) {
		t.Fatalf("stranger Get: want ErrTabletopNotFound got %v", err)
	}
}

func TestAnswerQuestionAdvancesDraftWhenComplete(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	svc := newTestTabletopService(t, db, log, nil)

	owner := uuid.New()
	tabletop, err := svc.Create(context.Background(), owner, TabletopCreateInput{Title: "Clinic Blackout"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i, qt := range types.QuestionTypeOrder {
		got, err := svc.AnswerQuestion(context.Background(), tabletop.ID, owner, qt, "answer for "+string(qt))
		if err != nil {
			t.Fatalf("AnswerQuestion(%s): %v", qt, err)
		}
		last := i == len(types.QuestionTypeOrder)-1
		if !last && got.Status != types.TabletopStatusDraft {
			t.Fatalf("status advanced early after %s: got=%s", qt, got.Status)
		}
		if last && got.Status != types.TabletopStatusInProgress {
			t.Fatalf("status after final answer: want=%s got=%s", types.TabletopStatusInProgress, got.Status)
		}
	}
}

func TestAnswerQuestionRejectsUnknownType(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	svc := newTestTabletopService(t, db, log, nil)

	owner := uuid.New()
	tabletop, err := svc.Create(context.Background(), owner, TabletopCreateInput{Title: "Clinic Blackout"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AnswerQuestion(context.Background(), tabletop.ID, owner, types.QuestionType("victory"), "x"); err == nil {
		t.Fatalf("expected error for unknown question type")
	}
}

func TestAnswerQuestionDoesNotDemoteCompletedStatus(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	svc := newTestTabletopService(t, db, log, nil)

	owner := uuid.New()
	tabletop, err := svc.Create(context.Background(), owner, TabletopCreateInput{Title: "Clinic Blackout"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, qt := range types.QuestionTypeOrder {
		if _, err := svc.AnswerQuestion(context.Background(), tabletop.ID, owner, qt, "answer"); err != nil {
			t.Fatalf("AnswerQuestion(%s): %v", qt, err)
		}
	}
	status := types.TabletopStatusCompleted
	if _, err := svc.Update(context.Background(), tabletop.ID, owner, TabletopUpdateInput{Status: &status}); err != nil {
		t.Fatalf("Update status: %v", err)
	}

	got, err := svc.AnswerQuestion(context.Background(), tabletop.ID, owner, types.QuestionOverview, "revised answer")
	if err != nil {
		t.Fatalf("AnswerQuestion revise: %v", err)
	}
	if got.Status != types.TabletopStatusCompleted {
		t.Fatalf("status changed by revision: want=%s got=%s", types.TabletopStatusCompleted, got.Status)
	}
}

func TestDeleteRemovesQuestionsAndDocuments(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	gen := &fakeGenerationService{}
	svc := newTestTabletopService(t, db, log, gen)

	owner := uuid.New()
	tabletop, err := svc.Create(context.Background(), owner, TabletopCreateInput{Title: "Clinic Blackout"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	documentRepo := repos.NewDocumentRepo(db, log)
	document := &types.Document{
		ID:           uuid.New(),
		TabletopID:   tabletop.ID,
		DocumentType: types.DocScenarioBrief,
		Status:       types.DocumentStatusCompleted,
	}
	if _, err := documentRepo.Create(context.Background(), nil, document); err != nil {
		t.Fatalf("create document: %v", err)
	}

	if err := svc.Delete(context.Background(), tabletop.ID, owner); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(gen.deleted) != 1 || gen.deleted[0] != document.ID {
		t.Fatalf("document cleanup calls: got=%v", gen.deleted)
	}
	var questionCount int64
	if err := db.Model(&types.TabletopQuestion{}).Where("tabletop_id = ?", tabletop.ID).Count(&questionCount).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if questionCount != 0 {
		t.Fatalf("questions survived delete: count=%d", questionCount)
	}
	if _, err := svc.Get(context.Background(), tabletop.ID, owner); !errors.Is(err, ErrTabletopNotFound) {
		t.Fatalf("tabletop survived delete: %v", err)
	}
}
