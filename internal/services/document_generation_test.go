package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/owasp-zof/tabletop-portal/internal/agents"
	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/repos"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Tabletop{},
		&types.TabletopQuestion{},
		&types.Document{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// seedTabletop creates a tabletop with all four intake questions answered.
func seedTabletop(t *testing.T, db *gorm.DB, log *logger.Logger, title string) *types.Tabletop {
	t.Helper()
	tabletopRepo := repos.NewTabletopRepo(db, log)
	questionRepo := repos.NewTabletopQuestionRepo(db, log)

	tabletop := &types.Tabletop{
		ID:          uuid.New(),
		CreatorID:   uuid.New(),
		Title:       title,
		Description: "A regional clinic loses power during a heat wave.",
		StoryPrompt: "Backup generators have fuel for six hours.",
		Status:      types.TabletopStatusInProgress,
	}
	if _, err := tabletopRepo.Create(context.Background(), nil, tabletop); err != nil {
		t.Fatalf("create tabletop: %v", err)
	}
	questions := make([]*types.TabletopQuestion, 0, len(types.QuestionTypeOrder))
	for _, qt := range types.QuestionTypeOrder {
		questions = append(questions, &types.TabletopQuestion{
			ID:           uuid.New(),
			TabletopID:   tabletop.ID,
			QuestionType: qt,
			QuestionText: types.DefaultQuestions[qt],
			Answer:       "answer for " + string(qt),
		})
	}
	created, err := questionRepo.Create(context.Background(), nil, questions)
	if err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	tabletop.Questions = created
	return tabletop
}

// fakeAIClient answers every prompt with a canned body and can fail on
// selected document types.
type fakeAIClient struct {
	calls    int
	prompts  []string
	failWhen func(prompt string) error
}

func (f *fakeAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.failWhen != nil {
		if err := f.failWhen(prompt); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("generated text %d", f.calls), nil
}

type fakePDFService struct {
	dir   string
	calls int
	err   error
}

func (f *fakePDFService) Generate(title, description, content, learningGoals string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, fmt.Sprintf("doc_%d.pdf", f.calls))
	if err := os.WriteFile(path, []byte("pdf"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newTestGenerationService(t *testing.T, db *gorm.DB, log *logger.Logger, ai AIClient, pdf PDFService) DocumentGenerationService {
	t.Helper()
	return NewDocumentGenerationService(
		db,
		log,
		repos.NewTabletopRepo(db, log),
		repos.NewDocumentRepo(db, log),
		ai,
		pdf,
	)
}

func TestGenerateCompletesDocument(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	document, err := svc.Generate(context.Background(), tabletop, types.DocScenarioBrief)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if document.Status != types.DocumentStatusCompleted {
		t.Fatalf("status: want=%s got=%s", types.DocumentStatusCompleted, document.Status)
	}
	if document.Title != "Clinic Blackout - Scenario Brief" {
		t.Fatalf("title: got=%q", document.Title)
	}
	if ai.calls != 3 {
		t.Fatalf("backend call count: want=3 got=%d", ai.calls)
	}
	if document.Description != "generated text 1" || document.Content != "generated text 2" || document.LearningGoals != "generated text 3" {
		t.Fatalf("pipeline outputs landed in wrong fields: %+v", document)
	}
	if !strings.HasSuffix(document.PDFFilePath, ".pdf") {
		t.Fatalf("pdf path: got=%q", document.PDFFilePath)
	}
	if document.GeneratedAt == nil {
		t.Fatalf("generated_at not set")
	}
	if document.ErrorMessage != "" {
		t.Fatalf("error message: want empty got=%q", document.ErrorMessage)
	}
}

func TestGenerateIsIdempotentPerTypePair(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	first, err := svc.Generate(context.Background(), tabletop, types.DocInjectCards)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), tabletop, types.DocInjectCards)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("regeneration created a second record: %s vs %s", first.ID, second.ID)
	}
	var count int64
	if err := db.Model(&types.Document{}).Where("tabletop_id = ?", tabletop.ID).Count(&count).Error; err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if count != 1 {
		t.Fatalf("document count: want=1 got=%d", count)
	}
	if second.Content != "generated text 5" {
		t.Fatalf("second run content: got=%q", second.Content)
	}
}

func TestGenerateFailureKeepsPriorContent(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	good, err := svc.Generate(context.Background(), tabletop, types.DocAssessmentRubric)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	ai.failWhen = func(prompt string) error {
		return errors.New("model unavailable")
	}
	failed, err := svc.Generate(context.Background(), tabletop, types.DocAssessmentRubric)
	if err != nil {
		t.Fatalf("failed Generate returned error: %v", err)
	}
	if failed.Status != types.DocumentStatusFailed {
		t.Fatalf("status: want=%s got=%s", types.DocumentStatusFailed, failed.Status)
	}
	if failed.ErrorMessage == "" || !strings.Contains(failed.ErrorMessage, "model unavailable") {
		t.Fatalf("error message: got=%q", failed.ErrorMessage)
	}
	// The failed attempt must not touch previously generated content.
	if failed.Content != good.Content || failed.Description != good.Description || failed.LearningGoals != good.LearningGoals {
		t.Fatalf("failed attempt overwrote prior content")
	}
	if failed.PDFFilePath != good.PDFFilePath {
		t.Fatalf("failed attempt changed pdf path: want=%q got=%q", good.PDFFilePath, failed.PDFFilePath)
	}
}

func TestGenerateRejectsIncompleteIntake(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	tabletop.Questions[2].Answer = ""
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	_, err := svc.Generate(context.Background(), tabletop, types.DocScenarioBrief)
	var incomplete *IncompleteTabletopError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error type: want IncompleteTabletopError got %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != types.QuestionTwists {
		t.Fatalf("missing categories: got=%v", incomplete.Missing)
	}
	if ai.calls != 0 {
		t.Fatalf("backend called despite incomplete intake")
	}
	var count int64
	if err := db.Model(&types.Document{}).Count(&count).Error; err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if count != 0 {
		t.Fatalf("record created despite rejection: count=%d", count)
	}
}

func TestGenerateRejectsUnknownTypeBeforeAnyWork(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	_, err := svc.Generate(context.Background(), tabletop, types.DocumentType("threat_matrix"))
	if !errors.Is(err, agents.ErrUnregisteredDocumentType) {
		t.Fatalf("error: want ErrUnregisteredDocumentType got %v", err)
	}
	if ai.calls != 0 || pdf.calls != 0 {
		t.Fatalf("backends called despite unknown type")
	}
}

func TestGenerateAllIsolatesFailures(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{
		failWhen: func(prompt string) error {
			if strings.Contains(prompt, "Inject Cards") {
				return errors.New("model unavailable")
			}
			return nil
		},
	}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	documents, err := svc.GenerateAll(context.Background(), tabletop, nil)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(documents) != len(types.DocumentTypeOrder) {
		t.Fatalf("result count: want=%d got=%d", len(types.DocumentTypeOrder), len(documents))
	}
	for i, document := range documents {
		if document.DocumentType != types.DocumentTypeOrder[i] {
			t.Fatalf("result order: want=%s got=%s at %d", types.DocumentTypeOrder[i], document.DocumentType, i)
		}
		wantStatus := types.DocumentStatusCompleted
		if document.DocumentType == types.DocInjectCards {
			wantStatus = types.DocumentStatusFailed
		}
		if document.Status != wantStatus {
			t.Fatalf("%s status: want=%s got=%s", document.DocumentType, wantStatus, document.Status)
		}
	}
}

func TestGenerateAllRejectsBadTagUpfront(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	_, err := svc.GenerateAll(context.Background(), tabletop, []types.DocumentType{
		types.DocScenarioBrief,
		types.DocumentType("threat_matrix"),
	})
	if !errors.Is(err, agents.ErrUnregisteredDocumentType) {
		t.Fatalf("error: want ErrUnregisteredDocumentType got %v", err)
	}
	var count int64
	if err := db.Model(&types.Document{}).Count(&count).Error; err != nil {
		t.Fatalf("count documents: %v", err)
	}
	if count != 0 {
		t.Fatalf("records created despite batch rejection: count=%d", count)
	}
}

func TestRegenerateReusesRecord(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	first, err := svc.Generate(context.Background(), tabletop, types.DocFacilitatorGuide)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	regenerated, err := svc.Regenerate(context.Background(), first)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if regenerated.ID != first.ID {
		t.Fatalf("regenerate changed record identity")
	}
	if regenerated.Content == first.Content {
		t.Fatalf("regenerate did not refresh content")
	}
}

func TestGenerateEndToEndWithRealRenderer(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PDF_OUTPUT_DIR", dir)
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf, err := NewPDFService(log)
	if err != nil {
		t.Fatalf("NewPDFService: %v", err)
	}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	documents, err := svc.GenerateAll(context.Background(), tabletop, nil)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	for _, document := range documents {
		if document.Status != types.DocumentStatusCompleted {
			t.Fatalf("%s status: want=%s got=%s", document.DocumentType, types.DocumentStatusCompleted, document.Status)
		}
		if filepath.Dir(document.PDFFilePath) != dir {
			t.Fatalf("%s pdf outside output dir: %q", document.DocumentType, document.PDFFilePath)
		}
		if !strings.HasPrefix(filepath.Base(document.PDFFilePath), "Clinic_Blackout_-_") {
			t.Fatalf("%s pdf filename: got=%q", document.DocumentType, filepath.Base(document.PDFFilePath))
		}
		if info, err := os.Stat(document.PDFFilePath); err != nil || info.Size() == 0 {
			t.Fatalf("%s pdf not written: %v", document.DocumentType, err)
		}
	}
}

func TestDeleteRemovesRecordAndFile(t *testing.T) {
	db := testDB(t)
	log := testLogger(t)
	tabletop := seedTabletop(t, db, log, "Clinic Blackout")
	ai := &fakeAIClient{}
	pdf := &fakePDFService{dir: t.TempDir()}
	svc := newTestGenerationService(t, db, log, ai, pdf)

	document, err := svc.Generate(context.Background(), tabletop, types.DocAfterActionTemplate)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := os.Stat(document.PDFFilePath); err != nil {
		t.Fatalf("rendered file missing before delete: %v", err)
	}
	if err := svc.Delete(context.Background(), document); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(document.PDFFilePath); !os.IsNotExist(err) {
		t.Fatalf("rendered file survived delete")
	}
	documentRepo := repos.NewDocumentRepo(db, log)
	got, err := documentRepo.GetByID(context.Background(), nil, document.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("record survived delete")
	}
}
