package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

type TabletopRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tabletop *types.Tabletop) (*types.Tabletop, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tabletop, error)
	// GetByIDForCreator loads a tabletop with its questions, scoped to the
	// creator. Returns nil when no such tabletop is owned by the caller.
	GetByIDForCreator(ctx context.Context, tx *gorm.DB, id, creatorID uuid.UUID) (*types.Tabletop, error)
	ListByCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, status types.TabletopStatus) ([]*types.Tabletop, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type tabletopRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTabletopRepo(db *gorm.DB, baseLog *logger.Logger) TabletopRepo {
	return &tabletopRepo{db: db, log: baseLog.With("repo", "TabletopRepo")}
}

func (r *tabletopRepo) Create(ctx context.Context, tx *gorm.DB, tabletop *types.Tabletop) (*types.Tabletop, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(tabletop).Error; err != nil {
		return nil, err
	}
	return tabletop, nil
}

func (r *tabletopRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tabletop, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tabletop types.Tabletop
	err := transaction.WithContext(ctx).
		Preload("Questions").
		Where("id = ?", id).
		First(&tabletop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tabletop, nil
}

func (r *tabletopRepo) GetByIDForCreator(ctx context.Context, tx *gorm.DB, id, creatorID uuid.UUID) (*types.Tabletop, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tabletop types.Tabletop
	err := transaction.WithContext(ctx).
		Preload("Questions").
		Where("id = ? AND creator_id = ?", id, creatorID).
		First(&tabletop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tabletop, nil
}

func (r *tabletopRepo) ListByCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, status types.TabletopStatus) ([]*types.Tabletop, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("creator_id = ?", creatorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var results []*types.Tabletop
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tabletopRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.Tabletop{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *tabletopRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Tabletop{}).Error
}

type TabletopQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.TabletopQuestion) ([]*types.TabletopQuestion, error)
	GetByTabletopAndType(ctx context.Context, tx *gorm.DB, tabletopID uuid.UUID, qt types.QuestionType) (*types.TabletopQuestion, error)
	UpdateAnswer(ctx context.Context, tx *gorm.DB, id uuid.UUID, answer string) error
	DeleteByTabletopID(ctx context.Context, tx *gorm.DB, tabletopID uuid.UUID) error
}

type tabletopQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTabletopQuestionRepo(db *gorm.DB, baseLog *logger.Logger) TabletopQuestionRepo {
	return &tabletopQuestionRepo{db: db, log: baseLog.With("repo", "TabletopQuestionRepo")}
}

func (r *tabletopQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.TabletopQuestion) ([]*types.TabletopQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(questions) == 0 {
		return []*types.TabletopQuestion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *tabletopQuestionRepo) GetByTabletopAndType(ctx context.Context, tx *gorm.DB, tabletopID uuid.UUID, qt types.QuestionType) (*types.TabletopQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var question types.TabletopQuestion
	err := transaction.WithContext(ctx).
		Where("tabletop_id = ? AND question_type = ?", tabletopID, qt).
		First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *tabletopQuestionRepo) UpdateAnswer(ctx context.Context, tx *gorm.DB, id uuid.UUID, answer string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TabletopQuestion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"answer":     answer,
			"updated_at": time.Now(),
		}).Error
}

func (r *tabletopQuestionRepo) DeleteByTabletopID(ctx context.Context, tx *gorm.DB, tabletopID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("tabletop_id = ?", tabletopID).Delete(&types.TabletopQuestion{}).Error
}
