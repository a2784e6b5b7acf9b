package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/internal/model"
)

// ComplimentRepository 赞美仓储
type ComplimentRepository interface {
	Create(ctx context.Context, receiverID, text string) (*model.Compliment, error)
	GetByID(ctx context.Context, receiverID, id string) (*model.Compliment, error)

	// ListByReceiver 按 last_retrieved_at 升序（最久未展示在前），相同时间按创建顺序
	ListByReceiver(ctx context.Context, receiverID string) ([]*model.Compliment, error)

	UpdateText(ctx context.Context, receiverID, id, text string) error
	Delete(ctx context.Context, receiverID, id string) error

	// MarkRetrieved 单条 UPDATE 批量写入展示时间，时间只前移不回退
	MarkRetrieved(ctx context.Context, ids []string, at time.Time) error
}

type complimentRepository struct{ db *gorm.DB }

func NewComplimentRepository(db *gorm.DB) ComplimentRepository {
	return &complimentRepository{db: db}
}

func (r *complimentRepository) Create(ctx context.Context, receiverID, text string) (*model.Compliment, error) {
	now := r.db.NowFunc()
	c := &model.Compliment{
		ID:              uuid.New().String(),
		ReceiverID:      receiverID,
		Text:            text,
		LastRetrievedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *complimentRepository) GetByID(ctx context.Context, receiverID, id string) (*model.Compliment, error) {
	var c model.Compliment
	err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *complimentRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*model.Compliment, error) {
	var res []*model.Compliment
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("last_retrieved_at ASC, created_at ASC, id ASC").
		Find(&res).Error
	return res, err
}

func (r *complimentRepository) UpdateText(ctx context.Context, receiverID, id, text string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Compliment{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("text", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *complimentRepository) Delete(ctx context.Context, receiverID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Delete(&model.Compliment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *complimentRepository) MarkRetrieved(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Compliment{}).
		Where("id IN ? AND last_retrieved_at < ?", ids, at).
		Update("last_retrieved_at", at).Error
}
