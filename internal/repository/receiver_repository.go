package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/internal/model"
)

type ReceiverRepository interface {
	Create(ctx context.Context, userID, name string) (*model.Receiver, error)
	GetByID(ctx context.Context, id string) (*model.Receiver, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Receiver, error)
	Rename(ctx context.Context, id, name string) error
	// Delete 删除接收者及其全部赞美
	Delete(ctx context.Context, id string) error
	// OwnerID 只查归属用户，供权限校验使用
	OwnerID(ctx context.Context, id string) (string, error)
}

type receiverRepository struct {
	db *gorm.DB
}

func NewReceiverRepository(db *gorm.DB) ReceiverRepository { return &receiverRepository{db: db} }

func (r *receiverRepository) Create(ctx context.Context, userID, name string) (*model.Receiver, error) {
	rc := &model.Receiver{ID: uuid.New().String(), UserID: userID, Name: name}
	if err := r.db.WithContext(ctx).Create(rc).Error; err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *receiverRepository) GetByID(ctx context.Context, id string) (*model.Receiver, error) {
	var rc model.Receiver
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rc).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *receiverRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Receiver, error) {
	var res []*model.Receiver
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *receiverRepository) Rename(ctx context.Context, id, name string) error {
	res := r.db.WithContext(ctx).Model(&model.Receiver{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *receiverRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receiver_id = ?", id).Delete(&model.Compliment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Receiver{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *receiverRepository) OwnerID(ctx context.Context, id string) (string, error) {
	var rc model.Receiver
	if err := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&rc).Error; err != nil {
		return "", err
	}
	return rc.UserID, nil
}
