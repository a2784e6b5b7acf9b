package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/internal/cache"
	"github.com/d60-Lab/compliment-api/internal/model"
	"github.com/d60-Lab/compliment-api/internal/repository"
)

// ReceiverService 接收者管理，所有操作都校验归属
type ReceiverService interface {
	Create(ctx context.Context, userID, name string) (*model.Receiver, error)
	Get(ctx context.Context, userID, receiverID string) (*model.Receiver, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]*model.Receiver, error)
	Rename(ctx context.Context, userID, receiverID, name string) (*model.Receiver, error)
	Delete(ctx context.Context, userID, receiverID string) error

	// Authorize 接收者不存在返回 ErrReceiverNotFound，不属于该用户返回 ErrForbidden
	Authorize(ctx context.Context, userID, receiverID string) error
}

type receiverService struct {
	repo   repository.ReceiverRepository
	owners *cache.OwnerCache
}

func NewReceiverService(repo repository.ReceiverRepository, owners *cache.OwnerCache) ReceiverService {
	return &receiverService{repo: repo, owners: owners}
}

func (s *receiverService) Authorize(ctx context.Context, userID, receiverID string) error {
	owner, ok := s.owners.Get(ctx, receiverID)
	if !ok {
		var err error
		owner, err = s.repo.OwnerID(ctx, receiverID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReceiverNotFound
		}
		if err != nil {
			return fmt.Errorf("load receiver owner: %w", err)
		}
		s.owners.Set(ctx, receiverID, owner)
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

func (s *receiverService) Create(ctx context.Context, userID, name string) (*model.Receiver, error) {
	rc, err := s.repo.Create(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("create receiver: %w", err)
	}
	s.owners.Set(ctx, rc.ID, userID)
	return rc, nil
}

func (s *receiverService) Get(ctx context.Context, userID, receiverID string) (*model.Receiver, error) {
	if err := s.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	rc, err := s.repo.GetByID(ctx, receiverID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiverNotFound
	}
	return rc, err
}

func (s *receiverService) List(ctx context.Context, userID string, page, pageSize int) ([]*model.Receiver, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
}

func (s *receiverService) Rename(ctx context.Context, userID, receiverID, name string) (*model.Receiver, error) {
	if err := s.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, receiverID, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("rename receiver: %w", err)
	}
	return s.repo.GetByID(ctx, receiverID)
}

func (s *receiverService) Delete(ctx context.Context, userID, receiverID string) error {
	if err := s.Authorize(ctx, userID, receiverID); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, receiverID)
	s.owners.Invalidate(ctx, receiverID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReceiverNotFound
	}
	return err
}
