package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/compliment-api/internal/metrics"
	"github.com/d60-Lab/compliment-api/internal/model"
	"github.com/d60-Lab/compliment-api/internal/repository"
	"github.com/d60-Lab/compliment-api/internal/sampler"
	"github.com/d60-Lab/compliment-api/pkg/logger"
)

// ComplimentService 赞美管理与随机选取
type ComplimentService interface {
	List(ctx context.Context, userID, receiverID string) ([]*model.Compliment, error)
	Create(ctx context.Context, userID, receiverID, text string) (*model.Compliment, error)
	Get(ctx context.Context, userID, receiverID, complimentID string) (*model.Compliment, error)
	Update(ctx context.Context, userID, receiverID, complimentID, text string) (*model.Compliment, error)
	Delete(ctx context.Context, userID, receiverID, complimentID string) error

	// Random 按“越久没展示越容易被选中”随机取一条，并把它标记为刚刚展示
	Random(ctx context.Context, userID, receiverID string) (*model.Compliment, error)
	// RandomBatch 不重复地取 count 条；count<=0 或超过总数时返回全部
	RandomBatch(ctx context.Context, userID, receiverID string, count int) ([]*model.Compliment, error)
}

type complimentService struct {
	receivers ReceiverService
	repo      repository.ComplimentRepository
	sampler   *sampler.Sampler
	now       func() time.Time
}

// ComplimentOption 可选配置
type ComplimentOption func(*complimentService)

// WithClock 替换时间来源（测试用）
func WithClock(now func() time.Time) ComplimentOption {
	return func(s *complimentService) { s.now = now }
}

func NewComplimentService(receivers ReceiverService, repo repository.ComplimentRepository, smp *sampler.Sampler, opts ...ComplimentOption) ComplimentService {
	if smp == nil {
		smp = sampler.New(nil)
	}
	s := &complimentService{receivers: receivers, repo: repo, sampler: smp, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *complimentService) List(ctx context.Context, userID, receiverID string) ([]*model.Compliment, error) {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	return s.repo.ListByReceiver(ctx, receiverID)
}

func (s *complimentService) Create(ctx context.Context, userID, receiverID, text string) (*model.Compliment, error) {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, receiverID, text)
	if err != nil {
		return nil, fmt.Errorf("create compliment: %w", err)
	}
	return c, nil
}

func (s *complimentService) Get(ctx context.Context, userID, receiverID, complimentID string) (*model.Compliment, error) {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, receiverID, complimentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplimentNotFound
	}
	return c, err
}

func (s *complimentService) Update(ctx context.Context, userID, receiverID, complimentID, text string) (*model.Compliment, error) {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateText(ctx, receiverID, complimentID, text); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplimentNotFound
		}
		return nil, fmt.Errorf("update compliment: %w", err)
	}
	return s.repo.GetByID(ctx, receiverID, complimentID)
}

func (s *complimentService) Delete(ctx context.Context, userID, receiverID, complimentID string) error {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, receiverID, complimentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrComplimentNotFound
	}
	return err
}

func (s *complimentService) Random(ctx context.Context, userID, receiverID string) (*model.Compliment, error) {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	pool, err := s.repo.ListByReceiver(ctx, receiverID)
	if err != nil {
		metrics.RecordSelection("one", 0, 0, err)
		return nil, fmt.Errorf("list compliments: %w", err)
	}

	picked, err := s.sampler.PickOne(pool)
	if errors.Is(err, sampler.ErrEmptyCollection) {
		metrics.RecordSelection("one", 0, 0, nil)
		return nil, ErrNoCompliments
	}
	if err != nil {
		return nil, err
	}

	if err := s.markRetrieved(ctx, picked); err != nil {
		metrics.RecordSelection("one", len(pool), 0, err)
		return nil, err
	}
	metrics.RecordSelection("one", len(pool), 1, nil)
	logger.Debug("compliment selected",
		zap.String("receiver", receiverID),
		zap.String("compliment", picked.ID),
		zap.Int("pool", len(pool)),
	)
	return picked, nil
}

func (s *complimentService) RandomBatch(ctx context.Context, userID, receiverID string, count int) ([]*model.Compliment, error) {
	if err := s.receivers.Authorize(ctx, userID, receiverID); err != nil {
		return nil, err
	}
	pool, err := s.repo.ListByReceiver(ctx, receiverID)
	if err != nil {
		metrics.RecordSelection("batch", 0, 0, err)
		return nil, fmt.Errorf("list compliments: %w", err)
	}

	picked := s.sampler.PickMany(pool, count)
	if err := s.markRetrieved(ctx, picked...); err != nil {
		metrics.RecordSelection("batch", len(pool), 0, err)
		return nil, err
	}
	metrics.RecordSelection("batch", len(pool), len(picked), nil)
	logger.Debug("compliments selected",
		zap.String("receiver", receiverID),
		zap.Int("requested", count),
		zap.Int("returned", len(picked)),
		zap.Int("pool", len(pool)),
	)
	return picked, nil
}

// markRetrieved 把本次选中的赞美一次性写回展示时间，成功后同步到返回值
func (s *complimentService) markRetrieved(ctx context.Context, picked ...*model.Compliment) error {
	if len(picked) == 0 {
		return nil
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	ids := make([]string, len(picked))
	for i, c := range picked {
		ids[i] = c.ID
	}
	if err := s.repo.MarkRetrieved(ctx, ids, now); err != nil {
		return fmt.Errorf("mark compliments retrieved: %w", err)
	}
	for _, c := range picked {
		if now.After(c.LastRetrievedAt) {
			c.LastRetrievedAt = now
		}
	}
	return nil
}
