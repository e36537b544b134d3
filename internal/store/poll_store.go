package store

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
)

// PollStore 投票实体的持久化接口
// handler 和中间件只依赖接口，便于注入与测试
type PollStore interface {
	Create(ctx context.Context, poll *models.Poll) error
	FindAll(ctx context.Context) ([]models.Poll, error)
	FindByPid(ctx context.Context, pid string) (*models.Poll, error)
	Update(ctx context.Context, poll *models.Poll) error
	Delete(ctx context.Context, pid string) error
	// IncrementVote 对单个选项计数原子 +1，返回更新后的实体
	IncrementVote(ctx context.Context, pid string, index int) (*models.Poll, error)
}

type pollStore struct {
	db *gorm.DB
}

// NewPollStore 基于 gorm/postgres 的实现
func NewPollStore(db *gorm.DB) PollStore {
	return &pollStore{db: db}
}

// creatorProjection 把关联的创建者裁剪到可公开的字段
func creatorProjection(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email")
}

func (s *pollStore) Create(ctx context.Context, poll *models.Poll) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(poll).Error
}

func (s *pollStore) FindAll(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	err := s.db.WithContext(ctx).
		Preload("User", creatorProjection).
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

func (s *pollStore) FindByPid(ctx context.Context, pid string) (*models.Poll, error) {
	if err := validatePid(pid); err != nil {
		return nil, err
	}

	var poll models.Poll
	err := s.db.WithContext(ctx).
		Preload("User", creatorProjection).
		Where("pid = ?", pid).
		First(&poll).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (s *pollStore) Update(ctx context.Context, poll *models.Poll) error {
	// Save 走 BeforeSave 钩子，options/votes 等长不变式在模型层兜底
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(poll).Error
}

func (s *pollStore) Delete(ctx context.Context, pid string) error {
	if err := validatePid(pid); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("pid = ?", pid).Delete(&models.Poll{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementVote 单条 UPDATE 在数据库侧完成自增，并发投票不会互相覆盖
// postgres 数组下标从 1 开始；cardinality 条件挡住越界写
func (s *pollStore) IncrementVote(ctx context.Context, pid string, index int) (*models.Poll, error) {
	if err := validatePid(pid); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, apperror.New("Option index out of bounds.", http.StatusBadRequest)
	}

	result := s.db.WithContext(ctx).Exec(
		`UPDATE polls SET votes[?] = votes[?] + 1, updated_at = ? WHERE pid = ? AND cardinality(votes) > ?`,
		index+1, index+1, time.Now(), pid, index,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return s.FindByPid(ctx, pid)
}

// validatePid 在查库前拦截形态非法的标识符
func validatePid(pid string) error {
	if len(pid) != models.PidLength {
		return &apperror.InvalidIDError{Field: "id", Value: pid}
	}
	for _, r := range pid {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return &apperror.InvalidIDError{Field: "id", Value: pid}
		}
	}
	return nil
}
