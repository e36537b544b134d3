// Package testutil 提供无数据库依赖的内存实现，供 handler 与中间件测试注入。
// 内存 store 复用模型层钩子，保证与 gorm 写路径相同的不变式。
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
)

// MemPollStore store.PollStore 的内存实现
type MemPollStore struct {
	mu    sync.Mutex
	polls map[string]*models.Poll
	order []string
	seq   uint
}

func NewMemPollStore() *MemPollStore {
	return &MemPollStore{polls: make(map[string]*models.Poll)}
}

func (s *MemPollStore) Create(ctx context.Context, poll *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 与 gorm 相同的钩子顺序
	if err := poll.BeforeSave(nil); err != nil {
		return err
	}
	if err := poll.BeforeCreate(nil); err != nil {
		return err
	}

	s.seq++
	poll.ID = s.seq
	now := time.Now()
	poll.CreatedAt = now
	poll.UpdatedAt = now

	s.polls[poll.Pid] = clonePoll(poll)
	s.order = append(s.order, poll.Pid)
	return nil
}

// FindAll 按创建时间倒序
func (s *MemPollStore) FindAll(ctx context.Context) ([]models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var polls []models.Poll
	for i := len(s.order) - 1; i >= 0; i-- {
		polls = append(polls, *clonePoll(s.polls[s.order[i]]))
	}
	return polls, nil
}

func (s *MemPollStore) FindByPid(ctx context.Context, pid string) (*models.Poll, error) {
	if err := checkPid(pid); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return clonePoll(poll), nil
}

func (s *MemPollStore) Update(ctx context.Context, poll *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := poll.BeforeSave(nil); err != nil {
		return err
	}
	if _, ok := s.polls[poll.Pid]; !ok {
		return gorm.ErrRecordNotFound
	}

	poll.UpdatedAt = time.Now()
	s.polls[poll.Pid] = clonePoll(poll)
	return nil
}

func (s *MemPollStore) Delete(ctx context.Context, pid string) error {
	if err := checkPid(pid); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[pid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.polls, pid)
	for i, p := range s.order {
		if p == pid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemPollStore) IncrementVote(ctx context.Context, pid string, index int) (*models.Poll, error) {
	if err := checkPid(pid); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, apperror.New("Option index out of bounds.", http.StatusBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pid]
	if !ok || index >= len(poll.Votes) {
		return nil, gorm.ErrRecordNotFound
	}
	poll.Votes[index]++
	poll.UpdatedAt = time.Now()
	return clonePoll(poll), nil
}

// checkPid 与 gorm 实现相同的形态校验
func checkPid(pid string) error {
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

func clonePoll(p *models.Poll) *models.Poll {
	cp := *p
	cp.Options = append(pq.StringArray(nil), p.Options...)
	cp.Votes = append(pq.Int64Array(nil), p.Votes...)
	return &cp
}

// MemUserStore store.UserStore 的内存实现
// 邮箱唯一冲突返回与 postgres 驱动同构的错误，走同一条分类路径
type MemUserStore struct {
	mu    sync.Mutex
	seq   uint
	users map[uint]*models.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{users: make(map[uint]*models.User)}
}

func (s *MemUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "idx_users_email",
				Detail:         fmt.Sprintf("Key (email)=(%s) already exists.", user.Email),
			}
		}
	}

	s.seq++
	user.ID = s.seq
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemUserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

// FakeOptimizer 可编程的图片压缩替身，记录调用次数
type FakeOptimizer struct {
	mu     sync.Mutex
	Result *services.OptimizeResult
	Err    error
	calls  int
}

func (f *FakeOptimizer) Optimize(ctx context.Context, image []byte) (*services.OptimizeResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if f.Result != nil {
		cp := *f.Result
		return &cp, nil
	}
	return &services.OptimizeResult{
		URL:  "https://img.example.com/optimized.png",
		Size: int64(len(image)) / 2,
	}, nil
}

func (f *FakeOptimizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
