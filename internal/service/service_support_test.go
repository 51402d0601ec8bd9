package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openspace-labs/spacevote-api/internal/models"
	"github.com/openspace-labs/spacevote-api/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type memoryUserRepo struct {
	users map[string]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]models.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.UserID]; ok {
		return errors.New("duplicate key")
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.UserID] = *user
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, userID string) (models.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = *user
	return nil
}

type memorySpaceRepo struct {
	spaces  map[string]models.Space
	order   []string
	follows []models.SpaceFollow
}

func newMemorySpaceRepo() *memorySpaceRepo {
	return &memorySpaceRepo{spaces: make(map[string]models.Space)}
}

func (m *memorySpaceRepo) Create(_ context.Context, space *models.Space) error {
	if _, ok := m.spaces[space.SpaceID]; ok {
		return errors.New("duplicate key")
	}
	space.CreatedAt = time.Now()
	m.spaces[space.SpaceID] = *space
	m.order = append(m.order, space.SpaceID)
	return nil
}

func (m *memorySpaceRepo) GetByID(_ context.Context, spaceID string) (models.Space, error) {
	space, ok := m.spaces[spaceID]
	if !ok {
		return models.Space{}, gorm.ErrRecordNotFound
	}
	return space, nil
}

func (m *memorySpaceRepo) List(_ context.Context, offset, limit int) ([]models.Space, int64, error) {
	total := int64(len(m.order))
	if offset >= len(m.order) {
		return []models.Space{}, total, nil
	}
	end := len(m.order)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	spaces := make([]models.Space, 0, end-offset)
	for _, id := range m.order[offset:end] {
		spaces = append(spaces, m.spaces[id])
	}
	return spaces, total, nil
}

func (m *memorySpaceRepo) Follow(_ context.Context, follow *models.SpaceFollow) error {
	follow.CreatedAt = time.Now()
	m.follows = append(m.follows, *follow)
	return nil
}

func (m *memorySpaceRepo) IsFollowing(_ context.Context, spaceID, userID string) (bool, error) {
	for _, follow := range m.follows {
		if follow.SpaceID == spaceID && follow.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memorySpaceRepo) Followers(_ context.Context, spaceID string) ([]models.SpaceFollow, error) {
	var followers []models.SpaceFollow
	for _, follow := range m.follows {
		if follow.SpaceID == spaceID {
			followers = append(followers, follow)
		}
	}
	return followers, nil
}

type memoryThreadRepo struct {
	threads map[string]models.Thread
	order   []string
	users   *memoryUserRepo
}

func newMemoryThreadRepo(users *memoryUserRepo) *memoryThreadRepo {
	return &memoryThreadRepo{threads: make(map[string]models.Thread), users: users}
}

func (m *memoryThreadRepo) Create(_ context.Context, thread *models.Thread) error {
	if _, ok := m.threads[thread.ThreadID]; ok {
		return errors.New("duplicate key")
	}
	thread.CreatedAt = time.Now()
	thread.UpdatedAt = thread.CreatedAt
	m.threads[thread.ThreadID] = *thread
	m.order = append(m.order, thread.ThreadID)

	if m.users != nil {
		if creator, ok := m.users.users[thread.CreatorID]; ok {
			creator.ThreadsOwned++
			m.users.users[thread.CreatorID] = creator
		}
	}
	return nil
}

func (m *memoryThreadRepo) GetByID(_ context.Context, threadID string) (models.Thread, error) {
	thread, ok := m.threads[threadID]
	if !ok {
		return models.Thread{}, gorm.ErrRecordNotFound
	}
	return thread, nil
}

func (m *memoryThreadRepo) Exists(_ context.Context, threadID string) (bool, error) {
	_, ok := m.threads[threadID]
	return ok, nil
}

func (m *memoryThreadRepo) Update(_ context.Context, thread *models.Thread) error {
	if _, ok := m.threads[thread.ThreadID]; !ok {
		return gorm.ErrRecordNotFound
	}
	thread.UpdatedAt = time.Now()
	m.threads[thread.ThreadID] = *thread
	return nil
}

func (m *memoryThreadRepo) ListByCreator(_ context.Context, creatorID string, offset, limit int) ([]models.Thread, error) {
	var owned []models.Thread
	for _, id := range m.order {
		thread := m.threads[id]
		if thread.CreatorID == creatorID {
			owned = append(owned, thread)
		}
	}
	if offset >= len(owned) {
		return []models.Thread{}, nil
	}
	end := len(owned)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}

func (m *memoryThreadRepo) ListIDsBySpace(_ context.Context, spaceID string) ([]string, error) {
	var ids []string
	for _, id := range m.order {
		if m.threads[id].SpaceID == spaceID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memoryVoteRepo struct {
	votes   []models.Vote
	users   *memoryUserRepo
	threads *memoryThreadRepo
	spaces  *memorySpaceRepo
	nextID  uint
}

func newMemoryVoteRepo(users *memoryUserRepo, threads *memoryThreadRepo, spaces *memorySpaceRepo) *memoryVoteRepo {
	return &memoryVoteRepo{users: users, threads: threads, spaces: spaces, nextID: 1}
}

func (m *memoryVoteRepo) Cast(_ context.Context, vote *models.Vote) error {
	for _, existing := range m.votes {
		if existing.ThreadID == vote.ThreadID && existing.UserID == vote.UserID {
			return repository.ErrDuplicateVote
		}
	}

	voter, ok := m.users.users[vote.UserID]
	if !ok || voter.TotalPoint < vote.Points {
		return repository.ErrInsufficientBalance
	}

	thread, ok := m.threads.threads[vote.ThreadID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if vote.ChoiceIndex < 0 || vote.ChoiceIndex >= len(thread.ChoiceRatings) {
		return repository.ErrChoiceOutOfRange
	}

	voter.TotalPoint -= vote.Points
	m.users.users[vote.UserID] = voter

	thread.ChoiceRatings[vote.ChoiceIndex] += vote.Points
	m.threads.threads[vote.ThreadID] = thread

	if m.spaces != nil {
		if space, ok := m.spaces.spaces[thread.SpaceID]; ok {
			space.TotalPoint += vote.Points
			m.spaces.spaces[thread.SpaceID] = space
		}
	}

	vote.ID = m.nextID
	m.nextID++
	vote.CreatedAt = time.Now()
	m.votes = append(m.votes, *vote)
	return nil
}

func (m *memoryVoteRepo) HasVoted(_ context.Context, threadID, userID string) (bool, error) {
	for _, vote := range m.votes {
		if vote.ThreadID == threadID && vote.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryVoteRepo) ListByThread(_ context.Context, threadID string) ([]models.Vote, error) {
	var votes []models.Vote
	for _, vote := range m.votes {
		if vote.ThreadID == threadID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

type recordingActivity struct {
	entries []ActivityEntry
}

func (r *recordingActivity) Record(_ context.Context, entry ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}
