package store

import (
	"context"
	"sort"

	"filmorate/internal/domain"
)

// MemoryUserStore реализует UserStore поверх memoryDB.
type MemoryUserStore struct {
	db *memoryDB
}

func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.lastUserID++
	user.ID = s.db.lastUserID
	s.db.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Update(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	s.db.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) List(ctx context.Context) ([]domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	users := make([]domain.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Delete удаляет пользователя вместе с его связями, лайками, отзывами, оценками и событиями.
func (s *MemoryUserStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.db.users, id)

	delete(s.db.friends, id)
	for _, friends := range s.db.friends {
		delete(friends, id)
	}
	for _, users := range s.db.likes {
		delete(users, id)
	}
	for reviewID, r := range s.db.reviews {
		if r.UserID == id {
			delete(s.db.reviews, reviewID)
			delete(s.db.votes, reviewID)
		}
	}
	for reviewID, votes := range s.db.votes {
		if _, ok := votes[id]; ok {
			delete(votes, id)
			recomputeUsefulLocked(s.db, reviewID)
		}
	}
	events := s.db.events[:0]
	for _, e := range s.db.events {
		if e.UserID != id {
			events = append(events, e)
		}
	}
	s.db.events = events
	return nil
}

func (s *MemoryUserStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.checkPairLocked(userID, friendID); err != nil {
		return err
	}
	if s.db.friends[userID] == nil {
		s.db.friends[userID] = make(map[int64]struct{})
	}
	s.db.friends[userID][friendID] = struct{}{}
	return nil
}

// RemoveFriend удаляет только направленную связь userID -> friendID.
func (s *MemoryUserStore) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.checkPairLocked(userID, friendID); err != nil {
		return err
	}
	delete(s.db.friends[userID], friendID)
	return nil
}

func (s *MemoryUserStore) Friends(ctx context.Context, userID int64) ([]domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if _, ok := s.db.users[userID]; !ok {
		return nil, ErrUserNotFound
	}
	return s.usersLocked(sortedIDs(s.db.friends[userID])), nil
}

func (s *MemoryUserStore) CommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if err := s.checkPairLocked(userID, otherID); err != nil {
		return nil, err
	}
	common := make(map[int64]struct{})
	for id := range s.db.friends[userID] {
		if _, ok := s.db.friends[otherID][id]; ok {
			common[id] = struct{}{}
		}
	}
	return s.usersLocked(sortedIDs(common)), nil
}

func (s *MemoryUserStore) checkPairLocked(a, b int64) error {
	if _, ok := s.db.users[a]; !ok {
		return ErrUserNotFound
	}
	if _, ok := s.db.users[b]; !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *MemoryUserStore) usersLocked(ids []int64) []domain.User {
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.db.users[id]; ok {
			users = append(users, u)
		}
	}
	return users
}
