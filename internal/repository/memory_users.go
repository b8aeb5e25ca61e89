package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, notFoundf("user %q", userID)
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByUsername[username]
	if !ok {
		return nil, notFoundf("user with username %q", username)
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, notFoundf("user with email %q", email)
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryStore) ListUsers(_ context.Context, filters UserFilters) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.User{}
	for _, u := range s.users {
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters.Approved != nil && u.Approved != *filters.Approved {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(u.Username), needle) &&
				!strings.Contains(strings.ToLower(u.FullName), needle) &&
				!strings.Contains(strings.ToLower(u.Email), needle) {
				continue
			}
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, nu domain.NewUser) (*domain.User, error) {
	if err := nu.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[nu.Username]; exists {
		return nil, duplicatef("username %q already exists", nu.Username)
	}
	if _, exists := s.usersByEmail[nu.Email]; exists {
		return nil, duplicatef("email %q already exists", nu.Email)
	}

	u := domain.User{
		UserID:       uuid.NewString(),
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		FullName:     nu.FullName,
		Approved:     false, // 审批状态不接受调用方输入
		CreatedAt:    s.now(),
	}
	if nu.Phone != "" {
		u.Phone = sql.NullString{String: nu.Phone, Valid: true}
	}

	s.users[u.UserID] = u
	s.usersByUsername[u.Username] = u.UserID
	s.usersByEmail[u.Email] = u.UserID
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, userID string, patch domain.UserPatch) (*domain.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, notFoundf("user %q", userID)
	}

	if patch.Email != nil && *patch.Email != u.Email {
		if _, exists := s.usersByEmail[*patch.Email]; exists {
			return nil, duplicatef("email %q already exists", *patch.Email)
		}
		delete(s.usersByEmail, u.Email)
		u.Email = *patch.Email
		s.usersByEmail[u.Email] = userID
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		u.Phone = sql.NullString{String: *patch.Phone, Valid: *patch.Phone != ""}
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Approved != nil {
		u.Approved = *patch.Approved
	}

	s.users[userID] = u
	return &u, nil
}

func (s *MemoryStore) ApproveUser(_ context.Context, userID string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return notFoundf("user %q", userID)
	}
	u.Approved = approved
	s.users[userID] = u
	return nil
}
