package repository

import (
	"context"
	"sort"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateNotification(_ context.Context, nn domain.NewNotification) (*domain.Notification, error) {
	if err := nn.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[nn.UserID]; !ok {
		return nil, badreff("user %q does not exist", nn.UserID)
	}

	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         nn.UserID,
		Title:          nn.Title,
		Message:        nn.Message,
		Type:           nn.Type,
		Read:           false,
		CreatedAt:      s.now(),
	}
	s.notifications[n.NotificationID] = n
	return &n, nil
}

func (s *MemoryStore) GetNotificationsByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Notification{}
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt) // newest first
		}
		return out[i].NotificationID < out[j].NotificationID
	})
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[notificationID]
	if !ok {
		return notFoundf("notification %q", notificationID)
	}
	n.Read = true
	s.notifications[notificationID] = n
	return nil
}

func (s *MemoryStore) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
