package repository

import (
	"context"
	"database/sql"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateDemoRequest(_ context.Context, nd domain.NewDemoRequest) (*domain.DemoRequest, error) {
	if err := nd.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := domain.DemoRequest{
		DemoID:    uuid.NewString(),
		Name:      nd.Name,
		Email:     nd.Email,
		CreatedAt: s.now(),
	}
	if nd.Phone != "" {
		d.Phone = sql.NullString{String: nd.Phone, Valid: true}
	}
	if nd.Company != "" {
		d.Company = sql.NullString{String: nd.Company, Valid: true}
	}
	if nd.Message != "" {
		d.Message = sql.NullString{String: nd.Message, Valid: true}
	}

	s.demoRequests = append(s.demoRequests, d)
	return &d, nil
}

func (s *MemoryStore) GetAllDemoRequests(_ context.Context) ([]*domain.DemoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.DemoRequest, 0, len(s.demoRequests))
	for i := range s.demoRequests {
		d := s.demoRequests[i]
		out = append(out, &d)
	}
	return out, nil
}

func (s *MemoryStore) CreateContactMessage(_ context.Context, nm domain.NewContactMessage) (*domain.ContactMessage, error) {
	if err := nm.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := domain.ContactMessage{
		MessageID: uuid.NewString(),
		Name:      nm.Name,
		Email:     nm.Email,
		Subject:   nm.Subject,
		Body:      nm.Body,
		CreatedAt: s.now(),
	}
	s.contactMessages = append(s.contactMessages, m)
	return &m, nil
}

func (s *MemoryStore) GetAllContactMessages(_ context.Context) ([]*domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ContactMessage, 0, len(s.contactMessages))
	for i := range s.contactMessages {
		m := s.contactMessages[i]
		out = append(out, &m)
	}
	return out, nil
}
