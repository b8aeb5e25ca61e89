package repository

import (
	"context"
	"testing"

	"nyumbani-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationLifecycle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	u := seedUser(t, s, "tina", domain.RoleTenant)

	n1, err := s.CreateNotification(ctx, domain.NewNotification{
		UserID:  u.UserID,
		Title:   "Payment confirmed",
		Message: "Your August rent is settled.",
		Type:    domain.NotifyPayment,
	})
	require.NoError(t, err)
	assert.False(t, n1.Read, "notifications start unread")

	_, err = s.CreateNotification(ctx, domain.NewNotification{
		UserID:  u.UserID,
		Title:   "Water outage",
		Message: "Maintenance on Saturday.",
		Type:    domain.NotifyGeneral,
	})
	require.NoError(t, err)

	count, err := s.CountUnread(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.MarkRead(ctx, n1.NotificationID))
	count, err = s.CountUnread(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	all, err := s.GetNotificationsByUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.ErrorIs(t, s.MarkRead(ctx, "missing"), ErrNotFound)
}

func TestCreateNotification_Rejections(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	u := seedUser(t, s, "tina", domain.RoleTenant)

	_, err := s.CreateNotification(ctx, domain.NewNotification{
		UserID:  "missing",
		Title:   "t",
		Message: "m",
		Type:    domain.NotifyGeneral,
	})
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = s.CreateNotification(ctx, domain.NewNotification{
		UserID:  u.UserID,
		Title:   "t",
		Message: "m",
		Type:    domain.NotificationType("sms"),
	})
	require.ErrorIs(t, err, ErrInvariantViolation)
}
