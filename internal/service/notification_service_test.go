package service

import (
	"context"
	"testing"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"
	"nyumbani-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKV struct {
	data map[string]string
	sets int
	dels int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.data[key] = value
	f.sets++
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	f.dels++
	return nil
}

func seedNotifyUser(t *testing.T, users repository.UsersRepository) *domain.User {
	t.Helper()
	u, err := users.CreateUser(context.Background(), domain.NewUser{
		Username:     "tina",
		Email:        "tina@example.com",
		PasswordHash: []byte("x"),
		Role:         domain.RoleTenant,
		FullName:     "Tina",
	})
	require.NoError(t, err)
	return u
}

func TestUnreadCount_ReadThroughCache(t *testing.T) {
	st := repository.NewMemoryBackedStore()
	kv := newFakeKV()
	svc := NewNotificationService(st.Notifications, kv, zap.NewNop())
	ctx := context.Background()
	u := seedNotifyUser(t, st.Users)

	_, err := svc.Notify(ctx, domain.NewNotification{
		UserID: u.UserID, Title: "t1", Message: "m1", Type: domain.NotifyGeneral,
	})
	require.NoError(t, err)

	// miss -> 回源 -> 写缓存
	n, err := svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, kv.sets)

	// 第二次命中缓存，不再 Set
	n, err = svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, kv.sets)
}

func TestNotify_InvalidatesCachedCount(t *testing.T) {
	st := repository.NewMemoryBackedStore()
	kv := newFakeKV()
	svc := NewNotificationService(st.Notifications, kv, zap.NewNop())
	ctx := context.Background()
	u := seedNotifyUser(t, st.Users)

	_, err := svc.Notify(ctx, domain.NewNotification{
		UserID: u.UserID, Title: "t1", Message: "m1", Type: domain.NotifyGeneral,
	})
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// 新通知使缓存失效，计数立刻反映新状态
	_, err = svc.Notify(ctx, domain.NewNotification{
		UserID: u.UserID, Title: "t2", Message: "m2", Type: domain.NotifyPayment,
	})
	require.NoError(t, err)

	n, err = svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMarkRead_InvalidatesCachedCount(t *testing.T) {
	st := repository.NewMemoryBackedStore()
	kv := newFakeKV()
	svc := NewNotificationService(st.Notifications, kv, zap.NewNop())
	ctx := context.Background()
	u := seedNotifyUser(t, st.Users)

	created, err := svc.Notify(ctx, domain.NewNotification{
		UserID: u.UserID, Title: "t1", Message: "m1", Type: domain.NotifyGeneral,
	})
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, svc.MarkRead(ctx, created.NotificationID, u.UserID))

	n, err = svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUnreadCount_NopKVFallsThrough(t *testing.T) {
	st := repository.NewMemoryBackedStore()
	svc := NewNotificationService(st.Notifications, store.NopKV{}, zap.NewNop())
	ctx := context.Background()
	u := seedNotifyUser(t, st.Users)

	_, err := svc.Notify(ctx, domain.NewNotification{
		UserID: u.UserID, Title: "t1", Message: "m1", Type: domain.NotifyGeneral,
	})
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
