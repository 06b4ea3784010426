package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created   []*Notification
	createErr error
	read      map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{read: map[uuid.UUID]bool{}}
}

func (f *fakeRepo) Create(ctx context.Context, n *Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error) {
	var out []Notification
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && f.read[n.ID] {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.created {
		if n.UserID == userID && !f.read[n.ID] {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	f.read[id] = true
	return nil
}

func (f *fakeRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range f.created {
		if n.UserID == userID {
			f.read[n.ID] = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	for i, n := range f.created {
		if n.ID == id && n.UserID == userID {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePublisher struct {
	published []*Notification
}

func (f *fakePublisher) Publish(ctx context.Context, n *Notification) {
	f.published = append(f.published, n)
}

func TestNotifyStoresAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, pub)
	userID := uuid.New()

	svc.Notify(context.Background(), userID, "Points earned", "You earned 37 points",
		"success", "transaction", map[string]interface{}{"points": 37})

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, "Points earned", n.Title)
	assert.JSONEq(t, `{"points": 37}`, string(n.Metadata))

	require.Len(t, pub.published, 1)
	assert.Equal(t, n, pub.published[0])
}

func TestNotifySwallowsCreateFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("insert failed")
	pub := &fakePublisher{}
	svc := NewService(repo, pub)

	svc.Notify(context.Background(), uuid.New(), "Title", "Message", "info", "gift", nil)

	assert.Empty(t, repo.created)
	assert.Empty(t, pub.published)
}

func TestNotifyWithoutPublisher(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	svc.Notify(context.Background(), uuid.New(), "Title", "Message", "info", "gift", nil)

	assert.Len(t, repo.created, 1)
}

func TestUnreadFlow(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()
	userID := uuid.New()

	svc.Notify(ctx, userID, "First", "m", "info", "gift", nil)
	svc.Notify(ctx, userID, "Second", "m", "info", "gift", nil)
	svc.Notify(ctx, uuid.New(), "Other user", "m", "info", "gift", nil)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkRead(ctx, repo.created[0].ID, userID))
	unread, err := svc.List(ctx, userID, true, 50, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Second", unread[0].Title)

	require.NoError(t, svc.MarkAllRead(ctx, userID))
	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
