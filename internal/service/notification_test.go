package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulseboard/internal/event"
	"pulseboard/internal/model"
)

func notificationServiceWith(repo *mockNotificationRepository) (*NotificationService, *mockNotificationRepository) {
	if repo == nil {
		repo = &mockNotificationRepository{}
	}
	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	return NewNotificationService(repo, users), repo
}

func TestNotificationService_HandleEvent_Messages(t *testing.T) {
	postID := int64(10)
	commentID := int64(5)

	tests := []struct {
		name        string
		evt         event.Event
		wantKind    string
		wantMessage string
	}{
		{
			"follow",
			event.NewFollowCreated(1, 2),
			model.NotificationKindFollow,
			"alice started following you",
		},
		{
			"like",
			event.NewLikeCreated(1, 2, postID),
			model.NotificationKindLike,
			"alice liked your post",
		},
		{
			"comment",
			event.NewCommentCreated(1, 2, postID, commentID),
			model.NotificationKindComment,
			"alice commented on your post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := notificationServiceWith(nil)

			if err := svc.HandleEvent(context.Background(), tt.evt); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if len(repo.created) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(repo.created))
			}
			n := repo.created[0]
			if n.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", n.Kind, tt.wantKind)
			}
			if n.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", n.Message, tt.wantMessage)
			}
			if n.UserID != 2 || n.ActorID != 1 {
				t.Errorf("recipient/actor = %d/%d, want 2/1", n.UserID, n.ActorID)
			}
		})
	}
}

func TestNotificationService_HandleEvent_SelfAction(t *testing.T) {
	svc, repo := notificationServiceWith(nil)

	if err := svc.HandleEvent(context.Background(), event.NewLikeCreated(1, 1, 10)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("self-directed action must not create a notification")
	}
}

func TestNotificationService_HandleEvent_UnknownType(t *testing.T) {
	svc, repo := notificationServiceWith(nil)

	err := svc.HandleEvent(context.Background(), event.Event{Type: "password_changed", ActorID: 1, RecipientID: 2})
	if err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
	if len(repo.created) != 0 {
		t.Errorf("unknown event must not create a notification")
	}
}

func TestNotificationService_List_MarkRead(t *testing.T) {
	now := time.Now()
	repo := &mockNotificationRepository{
		listRecentFn: func(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
			if limit != model.NotificationPageLimit {
				t.Errorf("limit = %d, want %d", limit, model.NotificationPageLimit)
			}
			return []model.Notification{
				{ID: 3, UserID: userID, IsRead: false, CreatedAt: now},
				{ID: 2, UserID: userID, IsRead: true, CreatedAt: now},
				{ID: 1, UserID: userID, IsRead: false, CreatedAt: now},
			}, nil
		},
		countsFn: func(ctx context.Context, userID int64) (int, int, error) {
			return 3, 0, nil
		},
	}
	svc, _ := notificationServiceWith(repo)

	resp, err := svc.List(context.Background(), 2, true)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(repo.markedByIDs) != 1 {
		t.Fatalf("expected 1 mark-read batch, got %d", len(repo.markedByIDs))
	}
	marked := repo.markedByIDs[0]
	if len(marked) != 2 || marked[0] != 3 || marked[1] != 1 {
		t.Errorf("marked ids = %v, want [3 1]", marked)
	}

	for _, n := range resp.Notifications {
		if !n.IsRead {
			t.Errorf("notification %d still unread in the response", n.ID)
		}
	}
	if resp.UnreadCount != 0 {
		t.Errorf("unread count = %d, want 0 after marking", resp.UnreadCount)
	}
}

func TestNotificationService_List_WithoutMarkRead(t *testing.T) {
	repo := &mockNotificationRepository{
		listRecentFn: func(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
			return []model.Notification{{ID: 1, UserID: userID, IsRead: false}}, nil
		},
		countsFn: func(ctx context.Context, userID int64) (int, int, error) {
			return 1, 1, nil
		},
	}
	svc, _ := notificationServiceWith(repo)

	resp, err := svc.List(context.Background(), 2, false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(repo.markedByIDs) != 0 {
		t.Errorf("plain list must not mark anything read")
	}
	if resp.Notifications[0].IsRead {
		t.Error("notification must stay unread in the response")
	}
	if resp.UnreadCount != 1 || resp.TotalCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", resp.UnreadCount, resp.TotalCount)
	}
}

func TestNotificationService_MarkRead_Foreign(t *testing.T) {
	repo := &mockNotificationRepository{
		markReadFn: func(ctx context.Context, notificationID, userID int64) error {
			return model.ErrNotificationNotFound
		},
	}
	svc, _ := notificationServiceWith(repo)

	err := svc.MarkRead(context.Background(), 9, 2)
	if !errors.Is(err, model.ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got: %v", err)
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, repo := notificationServiceWith(nil)

	if err := svc.MarkAllRead(context.Background(), 2); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.markedAllFor) != 1 || repo.markedAllFor[0] != 2 {
		t.Errorf("marked all for = %v, want [2]", repo.markedAllFor)
	}
}
