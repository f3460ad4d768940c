package service

import (
	"context"
	"fmt"

	"pulseboard/internal/event"
	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// NotificationService records and serves notifications. It subscribes to the
// event bus, so every follow/like/comment write produces its notification on
// the same request before the response goes out.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// HandleEvent turns a social action into a notification for its recipient.
// Self-directed actions are dropped here, in one place, rather than in every
// producing service.
func (s *NotificationService) HandleEvent(ctx context.Context, e event.Event) error {
	if e.ActorID == e.RecipientID {
		return nil
	}

	actor, err := s.userRepo.GetByID(ctx, e.ActorID)
	if err != nil {
		return fmt.Errorf("load actor %d: %w", e.ActorID, err)
	}

	n := &model.Notification{
		UserID:    e.RecipientID,
		ActorID:   e.ActorID,
		PostID:    e.PostID,
		CommentID: e.CommentID,
	}

	switch e.Type {
	case event.TypeFollowCreated:
		n.Kind = model.NotificationKindFollow
		n.Message = fmt.Sprintf("%s started following you", actor.Username)
	case event.TypeLikeCreated:
		n.Kind = model.NotificationKindLike
		n.Message = fmt.Sprintf("%s liked your post", actor.Username)
	case event.TypeCommentCreated:
		n.Kind = model.NotificationKindComment
		n.Message = fmt.Sprintf("%s commented on your post", actor.Username)
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}

	return s.notificationRepo.Create(ctx, n)
}

// List returns the caller's newest notifications, capped at
// NotificationPageLimit, with unread/total counts over the full set. With
// markRead set, the returned unread notifications are marked read and the
// counts reflect that.
func (s *NotificationService) List(ctx context.Context, userID int64, markRead bool) (*model.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.ListRecent(ctx, userID, model.NotificationPageLimit)
	if err != nil {
		return nil, err
	}

	if markRead {
		var unreadIDs []int64
		for i := range notifications {
			if !notifications[i].IsRead {
				unreadIDs = append(unreadIDs, notifications[i].ID)
				notifications[i].IsRead = true
			}
		}
		if err := s.notificationRepo.MarkReadByIDs(ctx, userID, unreadIDs); err != nil {
			return nil, err
		}
	}

	total, unread, err := s.notificationRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		TotalCount:    total,
	}, nil
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already-read notification succeeds; a foreign or missing one is
// ErrNotificationNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks every unread notification of the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
