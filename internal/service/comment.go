package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"pulseboard/internal/event"
	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// CommentService handles threaded comments on posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	events      event.Bus
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	events event.Bus,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		events:      events,
	}
}

// validateCommentContent trims the content and bounds it in characters, not
// bytes. The trimmed string is what gets persisted.
func validateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", model.ErrContentRequired
	}
	if utf8.RuneCountInString(trimmed) > model.MaxCommentContentLength {
		return "", model.ErrContentTooLong
	}
	return trimmed, nil
}

// Create adds a comment to a post and notifies the post's author. Replies
// stay one level deep: replying to a reply reparents the new comment onto
// the thread's top-level comment.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	content, err := validateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	parentID := req.ParentCommentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, model.ErrCommentNotFound
		}
		if parent.ParentCommentID != nil {
			parentID = parent.ParentCommentID
		}
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, content, parentID)
	if err != nil {
		return nil, err
	}

	log.Printf("[CommentService] User %d commented on post %d", userID, postID)
	s.events.Dispatch(ctx, event.NewCommentCreated(userID, post.UserID, postID, comment.ID))

	return comment, nil
}

// List returns a post's live comments as a two-level thread: top-level
// comments oldest first, each with its replies oldest first. Count covers
// every listed comment including replies.
func (s *CommentService) List(ctx context.Context, postID int64) (*model.CommentListResponse, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	topLevel, err := s.commentRepo.ListTopLevelByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	count := len(topLevel)
	if len(topLevel) > 0 {
		parentIDs := make([]int64, len(topLevel))
		for i, c := range topLevel {
			parentIDs[i] = c.ID
		}

		replies, err := s.commentRepo.ListRepliesByParents(ctx, parentIDs)
		if err != nil {
			return nil, err
		}
		for i := range topLevel {
			topLevel[i].Replies = replies[topLevel[i].ID]
			count += len(topLevel[i].Replies)
		}
	}

	return &model.CommentListResponse{
		Comments: topLevel,
		Count:    count,
	}, nil
}

// Update edits the caller's comment.
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, req model.UpdateCommentRequest) (*model.Comment, error) {
	content, err := validateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.Update(ctx, commentID, userID, content)
	if err != nil {
		return nil, s.classifyWriteMiss(ctx, commentID, userID, err)
	}
	return comment, nil
}

// Delete soft-deletes the caller's comment. Replies of a deleted top-level
// comment stay in the store but no longer surface, since threads are built
// from live top-level comments only.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	if err := s.commentRepo.SoftDelete(ctx, commentID, userID); err != nil {
		return s.classifyWriteMiss(ctx, commentID, userID, err)
	}
	return nil
}

// classifyWriteMiss decides whether a zero-row update hit someone else's
// live comment or a comment that is gone. The any-state lookup is the only
// way to tell the two apart, since soft-deleted rows stay in the table.
func (s *CommentService) classifyWriteMiss(ctx context.Context, commentID, userID int64, err error) error {
	if !errors.Is(err, model.ErrCommentNotFound) {
		return err
	}
	existing, lookupErr := s.commentRepo.GetByIDAny(ctx, commentID)
	if lookupErr == nil && !existing.IsDeleted && existing.UserID != userID {
		return model.ErrNotCommentOwner
	}
	return model.ErrCommentNotFound
}
