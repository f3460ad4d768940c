package service

import (
	"context"

	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// FeedService assembles the personal and global timelines. Feeds are pure
// queries over the post store: nothing is precomputed or fanned out, so a
// new follow or post is visible on the very next request.
type FeedService struct {
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
}

func NewFeedService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
	}
}

func clampPageSize(pageSize, fallback int) int {
	if pageSize <= 0 {
		return fallback
	}
	if pageSize > model.FeedMaxPageSize {
		return model.FeedMaxPageSize
	}
	return pageSize
}

// Personal returns one page of the caller's timeline: their own posts plus
// their followees' posts, newest first, optionally narrowed by filters.
func (s *FeedService) Personal(ctx context.Context, userID int64, page, pageSize int, filters model.FeedFilters) (*model.FeedResponse, error) {
	q := model.FeedQuery{
		PersonalFor: &userID,
		Filters:     filters,
	}
	return s.assemble(ctx, q, page, clampPageSize(pageSize, model.PersonalFeedPageSize), &userID)
}

// Global returns one page over every live post. Viewer annotations are
// applied when the caller is authenticated.
func (s *FeedService) Global(ctx context.Context, viewerID *int64, page, pageSize int) (*model.FeedResponse, error) {
	return s.assemble(ctx, model.FeedQuery{}, page, clampPageSize(pageSize, model.GlobalFeedPageSize), viewerID)
}

// assemble counts the filtered set, validates the page against it, then
// fetches and annotates that page. Count and fetch are separate statements,
// so a write landing between them can skew the page metadata by a row.
func (s *FeedService) assemble(ctx context.Context, q model.FeedQuery, page, pageSize int, viewerID *int64) (*model.FeedResponse, error) {
	total, err := s.postRepo.CountFeed(ctx, q)
	if err != nil {
		return nil, err
	}

	pagination, err := model.NewPagination(total, page, pageSize)
	if err != nil {
		return nil, err
	}

	q.Limit = pagination.PageSize
	q.Offset = pagination.Offset()

	posts, err := s.postRepo.ListFeed(ctx, q)
	if err != nil {
		return nil, err
	}

	posts = annotatePosts(ctx, s.likeRepo, s.commentRepo, viewerID, posts)

	resp := &model.FeedResponse{
		Posts:      posts,
		Pagination: pagination,
	}
	if !q.Filters.IsZero() {
		filters := q.Filters
		resp.Filters = &filters
	}
	return resp, nil
}
