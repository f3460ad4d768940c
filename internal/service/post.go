package service

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"pulseboard/internal/event"
	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// UserPostsPageSize is the page length for a profile's post list.
const UserPostsPageSize = 10

// PostService handles post CRUD and likes.
type PostService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	events      event.Bus
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	events event.Bus,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		events:      events,
	}
}

// validatePostContent trims the content and bounds it in characters, not
// bytes. The trimmed string is what gets persisted.
func validatePostContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", model.ErrContentRequired
	}
	if utf8.RuneCountInString(trimmed) > model.MaxPostContentLength {
		return "", model.ErrContentTooLong
	}
	return trimmed, nil
}

// Create creates a new post.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	content, err := validatePostContent(req.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.Create(ctx, userID, content, req.Image)
	if err != nil {
		return nil, err
	}

	// The insert returns bare columns; attach the author for the response.
	author, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		post.Author = &model.UserSummary{
			ID:             author.ID,
			Username:       author.Username,
			ProfilePicture: author.ProfilePicture,
		}
	}

	return post, nil
}

// GetByID retrieves a single post annotated for the viewer.
func (s *PostService) GetByID(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	posts := s.annotatePosts(ctx, viewerID, []model.Post{*post})
	return &posts[0], nil
}

// Update edits the caller's post. Content and image are independently
// optional; an omitted field is left unchanged.
func (s *PostService) Update(ctx context.Context, postID, userID int64, req model.UpdatePostRequest) (*model.Post, error) {
	if req.Content != nil {
		trimmed, err := validatePostContent(*req.Content)
		if err != nil {
			return nil, err
		}
		req.Content = &trimmed
	}
	return s.postRepo.Update(ctx, postID, userID, req.Content, req.Image)
}

// Delete soft-deletes the caller's post. Deleting an already-deleted post
// reports ErrPostNotFound, same as any other missing post.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	return s.postRepo.SoftDelete(ctx, postID, userID)
}

// GetUserPosts lists the named user's posts, newest first, with page-number
// pagination and viewer annotations.
func (s *PostService) GetUserPosts(ctx context.Context, username string, page int, viewerID *int64) (*model.PostListResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	pagination, err := model.NewPagination(total, page, UserPostsPageSize)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, user.ID, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, err
	}

	posts = s.annotatePosts(ctx, viewerID, posts)

	return &model.PostListResponse{
		Posts:      posts,
		Pagination: pagination,
	}, nil
}

// Like records the caller's like on a post and notifies the author. The
// unique constraint on (user_id, post_id) is the lost-update guard: a racing
// duplicate like gets ErrAlreadyLiked no matter how the race interleaves.
func (s *PostService) Like(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if _, err := s.likeRepo.Create(ctx, postID, userID); err != nil {
		return err
	}

	log.Printf("[PostService] User %d liked post %d", userID, postID)
	s.events.Dispatch(ctx, event.NewLikeCreated(userID, post.UserID, postID))

	return nil
}

// Unlike removes the caller's like.
func (s *PostService) Unlike(ctx context.Context, postID, userID int64) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	if err := s.likeRepo.Delete(ctx, postID, userID); err != nil {
		return err
	}

	log.Printf("[PostService] User %d unliked post %d", userID, postID)
	return nil
}

func (s *PostService) annotatePosts(ctx context.Context, viewerID *int64, posts []model.Post) []model.Post {
	return annotatePosts(ctx, s.likeRepo, s.commentRepo, viewerID, posts)
}

// annotatePosts attaches viewer-specific like status and the newest comments
// to each post. Both lookups are batched; failures degrade to unannotated
// posts rather than failing the read.
func annotatePosts(
	ctx context.Context,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	viewerID *int64,
	posts []model.Post,
) []model.Post {
	if len(posts) == 0 {
		return posts
	}

	postIDs := make([]int64, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	if viewerID != nil {
		liked, err := likeRepo.CheckLikes(ctx, *viewerID, postIDs)
		if err != nil {
			log.Printf("[Posts] Failed to check like status: %v", err)
		} else {
			for i := range posts {
				posts[i].IsLiked = liked[posts[i].ID]
			}
		}
	}

	recent, err := commentRepo.ListRecentByPosts(ctx, postIDs, model.RecentCommentsPerPost)
	if err != nil {
		log.Printf("[Posts] Failed to load recent comments: %v", err)
		return posts
	}
	for i := range posts {
		posts[i].RecentComments = recent[posts[i].ID]
	}

	return posts
}
