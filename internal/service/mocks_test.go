package service

import (
	"context"
	"time"

	"pulseboard/internal/event"
	"pulseboard/internal/model"
)

// Hand-rolled mocks: each repository interface gets a struct of function
// fields so every test defines exactly the behavior it needs. Unset fields
// fall back to a sane "not found / empty" default.

type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	updateProfileFn func(ctx context.Context, id int64, bio, picture *string) (*model.User, error)
	searchFn        func(ctx context.Context, query string, limit int) ([]model.UserSummary, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id int64, bio, picture *string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, bio, picture)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.UserSummary{}, nil
}

type mockFollowRepository struct {
	createFn         func(ctx context.Context, followerID, followingID int64) (bool, error)
	deleteFn         func(ctx context.Context, followerID, followingID int64) error
	existsFn         func(ctx context.Context, followerID, followingID int64) (bool, error)
	listFollowersFn  func(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
	listFollowingFn  func(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error)
	countFollowersFn func(ctx context.Context, userID int64) (int, error)
	countFollowingFn func(ctx context.Context, userID int64) (int, error)
	checkFollowsFn   func(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error)
	checkFollowedFn  func(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error)
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followingID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followingID)
	}
	return nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followingID)
	}
	return false, nil
}

func (m *mockFollowRepository) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	if m.listFollowersFn != nil {
		return m.listFollowersFn(ctx, userID, limit, offset)
	}
	return []model.UserSummary{}, nil
}

func (m *mockFollowRepository) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]model.UserSummary, error) {
	if m.listFollowingFn != nil {
		return m.listFollowingFn(ctx, userID, limit, offset)
	}
	return []model.UserSummary{}, nil
}

func (m *mockFollowRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	if m.countFollowersFn != nil {
		return m.countFollowersFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockFollowRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	if m.countFollowingFn != nil {
		return m.countFollowingFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockFollowRepository) CheckFollows(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
	if m.checkFollowsFn != nil {
		return m.checkFollowsFn(ctx, viewerID, userIDs)
	}
	result := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		result[id] = false
	}
	return result, nil
}

func (m *mockFollowRepository) CheckFollowedBy(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
	if m.checkFollowedFn != nil {
		return m.checkFollowedFn(ctx, viewerID, userIDs)
	}
	result := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		result[id] = false
	}
	return result, nil
}

type mockPostRepository struct {
	createFn      func(ctx context.Context, userID int64, content string, image *string) (*model.Post, error)
	getByIDFn     func(ctx context.Context, postID int64) (*model.Post, error)
	updateFn      func(ctx context.Context, postID, userID int64, content, image *string) (*model.Post, error)
	softDeleteFn  func(ctx context.Context, postID, userID int64) error
	listByUserFn  func(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	countByUserFn func(ctx context.Context, userID int64) (int, error)
	listFeedFn    func(ctx context.Context, q model.FeedQuery) ([]model.Post, error)
	countFeedFn   func(ctx context.Context, q model.FeedQuery) (int, error)

	listFeedCalls []model.FeedQuery
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, content string, image *string) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, content, image)
	}
	return &model.Post{ID: 1, UserID: userID, Content: content, Image: image, CreatedAt: time.Now()}, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Update(ctx context.Context, postID, userID int64, content, image *string) (*model.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, postID, userID, content, image)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) SoftDelete(ctx context.Context, postID, userID int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, postID, userID)
	}
	return model.ErrPostNotFound
}

func (m *mockPostRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit, offset)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	if m.countByUserFn != nil {
		return m.countByUserFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockPostRepository) ListFeed(ctx context.Context, q model.FeedQuery) ([]model.Post, error) {
	m.listFeedCalls = append(m.listFeedCalls, q)
	if m.listFeedFn != nil {
		return m.listFeedFn(ctx, q)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) CountFeed(ctx context.Context, q model.FeedQuery) (int, error) {
	if m.countFeedFn != nil {
		return m.countFeedFn(ctx, q)
	}
	return 0, nil
}

type mockLikeRepository struct {
	createFn     func(ctx context.Context, postID, userID int64) (*model.Like, error)
	deleteFn     func(ctx context.Context, postID, userID int64) error
	checkLikesFn func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

func (m *mockLikeRepository) Create(ctx context.Context, postID, userID int64) (*model.Like, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID)
	}
	return &model.Like{ID: 1, PostID: postID, UserID: userID, CreatedAt: time.Now()}, nil
}

func (m *mockLikeRepository) Delete(ctx context.Context, postID, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockLikeRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, postIDs)
	}
	result := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		result[id] = false
	}
	return result, nil
}

type mockCommentRepository struct {
	createFn         func(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error)
	getByIDFn        func(ctx context.Context, commentID int64) (*model.Comment, error)
	getByIDAnyFn     func(ctx context.Context, commentID int64) (*model.Comment, error)
	updateFn         func(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error)
	softDeleteFn     func(ctx context.Context, commentID, userID int64) error
	listTopLevelFn   func(ctx context.Context, postID int64) ([]model.Comment, error)
	listRepliesFn    func(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error)
	listRecentFn     func(ctx context.Context, postIDs []int64, perPost int) (map[int64][]model.Comment, error)
	createdParentIDs []*int64
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	m.createdParentIDs = append(m.createdParentIDs, parentID)
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, content, parentID)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Content: content, ParentCommentID: parentID, CreatedAt: time.Now()}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) GetByIDAny(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDAnyFn != nil {
		return m.getByIDAnyFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, commentID, userID, content)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) SoftDelete(ctx context.Context, commentID, userID int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, commentID, userID)
	}
	return model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListTopLevelByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if m.listTopLevelFn != nil {
		return m.listTopLevelFn(ctx, postID)
	}
	return []model.Comment{}, nil
}

func (m *mockCommentRepository) ListRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64][]model.Comment, error) {
	if m.listRepliesFn != nil {
		return m.listRepliesFn(ctx, parentIDs)
	}
	return map[int64][]model.Comment{}, nil
}

func (m *mockCommentRepository) ListRecentByPosts(ctx context.Context, postIDs []int64, perPost int) (map[int64][]model.Comment, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, postIDs, perPost)
	}
	return map[int64][]model.Comment{}, nil
}

type mockNotificationRepository struct {
	createFn        func(ctx context.Context, n *model.Notification) error
	listRecentFn    func(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	countsFn        func(ctx context.Context, userID int64) (int, int, error)
	markReadFn      func(ctx context.Context, notificationID, userID int64) error
	markReadByIDsFn func(ctx context.Context, userID int64, ids []int64) error
	markAllReadFn   func(ctx context.Context, userID int64) error

	created       []*model.Notification
	markedByIDs   [][]int64
	markedAllFor  []int64
	markedSingles []int64
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	m.created = append(m.created, n)
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	n.ID = int64(len(m.created))
	n.CreatedAt = time.Now()
	return nil
}

func (m *mockNotificationRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, userID, limit)
	}
	return []model.Notification{}, nil
}

func (m *mockNotificationRepository) Counts(ctx context.Context, userID int64) (int, int, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx, userID)
	}
	return 0, 0, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, notificationID, userID int64) error {
	m.markedSingles = append(m.markedSingles, notificationID)
	if m.markReadFn != nil {
		return m.markReadFn(ctx, notificationID, userID)
	}
	return nil
}

func (m *mockNotificationRepository) MarkReadByIDs(ctx context.Context, userID int64, ids []int64) error {
	m.markedByIDs = append(m.markedByIDs, ids)
	if m.markReadByIDsFn != nil {
		return m.markReadByIDsFn(ctx, userID, ids)
	}
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	m.markedAllFor = append(m.markedAllFor, userID)
	if m.markAllReadFn != nil {
		return m.markAllReadFn(ctx, userID)
	}
	return nil
}

type mockRefreshTokenRepository struct {
	createFn          func(ctx context.Context, token *model.RefreshToken) error
	findByHashFn      func(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	revokeFn          func(ctx context.Context, id string, replacedBy *string) error
	revokeAllFn       func(ctx context.Context, userID int64) error
	deleteExpiredFn   func(ctx context.Context, olderThan time.Duration) (int64, error)
	revokeAllForUsers []int64
	revokedIDs        []string
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	token.ID = "token-id"
	token.CreatedAt = time.Now()
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	if m.findByHashFn != nil {
		return m.findByHashFn(ctx, tokenHash)
	}
	return nil, model.ErrRefreshTokenNotFound
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	m.revokedIDs = append(m.revokedIDs, id)
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id, replacedBy)
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	m.revokeAllForUsers = append(m.revokeAllForUsers, userID)
	if m.revokeAllFn != nil {
		return m.revokeAllFn(ctx, userID)
	}
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, olderThan)
	}
	return 0, nil
}

// mockBus records dispatched events.
type mockBus struct {
	events []event.Event
}

func (b *mockBus) Dispatch(ctx context.Context, e event.Event) {
	b.events = append(b.events, e)
}
