package service

import (
	"context"
	"log"

	"pulseboard/internal/event"
	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// FollowPageSize is the page length for follower/following lists.
const FollowPageSize = 20

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	events     event.Bus
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	events event.Bus,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		events:     events,
	}
}

// Follow creates an edge from follower to the named user. The insert itself
// is the duplicate check: two concurrent follows race to one row and the
// loser gets ErrAlreadyFollowing.
func (s *FollowService) Follow(ctx context.Context, followerID int64, username string) (*model.User, error) {
	followee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if followerID == followee.ID {
		return nil, model.ErrSelfFollow
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followee.ID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, model.ErrAlreadyFollowing
	}

	log.Printf("[FollowService] User %d followed user %d", followerID, followee.ID)
	s.events.Dispatch(ctx, event.NewFollowCreated(followerID, followee.ID))

	return followee, nil
}

// Unfollow removes the edge to the named user.
func (s *FollowService) Unfollow(ctx context.Context, followerID int64, username string) error {
	followee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if followerID == followee.ID {
		return model.ErrSelfFollow
	}

	if err := s.followRepo.Delete(ctx, followerID, followee.ID); err != nil {
		return err
	}

	log.Printf("[FollowService] User %d unfollowed user %d", followerID, followee.ID)
	return nil
}

// GetFollowers lists the named user's followers, newest edge first, with
// page-number pagination.
func (s *FollowService) GetFollowers(ctx context.Context, username string, page int, viewerID *int64) (*model.FollowListResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	pagination, err := model.NewPagination(total, page, FollowPageSize)
	if err != nil {
		return nil, err
	}

	users, err := s.followRepo.ListFollowers(ctx, user.ID, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	return &model.FollowListResponse{
		Users:      users,
		Pagination: pagination,
	}, nil
}

// GetFollowing lists the users the named user follows. Same shape as
// GetFollowers.
func (s *FollowService) GetFollowing(ctx context.Context, username string, page int, viewerID *int64) (*model.FollowListResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	pagination, err := model.NewPagination(total, page, FollowPageSize)
	if err != nil {
		return nil, err
	}

	users, err := s.followRepo.ListFollowing(ctx, user.ID, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	return &model.FollowListResponse{
		Users:      users,
		Pagination: pagination,
	}, nil
}

// enrichWithFollowStatus batch-checks the viewer's relationship to every
// listed user in both directions. Failures degrade to false rather than
// failing the list.
func (s *FollowService) enrichWithFollowStatus(ctx context.Context, viewerID int64, users []model.UserSummary) []model.UserSummary {
	if len(users) == 0 {
		return users
	}

	userIDs := make([]int64, len(users))
	for i, user := range users {
		userIDs[i] = user.ID
	}

	following, err := s.followRepo.CheckFollows(ctx, viewerID, userIDs)
	if err != nil {
		log.Printf("[FollowService] Failed to check follow status: %v", err)
		return users
	}
	followedBy, err := s.followRepo.CheckFollowedBy(ctx, viewerID, userIDs)
	if err != nil {
		log.Printf("[FollowService] Failed to check followed-by status: %v", err)
	}

	for i := range users {
		users[i].IsFollowing = following[users[i].ID]
		if followedBy != nil {
			users[i].FollowsYou = followedBy[users[i].ID]
		}
	}

	return users
}
