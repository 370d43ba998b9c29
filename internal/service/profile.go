package service

import (
	"context"
	"log/slog"

	"github.com/sakif/conduit/internal/model"
	"github.com/sakif/conduit/internal/repository"
)

// ProfileService handles public profiles and the following relation.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// Get returns the target user's profile shaped relative to the viewer.
func (s *ProfileService) Get(ctx context.Context, viewerID, username string) (*model.Profile, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following, err := s.users.IsFollowing(ctx, viewer.ID, profile.ID)
	if err != nil {
		return nil, err
	}
	return profile.ProfileJSON(following), nil
}

// Follow adds the target to the viewer's following set. Following an
// already-followed user is a no-op. Returns the target's profile shaped
// relative to the updated viewer state.
func (s *ProfileService) Follow(ctx context.Context, viewerID, username string) (*model.Profile, error) {
	profile, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.users.Follow(ctx, viewerID, profile.ID); err != nil {
		return nil, err
	}

	s.logger.Info("user followed",
		slog.String("followerID", viewerID),
		slog.String("followeeID", profile.ID),
	)

	return profile.ProfileJSON(true), nil
}

// Unfollow removes the target from the viewer's following set.
// Unfollowing a user who isn't followed is a no-op.
func (s *ProfileService) Unfollow(ctx context.Context, viewerID, username string) (*model.Profile, error) {
	profile, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.users.Unfollow(ctx, viewerID, profile.ID); err != nil {
		return nil, err
	}

	s.logger.Info("user unfollowed",
		slog.String("followerID", viewerID),
		slog.String("followeeID", profile.ID),
	)

	return profile.ProfileJSON(false), nil
}
