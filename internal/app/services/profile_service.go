package services

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/filestorage"
)

// ProfileService manages the signed-in user's own account
type ProfileService interface {
	GetMe(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID int64, fileName string, content io.Reader) (*dto.UserResponse, error)
}

type profileServiceImpl struct {
	users  UserStore
	files  FileService
	logger zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(users UserStore, files FileService, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{users: users, files: files, logger: logger}
}

func (s *profileServiceImpl) GetMe(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, s.avatarURL(ctx, user))
	return &resp, nil
}

func (s *profileServiceImpl) UpdateMe(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, userID)
}

// UploadAvatar stores a new avatar and deletes the previous one
func (s *profileServiceImpl) UploadAvatar(ctx context.Context, userID int64, fileName string, content io.Reader) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Upload(ctx, Upload{
		Kind:         filestorage.KindAvatar,
		FileName:     fileName,
		Content:      content,
		ResourceType: models.FileResourceUser,
		ResourceID:   userID,
		UploadedBy:   userID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateAvatar(ctx, userID, &file.ID); err != nil {
		s.files.DeleteQuietly(ctx, &file.ID)
		return nil, err
	}
	s.files.DeleteQuietly(ctx, user.AvatarFileID)

	user.AvatarFileID = &file.ID
	resp := dto.NewUserResponse(user, s.fileURL(file))
	return &resp, nil
}

func (s *profileServiceImpl) avatarURL(ctx context.Context, user *models.User) string {
	if user.AvatarFileID == nil {
		return ""
	}
	file, err := s.files.Get(ctx, *user.AvatarFileID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Avatar file missing")
		return ""
	}
	return s.fileURL(file)
}

func (s *profileServiceImpl) fileURL(file *models.File) string {
	u, err := s.files.URL(file)
	if err != nil {
		s.logger.Warn().Err(err).Int64("fileID", file.ID).Msg("Could not resolve file URL")
		return ""
	}
	return u
}
