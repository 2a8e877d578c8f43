package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/rs/xid"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/media"
	"github.com/baraus/tutorhub/internal/repository"
)

// MaxAvatarBytes caps avatar uploads at 5 MiB.
const MaxAvatarBytes = 5 << 20

// extByContentType lists the accepted avatar formats. Anything else is
// a validation error, not a storage attempt.
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarService replaces a user's stored avatar image.
type AvatarService struct {
	users  repository.UserRepository
	store  media.Store
	logger *slog.Logger
}

// NewAvatarService creates an AvatarService. store may be nil when
// object storage isn't configured; Upload then fails cleanly instead
// of at boot, mirroring how optional dependencies degrade elsewhere.
func NewAvatarService(users repository.UserRepository, store media.Store, logger *slog.Logger) *AvatarService {
	return &AvatarService{
		users:  users,
		store:  store,
		logger: logger,
	}
}

// Upload stores the new image, swaps the user's avatar URL, and
// removes the previous object.
//
// Ordering matters: the new object is uploaded and the user row
// updated BEFORE the old object is removed, so a failure at any step
// never leaves the user pointing at a deleted image. The removal is
// best-effort; a failed delete is logged, not surfaced; the upload
// already succeeded from the user's point of view. Placeholder avatars
// are never deletion candidates: they live on an external service,
// not in our bucket.
func (s *AvatarService) Upload(ctx context.Context, userID int64, r io.Reader, size int64, contentType string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("service/avatar: object storage is not configured")
	}

	ext, ok := extByContentType[contentType]
	if !ok {
		return "", apperror.ValidationFailed("image", "avatar must be a JPEG, PNG, or WebP image")
	}
	if size <= 0 || size > MaxAvatarBytes {
		return "", apperror.ValidationFailed("image", "avatar must be between 1 byte and 5 MiB")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key := path.Join("avatars", xid.New().String()+ext)
	url, err := s.store.Put(ctx, key, r, size, contentType)
	if err != nil {
		return "", fmt.Errorf("service/avatar: storing avatar for user %d: %w", userID, err)
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}

	if !media.IsPlaceholder(user.Avatar) {
		if oldKey, ok := s.store.KeyFromURL(user.Avatar); ok {
			if err := s.store.Remove(ctx, oldKey); err != nil {
				s.logger.Warn("failed to remove previous avatar",
					slog.Int64("userID", userID),
					slog.String("key", oldKey),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	s.logger.Info("avatar updated",
		slog.Int64("userID", userID),
		slog.String("key", key),
	)

	return url, nil
}
