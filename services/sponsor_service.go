package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
	"github.com/Dosada05/seqel-esports/storage"
)

const (
	sponsorKeyPrefix = "sponsors/"
	// SponsorURLPrefix is where locally stored sponsor images are served.
	SponsorURLPrefix = "/sponsor-files"
)

var (
	ErrSponsorUploadFailed    = errors.New("failed to upload sponsor image")
	ErrUnsupportedContentType = errors.New("unsupported image content type")
)

type Sponsor struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type SponsorService interface {
	Upload(ctx context.Context, contentType string, reader io.Reader) (*Sponsor, error)
	List(ctx context.Context) ([]Sponsor, error)
	Delete(ctx context.Context, key string) error
	// LocalDir is the directory local sponsor files are served from.
	LocalDir(ctx context.Context) (string, error)
}

type sponsorService struct {
	remote      storage.FileUploader
	settingRepo repositories.SettingRepository
	logger      *slog.Logger
}

// NewSponsorService stores images in remote when it is non-nil, otherwise
// under the directory named by the SponsorPath setting.
func NewSponsorService(remote storage.FileUploader, settingRepo repositories.SettingRepository, logger *slog.Logger) SponsorService {
	return &sponsorService{
		remote:      remote,
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// extensionFor maps image content types to file extensions.
func extensionFor(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
}

func (s *sponsorService) LocalDir(ctx context.Context) (string, error) {
	return readSetting(ctx, s.settingRepo, nil, models.SettingSponsorPath)
}

func (s *sponsorService) store(ctx context.Context) (storage.FileUploader, error) {
	if s.remote != nil {
		return s.remote, nil
	}
	dir, err := s.LocalDir(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewLocalUploader(dir, SponsorURLPrefix), nil
}

func (s *sponsorService) Upload(ctx context.Context, contentType string, reader io.Reader) (*Sponsor, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return nil, err
	}
	store, err := s.store(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSponsorUploadFailed, err)
	}

	key := sponsorKeyPrefix + uuid.NewString() + ext
	res, err := store.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSponsorUploadFailed, err)
	}

	s.logger.InfoContext(ctx, "sponsor image uploaded", slog.String("key", res.Key))
	return &Sponsor{Key: res.Key, URL: res.Location}, nil
}

func (s *sponsorService) List(ctx context.Context) ([]Sponsor, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := store.List(ctx, sponsorKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsor images: %w", err)
	}

	sponsors := make([]Sponsor, 0, len(keys))
	for _, key := range keys {
		if mimeFromExt(path.Ext(key)) == "" {
			continue
		}
		sponsors = append(sponsors, Sponsor{Key: key, URL: store.GetPublicURL(key)})
	}
	return sponsors, nil
}

func (s *sponsorService) Delete(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, sponsorKeyPrefix) {
		return newValidationError("key", "not a sponsor image")
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return newValidationError("key", "not a sponsor image")
		}
		return fmt.Errorf("failed to delete sponsor image: %w", err)
	}
	return nil
}

func mimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	}
	return ""
}
