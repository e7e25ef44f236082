package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/internal/model"
)

const (
	shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxShortCodeAttempts bounds the regenerate-on-collision loop. With
	// 62^8 possible codes a second attempt is already unlikely.
	maxShortCodeAttempts = 10

	linkCacheKeyPrefix = "shortlink:"
	linkCacheTTL       = 24 * time.Hour
)

// LinkService issues and resolves short codes for arbitrary URLs. Codes are
// unique; URLs map to exactly one code (get-or-create keyed on the URL).
type LinkService struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewLinkService creates a LinkService. cache may be nil, in which case
// resolution always hits the database.
func NewLinkService(db *gorm.DB, cache *redis.Client) *LinkService {
	return &LinkService{db: db, cache: cache}
}

func generateShortCode() (string, error) {
	code := make([]byte, model.ShortCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(shortCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = shortCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// GetOrCreate returns the existing link for fullURL or creates one with a
// fresh code. Uniqueness is enforced by the storage constraints, not the
// pre-check: on a duplicate-key error we first look for a concurrently
// created row for the same URL and return it, otherwise the code collided
// and we redraw.
func (s *LinkService) GetOrCreate(ctx context.Context, fullURL string) (*model.Link, error) {
	var existing model.Link
	err := s.db.WithContext(ctx).First(&existing, "full_url = ?", fullURL).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < maxShortCodeAttempts; attempt++ {
		code, err := generateShortCode()
		if err != nil {
			return nil, err
		}
		link := model.Link{FullURL: fullURL, ShortCode: code}
		err = s.db.WithContext(ctx).Create(&link).Error
		if err == nil {
			return &link, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// A concurrent caller may have won the race on this URL.
		if ferr := s.db.WithContext(ctx).First(&existing, "full_url = ?", fullURL).Error; ferr == nil {
			return &existing, nil
		}
	}
	return nil, fmt.Errorf("could not allocate a unique short code after %d attempts", maxShortCodeAttempts)
}

// Resolve returns the full URL for a short code, consulting the Redis cache
// before the database.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	if s.cache != nil {
		if fullURL, err := s.cache.Get(ctx, linkCacheKeyPrefix+shortCode).Result(); err == nil {
			return fullURL, nil
		}
	}

	var link model.Link
	if err := s.db.WithContext(ctx).First(&link, "short_code = ?", shortCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLinkNotFound
		}
		return "", err
	}

	if s.cache != nil {
		// Best effort; resolution works without the cache.
		s.cache.Set(ctx, linkCacheKeyPrefix+link.ShortCode, link.FullURL, linkCacheTTL)
	}
	return link.FullURL, nil
}
