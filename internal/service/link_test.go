package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealshare/backend/internal/model"
	"github.com/pageza/mealshare/backend/internal/service"
	"github.com/pageza/mealshare/backend/internal/testhelpers"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	links := service.NewLinkService(db, nil)
	ctx := context.Background()

	first, err := links.GetOrCreate(ctx, "https://example.com/recipes/1")
	require.NoError(t, err)
	assert.Len(t, first.ShortCode, model.ShortCodeLength)

	again, err := links.GetOrCreate(ctx, "https://example.com/recipes/1")
	require.NoError(t, err)
	assert.Equal(t, first.ShortCode, again.ShortCode)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.Link{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateDistinctURLs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	links := service.NewLinkService(db, nil)
	ctx := context.Background()

	a, err := links.GetOrCreate(ctx, "https://example.com/recipes/1")
	require.NoError(t, err)
	b, err := links.GetOrCreate(ctx, "https://example.com/recipes/2")
	require.NoError(t, err)

	assert.NotEqual(t, a.ShortCode, b.ShortCode)
}

func TestResolve(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	links := service.NewLinkService(db, nil)
	ctx := context.Background()

	link, err := links.GetOrCreate(ctx, "https://example.com/recipes/1")
	require.NoError(t, err)

	fullURL, err := links.Resolve(ctx, link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/recipes/1", fullURL)

	_, err = links.Resolve(ctx, "missing00")
	require.ErrorIs(t, err, service.ErrLinkNotFound)
}

func TestShortCodeAlphabet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	links := service.NewLinkService(db, nil)
	ctx := context.Background()

	link, err := links.GetOrCreate(ctx, "https://example.com/recipes/42")
	require.NoError(t, err)

	for _, r := range link.ShortCode {
		isLower := r >= 'a' && r <= 'z'
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		assert.True(t, isLower || isUpper || isDigit, "unexpected rune %q in short code", r)
	}
}
