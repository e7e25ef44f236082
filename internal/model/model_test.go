package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/internal/model"
	"github.com/pageza/mealshare/backend/internal/testhelpers"
)

func TestIngredientNameUnitUnique(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	require.NoError(t, db.Create(&model.Ingredient{Name: "flour", MeasurementUnit: "g"}).Error)

	err := db.Create(&model.Ingredient{Name: "flour", MeasurementUnit: "g"}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Same name with a different unit is a distinct ingredient.
	require.NoError(t, db.Create(&model.Ingredient{Name: "flour", MeasurementUnit: "kg"}).Error)
}

func TestRecipeIngredientPairUnique(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	author := testhelpers.CreateUser(t, db, "chef")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	recipe := &model.Recipe{AuthorID: author.ID, Name: "Bread", Text: "Bake.", CookingTime: 60}
	require.NoError(t, db.Create(recipe).Error)

	require.NoError(t, db.Create(&model.RecipeIngredient{
		RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 500,
	}).Error)

	err := db.Create(&model.RecipeIngredient{
		RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 100,
	}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSubscriptionPairUnique(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	viewer := testhelpers.CreateUser(t, db, "viewer")
	author := testhelpers.CreateUser(t, db, "author")

	require.NoError(t, db.Create(&model.Subscription{UserID: viewer.ID, AuthorID: author.ID}).Error)

	err := db.Create(&model.Subscription{UserID: viewer.ID, AuthorID: author.ID}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	tag := &model.Tag{Name: "Breakfast", Slug: "breakfast"}
	require.NoError(t, db.Create(tag).Error)
	assert.NotEqual(t, uuid.Nil, tag.ID)

	link := &model.Link{FullURL: "https://example.com", ShortCode: "abc12345"}
	require.NoError(t, db.Create(link).Error)
	assert.NotEqual(t, uuid.Nil, link.ID)
}
