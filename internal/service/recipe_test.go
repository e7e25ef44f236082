package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/internal/model"
	"github.com/pageza/mealshare/backend/internal/service"
	"github.com/pageza/mealshare/backend/internal/testhelpers"
)

type recipeFixture struct {
	db     *gorm.DB
	svc    *service.RecipeService
	author *model.User
	flour  *model.Ingredient
	egg    *model.Ingredient
	dinner *model.Tag
	quick  *model.Tag
}

func setupRecipeFixture(t *testing.T) *recipeFixture {
	db := testhelpers.SetupTestDB(t)
	return &recipeFixture{
		db:     db,
		svc:    service.NewRecipeService(db),
		author: testhelpers.CreateUser(t, db, "chef"),
		flour:  testhelpers.CreateIngredient(t, db, "flour", "g"),
		egg:    testhelpers.CreateIngredient(t, db, "egg", "pcs"),
		dinner: testhelpers.CreateTag(t, db, "Dinner", "dinner"),
		quick:  testhelpers.CreateTag(t, db, "Quick", "quick"),
	}
}

func (f *recipeFixture) validInput() service.RecipeInput {
	return service.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []service.IngredientLineInput{
			{IngredientID: f.flour.ID, Amount: 200},
			{IngredientID: f.egg.ID, Amount: 2},
		},
		TagIDs: []uuid.UUID{f.dinner.ID, f.quick.ID},
	}
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.AuthorID)

	got, err := f.svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)

	amounts := map[uuid.UUID]int{}
	for _, line := range got.Ingredients {
		amounts[line.IngredientID] = line.Amount
	}
	assert.Equal(t, map[uuid.UUID]int{f.flour.ID: 200, f.egg.ID: 2}, amounts)

	tagIDs := map[uuid.UUID]bool{}
	for _, link := range got.TagLinks {
		tagIDs[link.TagID] = true
	}
	assert.True(t, tagIDs[f.dinner.ID])
	assert.True(t, tagIDs[f.quick.ID])
}

func TestCreateRecipeValidation(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*service.RecipeInput)
		field  string
	}{
		{
			name:   "no tags",
			mutate: func(in *service.RecipeInput) { in.TagIDs = nil },
			field:  "tags",
		},
		{
			name:   "duplicate tags",
			mutate: func(in *service.RecipeInput) { in.TagIDs = []uuid.UUID{f.dinner.ID, f.dinner.ID} },
			field:  "tags",
		},
		{
			name:   "no ingredients",
			mutate: func(in *service.RecipeInput) { in.Ingredients = nil },
			field:  "ingredients",
		},
		{
			name: "duplicate ingredient",
			mutate: func(in *service.RecipeInput) {
				in.Ingredients = []service.IngredientLineInput{
					{IngredientID: f.flour.ID, Amount: 100},
					{IngredientID: f.flour.ID, Amount: 50},
				}
			},
			field: "ingredients",
		},
		{
			name: "amount below minimum",
			mutate: func(in *service.RecipeInput) {
				in.Ingredients = []service.IngredientLineInput{{IngredientID: f.flour.ID, Amount: 0}}
			},
			field: "ingredients",
		},
		{
			name: "amount above maximum",
			mutate: func(in *service.RecipeInput) {
				in.Ingredients = []service.IngredientLineInput{{IngredientID: f.flour.ID, Amount: model.MaxAmount + 1}}
			},
			field: "ingredients",
		},
		{
			name:   "cooking time below minimum",
			mutate: func(in *service.RecipeInput) { in.CookingTime = 0 },
			field:  "cooking_time",
		},
		{
			name:   "cooking time above maximum",
			mutate: func(in *service.RecipeInput) { in.CookingTime = model.MaxCookingTime + 1 },
			field:  "cooking_time",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := f.validInput()
			tc.mutate(&input)

			_, err := f.svc.CreateRecipe(ctx, f.author.ID, input)
			var fieldErr *service.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}

	// Nothing persisted by the failed attempts.
	var count int64
	require.NoError(t, f.db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeUnknownIngredient(t *testing.T) {
	f := setupRecipeFixture(t)

	input := f.validInput()
	ghost := uuid.New()
	input.Ingredients = append(input.Ingredients, service.IngredientLineInput{IngredientID: ghost, Amount: 5})

	_, err := f.svc.CreateRecipe(context.Background(), f.author.ID, input)
	var notFound *service.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ingredient", notFound.Resource)
	assert.Equal(t, ghost.String(), notFound.ID)
}

func TestUpdateRecipeReplacesJoinSets(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	update := service.RecipeInput{
		Name:        "Omelette",
		Text:        "Whisk and cook.",
		CookingTime: 10,
		Ingredients: []service.IngredientLineInput{{IngredientID: f.egg.ID, Amount: 3}},
		TagIDs:      []uuid.UUID{f.quick.ID},
	}
	updated, err := f.svc.UpdateRecipe(ctx, recipe, update)
	require.NoError(t, err)
	assert.Equal(t, "Omelette", updated.Name)
	assert.Equal(t, 10, updated.CookingTime)

	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, f.egg.ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, 3, updated.Ingredients[0].Amount)
	require.Len(t, updated.TagLinks, 1)
	assert.Equal(t, f.quick.ID, updated.TagLinks[0].TagID)

	// No orphaned join rows from the replaced sets.
	var lineCount int64
	require.NoError(t, f.db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lineCount).Error)
	assert.EqualValues(t, 1, lineCount)
}

func TestUpdateRecipeFailureLeavesStateIntact(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	update := f.validInput()
	update.Name = "First update"
	update.Ingredients = []service.IngredientLineInput{{IngredientID: f.flour.ID, Amount: 500}}
	recipe, err = f.svc.UpdateRecipe(ctx, recipe, update)
	require.NoError(t, err)

	// Second update fails validation on a duplicate ingredient id.
	bad := f.validInput()
	bad.Name = "Should not stick"
	bad.Ingredients = []service.IngredientLineInput{
		{IngredientID: f.egg.ID, Amount: 1},
		{IngredientID: f.egg.ID, Amount: 2},
	}
	_, err = f.svc.UpdateRecipe(ctx, recipe, bad)
	require.Error(t, err)

	got, err := f.svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "First update", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, f.flour.ID, got.Ingredients[0].IngredientID)
	assert.Equal(t, 500, got.Ingredients[0].Amount)
}

func TestUpdateRecipeRequiresBothSets(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	missingIngredients := f.validInput()
	missingIngredients.Ingredients = nil
	_, err = f.svc.UpdateRecipe(ctx, recipe, missingIngredients)
	var fieldErr *service.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "ingredients", fieldErr.Field)

	missingTags := f.validInput()
	missingTags.TagIDs = nil
	_, err = f.svc.UpdateRecipe(ctx, recipe, missingTags)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "tags", fieldErr.Field)
}

func TestListRecipesFilters(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	other := testhelpers.CreateUser(t, f.db, "other")

	first, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	second := f.validInput()
	second.Name = "Scramble"
	second.TagIDs = []uuid.UUID{f.quick.ID}
	_, err = f.svc.CreateRecipe(ctx, other.ID, second)
	require.NoError(t, err)

	byAuthor, err := f.svc.ListRecipes(ctx, service.RecipeFilter{AuthorID: f.author.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, first.ID, byAuthor[0].ID)

	byTag, err := f.svc.ListRecipes(ctx, service.RecipeFilter{TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, first.ID, byTag[0].ID)

	all, err := f.svc.ListRecipes(ctx, service.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteRecipeRemovesJoinRows(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRecipe(ctx, recipe.ID))

	_, err = f.svc.GetRecipe(ctx, recipe.ID)
	var notFound *service.NotFoundError
	require.ErrorAs(t, err, &notFound)

	var lineCount int64
	require.NoError(t, f.db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	err = f.svc.DeleteRecipe(ctx, recipe.ID)
	require.ErrorAs(t, err, &notFound)
}
