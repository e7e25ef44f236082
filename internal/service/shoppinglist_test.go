package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealshare/backend/internal/service"
	"github.com/pageza/mealshare/backend/internal/testhelpers"
)

func TestBuildShoppingListSumsAcrossCart(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	pancakes, err := f.svc.CreateRecipe(ctx, f.author.ID, service.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []service.IngredientLineInput{
			{IngredientID: f.flour.ID, Amount: 200},
		},
		TagIDs: []uuid.UUID{f.dinner.ID},
	})
	require.NoError(t, err)

	crepes, err := f.svc.CreateRecipe(ctx, f.author.ID, service.RecipeInput{
		Name:        "Crepes",
		Text:        "Thinner batter.",
		CookingTime: 15,
		Ingredients: []service.IngredientLineInput{
			{IngredientID: f.flour.ID, Amount: 100},
			{IngredientID: f.egg.ID, Amount: 2},
		},
		TagIDs: []uuid.UUID{f.quick.ID},
	})
	require.NoError(t, err)

	memberships := service.NewMembershipService(f.db)
	require.NoError(t, memberships.Add(ctx, service.KindCart, f.author.ID, pancakes.ID))
	require.NoError(t, memberships.Add(ctx, service.KindCart, f.author.ID, crepes.ID))

	lists := service.NewShoppingListService(f.db)
	items, err := lists.BuildShoppingList(ctx, f.author.ID)
	require.NoError(t, err)

	require.Equal(t, []service.ShoppingListItem{
		{Name: "egg", MeasurementUnit: "pcs", TotalAmount: 2},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 300},
	}, items)
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	f := setupRecipeFixture(t)

	lists := service.NewShoppingListService(f.db)
	_, err := lists.BuildShoppingList(context.Background(), f.author.ID)
	require.ErrorIs(t, err, service.ErrEmptyCart)
}

func TestBuildShoppingListScopedToUser(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	other := testhelpers.CreateUser(t, f.db, "other")
	memberships := service.NewMembershipService(f.db)
	require.NoError(t, memberships.Add(ctx, service.KindCart, other.ID, recipe.ID))

	lists := service.NewShoppingListService(f.db)
	_, err = lists.BuildShoppingList(ctx, f.author.ID)
	require.ErrorIs(t, err, service.ErrEmptyCart)

	items, err := lists.BuildShoppingList(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestBuildShoppingListOrderIndependent(t *testing.T) {
	f := setupRecipeFixture(t)
	ctx := context.Background()

	inputs := []service.RecipeInput{
		{
			Name: "A", Text: "a", CookingTime: 5,
			Ingredients: []service.IngredientLineInput{{IngredientID: f.flour.ID, Amount: 50}},
			TagIDs:      []uuid.UUID{f.dinner.ID},
		},
		{
			Name: "B", Text: "b", CookingTime: 5,
			Ingredients: []service.IngredientLineInput{
				{IngredientID: f.egg.ID, Amount: 4},
				{IngredientID: f.flour.ID, Amount: 75},
			},
			TagIDs: []uuid.UUID{f.quick.ID},
		},
	}

	memberships := service.NewMembershipService(f.db)
	lists := service.NewShoppingListService(f.db)

	// Forward insertion order.
	forwardUser := testhelpers.CreateUser(t, f.db, "forward")
	for _, in := range inputs {
		recipe, err := f.svc.CreateRecipe(ctx, forwardUser.ID, in)
		require.NoError(t, err)
		require.NoError(t, memberships.Add(ctx, service.KindCart, forwardUser.ID, recipe.ID))
	}
	forward, err := lists.BuildShoppingList(ctx, forwardUser.ID)
	require.NoError(t, err)

	// Reverse insertion order.
	reverseUser := testhelpers.CreateUser(t, f.db, "reverse")
	for i := len(inputs) - 1; i >= 0; i-- {
		recipe, err := f.svc.CreateRecipe(ctx, reverseUser.ID, inputs[i])
		require.NoError(t, err)
		require.NoError(t, memberships.Add(ctx, service.KindCart, reverseUser.ID, recipe.ID))
	}
	reverse, err := lists.BuildShoppingList(ctx, reverseUser.ID)
	require.NoError(t, err)

	assert.Equal(t, forward, reverse)
}

func TestRenderShoppingList(t *testing.T) {
	rendered := service.RenderShoppingList([]service.ShoppingListItem{
		{Name: "egg", MeasurementUnit: "pcs", TotalAmount: 2},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 300},
	})
	assert.Equal(t, "- egg (pcs) - 2\n- flour (g) - 300", rendered)

	assert.Equal(t, "", service.RenderShoppingList(nil))
}
