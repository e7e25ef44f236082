package api

import (
	"github.com/google/uuid"

	"github.com/pageza/mealshare/backend/internal/service"
)

// RecipeRequest is the write payload for recipe create/update. Ingredients
// and tags always replace the stored sets wholesale.
type RecipeRequest struct {
	Name        string                        `json:"name" binding:"required"`
	Image       string                        `json:"image"`
	Text        string                        `json:"text" binding:"required"`
	CookingTime int                           `json:"cooking_time"`
	Ingredients []service.IngredientLineInput `json:"ingredients"`
	Tags        []uuid.UUID                   `json:"tags"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientLineResponse is one ingredient line in a recipe read view.
type IngredientLineResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// TagResponse mirrors the tag reference data.
type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// RecipeResponse is the full recipe read view, including per-viewer flags.
type RecipeResponse struct {
	ID               uuid.UUID                `json:"id"`
	Tags             []TagResponse            `json:"tags"`
	Author           UserResponse             `json:"author"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time"`
}

// RecipeShortResponse is the compact recipe view used inside subscriptions.
type RecipeShortResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse is one subscribed author with their recipes.
type SubscriptionResponse struct {
	UserResponse
	RecipesCount int                   `json:"recipes_count"`
	Recipes      []RecipeShortResponse `json:"recipes"`
}
