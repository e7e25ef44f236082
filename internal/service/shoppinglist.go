package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/internal/model"
)

// ShoppingListItem is one consolidated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListService aggregates ingredient lines across all recipes in a
// user's cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// BuildShoppingList sums ingredient amounts per (name, measurement_unit)
// across the cart. The grouping key is deliberately the name/unit pair, not
// the ingredient id. Results are ordered by name then unit so the rendered
// report is reproducible. An empty cart is an error, not an empty list.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var inCart int64
	if err := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ?", userID).Count(&inCart).Error; err != nil {
		return nil, err
	}
	if inCart == 0 {
		return nil, ErrEmptyCart
	}

	var items []ShoppingListItem
	err := s.db.WithContext(ctx).Model(&model.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList formats the aggregated list as the plain-text report
// served as shopping_list.txt, one line per item.
func RenderShoppingList(items []ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s) - %d",
			item.Name, item.MeasurementUnit, item.TotalAmount))
	}
	return strings.Join(lines, "\n")
}
