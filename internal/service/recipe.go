package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/internal/model"
)

// IngredientLineInput is one (ingredient, amount) line of a recipe write.
type IngredientLineInput struct {
	IngredientID uuid.UUID `json:"id"`
	Amount       int       `json:"amount"`
}

// RecipeInput carries the full payload of a recipe create or update. Both
// join-sets are replaced wholesale; partial patches of either set are not
// supported.
type RecipeInput struct {
	Name        string
	ImageURL    string
	Text        string
	CookingTime int
	Ingredients []IngredientLineInput
	TagIDs      []uuid.UUID
}

// RecipeService owns the recipe lifecycle: validation of the ingredient and
// tag sets, and atomic persistence of the recipe with its join rows.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// validateInput runs all checks before any mutation. Order matters: tag set
// first, then ingredient set, then bounds.
func (s *RecipeService) validateInput(ctx context.Context, input *RecipeInput) error {
	if len(input.TagIDs) == 0 {
		return NewFieldError("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if _, dup := seenTags[id]; dup {
			return NewFieldError("tags", "tags must not repeat")
		}
		seenTags[id] = struct{}{}
	}

	if len(input.Ingredients) == 0 {
		return NewFieldError("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if _, dup := seenIngredients[line.IngredientID]; dup {
			return NewFieldError("ingredients", "ingredients must not repeat")
		}
		seenIngredients[line.IngredientID] = struct{}{}
	}

	for _, line := range input.Ingredients {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Ingredient{}).
			Where("id = ?", line.IngredientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &NotFoundError{Resource: "ingredient", ID: line.IngredientID.String()}
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id IN ?", input.TagIDs).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(input.TagIDs) {
		return NewFieldError("tags", "unknown tag id")
	}

	for _, line := range input.Ingredients {
		if line.Amount < model.MinAmount || line.Amount > model.MaxAmount {
			return NewFieldError("ingredients",
				"amount must be between %d and %d", model.MinAmount, model.MaxAmount)
		}
	}
	if input.CookingTime < model.MinCookingTime || input.CookingTime > model.MaxCookingTime {
		return NewFieldError("cooking_time",
			"cooking time must be between %d and %d minutes", model.MinCookingTime, model.MaxCookingTime)
	}
	return nil
}

func buildJoinRows(recipeID uuid.UUID, input *RecipeInput) ([]model.RecipeIngredient, []model.RecipeTag) {
	lines := make([]model.RecipeIngredient, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		lines = append(lines, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	tags := make([]model.RecipeTag, 0, len(input.TagIDs))
	for _, id := range input.TagIDs {
		tags = append(tags, model.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return lines, tags
}

// CreateRecipe validates the input and persists the recipe together with its
// ingredient lines and tag links in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*model.Recipe, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		ImageURL:    input.ImageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		lines, tags := buildJoinRows(recipe.ID, &input)
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's scalar attributes and both join-sets.
// Existing lines and tag links are deleted and the new sets inserted inside
// one transaction, so a failure leaves the previous state intact.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipe *model.Recipe, input RecipeInput) (*model.Recipe, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		lines, tags := buildJoinRows(recipe.ID, &input)
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         input.Name,
			"image_url":    input.ImageURL,
			"text":         input.Text,
			"cooking_time": input.CookingTime,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe loads a recipe with its ingredient lines, tags and author.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("TagLinks.Tag").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "recipe", ID: id.String()}
		}
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter narrows ListRecipes. Zero values mean no filtering.
type RecipeFilter struct {
	AuthorID uuid.UUID
	TagSlugs []string
}

// ListRecipes lists recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter) ([]model.Recipe, error) {
	query := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("TagLinks.Tag").
		Preload("Author").
		Order("created_at DESC")

	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where(
			"id IN (?)",
			s.db.Model(&model.RecipeTag{}).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs),
		)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe together with its join rows and membership
// entries in one transaction.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []interface{}{
			&model.RecipeIngredient{}, &model.RecipeTag{}, &model.Favorite{}, &model.CartItem{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&model.Recipe{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &NotFoundError{Resource: "recipe", ID: id.String()}
		}
		return nil
	})
}
