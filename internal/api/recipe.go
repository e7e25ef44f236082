package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealshare/backend/internal/middleware"
	"github.com/pageza/mealshare/backend/internal/model"
	"github.com/pageza/mealshare/backend/internal/service"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	memberships   *service.MembershipService
	shoppingLists *service.ShoppingListService
	links         *service.LinkService
	images        *service.ImageService
	auth          *service.AuthService
	baseURL       string
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	memberships *service.MembershipService,
	shoppingLists *service.ShoppingListService,
	links *service.LinkService,
	images *service.ImageService,
	auth *service.AuthService,
	baseURL string,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		memberships:   memberships,
		shoppingLists: shoppingLists,
		links:         links,
		images:        images,
		auth:          auth,
		baseURL:       baseURL,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("", middleware.AuthMiddleware(h.auth), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.auth), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.auth), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.auth), h.addMembership(service.KindFavorite))
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.auth), h.removeMembership(service.KindFavorite))
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.addMembership(service.KindCart))
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.removeMembership(service.KindCart))
	}
}

// buildResponse assembles the read view for one recipe, with favorite/cart
// flags computed for the given viewer (uuid.Nil for anonymous).
func (h *RecipeHandler) buildResponse(c *gin.Context, recipe *model.Recipe, viewerID uuid.UUID) (*RecipeResponse, error) {
	ctx := c.Request.Context()

	isFavorited, err := h.memberships.IsFavorited(ctx, viewerID, recipe.ID)
	if err != nil {
		return nil, err
	}
	inCart, err := h.memberships.InCart(ctx, viewerID, recipe.ID)
	if err != nil {
		return nil, err
	}
	isSubscribed, err := h.memberships.IsSubscribed(ctx, viewerID, recipe.AuthorID)
	if err != nil {
		return nil, err
	}

	tags := make([]TagResponse, 0, len(recipe.TagLinks))
	for _, link := range recipe.TagLinks {
		tags = append(tags, TagResponse{ID: link.Tag.ID, Name: link.Tag.Name, Slug: link.Tag.Slug})
	}
	lines := make([]IngredientLineResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		lines = append(lines, IngredientLineResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return &RecipeResponse{
		ID:   recipe.ID,
		Tags: tags,
		Author: UserResponse{
			ID:           recipe.Author.ID,
			Email:        recipe.Author.Email,
			Username:     recipe.Author.Username,
			FirstName:    recipe.Author.FirstName,
			LastName:     recipe.Author.LastName,
			Avatar:       recipe.Author.AvatarURL,
			IsSubscribed: isSubscribed,
		},
		Ingredients:      lines,
		IsFavorited:      isFavorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID := middleware.UserID(c)

	filter := service.RecipeFilter{TagSlugs: c.QueryArray("tags")}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = authorID
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]*RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := h.buildResponse(c, &recipes[i], viewerID)
		if err != nil {
			writeError(c, err)
			return
		}
		results = append(results, resp)
	}

	c.JSON(http.StatusOK, gin.H{"recipes": results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.buildResponse(c, recipe, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)

	imageURL, err := h.images.Store(c.Request.Context(), "recipes", req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, service.RecipeInput{
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: req.Ingredients,
		TagIDs:      req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.buildResponse(c, recipe, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if recipe.AuthorID != userID {
		writeError(c, service.ErrNotRecipeAuthor)
		return
	}

	imageURL, err := h.images.Store(c.Request.Context(), "recipes", req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.recipes.UpdateRecipe(c.Request.Context(), recipe, service.RecipeInput{
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: req.Ingredients,
		TagIDs:      req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.buildResponse(c, updated, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if recipe.AuthorID != middleware.UserID(c) {
		writeError(c, service.ErrNotRecipeAuthor)
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addMembership(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		if err := h.memberships.Add(c.Request.Context(), kind, middleware.UserID(c), recipeID); err != nil {
			writeError(c, err)
			return
		}

		recipe, err := h.recipes.GetRecipe(c.Request.Context(), recipeID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, RecipeShortResponse{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       recipe.ImageURL,
			CookingTime: recipe.CookingTime,
		})
	}
}

func (h *RecipeHandler) removeMembership(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		if err := h.memberships.Remove(c.Request.Context(), kind, middleware.UserID(c), recipeID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shoppingLists.BuildShoppingList(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shopping_list.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	// Shorten the referring page when the client supplies it, otherwise the
	// canonical recipe URL.
	fullURL := c.GetHeader("Referer")
	if fullURL == "" {
		fullURL = fmt.Sprintf("%s/api/v1/recipes/%s", h.baseURL, id)
	}

	link, err := h.links.GetOrCreate(c.Request.Context(), fullURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"short-link": fmt.Sprintf("%s/s/%s", h.baseURL, link.ShortCode)})
}
