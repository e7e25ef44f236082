package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealshare/backend/internal/middleware"
	"github.com/pageza/mealshare/backend/internal/model"
	"github.com/pageza/mealshare/backend/internal/service"
)

type UserHandler struct {
	auth        *service.AuthService
	memberships *service.MembershipService
	recipes     *service.RecipeService
	images      *service.ImageService
}

func NewUserHandler(auth *service.AuthService, memberships *service.MembershipService, recipes *service.RecipeService, images *service.ImageService) *UserHandler {
	return &UserHandler{auth: auth, memberships: memberships, recipes: recipes, images: images}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	users := router.Group("/users")
	{
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.PUT("/me/avatar", middleware.AuthMiddleware(h.auth), h.SetAvatar)
		users.DELETE("/me/avatar", middleware.AuthMiddleware(h.auth), h.DeleteAvatar)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.auth), h.Subscriptions)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Unsubscribe)
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Register(req.Email, req.Username, req.FirstName, req.LastName, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user, false))
}

type avatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.images.Store(c.Request.Context(), "avatars", req.Avatar)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.SetAvatar(middleware.UserID(c), url); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.auth.SetAvatar(middleware.UserID(c), ""); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID := middleware.UserID(c)
	if err := h.memberships.Add(c.Request.Context(), service.KindSubscription, userID, authorID); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.subscriptionResponse(c, authorID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.memberships.Remove(c.Request.Context(), service.KindSubscription, middleware.UserID(c), authorID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID := middleware.UserID(c)

	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			recipesLimit = n
		}
	}

	authors, err := h.memberships.Subscriptions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		resp, err := h.subscriptionResponse(c, author.ID, recipesLimit)
		if err != nil {
			writeError(c, err)
			return
		}
		results = append(results, *resp)
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": results})
}

func (h *UserHandler) subscriptionResponse(c *gin.Context, authorID uuid.UUID, recipesLimit int) (*SubscriptionResponse, error) {
	author, err := h.auth.GetUser(authorID)
	if err != nil {
		return nil, err
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), service.RecipeFilter{AuthorID: authorID})
	if err != nil {
		return nil, err
	}

	short := make([]RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		if recipesLimit > 0 && len(short) >= recipesLimit {
			break
		}
		short = append(short, RecipeShortResponse{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return &SubscriptionResponse{
		UserResponse: userResponse(author, true),
		RecipesCount: len(recipes),
		Recipes:      short,
	}, nil
}

func userResponse(user *model.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Avatar:       user.AvatarURL,
		IsSubscribed: isSubscribed,
	}
}
