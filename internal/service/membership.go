package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/internal/model"
)

// MembershipKind names one of the toggleable (user, target) relations.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindCart         MembershipKind = "shopping cart"
	KindSubscription MembershipKind = "subscription"
)

// membershipMessages keys the user-facing duplicate/absence wording per kind,
// replacing a per-kind type hierarchy with a lookup table.
var membershipMessages = map[MembershipKind]struct {
	duplicate string
	absent    string
}{
	KindFavorite:     {"recipe is already in favorites", "recipe is not in favorites"},
	KindCart:         {"recipe is already in the shopping cart", "recipe is not in the shopping cart"},
	KindSubscription: {"already subscribed to this user", "not subscribed to this user"},
}

// MembershipService centralizes the duplicate/absence contract shared by
// favorites, shopping carts and subscriptions. Add relies on the unique
// (user, target) constraint so concurrent adds resolve to one winner and one
// Conflict, never two rows.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

func (s *MembershipService) row(kind MembershipKind, userID, targetID uuid.UUID) (interface{}, error) {
	switch kind {
	case KindFavorite:
		return &model.Favorite{UserID: userID, RecipeID: targetID}, nil
	case KindCart:
		return &model.CartItem{UserID: userID, RecipeID: targetID}, nil
	case KindSubscription:
		return &model.Subscription{UserID: userID, AuthorID: targetID}, nil
	default:
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
}

func (s *MembershipService) targetExists(ctx context.Context, kind MembershipKind, targetID uuid.UUID) error {
	var (
		count    int64
		resource string
		err      error
	)
	if kind == KindSubscription {
		resource = "user"
		err = s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", targetID).Count(&count).Error
	} else {
		resource = "recipe"
		err = s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", targetID).Count(&count).Error
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Resource: resource, ID: targetID.String()}
	}
	return nil
}

// Add inserts the (user, target) pair for the given kind. Duplicates fail
// with ConflictError; subscribing to oneself fails with ErrSelfSubscribe.
func (s *MembershipService) Add(ctx context.Context, kind MembershipKind, userID, targetID uuid.UUID) error {
	if kind == KindSubscription && userID == targetID {
		return ErrSelfSubscribe
	}
	if err := s.targetExists(ctx, kind, targetID); err != nil {
		return err
	}

	entry, err := s.row(kind, userID, targetID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: membershipMessages[kind].duplicate}
		}
		return err
	}
	return nil
}

// Remove deletes the (user, target) pair for the given kind, failing with
// NotFoundError when the pair is absent.
func (s *MembershipService) Remove(ctx context.Context, kind MembershipKind, userID, targetID uuid.UUID) error {
	entry, err := s.row(kind, userID, targetID)
	if err != nil {
		return err
	}

	var result *gorm.DB
	switch kind {
	case KindSubscription:
		result = s.db.WithContext(ctx).Where("user_id = ? AND author_id = ?", userID, targetID).Delete(entry)
	default:
		result = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, targetID).Delete(entry)
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: string(kind), ID: targetID.String(), Message: membershipMessages[kind].absent}
	}
	return nil
}

// IsFavorited reports whether the user has favorited the recipe. A nil user
// id (anonymous viewer) is always false.
func (s *MembershipService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.pairExists(ctx, &model.Favorite{}, userID, recipeID)
}

// InCart reports whether the recipe is in the user's shopping cart.
func (s *MembershipService) InCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.pairExists(ctx, &model.CartItem{}, userID, recipeID)
}

// IsSubscribed reports whether userID is subscribed to authorID.
func (s *MembershipService) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count).Error
	return count > 0, err
}

func (s *MembershipService) pairExists(ctx context.Context, entry interface{}, userID, recipeID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(entry).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

// Subscriptions returns the authors the user is subscribed to, oldest first.
func (s *MembershipService) Subscriptions(ctx context.Context, userID uuid.UUID) ([]model.User, error) {
	var authors []model.User
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}
