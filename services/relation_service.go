package services

import (
	"fmt"

	"github.com/MirOrlov/foodgram/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationService manages the unique (user, recipe) and (user, user)
// membership sets: favorites, shopping cart entries and author subscriptions.
// The storage-level unique indexes are the source of truth for duplicates:
// every add is a single insert-if-absent, so two concurrent identical
// requests resolve to exactly one winner.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

func relationVerboseName(kind models.RelationKind) string {
	if kind == models.KindFavorite {
		return "Избранное"
	}
	return "Список покупок"
}

// addRecipeRelation inserts the (user, recipe) pair for the given kind. The
// ON CONFLICT DO NOTHING clause plus the rows-affected check close the race
// between two concurrent identical adds.
func (s *RelationService) addRecipeRelation(kind models.RelationKind, userID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return nil, err
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}

	var res *gorm.DB
	switch kind {
	case models.KindFavorite:
		res = s.db.Clauses(onConflict).Create(&models.Favorite{UserID: userID, RecipeID: recipeID})
	case models.KindShoppingCart:
		res = s.db.Clauses(onConflict).Create(&models.ShoppingCart{UserID: userID, RecipeID: recipeID})
	default:
		return nil, fmt.Errorf("unsupported relation kind %q", kind)
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &DuplicateRelationError{
			Kind:    kind,
			Message: fmt.Sprintf("Рецепт '%s' уже в %s", recipe.Name, relationVerboseName(kind)),
		}
	}
	return &recipe, nil
}

func (s *RelationService) removeRecipeRelation(kind models.RelationKind, userID, recipeID uint) error {
	var res *gorm.DB
	switch kind {
	case models.KindFavorite:
		res = s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Favorite{})
	case models.KindShoppingCart:
		res = s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.ShoppingCart{})
	default:
		return fmt.Errorf("unsupported relation kind %q", kind)
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: kind}
	}
	return nil
}

func (s *RelationService) AddFavorite(userID, recipeID uint) (*models.Recipe, error) {
	return s.addRecipeRelation(models.KindFavorite, userID, recipeID)
}

func (s *RelationService) RemoveFavorite(userID, recipeID uint) error {
	return s.removeRecipeRelation(models.KindFavorite, userID, recipeID)
}

func (s *RelationService) AddToCart(userID, recipeID uint) (*models.Recipe, error) {
	return s.addRecipeRelation(models.KindShoppingCart, userID, recipeID)
}

func (s *RelationService) RemoveFromCart(userID, recipeID uint) error {
	return s.removeRecipeRelation(models.KindShoppingCart, userID, recipeID)
}

// Subscribe makes user follow author. The self-subscription check runs before
// the duplicate check.
func (s *RelationService) Subscribe(userID, authorID uint) (*models.User, error) {
	if userID == authorID {
		return nil, &SelfRelationError{}
	}

	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		return nil, err
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subscribed_to_id"}},
		DoNothing: true,
	}).Create(&models.Subscription{UserID: userID, SubscribedToID: authorID})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &DuplicateRelationError{
			Kind:    models.KindSubscription,
			Message: fmt.Sprintf("Вы уже подписаны на пользователя %s.", author.Username),
		}
	}
	return &author, nil
}

func (s *RelationService) Unsubscribe(userID, authorID uint) error {
	res := s.db.Where("user_id = ? AND subscribed_to_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: models.KindSubscription}
	}
	return nil
}

// ListSubscriptions returns the authors the user follows, each with a recipe
// preview bounded by recipesLimit: nil means unbounded, zero or negative
// means an empty preview.
func (s *RelationService) ListSubscriptions(userID uint, recipesLimit *int, limit, offset int) ([]SubscriptionResponse, int64, error) {
	// reused for Count and Find, hence the fresh session
	base := s.db.Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.subscribed_to_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	if err := base.Order("users.id").Limit(limit).Offset(offset).Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	out := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.SerializeWithRecipes(&authors[i], userID, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, count, nil
}

// SerializeWithRecipes builds the subscription view of an author: the user
// block plus a bounded recipe preview and the full recipe count.
func (s *RelationService) SerializeWithRecipes(author *models.User, viewerID uint, recipesLimit *int) (*SubscriptionResponse, error) {
	userResp, err := serializeUser(s.db, author, viewerID)
	if err != nil {
		return nil, err
	}
	resp := &SubscriptionResponse{
		UserResponse: userResp,
		Recipes:      []RecipeShort{},
	}

	if err := s.db.Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&resp.RecipesCount).Error; err != nil {
		return nil, err
	}

	if recipesLimit != nil && *recipesLimit <= 0 {
		return resp, nil
	}

	q := s.db.Where("author_id = ?", author.ID).Order("id DESC")
	if recipesLimit != nil {
		q = q.Limit(*recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	for i := range recipes {
		resp.Recipes = append(resp.Recipes, serializeRecipeShort(&recipes[i]))
	}
	return resp, nil
}

func (s *RelationService) SerializeUser(user *models.User, viewerID uint) (UserResponse, error) {
	return serializeUser(s.db, user, viewerID)
}
