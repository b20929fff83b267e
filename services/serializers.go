package services

import (
	"github.com/MirOrlov/foodgram/models"

	"gorm.io/gorm"
)

type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

// RecipeShort is the compact recipe block used in relation responses and
// subscription previews.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type IngredientLineResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                     `json:"id"`
	Author           UserResponse             `json:"author"`
	Tags             []models.Tag             `json:"tags"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// viewerID == 0 means an anonymous request: every viewer-dependent flag is false.
func serializeUser(db *gorm.DB, user *models.User, viewerID uint) (UserResponse, error) {
	resp := UserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
	}
	if viewerID != 0 {
		var n int64
		err := db.Model(&models.Subscription{}).
			Where("user_id = ? AND subscribed_to_id = ?", viewerID, user.ID).
			Count(&n).Error
		if err != nil {
			return UserResponse{}, err
		}
		resp.IsSubscribed = n > 0
	}
	return resp, nil
}

func serializeRecipeShort(recipe *models.Recipe) RecipeShort {
	return RecipeShort{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// serializeRecipe expects Author, Tags and Ingredients.Ingredient preloaded.
func serializeRecipe(db *gorm.DB, recipe *models.Recipe, viewerID uint) (RecipeResponse, error) {
	lines := make([]IngredientLineResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		lines = append(lines, IngredientLineResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	author, err := serializeUser(db, &recipe.Author, viewerID)
	if err != nil {
		return RecipeResponse{}, err
	}

	resp := RecipeResponse{
		ID:          recipe.ID,
		Author:      author,
		Tags:        tags,
		Ingredients: lines,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}
	if viewerID != 0 {
		var n int64
		err := db.Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", viewerID, recipe.ID).
			Count(&n).Error
		if err != nil {
			return RecipeResponse{}, err
		}
		resp.IsFavorited = n > 0

		err = db.Model(&models.ShoppingCart{}).
			Where("user_id = ? AND recipe_id = ?", viewerID, recipe.ID).
			Count(&n).Error
		if err != nil {
			return RecipeResponse{}, err
		}
		resp.IsInShoppingCart = n > 0
	}
	return resp, nil
}
