package models

import "gorm.io/gorm"

type Recipe struct {
	gorm.Model
	AuthorID    uint   `gorm:"not null;index"`
	Author      User
	Name        string `gorm:"size:256;not null"`
	Text        string `gorm:"type:text;not null"`
	Image       string `gorm:"not null"`
	CookingTime int    `gorm:"not null"`

	Tags        []Tag              `gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
}

// RecipeIngredient is one line of a recipe's composition. Lines are never
// addressed individually by clients; the whole set is replaced on every
// update, so rows are hard-deleted (no soft-delete column) and the composite
// unique index stays conflict-free across replacements.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient
	Amount       int `gorm:"not null"`
}
