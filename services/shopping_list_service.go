package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/MirOrlov/foodgram/models"

	"gorm.io/gorm"
)

// ShoppingListService renders the aggregated shopping list for everything in
// a user's cart. The read is a best-effort snapshot: it is not transactional
// with concurrent cart edits, the report is advisory.
type ShoppingListService struct {
	db *gorm.DB

	// replaced in tests for a deterministic timestamp
	now func() time.Time
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db, now: time.Now}
}

// IngredientTotal is one merged group: amounts are summed across recipes by
// (name, unit), not by catalog row id, so identical pairs always merge.
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// BuildReport produces the plain-text shopping list and its attachment
// filename. An empty cart yields a report with zero counts, not an error.
func (s *ShoppingListService) BuildReport(userID uint) ([]byte, string, error) {
	var recipes []models.Recipe
	err := s.db.
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
		Where("shopping_carts.user_id = ?", userID).
		Preload("Author").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, "", err
	}

	var totals []IngredientTotal
	if len(recipes) > 0 {
		ids := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
		}
		err = s.db.
			Table("recipe_ingredients").
			Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Where("recipe_ingredients.recipe_id IN ?", ids).
			Group("ingredients.name, ingredients.measurement_unit").
			Order("LOWER(ingredients.name)").
			Scan(&totals).Error
		if err != nil {
			return nil, "", err
		}
	}

	now := s.now()

	var b strings.Builder
	fmt.Fprintf(&b, "Список покупок\n")
	fmt.Fprintf(&b, "Дата составления: %s\n", now.Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "Всего рецептов: %d\n", len(recipes))
	fmt.Fprintf(&b, "Всего ингредиентов: %d\n", len(totals))
	b.WriteString("\nСписок продуктов:")
	for i, t := range totals {
		fmt.Fprintf(&b, "\n%d. %s - %d %s", i+1, capitalize(t.Name), t.Total, t.MeasurementUnit)
	}
	b.WriteString("\n\nРецепты:")
	for _, r := range recipes {
		fmt.Fprintf(&b, "\n- %s (автор: %s)", r.Name, r.Author.Username)
	}

	filename := fmt.Sprintf("shopping_list_%s.txt", now.Format("20060102"))
	return []byte(b.String()), filename, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
