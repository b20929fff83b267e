package services

import (
	"fmt"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/models"
	"github.com/MirOrlov/foodgram/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeService validates recipe submissions and persists a recipe's scalar
// fields, tag set and ingredient-line set as one transaction.
type RecipeService struct {
	db *gorm.DB

	// replaced in tests; production uploads go to S3
	uploadImage func(base64Data, keyPrefix string) (string, error)
	deleteImage func(url string) error
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db:          db,
		uploadImage: utils.UploadBase64Image,
		deleteImage: utils.DeleteObjectByURL,
	}
}

type IngredientLineRequest struct {
	IngredientID uint `json:"id"`
	Amount       int  `json:"amount"`
}

// RecipePayload distinguishes "field absent from the request" (nil pointer)
// from "field present but empty" (pointer to zero value). Create and update
// validation diverge on exactly that distinction.
type RecipePayload struct {
	Name        *string                  `json:"name"`
	Text        *string                  `json:"text"`
	CookingTime *int                     `json:"cooking_time"`
	Image       *string                  `json:"image"`
	Tags        *[]uint                  `json:"tags"`
	Ingredients *[]IngredientLineRequest `json:"ingredients"`
}

type stagedComposition struct {
	tags  []models.Tag
	lines []models.RecipeIngredient
}

// validateComposition applies every structural and numeric check, collecting
// field errors instead of stopping at the first one. On success it returns
// the resolved tag rows and the new ingredient-line set, ready to persist.
// A failed catalog lookup is a storage fault, not a validation verdict, and
// is returned as-is.
func (s *RecipeService) validateComposition(p *RecipePayload, isCreate bool) (*stagedComposition, error) {
	cerr := NewCompositionError()
	staged := &stagedComposition{}

	// Tags: required on both create and update, non-empty and duplicate-free.
	if p.Tags == nil || len(*p.Tags) == 0 {
		cerr.Add("tags", "Теги должны быть заполнены")
	} else {
		seen := make(map[uint]bool, len(*p.Tags))
		hasDup := false
		for _, id := range *p.Tags {
			if seen[id] {
				hasDup = true
			}
			seen[id] = true
		}
		if hasDup {
			cerr.Add("tags", "Теги не должны дублироваться")
		} else {
			var tags []models.Tag
			if err := s.db.Find(&tags, *p.Tags).Error; err != nil {
				return nil, err
			}
			if len(tags) != len(*p.Tags) {
				for _, id := range *p.Tags {
					if !tagListContains(tags, id) {
						cerr.Add("tags", fmt.Sprintf("Недопустимый первичный ключ %d - объект не существует.", id))
					}
				}
			} else {
				staged.tags = tags
			}
		}
	}

	// Ingredients: must be explicitly sent on every create and update;
	// duplicate references rejected by referenced ingredient id.
	if p.Ingredients == nil || len(*p.Ingredients) == 0 {
		cerr.Add("ingredients", "Ингридиенты должны быть заполненными")
	} else {
		seen := make(map[uint]bool, len(*p.Ingredients))
		hasDup := false
		for _, line := range *p.Ingredients {
			if seen[line.IngredientID] {
				hasDup = true
			}
			seen[line.IngredientID] = true
		}
		if hasDup {
			cerr.Add("ingredients", "Ингридиенты должны быть без дубликатов")
		} else {
			ids := make([]uint, 0, len(*p.Ingredients))
			for _, line := range *p.Ingredients {
				ids = append(ids, line.IngredientID)
			}
			var known []models.Ingredient
			if err := s.db.Find(&known, ids).Error; err != nil {
				return nil, err
			}
			if len(known) != len(ids) {
				for _, id := range ids {
					if !ingredientListContains(known, id) {
						cerr.Add("ingredients", fmt.Sprintf("Недопустимый первичный ключ %d - объект не существует.", id))
					}
				}
			}
		}

		amountsOK := true
		for _, line := range *p.Ingredients {
			if line.Amount < config.MinAmount {
				amountsOK = false
			}
		}
		if !amountsOK {
			cerr.Add("amount", fmt.Sprintf("Убедитесь, что это значение больше либо равно %d.", config.MinAmount))
		}

		if !cerr.HasErrors() {
			for _, line := range *p.Ingredients {
				staged.lines = append(staged.lines, models.RecipeIngredient{
					IngredientID: line.IngredientID,
					Amount:       line.Amount,
				})
			}
		}
	}

	if p.CookingTime != nil && *p.CookingTime < config.MinCookingTime {
		cerr.Add("cooking_time", fmt.Sprintf("Убедитесь, что это значение больше либо равно %d.", config.MinCookingTime))
	}

	if isCreate {
		if p.Name == nil || *p.Name == "" {
			cerr.Add("name", "Обязательное поле.")
		}
		if p.Text == nil || *p.Text == "" {
			cerr.Add("text", "Обязательное поле.")
		}
		if p.CookingTime == nil {
			cerr.Add("cooking_time", "Обязательное поле.")
		}
		// Image is mandatory on creation.
		if p.Image == nil || *p.Image == "" {
			cerr.Add("image", "Изображение должно быть заполненно")
		}
	} else {
		// Present-but-empty on update wipes nothing: it is rejected. An
		// absent field keeps the stored value untouched.
		if p.Name != nil && *p.Name == "" {
			cerr.Add("name", "Это поле не может быть пустым.")
		}
		if p.Text != nil && *p.Text == "" {
			cerr.Add("text", "Это поле не может быть пустым.")
		}
		if p.Image != nil && *p.Image == "" {
			cerr.Add("image", "Изображение не должно быть пустым")
		}
	}

	if cerr.HasErrors() {
		return nil, cerr
	}
	return staged, nil
}

func tagListContains(tags []models.Tag, id uint) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

func ingredientListContains(ingredients []models.Ingredient, id uint) bool {
	for _, ing := range ingredients {
		if ing.ID == id {
			return true
		}
	}
	return false
}

// Create validates the payload, uploads the image and writes the recipe with
// its full composition in one transaction.
func (s *RecipeService) Create(authorID uint, p *RecipePayload) (*models.Recipe, error) {
	staged, err := s.validateComposition(p, true)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(*p.Image, "recipes/images")
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        *p.Name,
		Text:        *p.Text,
		Image:       imageURL,
		CookingTime: *p.CookingTime,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(staged.tags); err != nil {
			return err
		}
		for i := range staged.lines {
			staged.lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&staged.lines).Error
	})
	if err != nil {
		// the rollback leaves no recipe pointing at the uploaded object
		if delErr := s.deleteImage(imageURL); delErr != nil {
			utils.Log().Warn("orphaned recipe image not removed", zap.String("url", imageURL), zap.Error(delErr))
		}
		return nil, err
	}

	return s.Get(recipe.ID)
}

// Update applies a partial payload. The tag associations and the whole
// ingredient-line set are replaced atomically: a concurrent reader never
// observes the recipe with zero or partial lines.
func (s *RecipeService) Update(actorID, recipeID uint, p *RecipePayload) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, &NotOwnerError{}
	}

	staged, err := s.validateComposition(p, false)
	if err != nil {
		return nil, err
	}

	newImage := ""
	if p.Image != nil {
		newImage, err = s.uploadImage(*p.Image, "recipes/images")
		if err != nil {
			return nil, err
		}
		recipe.Image = newImage
	}
	if p.Name != nil {
		recipe.Name = *p.Name
	}
	if p.Text != nil {
		recipe.Text = *p.Text
	}
	if p.CookingTime != nil {
		recipe.CookingTime = *p.CookingTime
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(staged.tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range staged.lines {
			staged.lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&staged.lines).Error
	})
	if err != nil {
		if newImage != "" {
			if delErr := s.deleteImage(newImage); delErr != nil {
				utils.Log().Warn("orphaned recipe image not removed", zap.String("url", newImage), zap.Error(delErr))
			}
		}
		return nil, err
	}

	return s.Get(recipe.ID)
}

func (s *RecipeService) Delete(actorID, recipeID uint) error {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return err
	}
	if recipe.AuthorID != actorID {
		return &NotOwnerError{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func (s *RecipeService) Get(recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, recipeID).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter holds the basic field filters of the public list endpoint.
type RecipeFilter struct {
	AuthorID         uint
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// List returns a page of recipes, newest first, plus the unpaginated total.
// The viewer-dependent filters yield nothing for anonymous viewers.
func (s *RecipeService) List(filter RecipeFilter, viewerID uint, limit, offset int) ([]models.Recipe, int64, error) {
	q := s.db.Model(&models.Recipe{})

	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		// subquery instead of a join so a recipe with several matching tags
		// is not returned twice
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if filter.IsFavorited {
		if viewerID == 0 {
			return []models.Recipe{}, 0, nil
		}
		q = q.Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", viewerID)
	}
	if filter.IsInShoppingCart {
		if viewerID == 0 {
			return []models.Recipe{}, 0, nil
		}
		q = q.Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", viewerID)
	}

	q = q.Session(&gorm.Session{}) // reused for Count and Find

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := q.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, count, err
}

func (s *RecipeService) Serialize(recipe *models.Recipe, viewerID uint) (RecipeResponse, error) {
	return serializeRecipe(s.db, recipe, viewerID)
}

func (s *RecipeService) SerializeShort(recipe *models.Recipe) RecipeShort {
	return serializeRecipeShort(recipe)
}
