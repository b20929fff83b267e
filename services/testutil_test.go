package services

import (
	"fmt"
	"testing"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// unique shared-cache name so each test gets an isolated in-memory DB
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRecipeService swaps the S3 calls for stubs.
func newTestRecipeService(db *gorm.DB) *RecipeService {
	svc := NewRecipeService(db)
	svc.uploadImage = func(base64Data, keyPrefix string) (string, error) {
		return "https://img.test/" + keyPrefix + "/stub.jpg", nil
	}
	svc.deleteImage = func(url string) error { return nil }
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", name, err)
	}
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func linesPtr(lines ...IngredientLineRequest) *[]IngredientLineRequest { return &lines }
func tagsPtr(ids ...uint) *[]uint                                      { return &ids }

// seedRecipe creates a recipe through the composer with one tag and the given
// ingredient lines.
func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tag *models.Tag, lines ...IngredientLineRequest) *models.Recipe {
	t.Helper()
	recipe, err := newTestRecipeService(db).Create(author.ID, &RecipePayload{
		Name:        strPtr(name),
		Text:        strPtr("описание"),
		CookingTime: intPtr(10),
		Image:       strPtr("data:image/jpeg;base64,Zm9v"),
		Tags:        tagsPtr(tag.ID),
		Ingredients: linesPtr(lines...),
	})
	if err != nil {
		t.Fatalf("seed recipe %s: %v", name, err)
	}
	return recipe
}
