package services

import (
	"strings"

	"github.com/MirOrlov/foodgram/models"

	"gorm.io/gorm"
)

// CatalogService serves the immutable reference data: tags and the normalized
// ingredient catalog. Rows are loaded by operators, never written here.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Order("name").Find(&tags).Error
	return tags, err
}

func (s *CatalogService) GetTag(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// likeEscaper neutralizes LIKE metacharacters so a prefix such as "100%"
// matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListIngredients filters by case-insensitive name prefix when namePrefix is
// non-empty, ordered by lowercased name.
func (s *CatalogService) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	q := s.db.Order("LOWER(name)")
	if namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	var ingredients []models.Ingredient
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (s *CatalogService) GetIngredient(id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}
