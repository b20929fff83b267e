package services

import (
	"errors"

	"github.com/MirOrlov/foodgram/models"
	"github.com/MirOrlov/foodgram/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB

	uploadImage func(base64Data, keyPrefix string) (string, error)
	deleteImage func(url string) error
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:          db,
		uploadImage: utils.UploadBase64Image,
		deleteImage: utils.DeleteObjectByURL,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and issues a signed token.
func (s *UserService) Authenticate(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("Неверные учетные данные.")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("Неверные учетные данные.")
	}
	return utils.GenerateJWT(user.ID, user.Email)
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(limit, offset int) ([]models.User, int64, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := s.db.Order("email").Limit(limit).Offset(offset).Find(&users).Error
	return users, count, err
}

func (s *UserService) SetPassword(userID uint, current, next string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	if !utils.CheckPasswordHash(current, user.Password) {
		return errors.New("Неверный текущий пароль.")
	}
	hashed, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("password", hashed).Error
}

// SetAvatar uploads a base64 avatar and stores its URL.
func (s *UserService) SetAvatar(userID uint, base64Data string) (string, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return "", err
	}
	url, err := s.uploadImage(base64Data, "users/avatars")
	if err != nil {
		return "", err
	}
	if err := s.db.Model(&user).Update("avatar", url).Error; err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAvatar removes the stored blob, then clears the URL. A missing blob
// is not an error.
func (s *UserService) DeleteAvatar(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	if user.Avatar != "" {
		if err := s.deleteImage(user.Avatar); err != nil {
			return err
		}
	}
	return s.db.Model(&user).Update("avatar", "").Error
}
