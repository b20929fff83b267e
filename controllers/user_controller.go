package controllers

import (
	"net/http"
	"strconv"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/middlewares"
	"github.com/MirOrlov/foodgram/services"
	"github.com/MirOrlov/foodgram/utils"

	"github.com/gin-gonic/gin"
)

func Register(c *gin.Context) {
	var body services.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := services.NewUserService(config.DB).Register(&body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func ListUsers(c *gin.Context) {
	page := utils.PageFromQuery(c)
	users, count, err := services.NewUserService(config.DB).List(page.Size, page.Offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	relSvc := services.NewRelationService(config.DB)
	viewerID := middlewares.ActorID(c)
	results := make([]services.UserResponse, 0, len(users))
	for i := range users {
		resp, err := relSvc.SerializeUser(&users[i], viewerID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		results = append(results, resp)
	}
	c.JSON(http.StatusOK, utils.NewPaginatedResponse(c, count, page, results))
}

func GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := services.NewUserService(config.DB).Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	viewerID := middlewares.ActorID(c)
	resp, err := services.NewRelationService(config.DB).SerializeUser(user, viewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func Me(c *gin.Context) {
	userID := middlewares.ActorID(c)
	user, err := services.NewUserService(config.DB).Get(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp, err := services.NewRelationService(config.DB).SerializeUser(user, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func SetPassword(c *gin.Context) {
	var body struct {
		NewPassword     string `json:"new_password" binding:"required,min=8"`
		CurrentPassword string `json:"current_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	err := services.NewUserService(config.DB).
		SetPassword(middlewares.ActorID(c), body.CurrentPassword, body.NewPassword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func PutAvatar(c *gin.Context) {
	var body struct {
		Avatar string `json:"avatar" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"avatar": []string{"Обязательное поле."}})
		return
	}

	url, err := services.NewUserService(config.DB).SetAvatar(middlewares.ActorID(c), body.Avatar)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func DeleteAvatar(c *gin.Context) {
	if err := services.NewUserService(config.DB).DeleteAvatar(middlewares.ActorID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit implements the subscription preview bound: absent or
// non-numeric query value means unbounded.
func recipesLimit(c *gin.Context) *int {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func Subscribe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := middlewares.ActorID(c)

	relSvc := services.NewRelationService(config.DB)
	author, err := relSvc.Subscribe(userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp, err := relSvc.SerializeWithRecipes(author, userID, recipesLimit(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func Unsubscribe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := services.NewRelationService(config.DB).Unsubscribe(middlewares.ActorID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ListSubscriptions(c *gin.Context) {
	userID := middlewares.ActorID(c)
	page := utils.PageFromQuery(c)

	results, count, err := services.NewRelationService(config.DB).
		ListSubscriptions(userID, recipesLimit(c), page.Size, page.Offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewPaginatedResponse(c, count, page, results))
}
