package controllers

import (
	"net/http"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/services"

	"github.com/gin-gonic/gin"
)

func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	token, err := services.NewUserService(config.DB).Authenticate(body.Email, body.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout is a no-op for stateless tokens; clients drop the token.
func Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
