package controllers

import (
	"net/http"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/services"

	"github.com/gin-gonic/gin"
)

// Tag and ingredient catalogs are read-only and unpaginated.

func ListTags(c *gin.Context) {
	tags, err := services.NewCatalogService(config.DB).ListTags()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func GetTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tag, err := services.NewCatalogService(config.DB).GetTag(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func ListIngredients(c *gin.Context) {
	ingredients, err := services.NewCatalogService(config.DB).ListIngredients(c.Query("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func GetIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ing, err := services.NewCatalogService(config.DB).GetIngredient(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}
