package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/middlewares"
	"github.com/MirOrlov/foodgram/services"
	"github.com/MirOrlov/foodgram/utils"

	"github.com/gin-gonic/gin"
)

func recipeFilterFromQuery(c *gin.Context) services.RecipeFilter {
	var filter services.RecipeFilter
	if author, err := strconv.ParseUint(c.Query("author"), 10, 32); err == nil {
		filter.AuthorID = uint(author)
	}
	filter.TagSlugs = c.QueryArray("tags")
	filter.IsFavorited = c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true"
	filter.IsInShoppingCart = c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true"
	return filter
}

func ListRecipes(c *gin.Context) {
	svc := services.NewRecipeService(config.DB)
	viewerID := middlewares.ActorID(c)
	page := utils.PageFromQuery(c)

	recipes, count, err := svc.List(recipeFilterFromQuery(c), viewerID, page.Size, page.Offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]services.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := svc.Serialize(&recipes[i], viewerID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		results = append(results, resp)
	}
	c.JSON(http.StatusOK, utils.NewPaginatedResponse(c, count, page, results))
}

func GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	svc := services.NewRecipeService(config.DB)
	recipe, err := svc.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp, err := svc.Serialize(recipe, middlewares.ActorID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func CreateRecipe(c *gin.Context) {
	var payload services.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	svc := services.NewRecipeService(config.DB)
	userID := middlewares.ActorID(c)
	recipe, err := svc.Create(userID, &payload)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp, err := svc.Serialize(recipe, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func UpdateRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload services.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	svc := services.NewRecipeService(config.DB)
	userID := middlewares.ActorID(c)
	recipe, err := svc.Update(userID, id, &payload)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp, err := svc.Serialize(recipe, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func DeleteRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := services.NewRecipeService(config.DB).Delete(middlewares.ActorID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func addRelation(c *gin.Context, add func(userID, recipeID uint) (interface{}, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := add(middlewares.ActorID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func AddFavorite(c *gin.Context) {
	relSvc := services.NewRelationService(config.DB)
	recipeSvc := services.NewRecipeService(config.DB)
	addRelation(c, func(userID, recipeID uint) (interface{}, error) {
		recipe, err := relSvc.AddFavorite(userID, recipeID)
		if err != nil {
			return nil, err
		}
		return recipeSvc.SerializeShort(recipe), nil
	})
}

func RemoveFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := services.NewRelationService(config.DB).RemoveFavorite(middlewares.ActorID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func AddToCart(c *gin.Context) {
	relSvc := services.NewRelationService(config.DB)
	recipeSvc := services.NewRecipeService(config.DB)
	addRelation(c, func(userID, recipeID uint) (interface{}, error) {
		recipe, err := relSvc.AddToCart(userID, recipeID)
		if err != nil {
			return nil, err
		}
		return recipeSvc.SerializeShort(recipe), nil
	})
}

func RemoveFromCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := services.NewRelationService(config.DB).RemoveFromCart(middlewares.ActorID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list as a text file.
func DownloadShoppingCart(c *gin.Context) {
	report, filename, err := services.NewShoppingListService(config.DB).
		BuildReport(middlewares.ActorID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", report)
}

// GetLink returns the short link for a recipe; ShortLinkRedirect resolves it.
func GetLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := services.NewRecipeService(config.DB).Get(id); err != nil {
		handleServiceError(c, err)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"short-link": fmt.Sprintf("%s://%s/s/%d", scheme, c.Request.Host, id),
	})
}

func ShortLinkRedirect(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d", id))
}
