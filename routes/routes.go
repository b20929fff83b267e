package routes

import (
	"github.com/MirOrlov/foodgram/controllers"
	"github.com/MirOrlov/foodgram/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger())
	r.Use(cors.Default())

	api := r.Group("/api")

	auth := api.Group("/auth/token")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", middlewares.AuthMiddleware(), controllers.Logout)
	}

	users := api.Group("/users")
	{
		users.POST("", controllers.Register)
		users.GET("", middlewares.OptionalAuthMiddleware(), controllers.ListUsers)
		users.GET("/me", middlewares.AuthMiddleware(), controllers.Me)
		users.PUT("/me/avatar", middlewares.AuthMiddleware(), controllers.PutAvatar)
		users.DELETE("/me/avatar", middlewares.AuthMiddleware(), controllers.DeleteAvatar)
		users.POST("/set_password", middlewares.AuthMiddleware(), controllers.SetPassword)
		users.GET("/subscriptions", middlewares.AuthMiddleware(), controllers.ListSubscriptions)
		users.GET("/:id", middlewares.OptionalAuthMiddleware(), controllers.GetUser)
		users.POST("/:id/subscribe", middlewares.AuthMiddleware(), controllers.Subscribe)
		users.DELETE("/:id/subscribe", middlewares.AuthMiddleware(), controllers.Unsubscribe)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", controllers.ListTags)
		tags.GET("/:id", controllers.GetTag)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", controllers.ListIngredients)
		ingredients.GET("/:id", controllers.GetIngredient)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("", middlewares.OptionalAuthMiddleware(), controllers.ListRecipes)
		recipes.POST("", middlewares.AuthMiddleware(), controllers.CreateRecipe)
		recipes.GET("/download_shopping_cart", middlewares.AuthMiddleware(), controllers.DownloadShoppingCart)
		recipes.GET("/:id", middlewares.OptionalAuthMiddleware(), controllers.GetRecipe)
		recipes.PATCH("/:id", middlewares.AuthMiddleware(), controllers.UpdateRecipe)
		recipes.DELETE("/:id", middlewares.AuthMiddleware(), controllers.DeleteRecipe)
		recipes.GET("/:id/get-link", controllers.GetLink)
		recipes.POST("/:id/favorite", middlewares.AuthMiddleware(), controllers.AddFavorite)
		recipes.DELETE("/:id/favorite", middlewares.AuthMiddleware(), controllers.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", middlewares.AuthMiddleware(), controllers.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middlewares.AuthMiddleware(), controllers.RemoveFromCart)
	}

	r.GET("/s/:id", controllers.ShortLinkRedirect)

	return r
}
