package main

import (
	"os"

	"github.com/MirOrlov/foodgram/config"
	"github.com/MirOrlov/foodgram/routes"
	"github.com/MirOrlov/foodgram/utils"
)

func main() {
	utils.InitLogger()
	config.InitDB()
	utils.InitS3()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	r.Run(":" + port)
}
