package internal

import (
	"net/http"

	"stravaboard/internal/controllers"
	"stravaboard/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, authController *controllers.AuthController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/activities", http.HandlerFunc(apiController.GetActivities))
	routers.Get("/auth/strava", http.HandlerFunc(authController.Login))
	routers.Get("/auth/strava/callback", http.HandlerFunc(authController.Callback))
	return routers
}
