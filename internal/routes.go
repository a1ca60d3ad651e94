package internal

import (
	"net/http"

	"ptt/internal/controllers"
	"ptt/internal/providers"
	"ptt/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/project", http.HandlerFunc(apiController.GetProject))
	routers.Post("/project/rename", http.HandlerFunc(apiController.RenameProject))
	routers.Get("/seconds/total", http.HandlerFunc(apiController.GetTotalSeconds))
	routers.Get("/seconds/today", http.HandlerFunc(apiController.GetTodaySeconds))
	routers.Get("/statistics", http.HandlerFunc(apiController.GetStatistics))
	routers.Post("/activity", http.HandlerFunc(apiController.ReceiveActivity))
	routers.Post("/refresh", http.HandlerFunc(apiController.RefreshFingerprint))
	routers.Delete("/records", http.HandlerFunc(apiController.DeleteRecords))
	routers.Get("/export", http.HandlerFunc(apiController.ExportRecords))
	routers.Post("/import", http.HandlerFunc(apiController.ImportRecords))
	return routers
}
