package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/properties", handler.ListProperties)
		api.POST("/properties", handler.CreateProperty)
		api.GET("/properties/:id", handler.GetProperty)
		api.PUT("/properties/:id", handler.UpdateProperty)
		api.GET("/properties/:id/expenses", handler.ListExpenses)
		api.POST("/properties/:id/expenses", handler.CreateExpense)
		api.GET("/properties/:id/expenses/export", handler.ExportExpenses)

		api.DELETE("/expenses/:id", handler.DeleteExpense)
		api.GET("/expense-types", handler.ListExpenseTypes)

		api.GET("/leaseholders", handler.ListLeaseholders)
		api.POST("/leaseholders", handler.CreateLeaseholder)
		api.GET("/leaseholders/:id", handler.GetLeaseholder)
		api.PUT("/leaseholders/:id/lease", handler.ReplaceLease)
		api.GET("/leaseholders/:id/preview", handler.PreviewStatement)
		api.GET("/leaseholders/:id/statements", handler.ListStatements)
		api.POST("/leaseholders/:id/statements", handler.GenerateStatement)

		api.GET("/statements/:id", handler.GetStatement)
		api.DELETE("/statements/:id", handler.DeleteStatement)
		api.GET("/statements/:id/pdf", handler.DownloadStatement)
		api.PUT("/statements/:id/payment", handler.RecordPayment)

		api.POST("/billing-runs", handler.StartBillingRun)

		api.GET("/maintenance-requests", handler.ListMaintenanceRequests)
		api.POST("/maintenance-requests", handler.CreateMaintenanceRequest)
		api.PUT("/maintenance-requests/:id/status", handler.UpdateMaintenanceStatus)

		api.GET("/company", handler.GetCompany)
		api.PUT("/company", handler.UpdateCompany)

		api.GET("/telegram/config", handler.GetTelegramConfig)
		api.PUT("/telegram/config", handler.UpdateTelegramConfig)
		api.POST("/telegram/test", handler.TestTelegramConfig)
	}
}
