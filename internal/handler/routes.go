package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, healthHandler *HealthHandler, budgetHandler *BudgetHandler, actualsHandler *ActualsHandler, reportHandler *ReportHandler, wsHandler *WebSocketHandler) {
	e.GET("/health", healthHandler.Check)
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Yearly budget templates
	budgets := api.Group("/budgets/:type")
	budgets.GET("/defaults", budgetHandler.GetDefaults)
	budgets.GET("/:year", budgetHandler.GetBudget)
	budgets.PUT("/:year", budgetHandler.SaveBudget)
	budgets.POST("/:year/categories", budgetHandler.AddCategory)
	budgets.PUT("/:year/categories/:categoryId", budgetHandler.RenameCategory)
	budgets.DELETE("/:year/categories/:categoryId", budgetHandler.RemoveCategory)
	budgets.POST("/:year/categories/:categoryId/items", budgetHandler.AddItem)
	budgets.PUT("/:year/categories/:categoryId/items/:itemId", budgetHandler.UpdateItem)
	budgets.DELETE("/:year/categories/:categoryId/items/:itemId", budgetHandler.RemoveItem)

	// Monthly actuals
	actuals := api.Group("/actuals/:type")
	actuals.GET("/:year/:month", actualsHandler.GetActuals)
	actuals.PUT("/:year/:month", actualsHandler.SaveActuals)
	actuals.PATCH("/:year/:month/items/:itemId", actualsHandler.UpdateActual)

	// Reports
	reports := api.Group("/reports/:type")
	reports.GET("/monthly/:year/:month", reportHandler.Monthly)
	reports.GET("/yearly/:year", reportHandler.Yearly)
	reports.GET("/comparison", reportHandler.Comparison)
}
