package router

import (
	"flashMarket/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, moderatorOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.PUT("/:id", handler.UpdateUser, authRequired)
	users.GET("", handler.GetAllUsers, authRequired, moderatorOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, moderatorOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, moderatorOnly)
}

func SetupMerchantRoutes(api *echo.Group, handler *rest.MerchantHandler, authRequired echo.MiddlewareFunc, merchantOnly echo.MiddlewareFunc) {
	merchants := api.Group("/merchants", authRequired, merchantOnly)

	merchants.POST("/profile", handler.CreateProfile)
	merchants.GET("/profile", handler.GetMyProfile)
}

func SetupModeratorRoutes(api *echo.Group, handler *rest.ModeratorHandler, authRequired echo.MiddlewareFunc, moderatorOnly echo.MiddlewareFunc) {
	moderators := api.Group("/moderators", authRequired, moderatorOnly)

	moderators.POST("/profile", handler.CreateProfile)
	moderators.GET("/profile", handler.GetMyProfile)
	moderators.POST("/categories", handler.AssignCategory)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, merchantOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/mine", handler.GetMyProducts, authRequired, merchantOnly)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, merchantOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, merchantOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, merchantOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc, moderatorOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, moderatorOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, moderatorOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, moderatorOnly)
}

func SetupSlotRoutes(api *echo.Group, slotHandler *rest.SlotHandler, admissionHandler *rest.AdmissionHandler, authRequired echo.MiddlewareFunc, moderatorOnly echo.MiddlewareFunc) {
	slots := api.Group("/slots")

	slots.GET("", slotHandler.GetAllSlots)
	slots.GET("/:id", slotHandler.GetSlotByID)
	slots.GET("/:id/admissions", admissionHandler.GetBySlot)

	slots.POST("", slotHandler.CreateSlot, authRequired, moderatorOnly)
	slots.POST("/reconcile", slotHandler.ReconcileSlots, authRequired, moderatorOnly)
}

func SetupAdmissionRoutes(api *echo.Group, handler *rest.AdmissionHandler, decisionHandler *rest.ModerationHandler, authRequired echo.MiddlewareFunc, merchantOnly echo.MiddlewareFunc, moderatorOnly echo.MiddlewareFunc) {
	admissions := api.Group("/admissions", authRequired)

	admissions.POST("", handler.Submit, merchantOnly)
	admissions.GET("/:id", handler.GetByID)
	admissions.DELETE("/:id", handler.Withdraw, merchantOnly)
	admissions.POST("/:id/decision", decisionHandler.Decide, moderatorOnly)
}

func SetupHistoryRoutes(api *echo.Group, handler *rest.HistoryHandler, authRequired echo.MiddlewareFunc) {
	history := api.Group("/history", authRequired)

	history.GET("/products/:id", handler.ByProduct)
	history.GET("/slots/:id", handler.BySlot)
}
