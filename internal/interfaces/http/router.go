package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Laboratorio-api/internal/application/analytics"
	"github.com/jhoicas/Laboratorio-api/internal/application/auth"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/application/requisition"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC    *inventory.CategoryUseCase
	MaterialUC    *inventory.MaterialUseCase
	StockUC       *inventory.StockUseCase
	StatisticsUC  *analytics.StatisticsUseCase
	RequisitionUC *requisition.UseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
	ApproverRoles []string
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth: login público, perfil protegido
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/profile", requireAuth, authHandler.Profile)

	// Todo el inventario requiere Bearer Token, también las lecturas
	protected := api.Group("", requireAuth)

	categories := protected.Group("/material-categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Rutas estáticas antes de /:id
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC, deps.StockUC, deps.StatisticsUC)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/statistics", materialHandler.Statistics)
	materials.Put("/batch-update-stock", materialHandler.BatchUpdateStock)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)
	materials.Put("/:id/stock", materialHandler.AdjustStock)
	materials.Get("/:id/reconcile", materialHandler.Reconcile)

	transactions := protected.Group("/material-transactions")
	transactionHandler := NewTransactionHandler(deps.StockUC)
	transactions.Get("/", transactionHandler.List)
	transactions.Post("/", transactionHandler.Record)
	transactions.Get("/export", transactionHandler.Export)

	requests := protected.Group("/material-requests")
	requisitionHandler := NewRequisitionHandler(deps.RequisitionUC)
	requests.Post("/", requisitionHandler.Create)
	requests.Get("/", requisitionHandler.List)
	requests.Get("/:id", requisitionHandler.GetByID)
	requests.Put("/:id/approve", RequireRole(deps.ApproverRoles...), requisitionHandler.Approve)
}
