package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fiecl/barcode-inventory-management/internal/application/auth"
	"github.com/fiecl/barcode-inventory-management/internal/application/inventory"
	"github.com/fiecl/barcode-inventory-management/internal/application/recipients"
	"github.com/fiecl/barcode-inventory-management/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger     *inventory.LedgerUseCase
	Audit      *inventory.AuditUseCase
	Label      *inventory.LabelUseCase
	Recipients *recipients.RecipientUseCase
	AuthUC     *auth.AuthUseCase
	Hub        *realtime.Hub        // opcional: sin hub no se monta /ws/stock
	Registry   *prometheus.Registry // opcional: sin registry no se monta /metrics
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}
	if deps.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/stock", websocket.New(deps.Hub.Handler))
	}

	api := app.Group("/api")
	admin := AdminOnly(deps.JWTSecret)

	// Auth (público)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}

	// Items: escaneo y consulta abiertos; borrar requiere admin
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Ledger, deps.Audit, deps.Label)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:barcode", itemHandler.Get)
	items.Patch("/:barcode", itemHandler.Update)
	items.Delete("/:barcode", append(admin, itemHandler.Delete)...)
	items.Post("/:barcode/scan", itemHandler.Scan)
	items.Put("/:barcode/quantity", itemHandler.SetQuantity)
	items.Get("/:barcode/barcode.png", itemHandler.BarcodeImage)
	items.Get("/:barcode/label.pdf", itemHandler.Label)
	items.Get("/:barcode/audit", itemHandler.History)

	// Historial global
	audit := api.Group("/audit")
	auditHandler := NewAuditHandler(deps.Audit)
	audit.Get("/", auditHandler.List)
	audit.Delete("/:id", append(admin, auditHandler.Delete)...)

	// Destinatarios de alertas (admin)
	recipientsGroup := api.Group("/recipients", admin...)
	recipientHandler := NewRecipientHandler(deps.Recipients)
	recipientsGroup.Post("/", recipientHandler.Create)
	recipientsGroup.Get("/", recipientHandler.List)
	recipientsGroup.Get("/:id", recipientHandler.Get)
	recipientsGroup.Put("/:id", recipientHandler.Update)
	recipientsGroup.Delete("/:id", recipientHandler.Delete)
}
