package main

import (
	"log"
	"strings"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/config"
	"pos-backend/internal/database"
	"pos-backend/internal/menu"
	"pos-backend/internal/models"
	"pos-backend/internal/pos"
	"pos-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Menu catalog
	protected.Get("/menu", menu.ListMenuHandler())

	// Cart lifecycle
	protected.Post("/carts", pos.CreateCartHandler())
	protected.Get("/carts/held", pos.ListHeldHandler())
	protected.Get("/carts/:id", pos.GetCartHandler())
	protected.Post("/carts/:id/lines", pos.AddLineHandler())
	protected.Delete("/carts/:id/lines/:lineID", pos.RemoveLineHandler())
	protected.Post("/carts/:id/hold", pos.HoldHandler())
	protected.Post("/carts/:id/resume", pos.ResumeHandler())

	// Settlement
	protected.Post("/checkout", pos.CheckoutHandler(cfg))
	protected.Get("/sales/:id", pos.GetSaleHandler())

	// Reporting
	protected.Get("/reports/daily", reports.DailyTotalHandler())
	protected.Get("/reports/monthly", reports.MonthlyTotalHandler())
	protected.Get("/reports/daily/payments", reports.PaymentBreakdownHandler())
	protected.Get("/reports/daily/staff", reports.StaffBreakdownHandler())
	protected.Get("/reports/daily/sales", reports.SaleRecordsHandler())
	protected.Get("/reports/daily/export", reports.DailyExportHandler())

	// Admin-only routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Staff management
	adminRoutes.Post("/staff", auth.CreateStaffHandler())
	adminRoutes.Get("/staff", auth.ListStaffHandler())
	adminRoutes.Put("/staff/:id/deactivate", auth.DeactivateStaffHandler())

	// Menu management
	adminRoutes.Post("/menu", menu.CreateMenuItemHandler())
	adminRoutes.Put("/menu/:id", menu.UpdateMenuItemHandler())
	adminRoutes.Delete("/menu/:id", menu.DeleteMenuItemHandler())

	// Privileged cart/sale operations
	adminRoutes.Post("/carts/:id/override-resume", pos.OverrideResumeHandler())
	adminRoutes.Delete("/carts/:id", pos.DiscardHandler())
	adminRoutes.Post("/sales/:id/void", pos.VoidSaleHandler())

	// Audit trail
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
