package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mealprogram-backend/internal/advisor"
	"mealprogram-backend/internal/audit"
	"mealprogram-backend/internal/auth"
	"mealprogram-backend/internal/config"
	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/forecast"
	"mealprogram-backend/internal/inventory"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/notify"
	"mealprogram-backend/internal/pos"
	"mealprogram-backend/internal/recipe"
	"mealprogram-backend/internal/report"
	"mealprogram-backend/internal/scheduler"
	"mealprogram-backend/internal/school"
	"mealprogram-backend/pkg/clients/anthropic"
	"mealprogram-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg := config.Load()
	database.Init(cfg)
	audit.SetLogger(logger.Named(log, "audit"))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("unexpected error", zap.Error(err))
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

	var aiClient anthropic.Client
	if cfg.AnthropicAPIKey != "" {
		aiClient = anthropic.NewClient(cfg.AnthropicAPIKey)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, advice endpoint runs on fallback only")
	}

	sched := scheduler.New(cfg, logger.Named(log, "scheduler"))
	sched.Start()
	defer sched.Stop()

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler())

	adminRoutes.Post("/schools", school.CreateSchoolHandler())
	adminRoutes.Put("/schools/:id", school.UpdateSchoolHandler())
	adminRoutes.Delete("/schools/:id", school.DeleteSchoolHandler())

	adminRoutes.Post("/grades", school.CreateGradeHandler())
	adminRoutes.Delete("/grades/:id", school.DeleteGradeHandler())
	adminRoutes.Post("/classrooms", school.CreateClassroomHandler())
	adminRoutes.Put("/classrooms/:id", school.UpdateClassroomHandler())
	adminRoutes.Delete("/classrooms/:id", school.DeleteClassroomHandler())
	adminRoutes.Post("/teachers", school.CreateTeacherHandler())
	adminRoutes.Delete("/teachers/:id", school.DeleteTeacherHandler())
	adminRoutes.Post("/students", school.CreateStudentHandler())
	adminRoutes.Put("/students/:id", school.UpdateStudentHandler())
	adminRoutes.Delete("/students/:id", school.DeleteStudentHandler())

	adminRoutes.Post("/staff", school.CreateStaffHandler())
	adminRoutes.Delete("/staff/:id", school.DeleteStaffHandler())
	adminRoutes.Post("/suppliers", school.CreateSupplierHandler())
	adminRoutes.Delete("/suppliers/:id", school.DeleteSupplierHandler())
	adminRoutes.Post("/assets", school.CreateAssetHandler())
	adminRoutes.Put("/assets/:id", school.UpdateAssetHandler())
	adminRoutes.Delete("/assets/:id", school.DeleteAssetHandler())
	adminRoutes.Post("/school-days", school.UpsertSchoolDayHandler())

	adminRoutes.Post("/monthly-reports", report.CreateMonthlyReportHandler())
	adminRoutes.Post("/pos/products", pos.CreateProductHandler())
	adminRoutes.Put("/pos/products/:id", pos.UpdateProductHandler())
	adminRoutes.Delete("/pos/products/:id", pos.DeleteProductHandler())

	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Shared (auth required) routes

	protected.Get("/schools", school.ListSchoolsHandler())
	protected.Get("/schools/:id", school.GetSchoolHandler())
	protected.Get("/grades", school.ListGradesHandler())
	protected.Get("/classrooms", school.ListClassroomsHandler())
	protected.Get("/teachers", school.ListTeachersHandler())
	protected.Get("/students", school.ListStudentsHandler())
	protected.Get("/staff", school.ListStaffHandler())
	protected.Get("/suppliers", school.ListSuppliersHandler())
	protected.Get("/assets", school.ListAssetsHandler())
	protected.Get("/school-days", school.ListSchoolDaysHandler())

	// Attendance
	protected.Post("/attendance", school.RecordAttendanceHandler())
	protected.Get("/attendance", school.ListAttendanceHandler())
	protected.Get("/attendance/summary", school.AttendanceSummaryHandler())
	protected.Get("/attendance/snapshot", scheduler.SnapshotHandler(sched))

	// Inventory
	protected.Post("/ingredients", inventory.CreateIngredientHandler())
	protected.Get("/ingredients", inventory.ListIngredientsHandler())
	protected.Get("/ingredients/:id", inventory.GetIngredientHandler())
	protected.Put("/ingredients/:id", inventory.UpdateIngredientHandler())
	protected.Delete("/ingredients/:id", inventory.DeleteIngredientHandler())
	protected.Get("/ingredients/:id/stock", inventory.GetStockStatusHandler())
	protected.Post("/ingredients/:id/recompute-stock", inventory.RecomputeStockHandler())

	// Ledgers
	protected.Post("/consumption-logs", inventory.CreateConsumptionHandler())
	protected.Get("/consumption-logs", inventory.ListConsumptionHandler())
	protected.Delete("/consumption-logs/:id", inventory.DeleteConsumptionHandler())
	protected.Post("/supply-logs", inventory.CreateSupplyHandler())
	protected.Get("/supply-logs", inventory.ListSupplyHandler())
	protected.Delete("/supply-logs/:id", inventory.DeleteSupplyHandler())
	protected.Post("/supply-logs/parse-note", inventory.ParseDeliveryNoteHandler())
	protected.Post("/waste-logs", inventory.CreateWasteHandler())
	protected.Get("/waste-logs", inventory.ListWasteHandler())
	protected.Delete("/waste-logs/:id", inventory.DeleteWasteHandler())

	// Recipes
	protected.Post("/recipes", recipe.CreateRecipeHandler())
	protected.Get("/recipes", recipe.ListRecipesHandler())
	protected.Get("/recipes/:id", recipe.GetRecipeHandler())
	protected.Put("/recipes/:id", recipe.UpdateRecipeHandler())
	protected.Delete("/recipes/:id", recipe.DeleteRecipeHandler())
	protected.Get("/recipes/:id/requirements", recipe.RequirementsHandler())

	// Forecast and notifications
	protected.Get("/forecast", forecast.Handler())
	protected.Get("/notifications", notify.Handler(cfg))
	protected.Get("/advice", advisor.AdviceHandler(aiClient, logger.Named(log, "advisor")))

	// Reports
	protected.Get("/reports/summary", report.SummaryHandler())
	protected.Get("/reports/chart", report.ChartHandler())
	protected.Get("/reports/export/excel", report.ExportExcelHandler())
	protected.Get("/reports/export/pdf", report.ExportPDFHandler())
	protected.Get("/monthly-reports", report.ListMonthlyReportsHandler())
	protected.Get("/monthly-reports/:id", report.GetMonthlyReportHandler())

	// POS
	protected.Get("/pos/products", pos.ListProductsHandler())
	protected.Post("/pos/sales", pos.CreateSaleHandler())
	protected.Get("/pos/sales", pos.ListSalesHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	go func() {
		log.Info("server listening", zap.String("port", cfg.HTTPPort))
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	_ = app.Shutdown()
}
