package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"servis-backend/internal/admin"
	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/cache"
	"servis-backend/internal/catalog"
	"servis-backend/internal/config"
	"servis-backend/internal/dashboard"
	"servis-backend/internal/database"
	"servis-backend/internal/idgen"
	"servis-backend/internal/inventory"
	"servis-backend/internal/logger"
	"servis-backend/internal/middleware"
	"servis-backend/internal/notify"
	"servis-backend/internal/payment"
	"servis-backend/internal/scheduler"
	"servis-backend/internal/workorder"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.Must(logger.New(cfg.LogLevel, cfg.LogFormat))
	defer log.Sync()
	zap.ReplaceGlobals(log)

	database.Init(cfg)

	if err := idgen.Init(cfg.SnowflakeNode); err != nil {
		log.Fatal("snowflake başlatılamadı", zap.Error(err))
	}
	if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
		log.Fatal("upload klasörü oluşturulamadı", zap.Error(err))
	}

	stockCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StockCacheTTL, log)
	if err != nil {
		log.Warn("redis bağlantısı kurulamadı, önbelleksiz devam ediliyor", zap.Error(err))
		stockCache = cache.NopCache{}
	}

	access := auth.Access{Strict: cfg.AccessStrict}
	ledger := inventory.NewLedger(cfg.DefaultStorageName, cfg.WasteStorageName)
	stock := inventory.NewStockReader(ledger, stockCache)
	applications := workorder.NewApplicationService(database.DB, ledger, stockCache, log)
	workOrders := workorder.NewWorkOrderService(database.DB, applications, access)
	plans := payment.NewPlanService(database.DB, log)

	var mailer notify.Mailer = notify.LogMailer{Logger: log.Named("mail")}
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}
	sched := scheduler.New(cfg.NotificationCron, notify.NewDispatcher(database.DB, mailer, log), log)
	if err := sched.Start(); err != nil {
		log.Fatal("zamanlayıcı başlatılamadı", zap.String("spec", cfg.NotificationCron), zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("beklenmeyen hata", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
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
	app.Use(middleware.RequestLogger(log.Named("http")))

	app.Static("/uploads", cfg.UploadPath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/init", auth.InitFirstUserHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	can := func(entity auth.Entity, op auth.Operation) fiber.Handler {
		return auth.Authorize(access, entity, op)
	}
	guard := func(entity auth.Entity) func(auth.Operation) fiber.Handler {
		return func(op auth.Operation) fiber.Handler { return can(entity, op) }
	}

	// Kullanıcılar
	protected.Get("/users", can(auth.EntityUser, auth.OpQuery), admin.ListUsersHandler())
	protected.Get("/users/:id", can(auth.EntityUser, auth.OpQuery), admin.GetUserHandler())
	protected.Post("/users", can(auth.EntityUser, auth.OpCreate), admin.CreateUserHandler(access))
	protected.Put("/users/:id", can(auth.EntityUser, auth.OpUpdate), admin.UpdateUserHandler(access))
	protected.Delete("/users/:id", can(auth.EntityUser, auth.OpDelete), admin.DeleteUserHandler())

	// Tanımlar
	catalog.Storages.Register(protected.Group("/storages"), guard(auth.EntityStorage))
	catalog.DocumentTypes.Register(protected.Group("/document-types"), guard(auth.EntityDocumentType))
	catalog.CarBrands.Register(protected.Group("/car-brands"), guard(auth.EntityCarBrand))
	catalog.ProductBrands.Register(protected.Group("/product-brands"), guard(auth.EntityProductBrand))
	catalog.ApplicationTypes.Register(protected.Group("/application-types"), guard(auth.EntityApplicationType))

	protected.Get("/car-models", can(auth.EntityCarModel, auth.OpQuery), catalog.ListCarModelsHandler())
	protected.Post("/car-models", can(auth.EntityCarModel, auth.OpCreate), catalog.CreateCarModelHandler())
	protected.Put("/car-models/:id", can(auth.EntityCarModel, auth.OpUpdate), catalog.UpdateCarModelHandler())
	protected.Delete("/car-models/:id", can(auth.EntityCarModel, auth.OpDelete), catalog.DeleteCarModelHandler())

	protected.Get("/cars", can(auth.EntityCar, auth.OpQuery), catalog.ListCarsHandler())
	protected.Get("/cars/:id", can(auth.EntityCar, auth.OpQuery), catalog.GetCarHandler())
	protected.Post("/cars", can(auth.EntityCar, auth.OpCreate), catalog.CreateCarHandler())
	protected.Put("/cars/:id", can(auth.EntityCar, auth.OpUpdate), catalog.UpdateCarHandler())
	protected.Delete("/cars/:id", can(auth.EntityCar, auth.OpDelete), catalog.DeleteCarHandler())

	protected.Get("/application-locations", can(auth.EntityApplicationLocation, auth.OpQuery), catalog.ListLocationsHandler())
	protected.Post("/application-locations", can(auth.EntityApplicationLocation, auth.OpCreate), catalog.CreateLocationHandler())
	protected.Put("/application-locations/:id", can(auth.EntityApplicationLocation, auth.OpUpdate), catalog.UpdateLocationHandler())
	protected.Delete("/application-locations/:id", can(auth.EntityApplicationLocation, auth.OpDelete), catalog.DeleteLocationHandler())

	// Ürünler ve stok
	protected.Get("/products", can(auth.EntityProduct, auth.OpQuery), inventory.ListProductsHandler(stock))
	protected.Get("/products/stock/export", can(auth.EntityProduct, auth.OpQuery), inventory.ExportStockHandler(stock))
	protected.Get("/products/:id", can(auth.EntityProduct, auth.OpQuery), inventory.GetProductHandler(stock))
	protected.Get("/products/:id/stock", can(auth.EntityProduct, auth.OpQuery), inventory.ProductStockHandler(ledger))
	protected.Post("/products", can(auth.EntityProduct, auth.OpCreate), inventory.CreateProductHandler())
	protected.Put("/products/:id", can(auth.EntityProduct, auth.OpUpdate), inventory.UpdateProductHandler(stock))
	protected.Delete("/products/:id", can(auth.EntityProduct, auth.OpDelete), inventory.DeleteProductHandler(stock))

	protected.Get("/stock-movements", can(auth.EntityStockMovement, auth.OpQuery), inventory.ListStockMovementsHandler())
	protected.Get("/stock-movements/export", can(auth.EntityStockMovement, auth.OpQuery), inventory.ExportStockMovementsHandler())
	protected.Post("/stock-movements", can(auth.EntityStockMovement, auth.OpCreate), inventory.CreateStockMovementHandler(ledger, stock))
	protected.Delete("/stock-movements/:id", can(auth.EntityStockMovement, auth.OpDelete), inventory.DeleteStockMovementHandler(stock))

	// İş emirleri
	protected.Get("/work-orders", can(auth.EntityWorkOrder, auth.OpQuery), workorder.ListWorkOrdersHandler(workOrders))
	protected.Get("/work-orders/:id", can(auth.EntityWorkOrder, auth.OpQuery), workorder.GetWorkOrderHandler(workOrders))
	protected.Post("/work-orders", can(auth.EntityWorkOrder, auth.OpCreate), workorder.CreateWorkOrderHandler(workOrders))
	protected.Put("/work-orders/:id", can(auth.EntityWorkOrder, auth.OpUpdate), workorder.UpdateWorkOrderHandler(workOrders))
	protected.Delete("/work-orders/:id", can(auth.EntityWorkOrder, auth.OpDelete), workorder.DeleteWorkOrderHandler(workOrders))

	protected.Get("/applications", can(auth.EntityApplication, auth.OpQuery), workorder.ListApplicationsHandler())
	protected.Get("/applications/:id", can(auth.EntityApplication, auth.OpQuery), workorder.GetApplicationHandler())
	protected.Post("/applications", can(auth.EntityApplication, auth.OpCreate), workorder.CreateApplicationHandler(applications))
	protected.Put("/applications/:id", can(auth.EntityApplication, auth.OpUpdate), workorder.UpdateApplicationHandler(applications))
	protected.Delete("/applications/:id", can(auth.EntityApplication, auth.OpDelete), workorder.DeleteApplicationHandler(applications))

	protected.Get("/notes", can(auth.EntityNote, auth.OpQuery), workorder.ListNotesHandler())
	protected.Post("/notes", can(auth.EntityNote, auth.OpCreate), workorder.CreateNoteHandler())
	protected.Put("/notes/:id", can(auth.EntityNote, auth.OpUpdate), workorder.UpdateNoteHandler())
	protected.Delete("/notes/:id", can(auth.EntityNote, auth.OpDelete), workorder.DeleteNoteHandler())

	protected.Get("/files", can(auth.EntityFile, auth.OpQuery), workorder.ListFilesHandler())
	protected.Post("/files", can(auth.EntityFile, auth.OpCreate), workorder.UploadFileHandler(cfg.UploadPath))
	protected.Put("/files/:id", can(auth.EntityFile, auth.OpUpdate), workorder.UpdateFileHandler())
	protected.Delete("/files/:id", can(auth.EntityFile, auth.OpDelete), workorder.DeleteFileHandler(cfg.UploadPath))

	// Ödeme planları ve ödemeler
	protected.Get("/payment-plans", can(auth.EntityPaymentPlan, auth.OpQuery), payment.ListPlansHandler(plans))
	protected.Get("/payment-plans/:id", can(auth.EntityPaymentPlan, auth.OpQuery), payment.GetPlanHandler(plans))
	protected.Post("/payment-plans", can(auth.EntityPaymentPlan, auth.OpCreate), payment.CreatePlanHandler(plans))
	protected.Put("/payment-plans/:id", can(auth.EntityPaymentPlan, auth.OpUpdate), payment.UpdatePlanHandler(plans))
	protected.Delete("/payment-plans/:id", can(auth.EntityPaymentPlan, auth.OpDelete), payment.DeletePlanHandler(plans))

	protected.Get("/payments", can(auth.EntityPayment, auth.OpQuery), payment.ListPaymentsHandler())
	protected.Get("/payments/summary/monthly", can(auth.EntityPayment, auth.OpQuery), payment.MonthlySummaryHandler())
	protected.Post("/payments", can(auth.EntityPayment, auth.OpCreate), payment.CreatePaymentHandler())
	protected.Put("/payments/:id", can(auth.EntityPayment, auth.OpUpdate), payment.UpdatePaymentHandler())
	protected.Delete("/payments/:id", can(auth.EntityPayment, auth.OpDelete), payment.DeletePaymentHandler())

	protected.Get("/dashboard/payment-chart", can(auth.EntityPayment, auth.OpQuery), dashboard.PaymentChartHandler())

	// Bildirimler
	protected.Get("/notifications", can(auth.EntityNotification, auth.OpQuery), notify.ListNotificationsHandler())
	protected.Post("/notifications", can(auth.EntityNotification, auth.OpCreate), notify.CreateNotificationHandler())
	protected.Post("/notifications/:id/handle", can(auth.EntityNotification, auth.OpQuery), notify.HandleNotificationHandler())
	protected.Put("/notifications/:id", can(auth.EntityNotification, auth.OpUpdate), notify.UpdateNotificationHandler())
	protected.Delete("/notifications/:id", can(auth.EntityNotification, auth.OpDelete), notify.DeleteNotificationHandler())

	// Audit logs
	protected.Get("/audit-logs", can(auth.EntityAuditLog, auth.OpQuery), audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", can(auth.EntityAuditLog, auth.OpUpdate), audit.UndoAuditLogHandler())

	go func() {
		log.Info("server çalışıyor", zap.String("port", cfg.HTTPPort))
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Fatal("server başlatılamadı", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("kapatılıyor")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server düzgün kapatılamadı", zap.Error(err))
	}
	if closer, ok := stockCache.(io.Closer); ok {
		_ = closer.Close()
	}
}
