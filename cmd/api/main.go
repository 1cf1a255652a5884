package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/keingkrai/process-tax-ocr/internal/application/service"
	"github.com/keingkrai/process-tax-ocr/internal/config"
	"github.com/keingkrai/process-tax-ocr/internal/domain/deduction"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/audit"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/classifier"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/database"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/extraction"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/ocr"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/repository"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/storage"
	"github.com/keingkrai/process-tax-ocr/internal/infrastructure/verification"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/handler"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/routes"
	"github.com/keingkrai/process-tax-ocr/pkg/oauth"
	"github.com/keingkrai/process-tax-ocr/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	// Initialize file storage
	fileStore, err := storage.NewFileStore(cfg.Storage.UploadPath, cfg.Storage.WorkPath)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize pipeline collaborators
	ocrClient := ocr.NewClient(ocr.Config{
		APIKey:  cfg.Typhoon.APIKey,
		BaseURL: cfg.Typhoon.BaseURL,
		Model:   cfg.Typhoon.OCRModel,
	})
	extractor := extraction.NewExtractor(extraction.Config{
		APIKey:  cfg.Typhoon.APIKey,
		BaseURL: cfg.Typhoon.BaseURL,
		Model:   cfg.Typhoon.ExtractModel,
	})
	classifierClient := classifier.NewClient(cfg.Classifier.URL)
	verifier := verification.NewVerifier(companyRepo)
	auditWriter := audit.NewWriter(cfg.Storage.AuditPath)
	evaluator := deduction.NewEvaluator(
		deduction.EvaluateAllItems(cfg.Rules.EvaluateAllItems),
	)

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Initialize services
	authService := service.NewAuthService(employeeRepo, jwtManager, googleOAuthService)
	documentService := service.NewDocumentService(documentRepo)
	processService := service.NewProcessService(
		documentRepo,
		fileStore,
		ocrClient,
		extractor,
		classifierClient,
		verifier,
		auditWriter,
		evaluator,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Document: handler.NewDocumentHandler(documentService, fileStore),
		Process:  handler.NewProcessHandler(processService, cfg.Storage.UploadMaxSize),
		Company:  handler.NewCompanyHandler(companyRepo),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
