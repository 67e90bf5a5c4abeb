package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/middlewares"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/utils"
	"github.com/defensoria/siri-backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func registerRoutes(r *gin.Engine, mailer *utils.Mailer) {
	r.POST("/login", loginHandler())

	authed := r.Group("/", middlewares.RequireAuth())

	authed.GET("/me", meHandler())

	authed.POST("/public-defenses", createPublicDefenseHandler())
	authed.PUT("/public-defenses/:id", updatePublicDefenseHandler())
	authed.DELETE("/public-defenses/:id", deletePublicDefenseHandler())
	authed.GET("/public-defenses/:id", getPublicDefenseHandler())
	authed.GET("/public-defenses", listPublicDefensesHandler())

	authed.POST("/sectors", createSectorHandler())
	authed.PUT("/sectors/:id", updateSectorHandler())
	authed.DELETE("/sectors/:id", deleteSectorHandler())
	authed.GET("/sectors/:id", getSectorHandler())
	authed.GET("/sectors", listSectorsHandler())

	authed.POST("/stocks", createStockHandler())
	authed.PUT("/stocks/:id", updateStockHandler())
	authed.DELETE("/stocks/:id", deleteStockHandler())
	authed.GET("/stocks/:id", getStockHandler())
	authed.GET("/stocks", listStocksHandler())

	authed.POST("/categories", createCategoryHandler())
	authed.PUT("/categories/:id", updateCategoryHandler())
	authed.DELETE("/categories/:id", deleteCategoryHandler())
	authed.GET("/categories", listCategoriesHandler())

	authed.POST("/measures", createMeasureHandler())
	authed.PUT("/measures/:id", updateMeasureHandler())
	authed.DELETE("/measures/:id", deleteMeasureHandler())
	authed.GET("/measures", listMeasuresHandler())

	authed.POST("/products", createProductHandler())
	authed.PUT("/products/:id", updateProductHandler())
	authed.DELETE("/products/:id", deleteProductHandler())
	authed.GET("/products/:id", getProductHandler())
	authed.GET("/products", listProductsHandler())

	authed.POST("/suppliers", createSupplierHandler())
	authed.PUT("/suppliers/:id", updateSupplierHandler())
	authed.DELETE("/suppliers/:id", deleteSupplierHandler())
	authed.GET("/suppliers/:id", getSupplierHandler())
	authed.GET("/suppliers", listSuppliersHandler())

	// account management and broadcast mail are for administrators only
	admin := authed.Group("/", middlewares.RequireSuperuser())
	admin.POST("/clients", createClientHandler())
	admin.PUT("/clients/:id", updateClientHandler())
	admin.DELETE("/clients/:id", deleteClientHandler())
	admin.GET("/clients", listClientsHandler())
	admin.POST("/email", emailHandler(mailer))

	authed.POST("/protocols", createProtocolHandler())
	authed.PUT("/protocols/:id", updateProtocolHandler())
	authed.DELETE("/protocols/:id", deleteProtocolHandler())
	authed.GET("/protocols/:id", getProtocolHandler())
	authed.GET("/protocols", listProtocolsHandler())

	authed.POST("/protocol-items", createProtocolItemHandler())
	authed.PUT("/protocol-items/:id", updateProtocolItemHandler())
	authed.DELETE("/protocol-items/:id", deleteProtocolItemHandler())
	authed.GET("/protocol-items/:id", getProtocolItemHandler())
	authed.GET("/protocol-items", listProtocolItemsHandler())

	authed.POST("/protocol-withdrawals", createProtocolWithdrawalHandler())
	authed.DELETE("/protocol-withdrawals/:id", deleteProtocolWithdrawalHandler())
	authed.GET("/protocol-withdrawals/:id", getProtocolWithdrawalHandler())
	authed.GET("/protocol-withdrawals", listProtocolWithdrawalsHandler())

	authed.POST("/invoices", createInvoiceHandler())
	authed.PUT("/invoices/:id", updateInvoiceHandler())
	authed.DELETE("/invoices/:id", deleteInvoiceHandler())
	authed.GET("/invoices/:id", getInvoiceHandler())
	authed.GET("/invoices", listInvoicesHandler())

	authed.POST("/bidding-exemptions", createBiddingExemptionHandler())
	authed.DELETE("/bidding-exemptions/:id", deleteBiddingExemptionHandler())
	authed.GET("/bidding-exemptions", listBiddingExemptionsHandler())

	authed.POST("/stock-items", createStockItemHandler())
	authed.PUT("/stock-items/:id", updateStockItemHandler())
	authed.DELETE("/stock-items/:id", deleteStockItemHandler())
	authed.GET("/stock-items/:id", getStockItemHandler())
	authed.GET("/stock-items", listStockItemsHandler())

	authed.POST("/stock-entries", createStockEntryHandler())
	authed.DELETE("/stock-entries/:id", deleteStockEntryHandler())
	authed.GET("/stock-entries/:id", getStockEntryHandler())
	authed.GET("/stock-entries", listStockEntriesHandler())

	authed.POST("/stock-withdrawals", createStockWithdrawalHandler())
	authed.DELETE("/stock-withdrawals/:id", deleteStockWithdrawalHandler())
	authed.GET("/stock-withdrawals/:id", getStockWithdrawalHandler())
	authed.GET("/stock-withdrawals", listStockWithdrawalsHandler())

	authed.POST("/orders", createOrderHandler())
	authed.DELETE("/orders/:id", deleteOrderHandler())
	authed.GET("/orders/:id", getOrderHandler())
	authed.GET("/orders", listOrdersHandler())

	authed.POST("/order-items", createOrderItemsHandler())
	authed.PUT("/order-items/:id", fulfillOrderItemHandler())
	authed.DELETE("/order-items/:id", deleteOrderItemHandler())
	authed.GET("/order-items", listOrderItemsHandler())

	authed.POST("/supplier-orders", createSupplierOrderHandler())
	authed.PUT("/supplier-orders/:id", updateSupplierOrderHandler())
	authed.DELETE("/supplier-orders/:id", deleteSupplierOrderHandler())
	authed.GET("/supplier-orders/:id", getSupplierOrderHandler())
	authed.GET("/supplier-orders", listSupplierOrdersHandler())

	authed.POST("/supplier-order-items", createSupplierOrderItemHandler())
	authed.DELETE("/supplier-order-items/:id", deleteSupplierOrderItemHandler())
	authed.GET("/supplier-order-items", listSupplierOrderItemsHandler())

	authed.GET("/materials-orders", listMaterialsOrdersHandler())
	authed.GET("/materials-orders/:id/export", exportMaterialsOrderHandler())
	authed.DELETE("/materials-orders/:id", deleteMaterialsOrderHandler())

	authed.POST("/receiving-reports", createReceivingReportHandler())
	authed.GET("/receiving-reports/:id", getReceivingReportHandler())
	authed.GET("/receiving-reports", listReceivingReportsHandler())
	authed.DELETE("/receiving-reports/:id", deleteReceivingReportHandler())

	authed.POST("/dispatch-reports", createDispatchReportHandler())
	authed.GET("/dispatch-reports/:id", getDispatchReportHandler())
	authed.GET("/dispatch-reports", listDispatchReportsHandler())
	authed.DELETE("/dispatch-reports/:id", deleteDispatchReportHandler())

	authed.GET("/reports/stock", stockReportHandler())
	authed.GET("/reports/stock/export", stockReportExportHandler())
	authed.GET("/reports/warehouse-items", warehouseItemsHandler())
	authed.GET("/reports/warehouse-items/export", warehouseItemsExportHandler())
	authed.GET("/reports/accountant", accountantReportHandler())
	authed.GET("/reports/accountant/export", accountantReportExportHandler())
	authed.GET("/reports/accountant/file", getAccountantReportFileHandler())
	authed.GET("/category-balances", listCategoryBalancesHandler())

	authed.POST("/uploads/sign", signUploadHandler())
	authed.POST("/uploads/complete", completeUploadHandler())
	authed.GET("/uploads/object", uploadObjectHandler())
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	mailer := utils.NewMailerFromEnv()
	registerRoutes(r, mailer)
	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Warn superusers about protocols approaching their end date.
	notifierCtx, cancelNotifier := context.WithCancel(context.Background())
	defer cancelNotifier()
	go workflow.NewProtocolExpiryNotifier(logger, mailer).Run(notifierCtx)

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop background workers first so they don't start new work while we're draining.
	cancelNotifier()

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
