package handlers

import (
	"net/http"

	"github.com/CHOJUNGHO96/algo-reference/internal/logger"
	"github.com/CHOJUNGHO96/algo-reference/internal/metrics"
	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiPrefix = "/api/v1"

// Options carries the optional HTTP-layer collaborators. Zero values disable
// the corresponding feature.
type Options struct {
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer // served on /metrics when set
	LoginLimiter   *LoginLimiter
	AllowedOrigins []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.requestLog, h.observe, h.cors)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(h.opts.Gatherer)))
	}

	api := router.Group(apiPrefix)
	{
		h.registerAuthRoutes(api)
		h.registerAlgorithmRoutes(api)
		h.registerCatalogRoutes(api)
		h.registerAdminRoutes(api)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.loginRateLimit, h.login)
		auth.POST("/refresh", h.refresh)
		auth.GET("/me", h.authRequired, h.me)
	}
}

func (h *Handler) registerAlgorithmRoutes(api *gin.RouterGroup) {
	algorithms := api.Group("/algorithms")
	{
		algorithms.GET("", h.listAlgorithms)
		algorithms.GET("/:slug", h.getAlgorithm)
	}
}

func (h *Handler) registerCatalogRoutes(api *gin.RouterGroup) {
	api.GET("/categories", h.listCategories)
	api.GET("/categories/:slug", h.getCategory)
	api.GET("/difficulties", h.listDifficulties)
	api.GET("/languages", h.listLanguages)
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.authRequired)

	editors := h.requireRole(models.RoleAdmin, models.RoleEditor)
	admins := h.requireRole(models.RoleAdmin)

	algorithms := admin.Group("/algorithms")
	{
		algorithms.POST("", editors, h.createAlgorithm)
		algorithms.GET("/:id", editors, h.getAlgorithmByID)
		algorithms.PUT("/:id", editors, h.updateAlgorithm)
		algorithms.DELETE("/:id", admins, h.deleteAlgorithm)
		algorithms.POST("/:id/templates", editors, h.addTemplate)
	}

	admin.POST("/categories", admins, h.createCategory)
	admin.DELETE("/categories/:id", admins, h.deleteCategory)
	admin.POST("/users", admins, h.createUser)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
