// Package server assembles repositories, services and handlers into the
// HTTP router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"localstay/internal/cache"
	"localstay/internal/middleware"
	"localstay/internal/modules/admin"
	"localstay/internal/modules/auth"
	"localstay/internal/modules/booking"
	"localstay/internal/modules/realtime"
	"localstay/internal/modules/stay"
	"localstay/internal/modules/upload"
	"localstay/internal/notification"
	"localstay/internal/pkg/jwt"
	"localstay/internal/repository"
)

type Options struct {
	DB     *gorm.DB
	Tokens *jwt.Service
	Cache  *cache.Cache
	Hub    *realtime.Hub
	Logger *slog.Logger

	// Optional.
	Notifier    notification.Notifier
	Images      upload.Store
	CORSOrigins []string
}

// NewRouter wires every module onto a fresh gin engine.
func NewRouter(o Options) *gin.Engine {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Hub == nil {
		o.Hub = realtime.NewHub()
	}

	userRepo := repository.NewUserRepository(o.DB)
	ownerRepo := repository.NewOwnerRepository(o.DB)
	adminRepo := repository.NewAdminRepository(o.DB)
	stayRepo := repository.NewStayRepository(o.DB)
	bookingRepo := repository.NewBookingRepository(o.DB)

	authService := auth.NewService(userRepo, ownerRepo, adminRepo, o.Tokens, o.Notifier)
	// A nil *cache.Cache must stay a nil interface.
	var details stay.DetailsCache
	if o.Cache != nil {
		details = o.Cache
	}
	stayService := stay.NewService(stayRepo, ownerRepo, details)
	bookingService := booking.NewService(booking.NewGormLedger(bookingRepo), o.Hub)
	adminService := admin.NewService(ownerRepo, userRepo, stayService)
	uploadService := upload.NewService(o.Images)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(o.Logger))
	r.Use(middleware.CORS(o.CORSOrigins))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Local Stay Platform API"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	realtime.NewHandler(o.Hub, o.Tokens, o.CORSOrigins).RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(o.Tokens))

	auth.NewHandler(authService).RegisterPublicRoutes(v1)
	stay.NewHandler(stayService).RegisterRoutes(v1, protected)
	booking.NewHandler(bookingService).RegisterRoutes(protected)
	admin.NewHandler(adminService).RegisterRoutes(protected)
	upload.NewHandler(uploadService).RegisterRoutes(protected)

	return r
}
