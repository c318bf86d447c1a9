package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/booking/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/favorite"
	favoriteHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/favorite/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/file"
	fileHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/file/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/message"
	messageHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/message/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
	propertyHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/property/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/review"
	reviewHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/review/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/user"
	userHttp "github.com/nekogravitycat/rental-marketplace-backend/internal/user/http"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config carries everything the router needs to build handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	CookieName   string

	DB              Pinger
	JWTManager      *auth.JWTManager
	UserService     user.Service
	FileService     file.Service
	PropertyService property.Service
	BookingService  booking.Service
	MessageService  message.Service
	ReviewService   review.Service
	FavoriteService favorite.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, logger, auth) and registers every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	// The session cookie must travel with cross-origin requests from the web app.
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", healthz(cfg.DB))

	extractor := auth.TokenExtractor{CookieName: cfg.CookieName}
	adminCheck := LiveAdminCheck(cfg.UserService)
	authMiddleware := auth.AuthRequired(cfg.JWTManager, extractor, adminCheck)
	optionalAuth := auth.OptionalAuth(cfg.JWTManager, extractor, adminCheck)
	adminMiddleware := RequireAdmin(cfg.UserService)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager, userHttp.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.IsProduction,
	})
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	propertyHandler := propertyHttp.NewHandler(cfg.PropertyService, cfg.FileService, fileHandler)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	messageHandler := messageHttp.NewHandler(cfg.MessageService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService)
	favoriteHandler := favoriteHttp.NewHandler(cfg.FavoriteService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler)
		propertyHttp.RegisterRoutes(v1, propertyHandler, authMiddleware, optionalAuth)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		messageHttp.RegisterRoutes(v1, messageHandler, authMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware)
		favoriteHttp.RegisterRoutes(v1, favoriteHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{
			"http://localhost:3000", // Web app
			"http://localhost:5173", // Vite dev server
			"http://localhost:8081", // Swagger
		}
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
