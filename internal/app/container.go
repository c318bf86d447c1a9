package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/api"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/booking"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/favorite"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/file"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/message"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/storage"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/review"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	DBPool        *pgxpool.Pool
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	CookieName    string
	StoragePath   string
	UserCacheTTL  time.Duration
	UserCacheSize int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	userCache *user.CachedService
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userCache := user.NewCachedService(user.NewService(userRepo, passwordHasher), cfg.UserCacheSize, cfg.UserCacheTTL)

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store)

	// Property Module
	propertyRepo := property.NewPgxRepository(cfg.DBPool)
	propertyService := property.NewService(propertyRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, propertyService)

	// Message Module
	messageRepo := message.NewPgxRepository(cfg.DBPool)
	messageService := message.NewService(messageRepo, userCache, propertyService)

	// Review Module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, propertyService, bookingService)

	// Favorite Module
	favoriteRepo := favorite.NewPgxRepository(cfg.DBPool)
	favoriteService := favorite.NewService(favoriteRepo, propertyService)

	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		CookieName:      cfg.CookieName,
		DB:              cfg.DBPool,
		JWTManager:      jwtManager,
		UserService:     userCache,
		FileService:     fileService,
		PropertyService: propertyService,
		BookingService:  bookingService,
		MessageService:  messageService,
		ReviewService:   reviewService,
		FavoriteService: favoriteService,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		userCache:  userCache,
	}, nil
}

// Close releases background resources owned by the container.
func (c *Container) Close() {
	c.userCache.Stop()
}
