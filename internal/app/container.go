package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/api"
	"github.com/peerseeker/peerseeker-backend/internal/auth"
	"github.com/peerseeker/peerseeker-backend/internal/booking"
	"github.com/peerseeker/peerseeker-backend/internal/bookmark"
	"github.com/peerseeker/peerseeker-backend/internal/cache"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/storage"
	"github.com/peerseeker/peerseeker-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	AvatarDir    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DirectoryTTL  time.Duration

	Logger *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	directoryCache *cache.RedisCache
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	avatarStore, err := storage.NewLocalStorage(cfg.AvatarDir)
	if err != nil {
		return nil, err
	}
	imageProcessor := storage.NewImageProcessor()

	// Directory cache is optional; a nil cache disables it.
	var directoryCache *cache.RedisCache
	var userCache user.DirectoryCache
	if cfg.RedisAddr != "" {
		directoryCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DirectoryTTL)
		userCache = directoryCache
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, userCache, avatarStore, imageProcessor, cfg.Logger)

	// Bookmark Module
	bookmarkRepo := bookmark.NewPgxRepository(cfg.DBPool)
	bookmarkService := bookmark.NewService(bookmarkRepo, userService)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, userService)

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		UserService:     userService,
		BookmarkService: bookmarkService,
		BookingService:  bookingService,
		JWTManager:      jwtManager,
		Logger:          cfg.Logger,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		directoryCache: directoryCache,
	}, nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.directoryCache != nil {
		return c.directoryCache.Close()
	}
	return nil
}
