package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/auth"
	"github.com/peerseeker/peerseeker-backend/internal/booking"
	bookingHttp "github.com/peerseeker/peerseeker-backend/internal/booking/http"
	"github.com/peerseeker/peerseeker-backend/internal/bookmark"
	bookmarkHttp "github.com/peerseeker/peerseeker-backend/internal/bookmark/http"
	"github.com/peerseeker/peerseeker-backend/internal/user"
	userHttp "github.com/peerseeker/peerseeker-backend/internal/user/http"
)

// Config holds the services and settings required to assemble the router.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	UserService     user.Service
	BookmarkService bookmark.Service
	BookingService  booking.Service
	JWTManager      *auth.JWTManager
	Logger          *zap.Logger
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, recovery, auth) and registers module routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS: dev allows the local frontend; prod origins come from config.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	if cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware validates the bearer token and exposes {userID, role}.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	userHandler := userHttp.NewUserHandler(cfg.UserService, cfg.JWTManager, cfg.Logger)
	bookmarkHandler := bookmarkHttp.NewHandler(cfg.BookmarkService, cfg.Logger)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		bookmarkHttp.RegisterRoutes(v1, bookmarkHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}
