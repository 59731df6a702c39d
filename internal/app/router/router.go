package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	authhandler "fileshare_backend/internal/feature/auth/transport/handler"
	uploadhandler "fileshare_backend/internal/feature/upload/transport/handler"
	platformhandler "fileshare_backend/internal/platform/http/handler"
	jwtmw "fileshare_backend/internal/platform/jwt"
	"fileshare_backend/internal/platform/middleware"
)

// Options はルーターの挙動を切り替える設定です。
type Options struct {
	CORSOrigins []string
	// PublicUploadListing が true の場合、GET /api/uploads は認証不要になります。
	PublicUploadListing bool
	// AuthRatePerMinute は signup/login のIPごとの上限です。0 で無効。
	AuthRatePerMinute int
	// Sentry が true の場合、sentrygin のハブをリクエストに付与します。
	Sentry bool
}

func NewRouter(
	authHandler *authhandler.AuthHandler,
	uploadHandler *uploadhandler.UploadHandler,
	health *platformhandler.HealthHandler,
	authRequired gin.HandlerFunc,
	opts Options,
) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		cors.New(corsConfig(opts.CORSOrigins)),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.RequestID(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.URL.Path == "/healthz"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}
				if v := c.GetString(middleware.ContextRequestID); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}
				if v := c.GetString(jwtmw.ContextUserID); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}
				return fields
			},
		}),
	)
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	rateLimit := middleware.RateLimit(opts.AuthRatePerMinute)

	users := r.Group("/api/users")
	{
		// 認証不要
		users.POST("/signup", rateLimit, authHandler.Signup)
		users.POST("/login", rateLimit, authHandler.Login)
		users.POST("/verify/:verification_id", authHandler.Verify)

		// 認証必須
		me := users.Group("/me", authRequired)
		me.GET("", authHandler.Me)
		me.DELETE("", authHandler.DeleteMe)
		me.POST("/send-verification", authHandler.SendVerification)
		me.PATCH("/password", authHandler.ChangePassword)
	}

	uploads := r.Group("/api/uploads")
	{
		if opts.PublicUploadListing {
			uploads.GET("", uploadHandler.List)
		} else {
			uploads.GET("", authRequired, uploadHandler.List)
		}

		// /mine は /:id より先に登録
		uploads.GET("/mine", authRequired, uploadHandler.Mine)
		uploads.POST("/start", authRequired, uploadHandler.Start)
		uploads.GET("/:id", authRequired, uploadHandler.Get)
		uploads.DELETE("/:id", authRequired, uploadHandler.Delete)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	// 未設定なら全オリジン許可（Cookieは使わないので credentials は不要）
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
