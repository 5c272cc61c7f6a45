package v1

import (
	"log/slog"
	"net/http"

	_ "contact-sms-relay/docs" // swagger spec registration
	"contact-sms-relay/internal/delivery/http/middleware"
	"contact-sms-relay/internal/domain"
	"contact-sms-relay/internal/usecase"
	"contact-sms-relay/pkg/metrics"
	"contact-sms-relay/pkg/ratelimit"
	"contact-sms-relay/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       usecase.HealthUsecase
	Limiter        ratelimit.Limiter
	Security       *security.SecurityLogger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Logger         *slog.Logger
	MaxBodyBytes   int64
	TrustedProxies []string
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	r := gin.New()

	// nil disables proxy header trust; ClientIP is then the socket peer.
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if deps.Logger != nil {
		r.Use(middleware.RequestLogger(deps.Logger))
	}
	r.Use(middleware.SecurityHeadersMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	if deps.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(deps.MaxBodyBytes))
	}
	r.Use(middleware.ErrorHandler())

	// Health Check
	NewHealthHandler(r, deps.HealthUC)

	var limiter gin.HandlerFunc
	if deps.Limiter != nil {
		limiter = middleware.RateLimitMiddleware(deps.Limiter, middleware.RateLimitOptions{
			Security: deps.Security,
			Metrics:  deps.Metrics,
		})
	}
	NewContactHandler(r, deps.ContactUC, deps.Security, limiter)

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}
