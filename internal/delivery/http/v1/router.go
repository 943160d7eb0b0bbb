package v1

import (
	"net/http"
	"time"

	"advanced-form/config"
	"advanced-form/internal/delivery/http/middleware"
	"advanced-form/internal/delivery/http/response"
	"advanced-form/internal/delivery/http/web"
	"advanced-form/internal/domain"
	"advanced-form/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	FormUC        domain.FormUsecase
	HealthUC      usecase.HealthUsecase
	Config        *config.Config
	SecureCookies bool
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.Session(deps.SecureCookies))
	r.Use(middleware.ErrorHandler())

	// One quota for avatar uploads through the page and the API.
	uploadLimit := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(
		deps.Config.UploadRateLimit,
		time.Duration(deps.Config.UploadRateWindowSeconds)*time.Second,
	))

	// Server-rendered form pages
	pages := r.Group("")
	pages.Use(middleware.CSRFMiddleware(deps.SecureCookies))
	web.NewPageHandler(pages, deps.FormUC, uploadLimit)

	// JSON API
	v1 := r.Group("/v1")
	v1.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewFormHandler(v1, deps.FormUC, uploadLimit)

	return r
}
