// Package router assembles the HTTP surface of the arcade hub.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/arcade-hub-api/internal/handler"
	"github.com/noah-isme/arcade-hub-api/internal/middleware"
	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/arcade-hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/arcade-hub-api/pkg/middleware/requestid"
)

// Options configures route registration.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
}

// Dependencies are the handlers and cross-cutting collaborators the routes need.
type Dependencies struct {
	Auth      *handler.AuthHandler
	Site      *handler.SiteHandler
	Events    *handler.EventHandler
	Scores    *handler.HighscoreHandler
	Content   *handler.ContentHandler
	Live      *handler.LiveHandler
	System    *handler.SystemHandler
	Tokens    middleware.TokenValidator
	Audit     middleware.AuditWriter
	Metrics   middleware.HTTPObserver
	ScoreRate *middleware.RateLimiter
	LoginRate *middleware.RateLimiter
	Logger    *zap.Logger
}

// New builds the gin engine with every public, admin and infra route.
func New(opts Options, deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.GET("/health", deps.System.Health)
	r.GET("/ready", deps.System.Ready)
	r.GET("/metrics", deps.System.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	api.GET("/site", deps.Site.Site)
	api.GET("/status", deps.Site.Status)
	api.GET("/events", deps.Events.List)
	api.GET("/highscores", deps.Scores.Leaderboard)
	api.POST("/highscores", middleware.RateLimit(deps.ScoreRate), deps.Scores.Submit)
	api.GET("/rosters", deps.Content.Rosters)
	api.GET("/timetable", deps.Content.Timetable)
	api.GET("/settings", deps.Content.Settings)
	api.GET("/live", deps.Live.Subscribe)

	auth := api.Group("/auth")
	auth.POST("/login", middleware.RateLimit(deps.LoginRate), deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.Refresh)
	secured := auth.Group("", middleware.JWT(deps.Tokens))
	secured.POST("/logout", deps.Auth.Logout)
	secured.POST("/change-password", deps.Auth.ChangePassword)
	secured.GET("/me", deps.Auth.Me)

	admin := api.Group("/admin", middleware.JWT(deps.Tokens))
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.Audit, deps.Logger, action, resource)
	}

	editors := admin.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))
	editors.POST("/events", audit(models.AuditActionCreate, "events"), deps.Events.Create)
	editors.DELETE("/events/:id", audit(models.AuditActionDelete, "events"), deps.Events.Delete)
	editors.GET("/highscores", deps.Scores.List)
	editors.GET("/highscores/pending", deps.Scores.Pending)
	editors.GET("/highscores/export", audit(models.AuditActionExport, "highscores"), deps.Scores.Export)
	editors.POST("/highscores/:id/approve", audit(models.AuditActionApprove, "highscores"), deps.Scores.Approve)
	editors.DELETE("/highscores/:id", audit(models.AuditActionDelete, "highscores"), deps.Scores.Reject)
	editors.PUT("/rosters", audit(models.AuditActionUpdate, "rosters"), deps.Content.ReplaceRosters)
	editors.POST("/rosters/:game/players", audit(models.AuditActionCreate, "rosters"), deps.Content.AddPlayer)
	editors.DELETE("/rosters/:game/players/:index", audit(models.AuditActionDelete, "rosters"), deps.Content.RemovePlayer)

	admins := admin.Group("", middleware.RequireRoles(models.RoleAdmin))
	admins.PUT("/timetable", audit(models.AuditActionUpdate, "timetable"), deps.Content.ReplaceTimetable)
	admins.PUT("/settings", audit(models.AuditActionUpdate, "settings"), deps.Content.UpdateSettings)
	admins.PUT("/lists", audit(models.AuditActionUpdate, "lists"), deps.Content.UpdateLists)
	admins.GET("/system", deps.System.System)

	return r
}
