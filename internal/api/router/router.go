package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
	"github.com/OfficialEseosa/panther-watch/internal/api/handler"
	"github.com/OfficialEseosa/panther-watch/internal/api/middleware"
	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/pkg/jwt"
	"github.com/OfficialEseosa/panther-watch/pkg/redis"
)

// searchRateLimit caps per-IP course searches; the registration system
// throttles aggressively and one session serves all users.
const (
	searchRateLimit  = 30
	searchRateWindow = time.Minute
)

// Setup builds the Gin engine with all routes wired.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	verifier *jwt.Verifier,
	users service.UserService,
	cache *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authorized := v1.Group("")
		authorized.Use(middleware.Auth(verifier, users))
		{
			courses := authorized.Group("/courses")
			{
				courses.GET("/search",
					middleware.RateLimit(cache, searchRateLimit, searchRateWindow),
					h.Course.Search)
				courses.GET("/terms", h.Course.Terms)
			}

			watched := authorized.Group("/watched-classes")
			{
				watched.GET("", h.Watched.List)
				watched.POST("", h.Watched.Watch)
				watched.DELETE("", h.Watched.Unwatch)
				watched.GET("/check", h.Watched.Check)
				watched.GET("/count", h.Watched.Count)
				watched.GET("/full-details", h.Watched.Details)
			}

			schedule := authorized.Group("/schedule")
			{
				schedule.GET("", h.Schedule.List)
				schedule.POST("", h.Schedule.Add)
				schedule.PUT("/sync", h.Schedule.Sync)
				schedule.GET("/:termCode/sections", h.Schedule.Sections)
				schedule.GET("/:termCode/grid", h.Schedule.Grid)
				schedule.GET("/:termCode/export", h.Schedule.Export)
				schedule.DELETE("/:termCode/:crn", h.Schedule.Remove)
			}

			announcements := authorized.Group("/announcements")
			{
				announcements.GET("", h.Announcement.ListVisible)
				announcements.GET("/stream", h.Announcement.Stream)
				announcements.POST("/:id/dismiss", h.Announcement.Dismiss)
			}

			profile := authorized.Group("/users")
			{
				profile.GET("/me", h.User.Me)
				profile.PATCH("/me", h.User.UpdateMe)
			}

			admin := authorized.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/stats", h.Admin.Stats)
				admin.GET("/users", h.Admin.SearchUsers)
				admin.GET("/watch-report", h.Admin.WatchReport)
				admin.GET("/watch-report/export", h.Admin.WatchReportXLSX)
				admin.POST("/emails", h.Admin.SendEmail)

				admin.GET("/announcements", h.Announcement.ListAll)
				admin.POST("/announcements", h.Announcement.Create)
				admin.PATCH("/announcements/:id", h.Announcement.Update)
				admin.DELETE("/announcements/:id", h.Announcement.Delete)
			}
		}
	}

	return r
}
