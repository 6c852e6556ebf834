package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/film-catalogue/internal/config"
	"github.com/iliyamo/film-catalogue/internal/handler"
	"github.com/iliyamo/film-catalogue/internal/middleware"
)

// Deps collects everything the route table needs.  The redis client may be
// nil, in which case caching and rate limiting become pass-throughs.
type Deps struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Films   *handler.FilmHandler
	Reviews *handler.ReviewHandler

	SessionSecret string
	Sessions      middleware.SessionResolver
	Log           zerolog.Logger

	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// Register wires every route onto the Echo instance.
//
// All /v1 routes run the lenient session middleware: a valid X-Authorization
// token attaches the caller to the request context, anything else leaves the
// request anonymous.  Mutating routes additionally require a session, except
// the image uploads, which check the content type before authentication.
func Register(e *echo.Echo, d Deps) {
	// Health check endpoint for load balancers or monitoring systems.
	e.GET("/healthz", handler.Health)

	// Session first: the rate limiter keys buckets on the resolved user.
	v1 := e.Group("/v1")
	v1.Use(middleware.Session(d.SessionSecret, d.Sessions, d.Log))
	v1.Use(middleware.RateLimit(d.RateLimit, d.Redis))

	requireSession := middleware.RequireSession
	cached := middleware.ResponseCache(d.Cache, d.Redis)

	// Authentication.
	v1.POST("/users/register", d.Auth.Register)
	v1.POST("/users/login", d.Auth.Login)
	v1.POST("/users/logout", d.Auth.Logout, requireSession)

	// User profiles.
	v1.GET("/users/:id", d.Users.View)
	v1.PATCH("/users/:id", d.Users.Update, requireSession)
	v1.GET("/users/:id/image", d.Users.GetImage)
	v1.PUT("/users/:id/image", d.Users.SetImage)
	v1.DELETE("/users/:id/image", d.Users.DeleteImage, requireSession)

	// Film browse endpoints are safe to cache briefly.
	v1.GET("/films", d.Films.List, cached)
	v1.GET("/films/genres", d.Films.ListGenres, cached)
	v1.GET("/films/:id", d.Films.Detail)

	// Film mutations.
	v1.POST("/films", d.Films.Create, requireSession)
	v1.PATCH("/films/:id", d.Films.Edit, requireSession)
	v1.DELETE("/films/:id", d.Films.Delete, requireSession)
	v1.GET("/films/:id/image", d.Films.GetImage)
	v1.PUT("/films/:id/image", d.Films.SetImage)

	// Reviews.
	v1.GET("/films/:id/reviews", d.Reviews.List)
	v1.POST("/films/:id/reviews", d.Reviews.Create, requireSession)
}
