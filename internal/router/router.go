// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/iliyamo/filmorate/internal/handler"
)

// RegisterRoutes registers the operational routes: the health check used by
// load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterFilms registers the film catalogue, likes and the popularity
// ranking. /films/popular is a static segment so echo matches it ahead of
// /films/:id. relations wraps the like mutations only.
func RegisterFilms(e *echo.Echo, h *handler.FilmHandler, relations ...echo.MiddlewareFunc) {
    g := e.Group("/films")
    g.GET("", h.List)
    g.POST("", h.Create)
    g.PUT("", h.Update)
    g.GET("/popular", h.Popular)
    g.GET("/:id", h.Get)
    g.PUT("/:id/like/:userId", h.AddLike, relations...)
    g.DELETE("/:id/like/:userId", h.RemoveLike, relations...)
}

// RegisterUsers registers user management and the friendship endpoints.
// relations wraps the friendship mutations only.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, relations ...echo.MiddlewareFunc) {
    g := e.Group("/users")
    g.GET("", h.List)
    g.POST("", h.Create)
    g.PUT("", h.Update)
    g.GET("/:id", h.Get)
    g.GET("/:id/friends", h.Friends)
    g.PUT("/:id/friends/:friendId", h.AddFriend, relations...)
    g.DELETE("/:id/friends/:friendId", h.RemoveFriend, relations...)
    g.GET("/:id/friends/common/:otherId", h.CommonFriends)
}
