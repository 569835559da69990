// Package handler exposes the HTTP handlers for films, users and their
// relationships. Handlers translate between the JSON payloads and the model
// types and leave every domain rule to the services.
package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/filmorate/internal/service"
)

// FilmHandler serves the /films routes.
type FilmHandler struct {
    Films        *service.FilmService
    PopularCount int // default for /films/popular when count is omitted
}

// NewFilmHandler constructs a FilmHandler and panics if the service is nil.
func NewFilmHandler(films *service.FilmService, popularCount int) *FilmHandler {
    if films == nil {
        panic("nil service passed to NewFilmHandler")
    }
    if popularCount <= 0 {
        popularCount = 10
    }
    return &FilmHandler{Films: films, PopularCount: popularCount}
}

// List returns every film.
func (h *FilmHandler) List(c echo.Context) error {
    films, err := h.Films.List(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, filmPayloads(films))
}

// Create stores a new film and returns it with its assigned id.
func (h *FilmHandler) Create(c echo.Context) error {
    var req FilmPayload
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    f, err := req.toModel()
    if err != nil {
        return badRequest(c, err.Error())
    }
    f.ID = 0
    if err := h.Films.Create(c.Request().Context(), &f); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, filmPayload(f))
}

// Update replaces the film identified by the id in the body.
func (h *FilmHandler) Update(c echo.Context) error {
    var req FilmPayload
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    f, err := req.toModel()
    if err != nil {
        return badRequest(c, err.Error())
    }
    if err := h.Films.Update(c.Request().Context(), &f); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, filmPayload(f))
}

// Get returns a single film.
func (h *FilmHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    f, err := h.Films.Get(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, filmPayload(*f))
}

// AddLike records that userId likes the film.
func (h *FilmHandler) AddLike(c echo.Context) error {
    filmID, userID, err := likeIDs(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    if err := h.Films.AddLike(c.Request().Context(), filmID, userID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusOK)
}

// RemoveLike withdraws a like.
func (h *FilmHandler) RemoveLike(c echo.Context) error {
    filmID, userID, err := likeIDs(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    if err := h.Films.RemoveLike(c.Request().Context(), filmID, userID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Popular returns the most-liked films. The optional ?count= query parameter
// bounds the result; non-numeric values are rejected before reaching the
// service, which rejects non-positive ones.
func (h *FilmHandler) Popular(c echo.Context) error {
    count := h.PopularCount
    if raw := c.QueryParam("count"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil {
            return badRequest(c, "invalid count")
        }
        count = n
    }
    films, err := h.Films.Popular(c.Request().Context(), count)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, filmPayloads(films))
}

func likeIDs(c echo.Context) (int64, int64, error) {
    filmID, err := pathID(c, "id")
    if err != nil {
        return 0, 0, err
    }
    userID, err := pathID(c, "userId")
    if err != nil {
        return 0, 0, err
    }
    return filmID, userID, nil
}
