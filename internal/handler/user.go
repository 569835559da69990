package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/filmorate/internal/service"
)

// UserHandler serves the /users routes including friendships.
type UserHandler struct {
    Users *service.UserService
}

// NewUserHandler constructs a UserHandler and panics if the service is nil.
func NewUserHandler(users *service.UserService) *UserHandler {
    if users == nil {
        panic("nil service passed to NewUserHandler")
    }
    return &UserHandler{Users: users}
}

// List returns every user.
func (h *UserHandler) List(c echo.Context) error {
    users, err := h.Users.List(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, userPayloads(users))
}

// Create registers a new user. A blank name is replaced by the login.
func (h *UserHandler) Create(c echo.Context) error {
    var req UserPayload
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    u, err := req.toModel()
    if err != nil {
        return badRequest(c, err.Error())
    }
    u.ID = 0
    if err := h.Users.Create(c.Request().Context(), &u); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, userPayload(u))
}

// Update replaces the user identified by the id in the body.
func (h *UserHandler) Update(c echo.Context) error {
    var req UserPayload
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    u, err := req.toModel()
    if err != nil {
        return badRequest(c, err.Error())
    }
    if err := h.Users.Update(c.Request().Context(), &u); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, userPayload(u))
}

// Get returns a single user.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    u, err := h.Users.Get(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, userPayload(*u))
}

// Friends lists the friends of a user ordered by id.
func (h *UserHandler) Friends(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    friends, err := h.Users.Friends(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, userPayloads(friends))
}

// AddFriend makes two users friends. Repeating the call is harmless.
func (h *UserHandler) AddFriend(c echo.Context) error {
    id, friendID, err := pairIDs(c, "friendId")
    if err != nil {
        return badRequest(c, err.Error())
    }
    if err := h.Users.AddFriend(c.Request().Context(), id, friendID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusOK)
}

// RemoveFriend ends a friendship if it exists.
func (h *UserHandler) RemoveFriend(c echo.Context) error {
    id, friendID, err := pairIDs(c, "friendId")
    if err != nil {
        return badRequest(c, err.Error())
    }
    if err := h.Users.RemoveFriend(c.Request().Context(), id, friendID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusOK)
}

// CommonFriends lists the users who are friends with both path users.
func (h *UserHandler) CommonFriends(c echo.Context) error {
    id, otherID, err := pairIDs(c, "otherId")
    if err != nil {
        return badRequest(c, err.Error())
    }
    common, err := h.Users.CommonFriends(c.Request().Context(), id, otherID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, userPayloads(common))
}

func pairIDs(c echo.Context, other string) (int64, int64, error) {
    id, err := pathID(c, "id")
    if err != nil {
        return 0, 0, err
    }
    otherID, err := pathID(c, other)
    if err != nil {
        return 0, 0, err
    }
    return id, otherID, nil
}
