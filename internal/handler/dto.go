package handler

import (
    "fmt"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/filmorate/internal/model"
)

// FilmPayload is the JSON shape of a film in requests and responses.
// ReleaseDate uses the YYYY-MM-DD layout.
type FilmPayload struct {
    ID          int64  `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description"`
    ReleaseDate string `json:"releaseDate"`
    Duration    int    `json:"duration"`
}

// UserPayload is the JSON shape of a user.  Birthday is optional and uses the
// YYYY-MM-DD layout.
type UserPayload struct {
    ID       int64  `json:"id"`
    Email    string `json:"email"`
    Login    string `json:"login"`
    Name     string `json:"name"`
    Birthday string `json:"birthday,omitempty"`
}

func (p FilmPayload) toModel() (model.Film, error) {
    f := model.Film{
        ID:          p.ID,
        Name:        p.Name,
        Description: p.Description,
        Duration:    p.Duration,
    }
    if p.ReleaseDate != "" {
        d, err := time.Parse(model.DateLayout, p.ReleaseDate)
        if err != nil {
            return model.Film{}, fmt.Errorf("releaseDate must use the %s format", model.DateLayout)
        }
        f.ReleaseDate = d
    }
    return f, nil
}

func (p UserPayload) toModel() (model.User, error) {
    u := model.User{
        ID:    p.ID,
        Email: p.Email,
        Login: p.Login,
        Name:  p.Name,
    }
    if p.Birthday != "" {
        d, err := time.Parse(model.DateLayout, p.Birthday)
        if err != nil {
            return model.User{}, fmt.Errorf("birthday must use the %s format", model.DateLayout)
        }
        u.Birthday = d
    }
    return u, nil
}

func filmPayload(f model.Film) FilmPayload {
    out := FilmPayload{
        ID:          f.ID,
        Name:        f.Name,
        Description: f.Description,
        Duration:    f.Duration,
    }
    if !f.ReleaseDate.IsZero() {
        out.ReleaseDate = f.ReleaseDate.Format(model.DateLayout)
    }
    return out
}

func filmPayloads(films []model.Film) []FilmPayload {
    out := make([]FilmPayload, 0, len(films))
    for _, f := range films {
        out = append(out, filmPayload(f))
    }
    return out
}

func userPayload(u model.User) UserPayload {
    out := UserPayload{ID: u.ID, Email: u.Email, Login: u.Login, Name: u.Name}
    if !u.Birthday.IsZero() {
        out.Birthday = u.Birthday.Format(model.DateLayout)
    }
    return out
}

func userPayloads(users []model.User) []UserPayload {
    out := make([]UserPayload, 0, len(users))
    for _, u := range users {
        out = append(out, userPayload(u))
    }
    return out
}

// pathID parses a numeric path parameter.  Range checks (id > 0) belong to
// the services so that 0 and negative ids produce the domain message.
func pathID(c echo.Context, name string) (int64, error) {
    id, err := strconv.ParseInt(c.Param(name), 10, 64)
    if err != nil {
        return 0, fmt.Errorf("invalid %s", name)
    }
    return id, nil
}
