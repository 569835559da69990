package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFilm() Film {
	return Film{
		Name:        "Nosferatu",
		Description: "A symphony of horror",
		ReleaseDate: time.Date(1922, time.March, 4, 0, 0, 0, 0, time.UTC),
		Duration:    94,
	}
}

func validUser() User {
	return User{
		Email:    "amy@example.com",
		Login:    "amy",
		Birthday: time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFilmValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Film)
		wantErr string
	}{
		{name: "valid", mutate: func(f *Film) {}},
		{name: "empty name", mutate: func(f *Film) { f.Name = "" }, wantErr: "Name must not be empty"},
		{name: "blank name", mutate: func(f *Film) { f.Name = "   " }, wantErr: "Name must not be empty"},
		{name: "long description", mutate: func(f *Film) { f.Description = strings.Repeat("x", 201) }, wantErr: "Description must be at most 200 characters"},
		{name: "description at limit", mutate: func(f *Film) { f.Description = strings.Repeat("я", 200) }},
		{name: "zero duration", mutate: func(f *Film) { f.Duration = 0 }, wantErr: "Duration must be greater than 0"},
		{name: "missing release date", mutate: func(f *Film) { f.ReleaseDate = time.Time{} }, wantErr: "ReleaseDate must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFilm()
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr string
	}{
		{name: "valid", mutate: func(u *User) {}},
		{name: "unknown birthday", mutate: func(u *User) { u.Birthday = time.Time{} }},
		{name: "missing email", mutate: func(u *User) { u.Email = "" }, wantErr: "Email must not be empty"},
		{name: "bad email", mutate: func(u *User) { u.Email = "amy.example.com" }, wantErr: "Email must be a valid e-mail address"},
		{name: "missing login", mutate: func(u *User) { u.Login = "" }, wantErr: "Login must not be empty"},
		{name: "login with space", mutate: func(u *User) { u.Login = "amy lee" }, wantErr: "Login must not contain whitespace"},
		{name: "login with tab", mutate: func(u *User) { u.Login = "amy\tlee" }, wantErr: "Login must not contain whitespace"},
		{name: "future birthday", mutate: func(u *User) { u.Birthday = time.Now().AddDate(1, 0, 0) }, wantErr: "Birthday must not be in the future"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			err := u.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
