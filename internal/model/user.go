package model

import "time"

// User represents an application user. Name is the display name and falls
// back to Login when the caller does not provide one. A zero Birthday means
// the birthday is unknown.
//
// Fields:
//  ID       – identifier assigned on creation.
//  Email    – syntactically valid e-mail address.
//  Login    – non-empty handle without whitespace.
//  Name     – display name.
//  Birthday – date of birth, never in the future.
type User struct {
    ID       int64
    Email    string    `validate:"required,email"`
    Login    string    `validate:"required,nowhitespace"`
    Name     string
    Birthday time.Time `validate:"notfuture"`
}
