package model

import "time"

// Film represents a film record kept by the film store. The ID is assigned
// by the store on creation and never changes afterwards.
//
// Fields:
//  ID          – identifier assigned on creation.
//  Name        – non-empty title.
//  Description – free text, at most 200 characters.
//  ReleaseDate – calendar date of release (no earlier than MinReleaseDate).
//  Duration    – running time in minutes, positive.
type Film struct {
    ID          int64
    Name        string    `validate:"required,notblank"`
    Description string    `validate:"max=200"`
    ReleaseDate time.Time `validate:"required"`
    Duration    int       `validate:"gt=0"`
}

// MinReleaseDate is the earliest release date accepted for a film: the first
// public film screening.
var MinReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// DateLayout is the wire format used for release dates and birthdays.
const DateLayout = "2006-01-02"
