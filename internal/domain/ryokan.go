package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Ryokan is one record of the microCMS "ryokan" endpoint.
// Pointer fields are optional in the content model; nil means the editor left
// them empty (or the field projection excluded them). Amenity flags have no
// absent state: a missing flag decodes as false.
type Ryokan struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"` // drafts have none
	RevisedAt   *time.Time `json:"revisedAt,omitempty"`

	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	OnsenArea   OnsenArea `json:"onsenArea"`
	Description string    `json:"description"`

	HeroImage *Image  `json:"heroImage,omitempty"`
	Cover     *Image  `json:"cover,omitempty"`
	Gallery   []Image `json:"gallery,omitempty"`

	Phone    *string `json:"phone,omitempty"`
	Web      *string `json:"web,omitempty"`
	Address  *string `json:"address,omitempty"`
	Price    *string `json:"price,omitempty"`
	RoomType *string `json:"roomType,omitempty"`

	PrivateBath         bool `json:"privateBath"`
	OpenAirBath         bool `json:"openAirBath"`
	OnsenRoom           bool `json:"onsenRoom"`
	DayUse              bool `json:"dayUse"`
	MorningOnlyPlan     bool `json:"morningOnlyPlan"`
	SleepOnlyPlan       bool `json:"sleepOnlyPlan"`
	Bed                 bool `json:"bed"`
	TattooFriendly      bool `json:"tattooFriendly"`
	DogFriendly         bool `json:"dogFriendly"`
	Elevator            bool `json:"elevator"`
	BarrierFreeWashroom bool `json:"barrierFreeWashroom"`
	BarrierFree         bool `json:"barrierFree"`
	Karaoke             bool `json:"karaoke"`
	PingPong            bool `json:"pingPong"`

	NumberOfRooms *int `json:"numberOfRooms,omitempty"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OnsenArea struct {
	Name string `json:"name"`
}

// Image is a microCMS media reference.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Page is the list envelope returned by microCMS list endpoints.
type Page[T any] struct {
	Contents   []T `json:"contents"`
	TotalCount int `json:"totalCount"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}
