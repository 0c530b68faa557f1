package models

import "time"

// CourtOffice is a courthouse room providing one or more public services.
type CourtOffice struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RoomNumber string    `json:"room_number"`
	Building   string    `json:"building"`
	Floor      string    `json:"floor"`
	Services   string    `json:"services"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
