package domain

import "time"

// A location a customer shared over a messaging channel, keyed by phone.
type SharedLocation struct {
	Coordinates
	Phone    string
	OrderID  string
	Address  string
	URL      string
	SharedAt time.Time
}
