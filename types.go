package kilobite

import "time"

// Subscriber is one newsletter sign-up stored by the subscribe endpoint.
type Subscriber struct {
	Email     string
	CreatedAt time.Time
}
