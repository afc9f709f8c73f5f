package models

import "time"

// Preparation time bounds, in minutes.
const (
	MinPreparationMinutes = 5
	MaxPreparationMinutes = 90

	DefaultPickupTime   = 25
	DefaultDeliveryTime = 25
)

// Settings is the singleton restaurant configuration record.
type Settings struct {
	PickupTime   int        `json:"pickupTime" bson:"pickupTime"`
	DeliveryTime int        `json:"deliveryTime" bson:"deliveryTime"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// DefaultSettings is served until staff save their own values.
func DefaultSettings() Settings {
	return Settings{PickupTime: DefaultPickupTime, DeliveryTime: DefaultDeliveryTime}
}
