package models

import "time"

// Booking states. Transitions are driven by the booking system, not the console.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in-progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking is a ride request.
type Booking struct {
	Doc `bson:",inline"`

	CustomerID      string     `bson:"customerId" json:"customerId" firestore:"customerId"`
	DriverID        string     `bson:"driverId,omitempty" json:"driverId,omitempty" firestore:"driverId,omitempty"`
	PickupLocation  string     `bson:"pickupLocation" json:"pickupLocation" firestore:"pickupLocation"`
	DropoffLocation string     `bson:"dropoffLocation" json:"dropoffLocation" firestore:"dropoffLocation"`
	Status          string     `bson:"status" json:"status" firestore:"status"`
	Fare            float64    `bson:"fare" json:"fare" firestore:"fare"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
}
