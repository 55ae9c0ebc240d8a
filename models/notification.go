package models

import "time"

// Notification types understood by the mobile apps.
const (
	NotificationGeneral   = "general"
	NotificationBooking   = "booking"
	NotificationPayment   = "payment"
	NotificationPromotion = "promotion"
)

// Notification is an in-app message; the apps also receive it as a push when possible.
type Notification struct {
	Doc `bson:",inline"`

	UserID    string            `bson:"userId" json:"userId" firestore:"userId"`
	Title     string            `bson:"title" json:"title" firestore:"title"`
	Body      string            `bson:"body" json:"body" firestore:"body"`
	Type      string            `bson:"type" json:"type" firestore:"type"`
	IsRead    bool              `bson:"isRead" json:"isRead" firestore:"isRead"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty" firestore:"data,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}
