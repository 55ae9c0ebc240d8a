package models

import "time"

// Plan types.
const (
	PlanWeekly   = "weekly"
	PlanBiweekly = "biweekly"
	PlanMonthly  = "monthly"
)

// Subscription states.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// SubscriptionPlan is a catalog entry drivers can buy or be granted.
type SubscriptionPlan struct {
	Doc `bson:",inline"`

	Name         string     `bson:"name" json:"name" firestore:"name"`
	Type         string     `bson:"type" json:"type" firestore:"type"`
	DurationDays int        `bson:"durationDays" json:"durationDays" firestore:"durationDays"`
	Price        float64    `bson:"price" json:"price" firestore:"price"`
	Description  string     `bson:"description" json:"description" firestore:"description"`
	IsActive     bool       `bson:"isActive" json:"isActive" firestore:"isActive"`
	CreatedAt    *time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	UpdatedAt    *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// Subscription is a purchased or granted instance of a plan, owned by one driver.
type Subscription struct {
	Doc `bson:",inline"`

	DriverID       string    `bson:"driverId" json:"driverId" firestore:"driverId"`
	PassType       string    `bson:"passType" json:"passType" firestore:"passType"`
	StartDate      time.Time `bson:"startDate" json:"startDate" firestore:"startDate"`
	ExpiryDate     time.Time `bson:"expiryDate" json:"expiryDate" firestore:"expiryDate"`
	Amount         float64   `bson:"amount" json:"amount" firestore:"amount"`
	PaymentMethod  string    `bson:"paymentMethod" json:"paymentMethod" firestore:"paymentMethod"`
	TransactionID  string    `bson:"transactionId" json:"transactionId" firestore:"transactionId"`
	Status         string    `bson:"status" json:"status" firestore:"status"`
	GrantedByAdmin bool      `bson:"grantedByAdmin,omitempty" json:"grantedByAdmin,omitempty" firestore:"grantedByAdmin,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}
