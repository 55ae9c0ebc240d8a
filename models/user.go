package models

import "time"

// Account roles.
const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

// User is the primary record for every account, drivers included.
type User struct {
	Doc `bson:",inline"`

	Email string `bson:"email" json:"email" firestore:"email"`
	Name  string `bson:"name" json:"name" firestore:"name"`
	Phone string `bson:"phone" json:"phone" firestore:"phone"`
	Role  string `bson:"role" json:"role" firestore:"role"`
	// IsActive is nil on accounts created before the flag existed; see Active.
	IsActive        *bool  `bson:"isActive,omitempty" json:"isActive,omitempty" firestore:"isActive,omitempty"`
	IsVerified      bool   `bson:"isVerified" json:"isVerified" firestore:"isVerified"`
	RejectionReason string `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty" firestore:"rejectionReason,omitempty"`
	ProfileImageURL string `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty" firestore:"profileImageUrl,omitempty"`
	FCMToken        string `bson:"fcmToken,omitempty" json:"fcmToken,omitempty" firestore:"fcmToken,omitempty"`

	Documents    *DriverDocuments  `bson:"documents,omitempty" json:"documents,omitempty" firestore:"documents,omitempty"`
	Subscription *UserSubscription `bson:"subscription,omitempty" json:"subscription,omitempty" firestore:"subscription,omitempty"`

	// Mirrors of the driver's current subscription.
	HasActiveSubscription  bool       `bson:"hasActiveSubscription,omitempty" json:"hasActiveSubscription,omitempty" firestore:"hasActiveSubscription,omitempty"`
	CurrentSubscriptionID  string     `bson:"currentSubscriptionId,omitempty" json:"currentSubscriptionId,omitempty" firestore:"currentSubscriptionId,omitempty"`
	SubscriptionExpiryDate *time.Time `bson:"subscriptionExpiryDate,omitempty" json:"subscriptionExpiryDate,omitempty" firestore:"subscriptionExpiryDate,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// Active reports the account's activation state.
func (u *User) Active() bool { return BoolValue(u.IsActive) }

// UserSubscription is the subscription window stored on the user, set by bank-transfer approval.
type UserSubscription struct {
	IsActive      bool      `bson:"isActive" json:"isActive" firestore:"isActive"`
	Type          string    `bson:"type" json:"type" firestore:"type"`
	StartDate     time.Time `bson:"startDate" json:"startDate" firestore:"startDate"`
	EndDate       time.Time `bson:"endDate" json:"endDate" firestore:"endDate"`
	PaymentMethod string    `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty" firestore:"paymentMethod,omitempty"`
}

// DriverDocuments holds the uploaded driver documents and their review state.
type DriverDocuments struct {
	LicenseURL             string `bson:"licenseUrl,omitempty" json:"licenseUrl,omitempty" firestore:"licenseUrl,omitempty"`
	InsuranceURL           string `bson:"insuranceUrl,omitempty" json:"insuranceUrl,omitempty" firestore:"insuranceUrl,omitempty"`
	VehicleRegistrationURL string `bson:"vehicleRegistrationUrl,omitempty" json:"vehicleRegistrationUrl,omitempty" firestore:"vehicleRegistrationUrl,omitempty"`
	IsVerified             bool   `bson:"isVerified" json:"isVerified" firestore:"isVerified"`
	RejectionReason        string `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty" firestore:"rejectionReason,omitempty"`
}
