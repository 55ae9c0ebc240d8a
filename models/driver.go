package models

import "time"

// DriverProfile is the driver-specific record, keyed by the same id as the User.
type DriverProfile struct {
	Doc `bson:",inline"`

	DriverName      string           `bson:"driverName" json:"driverName" firestore:"driverName"`
	Email           string           `bson:"email,omitempty" json:"email,omitempty" firestore:"email,omitempty"`
	Phone           string           `bson:"phone,omitempty" json:"phone,omitempty" firestore:"phone,omitempty"`
	ProfileImageURL string           `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty" firestore:"profileImageUrl,omitempty"`
	IsAvailable     *bool            `bson:"isAvailable,omitempty" json:"isAvailable,omitempty" firestore:"isAvailable,omitempty"` // missing means available
	IsVerified      bool             `bson:"isVerified" json:"isVerified" firestore:"isVerified"`
	Documents       *DriverDocuments `bson:"documents,omitempty" json:"documents,omitempty" firestore:"documents,omitempty"`
	VehicleInfo     *VehicleInfo     `bson:"vehicleInfo,omitempty" json:"vehicleInfo,omitempty" firestore:"vehicleInfo,omitempty"`
	Rating          float64          `bson:"rating,omitempty" json:"rating,omitempty" firestore:"rating,omitempty"`
	TotalTrips      int              `bson:"totalTrips,omitempty" json:"totalTrips,omitempty" firestore:"totalTrips,omitempty"`

	HasActiveSubscription  bool       `bson:"hasActiveSubscription" json:"hasActiveSubscription" firestore:"hasActiveSubscription"`
	CurrentSubscriptionID  string     `bson:"currentSubscriptionId,omitempty" json:"currentSubscriptionId,omitempty" firestore:"currentSubscriptionId,omitempty"`
	SubscriptionExpiryDate *time.Time `bson:"subscriptionExpiryDate,omitempty" json:"subscriptionExpiryDate,omitempty" firestore:"subscriptionExpiryDate,omitempty"`
	IsTrialActive          bool       `bson:"isTrialActive,omitempty" json:"isTrialActive,omitempty" firestore:"isTrialActive,omitempty"`

	CreatedAt *time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// Available reports the profile's availability.
func (p *DriverProfile) Available() bool { return BoolValue(p.IsAvailable) }

type VehicleInfo struct {
	Make        string `bson:"make" json:"make" firestore:"make"`
	Model       string `bson:"model" json:"model" firestore:"model"`
	Year        int    `bson:"year" json:"year" firestore:"year"`
	PlateNumber string `bson:"plateNumber" json:"plateNumber" firestore:"plateNumber"`
	Color       string `bson:"color" json:"color" firestore:"color"`
}

// Driver is the merged view of a driver's User and optional DriverProfile served to the console.
type Driver struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	IsActive        bool   `json:"isActive"`
	IsAvailable     bool   `json:"isAvailable"`
	IsVerified      bool   `json:"isVerified"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	HasProfile      bool   `json:"hasProfile"`

	Documents    *DriverDocuments  `json:"documents,omitempty"`
	VehicleInfo  *VehicleInfo      `json:"vehicleInfo,omitempty"`
	Rating       float64           `json:"rating,omitempty"`
	TotalTrips   int               `json:"totalTrips,omitempty"`
	Subscription *UserSubscription `json:"subscription,omitempty"`

	HasActiveSubscription  bool       `json:"hasActiveSubscription"`
	CurrentSubscriptionID  string     `json:"currentSubscriptionId,omitempty"`
	SubscriptionExpiryDate *time.Time `json:"subscriptionExpiryDate,omitempty"`
	IsTrialActive          bool       `json:"isTrialActive,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// MergeDriver combines the two records. The user record wins for identity and activation;
// the profile fills in what the user lacks.
func MergeDriver(u User, p *DriverProfile) Driver {
	d := Driver{
		ID:                     u.ID,
		Email:                  u.Email,
		Name:                   u.Name,
		Phone:                  u.Phone,
		Role:                   u.Role,
		ProfileImageURL:        u.ProfileImageURL,
		IsActive:               u.Active(),
		IsAvailable:            u.Active(),
		IsVerified:             u.IsVerified || (u.Documents != nil && u.Documents.IsVerified),
		RejectionReason:        u.RejectionReason,
		Documents:              u.Documents,
		Subscription:           u.Subscription,
		HasActiveSubscription:  u.HasActiveSubscription,
		CurrentSubscriptionID:  u.CurrentSubscriptionID,
		SubscriptionExpiryDate: u.SubscriptionExpiryDate,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
	if p == nil {
		return d
	}

	d.HasProfile = true
	d.IsAvailable = p.Available()
	if d.Name == "" {
		d.Name = p.DriverName
	}
	if d.Phone == "" {
		d.Phone = p.Phone
	}
	if d.ProfileImageURL == "" {
		d.ProfileImageURL = p.ProfileImageURL
	}
	if p.Documents != nil {
		d.Documents = p.Documents
		d.IsVerified = d.IsVerified || p.Documents.IsVerified
	}
	d.IsVerified = d.IsVerified || p.IsVerified
	d.VehicleInfo = p.VehicleInfo
	d.Rating = p.Rating
	d.TotalTrips = p.TotalTrips
	d.IsTrialActive = p.IsTrialActive
	if p.CurrentSubscriptionID != "" {
		d.HasActiveSubscription = p.HasActiveSubscription
		d.CurrentSubscriptionID = p.CurrentSubscriptionID
		d.SubscriptionExpiryDate = p.SubscriptionExpiryDate
	}
	if p.UpdatedAt != nil && (d.UpdatedAt == nil || p.UpdatedAt.After(*d.UpdatedAt)) {
		d.UpdatedAt = p.UpdatedAt
	}
	return d
}

// Enabled reports whether the driver counts as active in listings: both the account and
// the profile must be switched on.
func (d Driver) Enabled() bool { return d.IsActive && d.IsAvailable }
