package models

import "time"

// Bank transfer states. Approved and rejected are terminal.
const (
	TransferPending  = "pending"
	TransferApproved = "approved"
	TransferRejected = "rejected"
)

// BankTransfer is a user-submitted proof of a bank payment awaiting review.
type BankTransfer struct {
	Doc `bson:",inline"`

	UserID          string     `bson:"userId" json:"userId" firestore:"userId"`
	UserName        string     `bson:"userName" json:"userName" firestore:"userName"`
	UserEmail       string     `bson:"userEmail" json:"userEmail" firestore:"userEmail"`
	Amount          float64    `bson:"amount" json:"amount" firestore:"amount"`
	PackageType     string     `bson:"packageType" json:"packageType" firestore:"packageType"`
	TransferDate    string     `bson:"transferDate" json:"transferDate" firestore:"transferDate"` // as entered by the user
	ReferenceNumber string     `bson:"referenceNumber" json:"referenceNumber" firestore:"referenceNumber"`
	ProofImageURL   string     `bson:"proofImageUrl,omitempty" json:"proofImageUrl,omitempty" firestore:"proofImageUrl,omitempty"`
	Status          string     `bson:"status" json:"status" firestore:"status"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	ProcessedAt     *time.Time `bson:"processedAt,omitempty" json:"processedAt,omitempty" firestore:"processedAt,omitempty"`
	ProcessedBy     string     `bson:"processedBy,omitempty" json:"processedBy,omitempty" firestore:"processedBy,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty" firestore:"notes,omitempty"`
}

// Terminal reports whether the transfer has already been decided.
func (t *BankTransfer) Terminal() bool {
	return t.Status == TransferApproved || t.Status == TransferRejected
}
