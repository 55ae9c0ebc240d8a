package models

import "time"

// PaymentSettings is the singleton app_settings/payment_methods document.
type PaymentSettings struct {
	GooglePay    WalletSettings       `bson:"googlePay" json:"googlePay" firestore:"googlePay"`
	ApplePay     WalletSettings       `bson:"applePay" json:"applePay" firestore:"applePay"`
	BankTransfer BankTransferSettings `bson:"bankTransfer" json:"bankTransfer" firestore:"bankTransfer"`
	UpdatedAt    *time.Time           `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

type WalletSettings struct {
	Enabled    bool   `bson:"enabled" json:"enabled" firestore:"enabled"`
	MerchantID string `bson:"merchantId,omitempty" json:"merchantId,omitempty" firestore:"merchantId,omitempty"`
}

type BankTransferSettings struct {
	Enabled      bool         `bson:"enabled" json:"enabled" firestore:"enabled"`
	BankDetails  *BankDetails `bson:"bankDetails,omitempty" json:"bankDetails,omitempty" firestore:"bankDetails,omitempty"`
	Instructions string       `bson:"instructions,omitempty" json:"instructions,omitempty" firestore:"instructions,omitempty"`
}

type BankDetails struct {
	BankName      string `bson:"bankName,omitempty" json:"bankName,omitempty" firestore:"bankName,omitempty"`
	AccountName   string `bson:"accountName,omitempty" json:"accountName,omitempty" firestore:"accountName,omitempty"`
	AccountNumber string `bson:"accountNumber,omitempty" json:"accountNumber,omitempty" firestore:"accountNumber,omitempty"`
	Branch        string `bson:"branch,omitempty" json:"branch,omitempty" firestore:"branch,omitempty"`
	SwiftCode     string `bson:"swiftCode,omitempty" json:"swiftCode,omitempty" firestore:"swiftCode,omitempty"`
}

// DefaultPaymentSettings is served until an admin saves the document for the first time.
func DefaultPaymentSettings() PaymentSettings {
	return PaymentSettings{
		GooglePay:    WalletSettings{Enabled: true},
		ApplePay:     WalletSettings{Enabled: true},
		BankTransfer: BankTransferSettings{Enabled: false},
	}
}
