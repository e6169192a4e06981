package model

import (
	"time"

	"github.com/google/uuid"
)

// CreditUnitType is the unit a service credit is counted in.
type CreditUnitType string

const (
	UnitSession CreditUnitType = "session"
	UnitPulse   CreditUnitType = "pulse"
	UnitGeneric CreditUnitType = "unit"
)

// PackagePurchaseStatus tracks the lifecycle of a package purchase.
type PackagePurchaseStatus string

const (
	PurchasePending   PackagePurchaseStatus = "pending"
	PurchasePaid      PackagePurchaseStatus = "paid"
	PurchaseCancelled PackagePurchaseStatus = "cancelled"
)

// PatientWallet holds a patient's cash balance and outstanding service
// credits.
type PatientWallet struct {
	PatientID   string          `json:"patientId" db:"patient_id"`
	CashBalance float64         `json:"cashBalance" db:"cash_balance"`
	Credits     []ServiceCredit `json:"credits"`
}

// ServiceCredit is a prepaid entitlement to future sessions of a service,
// typically granted by a grant_package offer.
type ServiceCredit struct {
	ID          uuid.UUID      `json:"-" db:"id"`
	PatientID   string         `json:"-" db:"patient_id"`
	ServiceID   string         `json:"serviceId" db:"service_id"`
	ServiceName string         `json:"serviceName" db:"service_name"`
	Remaining   int            `json:"remaining" db:"remaining"`
	Total       int            `json:"total" db:"total"`
	UnitType    CreditUnitType `json:"unitType" db:"unit_type"`
	PackageID   string         `json:"packageId,omitempty" db:"package_id"`
	ExpiresAt   *time.Time     `json:"expiresAt,omitempty" db:"expires_at"`
}

// PackageCreditItem describes one credit grant inside a package offer.
type PackageCreditItem struct {
	ServiceID   string         `json:"serviceId"`
	ServiceName string         `json:"serviceName"`
	Quantity    int            `json:"quantity"`
	UnitType    CreditUnitType `json:"unitType"`
}

// PackagePurchase is a pending bill created when a patient accepts a
// grant_package offer. Credits are granted to the wallet when it is paid.
type PackagePurchase struct {
	ID        uuid.UUID             `json:"id" db:"id"`
	PatientID string                `json:"patientId" db:"patient_id"`
	OfferID   string                `json:"offerId" db:"offer_id"`
	OfferName string                `json:"offerName" db:"offer_name"`
	Price     float64               `json:"price" db:"price"`
	Status    PackagePurchaseStatus `json:"status" db:"status"`
	Credits   []PackageCreditItem   `json:"credits"`
	CreatedAt time.Time             `json:"createdAt" db:"created_at"`
	PaidAt    *time.Time            `json:"paidAt,omitempty" db:"paid_at"`
}
