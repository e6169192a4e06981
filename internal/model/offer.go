package model

import (
	"time"

	"github.com/google/uuid"
)

// OfferType is a descriptive tag for UI grouping. Evaluation is driven by
// the offer's conditions and benefits, not by this field.
type OfferType string

const (
	OfferTypePercentage  OfferType = "percentage"
	OfferTypeBundle      OfferType = "bundle"
	OfferTypeBuyXGetY    OfferType = "buyXgetY"
	OfferTypePackage     OfferType = "package"
	OfferTypeFixedAmount OfferType = "fixed_amount"
	OfferTypeConditional OfferType = "conditional"
)

// ConditionType identifies the predicate a condition node evaluates.
type ConditionType string

const (
	ConditionGroup             ConditionType = "group"
	ConditionServiceIncludes   ConditionType = "service_includes"
	ConditionMinSpend          ConditionType = "min_spend"
	ConditionNewPatient        ConditionType = "new_patient"
	ConditionPatientTag        ConditionType = "patient_tag"
	ConditionDateRange         ConditionType = "date_range"
	ConditionSpecificPatient   ConditionType = "specific_patient"
	ConditionTimeRange         ConditionType = "time_range"
	ConditionDayOfWeek         ConditionType = "day_of_week"
	ConditionCustomerAttribute ConditionType = "customer_attribute"
	ConditionVisitCount        ConditionType = "visit_count"
	ConditionCartProperty      ConditionType = "cart_property"
)

// ConditionOperator is the comparison operator for attribute, tag and
// cart-property conditions.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorNotIn       ConditionOperator = "not_in"
)

// GroupLogic combines the children of a group condition.
type GroupLogic string

const (
	LogicAnd GroupLogic = "AND"
	LogicOr  GroupLogic = "OR"
)

// ServiceMatchType controls how a service_includes condition matches the
// cart against its resolved target set.
type ServiceMatchType string

const (
	MatchAll   ServiceMatchType = "all"
	MatchAny   ServiceMatchType = "any"
	MatchNone  ServiceMatchType = "none"
	MatchExact ServiceMatchType = "exact"
)

// BenefitType identifies the effect applied when an offer matches.
type BenefitType string

const (
	BenefitPercentOff     BenefitType = "percent_off"
	BenefitFixedPrice     BenefitType = "fixed_price"
	BenefitFixedAmountOff BenefitType = "fixed_amount_off"
	BenefitGrantPackage   BenefitType = "grant_package"
	BenefitFreeSession    BenefitType = "free_session"
)

// Offer is a promotional rule definition: eligibility conditions paired
// with a benefit. Conditions and benefits are persisted as JSONB.
type Offer struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Type        OfferType  `json:"type" db:"type"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	ValidFrom   *time.Time `json:"validFrom,omitempty" db:"valid_from"`
	ValidUntil  *time.Time `json:"validUntil,omitempty" db:"valid_until"`

	// Usage caps are not enforced during evaluation; the pricing flow
	// checks them against the redemption ledger.
	UsageLimitPerPatient int `json:"usageLimitPerPatient,omitempty" db:"usage_limit_per_patient"`
	TotalUsageLimit      int `json:"totalUsageLimit,omitempty" db:"total_usage_limit"`

	// Top-level conditions are combined with an implicit AND.
	Conditions []OfferCondition `json:"conditions,omitempty" db:"conditions"`

	// Only Benefits[0] is evaluated. Later entries are stored and
	// returned unchanged; stacking semantics for them are undefined.
	Benefits []OfferBenefit `json:"benefits" db:"benefits"`

	Priority    int       `json:"priority,omitempty" db:"priority"`
	IsExclusive bool      `json:"isExclusive,omitempty" db:"is_exclusive"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// OfferCondition is a node in the recursive condition tree. Only group
// nodes carry Logic and Children; every other type is a leaf evaluated
// against the cart, patient or clock.
type OfferCondition struct {
	ID         string              `json:"id,omitempty"`
	Type       ConditionType       `json:"type"`
	Parameters ConditionParameters `json:"parameters"`
	Operator   ConditionOperator   `json:"operator,omitempty"`
	Logic      GroupLogic          `json:"logic,omitempty"`
	Children   []OfferCondition    `json:"children,omitempty"`
}

// ConditionParameters is the type-dependent parameter bag of a condition.
// Absent fields mean "no constraint"; evaluators treat them as vacuously
// true.
type ConditionParameters struct {
	ServiceIDs  []string         `json:"serviceIds,omitempty"`
	CategoryIDs []string         `json:"categoryIds,omitempty"`
	MatchType   ServiceMatchType `json:"matchType,omitempty"`
	MinQuantity int              `json:"minQuantity,omitempty"`

	MinAmount float64 `json:"minAmount,omitempty"`

	Tags       []string `json:"tags,omitempty"`
	PatientIDs []string `json:"patientIds,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// HH:mm wall-clock bounds, inclusive.
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	// 0=Sunday .. 6=Saturday
	DaysOfWeek []int `json:"daysOfWeek,omitempty"`

	AttributeName  string  `json:"attributeName,omitempty"`
	AttributeValue string  `json:"attributeValue,omitempty"`
	Threshold      float64 `json:"threshold,omitempty"`
}

// OfferBenefit is the effect applied when the offer's conditions hold.
type OfferBenefit struct {
	ID         string            `json:"id,omitempty"`
	Type       BenefitType       `json:"type"`
	Parameters BenefitParameters `json:"parameters"`
}

// BenefitParameters is the type-dependent parameter bag of a benefit.
type BenefitParameters struct {
	Percent     float64 `json:"percent,omitempty"`
	FixedPrice  float64 `json:"fixedPrice,omitempty"`
	FixedAmount float64 `json:"fixedAmount,omitempty"`

	// Single-service package grant.
	PackageServiceID    string `json:"packageServiceId,omitempty"`
	PackageSessions     int    `json:"packageSessions,omitempty"`
	PackageValidityDays int    `json:"packageValidityDays,omitempty"`

	// Multi-service package grant.
	PackageCredits []PackageCreditItem `json:"packageCredits,omitempty"`

	// Buy X get Y free.
	BuyQuantity     int    `json:"buyQuantity,omitempty"`
	FreeQuantity    int    `json:"freeQuantity,omitempty"`
	TargetServiceID string `json:"targetServiceId,omitempty"`
}

// OfferRedemption records one application of an offer to a patient's
// invoice. The ledger backs usage-limit checks in the pricing flow.
type OfferRedemption struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OfferID        string    `json:"offerId" db:"offer_id"`
	PatientID      string    `json:"patientId" db:"patient_id"`
	DiscountAmount float64   `json:"discountAmount" db:"discount_amount"`
	RedeemedAt     time.Time `json:"redeemedAt" db:"redeemed_at"`
}
