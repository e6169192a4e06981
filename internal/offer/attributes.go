package offer

import (
	"strconv"
	"strings"
	"time"

	"clinic-offers/internal/model"
)

// patientAttributes maps customer_attribute names to typed accessors.
// Dynamic field lookup is deliberately not done with reflection; only the
// names listed here are comparable, and unknown names evaluate vacuously
// true like unknown condition types.
var patientAttributes = map[string]func(*model.Patient) string{
	"id":        func(p *model.Patient) string { return p.ID },
	"firstName": func(p *model.Patient) string { return p.FirstName },
	"lastName":  func(p *model.Patient) string { return p.LastName },
	"phone":     func(p *model.Patient) string { return p.Phone },
	"email":     func(p *model.Patient) string { return p.Email },
	"gender":    func(p *model.Patient) string { return p.Gender },
	"notes":     func(p *model.Patient) string { return p.Notes },
	"skinType": func(p *model.Patient) string {
		if p.SkinType == 0 {
			return ""
		}
		return strconv.Itoa(p.SkinType)
	},
	"dateOfBirth": func(p *model.Patient) string {
		if p.DateOfBirth == nil {
			return ""
		}
		return p.DateOfBirth.Format(time.RFC3339)
	},
}

// evaluateAttribute compares a named patient attribute against the
// condition's target value using its operator (default equals).
func evaluateAttribute(cond *model.OfferCondition, patient *model.Patient) bool {
	attr := cond.Parameters.AttributeName
	if attr == "" {
		return true
	}

	accessor, ok := patientAttributes[attr]
	if !ok {
		return true
	}
	if patient == nil {
		return false
	}

	value := accessor(patient)
	target := cond.Parameters.AttributeValue

	switch cond.Operator {
	case model.OperatorEquals:
		return looseEquals(value, target)
	case model.OperatorNotEquals:
		return !looseEquals(value, target)
	case model.OperatorGreaterThan:
		return compareOrdered(value, target) > 0
	case model.OperatorLessThan:
		return compareOrdered(value, target) < 0
	case model.OperatorContains:
		return strings.Contains(value, target)
	case model.OperatorNotContains:
		return !strings.Contains(value, target)
	default:
		return looseEquals(value, target)
	}
}

// looseEquals treats "3" and "3.0" as equal when both sides are numeric,
// otherwise compares case-insensitively.
func looseEquals(value, target string) bool {
	if v, t, ok := bothNumeric(value, target); ok {
		return v == t
	}
	return strings.EqualFold(value, target)
}

// compareOrdered returns -1, 0 or 1. Numeric ordering when both sides
// parse as numbers, lexicographic otherwise (RFC 3339 dates order
// correctly under string comparison).
func compareOrdered(value, target string) int {
	if v, t, ok := bothNumeric(value, target); ok {
		switch {
		case v < t:
			return -1
		case v > t:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(value, target)
}

func bothNumeric(a, b string) (float64, float64, bool) {
	av, errA := strconv.ParseFloat(a, 64)
	bv, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return av, bv, true
}
