package offer

import (
	"strconv"
	"strings"
	"time"

	"clinic-offers/internal/model"
)

const newPatientWindow = 30 * 24 * time.Hour

// evaluateCondition evaluates one node of the condition tree. Unknown
// condition types evaluate true: offers authored against a newer schema
// degrade to matching rather than erroring.
func evaluateCondition(cond *model.OfferCondition, req *Request) bool {
	switch cond.Type {
	case model.ConditionGroup:
		return evaluateGroup(cond, req)

	case model.ConditionServiceIncludes:
		return evaluateServiceIncludes(cond, req.Cart, req.Services)

	case model.ConditionMinSpend:
		return model.CartTotal(req.Cart) >= cond.Parameters.MinAmount

	case model.ConditionNewPatient:
		if req.Patient == nil {
			return false
		}
		return req.Now.Sub(req.Patient.CreatedAt) < newPatientWindow

	case model.ConditionPatientTag:
		return evaluatePatientTag(cond, req.Patient)

	case model.ConditionDateRange:
		if cond.Parameters.StartDate != nil && cond.Parameters.StartDate.After(req.Now) {
			return false
		}
		if cond.Parameters.EndDate != nil && cond.Parameters.EndDate.Before(req.Now) {
			return false
		}
		return true

	case model.ConditionSpecificPatient:
		if len(cond.Parameters.PatientIDs) == 0 {
			return true
		}
		if req.Patient == nil {
			return false
		}
		for _, id := range cond.Parameters.PatientIDs {
			if id == req.Patient.ID {
				return true
			}
		}
		return false

	case model.ConditionTimeRange:
		return evaluateTimeRange(cond, req.Now)

	case model.ConditionDayOfWeek:
		return evaluateDayOfWeek(cond, req.Now)

	case model.ConditionCustomerAttribute:
		return evaluateAttribute(cond, req.Patient)

	case model.ConditionVisitCount:
		// Visit history is not part of the evaluation scope, so this
		// condition cannot be checked here. It matches unconditionally;
		// see DESIGN.md.
		return true

	case model.ConditionCartProperty:
		return evaluateCartProperty(cond, req.Cart)

	default:
		return true
	}
}

// evaluateGroup applies the group's logic over its children. A group with
// no children is vacuously true.
func evaluateGroup(cond *model.OfferCondition, req *Request) bool {
	if len(cond.Children) == 0 {
		return true
	}
	if cond.Logic == model.LogicOr {
		for i := range cond.Children {
			if evaluateCondition(&cond.Children[i], req) {
				return true
			}
		}
		return false
	}
	// Default to AND
	for i := range cond.Children {
		if !evaluateCondition(&cond.Children[i], req) {
			return false
		}
	}
	return true
}

// evaluateServiceIncludes matches the cart's service IDs against a target
// set resolved from explicit service IDs plus every service in the listed
// categories.
func evaluateServiceIncludes(cond *model.OfferCondition, cart []model.CartItem, services []model.Service) bool {
	params := &cond.Parameters

	cartIDs := make(map[string]struct{}, len(cart))
	for _, item := range cart {
		cartIDs[item.ServiceID] = struct{}{}
	}

	targetIDs := make(map[string]struct{}, len(params.ServiceIDs))
	for _, id := range params.ServiceIDs {
		targetIDs[id] = struct{}{}
	}
	if len(params.CategoryIDs) > 0 {
		categories := make(map[string]struct{}, len(params.CategoryIDs))
		for _, id := range params.CategoryIDs {
			categories[id] = struct{}{}
		}
		for _, svc := range services {
			if _, ok := categories[svc.CategoryID]; ok {
				targetIDs[svc.ID] = struct{}{}
			}
		}
	}

	// No targets defined means the condition constrains nothing.
	if len(targetIDs) == 0 {
		return true
	}

	matchType := params.MatchType
	if matchType == "" {
		matchType = model.MatchAll
	}

	inCart := func(id string) bool {
		_, ok := cartIDs[id]
		return ok
	}

	var isMatch bool
	switch matchType {
	case model.MatchAny:
		for id := range targetIDs {
			if inCart(id) {
				isMatch = true
				break
			}
		}
	case model.MatchNone:
		isMatch = true
		for id := range targetIDs {
			if inCart(id) {
				isMatch = false
				break
			}
		}
		// minQuantity is meaningless when the match is about absence, so
		// 'none' returns without the quantity check below.
		return isMatch
	case model.MatchExact:
		isMatch = len(cartIDs) == len(targetIDs)
		if isMatch {
			for id := range targetIDs {
				if !inCart(id) {
					isMatch = false
					break
				}
			}
		}
	default:
		// 'all': cart must contain every target ID.
		isMatch = true
		for id := range targetIDs {
			if !inCart(id) {
				isMatch = false
				break
			}
		}
	}

	if !isMatch {
		return false
	}

	// Minimum total units across cart lines that hit the target set.
	if params.MinQuantity > 0 {
		totalUnits := 0
		for _, item := range cart {
			if _, ok := targetIDs[item.ServiceID]; ok {
				totalUnits += item.Quantity
			}
		}
		if totalUnits < params.MinQuantity {
			return false
		}
	}

	return true
}

// evaluatePatientTag matches the condition's tags against an ad-hoc tag
// set built from the patient's skin type, allergies and chronic
// conditions, case-insensitively.
func evaluatePatientTag(cond *model.OfferCondition, patient *model.Patient) bool {
	if len(cond.Parameters.Tags) == 0 {
		return true
	}

	patientTags := make(map[string]struct{})
	if patient != nil {
		if patient.SkinType != 0 {
			patientTags[strconv.Itoa(patient.SkinType)] = struct{}{}
		}
		for _, a := range patient.Allergies {
			patientTags[strings.ToLower(a)] = struct{}{}
		}
		for _, c := range patient.ChronicConditions {
			patientTags[strings.ToLower(c)] = struct{}{}
		}
	}

	anyMatch := false
	for _, tag := range cond.Parameters.Tags {
		if _, ok := patientTags[strings.ToLower(tag)]; ok {
			anyMatch = true
			break
		}
	}

	if cond.Operator == model.OperatorNotContains || cond.Operator == model.OperatorNotIn {
		return !anyMatch
	}
	return anyMatch
}

// evaluateTimeRange compares the current minutes-since-midnight against
// an inclusive [startTime, endTime] window in HH:mm form.
func evaluateTimeRange(cond *model.OfferCondition, now time.Time) bool {
	if cond.Parameters.StartTime == "" || cond.Parameters.EndTime == "" {
		return true
	}

	startMinutes, okStart := parseClockMinutes(cond.Parameters.StartTime)
	endMinutes, okEnd := parseClockMinutes(cond.Parameters.EndTime)
	if !okStart || !okEnd {
		return true
	}

	currentMinutes := now.Hour()*60 + now.Minute()
	return currentMinutes >= startMinutes && currentMinutes <= endMinutes
}

// parseClockMinutes parses "HH:mm" into minutes since midnight.
func parseClockMinutes(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}

// evaluateDayOfWeek checks the current day (0=Sunday..6=Saturday) against
// the condition's day list. An empty list is vacuously true.
func evaluateDayOfWeek(cond *model.OfferCondition, now time.Time) bool {
	if len(cond.Parameters.DaysOfWeek) == 0 {
		return true
	}
	day := int(now.Weekday())
	for _, d := range cond.Parameters.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// evaluateCartProperty compares an aggregate cart measure against a
// threshold. Without an explicit operator the check is greater-or-equal.
func evaluateCartProperty(cond *model.OfferCondition, cart []model.CartItem) bool {
	var value float64
	switch cond.Parameters.AttributeName {
	case "totalQuantity":
		for _, item := range cart {
			value += float64(item.Quantity)
		}
	case "totalItems":
		value = float64(len(cart))
	}

	target := cond.Parameters.Threshold

	switch cond.Operator {
	case model.OperatorEquals:
		return value == target
	case model.OperatorNotEquals:
		return value != target
	case model.OperatorGreaterThan:
		return value > target
	case model.OperatorLessThan:
		return value < target
	default:
		return value >= target
	}
}
