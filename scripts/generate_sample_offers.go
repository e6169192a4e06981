package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"clinic-offers/internal/catalog"
	"clinic-offers/internal/model"
)

// Writes a sample offer catalogue to data/catalogues/offers.json.gz for
// local development. Point CATALOG_SOURCE=file and CATALOG_PATH at the
// generated file to import it at startup.
func main() {
	dataDir := "data/catalogues"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	doc := catalog.Document{
		Version:    1,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Offers:     sampleOffers(),
	}

	filePath := filepath.Join(dataDir, "offers.json.gz")
	if err := writeCatalogue(filePath, &doc); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d offers\n", filePath, len(doc.Offers))
}

func sampleOffers() []model.Offer {
	now := time.Now().UTC()
	monthEnd := now.AddDate(0, 1, 0)

	return []model.Offer{
		{
			ID:       "OFF-WELCOME-20",
			Name:     "New Patient Welcome",
			Type:     model.OfferTypePercentage,
			IsActive: true,
			Conditions: []model.OfferCondition{
				{Type: model.ConditionNewPatient},
			},
			Benefits: []model.OfferBenefit{
				{Type: model.BenefitPercentOff, Parameters: model.BenefitParameters{Percent: 20}},
			},
			Priority:             50,
			UsageLimitPerPatient: 1,
			CreatedAt:            now,
		},
		{
			ID:       "OFF-FACIAL-BUNDLE",
			Name:     "HydraFacial + Peel Bundle",
			Type:     model.OfferTypeBundle,
			IsActive: true,
			Conditions: []model.OfferCondition{
				{
					Type: model.ConditionServiceIncludes,
					Parameters: model.ConditionParameters{
						ServiceIDs: []string{"SVC-HYDRA", "SVC-PEEL"},
						MatchType:  model.MatchAll,
					},
				},
			},
			Benefits: []model.OfferBenefit{
				{Type: model.BenefitFixedPrice, Parameters: model.BenefitParameters{FixedPrice: 1200}},
			},
			Priority:    30,
			IsExclusive: true,
			CreatedAt:   now,
		},
		{
			ID:         "OFF-LASER-B2G1",
			Name:       "Laser Buy 2 Get 1",
			Type:       model.OfferTypeBuyXGetY,
			IsActive:   true,
			ValidUntil: &monthEnd,
			Conditions: []model.OfferCondition{
				{
					Type: model.ConditionServiceIncludes,
					Parameters: model.ConditionParameters{
						ServiceIDs: []string{"SVC-LASER"},
						MatchType:  model.MatchAny,
					},
				},
			},
			Benefits: []model.OfferBenefit{
				{
					Type: model.BenefitFreeSession,
					Parameters: model.BenefitParameters{
						BuyQuantity:     2,
						FreeQuantity:    1,
						TargetServiceID: "SVC-LASER",
					},
				},
			},
			Priority:  20,
			CreatedAt: now,
		},
		{
			ID:       "OFF-WEEKDAY-MORNING",
			Name:     "Weekday Morning Discount",
			Type:     model.OfferTypeConditional,
			IsActive: true,
			Conditions: []model.OfferCondition{
				{
					Type:  model.ConditionGroup,
					Logic: model.LogicAnd,
					Children: []model.OfferCondition{
						{
							Type:       model.ConditionDayOfWeek,
							Parameters: model.ConditionParameters{DaysOfWeek: []int{1, 2, 3, 4}},
						},
						{
							Type:       model.ConditionTimeRange,
							Parameters: model.ConditionParameters{StartTime: "09:00", EndTime: "12:00"},
						},
					},
				},
			},
			Benefits: []model.OfferBenefit{
				{Type: model.BenefitFixedAmountOff, Parameters: model.BenefitParameters{FixedAmount: 100}},
			},
			Priority:  10,
			CreatedAt: now,
		},
		{
			ID:       "OFF-LASER-PKG-6",
			Name:     "Laser Package 6 Sessions",
			Type:     model.OfferTypePackage,
			IsActive: true,
			Benefits: []model.OfferBenefit{
				{
					Type: model.BenefitGrantPackage,
					Parameters: model.BenefitParameters{
						FixedPrice:          3000,
						PackageServiceID:    "SVC-LASER",
						PackageSessions:     6,
						PackageValidityDays: 180,
					},
				},
			},
			Priority:  5,
			CreatedAt: now,
		},
	}
}

func writeCatalogue(path string, doc *catalog.Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := json.NewEncoder(gz).Encode(doc); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
