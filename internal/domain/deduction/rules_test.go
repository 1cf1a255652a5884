package deduction

import (
	"testing"

	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

func facts(wp int, d, m, y *int, currentBE int) itemFacts {
	return itemFacts{warrantyYears: wp, day: d, month: m, year: y, currentBE: currentBE}
}

func ip(n int) *int { return &n }

func TestItemRules(t *testing.T) {
	const be = 2569

	tests := []struct {
		name           string
		sub            enum.SubCategory
		cat            enum.Category
		facts          itemFacts
		wantIneligible bool
	}{
		// Warranty-period rules
		{"life insurance short warranty", enum.SubCategoryLifeInsurance, "", facts(5, nil, nil, nil, be), true},
		{"life insurance warranty at threshold", enum.SubCategoryLifeInsurance, "", facts(10, nil, nil, nil, be), false},
		{"annuity insurance short warranty", enum.SubCategoryAnnuityInsurance, "", facts(9, nil, nil, nil, be), true},
		{"annuity insurance long warranty", enum.SubCategoryAnnuityInsurance, "", facts(12, nil, nil, nil, be), false},
		{"RMF below five years", enum.SubCategoryRMF, "", facts(4, nil, nil, nil, be), true},
		{"RMF at five years", enum.SubCategoryRMF, "", facts(5, nil, nil, nil, be), false},

		// SSF needs warranty and a dated purchase from B.E. 2563
		{"SSF ok", enum.SubCategorySSF, "", facts(10, ip(3), ip(2), ip(2563), be), false},
		{"SSF short warranty", enum.SubCategorySSF, "", facts(9, ip(3), ip(2), ip(2563), be), true},
		{"SSF before first year", enum.SubCategorySSF, "", facts(10, ip(3), ip(2), ip(2562), be), true},
		{"SSF missing date", enum.SubCategorySSF, "", facts(10, nil, nil, nil, be), true},

		// Thai ESG needs the current tax year or later
		{"Thai ESG current year", enum.SubCategoryThaiESG, "", facts(0, ip(1), ip(1), ip(be), be), false},
		{"Thai ESG prior year", enum.SubCategoryThaiESG, "", facts(0, ip(1), ip(1), ip(be - 1), be), true},
		{"Thai ESG missing month", enum.SubCategoryThaiESG, "", facts(0, ip(1), nil, ip(be), be), true},

		// Political party donations from B.E. 2561
		{"political donation ok", enum.SubCategoryPoliticalParty, "", facts(0, ip(10), ip(10), ip(2561), be), false},
		{"political donation too early", enum.SubCategoryPoliticalParty, "", facts(0, ip(10), ip(10), ip(2560), be), true},

		// Campaign windows keep the original operator precedence: a date
		// inside the closing bound still fails.
		{"tourism before window start", enum.SubCategoryDomesticTourism, "", facts(0, ip(1), ip(4), ip(be), be), true},
		{"tourism inside closing bound", enum.SubCategoryDomesticTourism, "", facts(0, ip(15), ip(6), ip(be), be), true},
		{"tourism december", enum.SubCategoryDomesticTourism, "", facts(0, ip(1), ip(12), ip(be), be), false},
		{"tourism missing date", enum.SubCategoryDomesticTourism, "", facts(0, nil, nil, nil, be), true},

		{"construction before window", enum.SubCategoryHomeConstruction, "", facts(0, ip(1), ip(3), ip(be), be), true},
		{"construction in window", enum.SubCategoryHomeConstruction, "", facts(0, ip(10), ip(5), ip(be), be), true},

		{"flood home repair wrong year", enum.SubCategoryFloodHomeRepair, "", facts(0, ip(20), ip(9), ip(be - 1), be), true},
		{"flood home repair in window", enum.SubCategoryFloodHomeRepair, "", facts(0, ip(20), ip(9), ip(be), be), true},
		{"flood car repair wrong year", enum.SubCategoryFloodCarRepair, "", facts(0, ip(20), ip(9), ip(be + 1), be), true},

		// Easy E-Receipt is a category-level fallback
		{"easy e-receipt early january", "", enum.CategoryEasyEReceipt, facts(0, ip(10), ip(1), ip(be), be), false},
		{"easy e-receipt missing date", "", enum.CategoryEasyEReceipt, facts(0, nil, nil, nil, be), false},
		{"easy e-receipt sub-category rule wins", enum.SubCategoryRMF, enum.CategoryEasyEReceipt, facts(0, ip(10), ip(1), ip(be), be), true},

		// No rule at all
		{"unknown sub-category eligible", enum.SubCategoryUnknown, "", facts(0, nil, nil, nil, be), false},
		{"unlabeled item eligible", "", "", facts(0, nil, nil, nil, be), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemIneligible(tt.sub, tt.cat, tt.facts)
			if got != tt.wantIneligible {
				t.Errorf("itemIneligible(%q, %q) = %v, want %v", tt.sub, tt.cat, got, tt.wantIneligible)
			}
		})
	}
}
