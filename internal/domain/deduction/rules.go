package deduction

import "github.com/keingkrai/process-tax-ocr/internal/domain/enum"

// RulesVersion identifies the rule set recorded alongside every stored
// verdict. Bump when any predicate below changes.
const RulesVersion = "2025.1"

// Fixed Buddhist-calendar thresholds written into the revenue rules.
const (
	ssfFirstYear            = 2563 // SSF units purchasable from B.E. 2563
	politicalDonationFirst  = 2561 // party donations deductible from B.E. 2561
	lifeInsuranceMinYears   = 10
	rmfMinYears             = 5
	ssfMinYears             = 10
	floodRepairWindowStart  = 16 // 16 Aug of the current tax year
	floodRepairWindowMonth  = 8
	easyEReceiptWindowDay   = 15 // through 15 Feb of the current tax year
	easyEReceiptWindowMonth = 2
)

// itemFacts carries everything a rule may look at: the warranty period in
// years and the document date as raw Buddhist-calendar integers. A nil date
// component makes every comparison against it false.
type itemFacts struct {
	warrantyYears int
	day, month    *int
	year          *int
	currentBE     int
}

func (f itemFacts) hasDate() bool {
	return f.day != nil && f.month != nil && f.year != nil
}

func (f itemFacts) dayAtLeast(n int) bool   { return f.day != nil && *f.day >= n }
func (f itemFacts) dayAtMost(n int) bool    { return f.day != nil && *f.day <= n }
func (f itemFacts) monthAtLeast(n int) bool { return f.month != nil && *f.month >= n }
func (f itemFacts) monthAtMost(n int) bool  { return f.month != nil && *f.month <= n }
func (f itemFacts) yearAtLeast(n int) bool  { return f.year != nil && *f.year >= n }
func (f itemFacts) yearAtMost(n int) bool   { return f.year != nil && *f.year <= n }
func (f itemFacts) yearIs(n int) bool       { return f.year != nil && *f.year == n }

// rule reports whether an item is INELIGIBLE given the facts.
type rule func(itemFacts) bool

// subCategoryRules is the primary dispatch table. An entry returning true
// marks the item ineligible; sub-categories without an entry fall through to
// categoryRules and then to "eligible".
var subCategoryRules = map[enum.SubCategory]rule{
	enum.SubCategoryLifeInsurance:    minWarranty(lifeInsuranceMinYears),
	enum.SubCategoryAnnuityInsurance: minWarranty(lifeInsuranceMinYears),
	enum.SubCategoryRMF:              minWarranty(rmfMinYears),

	enum.SubCategorySSF: func(f itemFacts) bool {
		ok := f.warrantyYears >= ssfMinYears &&
			f.dayAtLeast(1) && f.monthAtLeast(1) && f.yearAtLeast(ssfFirstYear)
		return !ok
	},

	enum.SubCategoryThaiESG: func(f itemFacts) bool {
		ok := f.dayAtLeast(1) && f.monthAtLeast(1) && f.yearAtLeast(f.currentBE)
		return !ok
	},

	enum.SubCategoryPoliticalParty: func(f itemFacts) bool {
		ok := f.dayAtLeast(1) && f.monthAtLeast(1) && f.yearAtLeast(politicalDonationFirst)
		return !ok
	},

	// Campaign windows within the current tax year: the purchase must fall
	// inside [start, end]. Being before the start OR after the end fails.
	enum.SubCategoryDomesticTourism: func(f itemFacts) bool {
		afterStart := f.dayAtLeast(1) && f.monthAtLeast(5) && f.yearAtLeast(f.currentBE)
		beforeEnd := f.dayAtMost(30) && f.monthAtMost(11) && f.yearAtMost(f.currentBE)
		return !afterStart || beforeEnd
	},

	enum.SubCategoryHomeConstruction: func(f itemFacts) bool {
		afterStart := f.dayAtLeast(9) && f.monthAtLeast(4) && f.yearAtLeast(f.currentBE)
		beforeEnd := f.dayAtMost(31) && f.monthAtMost(12) && f.yearAtMost(f.currentBE)
		return !afterStart || beforeEnd
	},

	enum.SubCategoryFloodHomeRepair: floodRepairRule,
	enum.SubCategoryFloodCarRepair:  floodRepairRule,
}

// categoryRules is consulted only when no sub-category rule matched.
var categoryRules = map[enum.Category]rule{
	enum.CategoryEasyEReceipt: func(f itemFacts) bool {
		afterStart := f.dayAtLeast(1) && f.monthAtLeast(1) && f.yearIs(f.currentBE)
		beforeEnd := f.dayAtMost(easyEReceiptWindowDay) &&
			f.monthAtMost(easyEReceiptWindowMonth) && f.yearIs(f.currentBE)
		return !afterStart && beforeEnd
	},
}

func floodRepairRule(f itemFacts) bool {
	afterStart := f.dayAtLeast(floodRepairWindowStart) &&
		f.monthAtLeast(floodRepairWindowMonth) && f.yearIs(f.currentBE)
	beforeEnd := f.dayAtMost(31) && f.monthAtMost(12) && f.yearIs(f.currentBE)
	return !afterStart || beforeEnd
}

func minWarranty(years int) rule {
	return func(f itemFacts) bool {
		return f.warrantyYears < years
	}
}

// itemIneligible resolves the rule for an item's labels and applies it.
// Unknown labels mean no restriction.
func itemIneligible(sub enum.SubCategory, cat enum.Category, f itemFacts) bool {
	if r, ok := subCategoryRules[sub]; ok {
		return r(f)
	}
	if r, ok := categoryRules[cat]; ok {
		return r(f)
	}
	return false
}
