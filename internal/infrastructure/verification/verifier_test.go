package verification

import (
	"context"
	"testing"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
)

type fakeCompanyRepo struct {
	byTaxID map[string]string
}

func (f *fakeCompanyRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	name, ok := f.byTaxID[taxID]
	if !ok {
		return nil, nil
	}
	return &entity.Company{TaxID: taxID, Name: name}, nil
}

func (f *fakeCompanyRepo) Upsert(ctx context.Context, company *entity.Company) error {
	return nil
}

func TestNormalizeTaxID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0-1055-43000-15-1", "0105543000151"},
		{"0105543000151", "0105543000151"},
		{" 0105543000151 ", "0105543000151"},
		{"เลขที่ 0105543000151", "0105543000151"},
		{"", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTaxID(tt.input); got != tt.want {
			t.Errorf("NormalizeTaxID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVerify(t *testing.T) {
	repo := &fakeCompanyRepo{byTaxID: map[string]string{
		"0105543000151": "บริษัท ทดสอบระบบ จำกัด",
	}}
	verifier := NewVerifier(repo)

	tests := []struct {
		name        string
		seller      string
		taxID       string
		wantMatched *bool
		wantReason  string
	}{
		{
			name:        "exact registry match",
			seller:      "บริษัท ทดสอบระบบ จำกัด",
			taxID:       "0-1055-43000-15-1",
			wantMatched: boolPtr(true),
		},
		{
			name:        "different company name",
			seller:      "ร้านค้าอื่นที่ไม่เกี่ยวข้องกันเลย",
			taxID:       "0105543000151",
			wantMatched: boolPtr(false),
		},
		{
			name:        "unknown tax id",
			seller:      "บริษัท ทดสอบระบบ จำกัด",
			taxID:       "1234567890123",
			wantMatched: boolPtr(false),
		},
		{
			name:        "short tax id is undetermined",
			seller:      "บริษัท ทดสอบระบบ จำกัด",
			taxID:       "12345",
			wantMatched: nil,
			wantReason:  ReasonInvalidTaxID,
		},
		{
			name:        "missing tax id is undetermined",
			seller:      "บริษัท ทดสอบระบบ จำกัด",
			taxID:       "",
			wantMatched: nil,
			wantReason:  ReasonInvalidTaxID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), tt.seller, tt.taxID)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			switch {
			case tt.wantMatched == nil:
				if got.Matched != nil {
					t.Errorf("matched = %v, want nil", *got.Matched)
				}
			case got.Matched == nil:
				t.Errorf("matched = nil, want %v", *tt.wantMatched)
			case *got.Matched != *tt.wantMatched:
				t.Errorf("matched = %v, want %v", *got.Matched, *tt.wantMatched)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

// Similarity must be scored over runes, not bytes: Thai text is three bytes
// per rune, so small edits in a name should move the score the same way they
// would for ASCII.
func TestVerifyRuneLevelSimilarity(t *testing.T) {
	repo := &fakeCompanyRepo{byTaxID: map[string]string{
		"0105543000151": "บริษัท ทดสอบระบบ จำกัด",
	}}
	verifier := NewVerifier(repo)

	tests := []struct {
		name        string
		seller      string
		wantMatched bool
	}{
		{"identical", "บริษัท ทดสอบระบบ จำกัด", true},
		{"trailing punctuation", "บริษัท ทดสอบระบบ จำกัด.", true},
		{"one rune changed", "บริษัท ทดสอบระบบ จำกัต", true},
		{"one word replaced", "บริษัท ทดสอบอื่น จำกัด", false},
		{"empty seller", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), tt.seller, "0105543000151")
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got.Matched == nil {
				t.Fatal("matched = nil, want a verdict")
			}
			if *got.Matched != tt.wantMatched {
				t.Errorf("matched = %v, want %v", *got.Matched, tt.wantMatched)
			}
		})
	}
}

func boolPtr(v bool) *bool { return &v }
