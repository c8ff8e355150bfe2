package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/shopspring/decimal"
)

func validRequest() domain.AppendWagerRequest {
	return domain.AppendWagerRequest{
		HomeTeam:         "Boston Celtics",
		AwayTeam:         "Miami Heat",
		Sport:            "nba",
		EventDate:        date("2025-07-01"),
		PredictedOutcome: "Boston Celtics",
		Confidence:       0.74,
		IsDailyPick:      true,
		PickRank:         1,
		Stake:            decimal.NewFromInt(100),
	}
}

func TestAppendWagerRequest_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.AppendWagerRequest)
		wantOK bool
	}{
		{"valid", func(r *domain.AppendWagerRequest) {}, true},
		{"missing home team", func(r *domain.AppendWagerRequest) { r.HomeTeam = "  " }, false},
		{"missing away team", func(r *domain.AppendWagerRequest) { r.AwayTeam = "" }, false},
		{"missing sport", func(r *domain.AppendWagerRequest) { r.Sport = "" }, false},
		{"missing event date", func(r *domain.AppendWagerRequest) { r.EventDate = time.Time{} }, false},
		{"missing predicted outcome", func(r *domain.AppendWagerRequest) { r.PredictedOutcome = "" }, false},
		{"confidence above 1", func(r *domain.AppendWagerRequest) { r.Confidence = 1.2 }, false},
		{"negative confidence", func(r *domain.AppendWagerRequest) { r.Confidence = -0.1 }, false},
		{"zero stake", func(r *domain.AppendWagerRequest) { r.Stake = decimal.Zero }, false},
		{"negative stake", func(r *domain.AppendWagerRequest) { r.Stake = decimal.NewFromInt(-5) }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			if tc.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.wantOK {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("Validate() = %v, want ErrValidation in chain", err)
				}
			}
		})
	}
}

// TestDeriveCorrectness: won iff actual matches predicted, with label
// normalization (case and surrounding whitespace ignored).
func TestDeriveCorrectness(t *testing.T) {
	cases := []struct {
		predicted, actual string
		want              domain.Correctness
	}{
		{"Boston Celtics", "Boston Celtics", domain.CorrectnessWon},
		{"Boston Celtics", "boston celtics", domain.CorrectnessWon},
		{"Boston Celtics", " Boston Celtics ", domain.CorrectnessWon},
		{"Boston Celtics", "Miami Heat", domain.CorrectnessLost},
		{"over", "under", domain.CorrectnessLost},
	}
	for _, tc := range cases {
		if got := domain.DeriveCorrectness(tc.predicted, tc.actual); got != tc.want {
			t.Errorf("DeriveCorrectness(%q, %q) = %s, want %s", tc.predicted, tc.actual, got, tc.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2025, 7, 1, 23, 45, 0, 0, loc) // 20:45 UTC on July 1
	got := domain.NormalizeDate(in)
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NormalizeDate(%v) = %v, want %v", in, got, want)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := domain.ParseDate("2025-07-01"); err != nil {
		t.Errorf("ParseDate valid = %v, want nil", err)
	}
	if _, err := domain.ParseDate("07/01/2025"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("ParseDate invalid = %v, want ErrValidation", err)
	}
}
