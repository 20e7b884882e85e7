package lease

import (
	"testing"
	"time"

	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func fixedNow(date string) time.Time {
	return datetime.MustParse(date).Time()
}

func datePtr(date string) *datetime.Date {
	d := datetime.MustParse(date)
	return &d
}

func amounts(s Schedule) map[string]string {
	out := make(map[string]string)
	for _, b := range s.Buckets {
		out[b.Key.String()] = b.Total.String()
	}
	return out
}

func TestScheduleQuarterlyLease(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop(), 12)
	leases := []Obligation{{
		OutletID:   "Downtown",
		Frequency:  Quarterly,
		LeaseStart: datetime.MustParse("2024-01-01"),
		Amount:     decimal.NewFromInt(300),
		IsFixed:    true,
	}}

	schedule := scheduler.ScheduleWithFixedTime(leases, fixedNow("2024-01-01"))

	if len(schedule.Buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(schedule.Buckets))
	}
	expected := map[string]bool{"2024-01": true, "2024-04": true, "2024-07": true, "2024-10": true}
	funded := 0
	for _, b := range schedule.Buckets {
		if expected[b.Key.String()] {
			if !b.Total.Equal(decimal.NewFromInt(300)) {
				t.Errorf("bucket %s = %s, expected 300", b.Key, b.Total)
			}
			funded++
			continue
		}
		if !b.Total.IsZero() {
			t.Errorf("bucket %s = %s, expected 0", b.Key, b.Total)
		}
	}
	if funded != 4 {
		t.Errorf("expected 4 funded buckets, got %d", funded)
	}
	if schedule.Buckets[0].Label != "Jan 2024" || schedule.Buckets[11].Key.String() != "2024-12" {
		t.Errorf("unexpected horizon bounds: %s .. %s", schedule.Buckets[0].Label, schedule.Buckets[11].Key)
	}
}

func TestScheduleNextDue(t *testing.T) {
	tests := []struct {
		name     string
		lease    Obligation
		now      string
		expected string // empty means no next due date
	}{
		{
			name:     "Due exactly today counts as next due",
			lease:    Obligation{Frequency: Quarterly, LeaseStart: datetime.MustParse("2023-10-15"), Amount: decimal.NewFromInt(1)},
			now:      "2024-01-15",
			expected: "2024-01-15",
		},
		{
			name:     "Earlier this month rolls to next step",
			lease:    Obligation{Frequency: Monthly, LeaseStart: datetime.MustParse("2023-06-01"), Amount: decimal.NewFromInt(1)},
			now:      "2024-01-10",
			expected: "2024-02-01",
		},
		{
			name:     "Future start is the next due date",
			lease:    Obligation{Frequency: Annual, LeaseStart: datetime.MustParse("2024-05-01"), Amount: decimal.NewFromInt(1)},
			now:      "2024-01-10",
			expected: "2024-05-01",
		},
		{
			name:     "Month end start is clamped",
			lease:    Obligation{Frequency: Monthly, LeaseStart: datetime.MustParse("2023-12-31"), Amount: decimal.NewFromInt(1)},
			now:      "2024-02-01",
			expected: "2024-02-29",
		},
		{
			name: "Next step past lease end",
			lease: Obligation{Frequency: Semiannual, LeaseStart: datetime.MustParse("2022-01-01"),
				LeaseEnd: datePtr("2024-03-01"), Amount: decimal.NewFromInt(1)},
			now:      "2024-01-10",
			expected: "",
		},
		{
			name: "Due on the lease end date",
			lease: Obligation{Frequency: Semiannual, LeaseStart: datetime.MustParse("2022-01-01"),
				LeaseEnd: datePtr("2024-07-01"), Amount: decimal.NewFromInt(1)},
			now:      "2024-01-10",
			expected: "2024-07-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := NewScheduler(nil, 12).ScheduleWithFixedTime([]Obligation{tt.lease}, fixedNow(tt.now))
			if tt.expected == "" {
				if len(schedule.NextDueByLease) != 0 {
					t.Fatalf("expected no upcoming lease, got %s", schedule.NextDueByLease[0].NextDue)
				}
				return
			}
			if len(schedule.NextDueByLease) != 1 {
				t.Fatalf("expected 1 upcoming lease, got %d", len(schedule.NextDueByLease))
			}
			if got := schedule.NextDueByLease[0].NextDue.String(); got != tt.expected {
				t.Errorf("next due = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestScheduleStopsAtLeaseEnd(t *testing.T) {
	leases := []Obligation{{
		OutletID:   "Harbour",
		Frequency:  Monthly,
		LeaseStart: datetime.MustParse("2023-06-01"),
		LeaseEnd:   datePtr("2024-03-15"),
		Amount:     decimal.NewFromInt(1000),
		IsFixed:    true,
	}}

	got := amounts(NewScheduler(nil, 12).ScheduleWithFixedTime(leases, fixedNow("2024-01-10")))

	for _, month := range []string{"2024-01", "2024-02", "2024-03"} {
		if got[month] != "1000" {
			t.Errorf("bucket %s = %s, expected 1000", month, got[month])
		}
	}
	if got["2024-04"] != "0" {
		t.Errorf("bucket 2024-04 = %s, expected 0 after lease end", got["2024-04"])
	}
}

func TestScheduleEndedLeaseStillProcessed(t *testing.T) {
	// The lease has no next due date but its remaining in-horizon dues, if any,
	// are still bucketed: here the last due (Jan 1) is earlier this month.
	leases := []Obligation{{
		Frequency:  Monthly,
		LeaseStart: datetime.MustParse("2023-01-01"),
		LeaseEnd:   datePtr("2024-01-05"),
		Amount:     decimal.NewFromInt(50),
	}}

	schedule := NewScheduler(nil, 12).ScheduleWithFixedTime(leases, fixedNow("2024-01-20"))

	if len(schedule.NextDueByLease) != 0 {
		t.Errorf("expected ended lease to be excluded from upcoming list")
	}
	if got := amounts(schedule)["2024-01"]; got != "50" {
		t.Errorf("bucket 2024-01 = %s, expected 50", got)
	}
	if !schedule.Total().Equal(decimal.NewFromInt(50)) {
		t.Errorf("schedule total = %s, expected 50", schedule.Total())
	}
}

func TestScheduleSkipsMalformedAndZeroLeases(t *testing.T) {
	leases := []Obligation{
		{
			OutletID:   "Malformed",
			Frequency:  Monthly,
			LeaseStart: datetime.MustParse("2024-06-01"),
			LeaseEnd:   datePtr("2024-01-01"),
			Amount:     decimal.NewFromInt(999),
		},
		{
			OutletID:   "Free",
			Frequency:  Monthly,
			LeaseStart: datetime.MustParse("2024-01-01"),
			Amount:     decimal.Zero,
		},
	}

	schedule := NewScheduler(nil, 12).ScheduleWithFixedTime(leases, fixedNow("2024-01-01"))

	if len(schedule.NextDueByLease) != 0 {
		t.Errorf("expected no upcoming leases, got %d", len(schedule.NextDueByLease))
	}
	if !schedule.Total().IsZero() {
		t.Errorf("expected zero schedule total, got %s", schedule.Total())
	}
}

func TestScheduleSortsUpcoming(t *testing.T) {
	leases := []Obligation{
		{OutletID: "C", Frequency: Annual, LeaseStart: datetime.MustParse("2024-09-01"), Amount: decimal.NewFromInt(1)},
		{OutletID: "B", Frequency: Monthly, LeaseStart: datetime.MustParse("2024-02-01"), Amount: decimal.NewFromInt(1)},
		{OutletID: "A", Frequency: Monthly, LeaseStart: datetime.MustParse("2024-02-01"), Amount: decimal.NewFromInt(1)},
	}

	schedule := NewScheduler(nil, 12).ScheduleWithFixedTime(leases, fixedNow("2024-01-10"))

	order := ""
	for _, u := range schedule.NextDueByLease {
		order += u.Lease.OutletID
	}
	if order != "ABC" {
		t.Errorf("upcoming order = %s, expected ABC", order)
	}
}

func TestScheduleVariableTotal(t *testing.T) {
	leases := []Obligation{
		{OutletID: "Fixed", Frequency: Monthly, LeaseStart: datetime.MustParse("2024-01-01"), Amount: decimal.NewFromInt(100), IsFixed: true},
		{OutletID: "Turnover", Frequency: Monthly, LeaseStart: datetime.MustParse("2024-01-01"), Amount: decimal.NewFromInt(40)},
	}

	schedule := NewScheduler(nil, 3).ScheduleWithFixedTime(leases, fixedNow("2024-01-01"))

	if len(schedule.Buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(schedule.Buckets))
	}
	for _, b := range schedule.Buckets {
		if !b.Total.Equal(decimal.NewFromInt(140)) || !b.VariableTotal.Equal(decimal.NewFromInt(40)) {
			t.Errorf("bucket %s total=%s variable=%s, expected 140/40", b.Key, b.Total, b.VariableTotal)
		}
	}
}

func TestNewSchedulerDefaultHorizon(t *testing.T) {
	schedule := NewScheduler(nil, 0).ScheduleWithFixedTime(nil, fixedNow("2024-11-20"))
	if len(schedule.Buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(schedule.Buckets))
	}
	if schedule.Buckets[0].Key.String() != "2024-11" || schedule.Buckets[11].Key.String() != "2025-10" {
		t.Errorf("unexpected horizon %s .. %s", schedule.Buckets[0].Key, schedule.Buckets[11].Key)
	}
}

func TestParseFrequency(t *testing.T) {
	tests := map[string]Frequency{
		"Monthly":     Monthly,
		"":            Monthly,
		"weekly":      Monthly,
		"QUARTERLY":   Quarterly,
		"Semi-Annual": Semiannual,
		"half yearly": Semiannual,
		"semiannual":  Semiannual,
		"Annually":    Annual,
		"yearly":      Annual,
	}

	for input, expected := range tests {
		if got := ParseFrequency(input); got != expected {
			t.Errorf("ParseFrequency(%q) = %s, expected %s", input, got, expected)
		}
	}
	if Quarterly.Step() != 3 || Semiannual.Step() != 6 || Annual.Step() != 12 || Monthly.Step() != 1 {
		t.Errorf("unexpected frequency steps")
	}
}
