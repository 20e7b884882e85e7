package lease

import (
	"sort"
	"time"

	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Bucket is the amount due in one month of the horizon.
type Bucket struct {
	Key   datetime.MonthKey `json:"key"`
	Label string            `json:"label"`
	Total decimal.Decimal   `json:"total"`
	// VariableTotal is the part of Total owed under leases whose rent is not fixed.
	VariableTotal decimal.Decimal `json:"variableTotal"`
}

// Upcoming pairs a lease with its next due date.
type Upcoming struct {
	Lease   Obligation    `json:"lease"`
	NextDue datetime.Date `json:"nextDue"`
}

// Schedule is the forward view over all leases.
type Schedule struct {
	Buckets        []Bucket   `json:"buckets"`
	NextDueByLease []Upcoming `json:"nextDueByLease"`
}

// Total sums every bucket of the schedule.
func (s Schedule) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Buckets {
		total = total.Add(b.Total)
	}
	return total
}

// Scheduler computes lease schedules over a fixed number of months.
type Scheduler struct {
	logger        *zap.Logger
	horizonMonths int
}

// NewScheduler creates a scheduler. A non-positive horizon falls back to twelve
// months. If logger is nil, it will use a no-op logger.
func NewScheduler(logger *zap.Logger, horizonMonths int) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonMonths <= 0 {
		horizonMonths = constants.DefaultHorizonMonths
	}
	return &Scheduler{logger: logger, horizonMonths: horizonMonths}
}

// ScheduleWithFixedTime projects leases as seen on now's calendar date. The
// horizon starts on the first day of that month.
func (s *Scheduler) ScheduleWithFixedTime(leases []Obligation, now time.Time) Schedule {
	today := datetime.Today(now)
	start := today.MonthKey()
	end := start.AddMonths(s.horizonMonths)

	schedule := Schedule{Buckets: make([]Bucket, s.horizonMonths)}
	for i := range schedule.Buckets {
		key := start.AddMonths(i)
		schedule.Buckets[i] = Bucket{
			Key:           key,
			Label:         key.Label(),
			Total:         decimal.Zero,
			VariableTotal: decimal.Zero,
		}
	}

	for _, lease := range leases {
		if lease.Malformed() {
			s.logger.Debug("skipping lease that ends before it starts",
				zap.String("op", "lease.ScheduleWithFixedTime"),
				zap.String("outlet", lease.OutletID),
				zap.String("leaseStart", lease.LeaseStart.String()),
				zap.String("leaseEnd", lease.LeaseEnd.String()),
			)
			continue
		}
		if lease.Amount.IsZero() {
			continue
		}

		next := lease.DueDate(lease.firstDueOnOrAfter(today))
		if !lease.Ended(next) {
			schedule.NextDueByLease = append(schedule.NextDueByLease, Upcoming{Lease: lease, NextDue: next})
		}

		for n := lease.firstDueOnOrAfter(start.FirstDay()); ; n++ {
			due := lease.DueDate(n)
			if lease.Ended(due) || !due.MonthKey().Before(end) {
				break
			}
			b := &schedule.Buckets[due.MonthKey().Index()-start.Index()]
			b.Total = b.Total.Add(lease.Amount)
			if !lease.IsFixed {
				b.VariableTotal = b.VariableTotal.Add(lease.Amount)
			}
		}
	}

	sort.SliceStable(schedule.NextDueByLease, func(i, j int) bool {
		a, b := schedule.NextDueByLease[i], schedule.NextDueByLease[j]
		if c := a.NextDue.Compare(b.NextDue); c != 0 {
			return c < 0
		}
		if a.Lease.OutletID != b.Lease.OutletID {
			return a.Lease.OutletID < b.Lease.OutletID
		}
		return a.Lease.Landlord < b.Lease.Landlord
	})

	return schedule
}
