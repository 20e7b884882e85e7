// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/outlet-analytics/pkg/aggregate"
	"github.com/iwvelando/outlet-analytics/pkg/alerts"
	"github.com/iwvelando/outlet-analytics/pkg/lease"
	"github.com/iwvelando/outlet-analytics/pkg/menu"
	"github.com/shopspring/decimal"
)

// Dec parses a decimal literal and panics on error.
func Dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// FindBucket finds the bucket of an outlet and "YYYY-MM" month.
// Returns a pointer to the bucket if found, nil otherwise.
func FindBucket(buckets []aggregate.MonthBucket, outlet, month string) *aggregate.MonthBucket {
	for i := range buckets {
		if buckets[i].Outlet == outlet && buckets[i].Month.String() == month {
			return &buckets[i]
		}
	}
	return nil
}

// FindAlert finds a fired alert by rule id.
func FindAlert(fired []alerts.Alert, id string) *alerts.Alert {
	for i := range fired {
		if fired[i].ID == id {
			return &fired[i]
		}
	}
	return nil
}

// FindItem finds a classified menu item by name.
func FindItem(items []menu.ClassifiedItem, name string) *menu.ClassifiedItem {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}

// FindScheduleBucket finds the schedule bucket of a "YYYY-MM" month.
func FindScheduleBucket(schedule lease.Schedule, month string) *lease.Bucket {
	for i := range schedule.Buckets {
		if schedule.Buckets[i].Key.String() == month {
			return &schedule.Buckets[i]
		}
	}
	return nil
}
