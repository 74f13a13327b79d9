// Package mergepol holds the field-level merge policies the deduplicator
// composes when collapsing duplicate inspection entries. Each policy is a
// small reducer over an ordered list (keeper first, then merge sources
// oldest to newest), testable on its own.
package mergepol

import (
	"strings"
	"time"
)

// FirstNonEmptyRemark keeps the first remark with visible content.
// First-wins, not last-wins: a later low-information edit must not
// overwrite a richer earlier note.
func FirstNonEmptyRemark(remarks []string) string {
	for _, r := range remarks {
		if strings.TrimSpace(r) != "" {
			return r
		}
	}
	return ""
}

// FirstValidDate keeps the first non-nil, non-zero date.
func FirstValidDate(dates []*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil && !d.IsZero() {
			return d
		}
	}
	return nil
}

// FirstSubmissionOrder keeps the first non-nil submission order.
func FirstSubmissionOrder(orders []*int) *int {
	for _, o := range orders {
		if o != nil {
			return o
		}
	}
	return nil
}
