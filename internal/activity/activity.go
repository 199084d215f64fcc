// Package activity classifies how recently a repository has been worked on.
package activity

import (
	"time"

	"github.com/repobrief/repobrief/internal/model"
)

const (
	activeThresholdDays     = 180
	maintainedThresholdDays = 365
)

// Classify buckets a repository by days since its last commit relative to
// now: under 180 days is active, under a year maintained, anything older
// dormant. Future-dated commits count as zero days old.
func Classify(lastCommit, now time.Time) *model.Activity {
	days := int(now.Sub(lastCommit).Hours() / 24)
	if days < 0 {
		days = 0
	}

	var category model.ActivityCategory
	switch {
	case days < activeThresholdDays:
		category = model.ActivityActive
	case days < maintainedThresholdDays:
		category = model.ActivityMaintained
	default:
		category = model.ActivityDormant
	}

	return &model.Activity{
		Category:        category,
		LastCommitDate:  lastCommit.UTC().Format(time.RFC3339),
		DaysSinceCommit: days,
	}
}

// FromInfo classifies from a repository snapshot, or nil when the snapshot
// has no commit date (an empty repository).
func FromInfo(info *model.RepositoryInfo, now time.Time) *model.Activity {
	if info == nil || info.LastCommitDate == nil || info.LastCommitDate.IsZero() {
		return nil
	}
	return Classify(*info.LastCommitDate, now)
}
