package model

import (
	"fmt"
	"time"
)

// Snapshot holds one run's collected scorecard data, ordered for output
type Snapshot struct {
	Date       time.Time
	CheckNames []string
	Packages   []*Package
}

// CSVFileName returns the dated file name under data/, e.g. "2024-03-04.csv"
func (s *Snapshot) CSVFileName() string {
	return s.Date.Format("2006-01-02") + ".csv"
}

// CommitMessage returns the publish commit message. Month and day are not
// zero-padded: March 4, 2024 yields "Updated data for 2024-3-4".
func (s *Snapshot) CommitMessage() string {
	return fmt.Sprintf("Updated data for %d-%d-%d", s.Date.Year(), int(s.Date.Month()), s.Date.Day())
}

// DisplayDate returns the human-readable collection date used in the
// README header, e.g. "Mar 4, 2024".
func (s *Snapshot) DisplayDate() string {
	return s.Date.Format("Jan 2, 2006")
}
