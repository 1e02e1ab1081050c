package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

func TestSnapshot_CommitMessage(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "single digit month and day are not padded",
			date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			want: "Updated data for 2024-3-4",
		},
		{
			name: "double digit month and day",
			date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
			want: "Updated data for 2024-12-25",
		},
		{
			name: "first of january",
			date: time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC),
			want: "Updated data for 2025-1-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &model.Snapshot{Date: tt.date}
			gt.Equal(t, s.CommitMessage(), tt.want)
		})
	}
}

func TestSnapshot_CSVFileName(t *testing.T) {
	// the CSV name is zero-padded, unlike the commit message
	s := &model.Snapshot{Date: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	gt.Equal(t, s.CSVFileName(), "2024-03-04.csv")
}

func TestSnapshot_DisplayDate(t *testing.T) {
	s := &model.Snapshot{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)}
	gt.Equal(t, s.DisplayDate(), "Mar 4, 2024")
}
