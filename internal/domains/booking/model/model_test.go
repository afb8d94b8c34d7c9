package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"maitre/internal/domains/booking/model"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, time.September, 10, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{
			name:   "identical windows overlap",
			aStart: base, aEnd: base.Add(2 * time.Hour),
			bStart: base, bEnd: base.Add(2 * time.Hour),
			want: true,
		},
		{
			name:   "partial overlap",
			aStart: base, aEnd: base.Add(2 * time.Hour),
			bStart: base.Add(time.Hour), bEnd: base.Add(3 * time.Hour),
			want: true,
		},
		{
			name:   "contained window overlaps",
			aStart: base, aEnd: base.Add(3 * time.Hour),
			bStart: base.Add(time.Hour), bEnd: base.Add(2 * time.Hour),
			want: true,
		},
		{
			name:   "back-to-back turns share no instant",
			aStart: base, aEnd: base.Add(2 * time.Hour),
			bStart: base.Add(2 * time.Hour), bEnd: base.Add(4 * time.Hour),
			want: false,
		},
		{
			name:   "disjoint windows",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base.Add(2 * time.Hour), bEnd: base.Add(3 * time.Hour),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, model.Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{from: model.StatusPending, to: model.StatusConfirmed, want: true},
		{from: model.StatusPending, to: model.StatusDeclined, want: true},
		{from: model.StatusPending, to: model.StatusCancelled, want: true},
		{from: model.StatusPending, to: model.StatusCompleted, want: false},
		{from: model.StatusPending, to: model.StatusNoShow, want: false},
		{from: model.StatusConfirmed, to: model.StatusCancelled, want: true},
		{from: model.StatusConfirmed, to: model.StatusCompleted, want: true},
		{from: model.StatusConfirmed, to: model.StatusNoShow, want: true},
		{from: model.StatusConfirmed, to: model.StatusDeclined, want: false},
		{from: model.StatusCancelled, to: model.StatusConfirmed, want: false},
		{from: model.StatusCompleted, to: model.StatusCancelled, want: false},
		{from: model.StatusNoShow, to: model.StatusPending, want: false},
		{from: model.StatusDeclined, to: model.StatusConfirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}
