// Package auctionclock maps wall-clock time to the phase of a fixed-window auction.
package auctionclock

import (
	"slices"
	"time"
)

// Phase is the lifecycle stage of an auction.
type Phase string

const (
	PhaseScheduled Phase = "scheduled"
	PhaseActive    Phase = "active"
	PhaseEnded     Phase = "ended"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// UTC is the production clock.
func UTC() time.Time { return time.Now().UTC() }

// PhaseAt reports the phase of an auction running over [start, end).
func PhaseAt(now, start, end time.Time) Phase {
	switch {
	case now.Before(start):
		return PhaseScheduled
	case now.Before(end):
		return PhaseActive
	default:
		return PhaseEnded
	}
}

// Auction describes one timed auction and its lots.
type Auction struct {
	ID    string
	Name  string
	Start time.Time
	End   time.Time
	Items []string
}

// Phase reports the auction phase at now.
func (a Auction) Phase(now time.Time) Phase {
	return PhaseAt(now, a.Start, a.End)
}

// HasItem reports whether itemID is one of the auction's lots.
func (a Auction) HasItem(itemID string) bool {
	return slices.Contains(a.Items, itemID)
}

// Status is the client-facing snapshot of an auction's timer.
type Status struct {
	AuctionID   string    `json:"auction_id"`
	AuctionName string    `json:"auction_name"`
	Status      Phase     `json:"status"`
	IsActive    bool      `json:"is_active"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Message     string    `json:"message"`
}

// Status builds the timer snapshot at now.
func (a Auction) Status(now time.Time) Status {
	phase := a.Phase(now)
	msg := "Auction has ended"
	switch phase {
	case PhaseScheduled:
		msg = "Auction has not started yet"
	case PhaseActive:
		msg = "Auction is currently active"
	}
	return Status{
		AuctionID:   a.ID,
		AuctionName: a.Name,
		Status:      phase,
		IsActive:    phase == PhaseActive,
		StartTime:   a.Start,
		EndTime:     a.End,
		Message:     msg,
	}
}
