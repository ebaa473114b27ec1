// Package domain contains core business types and interfaces.
//
// This file defines the outcome types reported by a reminder sweep.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DispatchReason explains what happened to a matched (item, offset) pair.
type DispatchReason string

const (
	// ReasonSent means the gateway accepted the reminder.
	ReasonSent DispatchReason = "sent"
	// ReasonAlreadySent means another sweep marked the offset first.
	ReasonAlreadySent DispatchReason = "already_sent"
	// ReasonMarkFailed means the conditional update itself errored.
	ReasonMarkFailed DispatchReason = "mark_failed"
	// ReasonQuotaExceeded means the owner has no reminders left this month.
	ReasonQuotaExceeded DispatchReason = "quota_exceeded"
	// ReasonQuotaCheckFailed means the quota could not be read.
	ReasonQuotaCheckFailed DispatchReason = "quota_check_failed"
	// ReasonDispatchFailed means the gateway rejected, errored or timed out.
	ReasonDispatchFailed DispatchReason = "dispatch_failed"
)

// SweepResult is the per-item outcome of one sweep.
type SweepResult struct {
	ItemID     uuid.UUID      `json:"itemId"`
	Kind       ItemKind       `json:"kind"`
	UserID     uuid.UUID      `json:"userId"`
	Offset     int            `json:"offset"`
	Success    bool           `json:"success"`
	Reason     DispatchReason `json:"reason"`
	StatusCode int            `json:"statusCode,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// SweepSummary is returned by every completed sweep.
type SweepSummary struct {
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Checked    int           `json:"checked"`
	Sent       int           `json:"sent"`
	Results    []SweepResult `json:"results"`
}

// Count returns how many results carry the given reason.
func (s *SweepSummary) Count(reason DispatchReason) int {
	n := 0
	for _, r := range s.Results {
		if r.Reason == reason {
			n++
		}
	}
	return n
}
