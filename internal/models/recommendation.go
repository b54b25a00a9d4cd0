// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package models

import (
	"strings"
	"time"
)

// ViewerIdentity identifies the mini-app user a session is opened for.
// PrimaryHandle is the Telegram username without a leading '@';
// DisplayName is the human readable name used as a lookup fallback.
type ViewerIdentity struct {
	PrimaryHandle string `json:"primary_handle,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
}

// HasIdentifier reports whether at least one identifier can be looked up.
func (v ViewerIdentity) HasIdentifier() bool {
	return strings.TrimSpace(v.PrimaryHandle) != "" || strings.TrimSpace(v.DisplayName) != ""
}

// RecommendationRecord is a single event recommendation produced by the backend.
type RecommendationRecord struct {
	Title      string `json:"title"`
	Venue      string `json:"venue"`
	Date       string `json:"date"`
	TicketLink string `json:"ticketLink" validate:"omitempty,http_url"`
}

// dateLayouts are the ISO 8601 shapes accepted for RecommendationRecord.Date,
// tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParsedDate parses the record date. The boolean is false when the
// date is empty or in none of the accepted layouts.
func (r RecommendationRecord) ParsedDate() (time.Time, bool) {
	return ParseEventDate(r.Date)
}

// ParseEventDate parses an ISO 8601 event timestamp.
func ParseEventDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
