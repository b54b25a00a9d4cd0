// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package session

import "github.com/tomtom215/seruen/internal/models"

// TicketAction opens the ticket page in a new browsing context.
type TicketAction struct {
	URL    string `json:"url"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Overlay is the detail panel for the selected event.
type Overlay struct {
	Title      string            `json:"title"`
	Venue      string            `json:"venue"`
	Date       string            `json:"date"`
	Coordinate models.Coordinate `json:"coordinate"`
	Ticket     *TicketAction     `json:"ticket,omitempty"`
}

// NewOverlay projects a selected venue. The ticket action is omitted when
// the record has no usable link.
func NewOverlay(v models.ResolvedVenue) Overlay {
	o := Overlay{
		Title:      v.Recommendation.Title,
		Venue:      v.Recommendation.Venue,
		Date:       v.Recommendation.Date,
		Coordinate: v.Coordinate,
	}
	if v.Recommendation.TicketLink != "" {
		o.Ticket = &TicketAction{
			URL:    v.Recommendation.TicketLink,
			Target: "_blank",
			Label:  "Buy tickets",
		}
	}
	return o
}
