// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package models

// CreateSessionRequest opens a map session. InitData is the raw Telegram
// WebApp initData query string; Viewer is only honoured when signature
// checks are disabled.
type CreateSessionRequest struct {
	InitData string          `json:"initData" validate:"required_without=Viewer"`
	Viewer   *ViewerIdentity `json:"viewer,omitempty"`
}

// CreateSessionResponse is returned when a session is opened.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Phase     Phase  `json:"phase"`
}

// LocationReport is the device position sent by the mini-app, or a denial.
type LocationReport struct {
	Lat    *float64 `json:"lat" validate:"required_without=Denied,omitempty,latitude"`
	Lng    *float64 `json:"lng" validate:"required_without=Denied,omitempty,longitude"`
	Denied bool     `json:"denied"`
}

// Coordinate returns the reported position. Only meaningful when not denied
// and validated.
func (r LocationReport) Coordinate() Coordinate {
	var c Coordinate
	if r.Lat != nil {
		c.Lat = *r.Lat
	}
	if r.Lng != nil {
		c.Lng = *r.Lng
	}
	return c
}

// MarkerClick is an inbound marker activation.
type MarkerClick struct {
	MarkerID string `json:"marker_id" validate:"required,max=64"`
}
