// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geolocate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/tomtom215/seruen/internal/logging"
	"github.com/tomtom215/seruen/internal/models"
)

const (
	geoService    = "org.freedesktop.GeoClue2"
	managerPath   = dbus.ObjectPath("/org/freedesktop/GeoClue2/Manager")
	managerIface  = "org.freedesktop.GeoClue2.Manager"
	clientIface   = "org.freedesktop.GeoClue2.Client"
	locationIface = "org.freedesktop.GeoClue2.Location"
	propsIface    = "org.freedesktop.DBus.Properties"

	accessDenied = "org.freedesktop.DBus.Error.AccessDenied"

	// accuracyExact is GCLUE_ACCURACY_LEVEL_EXACT.
	accuracyExact = uint32(8)
)

// GeoClue asks the host's GeoClue2 daemon for one position fix. The desktop
// id must match a .desktop file that declares X-Geoclue-2-Client=true.
type GeoClue struct {
	desktopID string
	timeout   time.Duration
	connect   func() (*dbus.Conn, error)
}

// NewGeoClue creates a GeoClue locator.
func NewGeoClue(desktopID string, timeout time.Duration) *GeoClue {
	return &GeoClue{
		desktopID: desktopID,
		timeout:   timeout,
		connect:   func() (*dbus.Conn, error) { return dbus.ConnectSystemBus() },
	}
}

// Locate creates a GeoClue client, starts it, takes the first fix and stops it.
func (g *GeoClue) Locate(ctx context.Context) (models.Coordinate, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	bus, err := g.connect()
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: system bus: %w", ErrUnavailable, err)
	}
	defer bus.Close()

	var clientPath dbus.ObjectPath
	if err := bus.Object(geoService, managerPath).
		CallWithContext(ctx, managerIface+".CreateClient", 0).
		Store(&clientPath); err != nil {
		return models.Coordinate{}, classify("create client", err)
	}
	client := bus.Object(geoService, clientPath)

	props := []struct {
		name string
		val  interface{}
	}{
		{"DesktopId", g.desktopID},
		{"RequestedAccuracyLevel", accuracyExact},
	}
	for _, p := range props {
		call := client.CallWithContext(ctx, propsIface+".Set", 0, clientIface, p.name, dbus.MakeVariant(p.val))
		if call.Err != nil {
			return models.Coordinate{}, classify("set "+p.name, call.Err)
		}
	}

	// Subscribe before Start so the first update cannot be missed.
	signals := make(chan *dbus.Signal, 10)
	bus.Signal(signals)
	if err := bus.AddMatchSignal(
		dbus.WithMatchObjectPath(clientPath),
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return models.Coordinate{}, classify("add match", err)
	}

	if call := client.CallWithContext(ctx, clientIface+".Start", 0); call.Err != nil {
		return models.Coordinate{}, classify("start", call.Err)
	}
	defer func() {
		if call := client.Call(clientIface+".Stop", 0); call.Err != nil {
			logging.Debug().Err(call.Err).Msg("geoclue stop failed")
		}
	}()

	var v dbus.Variant
	if err := client.CallWithContext(ctx, propsIface+".Get", 0, clientIface, "Location").Store(&v); err == nil {
		if path, ok := v.Value().(dbus.ObjectPath); ok && hasLocation(path) {
			if c, err := readLocation(ctx, bus, path); err == nil {
				return c, nil
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return models.Coordinate{}, ErrUnavailable
			}
			return models.Coordinate{}, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return models.Coordinate{}, fmt.Errorf("%w: dbus connection closed", ErrUnavailable)
			}
			path, ok := locationFromSignal(sig, clientPath)
			if !ok {
				continue
			}
			c, err := readLocation(ctx, bus, path)
			if err != nil {
				logging.Debug().Err(err).Msg("geoclue location read failed")
				continue
			}
			return c, nil
		}
	}
}

func hasLocation(path dbus.ObjectPath) bool {
	return path != "" && path != "/"
}

// locationFromSignal extracts the new Location path from a
// PropertiesChanged signal on the client object.
func locationFromSignal(sig *dbus.Signal, clientPath dbus.ObjectPath) (dbus.ObjectPath, bool) {
	if sig == nil || sig.Path != clientPath || sig.Name != propsIface+".PropertiesChanged" || len(sig.Body) < 2 {
		return "", false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return "", false
	}
	v, ok := changed["Location"]
	if !ok {
		return "", false
	}
	path, ok := v.Value().(dbus.ObjectPath)
	if !ok || !hasLocation(path) {
		return "", false
	}
	return path, true
}

func readLocation(ctx context.Context, bus *dbus.Conn, path dbus.ObjectPath) (models.Coordinate, error) {
	var props map[string]dbus.Variant
	if err := bus.Object(geoService, path).
		CallWithContext(ctx, propsIface+".GetAll", 0, locationIface).
		Store(&props); err != nil {
		return models.Coordinate{}, err
	}
	return coordinateFromProps(props)
}

// coordinateFromProps reads Latitude and Longitude. A 0,0 fix is rejected
// as GeoClue's placeholder.
func coordinateFromProps(props map[string]dbus.Variant) (models.Coordinate, error) {
	lat, okLat := props["Latitude"].Value().(float64)
	lng, okLng := props["Longitude"].Value().(float64)
	if !okLat || !okLng {
		return models.Coordinate{}, errors.New("location lacks latitude or longitude")
	}
	if lat == 0 && lng == 0 {
		return models.Coordinate{}, errors.New("location is 0,0")
	}
	return models.Coordinate{Lat: lat, Lng: lng}, nil
}

func classify(step string, err error) error {
	if dbusErrorName(err) == accessDenied {
		return fmt.Errorf("%w: geoclue %s: %w", ErrPermissionDenied, step, err)
	}
	return fmt.Errorf("%w: geoclue %s: %w", ErrUnavailable, step, err)
}

func dbusErrorName(err error) string {
	var derr dbus.Error
	if errors.As(err, &derr) {
		return derr.Name
	}
	var pderr *dbus.Error
	if errors.As(err, &pderr) {
		return pderr.Name
	}
	return ""
}
