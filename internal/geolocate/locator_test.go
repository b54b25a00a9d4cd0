// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package geolocate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/models"
)

func TestReportedCoordinate(t *testing.T) {
	t.Parallel()

	r := NewReported(time.Minute)
	want := models.Coordinate{Lat: 38.72, Lng: -9.14}

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = r.Report(want)
	}()

	got, err := r.Locate(context.Background())
	if err != nil || got != want {
		t.Fatalf("Locate() = %v, %v; want %v", got, err, want)
	}
}

func TestReportedDenied(t *testing.T) {
	t.Parallel()

	r := NewReported(time.Minute)
	if err := r.Deny(); err != nil {
		t.Fatalf("Deny() error = %v", err)
	}
	if _, err := r.Locate(context.Background()); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Locate() error = %v, want ErrPermissionDenied", err)
	}
}

func TestReportedFirstReportWins(t *testing.T) {
	t.Parallel()

	r := NewReported(0)
	first := models.Coordinate{Lat: 1, Lng: 1}
	if err := r.Report(first); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if err := r.Report(models.Coordinate{Lat: 2, Lng: 2}); !errors.Is(err, ErrAlreadyReported) {
		t.Errorf("second Report() error = %v, want ErrAlreadyReported", err)
	}
	if err := r.Deny(); !errors.Is(err, ErrAlreadyReported) {
		t.Errorf("Deny() after report error = %v, want ErrAlreadyReported", err)
	}
	got, err := r.Locate(context.Background())
	if err != nil || got != first {
		t.Errorf("Locate() = %v, %v; want %v", got, err, first)
	}
}

func TestReportedTimeout(t *testing.T) {
	t.Parallel()

	r := NewReported(10 * time.Millisecond)
	if _, err := r.Locate(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Locate() error = %v, want ErrUnavailable", err)
	}
}

func TestReportedContextCancel(t *testing.T) {
	t.Parallel()

	r := NewReported(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Locate() error = %v, want context.Canceled", err)
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	want := models.Coordinate{Lat: 39.60128890889341, Lng: -9.069839810859907}
	got, err := Static{Coordinate: want}.Locate(context.Background())
	if err != nil || got != want {
		t.Errorf("Locate() = %v, %v", got, err)
	}
}

func TestNewFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		check    func(Locator) bool
		wantErr  bool
	}{
		{config.LocatorClient, func(l Locator) bool { _, ok := l.(*Reported); return ok }, false},
		{config.LocatorGeoClue, func(l Locator) bool { _, ok := l.(*GeoClue); return ok }, false},
		{config.LocatorStatic, func(l Locator) bool { _, ok := l.(Static); return ok }, false},
		{"ipinfo", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Parallel()
			f, err := NewFactory(config.GeolocationConfig{Provider: tt.provider, Timeout: time.Second})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFactory() error = %v", err)
			}
			if !tt.check(f()) {
				t.Errorf("factory built %T", f())
			}
		})
	}
}

func TestClientFactoryBuildsIndependentLocators(t *testing.T) {
	t.Parallel()

	f, err := NewFactory(config.GeolocationConfig{Provider: config.LocatorClient})
	if err != nil {
		t.Fatal(err)
	}
	a, b := f().(*Reported), f().(*Reported)
	if err := a.Deny(); err != nil {
		t.Fatal(err)
	}
	if err := b.Report(models.Coordinate{Lat: 1, Lng: 1}); err != nil {
		t.Errorf("second session's locator shared state: %v", err)
	}
}

func TestCoordinateFromProps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		props   map[string]dbus.Variant
		want    models.Coordinate
		wantErr bool
	}{
		{
			name:  "fix",
			props: map[string]dbus.Variant{"Latitude": dbus.MakeVariant(52.52), "Longitude": dbus.MakeVariant(13.405), "Accuracy": dbus.MakeVariant(20.0)},
			want:  models.Coordinate{Lat: 52.52, Lng: 13.405},
		},
		{name: "placeholder", props: map[string]dbus.Variant{"Latitude": dbus.MakeVariant(0.0), "Longitude": dbus.MakeVariant(0.0)}, wantErr: true},
		{name: "missing", props: map[string]dbus.Variant{"Latitude": dbus.MakeVariant(1.0)}, wantErr: true},
		{name: "wrong type", props: map[string]dbus.Variant{"Latitude": dbus.MakeVariant("1"), "Longitude": dbus.MakeVariant(1.0)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := coordinateFromProps(tt.props)
			if tt.wantErr {
				if err == nil {
					t.Errorf("coordinateFromProps() = %v, want error", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("coordinateFromProps() = %v, %v", got, err)
			}
		})
	}
}

func TestLocationFromSignal(t *testing.T) {
	t.Parallel()

	client := dbus.ObjectPath("/org/freedesktop/GeoClue2/Client/1")
	loc := dbus.ObjectPath("/org/freedesktop/GeoClue2/Client/1/Location/0")
	changed := func(path dbus.ObjectPath) []interface{} {
		return []interface{}{clientIface, map[string]dbus.Variant{"Location": dbus.MakeVariant(path)}, []string{}}
	}

	tests := []struct {
		name   string
		sig    *dbus.Signal
		want   dbus.ObjectPath
		wantOK bool
	}{
		{"location", &dbus.Signal{Path: client, Name: propsIface + ".PropertiesChanged", Body: changed(loc)}, loc, true},
		{"root path", &dbus.Signal{Path: client, Name: propsIface + ".PropertiesChanged", Body: changed("/")}, "", false},
		{"other object", &dbus.Signal{Path: "/other", Name: propsIface + ".PropertiesChanged", Body: changed(loc)}, "", false},
		{"other signal", &dbus.Signal{Path: client, Name: clientIface + ".LocationUpdated", Body: changed(loc)}, "", false},
		{"short body", &dbus.Signal{Path: client, Name: propsIface + ".PropertiesChanged", Body: []interface{}{clientIface}}, "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := locationFromSignal(tt.sig, client)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("locationFromSignal() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	denied := dbus.Error{Name: accessDenied, Body: []interface{}{"not allowed"}}
	if err := classify("start", denied); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("classify(AccessDenied) = %v, want ErrPermissionDenied", err)
	}
	other := dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}
	if err := classify("create client", other); !errors.Is(err, ErrUnavailable) {
		t.Errorf("classify(ServiceUnknown) = %v, want ErrUnavailable", err)
	}
}

func TestGeoClueWithoutBus(t *testing.T) {
	t.Parallel()

	g := NewGeoClue("seruen", time.Second)
	g.connect = func() (*dbus.Conn, error) { return nil, errors.New("no system bus") }
	if _, err := g.Locate(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Locate() error = %v, want ErrUnavailable", err)
	}
}
