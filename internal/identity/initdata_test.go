// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package identity

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/models"
)

const testBotToken = "123456:TEST-token"

func signedInitData(t *testing.T, authDate time.Time, user string) string {
	t.Helper()
	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	v.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	if user != "" {
		v.Set("user", user)
	}
	v.Set("hash", Sign(testBotToken, v))
	return v.Encode()
}

func TestVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	user := `{"id":42,"username":"@alice","first_name":"Alice","last_name":"Smith"}`

	tests := []struct {
		name    string
		cfg     config.TelegramConfig
		raw     func(t *testing.T) string
		want    models.ViewerIdentity
		wantErr error
	}{
		{
			name: "valid",
			cfg:  config.TelegramConfig{BotToken: testBotToken},
			raw:  func(t *testing.T) string { return signedInitData(t, now, user) },
			want: models.ViewerIdentity{PrimaryHandle: "alice", DisplayName: "Alice Smith"},
		},
		{
			name: "no user",
			cfg:  config.TelegramConfig{BotToken: testBotToken},
			raw:  func(t *testing.T) string { return signedInitData(t, now, "") },
			want: models.ViewerIdentity{},
		},
		{
			name:    "wrong token",
			cfg:     config.TelegramConfig{BotToken: "other"},
			raw:     func(t *testing.T) string { return signedInitData(t, now, user) },
			wantErr: ErrInvalidInitData,
		},
		{
			name: "tampered",
			cfg:  config.TelegramConfig{BotToken: testBotToken},
			raw: func(t *testing.T) string {
				v, _ := url.ParseQuery(signedInitData(t, now, user))
				v.Set("user", `{"id":42,"username":"mallory"}`)
				return v.Encode()
			},
			wantErr: ErrInvalidInitData,
		},
		{
			name:    "missing hash",
			cfg:     config.TelegramConfig{BotToken: testBotToken},
			raw:     func(*testing.T) string { return "auth_date=1&user=%7B%7D" },
			wantErr: ErrInvalidInitData,
		},
		{
			name:    "expired",
			cfg:     config.TelegramConfig{BotToken: testBotToken, InitDataMaxAge: time.Hour},
			raw:     func(t *testing.T) string { return signedInitData(t, now.Add(-2*time.Hour), user) },
			wantErr: ErrInitDataExpired,
		},
		{
			name: "within max age",
			cfg:  config.TelegramConfig{BotToken: testBotToken, InitDataMaxAge: time.Hour},
			raw:  func(t *testing.T) string { return signedInitData(t, now.Add(-time.Minute), user) },
			want: models.ViewerIdentity{PrimaryHandle: "alice", DisplayName: "Alice Smith"},
		},
		{
			name: "skip verify",
			cfg:  config.TelegramConfig{InsecureSkipVerify: true},
			raw: func(*testing.T) string {
				return url.Values{"user": {`{"first_name":"Bob"}`}}.Encode()
			},
			want: models.ViewerIdentity{DisplayName: "Bob"},
		},
		{
			name:    "bad user json",
			cfg:     config.TelegramConfig{InsecureSkipVerify: true},
			raw:     func(*testing.T) string { return "user=%7Bnot-json" },
			wantErr: ErrInvalidInitData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := NewVerifier(tt.cfg)
			v.now = func() time.Time { return now }

			got, err := v.Verify(tt.raw(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDataCheckStringSortedWithoutHash(t *testing.T) {
	t.Parallel()

	v := url.Values{"user": {"u"}, "auth_date": {"1"}, "hash": {"x"}, "query_id": {"q"}}
	want := "auth_date=1\nquery_id=q\nuser=u"
	if got := dataCheckString(v); got != want {
		t.Errorf("dataCheckString() = %q, want %q", got, want)
	}
}

func TestNormalizeHandle(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"alice":    "alice",
		"@alice":   "alice",
		"  @bob  ": "bob",
		"@@x":      "@x",
		"":         "",
	}
	for in, want := range tests {
		if got := NormalizeHandle(in); got != want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIdentityFromUser(t *testing.T) {
	t.Parallel()

	got := IdentityFromUser(TelegramUser{FirstName: " Ana "})
	if got.DisplayName != "Ana" || got.PrimaryHandle != "" {
		t.Errorf("IdentityFromUser() = %+v", got)
	}
}
