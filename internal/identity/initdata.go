// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seruen/internal/config"
	"github.com/tomtom215/seruen/internal/models"
)

// webAppDataKey is the fixed HMAC key Telegram uses to derive the secret.
const webAppDataKey = "WebAppData"

var (
	// ErrInvalidInitData is returned for payloads that cannot be parsed or
	// whose signature does not match.
	ErrInvalidInitData = errors.New("invalid init data")

	// ErrInitDataExpired is returned when auth_date is older than the configured max age.
	ErrInitDataExpired = errors.New("init data expired")
)

// TelegramUser is the subset of the initData "user" object Seruen reads.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Verifier checks Telegram WebApp initData signatures.
type Verifier struct {
	botToken   string
	maxAge     time.Duration
	skipVerify bool
	now        func() time.Time
}

// NewVerifier creates a verifier from the telegram config section.
func NewVerifier(cfg config.TelegramConfig) *Verifier {
	return &Verifier{
		botToken:   cfg.BotToken,
		maxAge:     cfg.InitDataMaxAge,
		skipVerify: cfg.InsecureSkipVerify,
		now:        time.Now,
	}
}

// Verify validates raw initData and returns the viewer it describes.
// A payload without a user object yields an empty identity, which the
// resolver rejects with ErrNoIdentity.
func (v *Verifier) Verify(raw string) (models.ViewerIdentity, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return models.ViewerIdentity{}, fmt.Errorf("%w: %w", ErrInvalidInitData, err)
	}

	if !v.skipVerify {
		if err := v.checkSignature(values); err != nil {
			return models.ViewerIdentity{}, err
		}
		if err := v.checkAge(values.Get("auth_date")); err != nil {
			return models.ViewerIdentity{}, err
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return models.ViewerIdentity{}, nil
	}
	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return models.ViewerIdentity{}, fmt.Errorf("%w: user: %w", ErrInvalidInitData, err)
	}
	return IdentityFromUser(user), nil
}

func (v *Verifier) checkSignature(values url.Values) error {
	got := values.Get("hash")
	if got == "" {
		return fmt.Errorf("%w: missing hash", ErrInvalidInitData)
	}
	want := Sign(v.botToken, values)
	if !hmac.Equal([]byte(strings.ToLower(got)), []byte(want)) {
		return fmt.Errorf("%w: hash mismatch", ErrInvalidInitData)
	}
	return nil
}

func (v *Verifier) checkAge(authDate string) error {
	if v.maxAge <= 0 {
		return nil
	}
	secs, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: auth_date: %w", ErrInvalidInitData, err)
	}
	if v.now().Sub(time.Unix(secs, 0)) > v.maxAge {
		return ErrInitDataExpired
	}
	return nil
}

// Sign computes the hex initData hash for values (any "hash" key is ignored).
func Sign(botToken string, values url.Values) string {
	secret := hmacSHA256([]byte(webAppDataKey), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(dataCheckString(values))))
}

// dataCheckString joins the sorted key=value pairs, excluding hash, with newlines.
func dataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	return strings.Join(pairs, "\n")
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// IdentityFromUser maps a Telegram user to a ViewerIdentity.
func IdentityFromUser(u TelegramUser) models.ViewerIdentity {
	return models.ViewerIdentity{
		PrimaryHandle: NormalizeHandle(u.Username),
		DisplayName:   strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName)),
	}
}

// NormalizeHandle trims whitespace and a single leading '@'.
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	return strings.TrimPrefix(handle, "@")
}
