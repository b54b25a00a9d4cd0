// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

// Package identity turns the mini-app's Telegram launch payload into a
// ViewerIdentity and resolves that identity against the recommendation
// backend.
//
// Resolution is keyed by the primary handle. When the backend does not know
// the handle and a display name exists, the lookup is retried exactly once
// with the display name. Backend errors are never retried here; the
// recommendation client owns retry and circuit breaking.
//
//	v := identity.NewVerifier(cfg.Telegram)
//	viewer, err := v.Verify(initData)
//
//	r := identity.NewResolver(recommendClient)
//	res, err := r.Resolve(ctx, viewer)
//	switch {
//	case errors.Is(err, identity.ErrNoIdentity), errors.Is(err, identity.ErrNotFound):
//	    // identity_error
//	case err != nil:
//	    // failed
//	}
package identity
