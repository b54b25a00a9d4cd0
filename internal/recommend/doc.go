// Seruen - Event Map for Telegram Mini Apps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seruen

/*
Package recommend fetches a viewer's event recommendations from the Seruen
backend.

	GET {base_url}/users/{identifier}/recommendations

Every lookup resolves to a tagged Result so callers never inspect HTTP
status codes themselves:

  - Found: 200 with a JSON array (possibly empty)
  - NotFound: 404, the identifier is unknown to the backend
  - Error: any other status, a transport failure, an undecodable body, or a
    rejection by the circuit breaker

HTTP 429 responses are retried with exponential backoff, honouring
Retry-After, before being classified. NotFound does not count against the
circuit breaker.

Records are validated on the way in; a ticketLink that is not an http(s)
URL is blanked because the mini-app opens it in a new browsing context.
*/
package recommend
