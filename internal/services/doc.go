// Package services implements the HTTP gateways behind courtside.
//
// # Sports Gateway
//
// [SportsDBService] implements [SportsGateway] against TheSportsDB's public JSON API.
// Requests are rate limited with [rate.Limiter] and never retried; callers decide when to try again.
//
// Responses are decoded into wire records that tolerate the feed's loose typing
// (numbers that arrive as strings, numbers or null) and are checked with
// [validator.Validate] before being mapped to [models.Match] and [models.TeamStanding].
// Records missing their identity are dropped and logged at debug level.
//
// When the league table endpoint is empty or unavailable the gateway builds
// simulated standings from the league's team roster. Those rows are flagged
// with [models.TeamStanding.Simulated].
//
// # Auth Gateway
//
// [AuthService] logs in against DummyJSON and simulates registration locally.
// [AuthService.Me] uses an [oauth2] bearer-token client to fetch the profile for a stored token.
//
// # Raw Requests
//
// [APIService] performs unprocessed GET requests for debugging.
//
// # Error Handling
//
// Gateways use typed errors from shared package:
//   - [shared.ErrNetwork] : unreachable API, non-2xx status or malformed payload
//   - [shared.ErrMatchNotFound] : event lookup returned nothing
//   - [shared.ErrStandingsUnavailable] : neither the table nor the roster could be fetched
//   - [shared.ErrAuthFailed] : login rejected, carrying the API's message
//   - [shared.ErrMissingArgument] : empty credentials
package services
