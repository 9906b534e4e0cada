// Package models defines the domain entities shared by the gateway, the core and the presentation layers.
//
// The package contains two categories of types:
//
// 1. External records, read-only data decoded at the gateway boundary
//   - [Match] : A fixture with teams, schedule and optional scores
//   - [TeamStanding] : A team's season record as published by the feed, counts kept as text
//
// 2. Derived and session values
//   - [RankedTeam] : A display-ready standings row computed by the standings package
//   - [User] : The authenticated session profile
//
// Nothing in this package performs I/O.
package models
