// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package models holds types shared between the preference, catalog, and
// recommendation packages.
package models

import "strings"

// MediaKind classifies a catalog item.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// AllKinds lists the supported media kinds in query order.
var AllKinds = []MediaKind{KindMovie, KindTV}

// Valid reports whether k is movie or tv.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindTV
}

func (k MediaKind) String() string {
	return string(k)
}

// ParseMediaKind parses a trimmed, case-insensitive kind name.
func ParseMediaKind(s string) (MediaKind, bool) {
	k := MediaKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

// ItemKey is the identity of a catalog item. IDs are only unique per kind.
type ItemKey struct {
	ID   int       `json:"tmdb_id"`
	Kind MediaKind `json:"media_type"`
}
