// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package preferences

import "strings"

// keywordRule maps an answer to value when the lower-cased answer contains
// any of contains, or equals any of equals.
type keywordRule[T ~string] struct {
	value    T
	contains []string
	equals   []string
}

func (r keywordRule[T]) matches(x string) bool {
	for _, kw := range r.contains {
		if strings.Contains(x, kw) {
			return true
		}
	}
	for _, kw := range r.equals {
		if x == kw {
			return true
		}
	}
	return false
}

// classify returns the value of the first matching rule, or fallback.
func classify[T ~string](raw string, rules []keywordRule[T], fallback T) T {
	x := strings.ToLower(strings.TrimSpace(raw))
	if x == "" {
		return fallback
	}
	for _, r := range rules {
		if r.matches(x) {
			return r.value
		}
	}
	return fallback
}

// Rule order matters: the first match wins.
var (
	contentTypeRules = []keywordRule[ContentType]{
		{value: ContentMovie, contains: []string{"фильм"}, equals: []string{"movie"}},
		{value: ContentTV, contains: []string{"сериал"}, equals: []string{"tv"}},
	}

	audioRules = []keywordRule[AudioPref]{
		{value: AudioDub, contains: []string{"озвуч"}, equals: []string{"dub"}},
		{value: AudioSubs, contains: []string{"суб"}, equals: []string{"subs"}},
	}

	paceRules = []keywordRule[Pace]{
		{value: PaceFast, contains: []string{"динами"}, equals: []string{"fast", "dynamic"}},
		{value: PaceSlow, contains: []string{"мед", "атмос"}, equals: []string{"slow"}},
	}

	moodRules = []keywordRule[Mood]{
		{value: MoodLight, contains: []string{"лёг", "лег"}, equals: []string{"light"}},
		{value: MoodTense, contains: []string{"напр"}, equals: []string{"tense"}},
		{value: MoodInspiring, contains: []string{"вдох"}, equals: []string{"inspiring"}},
		{value: MoodDark, contains: []string{"мрач"}, equals: []string{"dark"}},
		{value: MoodThink, contains: []string{"подум", "think"}},
	}

	complexityRules = []keywordRule[Complexity]{
		{value: ComplexitySimple, contains: []string{"прост"}, equals: []string{"simple"}},
		{value: ComplexityComplex, contains: []string{"слож"}, equals: []string{"complex"}},
	}

	ageRules = []keywordRule[AgeLimit]{
		{value: Age18, contains: []string{"18"}},
		{value: Age16, contains: []string{"16"}},
	}
)

// NormalizeContentType maps a q1 answer. Default: both.
func NormalizeContentType(raw string) ContentType {
	return classify(raw, contentTypeRules, ContentBoth)
}

// NormalizeAudioPref maps a q3 answer. Default: any.
func NormalizeAudioPref(raw string) AudioPref {
	return classify(raw, audioRules, AudioAny)
}

// NormalizePace maps a q6 answer. Default: medium.
func NormalizePace(raw string) Pace {
	return classify(raw, paceRules, PaceMedium)
}

// NormalizeMood maps a q7 answer. Default: mixed.
func NormalizeMood(raw string) Mood {
	return classify(raw, moodRules, MoodMixed)
}

// NormalizeComplexity maps a q8 answer. Default: medium.
func NormalizeComplexity(raw string) Complexity {
	return classify(raw, complexityRules, ComplexityMedium)
}

// NormalizeAgeLimit maps a q9 age answer. Default: none.
func NormalizeAgeLimit(raw string) AgeLimit {
	return classify(raw, ageRules, AgeNone)
}
