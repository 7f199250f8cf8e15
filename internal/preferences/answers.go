// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// QuestionKey identifies an onboarding step whose answer is stored as text.
type QuestionKey string

const (
	QuestionContentType QuestionKey = "q1"
	QuestionLanguages   QuestionKey = "q2"
	QuestionAudio       QuestionKey = "q3"
	QuestionGenres      QuestionKey = "q4"
	QuestionAvoid       QuestionKey = "q5"
	QuestionPace        QuestionKey = "q6"
	QuestionMood        QuestionKey = "q7"
	QuestionComplexity  QuestionKey = "q8"
	QuestionAgeLimit    QuestionKey = "q9"
)

// Questions lists every stored question in onboarding order.
var Questions = []QuestionKey{
	QuestionContentType, QuestionLanguages, QuestionAudio,
	QuestionGenres, QuestionAvoid, QuestionPace,
	QuestionMood, QuestionComplexity, QuestionAgeLimit,
}

// ErrUnknownQuestion is returned for keys outside q1..q9.
var ErrUnknownQuestion = errors.New("unknown question key")

// ParseQuestionKey validates a question key.
func ParseQuestionKey(s string) (QuestionKey, error) {
	k := QuestionKey(strings.ToLower(strings.TrimSpace(s)))
	for _, q := range Questions {
		if q == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestion, s)
}

// StepAnswer is the decoded answer of one onboarding step. The concrete type
// depends on the question.
type StepAnswer interface {
	Question() QuestionKey
}

// ContentTypeAnswer is the decoded q1.
type ContentTypeAnswer struct{ Value ContentType }

// LanguagesAnswer is the decoded q2 envelope {languages, other_text}.
type LanguagesAnswer struct {
	Languages []string
	OtherText string
}

// AudioAnswer is the decoded q3.
type AudioAnswer struct{ Value AudioPref }

// GenresAnswer is the decoded q4 envelope {genres, other_text}.
type GenresAnswer struct {
	Genres    []string
	OtherText string
}

// AvoidAnswer is the decoded q5 envelope {avoid_genres, avoid_topics, other_text}.
type AvoidAnswer struct {
	Genres    []string
	Topics    []string
	OtherText string
}

// PaceAnswer is the decoded q6.
type PaceAnswer struct{ Value Pace }

// MoodAnswer is the decoded q7.
type MoodAnswer struct{ Value Mood }

// ComplexityAnswer is the decoded q8.
type ComplexityAnswer struct{ Value Complexity }

// AgeAnswer is the decoded q9. Only the JSON form {age_limit, flags} carries flags.
type AgeAnswer struct {
	Limit AgeLimit
	Flags []string
}

func (ContentTypeAnswer) Question() QuestionKey { return QuestionContentType }
func (LanguagesAnswer) Question() QuestionKey   { return QuestionLanguages }
func (AudioAnswer) Question() QuestionKey       { return QuestionAudio }
func (GenresAnswer) Question() QuestionKey      { return QuestionGenres }
func (AvoidAnswer) Question() QuestionKey       { return QuestionAvoid }
func (PaceAnswer) Question() QuestionKey        { return QuestionPace }
func (MoodAnswer) Question() QuestionKey        { return QuestionMood }
func (ComplexityAnswer) Question() QuestionKey  { return QuestionComplexity }
func (AgeAnswer) Question() QuestionKey         { return QuestionAgeLimit }

// DecodeAnswer decodes a stored raw answer for key. Malformed content yields
// the step default; only an unknown key is an error.
func DecodeAnswer(key QuestionKey, raw string) (StepAnswer, error) {
	switch key {
	case QuestionContentType:
		return ContentTypeAnswer{Value: NormalizeContentType(raw)}, nil
	case QuestionLanguages:
		return decodeLanguages(raw), nil
	case QuestionAudio:
		return AudioAnswer{Value: NormalizeAudioPref(raw)}, nil
	case QuestionGenres:
		return decodeGenres(raw), nil
	case QuestionAvoid:
		return decodeAvoid(raw), nil
	case QuestionPace:
		return PaceAnswer{Value: NormalizePace(raw)}, nil
	case QuestionMood:
		return MoodAnswer{Value: NormalizeMood(raw)}, nil
	case QuestionComplexity:
		return ComplexityAnswer{Value: NormalizeComplexity(raw)}, nil
	case QuestionAgeLimit:
		return decodeAge(raw), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, key)
	}
}

func decodeLanguages(raw string) LanguagesAnswer {
	var env struct {
		Languages stringList `json:"languages"`
		OtherText looseString `json:"other_text"`
	}
	if !decodeEnvelope(raw, &env) {
		return LanguagesAnswer{Languages: []string{}}
	}
	return LanguagesAnswer{Languages: env.Languages.values(), OtherText: string(env.OtherText)}
}

func decodeGenres(raw string) GenresAnswer {
	var env struct {
		Genres    stringList  `json:"genres"`
		OtherText looseString `json:"other_text"`
	}
	if !decodeEnvelope(raw, &env) {
		return GenresAnswer{Genres: []string{}}
	}
	return GenresAnswer{Genres: env.Genres.values(), OtherText: string(env.OtherText)}
}

func decodeAvoid(raw string) AvoidAnswer {
	var env struct {
		Genres    stringList  `json:"avoid_genres"`
		Topics    stringList  `json:"avoid_topics"`
		OtherText looseString `json:"other_text"`
	}
	if !decodeEnvelope(raw, &env) {
		return AvoidAnswer{Genres: []string{}, Topics: []string{}}
	}
	return AvoidAnswer{Genres: env.Genres.values(), Topics: env.Topics.values(), OtherText: string(env.OtherText)}
}

func decodeAge(raw string) AgeAnswer {
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return AgeAnswer{Limit: NormalizeAgeLimit(raw), Flags: []string{}}
	}
	var env struct {
		AgeLimit looseString `json:"age_limit"`
		Flags    stringList  `json:"flags"`
	}
	if !decodeEnvelope(raw, &env) {
		return AgeAnswer{Limit: AgeNone, Flags: []string{}}
	}
	return AgeAnswer{Limit: NormalizeAgeLimit(string(env.AgeLimit)), Flags: env.Flags.values()}
}

// decodeEnvelope reports whether raw is a JSON object that decoded into dst.
func decodeEnvelope(raw string, dst any) bool {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

// stringList accepts a JSON list or a bare string. Elements are stringified
// and trimmed; empty elements are dropped. Any other shape decodes as empty.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*l = nil
		return nil
	}
	switch x := v.(type) {
	case string:
		*l = appendTrimmed(nil, x)
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := scalarString(e); ok {
				out = appendTrimmed(out, s)
			}
		}
		*l = out
	default:
		*l = nil
	}
	return nil
}

func (l stringList) values() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// looseString accepts a JSON string or number; anything else is "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	str, _ := scalarString(v)
	*s = looseString(str)
	return nil
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func appendTrimmed(dst []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		dst = append(dst, s)
	}
	return dst
}
