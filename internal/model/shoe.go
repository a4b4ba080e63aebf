package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// MinShoeSize is the smallest accepted shoe size.
	MinShoeSize = 20
	// MaxShoeSize is the largest accepted shoe size.
	MaxShoeSize = 50
)

// Season enumerates the seasons a shoe is meant for.
type Season string

const (
	// SeasonSummer is a summer shoe.
	SeasonSummer Season = "Summer"
	// SeasonAutumnSpring is a shoe for autumn and spring.
	SeasonAutumnSpring Season = "Autumn/Spring"
	// SeasonWinter is a winter shoe.
	SeasonWinter Season = "Winter"
)

// Seasons returns all known seasons in display order.
func Seasons() []Season {
	return []Season{SeasonSummer, SeasonAutumnSpring, SeasonWinter}
}

// ParseSeason matches s case-insensitively against the known seasons.
func ParseSeason(s string) (Season, bool) {
	s = strings.TrimSpace(s)
	for _, season := range Seasons() {
		if strings.EqualFold(s, string(season)) {
			return season, true
		}
	}
	return "", false
}

func (s Season) String() string {
	return string(s)
}

// ShoeFields is the mutable part of a shoe document.
type ShoeFields struct {
	Size     float64 `json:"size" firestore:"size"`
	Season   Season  `json:"season" firestore:"season"`
	ImageURL string  `json:"imageUrl" firestore:"imageUrl"`
	Details  string  `json:"details" firestore:"details"`
}

// Shoe is a persisted shoe record.
type Shoe struct {
	ID string `json:"id" firestore:"-"`
	ShoeFields
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// FormatSize renders a size the way it is searched and exported: 42, 42.5.
func FormatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}

// Candidate is raw, unvalidated user input for a shoe.
type Candidate struct {
	Size     string
	Season   string
	ImageURL string
	Details  string
}

// CandidateFromShoe prefills a candidate from an existing record, e.g. for editing.
func CandidateFromShoe(s Shoe) Candidate {
	return Candidate{
		Size:     FormatSize(s.Size),
		Season:   s.Season.String(),
		ImageURL: s.ImageURL,
		Details:  s.Details,
	}
}

// Validate checks a candidate and returns normalized fields.
func Validate(c Candidate) (ShoeFields, error) {
	raw := strings.TrimSpace(c.Size)
	if raw == "" {
		return ShoeFields{}, &ValidationError{Field: "size", Reason: "shoe size is required"}
	}

	size, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(size) || math.IsInf(size, 0) {
		return ShoeFields{}, &ValidationError{Field: "size", Reason: "shoe size must be a number"}
	}

	if size < MinShoeSize || size > MaxShoeSize {
		return ShoeFields{}, &ValidationError{Field: "size", Reason: "shoe size must be between 20 and 50"}
	}

	season, ok := ParseSeason(c.Season)
	if !ok {
		return ShoeFields{}, &ValidationError{Field: "season", Reason: "season must be one of Summer, Autumn/Spring, Winter"}
	}

	return ShoeFields{
		Size:     size,
		Season:   season,
		ImageURL: strings.TrimSpace(c.ImageURL),
		Details:  strings.TrimSpace(c.Details),
	}, nil
}
