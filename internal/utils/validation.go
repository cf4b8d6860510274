package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Compiled regular expressions for validation
var (
	// Waypoint ids are positive decimal integers
	validIDPattern = regexp.MustCompile(`^[0-9]+$`)

	// Detect potentially dangerous characters - more focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	maxTextLength  = 200
	maxAboutLength = 4000
	maxZoom        = 22.0
)

// ValidateID validates that a waypoint id is a positive integer and returns it
func ValidateID(id string) (int64, error) {
	if id == "" {
		return 0, errors.New("id cannot be empty")
	}

	if len(id) > 19 {
		return 0, errors.New("id too long (max 19 digits)")
	}

	if !validIDPattern.MatchString(id) {
		return 0, errors.New("id contains invalid characters")
	}

	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil || value <= 0 {
		return 0, errors.New("id must be a positive integer")
	}

	return value, nil
}

// ValidateQuery validates geocoder search strings
func ValidateQuery(query string) error {
	// Empty queries are allowed
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	// Check for dangerous characters that could indicate injection attempts
	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// ValidateText validates the display text of a waypoint
func ValidateText(text string) error {
	if utf8.RuneCountInString(text) > maxTextLength {
		return errors.New("text too long (max 200 characters)")
	}
	return nil
}

// ValidateAbout validates the free-text notes of a waypoint
func ValidateAbout(about string) error {
	if utf8.RuneCountInString(about) > maxAboutLength {
		return errors.New("about too long (max 4000 characters)")
	}
	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateZoom validates map zoom levels
func ValidateZoom(zoom float64) error {
	if zoom < 0 || zoom > maxZoom {
		return errors.New("zoom must be between 0 and 22")
	}
	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	// Remove HTML tags
	sanitized := htmlTagPattern.ReplaceAllString(input, "")

	// Trim whitespace
	sanitized = strings.TrimSpace(sanitized)

	return sanitized
}

// ValidateLocationParams validates a position, collecting errors per field
func ValidateLocationParams(lat, lng float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lng); err != nil {
		fieldErrors["lng"] = append(fieldErrors["lng"], err.Error())
	}

	return fieldErrors
}

// ValidateAndSanitizeQuery validates and sanitizes a search query
func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}

	return SanitizeInput(query), nil
}
