// Package mapsurl validates and extracts Google Maps links.
package mapsurl

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// maxExtractLength bounds links picked out of free text.
const maxExtractLength = 2048

// Markers that identify a Google Maps link in a parsed URL string.
var markers = []string{
	"google.com/maps",
	"maps.app.goo.gl",
}

var (
	// ErrInvalidURL means the input is not an absolute URL.
	ErrInvalidURL = errors.New("please enter a valid URL")
	// ErrNotGoogleMaps means the URL does not point at Google Maps.
	ErrNotGoogleMaps = errors.New("please enter a valid Google Maps URL")
)

var candidateRegex = regexp.MustCompile(`https?://[^\s<>"']+`)

// Markers returns the substrings that identify a Google Maps link.
func Markers() []string {
	return append([]string(nil), markers...)
}

// Parse reports whether raw is an absolute URL and returns it parsed.
func Parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, ErrInvalidURL
	}

	if isWeb(u.Scheme) && u.Host == "" {
		// browsers read https:host/path and https:/host/path as https://host/path
		rest := strings.TrimLeft(raw[len(u.Scheme)+1:], `/\`)
		if rest == "" {
			return nil, ErrInvalidURL
		}
		if u, err = url.Parse(u.Scheme + "://" + rest); err != nil || strings.TrimSpace(u.Host) == "" {
			return nil, ErrInvalidURL
		}
	}

	return u, nil
}

func isWeb(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// Validate runs the export preconditions in order and stops at the first failure.
func Validate(raw string) (*url.URL, error) {
	u, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if !IsGoogleMaps(u) {
		return nil, ErrNotGoogleMaps
	}
	return u, nil
}

// IsGoogleMaps reports whether the full URL string carries a Google Maps marker.
func IsGoogleMaps(u *url.URL) bool {
	s := u.String()
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Extract returns the first http(s) URL found in free text, or "".
// Share payloads and clipboard content often wrap the link in prose.
func Extract(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, candidate := range candidateRegex.FindAllString(text, -1) {
		candidate = strings.TrimRight(candidate, ".,;:!?)]}")
		if len(candidate) > maxExtractLength {
			continue
		}
		u, err := Parse(candidate)
		if err != nil || !isWeb(u.Scheme) {
			continue
		}
		return u.String()
	}
	return ""
}
