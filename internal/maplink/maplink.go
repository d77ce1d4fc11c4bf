// Package maplink extracts coordinates from shared maps links and builds
// navigation deep links.
package maplink

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"courier-tracking-service/internal/domain"
)

const num = `(-?\d+(?:\.\d+)?)`

// Patterns are tried in order; the first match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`@` + num + `,\s*` + num),
	regexp.MustCompile(`[?&]q=` + num + `,\s*` + num),
	regexp.MustCompile(`/place/` + num + `,\s*` + num),
	regexp.MustCompile(`[?&]ll=` + num + `,\s*` + num),
	regexp.MustCompile(`[?&]destination=` + num + `,\s*` + num),
}

// Extract returns the coordinates embedded in a maps link. ok is false when
// no known pattern matches or the matched pair is out of range.
func Extract(link string) (c domain.Coordinates, ok bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return domain.Coordinates{}, false
	}

	// Shared links often arrive percent-encoded (%2C for the comma).
	if decoded, err := url.QueryUnescape(link); err == nil {
		link = decoded
	}

	for _, re := range patterns {
		m := re.FindStringSubmatch(link)
		if m == nil {
			continue
		}

		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}

		c = domain.Coordinates{Lat: lat, Lng: lng}
		if !c.Valid() {
			continue
		}
		return c, true
	}

	return domain.Coordinates{}, false
}

// DirectionsURL builds the "open navigation" deep link to c.
func DirectionsURL(c domain.Coordinates) string {
	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&destination=%s,%s",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lng, 'f', -1, 64),
	)
}

// PlaceURL links to a single point, used when a shared location has no URL.
func PlaceURL(c domain.Coordinates) string {
	return fmt.Sprintf(
		"https://www.google.com/maps?q=%s,%s",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lng, 'f', -1, 64),
	)
}
