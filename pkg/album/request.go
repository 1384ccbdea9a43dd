// Package album holds the inbound poster request and everything needed to
// turn it into layout input: field validation, track normalization,
// resolution parsing and artwork URL rewriting.
//
// A request arrives as JSON:
//
//	{
//	  "name": "Abbey Road",
//	  "artist": "The Beatles",
//	  "year": 1969,
//	  "artwork": "https://is1-ssl.mzstatic.com/image/thumb/.../600x600bb.jpg",
//	  "tracklist": [{"trackName": "Come Together", "trackTimeMillis": 259947}],
//	  "copyright": "℗ 2019 Apple Corps Ltd.",
//	  "resolution": "1440x1920"
//	}
//
// name, artist, year, artwork and tracklist are required; copyright and
// resolution are optional. An empty tracklist is valid and produces a poster
// without tracks.
package album

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/poster/layout"
)

// Field length limits, in runes.
const (
	maxTextLen      = 500
	maxCopyrightLen = 1000
	maxTracks       = 500
)

// Request is one poster request.
type Request struct {
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Year       Year    `json:"year"`
	Artwork    string  `json:"artwork"`
	Tracklist  []Track `json:"tracklist"`
	Copyright  string  `json:"copyright,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
}

// Track is one entry of the request's tracklist.
type Track struct {
	TrackName       string `json:"trackName"`
	TrackTimeMillis int64  `json:"trackTimeMillis"`
}

// Year accepts either a JSON number or a JSON string.
type Year string

// UnmarshalJSON implements json.Unmarshaler. null leaves the year empty.
func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*y = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "year must be a number or a string")
		}
		*y = Year(n.String())
		return nil
	}
}

// String returns the year as drawn on the poster.
func (y Year) String() string { return string(y) }

// Decode parses a JSON request body. Unknown fields are ignored.
func Decode(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		if errors.GetCode(err) != "" {
			return Request{}, err
		}
		return Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return req, nil
}

// Validate checks required fields in a fixed order and reports the first
// one missing as "No <field> given". It then checks field contents.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.Missing("name")
	case strings.TrimSpace(r.Artist) == "":
		return errors.Missing("artist")
	case r.Year == "":
		return errors.Missing("year")
	case strings.TrimSpace(r.Artwork) == "":
		return errors.Missing("artwork")
	case r.Tracklist == nil:
		return errors.Missing("tracklist")
	}

	checks := []struct {
		field, value string
		limit        int
	}{
		{"name", r.Name, maxTextLen},
		{"artist", r.Artist, maxTextLen},
		{"year", r.Year.String(), 32},
		{"copyright", r.Copyright, maxCopyrightLen},
	}
	for _, c := range checks {
		if err := errors.ValidateText(c.field, c.value, c.limit); err != nil {
			return err
		}
	}
	if err := errors.ValidateURL(r.Artwork); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArtwork, err, "invalid artwork URL")
	}
	if len(r.Tracklist) > maxTracks {
		return errors.New(errors.ErrCodeInvalidInput, "tracklist too long (max %d tracks)", maxTracks)
	}
	for i, t := range r.Tracklist {
		if err := errors.ValidateText("trackName", t.TrackName, maxTextLen); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "track %d", i+1)
		}
	}
	return nil
}

// Entries returns the tracklist as layout entries with featured-artist
// suffixes stripped from the names.
func (r Request) Entries() []layout.TrackEntry {
	entries := make([]layout.TrackEntry, len(r.Tracklist))
	for i, t := range r.Tracklist {
		entries[i] = layout.TrackEntry{
			Name:           StripFeatured(t.TrackName),
			DurationMillis: t.TrackTimeMillis,
		}
	}
	return entries
}

// featuredMarkers open the parenthetical that credits guest artists.
// Other parentheticals such as "(Live)" or "(Remastered)" are kept.
var featuredMarkers = []string{"(feat.", "(with"}

// StripFeatured removes a "(feat. …)" or "(with …)" suffix from a track
// name. A name that would become empty is returned trimmed but otherwise
// unchanged.
func StripFeatured(name string) string {
	out := name
	for _, m := range featuredMarkers {
		if head, _, ok := strings.Cut(out, m); ok {
			out = strings.TrimSpace(head)
		}
	}
	if out == "" {
		return strings.TrimSpace(name)
	}
	return out
}
