// Package metar models aviation weather reports fetched from the AWC data API.
package metar

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Default markers delimiting the raw observation inside an XML payload.
const (
	DefaultStartMarker = "<raw_text>"
	DefaultEndMarker   = "</raw_text>"
)

// ErrNoReport is returned when a response document holds no METAR element.
var ErrNoReport = errors.New("metar: no report in response")

// MarkerError is returned when a payload is missing an extraction marker.
type MarkerError struct {
	Marker string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("payload missing marker %q", e.Marker)
}

// Report is a single decoded METAR observation.
type Report struct {
	RawText             string    `xml:"raw_text"`
	StationID           string    `xml:"station_id"`
	ObservationTime     time.Time `xml:"observation_time"`
	TempC               float64   `xml:"temp_c"`
	DewpointC           float64   `xml:"dewpoint_c"`
	WindDirDegrees      int       `xml:"wind_dir_degrees"`
	WindSpeedKt         int       `xml:"wind_speed_kt"`
	VisibilityStatuteMi float64   `xml:"visibility_statute_mi"`
	AltimInHg           float64   `xml:"altim_in_hg"`
	FlightCategory      string    `xml:"flight_category"`
}

type response struct {
	XMLName xml.Name `xml:"response"`
	Errors  []string `xml:"errors>error"`
	Data    struct {
		NumResults int      `xml:"num_results,attr"`
		Reports    []Report `xml:"METAR"`
	} `xml:"data"`
}

// Decode parses an AWC XML response and returns its first METAR.
func Decode(payload []byte) (*Report, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, errors.New("metar: empty payload")
	}
	var resp response
	if err := xml.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode metar xml: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("metar: server error: %s", strings.Join(resp.Errors, "; "))
	}
	if len(resp.Data.Reports) == 0 {
		return nil, ErrNoReport
	}
	report := resp.Data.Reports[0]
	report.RawText = strings.TrimSpace(report.RawText)
	return &report, nil
}

// ExtractRaw returns the text between the start and end markers.
// Empty markers fall back to the raw_text defaults. It is the tolerant
// path for payloads the strict decoder rejects.
func ExtractRaw(payload []byte, start, end string) (string, error) {
	if start == "" {
		start = DefaultStartMarker
	}
	if end == "" {
		end = DefaultEndMarker
	}
	text := string(payload)
	from := strings.Index(text, start)
	if from < 0 {
		return "", &MarkerError{Marker: start}
	}
	from += len(start)
	to := strings.Index(text[from:], end)
	if to < 0 {
		return "", &MarkerError{Marker: end}
	}
	return strings.TrimSpace(text[from : from+to]), nil
}

// Age reports how old the observation is relative to now.
func (r *Report) Age(now time.Time) time.Duration {
	if r == nil || r.ObservationTime.IsZero() {
		return 0
	}
	age := now.Sub(r.ObservationTime)
	if age < 0 {
		return 0
	}
	return age
}
