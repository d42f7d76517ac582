// Package geocode resolves US postal codes to coordinates using a bundled
// offline dataset. No network calls are made; a code either resolves or it
// does not.
package geocode

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// us.tsv follows the GeoNames postal code column layout:
// country, postal code, place name, admin1 name, admin1 code, admin2 name,
// admin2 code, admin3 name, admin3 code, latitude, longitude, accuracy.
//
//go:embed data/us.tsv
var embeddedDataset []byte

// Location is a resolved postal code. Immutable once returned.
type Location struct {
	PostalCode string  `json:"postalCode"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	PlaceName  string  `json:"placeName"`
	StateCode  string  `json:"stateCode"`
}

// DisplayName returns "Place, ST", dropping the state part when absent.
func (l Location) DisplayName() string {
	if l.StateCode == "" {
		return l.PlaceName
	}
	return l.PlaceName + ", " + l.StateCode
}

// Resolver answers postal code lookups against an in-memory table.
type Resolver struct {
	byCode map[string]Location
}

// New builds a Resolver from the embedded dataset.
func New() (*Resolver, error) {
	return parse(bytes.NewReader(embeddedDataset))
}

// NewFromFile builds a Resolver from an external GeoNames-format TSV file.
func NewFromFile(path string) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geocode dataset: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Resolver, error) {
	byCode := make(map[string]Location)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 11 {
			// Short rows are skipped rather than failing the whole table.
			continue
		}

		lat, latErr := strconv.ParseFloat(fields[9], 64)
		lon, lonErr := strconv.ParseFloat(fields[10], 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		code := strings.TrimSpace(fields[1])
		if code == "" {
			continue
		}

		byCode[code] = Location{
			PostalCode: code,
			Latitude:   lat,
			Longitude:  lon,
			PlaceName:  strings.TrimSpace(fields[2]),
			StateCode:  strings.TrimSpace(fields[4]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read geocode dataset: %w", err)
	}

	if len(byCode) == 0 {
		return nil, fmt.Errorf("geocode dataset contains no usable rows")
	}

	return &Resolver{byCode: byCode}, nil
}

// Resolve looks up a postal code. The second return value reports whether the
// code is known; callers branch on it instead of inspecting sentinel field
// values. ZIP+4 input resolves through its five-digit prefix.
func (r *Resolver) Resolve(code string) (Location, bool) {
	code = strings.TrimSpace(code)

	if loc, ok := r.byCode[code]; ok {
		return loc, true
	}

	// "12345-6789" and "123456789" forms fall back to the base ZIP.
	if i := strings.IndexByte(code, '-'); i > 0 {
		code = code[:i]
	} else if len(code) == 9 {
		code = code[:5]
	}
	loc, ok := r.byCode[code]
	return loc, ok
}

// Size returns the number of postal codes in the table.
func (r *Resolver) Size() int {
	return len(r.byCode)
}
