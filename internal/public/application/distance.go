package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

const earthRadiusMiles = 3958.8

// DistanceAnnotator orders listings by proximity to a zip code.
type DistanceAnnotator struct {
	geocoder Geocoder
}

// NewDistanceAnnotator returns an annotator backed by geocoder. A nil
// geocoder makes Annotate a pass-through.
func NewDistanceAnnotator(geocoder Geocoder) *DistanceAnnotator {
	return &DistanceAnnotator{geocoder: geocoder}
}

// Annotate attaches the distance in miles from anchorZip to every listing
// whose zip can be resolved and sorts ascending by it. Listings without a
// resolvable zip keep a nil Distance and follow the resolved ones in their
// original order. When there is no anchor, no geocoder, or the anchor cannot
// be resolved, listings come back unchanged.
func (a *DistanceAnnotator) Annotate(ctx context.Context, listings []domain.Contractor, anchorZip string) ([]domain.Contractor, error) {
	anchorZip = NormalizeZip(anchorZip)
	if a == nil || a.geocoder == nil || anchorZip == "" || len(listings) == 0 {
		return listings, nil
	}

	zips := []string{anchorZip}
	seen := map[string]struct{}{anchorZip: {}}
	for _, c := range listings {
		zip := NormalizeZip(c.Zip)
		if zip == "" {
			continue
		}
		if _, ok := seen[zip]; ok {
			continue
		}
		seen[zip] = struct{}{}
		zips = append(zips, zip)
	}

	coords, err := a.geocoder.Lookup(ctx, zips)
	if err != nil {
		return nil, fmt.Errorf("geocode zips: %w", err)
	}
	anchor, ok := coords[anchorZip]
	if !ok {
		return listings, nil
	}

	annotated := make([]domain.Contractor, len(listings))
	copy(annotated, listings)
	for i := range annotated {
		annotated[i].Distance = nil
		point, ok := coords[NormalizeZip(annotated[i].Zip)]
		if !ok {
			continue
		}
		miles := HaversineMiles(anchor, point)
		annotated[i].Distance = &miles
	}

	sort.SliceStable(annotated, func(i, j int) bool {
		di, dj := annotated[i].Distance, annotated[j].Distance
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
	return annotated, nil
}

// HaversineMiles is the great-circle distance between two points.
func HaversineMiles(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// NormalizeZip keeps the first five digits of value, or returns "" when it
// has fewer than five.
func NormalizeZip(value string) string {
	digits := DigitsOnly(strings.TrimSpace(value))
	if len(digits) < 5 {
		return ""
	}
	return digits[:5]
}
