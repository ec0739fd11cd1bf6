package zoning

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// Fields names the DBF attributes that carry zone data
type Fields struct {
	Name   string
	Height string
	Uses   string
}

// Zone is the zoning data of the polygon containing a point
type Zone struct {
	Name          string
	MaxHeight     *float64
	PermittedUses *string
	Attributes    map[string]string
}

type feature struct {
	parts  [][][2]float64 // closed rings of [lat, lon]
	attrs  map[string]string
	minLat float64
	minLon float64
	maxLat float64
	maxLon float64
}

// Resolver answers point-in-zone queries against polygons loaded from shapefiles
type Resolver struct {
	features []feature
	fields   Fields
}

// Load reads every shapefile in paths. Later layers are searched after earlier ones.
func Load(fields Fields, paths ...string) (*Resolver, error) {
	r := &Resolver{fields: fields}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		feats, err := loadShapefile(path)
		if err != nil {
			return nil, fmt.Errorf("load zoning shapefile %s: %w", path, err)
		}
		r.features = append(r.features, feats...)
	}
	return r, nil
}

func loadShapefile(path string) ([]feature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	fields := reader.Fields()

	var features []feature
	for reader.Next() {
		idx, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		f := feature{
			parts:  make([][][2]float64, len(poly.Parts)),
			attrs:  make(map[string]string, len(fields)),
			minLat: math.MaxFloat64,
			minLon: math.MaxFloat64,
			maxLat: -math.MaxFloat64,
			maxLon: -math.MaxFloat64,
		}

		for partIdx := range poly.Parts {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < len(poly.Parts) {
				end = poly.Parts[partIdx+1]
			}
			ring := make([][2]float64, 0, end-start)
			for _, pt := range poly.Points[start:end] {
				ring = append(ring, [2]float64{pt.Y, pt.X})
				f.minLat = math.Min(f.minLat, pt.Y)
				f.maxLat = math.Max(f.maxLat, pt.Y)
				f.minLon = math.Min(f.minLon, pt.X)
				f.maxLon = math.Max(f.maxLon, pt.X)
			}
			f.parts[partIdx] = ring
		}

		for i, field := range fields {
			f.attrs[field.String()] = strings.Trim(reader.ReadAttribute(idx, i), " \x00")
		}
		features = append(features, f)
	}
	return features, nil
}

// Len reports how many polygons are loaded
func (r *Resolver) Len() int {
	return len(r.features)
}

// Lookup returns the zone of the first polygon containing the point.
func (r *Resolver) Lookup(lat, lon float64) (Zone, bool) {
	for _, f := range r.features {
		if lat < f.minLat || lat > f.maxLat || lon < f.minLon || lon > f.maxLon {
			continue
		}
		if f.contains(lat, lon) {
			return r.zoneFrom(f.attrs), true
		}
	}
	return Zone{}, false
}

// contains applies the even-odd rule across all rings, so a point inside an
// inner ring (hole) is outside the feature.
func (f feature) contains(lat, lon float64) bool {
	inside := false
	for _, ring := range f.parts {
		if pointInPolygon(lat, lon, ring) {
			inside = !inside
		}
	}
	return inside
}

func (r *Resolver) zoneFrom(attrs map[string]string) Zone {
	zone := Zone{
		Name:       attrs[r.fields.Name],
		Attributes: attrs,
	}
	if raw := attrs[r.fields.Height]; raw != "" {
		if h, err := strconv.ParseFloat(raw, 64); err == nil {
			zone.MaxHeight = &h
		}
	}
	if uses := attrs[r.fields.Uses]; uses != "" {
		zone.PermittedUses = &uses
	}
	return zone
}

// pointInPolygon is the even-odd ray casting test
func pointInPolygon(lat, lon float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i][0], ring[i][1]
		yj, xj := ring[j][0], ring[j][1]
		if (yi > lat) != (yj > lat) && lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
