package provider

import (
	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// BatchConformer normalizes an entire (county, provider) batch at once,
// for providers whose conform step needs cross-row grouping. OpenAddresses
// is the only one: its source rows are individual address units that share
// a building's coordinate, and (provider_openaddresses.py) collapses
// repeated units at one coordinate into a single point before the address
// merge.
type BatchConformer func(raws []RawRecord) ([]bear.Feature, error)

var batchRegistry = map[bear.Provider]BatchConformer{
	bear.ProviderOpenAddresses: ConformOpenAddressesBatch,
}

// GetBatch returns the batch-conform function registered for p, if the
// provider requires cross-row grouping rather than per-record conform.
func GetBatch(p bear.Provider) (BatchConformer, bool) {
	c, ok := batchRegistry[p]
	return c, ok
}

type oaGroupKey struct {
	x, y           float64
	number, street string
}

type oaPointKey struct{ x, y float64 }

// ConformOpenAddressesBatch implements provider_openaddresses.py's conform:
// rows whose (point, number, street) key occurs more than once are gathered
// by exact coordinate, and each such coordinate yields one feature, keyed off
// the first row's hash, backward-filling number/street left empty by an
// earlier row in the group. A row whose key is unique becomes its own
// feature, even when other rows share its coordinate. Only the first point
// of a MultiPoint geometry is kept.
func ConformOpenAddressesBatch(raws []RawRecord) ([]bear.Feature, error) {
	type decoded struct {
		raw    RawRecord
		geom   orb.Geometry
		x, y   float64
		number string
		street string
		hash   string
	}

	rows := make([]decoded, 0, len(raws))
	for _, raw := range raws {
		wkbBytes := bytesField(raw, "geometry")
		g, err := geom.DecodeWKB(wkbBytes)
		if err != nil {
			return nil, &bear.GeometryError{Reason: "openaddresses: " + err.Error()}
		}
		points := geom.ExplodeMultiPoint(g)
		point := points[0]

		rows = append(rows, decoded{
			raw:    raw,
			geom:   point,
			x:      geom.CentroidX(point),
			y:      geom.CentroidY(point),
			number: str(raw, "number"),
			street: str(raw, "street"),
			hash:   str(raw, "hash"),
		})
	}

	dupKeyCounts := make(map[oaGroupKey]int, len(rows))
	for _, r := range rows {
		dupKeyCounts[oaGroupKey{r.x, r.y, r.number, r.street}]++
	}

	pointGroups := make(map[oaPointKey][]int)
	for i, r := range rows {
		if dupKeyCounts[oaGroupKey{r.x, r.y, r.number, r.street}] > 1 {
			pk := oaPointKey{r.x, r.y}
			pointGroups[pk] = append(pointGroups[pk], i)
		}
	}

	grouped := make(map[int]bool)
	var features []bear.Feature

	for _, indexes := range pointGroups {
		first := rows[indexes[0]]
		number, street := first.number, first.street
		for _, i := range indexes {
			grouped[i] = true
			if number == "" {
				number = rows[i].number
			}
			if street == "" {
				street = rows[i].street
			}
		}

		address := normalizeStr(joinNonEmpty(" ", number, street))
		if address == "" || address == "0" {
			continue
		}

		features = append(features, bear.Feature{
			ID:       first.hash,
			Provider: bear.ProviderOpenAddresses,
			Geometry: first.geom,
			Address:  &address,
		})
	}

	for i, r := range rows {
		if grouped[i] {
			continue
		}
		address := normalizeStr(joinNonEmpty(" ", r.number, r.street))
		if address == "" || address == "0" {
			continue
		}
		features = append(features, bear.Feature{
			ID:       r.hash,
			Provider: bear.ProviderOpenAddresses,
			Geometry: r.geom,
			Address:  &address,
		})
	}

	return features, nil
}
