// Package parquetio owns every on-disk detail of the BEAR pipeline: the
// conform/fips=<FIPS>/provider=<NAME>/data.parquet input layout and the
// conflate/{entities,crossref,footprints}/fips=<FIPS>/data.parquet output
// layout, both zstd-compressed (schema.py, cli/conform.py, cli/conflate.py).
//
// The conflation core (internal/correspond, internal/conflate) never
// imports this package: stages consume and produce plain []bear.Feature,
// and only the command layer (cmd/bear) and the conform worker pool's
// RawReader wire them to parquet files. That split is what lets
// internal/conflate's tests build Frames in memory without touching disk.
package parquetio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
	"github.com/owp-spatial/bear/internal/provider"
)

func geometryToWKB(f bear.Feature) ([]byte, error) {
	b, err := geom.EncodeWKB(f.Geometry)
	if err != nil {
		return nil, &bear.GeometryError{Reason: "encode " + f.ID + ": " + err.Error()}
	}
	return b, nil
}

func wkbToGeometry(b []byte) (orb.Geometry, error) {
	return geom.DecodeWKB(b)
}

// conformRow is the on-disk shape of schema.py's `conform` schema: id,
// classification, address, height, levels, geometry (WKB bytes). Pointer
// fields serialize as parquet OPTIONAL columns, matching the original's
// nullable String/Float64/Int32 columns.
type conformRow struct {
	ID             string   `parquet:"id"`
	Classification *string  `parquet:"classification,optional"`
	Address        *string  `parquet:"address,optional"`
	Height         *float64 `parquet:"height,optional"`
	Levels         *int32   `parquet:"levels,optional"`
	Geometry       []byte   `parquet:"geometry"`
}

// ConformPath returns the path conform_workflow writes for one (fips,
// provider) pair, rooted at outputDirectory (cli/conform.py's
// ConformTaskOptions.output()).
func ConformPath(outputDirectory, fips string, p bear.Provider) string {
	return filepath.Join(outputDirectory, "conform", "fips="+fips, "provider="+string(p), "data.parquet")
}

// WriteConform writes one (county, provider) task's conformed features,
// matching `tbl.cast(schema.conform).write_parquet(path, compression="zstd")`.
// An empty feature slice writes nothing, mirroring the original's
// `if tbl is None: return` (an empty input frame never produces a file).
func WriteConform(path string, features []bear.Feature) error {
	if len(features) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("parquetio: mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquetio: create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]conformRow, len(features))
	for i, feat := range features {
		wkb, err := geometryToWKB(feat)
		if err != nil {
			return err
		}
		rows[i] = conformRow{
			ID:             feat.ID,
			Classification: feat.Classification,
			Address:        feat.Address,
			Height:         feat.Height,
			Levels:         feat.Levels,
			Geometry:       wkb,
		}
	}

	writer := parquet.NewGenericWriter[conformRow](f, parquet.Compression(&zstd.Codec{}))
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("parquetio: write %s: %w", path, err)
	}
	return writer.Close()
}

// ReadConform loads a previously-written conform file back into Features,
// for the conflate stage's per-provider inputs.
func ReadConform(path string, p bear.Provider) ([]bear.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("parquetio: open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("parquetio: stat %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[conformRow](f, stat.Size())
	defer reader.Close()

	rows := make([]conformRow, int(reader.NumRows()))
	if _, err := reader.Read(rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parquetio: read %s: %w", path, err)
	}

	features := make([]bear.Feature, len(rows))
	for i, r := range rows {
		g, err := wkbToGeometry(r.Geometry)
		if err != nil {
			return nil, fmt.Errorf("parquetio: %s row %d: %w", path, i, err)
		}
		features[i] = bear.Feature{
			ID:             r.ID,
			Provider:       p,
			Classification: r.Classification,
			Address:        r.Address,
			Height:         r.Height,
			Levels:         r.Levels,
			Geometry:       g,
		}
	}
	return features, nil
}

// ReadAllConform loads every provider's conformed features for one county,
// skipping providers that never wrote a file (an absent provider for a
// county is normal, not an error -- a county may simply have no NAD
// coverage, say).
func ReadAllConform(inputDirectory, fips string) (map[bear.Provider][]bear.Feature, error) {
	out := make(map[bear.Provider][]bear.Feature)
	for _, p := range bear.AllProviders() {
		path := ConformPath(inputDirectory, fips, p)
		features, err := ReadConform(path, p)
		if err != nil {
			return nil, err
		}
		if len(features) > 0 {
			out[p] = features
		}
	}
	return out, nil
}

// RawConformPath locates the provider-native raw input for one task,
// rooted at inputDirectory. Unlike the original's GDAL/.vrt extraction
// (cli/conform.py's pyogrio.read_dataframe workaround), raw inputs here are
// expected pre-staged as parquet by an upstream extract step not in scope
// for this module.
func RawConformPath(inputDirectory string, p bear.Provider) string {
	return filepath.Join(inputDirectory, "provider="+string(p), "data.parquet")
}

// ReadRaw loads a provider-native parquet file into the untyped RawRecord
// rows internal/provider.Conformer expects.
func ReadRaw(path string) ([]provider.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("parquetio: open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("parquetio: stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("parquetio: open parquet %s: %w", path, err)
	}

	schema := pf.Schema()
	var out []provider.RawRecord
	for _, rg := range pf.RowGroups() {
		rows := make([]parquet.Row, rg.NumRows())
		rr := rg.Rows()
		n, err := rr.ReadRows(rows)
		rr.Close()
		if err != nil && n == 0 {
			return nil, fmt.Errorf("parquetio: read rowgroup in %s: %w", path, err)
		}
		for _, row := range rows[:n] {
			rec := make(provider.RawRecord, len(row))
			for _, v := range row {
				col := schema.Columns()[v.Column()]
				name := col[len(col)-1]
				rec[name] = valueToNative(v)
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// entityRow is the on-disk shape of write_entities's final select, plus the
// x/y centroid columns the original derives from `geometry` at query time
// (kept as separate columns here since this module has no point-in-
// geometry helper at read time outside internal/geom).
type entityRow struct {
	ID             string   `parquet:"id"`
	Classification *string  `parquet:"classification,optional"`
	Address        *string  `parquet:"address,optional"`
	Height         *float64 `parquet:"height,optional"`
	Levels         *int32   `parquet:"levels,optional"`
	X              float64  `parquet:"x"`
	Y              float64  `parquet:"y"`
}

// crossrefRow mirrors write_crossref's exploded/unnested/renamed output:
// entity_id, provider, provider_id.
type crossrefRow struct {
	EntityID   string `parquet:"entity_id"`
	Provider   string `parquet:"provider"`
	ProviderID string `parquet:"provider_id"`
}

// footprintRow mirrors write_footprints's passthrough select.
type footprintRow struct {
	Provider string `parquet:"provider"`
	ID       string `parquet:"id"`
	Geometry []byte `parquet:"geometry"`
}

// EntitiesPath, CrossrefPath, and FootprintsPath are the three conflate
// output locations of cli/conflate.py's write_entities/write_crossref/
// write_footprints, rooted at outputDirectory.
func EntitiesPath(outputDirectory, fips string) string {
	return filepath.Join(outputDirectory, "conflate", "entities", "fips="+fips, "data.parquet")
}

func CrossrefPath(outputDirectory, fips string) string {
	return filepath.Join(outputDirectory, "conflate", "crossref", "fips="+fips, "data.parquet")
}

func FootprintsPath(outputDirectory, fips string) string {
	return filepath.Join(outputDirectory, "conflate", "footprints", "fips="+fips, "data.parquet")
}

// WriteEntities writes the final registry relation.
func WriteEntities(path string, entities []bear.Entity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("parquetio: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquetio: create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]entityRow, len(entities))
	for i, e := range entities {
		rows[i] = entityRow{
			ID: e.ID, Classification: e.Classification, Address: e.Address,
			Height: e.Height, Levels: e.Levels, X: e.X, Y: e.Y,
		}
	}
	writer := parquet.NewGenericWriter[entityRow](f, parquet.Compression(&zstd.Codec{}))
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("parquetio: write %s: %w", path, err)
	}
	return writer.Close()
}

// WriteCrossref writes the entity-to-provider foreign-key relation in the
// order given; conflate.Project already sorts it by (entity_id, provider)
// to match `.sort("entity_id", "provider", nulls_last=True)`.
func WriteCrossref(path string, crossref []bear.Crossref) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("parquetio: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquetio: create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]crossrefRow, len(crossref))
	for i, c := range crossref {
		rows[i] = crossrefRow{EntityID: c.EntityID, Provider: string(c.Provider), ProviderID: c.ProviderID}
	}
	writer := parquet.NewGenericWriter[crossrefRow](f, parquet.Compression(&zstd.Codec{}))
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("parquetio: write %s: %w", path, err)
	}
	return writer.Close()
}

// WriteFootprints writes the pre-merge footprint passthrough relation.
func WriteFootprints(path string, footprints []bear.FootprintRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("parquetio: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquetio: create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]footprintRow, len(footprints))
	for i, fp := range footprints {
		wkb, err := geom.EncodeWKB(fp.Geometry)
		if err != nil {
			return &bear.GeometryError{Reason: "encode footprint " + fp.ID + ": " + err.Error()}
		}
		rows[i] = footprintRow{Provider: string(fp.Provider), ID: fp.ID, Geometry: wkb}
	}
	writer := parquet.NewGenericWriter[footprintRow](f, parquet.Compression(&zstd.Codec{}))
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("parquetio: write %s: %w", path, err)
	}
	return writer.Close()
}

func valueToNative(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return v.ByteArray()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.Boolean:
		return v.Boolean()
	default:
		if v.IsNull() {
			return nil
		}
		return v.String()
	}
}
