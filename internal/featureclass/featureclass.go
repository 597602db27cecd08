// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package featureclass stores point features in a GeoPackage, the SQLite
// based OGC container that desktop GIS tools open directly. A feature class
// is one table inside the GeoPackage with the schema
// {geom POINT, TagID INTEGER, LC TEXT, Date TEXT}.
package featureclass

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/argos-import/internal/spatialref"
)

const (
	// gpkgApplicationID is "GPKG" as a big-endian int32.
	gpkgApplicationID = 0x47504B47
	gpkgUserVersion   = 10300

	geometryColumn = "geom"
	gpkgExt        = ".gpkg"
)

// ErrExists is returned by Create when the feature class already exists and
// overwrite is off.
var ErrExists = errors.New("feature class already exists")

// ErrNotFound is returned by Open when the table is not a registered feature class.
var ErrNotFound = errors.New("feature class not found")

// FeatureClass is an open point feature class.
type FeatureClass struct {
	db    *sql.DB
	path  string
	table string
	ref   spatialref.Ref
}

// SplitPath separates an output path into the GeoPackage file and table
// name. "tracks.gpkg/argos" names table "argos" in tracks.gpkg; "tracks.gpkg"
// names table "tracks"; any other path gets ".gpkg" appended.
func SplitPath(p string) (file, table string) {
	if strings.EqualFold(filepath.Ext(p), gpkgExt) {
		return p, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	dir, base := filepath.Split(p)
	dir = filepath.Clean(dir)
	if strings.EqualFold(filepath.Ext(dir), gpkgExt) {
		return dir, base
	}
	return p + gpkgExt, filepath.Base(p)
}

func validTableName(name string) error {
	if name == "" {
		return fmt.Errorf("empty table name")
	}
	if strings.ContainsAny(name, "\"\x00") || strings.HasPrefix(strings.ToLower(name), "gpkg_") {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps the insert transaction and the schema on the same handle.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Create creates the feature class at path in spatial reference ref. The
// GeoPackage file and its metadata tables are created if missing. An
// existing feature class with the same name is dropped when overwrite is
// true; otherwise Create returns ErrExists.
func Create(ctx context.Context, path string, ref spatialref.Ref, overwrite bool) (*FeatureClass, error) {
	file, table := SplitPath(path)
	if err := validTableName(table); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	db, err := openDB(file)
	if err != nil {
		return nil, err
	}
	fc := &FeatureClass{db: db, path: file, table: table, ref: ref}

	if err := fc.createSchema(ctx, overwrite); err != nil {
		db.Close()
		return nil, err
	}
	return fc, nil
}

// Open opens an existing feature class for reading.
func Open(ctx context.Context, path string) (*FeatureClass, error) {
	file, table := SplitPath(path)
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("opening feature class: %w", err)
	}
	db, err := openDB(file)
	if err != nil {
		return nil, err
	}

	var (
		code       int
		name, defn string
	)
	err = db.QueryRowContext(ctx,
		`SELECT s.srs_id, s.srs_name, s.definition
		 FROM gpkg_geometry_columns g JOIN gpkg_spatial_ref_sys s ON s.srs_id = g.srs_id
		 WHERE lower(g.table_name) = lower(?) AND g.column_name = ?`, table, geometryColumn,
	).Scan(&code, &name, &defn)
	if errors.Is(err, sql.ErrNoRows) {
		db.Close()
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, table, file)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading feature class metadata: %w", err)
	}

	ref := spatialref.Ref{Code: code, Name: name, Definition: defn}
	return &FeatureClass{db: db, path: file, table: table, ref: ref}, nil
}

// Close releases the database connection.
func (fc *FeatureClass) Close() error {
	return fc.db.Close()
}

// Table returns the feature class table name.
func (fc *FeatureClass) Table() string { return fc.table }

// Path returns the GeoPackage file path.
func (fc *FeatureClass) Path() string { return fc.path }

// SpatialRef returns the declared spatial reference.
func (fc *FeatureClass) SpatialRef() spatialref.Ref { return fc.ref }

func (fc *FeatureClass) createSchema(ctx context.Context, overwrite bool) error {
	statements := []string{
		fmt.Sprintf(`PRAGMA application_id = %d`, gpkgApplicationID),
		fmt.Sprintf(`PRAGMA user_version = %d`, gpkgUserVersion),
		`CREATE TABLE IF NOT EXISTS gpkg_spatial_ref_sys (
			srs_name TEXT NOT NULL,
			srs_id INTEGER PRIMARY KEY,
			organization TEXT NOT NULL,
			organization_coordsys_id INTEGER NOT NULL,
			definition TEXT NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT UNIQUE,
			description TEXT DEFAULT '',
			last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			min_x DOUBLE,
			min_y DOUBLE,
			max_x DOUBLE,
			max_y DOUBLE,
			srs_id INTEGER,
			CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
		)`,
		`CREATE TABLE IF NOT EXISTS gpkg_geometry_columns (
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL,
			z TINYINT NOT NULL,
			m TINYINT NOT NULL,
			CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name),
			CONSTRAINT fk_gc_tn FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name),
			CONSTRAINT fk_gc_srs FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
		)`,
		`INSERT OR IGNORE INTO gpkg_spatial_ref_sys VALUES
			('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', 'undefined cartesian coordinate reference system'),
			('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', 'undefined geographic coordinate reference system')`,
	}
	for _, stmt := range statements {
		if _, err := fc.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating GeoPackage schema: %w", err)
		}
	}

	tx, err := fc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND lower(name) = lower(?)`, fc.table,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking for existing table: %w", err)
	}
	if exists > 0 {
		if !overwrite {
			return fmt.Errorf("%w: %s in %s", ErrExists, fc.table, fc.path)
		}
		for _, stmt := range []string{
			`DELETE FROM gpkg_geometry_columns WHERE lower(table_name) = lower(?)`,
			`DELETE FROM gpkg_contents WHERE lower(table_name) = lower(?)`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, fc.table); err != nil {
				return fmt.Errorf("removing feature class metadata: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DROP TABLE `+quoteIdent(fc.table)); err != nil {
			return fmt.Errorf("dropping existing feature class: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO gpkg_spatial_ref_sys (srs_name, srs_id, organization, organization_coordsys_id, definition)
		 VALUES (?, ?, 'EPSG', ?, ?)
		 ON CONFLICT(srs_id) DO NOTHING`,
		fc.ref.Name, fc.ref.Code, fc.ref.Code, fc.ref.Definition,
	)
	if err != nil {
		return fmt.Errorf("registering spatial reference: %w", err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (
		fid INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
		%s POINT,
		TagID INTEGER,
		LC TEXT,
		Date TEXT
	)`, quoteIdent(fc.table), geometryColumn))
	if err != nil {
		return fmt.Errorf("creating feature table: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id) VALUES (?, 'features', ?, ?)`,
		fc.table, fc.table, fc.ref.Code,
	)
	if err != nil {
		return fmt.Errorf("registering feature class: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id, z, m)
		 VALUES (?, ?, 'POINT', ?, 0, 0)`,
		fc.table, geometryColumn, fc.ref.Code,
	)
	if err != nil {
		return fmt.Errorf("registering geometry column: %w", err)
	}

	return tx.Commit()
}

// Count returns the number of rows in the feature class.
func (fc *FeatureClass) Count(ctx context.Context) (int, error) {
	var n int
	if err := fc.db.QueryRowContext(ctx, `SELECT count(*) FROM `+quoteIdent(fc.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting features: %w", err)
	}
	return n, nil
}

// Extent returns the bounding box recorded in gpkg_contents. ok is false
// when no non-empty point has been inserted.
func (fc *FeatureClass) Extent(ctx context.Context) (minX, minY, maxX, maxY float64, ok bool, err error) {
	var x0, y0, x1, y1 sql.NullFloat64
	err = fc.db.QueryRowContext(ctx,
		`SELECT min_x, min_y, max_x, max_y FROM gpkg_contents WHERE table_name = ?`, fc.table,
	).Scan(&x0, &y0, &x1, &y1)
	if err != nil {
		return 0, 0, 0, 0, false, fmt.Errorf("reading extent: %w", err)
	}
	if !x0.Valid {
		return 0, 0, 0, 0, false, nil
	}
	return x0.Float64, y0.Float64, x1.Float64, y1.Float64, true, nil
}
