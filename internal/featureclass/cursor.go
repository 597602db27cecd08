// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package featureclass

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/pdiddy/argos-import/pkg/types"
)

// Cursor appends rows to a feature class. Rows are written inside a
// transaction that Flush commits; the next InsertRow opens a new one.
// The caller owns the cursor and must Close it.
type Cursor struct {
	fc   *FeatureClass
	tx   *sql.Tx
	stmt *sql.Stmt

	pending int
	minX    float64
	minY    float64
	maxX    float64
	maxY    float64
}

// InsertCursor returns a cursor for appending rows.
func (fc *FeatureClass) InsertCursor() *Cursor {
	c := &Cursor{fc: fc}
	c.resetExtent()
	return c
}

func (c *Cursor) resetExtent() {
	c.minX, c.minY = math.Inf(1), math.Inf(1)
	c.maxX, c.maxY = math.Inf(-1), math.Inf(-1)
}

func (c *Cursor) begin(ctx context.Context) error {
	tx, err := c.fc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s, TagID, LC, Date) VALUES (?, ?, ?, ?)`,
		quoteIdent(c.fc.table), geometryColumn))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	c.tx, c.stmt = tx, stmt
	return nil
}

// InsertRow appends f. f.Geometry is in geographic degrees (EPSG:4326) and
// is projected into the feature class spatial reference. A nil geometry is
// stored as a NULL geometry.
func (c *Cursor) InsertRow(ctx context.Context, f types.Feature) error {
	var geom *types.Point
	if f.Geometry != nil {
		p, err := c.fc.ref.Project(*f.Geometry)
		if err != nil {
			return err
		}
		geom = &p
	}

	if c.tx == nil {
		if err := c.begin(ctx); err != nil {
			return err
		}
	}

	var shape any
	if geom != nil {
		blob, err := encodePoint(geom, c.fc.ref.Code)
		if err != nil {
			return err
		}
		shape = blob
	}
	if _, err := c.stmt.ExecContext(ctx, shape, f.TagID, f.LC, f.Date); err != nil {
		return fmt.Errorf("inserting feature for tag %d: %w", f.TagID, err)
	}
	c.pending++

	if geom != nil {
		c.minX = math.Min(c.minX, geom.X)
		c.minY = math.Min(c.minY, geom.Y)
		c.maxX = math.Max(c.maxX, geom.X)
		c.maxY = math.Max(c.maxY, geom.Y)
	}
	return nil
}

// Flush commits pending rows and widens the extent recorded in gpkg_contents.
// It returns the number of rows committed.
func (c *Cursor) Flush(ctx context.Context) (int, error) {
	if c.tx == nil {
		return 0, nil
	}
	defer func() {
		c.tx, c.stmt = nil, nil
		c.pending = 0
		c.resetExtent()
	}()

	if !math.IsInf(c.minX, 1) {
		_, err := c.tx.ExecContext(ctx,
			`UPDATE gpkg_contents SET
				min_x = min(coalesce(min_x, ?1), ?1),
				min_y = min(coalesce(min_y, ?2), ?2),
				max_x = max(coalesce(max_x, ?3), ?3),
				max_y = max(coalesce(max_y, ?4), ?4),
				last_change = strftime('%Y-%m-%dT%H:%M:%fZ','now')
			 WHERE table_name = ?5`,
			c.minX, c.minY, c.maxX, c.maxY, c.fc.table,
		)
		if err != nil {
			c.stmt.Close()
			c.tx.Rollback()
			return 0, fmt.Errorf("updating extent: %w", err)
		}
	}

	c.stmt.Close()
	if err := c.tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing features: %w", err)
	}
	return c.pending, nil
}

// Close flushes pending rows.
func (c *Cursor) Close(ctx context.Context) error {
	_, err := c.Flush(ctx)
	return err
}
