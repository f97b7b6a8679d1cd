package wds

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// tidy output column names following the CODR csv convention
const (
	ColumnRefDate = "REF_DATE"
	ColumnValue   = "VALUE"
)

// DataRow is one (series, reference period) observation. Labels align with
// the dimension columns of the owning table.
type DataRow struct {
	Labels  []string
	RefDate time.Time
	Value   *float64
}

// DataTable is the tidy result of TableData: one row per (series, refDate),
// columns ordered as the selected dimension names by provider position,
// then REF_DATE and VALUE.
type DataTable struct {
	Columns []string
	Rows    []DataRow
	// label tuples whose coordinate resolved to no real series; these are
	// dropped from Rows but kept here for the caller to inspect
	Dropped [][]string
}

// Label returns the row's value for one dimension column, or "" if the
// column is not a dimension of this table.
func (t *DataTable) Label(row DataRow, column string) string {
	for i, c := range t.Columns {
		if c == column && i < len(row.Labels) {
			return row.Labels[i]
		}
	}
	return ""
}

// TableData runs the whole pipeline for one cube: load the catalog, expand
// the selections into coordinates, resolve them to vectors and fetch every
// observation within [start, end].
//
// When no selection combination maps to a real series this fails with
// NoValidSeriesError naming the offending label tuples. Combinations that
// lose their series while others survive are not an error; they are listed
// in the table's Dropped field instead.
func (c *Client) TableData(ctx context.Context, pid int, specs []Selection, start, end time.Time) (*DataTable, error) {
	ctx, span := tracer.Start(ctx, "client:TableData")
	defer span.End()
	span.SetAttributes(attribute.Int("pid", pid))

	catalog, err := c.CubeMetadata(ctx, pid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load catalog")
		return nil, err
	}

	keys, err := BuildCoordinates(catalog, specs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build coordinates")
		return nil, err
	}

	// selected dimension columns follow provider position order, which may
	// differ from the order the selections were given in
	order := make([]int, len(specs))
	for i := range order {
		order[i] = i
	}
	positions := catalog.Positions()
	sort.SliceStable(order, func(i, j int) bool {
		return positions[specs[order[i]].Dimension] < positions[specs[order[j]].Dimension]
	})

	columns := make([]string, 0, len(specs)+2)
	for _, i := range order {
		columns = append(columns, specs[i].Dimension)
	}
	columns = append(columns, ColumnRefDate, ColumnValue)

	reorder := func(labels []string) []string {
		out := make([]string, len(order))
		for k, i := range order {
			out[k] = labels[i]
		}
		return out
	}

	coords := make([]Coordinate, len(keys))
	for i, k := range keys {
		coords[i] = k.Coordinate
	}

	resolved, err := c.ResolveVectors(ctx, pid, coords)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve vectors")
		return nil, err
	}
	if resolved == nil {
		labels := make([][]string, len(keys))
		for i, k := range keys {
			labels[i] = k.Labels
		}
		err := &NoValidSeriesError{Labels: labels}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	table := &DataTable{Columns: columns}

	labelsByVector := make(map[int64][]string, len(resolved))
	var vectorIds []int64
	for i, v := range resolved {
		if !v.Valid() {
			table.Dropped = append(table.Dropped, reorder(keys[i].Labels))
			continue
		}
		labelsByVector[v.VectorId] = reorder(keys[i].Labels)
		vectorIds = append(vectorIds, v.VectorId)
	}

	points, err := c.VectorData(ctx, vectorIds, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch vector data")
		return nil, err
	}

	for _, pt := range points {
		labels, ok := labelsByVector[pt.VectorId]
		if !ok {
			continue
		}
		table.Rows = append(table.Rows, DataRow{
			Labels:  labels,
			RefDate: pt.RefDate,
			Value:   pt.Value,
		})
	}

	return table, nil
}
