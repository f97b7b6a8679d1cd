package wds

import (
	"context"
	"econdata-backend/lib/telemetry"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func cpiFake() *fakeWds {
	return &fakeWds{
		metadata: map[int]any{18100006: metadataObject(cpiDimensions()...)},
		series: map[string]fakeSeries{
			// Canada / All-items / Seasonally adjusted
			"2.2.2.0.0.0.0.0.0.0": {VectorId: 41690973, Title: "Canada;All-items;Seasonally adjusted"},
			// Canada / Food / Unadjusted
			"2.3.1.0.0.0.0.0.0.0": {VectorId: 41690974, Title: "Canada;Food;Unadjusted"},
		},
		points: map[int64][]fakePoint{
			41690973: {
				{RefPer: "2021-12-01", Value: float(144.8)},
				{RefPer: "2022-01-01", Value: float(145.3)},
				{RefPer: "2022-02-01", Value: float(146.8)},
				{RefPer: "2022-03-01", Value: float(148.9)},
			},
			41690974: {
				{RefPer: "2022-01-01", Value: float(160.7)},
			},
		},
	}
}

func TestTableData(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "lib/wds")
	defer cleanup()

	client := cpiFake().start(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	table, err := client.TableData(ctx, 18100006, []Selection{
		Select("Geography", "Canada"),
		Select("Products", "All-items"),
		Select("Seasonal adjustment", "Seasonally adjusted"),
	}, date(2022, 1, 1), date(2022, 3, 31))
	require.NoError(t, err)

	require.Equal(t, []string{"Geography", "Products", "Seasonal adjustment", ColumnRefDate, ColumnValue}, table.Columns)
	require.Len(t, table.Rows, 3)
	require.Empty(t, table.Dropped)

	for i, expected := range []struct {
		refDate string
		value   float64
	}{
		{"2022-01-01", 145.3},
		{"2022-02-01", 146.8},
		{"2022-03-01", 148.9},
	} {
		row := table.Rows[i]
		require.Equal(t, []string{"Canada", "All-items", "Seasonally adjusted"}, row.Labels)
		require.Equal(t, expected.refDate, row.RefDate.Format("2006-01-02"))
		require.NotNil(t, row.Value)
		require.Equal(t, expected.value, *row.Value)
	}
}

// columns follow the cube's dimension positions even when the selections
// come in another order
func TestTableDataColumnOrder(t *testing.T) {
	client := cpiFake().start(t)
	ctx := context.Background()

	table, err := client.TableData(ctx, 18100006, []Selection{
		Select("Seasonal adjustment", "Seasonally adjusted"),
		Select("Geography", "Canada"),
		Select("Products", "All-items"),
	}, date(2022, 1, 1), date(2022, 1, 31))
	require.NoError(t, err)

	require.Equal(t, []string{"Geography", "Products", "Seasonal adjustment", ColumnRefDate, ColumnValue}, table.Columns)
	require.Len(t, table.Rows, 1)
	require.Equal(t, []string{"Canada", "All-items", "Seasonally adjusted"}, table.Rows[0].Labels)
}

func TestTableDataEmptyRange(t *testing.T) {
	client := cpiFake().start(t)
	ctx := context.Background()

	table, err := client.TableData(ctx, 18100006, []Selection{
		Select("Geography", "Canada"),
		Select("Products", "All-items"),
		Select("Seasonal adjustment", "Seasonally adjusted"),
	}, date(1995, 1, 1), date(1995, 12, 31))
	require.NoError(t, err)

	require.Equal(t, []string{"Geography", "Products", "Seasonal adjustment", ColumnRefDate, ColumnValue}, table.Columns)
	require.Empty(t, table.Rows)
}

func TestTableDataNoValidSeries(t *testing.T) {
	client := cpiFake().start(t)
	ctx := context.Background()

	// a combination the provider never published
	_, err := client.TableData(ctx, 18100006, []Selection{
		Select("Geography", "Quebec"),
		Select("Products", "Food"),
		Select("Seasonal adjustment", "Seasonally adjusted"),
	}, date(2022, 1, 1), date(2022, 3, 31))

	var noSeries *NoValidSeriesError
	require.True(t, errors.As(err, &noSeries))
	require.Equal(t, [][]string{{"Quebec", "Food", "Seasonally adjusted"}}, noSeries.Labels)
	require.Contains(t, noSeries.Error(), "Quebec")
}

// combinations that lose their series while others survive are kept in
// Dropped, never silently swallowed and never an error
func TestTableDataPartiallyInvalid(t *testing.T) {
	client := cpiFake().start(t)
	ctx := context.Background()

	table, err := client.TableData(ctx, 18100006, []Selection{
		Select("Geography", "Canada"),
		Select("Products", "All-items", "Food"),
		Select("Seasonal adjustment", "Seasonally adjusted"),
	}, date(2022, 1, 1), date(2022, 3, 31))
	require.NoError(t, err)

	require.Equal(t, [][]string{{"Canada", "Food", "Seasonally adjusted"}}, table.Dropped)
	require.Len(t, table.Rows, 3)
	for _, row := range table.Rows {
		require.Equal(t, []string{"Canada", "All-items", "Seasonally adjusted"}, row.Labels)
	}
}

func TestTableDataUnknownSelection(t *testing.T) {
	client := cpiFake().start(t)
	ctx := context.Background()

	_, err := client.TableData(ctx, 18100006, []Selection{
		Select("Commodity", "Wheat"),
	}, date(2022, 1, 1), date(2022, 3, 31))

	var unknownDim *UnknownDimensionError
	require.True(t, errors.As(err, &unknownDim))
}
