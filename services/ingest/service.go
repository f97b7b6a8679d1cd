// Package ingest pulls economic indicator series from StatCan WDS and the
// Bank of Canada Valet API into a relational warehouse. Loads are
// idempotent: observations already present for a (key, date) are left
// untouched, so create and update runs share the same code path.
package ingest

import (
	"context"
	"database/sql"
	"econdata-backend/lib/valet"
	"econdata-backend/lib/wds"
	"econdata-backend/services/ingest/db"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ingest")

const dateFormat = "2006-01-02"

// the FX legacy/current series and the two trade cubes hand over at the
// start of 2017
var cutover2017 = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

type Service struct {
	db    *sql.DB
	qry   *db.Queries
	wds   *wds.Client
	valet *valet.Client
}

func NewService(database *sql.DB, wdsClient *wds.Client, valetClient *valet.Client) Service {
	return Service{
		db:    database,
		qry:   db.New(database),
		wds:   wdsClient,
		valet: valetClient,
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// LoadAll runs every loader in sequence over the same date range.
func (s Service) LoadAll(ctx context.Context, start, end time.Time) error {
	slog.InfoContext(ctx, "fetching foreign exchange data from the Bank of Canada")
	err := s.LoadForeignExchange(ctx, start, end)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "fetching labour force status data from StatCan")
	err = s.LoadLabourForce(ctx, start, end)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "fetching fuel price data from StatCan")
	err = s.LoadFuelPrices(ctx, start, end)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "fetching trade index data from StatCan")
	err = s.LoadTradeIndex(ctx, start, end)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "fetching food CPI data from StatCan")
	return s.LoadFoodCPI(ctx, start, end)
}

func (s Service) LoadForeignExchange(ctx context.Context, start, end time.Time) error {
	ctx, span := tracer.Start(ctx, "LoadForeignExchange")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	inserted := 0
	if start.Before(cutover2017) {
		legacyEnd := end
		if legacyEnd.After(cutover2017) {
			legacyEnd = cutover2017.AddDate(0, 0, -1)
		}
		for code, pair := range legacyFxCodes {
			observations, err := s.valet.Observations(ctx, code, start, legacyEnd)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			for _, obs := range observations {
				rate, ok := obs.Values[code]
				if !ok {
					continue
				}
				err := txqry.InsertForeignExchange(ctx, db.InsertForeignExchangeParams{
					Date: obs.Date.Format(dateFormat),
					Pair: pair,
					Rate: rate,
				})
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					return err
				}
				inserted++
			}
		}
	}

	if !end.Before(cutover2017) {
		currentStart := start
		if currentStart.Before(cutover2017) {
			currentStart = cutover2017
		}
		observations, err := s.valet.GroupObservations(ctx, fxRatesMonthlyGroup, currentStart)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		for _, obs := range observations {
			if obs.Date.After(end) {
				continue
			}
			for code, pair := range currentFxCodes {
				rate, ok := obs.Values[code]
				if !ok {
					continue
				}
				err := txqry.InsertForeignExchange(ctx, db.InsertForeignExchangeParams{
					Date: obs.Date.Format(dateFormat),
					Pair: pair,
					Rate: rate,
				})
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					return err
				}
				inserted++
			}
		}
	}

	span.SetAttributes(attribute.Int("rows", inserted))
	return tx.Commit()
}

func (s Service) LoadLabourForce(ctx context.Context, start, end time.Time) error {
	ctx, span := tracer.Start(ctx, "LoadLabourForce")
	defer span.End()

	table, err := s.wds.TableData(ctx, labourForcePid, labourForceSpecs, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, row := range table.Rows {
		err := txqry.InsertLabourForce(ctx, db.InsertLabourForceParams{
			Geography:      table.Label(row, "Geography"),
			Characteristic: table.Label(row, "Labour force characteristics"),
			Date:           row.RefDate.Format(dateFormat),
			Value:          nullFloat(row.Value),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	span.SetAttributes(attribute.Int("rows", len(table.Rows)))
	return tx.Commit()
}

func (s Service) LoadFuelPrices(ctx context.Context, start, end time.Time) error {
	ctx, span := tracer.Start(ctx, "LoadFuelPrices")
	defer span.End()

	// every geography the cube knows except the Canada aggregate
	preview, err := s.wds.PreviewDimensions(ctx, fuelPricePid, wds.PreviewValues, "Geography")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	var geographies []string
	for _, member := range preview.Values {
		if member.Name == "Canada" {
			continue
		}
		geographies = append(geographies, member.Name)
	}

	specs := []wds.Selection{
		wds.Select("Geography", geographies...),
		fuelTypeSpec,
	}
	table, err := s.wds.TableData(ctx, fuelPricePid, specs, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, row := range table.Rows {
		err := txqry.InsertFuelPrice(ctx, db.InsertFuelPriceParams{
			Geography: table.Label(row, "Geography"),
			FuelType:  table.Label(row, "Type of fuel"),
			Date:      row.RefDate.Format(dateFormat),
			Value:     nullFloat(row.Value),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	span.SetAttributes(attribute.Int("rows", len(table.Rows)))
	return tx.Commit()
}

func (s Service) LoadTradeIndex(ctx context.Context, start, end time.Time) error {
	ctx, span := tracer.Start(ctx, "LoadTradeIndex")
	defer span.End()

	var tables []*wds.DataTable
	if start.Before(cutover2017) {
		archivedEnd := end
		if archivedEnd.After(cutover2017) {
			archivedEnd = cutover2017.AddDate(0, 0, -1)
		}
		table, err := s.wds.TableData(ctx, tradeArchivedPid, tradeSpecs, start, archivedEnd)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		tables = append(tables, table)
	}
	if !end.Before(cutover2017) {
		currentStart := start
		if currentStart.Before(cutover2017) {
			currentStart = cutover2017
		}
		table, err := s.wds.TableData(ctx, tradeCurrentPid, tradeSpecs, currentStart, end)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		tables = append(tables, table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	inserted := 0
	for _, table := range tables {
		for _, row := range table.Rows {
			err := txqry.InsertTradeIndex(ctx, db.InsertTradeIndexParams{
				Geography: table.Label(row, "Geography"),
				Trade:     table.Label(row, "Trade"),
				Date:      row.RefDate.Format(dateFormat),
				Value:     nullFloat(row.Value),
			})
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			inserted++
		}
	}

	span.SetAttributes(attribute.Int("rows", inserted))
	return tx.Commit()
}

func (s Service) LoadFoodCPI(ctx context.Context, start, end time.Time) error {
	ctx, span := tracer.Start(ctx, "LoadFoodCPI")
	defer span.End()

	table, err := s.wds.TableData(ctx, foodCpiPid, foodCpiSpecs, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, row := range table.Rows {
		err := txqry.InsertFoodCpi(ctx, db.InsertFoodCpiParams{
			Geography: table.Label(row, "Geography"),
			Date:      row.RefDate.Format(dateFormat),
			Value:     nullFloat(row.Value),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	span.SetAttributes(attribute.Int("rows", len(table.Rows)))
	return tx.Commit()
}
