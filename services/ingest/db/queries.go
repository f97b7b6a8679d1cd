package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// all inserts ignore rows whose primary key already exists, so re-running an
// ingestion over an overlapping date range never duplicates observations

type InsertForeignExchangeParams struct {
	Date string
	Pair string
	Rate float64
}

const insertForeignExchange = `
INSERT OR IGNORE INTO foreign_exchange (date, pair, rate)
VALUES (?, ?, ?)
`

func (q *Queries) InsertForeignExchange(ctx context.Context, arg InsertForeignExchangeParams) error {
	_, err := q.db.ExecContext(ctx, insertForeignExchange, arg.Date, arg.Pair, arg.Rate)
	return err
}

type InsertLabourForceParams struct {
	Geography      string
	Characteristic string
	Date           string
	Value          sql.NullFloat64
}

const insertLabourForce = `
INSERT OR IGNORE INTO labour_force_status (geography, characteristic, date, value)
VALUES (?, ?, ?, ?)
`

func (q *Queries) InsertLabourForce(ctx context.Context, arg InsertLabourForceParams) error {
	_, err := q.db.ExecContext(ctx, insertLabourForce, arg.Geography, arg.Characteristic, arg.Date, arg.Value)
	return err
}

type InsertFuelPriceParams struct {
	Geography string
	FuelType  string
	Date      string
	Value     sql.NullFloat64
}

const insertFuelPrice = `
INSERT OR IGNORE INTO fuel_price (geography, fuel_type, date, value)
VALUES (?, ?, ?, ?)
`

func (q *Queries) InsertFuelPrice(ctx context.Context, arg InsertFuelPriceParams) error {
	_, err := q.db.ExecContext(ctx, insertFuelPrice, arg.Geography, arg.FuelType, arg.Date, arg.Value)
	return err
}

type InsertTradeIndexParams struct {
	Geography string
	Trade     string
	Date      string
	Value     sql.NullFloat64
}

const insertTradeIndex = `
INSERT OR IGNORE INTO trade_index (geography, trade, date, value)
VALUES (?, ?, ?, ?)
`

func (q *Queries) InsertTradeIndex(ctx context.Context, arg InsertTradeIndexParams) error {
	_, err := q.db.ExecContext(ctx, insertTradeIndex, arg.Geography, arg.Trade, arg.Date, arg.Value)
	return err
}

type InsertFoodCpiParams struct {
	Geography string
	Date      string
	Value     sql.NullFloat64
}

const insertFoodCpi = `
INSERT OR IGNORE INTO food_cpi (geography, date, value)
VALUES (?, ?, ?)
`

func (q *Queries) InsertFoodCpi(ctx context.Context, arg InsertFoodCpiParams) error {
	_, err := q.db.ExecContext(ctx, insertFoodCpi, arg.Geography, arg.Date, arg.Value)
	return err
}

type ForeignExchangeRow struct {
	Date string
	Pair string
	Rate float64
}

const listForeignExchange = `
SELECT date, pair, rate FROM foreign_exchange ORDER BY date, pair
`

func (q *Queries) ListForeignExchange(ctx context.Context) ([]ForeignExchangeRow, error) {
	rows, err := q.db.QueryContext(ctx, listForeignExchange)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForeignExchangeRow
	for rows.Next() {
		var r ForeignExchangeRow
		err := rows.Scan(&r.Date, &r.Pair, &r.Rate)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type FoodCpiRow struct {
	Geography string
	Date      string
	Value     sql.NullFloat64
}

const listFoodCpi = `
SELECT geography, date, value FROM food_cpi ORDER BY date, geography
`

func (q *Queries) ListFoodCpi(ctx context.Context) ([]FoodCpiRow, error) {
	rows, err := q.db.QueryContext(ctx, listFoodCpi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FoodCpiRow
	for rows.Next() {
		var r FoodCpiRow
		err := rows.Scan(&r.Geography, &r.Date, &r.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type FuelPriceRow struct {
	Geography string
	FuelType  string
	Date      string
	Value     sql.NullFloat64
}

const listFuelPrice = `
SELECT geography, fuel_type, date, value FROM fuel_price
ORDER BY date, geography, fuel_type
`

func (q *Queries) ListFuelPrice(ctx context.Context) ([]FuelPriceRow, error) {
	rows, err := q.db.QueryContext(ctx, listFuelPrice)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FuelPriceRow
	for rows.Next() {
		var r FuelPriceRow
		err := rows.Scan(&r.Geography, &r.FuelType, &r.Date, &r.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type TradeIndexRow struct {
	Geography string
	Trade     string
	Date      string
	Value     sql.NullFloat64
}

const listTradeIndex = `
SELECT geography, trade, date, value FROM trade_index
ORDER BY date, geography, trade
`

func (q *Queries) ListTradeIndex(ctx context.Context) ([]TradeIndexRow, error) {
	rows, err := q.db.QueryContext(ctx, listTradeIndex)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeIndexRow
	for rows.Next() {
		var r TradeIndexRow
		err := rows.Scan(&r.Geography, &r.Trade, &r.Date, &r.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type LabourForceRow struct {
	Geography      string
	Characteristic string
	Date           string
	Value          sql.NullFloat64
}

const listLabourForce = `
SELECT geography, characteristic, date, value FROM labour_force_status
ORDER BY date, geography, characteristic
`

func (q *Queries) ListLabourForce(ctx context.Context) ([]LabourForceRow, error) {
	rows, err := q.db.QueryContext(ctx, listLabourForce)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LabourForceRow
	for rows.Next() {
		var r LabourForceRow
		err := rows.Scan(&r.Geography, &r.Characteristic, &r.Date, &r.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
