// Package valet fetches observations from the Bank of Canada Valet API
// using its csv endpoints.
package valet

import (
	"context"
	"econdata-backend/lib/telemetry"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/valet")

const DefaultBaseUrl = "https://www.bankofcanada.ca/valet"

const dateFormat = "2006-01-02"

type Client struct {
	http *resty.Client
}

func NewClient(baseUrl string) *Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "valet/http")

	return &Client{http: client}
}

// Observation is one date's readings, keyed by series code column.
type Observation struct {
	Date   time.Time
	Values map[string]float64
}

// Observations fetches the csv observations of one series within
// [start, end] inclusive.
func (c *Client) Observations(ctx context.Context, series string, start, end time.Time) ([]Observation, error) {
	ctx, span := tracer.Start(ctx, "client:Observations")
	defer span.End()
	span.SetAttributes(attribute.String("series", series))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("start_date", start.Format(dateFormat)).
		SetQueryParam("end_date", end.Format(dateFormat)).
		Get(fmt.Sprintf("/observations/%s/csv", series))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch observations")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return nil, fmt.Errorf("valet observations/%s: status %q", series, res.Status())
	}

	return parseObservationsCsv(res.String())
}

// GroupObservations fetches the csv observations of a series group, e.g.
// FX_RATES_MONTHLY, from the given start date onward.
func (c *Client) GroupObservations(ctx context.Context, group string, start time.Time) ([]Observation, error) {
	ctx, span := tracer.Start(ctx, "client:GroupObservations")
	defer span.End()
	span.SetAttributes(attribute.String("group", group))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("start_date", start.Format(dateFormat)).
		Get(fmt.Sprintf("/observations/group/%s/csv", group))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch group observations")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return nil, fmt.Errorf("valet observations/group/%s: status %q", group, res.Status())
	}

	return parseObservationsCsv(res.String())
}

// Valet csv payloads carry a free-form preamble (terms, series descriptions)
// before the actual table; everything up to the `date,...` header row is
// skipped. Cells that don't parse as numbers (bank holidays leave blanks)
// are omitted from the observation.
func parseObservationsCsv(payload string) ([]Observation, error) {
	reader := csv.NewReader(strings.NewReader(payload))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var header []string
	var out []Observation
	for _, record := range records {
		if header == nil {
			if len(record) > 0 && strings.EqualFold(record[0], "date") {
				header = record
			}
			continue
		}
		if len(record) == 0 {
			continue
		}

		date, err := time.Parse(dateFormat, record[0])
		if err != nil {
			continue
		}

		obs := Observation{Date: date, Values: map[string]float64{}}
		for i := 1; i < len(record) && i < len(header); i++ {
			value, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				continue
			}
			obs.Values[header[i]] = value
		}
		out = append(out, obs)
	}
	if header == nil {
		return nil, fmt.Errorf("could not locate the observation header row")
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
