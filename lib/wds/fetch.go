package wds

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const refDateFormat = "2006-01-02"

// SeriesPoint is one observation of one vector: the reference period it
// belongs to and its value, which the provider may leave absent.
type SeriesPoint struct {
	VectorId int64
	RefDate  time.Time
	Value    *float64
}

type vectorData struct {
	VectorId   int64 `json:"vectorId"`
	DataPoints []struct {
		RefPer string   `json:"refPer"`
		Value  *float64 `json:"value"`
	} `json:"vectorDataPoint"`
}

// VectorData fetches observations for the given vectors whose reference
// periods fall within [start, end] inclusive, flattened into one SeriesPoint
// per (vector, period). Vector batches beyond the WDS limit are fetched
// sequentially. Errors propagate immediately, there is no retry.
func (c *Client) VectorData(ctx context.Context, vectorIds []int64, start, end time.Time) ([]SeriesPoint, error) {
	ctx, span := tracer.Start(ctx, "client:VectorData")
	defer span.End()
	span.SetAttributes(
		attribute.Int("vectors", len(vectorIds)),
		attribute.String("start", start.Format(refDateFormat)),
		attribute.String("end", end.Format(refDateFormat)),
	)

	var points []SeriesPoint
	for i := 0; i < len(vectorIds); i += maxBatchSize {
		j := min(i+maxBatchSize, len(vectorIds))
		batch, err := c.vectorDataBatch(ctx, vectorIds[i:j], start, end)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch vector batch")
			return nil, err
		}
		points = append(points, batch...)
	}

	return points, nil
}

func (c *Client) vectorDataBatch(ctx context.Context, vectorIds []int64, start, end time.Time) ([]SeriesPoint, error) {
	const endpoint = "getDataFromVectorByReferencePeriodRange"

	// the range endpoint takes a comma-joined list of quoted vector ids
	quoted := make([]string, len(vectorIds))
	for i, id := range vectorIds {
		quoted[i] = fmt.Sprintf("%q", fmt.Sprint(id))
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("vectorIds", strings.Join(quoted, ",")).
		SetQueryParam("startRefPeriod", start.Format(refDateFormat)).
		SetQueryParam("endReferencePeriod", end.Format(refDateFormat)).
		Get("/" + endpoint)
	if err != nil {
		return nil, &RemoteError{Endpoint: endpoint, Err: err}
	}
	if res.IsError() {
		return nil, &RemoteError{Endpoint: endpoint, Status: res.Status()}
	}

	var items []envelope
	err = json.Unmarshal(res.Body(), &items)
	if err != nil {
		return nil, &RemoteError{Endpoint: endpoint, Err: err}
	}

	var points []SeriesPoint
	for _, item := range items {
		if item.Status != statusSuccess {
			return nil, &RemoteError{Endpoint: endpoint, Status: item.Status}
		}
		var data vectorData
		err = json.Unmarshal(item.Object, &data)
		if err != nil {
			return nil, &RemoteError{Endpoint: endpoint, Err: err}
		}

		for _, pt := range data.DataPoints {
			refDate, err := time.Parse(refDateFormat, pt.RefPer)
			if err != nil {
				return nil, &RemoteError{Endpoint: endpoint, Err: err}
			}
			points = append(points, SeriesPoint{
				VectorId: data.VectorId,
				RefDate:  refDate,
				Value:    pt.Value,
			})
		}
	}

	return points, nil
}
