package wds

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ResolvedVector is the outcome of resolving one coordinate. A zero VectorId
// means WDS knows no series for that coordinate.
type ResolvedVector struct {
	VectorId   int64
	Title      string
	Coordinate Coordinate
}

func (v ResolvedVector) Valid() bool {
	return v.VectorId != 0
}

type coordinatePayload struct {
	ProductId  int    `json:"productId"`
	Coordinate string `json:"coordinate"`
}

type seriesInfo struct {
	VectorId int64  `json:"vectorId"`
	Title    string `json:"SeriesTitleEn"`
}

// ResolveVectors translates coordinates into vector ids, preserving input
// order. Requests beyond the WDS batch limit are split into sequential
// batches and concatenated.
//
// WDS answers an entirely unknown set of coordinates with SUCCESS and a
// single zero vector, so a fully invalid result collapses to a nil slice
// here; that keeps it distinguishable from a partial result, which comes
// back full length with individual entries reporting Valid() == false.
func (c *Client) ResolveVectors(ctx context.Context, pid int, coords []Coordinate) ([]ResolvedVector, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveVectors")
	defer span.End()
	span.SetAttributes(
		attribute.Int("pid", pid),
		attribute.Int("coordinates", len(coords)),
	)

	if len(coords) == 0 {
		err := fmt.Errorf("%w: no coordinates to resolve, specify all required dimensions", ErrInvalidArgument)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	results := make([]ResolvedVector, 0, len(coords))
	for start := 0; start < len(coords); start += maxBatchSize {
		end := min(start+maxBatchSize, len(coords))
		batch, err := c.resolveBatch(ctx, pid, coords[start:end])
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to resolve coordinate batch")
			return nil, err
		}
		results = append(results, batch...)
	}

	anyValid := false
	for _, r := range results {
		if r.Valid() {
			anyValid = true
			break
		}
	}
	if !anyValid {
		span.SetStatus(codes.Ok, "no valid series")
		return nil, nil
	}

	return results, nil
}

func (c *Client) resolveBatch(ctx context.Context, pid int, coords []Coordinate) ([]ResolvedVector, error) {
	const endpoint = "getSeriesInfoFromCubePidCoord"

	payload := make([]coordinatePayload, len(coords))
	for i, coord := range coords {
		payload[i] = coordinatePayload{ProductId: pid, Coordinate: coord.String()}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/" + endpoint)
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

	out := make([]ResolvedVector, 0, len(coords))
	for i, item := range items {
		if item.Status != statusSuccess {
			return nil, &RemoteError{Endpoint: endpoint, Status: item.Status}
		}
		var info seriesInfo
		err = json.Unmarshal(item.Object, &info)
		if err != nil {
			return nil, &RemoteError{Endpoint: endpoint, Err: err}
		}

		v := ResolvedVector{VectorId: info.VectorId, Title: info.Title}
		// the all-invalid quirk can shrink the response below the request
		// size, so only items aligned with the request keep their coordinate
		if i < len(coords) {
			v.Coordinate = coords[i]
		}
		out = append(out, v)
	}

	// an entirely unknown batch collapses to one zero vector instead of a
	// full-length list; expand it back so the concatenated results always
	// stay aligned with the input coordinates
	if len(out) == 1 && !out[0].Valid() && len(coords) > 1 {
		out = make([]ResolvedVector, len(coords))
		for i, coord := range coords {
			out[i] = ResolvedVector{Coordinate: coord}
		}
	}

	return out, nil
}
