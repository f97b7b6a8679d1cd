// Package wds is a client for Statistics Canada's Web Data Service (WDS),
// the REST API behind CODR tables. It can inspect cube metadata, expand
// human-readable series selections into WDS coordinates, resolve coordinates
// to vector ids and fetch time-series data over a reference-period range.
//
// A "coordinate" is a dot-joined chain of member ids (one per non-time
// dimension, ordered by dimension position, padded to 10 slots with '0').
// A "vector" is a single time series identified by vectorId.
package wds

import (
	"econdata-backend/lib/telemetry"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/wds")

const DefaultBaseUrl = "https://www150.statcan.gc.ca/t1/wds/rest"

// maximum items per request accepted by the WDS batch endpoints
const maxBatchSize = 300

type Client struct {
	http *resty.Client
}

func NewClient(baseUrl string) *Client {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("accept", "application/json")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "wds/http")

	return &Client{http: client}
}

// every WDS response is a list of these, one per requested item.
// HTTP 200 does not imply success, the item-level status does.
type envelope struct {
	Status string          `json:"status"`
	Object json.RawMessage `json:"object"`
}

const statusSuccess = "SUCCESS"
