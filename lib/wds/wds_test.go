package wds

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeWds imitates the three WDS endpoints the client talks to, including
// the provider's habit of answering an entirely unknown coordinate batch
// with one zero vector instead of a list.
type fakeWds struct {
	t testing.TB

	// object payload of getCubeMetadata responses
	metadata map[int]any
	// coordinate string -> series info
	series map[string]fakeSeries
	// vectorId -> observations
	points map[int64][]fakePoint

	// coordinate batches seen by the resolve endpoint, in arrival order
	resolveBatches [][]string
}

type fakeSeries struct {
	VectorId int64
	Title    string
}

type fakePoint struct {
	RefPer string
	Value  *float64
}

func (f *fakeWds) start(t testing.TB) *Client {
	f.t = t

	mux := http.NewServeMux()
	mux.HandleFunc("/getCubeMetadata", f.handleMetadata)
	mux.HandleFunc("/getSeriesInfoFromCubePidCoord", f.handleResolve)
	mux.HandleFunc("/getDataFromVectorByReferencePeriodRange", f.handleData)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(server.URL)
}

func writeJson(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func (f *fakeWds) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var payload []struct {
		ProductId int `json:"productId"`
	}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil || len(payload) == 0 {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	object, ok := f.metadata[payload[0].ProductId]
	if !ok {
		writeJson(w, []map[string]any{{"status": "FAILED", "object": "product not found"}})
		return
	}
	writeJson(w, []map[string]any{{"status": "SUCCESS", "object": object}})
}

func (f *fakeWds) handleResolve(w http.ResponseWriter, r *http.Request) {
	var payload []struct {
		ProductId  int    `json:"productId"`
		Coordinate string `json:"coordinate"`
	}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	batch := make([]string, len(payload))
	anyValid := false
	items := make([]map[string]any, 0, len(payload))
	for i, req := range payload {
		batch[i] = req.Coordinate
		info, ok := f.series[req.Coordinate]
		if ok {
			anyValid = true
		}
		items = append(items, map[string]any{
			"status": "SUCCESS",
			"object": map[string]any{
				"vectorId":      info.VectorId,
				"SeriesTitleEn": info.Title,
				"coordinate":    req.Coordinate,
			},
		})
	}
	f.resolveBatches = append(f.resolveBatches, batch)

	if !anyValid {
		// the provider collapses a fully unknown batch to a single zero item
		writeJson(w, []map[string]any{{
			"status": "SUCCESS",
			"object": map[string]any{"vectorId": 0, "SeriesTitleEn": ""},
		}})
		return
	}
	writeJson(w, items)
}

func (f *fakeWds) handleData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := time.Parse("2006-01-02", query.Get("startRefPeriod"))
	if err != nil {
		http.Error(w, "bad startRefPeriod", http.StatusBadRequest)
		return
	}
	end, err := time.Parse("2006-01-02", query.Get("endReferencePeriod"))
	if err != nil {
		http.Error(w, "bad endReferencePeriod", http.StatusBadRequest)
		return
	}

	var items []map[string]any
	for _, quoted := range strings.Split(query.Get("vectorIds"), ",") {
		unquoted, err := strconv.Unquote(quoted)
		if err != nil {
			http.Error(w, "vector ids must be quoted", http.StatusBadRequest)
			return
		}
		vectorId, err := strconv.ParseInt(unquoted, 10, 64)
		if err != nil {
			http.Error(w, "vector ids must be numeric", http.StatusBadRequest)
			return
		}

		var points []map[string]any
		for _, pt := range f.points[vectorId] {
			refDate, err := time.Parse("2006-01-02", pt.RefPer)
			if err != nil {
				f.t.Fatal(err)
			}
			if refDate.Before(start) || refDate.After(end) {
				continue
			}
			points = append(points, map[string]any{"refPer": pt.RefPer, "value": pt.Value})
		}
		items = append(items, map[string]any{
			"status": "SUCCESS",
			"object": map[string]any{"vectorId": vectorId, "vectorDataPoint": points},
		})
	}
	writeJson(w, items)
}

// metadataObject builds the wire shape of a getCubeMetadata object field
// from a catalog literal.
func metadataObject(dimensions ...Dimension) map[string]any {
	var dims []map[string]any
	for _, d := range dimensions {
		var members []map[string]any
		for _, m := range d.Members {
			members = append(members, map[string]any{
				"memberNameEn": m.Name,
				"memberId":     m.Id,
			})
		}
		dims = append(dims, map[string]any{
			"dimensionNameEn":     d.Name,
			"dimensionPositionId": d.Position,
			"member":              members,
		})
	}
	return map[string]any{"dimension": dims}
}

func float(v float64) *float64 {
	return &v
}
