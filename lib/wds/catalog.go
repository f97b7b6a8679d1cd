package wds

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Member is one category value within a dimension, e.g. "Canada" inside
// "Geography".
type Member struct {
	Name string
	Id   int
}

// Dimension is one categorical axis of a cube, excluding time. Positions are
// unique positive integers assigned by WDS; Members preserves the provider's
// member order.
type Dimension struct {
	Name     string
	Position int
	Members  []Member

	byName map[string]int
}

func (d Dimension) MemberId(name string) (int, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// Catalog holds the dimension/member structure of one cube, mapped to a
// strongly typed form right at the fetch boundary. Dimensions is sorted by
// provider position ascending and read-only after construction.
type Catalog struct {
	ProductId  int
	Dimensions []Dimension

	byName map[string]int
}

// NewDimension indexes the given members for name lookup. Member order is
// preserved as given (the provider's order).
func NewDimension(name string, position int, members []Member) Dimension {
	d := Dimension{
		Name:     name,
		Position: position,
		Members:  members,
		byName:   make(map[string]int, len(members)),
	}
	for _, m := range members {
		d.byName[m.Name] = m.Id
	}
	return d
}

// NewCatalog sorts the dimensions by position and indexes them by name.
func NewCatalog(productId int, dimensions []Dimension) *Catalog {
	c := &Catalog{
		ProductId:  productId,
		Dimensions: dimensions,
		byName:     make(map[string]int, len(dimensions)),
	}
	sort.Slice(c.Dimensions, func(i, j int) bool {
		return c.Dimensions[i].Position < c.Dimensions[j].Position
	})
	for i, d := range c.Dimensions {
		c.byName[d.Name] = i
	}
	return c
}

func (c *Catalog) Dimension(name string) (Dimension, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Dimension{}, false
	}
	return c.Dimensions[i], true
}

// Positions maps each dimension name to its provider position.
func (c *Catalog) Positions() map[string]int {
	out := make(map[string]int, len(c.Dimensions))
	for _, d := range c.Dimensions {
		out[d.Name] = d.Position
	}
	return out
}

// wire shape of the getCubeMetadata object field, english variants only
type cubeMetadata struct {
	Dimension []struct {
		DimensionNameEn     string `json:"dimensionNameEn"`
		DimensionPositionId int    `json:"dimensionPositionId"`
		Member              []struct {
			MemberNameEn string `json:"memberNameEn"`
			MemberId     int    `json:"memberId"`
		} `json:"member"`
	} `json:"dimension"`
}

// CubeMetadata fetches the dimension/member catalog for one productId (PID).
func (c *Client) CubeMetadata(ctx context.Context, pid int) (*Catalog, error) {
	ctx, span := tracer.Start(ctx, "client:CubeMetadata")
	defer span.End()
	span.SetAttributes(attribute.Int("pid", pid))

	const endpoint = "getCubeMetadata"

	res, err := c.http.R().
		SetContext(ctx).
		SetBody([]map[string]int{{"productId": pid}}).
		Post("/" + endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch cube metadata")
		return nil, &RemoteError{Endpoint: endpoint, Err: err}
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return nil, &RemoteError{Endpoint: endpoint, Status: res.Status()}
	}

	var items []envelope
	err = json.Unmarshal(res.Body(), &items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal metadata payload")
		return nil, &RemoteError{Endpoint: endpoint, Err: err}
	}
	if len(items) == 0 {
		span.SetStatus(codes.Error, "empty metadata payload")
		return nil, &RemoteError{Endpoint: endpoint, Err: fmt.Errorf("unexpected empty payload")}
	}
	if items[0].Status != statusSuccess {
		span.SetStatus(codes.Error, items[0].Status)
		return nil, &RemoteError{Endpoint: endpoint, Status: items[0].Status}
	}

	var meta cubeMetadata
	err = json.Unmarshal(items[0].Object, &meta)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal cube metadata object")
		return nil, &RemoteError{Endpoint: endpoint, Err: err}
	}

	dimensions := make([]Dimension, 0, len(meta.Dimension))
	for _, dim := range meta.Dimension {
		members := make([]Member, len(dim.Member))
		for i, m := range dim.Member {
			members[i] = Member{Name: m.MemberNameEn, Id: m.MemberId}
		}
		dimensions = append(dimensions, NewDimension(dim.DimensionNameEn, dim.DimensionPositionId, members))
	}

	return NewCatalog(pid, dimensions), nil
}

type PreviewTarget string

const (
	PreviewNames  PreviewTarget = "names"
	PreviewValues PreviewTarget = "values"
	PreviewFull   PreviewTarget = "full"
)

// Preview holds the result of PreviewDimensions; only the field matching the
// requested target is populated.
type Preview struct {
	// dimension name -> provider position
	Names map[string]int
	// members of one dimension in provider order
	Values []Member
	Full   *Catalog
}

// PreviewDimensions inspects a cube's dimensions without fetching any data.
// The dimension argument is only used (and required) for PreviewValues.
// Repeated calls over an already loaded catalog are pure reads, see
// PreviewCatalog.
func (c *Client) PreviewDimensions(ctx context.Context, pid int, target PreviewTarget, dimension string) (*Preview, error) {
	ctx, span := tracer.Start(ctx, "client:PreviewDimensions")
	defer span.End()

	catalog, err := c.CubeMetadata(ctx, pid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load catalog")
		return nil, err
	}
	return PreviewCatalog(catalog, target, dimension)
}

// PreviewCatalog is PreviewDimensions over a catalog that has already been
// loaded. It performs no remote calls.
func PreviewCatalog(catalog *Catalog, target PreviewTarget, dimension string) (*Preview, error) {
	switch target {
	case PreviewFull:
		return &Preview{Full: catalog}, nil
	case PreviewNames:
		return &Preview{Names: catalog.Positions()}, nil
	case PreviewValues:
		if dimension == "" {
			return nil, fmt.Errorf("%w: target %q requires a dimension name", ErrInvalidArgument, target)
		}
		dim, ok := catalog.Dimension(dimension)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a valid dimension", ErrInvalidArgument, dimension)
		}
		return &Preview{Values: dim.Members}, nil
	default:
		return nil, fmt.Errorf("%w: unknown preview target %q", ErrInvalidArgument, target)
	}
}
