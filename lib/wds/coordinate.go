package wds

import (
	"fmt"
	"strings"
)

// WDS coordinates carry up to 10 non-time dimension slots; unused slots stay
// at the '0' placeholder.
const coordinateSlots = 10

const padMemberId = "0"

// Coordinate is the fixed-width positional encoding of one member selection
// per dimension. Slot i (1-indexed) holds the member id of the dimension
// whose provider position is i, or '0' if nothing was selected there.
// Coordinates are plain values, never mutated after construction, and
// comparable with ==.
type Coordinate [coordinateSlots]string

// String renders the dot-joined wire form, e.g. "1.2.7.0.0.0.0.0.0.0".
func (c Coordinate) String() string {
	return strings.Join(c[:], ".")
}

func emptyCoordinate() Coordinate {
	var c Coordinate
	for i := range c {
		c[i] = padMemberId
	}
	return c
}

// Selection picks one or more members (by exact english name) of a single
// dimension. A scalar selection is just a one-element Members slice.
type Selection struct {
	Dimension string
	Members   []string
}

func Select(dimension string, members ...string) Selection {
	return Selection{Dimension: dimension, Members: members}
}

// SeriesKey ties one combination of selected members (Labels, in selection
// input order) to the coordinate it encodes.
type SeriesKey struct {
	Labels     []string
	Coordinate Coordinate
}

// BuildCoordinates expands the cartesian product of the given selections
// into one SeriesKey per combination. Enumeration is deterministic: specs
// iterate outer-to-inner in input order with the last selection varying
// fastest. Dimensions the selections leave out keep their pad slots; whether
// such a partial coordinate names a real series is for the resolver to find
// out.
func BuildCoordinates(catalog *Catalog, specs []Selection) ([]SeriesKey, error) {
	type resolvedSelection struct {
		position int
		names    []string
		ids      []string
	}

	resolved := make([]resolvedSelection, len(specs))
	total := 1
	for i, spec := range specs {
		dim, ok := catalog.Dimension(spec.Dimension)
		if !ok {
			return nil, &UnknownDimensionError{Dimension: spec.Dimension}
		}
		if dim.Position < 1 || dim.Position > coordinateSlots {
			return nil, fmt.Errorf(
				"dimension %q has position %d outside the %d coordinate slots",
				dim.Name, dim.Position, coordinateSlots,
			)
		}

		r := resolvedSelection{
			position: dim.Position,
			names:    spec.Members,
			ids:      make([]string, len(spec.Members)),
		}
		for j, member := range spec.Members {
			id, ok := dim.MemberId(member)
			if !ok {
				return nil, &UnknownMemberError{Dimension: spec.Dimension, Member: member}
			}
			r.ids[j] = fmt.Sprint(id)
		}
		resolved[i] = r
		total *= len(spec.Members)
	}
	if len(specs) == 0 || total == 0 {
		return nil, nil
	}

	out := make([]SeriesKey, 0, total)
	odometer := make([]int, len(resolved))
	for n := 0; n < total; n++ {
		coord := emptyCoordinate()
		labels := make([]string, len(resolved))
		for i, r := range resolved {
			j := odometer[i]
			labels[i] = r.names[j]
			coord[r.position-1] = r.ids[j]
		}
		out = append(out, SeriesKey{Labels: labels, Coordinate: coord})

		for i := len(odometer) - 1; i >= 0; i-- {
			odometer[i]++
			if odometer[i] < len(resolved[i].names) {
				break
			}
			odometer[i] = 0
		}
	}

	return out, nil
}
