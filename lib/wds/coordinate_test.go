package wds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func tradeCatalog() *Catalog {
	return NewCatalog(12100168, []Dimension{
		NewDimension("Geography", 1, []Member{
			{Name: "Canada", Id: 1},
			{Name: "Quebec", Id: 6},
		}),
		NewDimension("Trade", 2, []Member{
			{Name: "Import", Id: 1},
			{Name: "Export", Id: 2},
			{Name: "Domestic-exports", Id: 3},
		}),
		NewDimension("North American Product Classification System (NAPCS)", 3, []Member{
			{Name: "All merchandise", Id: 1},
			{Name: "Farm, fishing and intermediate food products", Id: 2},
		}),
	})
}

func TestBuildCoordinatesCartesianProduct(t *testing.T) {
	catalog := tradeCatalog()

	keys, err := BuildCoordinates(catalog, []Selection{
		Select("Geography", "Quebec", "Canada"),
		Select("Trade", "Import", "Export"),
		Select("North American Product Classification System (NAPCS)", "All merchandise"),
	})
	require.NoError(t, err)
	require.Len(t, keys, 4)

	// input order labels, last selection varying fastest
	require.Equal(t, []string{"Quebec", "Import", "All merchandise"}, keys[0].Labels)
	require.Equal(t, []string{"Quebec", "Export", "All merchandise"}, keys[1].Labels)
	require.Equal(t, []string{"Canada", "Import", "All merchandise"}, keys[2].Labels)
	require.Equal(t, []string{"Canada", "Export", "All merchandise"}, keys[3].Labels)

	require.Equal(t, "6.1.1.0.0.0.0.0.0.0", keys[0].Coordinate.String())
	require.Equal(t, "6.2.1.0.0.0.0.0.0.0", keys[1].Coordinate.String())
	require.Equal(t, "1.1.1.0.0.0.0.0.0.0", keys[2].Coordinate.String())
	require.Equal(t, "1.2.1.0.0.0.0.0.0.0", keys[3].Coordinate.String())
}

func TestBuildCoordinatesFixedWidth(t *testing.T) {
	catalog := tradeCatalog()

	keys, err := BuildCoordinates(catalog, []Selection{
		Select("Geography", "Canada"),
	})
	require.NoError(t, err)
	require.Len(t, keys, 1)

	coord := keys[0].Coordinate
	require.Len(t, coord[:], 10)
	require.Equal(t, "1", coord[0])
	for i := 1; i < len(coord); i++ {
		require.Equal(t, "0", coord[i], "slot %d should be padded", i+1)
	}
}

// slot assignment follows the dimension's catalog position, not the order
// the selections were given in
func TestBuildCoordinatesSlotPlacement(t *testing.T) {
	catalog := tradeCatalog()

	keys, err := BuildCoordinates(catalog, []Selection{
		Select("Trade", "Domestic-exports"),
		Select("Geography", "Quebec"),
	})
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "6.3.0.0.0.0.0.0.0.0", keys[0].Coordinate.String())
	// labels keep input order even though slots do not
	require.Equal(t, []string{"Domestic-exports", "Quebec"}, keys[0].Labels)
}

func TestBuildCoordinatesOrderIndependentSet(t *testing.T) {
	catalog := tradeCatalog()

	forward, err := BuildCoordinates(catalog, []Selection{
		Select("Geography", "Quebec", "Canada"),
		Select("Trade", "Import", "Export"),
	})
	require.NoError(t, err)
	reversed, err := BuildCoordinates(catalog, []Selection{
		Select("Trade", "Export", "Import"),
		Select("Geography", "Canada", "Quebec"),
	})
	require.NoError(t, err)
	require.Len(t, reversed, len(forward))

	set := map[Coordinate]bool{}
	for _, k := range forward {
		set[k.Coordinate] = true
	}
	for _, k := range reversed {
		require.True(t, set[k.Coordinate], "coordinate %s missing from forward set", k.Coordinate)
	}
}

func TestBuildCoordinatesDeterministic(t *testing.T) {
	catalog := tradeCatalog()
	specs := []Selection{
		Select("Geography", "Canada", "Quebec"),
		Select("Trade", "Import", "Export", "Domestic-exports"),
	}

	first, err := BuildCoordinates(catalog, specs)
	require.NoError(t, err)
	second, err := BuildCoordinates(catalog, specs)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildCoordinatesUnknownNames(t *testing.T) {
	catalog := tradeCatalog()

	_, err := BuildCoordinates(catalog, []Selection{
		Select("Commodity", "All merchandise"),
	})
	var unknownDim *UnknownDimensionError
	require.True(t, errors.As(err, &unknownDim))
	require.Equal(t, "Commodity", unknownDim.Dimension)

	// matching is exact and case-sensitive
	_, err = BuildCoordinates(catalog, []Selection{
		Select("Geography", "canada"),
	})
	var unknownMember *UnknownMemberError
	require.True(t, errors.As(err, &unknownMember))
	require.Equal(t, "Geography", unknownMember.Dimension)
	require.Equal(t, "canada", unknownMember.Member)
}
