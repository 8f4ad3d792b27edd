package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func TestListPlanes(t *testing.T) {
	doc := mustDoc(t, planeRowJSON(101, "su27", 1, 1), planeRowJSON(102, "f18f", 1, 1))
	assert.Equal(t, []string{"f18f", "su27"}, ListPlanes(doc))
}

func TestReadPlane(t *testing.T) {
	doc := mustDoc(t, planeRowJSON(120, "abc1", 300, 55))

	v, err := ReadPlane(doc, "abc1")
	require.NoError(t, err)

	assert.Equal(t, "abc1", v.PlaneStringID)
	assert.Equal(t, 120, v.PlaneID)
	assert.Equal(t, types.CategoryFighter, v.Category)
	require.NotNil(t, v.FlareCount)
	assert.Equal(t, 4, *v.FlareCount)
	assert.Equal(t, [3]string{"hpaa", "", ""}, v.SpWeapons)
	assert.Equal(t, map[string]int{"GunLoadCount": 300, "GraphSpeed": 55, "MaxHealth": 100}, v.Stats)

	_, err = ReadPlane(doc, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestReadPlane_RoundTripsThroughEdit(t *testing.T) {
	doc := mustDoc(t, planeRowJSON(120, "abc1", 300, 55))
	before, err := doc.Rows[0].MarshalJSON()
	require.NoError(t, err)

	v, err := ReadPlane(doc, "abc1")
	require.NoError(t, err)
	_, err = PatchPlane(doc, nil, types.ModeEdit, v)
	require.NoError(t, err)

	after, err := doc.Rows[0].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestReadSkins(t *testing.T) {
	doc := mustDoc(t,
		skinRowJSON(101, "abc1", 0),
		skinRowJSON(102, "f18f", 0),
		skinRowJSON(103, "abc1", 4),
	)
	assert.Equal(t, []types.SkinDescriptor{
		{SkinNo: 0, Emblems: types.Emblems{Nose: true}},
		{SkinNo: 4, Emblems: types.Emblems{Nose: true}},
	}, ReadSkins(doc, "abc1"))
	assert.Empty(t, ReadSkins(doc, "none"))
}
