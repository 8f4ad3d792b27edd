package patch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
)

const softPathTmpl = `{"$type": "UAssetAPI.PropertyTypes.Objects.FSoftObjectPath, UAssetAPI", "AssetPath": {"$type": "UAssetAPI.PropertyTypes.Objects.FTopLevelAssetPath, UAssetAPI", "PackageName": null, "AssetName": %q}, "SubPathString": null}`

// planeRowJSON renders a PlayerPlane row the way the converter writes it.
func planeRowJSON(planeID int, sid string, gun, speed int) string {
	ref := fmt.Sprintf(softPathTmpl, "/Game/Blueprint/Player/Pawn/AcePlayerPawn_"+sid+".AcePlayerPawn_"+sid+"_C")
	return fmt.Sprintf(`{
  "$type": "UAssetAPI.PropertyTypes.Structs.StructPropertyData, UAssetAPI",
  "StructType": "PlayerPlaneData",
  "Name": "Row_%d",
  "Value": [
    {"Name": "PlaneID", "Value": %d},
    {"Name": "PlaneStringID", "Value": %q},
    {"Name": "AlphabeticalSortNumber", "Value": 0},
    {"Name": "SortNumber", "Value": 0},
    {"Name": "Category", "Value": "EPlaneCategory::Fighter"},
    {"Name": "FlareLoadCount", "Value": 4},
    {"Name": "SpWeaponID1", "Value": "hpaa"},
    {"Name": "SpWeaponID2", "Value": ""},
    {"Name": "SpWeaponID3", "Value": ""},
    {"Name": "GunLoadCount", "Value": %d},
    {"Name": "GraphSpeed", "Value": %d},
    {"Name": "MaxHealth", "Value": 100},
    {"Name": "Reference", "Value": %s},
    {"Name": "Unrelated", "Value": 0.5}
  ]
}`, planeID, planeID, sid, gun, speed, ref)
}

func skinRowJSON(skinID int, sid string, skinNo int) string {
	return fmt.Sprintf(`{
  "Name": "Row_%d",
  "Value": [
    {"Name": "SkinID", "Value": %d},
    {"Name": "SortNumber", "Value": %d},
    {"Name": "SkinNo", "Value": %d},
    {"Name": "PlaneStringID", "Value": %q},
    {"Name": "bNoseEmblem", "Value": true},
    {"Name": "bWingEmblem", "Value": false},
    {"Name": "bTailEmblem", "Value": false},
    {"Name": "PlaneReference", "Value": "old"}
  ]
}`, skinID, skinID, skinID, skinNo, sid)
}

func viewerRowJSON(rowName, sid, viewerID string) string {
	return fmt.Sprintf(`{
  "Name": %q,
  "Value": [
    {"Name": "AircraftViewerID", "Value": %s},
    {"Name": "PlaneStringID", "Value": %q},
    {"Name": "SlotName", "Value": "cockpit"}
  ]
}`, rowName, viewerID, sid)
}

func docJSON(rows ...string) string {
	return fmt.Sprintf(`{
  "Info": "Serialized with UAssetAPI",
  "NameMap": ["PlaneStringID"],
  "Exports": [{"Table": {"Data": [%s]}}]
}`, strings.Join(rows, ","))
}

func mustDoc(t *testing.T, rows ...string) *table.Document {
	t.Helper()
	doc, err := table.Parse([]byte(docJSON(rows...)))
	require.NoError(t, err)
	return doc
}

func mustRow(t *testing.T, data string) *table.Row {
	t.Helper()
	r, err := table.ParseRow([]byte(data))
	require.NoError(t, err)
	return r
}

func planeTemplate(t *testing.T) *table.Row {
	return mustRow(t, planeRowJSON(0, "tmpl", 1, 1))
}

func skinTemplate(t *testing.T) *table.Row {
	return mustRow(t, skinRowJSON(0, "tmpl", 0))
}

func intField(t *testing.T, r *table.Row, name string) int64 {
	t.Helper()
	n, err := r.Get(name).ToInt()
	require.NoError(t, err, "field %s", name)
	return n
}

func strField(t *testing.T, r *table.Row, name string) string {
	t.Helper()
	s, ok := r.GetString(name)
	require.True(t, ok, "field %s", name)
	return s
}

func itoa(n int) string {
	return fmt.Sprint(n)
}
