package types

// Game table names. Each is the base name of a .json or .uasset file in the
// data directory.
const (
	PlayerPlaneTable    = "PlayerPlaneDataTable"
	SkinTable           = "SkinDataTable"
	AircraftViewerTable = "AircraftViewerDataTable"
)

// StandardTableNames lists the tables in pipeline order.
var StandardTableNames = []string{
	PlayerPlaneTable,
	SkinTable,
	AircraftViewerTable,
}

// Template asset file names, resolved against the template directory.
const (
	PlaneTemplateFile = "player_plane_template.json"
	SkinTemplateFile  = "skin_template.json"
)
