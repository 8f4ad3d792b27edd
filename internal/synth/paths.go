package synth

import (
	"fmt"
	"strings"
)

// PawnRoot is the content folder holding every player pawn blueprint.
const PawnRoot = "/Game/Blueprint/Player/Pawn"

// PawnPackage is the package path of a plane's pawn blueprint.
func PawnPackage(planeID string) string {
	return PawnRoot + "/AcePlayerPawn_" + planeID
}

// PawnClass is the generated class path of a plane's pawn blueprint.
func PawnClass(planeID string) string {
	return PawnPackage(planeID) + ".AcePlayerPawn_" + planeID + "_C"
}

func skinAsset(planeID string, skinNo int) string {
	return fmt.Sprintf("AcePlayerPawn_%s_s%02d", planeID, skinNo)
}

// SkinPackage is the package path of a skin variant. Skin 0 is the base
// pawn itself.
func SkinPackage(planeID string, skinNo int) string {
	if skinNo == 0 {
		return PawnPackage(planeID)
	}
	return PawnRoot + "/Skin/" + skinAsset(planeID, skinNo)
}

// SkinClass is the generated class path of a skin variant, e.g.
// /Game/Blueprint/Player/Pawn/Skin/AcePlayerPawn_f18f_s02.AcePlayerPawn_f18f_s02_C.
func SkinClass(planeID string, skinNo int) string {
	if skinNo == 0 {
		return PawnClass(planeID)
	}
	return SkinPackage(planeID, skinNo) + "." + skinAsset(planeID, skinNo) + "_C"
}

// CategoryValue formats a category as an EPlaneCategory literal.
func CategoryValue(name string) string {
	return CategoryEnum + "::" + name
}

// ParseCategory strips the enum qualifier from a category literal.
func ParseCategory(value string) string {
	if i := strings.LastIndex(value, "::"); i >= 0 {
		return value[i+2:]
	}
	return value
}
