package labeling

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spmaal/internal/services"
)

// Mode selects which AAL labeling script MATLAB runs.
type Mode int

const (
	ModeLocalMaxima Mode = iota
	ModeExtendedLocalMaxima
	ModeCluster
)

var modeScripts = [...]string{
	ModeLocalMaxima:         "grg_list_dlabels",
	ModeExtendedLocalMaxima: "grg_list_plabels",
	ModeCluster:             "grg_clusters_plabels",
}

var modeNames = [...]string{
	ModeLocalMaxima:         "local maxima labeling",
	ModeExtendedLocalMaxima: "extended local maxima labeling",
	ModeCluster:             "cluster labeling",
}

// Modes lists every supported mode in numeric order.
func Modes() []Mode {
	return []Mode{ModeLocalMaxima, ModeExtendedLocalMaxima, ModeCluster}
}

// ModeFromInt converts the numeric CLI/config form (0, 1, 2).
func ModeFromInt(value int) (Mode, error) {
	mode := Mode(value)
	if !mode.Valid() {
		return 0, services.Wrap(services.ErrValidation, "labeling", "mode",
			fmt.Sprintf("mode %d not supported (%s)", value, ModeHelp()), nil)
	}
	return mode, nil
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= ModeLocalMaxima && m <= ModeCluster
}

// Script is the MATLAB function name the mode template defines.
func (m Mode) Script() string {
	if !m.Valid() {
		return ""
	}
	return modeScripts[m]
}

// Template is the template file rendered for this mode.
func (m Mode) Template() string {
	if !m.Valid() {
		return ""
	}
	return modeScripts[m] + ".m.tpl"
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Title is the display form, e.g. "Extended Local Maxima Labeling".
func (m Mode) Title() string {
	return cases.Title(language.English).String(m.String())
}

// ModeHelp renders "0: Local Maxima Labeling - 1: ..." for flag help.
func ModeHelp() string {
	parts := make([]string, 0, len(modeScripts))
	for _, mode := range Modes() {
		parts = append(parts, fmt.Sprintf("%d: %s", int(mode), mode.Title()))
	}
	return strings.Join(parts, " - ")
}
