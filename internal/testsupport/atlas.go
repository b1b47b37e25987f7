package testsupport

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// Region is a lookup table entry for test fixtures.
type Region struct {
	Name  string
	Label int
}

// DefaultRegions returns a handful of real AAL entries.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Precentral_L", Label: 2001},
		{Name: "Precentral_R", Label: 2002},
		{Name: "Hippocampus_L", Label: 4101},
		{Name: "Hippocampus_R", Label: 4102},
		{Name: "Amygdala_L", Label: 4201},
		{Name: "Amygdala_R", Label: 4202},
	}
}

// WriteAtlasTable writes ROI_MNI_V5.txt into dir in the AAL layout
// (index, name, label) and returns its path.
func WriteAtlasTable(t testing.TB, dir string, regions []Region) string {
	t.Helper()
	var b strings.Builder
	for i, region := range regions {
		fmt.Fprintf(&b, "%d\t%s\t%d\n", i+1, region.Name, region.Label)
	}
	return WriteFile(t, filepath.Join(dir, "ROI_MNI_V5.txt"), b.String())
}
