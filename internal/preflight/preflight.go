package preflight

import (
	"spmaal/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional results do not count against Ready.
	Optional bool
	Detail   string
}

// CheckAll executes every check that applies to cfg.
func CheckAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckBinary("MATLAB", cfg.MATLAB.Binary),
		CheckReadableFile("AAL image", cfg.Paths.AALNii),
		CheckAtlasTable("AAL table", cfg.Paths.AALTxt),
		CheckTemplates("Templates", cfg.Paths.TemplateDir),
	}

	state := CheckDirectoryAccess("State directory", cfg.Paths.StateDir)
	state.Optional = true
	results = append(results, state)

	return results
}

// Ready reports whether every non-optional check passed.
func Ready(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return false
		}
	}
	return true
}
