package labeling

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// baseArgs keep MATLAB headless.
var baseArgs = []string{"-nodisplay", "-nosplash", "-nodesktop"}

// scriptName returns a fresh MATLAB identifier: a letter first, then only
// letters, digits, and underscores, well under namelengthmax.
func scriptName() string {
	return "aal_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// matlabString quotes s as a MATLAB character vector literal.
func matlabString(s string) string {
	return "'" + matlabEscape(s) + "'"
}

// matlabEscape doubles single quotes for interpolation inside '...'.
func matlabEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func formatThreshold(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// batchStatement is the -r argument: enter the working directory, expose the
// rendered scripts, run the wrapper, and always leave MATLAB.
func batchStatement(workDir, scriptDir, wrapper string) string {
	return fmt.Sprintf(
		"cd(%s); addpath(%s); try, %s; catch err, disp(getReport(err, 'extended')); exit(1); end; exit(0);",
		matlabString(workDir), matlabString(scriptDir), wrapper,
	)
}

func matlabArgs(extra []string, statement string) []string {
	args := make([]string, 0, len(baseArgs)+len(extra)+2)
	args = append(args, baseArgs...)
	args = append(args, extra...)
	return append(args, "-r", statement)
}
