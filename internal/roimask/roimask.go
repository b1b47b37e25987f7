// Package roimask writes a single-region mask of the AAL atlas as NIfTI.
//
// Every voxel of the atlas volume whose value equals the region label keeps
// that value; all other voxels become zero. The mask shares the atlas grid
// and geometry and is written as gzipped float32 NIfTI.
package roimask

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KyungWonPark/nifti"

	"spmaal/internal/services"
)

// NIFTI_TYPE_FLOAT32, the voxel type nifti.NewImg allocates.
const datatypeFloat32 = 16

// Resolver maps region names to labels. *atlas.Table satisfies it.
type Resolver interface {
	LabelForName(name string) (int, error)
	NameForLabel(label int) (string, error)
}

// Region identifies a resolved atlas region.
type Region struct {
	Name  string
	Label int
}

// Resolve turns a CLI region argument into a label. With byLabel the
// argument must be an integer label present in the table; otherwise it is a
// name matched the way region lookups are.
func Resolve(r Resolver, region string, byLabel bool) (Region, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return Region{}, services.Wrap(services.ErrValidation, "roimask", "resolve", "region required", nil)
	}
	if byLabel {
		label, err := strconv.Atoi(region)
		if err != nil {
			return Region{}, services.Wrap(services.ErrValidation, "roimask", "resolve",
				fmt.Sprintf("label %q is not an integer", region), err)
		}
		name, err := r.NameForLabel(label)
		if err != nil {
			return Region{}, err
		}
		return Region{Name: name, Label: label}, nil
	}
	label, err := r.LabelForName(region)
	if err != nil {
		return Region{}, err
	}
	name, err := r.NameForLabel(label)
	if err != nil {
		name = region
	}
	return Region{Name: name, Label: label}, nil
}

// Stats summarizes a written mask.
type Stats struct {
	Output string
	Label  int
	Voxels int
}

// Write masks the atlas image at atlasPath down to label and saves it to
// output. The writer always gzips, so output must end in .nii.gz; a bare .nii
// name gains the .gz suffix and Stats.Output reports the file written.
func Write(atlasPath string, label int, output string) (stats Stats, err error) {
	if _, statErr := os.Stat(atlasPath); statErr != nil {
		return Stats{}, services.Wrap(services.ErrMissingInput, "roimask", "load",
			fmt.Sprintf("check path to AAL (%s not found)", atlasPath), statErr)
	}
	target, err := OutputPath(output)
	if err != nil {
		return Stats{}, err
	}
	if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", mkErr)
	}

	// The nifti reader panics on malformed input instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrValidation, "roimask", "nifti",
				fmt.Sprintf("%s: %v", atlasPath, r), nil)
		}
	}()

	var img nifti.Nifti1Image
	img.LoadImage(atlasPath, true)
	dims := img.GetDims()
	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
		return Stats{}, services.Wrap(services.ErrValidation, "roimask", "load",
			fmt.Sprintf("%s is not a NIfTI volume", atlasPath), nil)
	}

	mask := nifti.NewImg(dims[0], dims[1], dims[2], 1)
	mask.SetNewHeader(maskHeader(img.GetHeader(), label))

	voxels := maskVolume(dims,
		func(x, y, z uint32) float64 { return float64(img.GetAt(x, y, z, 0)) },
		func(x, y, z uint32, v float32) { mask.SetAt(x, y, z, 0, v) },
		label,
	)
	if voxels == 0 {
		return Stats{Label: label}, services.Wrap(services.ErrValidation, "roimask", "mask",
			fmt.Sprintf("no voxel of %s carries label %d", atlasPath, label), nil)
	}

	mask.Save(strings.TrimSuffix(target, ".gz"))
	if _, statErr := os.Stat(target); statErr != nil {
		return Stats{}, fmt.Errorf("mask not written: %w", statErr)
	}
	return Stats{Output: target, Label: label, Voxels: voxels}, nil
}

// OutputPath normalizes a mask destination to the .nii.gz name the writer
// produces.
func OutputPath(output string) (string, error) {
	output = strings.TrimSpace(output)
	lower := strings.ToLower(output)
	switch {
	case strings.HasSuffix(lower, ".nii.gz") && len(output) > len(".nii.gz"):
		return output, nil
	case strings.HasSuffix(lower, ".nii") && len(output) > len(".nii"):
		return output + ".gz", nil
	default:
		return "", services.Wrap(services.ErrValidation, "roimask", "write",
			fmt.Sprintf("output %q must be a .nii.gz file", output), nil)
	}
}

// maskHeader keeps the atlas geometry and describes a single float32 volume,
// which is what NewImg allocates.
func maskHeader(h nifti.Nifti1Header, label int) nifti.Nifti1Header {
	h.Dim[0] = 3
	for i := 4; i < len(h.Dim); i++ {
		h.Dim[i] = 1
	}
	h.Datatype = datatypeFloat32
	h.Bitpix = 32
	h.VoxOffset = 352
	h.SclSlope = 1
	h.SclInter = 0
	h.CalMin = 0
	h.CalMax = float32(label)
	h.Magic = [4]byte{'n', '+', '1', 0}
	return h
}

// maskVolume copies voxels equal to label from get to set and zeroes the rest.
// It returns the number of voxels kept.
func maskVolume(dims [4]int, get func(x, y, z uint32) float64, set func(x, y, z uint32, v float32), label int) int {
	kept := 0
	want := float64(label)
	for x := uint32(0); x < uint32(dims[0]); x++ {
		for y := uint32(0); y < uint32(dims[1]); y++ {
			for z := uint32(0); z < uint32(dims[2]); z++ {
				if math.Round(get(x, y, z)) == want {
					set(x, y, z, float32(label))
					kept++
					continue
				}
				set(x, y, z, 0)
			}
		}
	}
	return kept
}
