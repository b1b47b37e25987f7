package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KyungWonPark/nifti"
)

// Voxel is a grid coordinate in a test volume.
type Voxel struct {
	X, Y, Z int
}

// WriteNiftiAtlas writes a gzipped float32 label volume of the given size to
// path, which must end in .nii.gz. Voxels missing from labels stay zero.
func WriteNiftiAtlas(t testing.TB, path string, dims [3]int, labels map[Voxel]int) string {
	t.Helper()
	if !strings.HasSuffix(path, ".nii.gz") {
		t.Fatalf("nifti atlas path %s must end in .nii.gz", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	img := nifti.NewImg(dims[0], dims[1], dims[2], 1)
	for v, label := range labels {
		img.SetAt(uint32(v.X), uint32(v.Y), uint32(v.Z), 0, float32(label))
	}
	img.Save(strings.TrimSuffix(path, ".gz"))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("nifti atlas not written: %v", err)
	}
	return path
}

// ReadNiftiVolume loads a NIfTI file and returns its header and the non-zero
// voxels of its first volume.
func ReadNiftiVolume(t testing.TB, path string) (nifti.Nifti1Header, map[Voxel]float32) {
	t.Helper()
	var img nifti.Nifti1Image
	img.LoadImage(path, true)
	dims := img.GetDims()
	voxels := make(map[Voxel]float32)
	for x := 0; x < dims[0]; x++ {
		for y := 0; y < dims[1]; y++ {
			for z := 0; z < dims[2]; z++ {
				if v := img.GetAt(uint32(x), uint32(y), uint32(z), 0); v != 0 {
					voxels[Voxel{X: x, Y: y, Z: z}] = v
				}
			}
		}
	}
	return img.GetHeader(), voxels
}
