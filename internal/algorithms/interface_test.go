package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-engine/internal/grid"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"bilateral", "gaussian", "laplacian", "median", "sobel"}, Names())

	for category, names := range GetAlgorithmsByCategory() {
		for _, name := range names {
			assert.True(t, IsValidAlgorithm(name), "%s/%s", category, name)
		}
	}

	_, err := Apply("unsharp", grid.Filled(2, 2, 1), nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.ErrorIs(t, ValidateParameters("unsharp", nil), ErrUnknownAlgorithm)
}

func TestDefaultParamsValidate(t *testing.T) {
	for name, algorithm := range GetAllAlgorithms() {
		assert.NoError(t, algorithm.Validate(algorithm.GetDefaultParams()), name)
		assert.NotEmpty(t, algorithm.GetName(), name)
		assert.NotEmpty(t, algorithm.GetDescription(), name)

		defaults := algorithm.GetDefaultParams()
		for _, info := range algorithm.GetParameterInfo() {
			assert.Equal(t, defaults[info.Name], info.Default, "%s.%s", name, info.Name)
		}
	}
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		params    map[string]interface{}
		wantErr   bool
	}{
		{"gaussian ints", "gaussian", map[string]interface{}{"kernel_size": 3, "sigma": 2}, false},
		{"gaussian even", "gaussian", map[string]interface{}{"kernel_size": 4.0}, true},
		{"gaussian fractional size", "gaussian", map[string]interface{}{"kernel_size": 3.5}, true},
		{"gaussian zero sigma", "gaussian", map[string]interface{}{"sigma": 0.0}, true},
		{"gaussian string", "gaussian", map[string]interface{}{"sigma": "1"}, true},
		{"median ok", "median", map[string]interface{}{"kernel_size": 7.0}, false},
		{"median too large", "median", map[string]interface{}{"kernel_size": 17.0}, true},
		{"bilateral ok", "bilateral", map[string]interface{}{"d": 5.0, "sigma_color": 20.0}, false},
		{"bilateral even", "bilateral", map[string]interface{}{"d": 6.0}, true},
		{"sobel vertical", "sobel", map[string]interface{}{"dx": 0.0, "dy": 1.0}, false},
		{"sobel diagonal", "sobel", map[string]interface{}{"dx": 1.0, "dy": 1.0}, true},
		{"sobel ksize 5", "sobel", map[string]interface{}{"ksize": 5.0}, true},
		{"laplacian ksize 5", "laplacian", map[string]interface{}{"ksize": 5.0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParameters(tt.algorithm, tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyThroughRegistryMatchesDirectCall(t *testing.T) {
	img := noisyImage(9, 7, 6)

	viaRegistry, err := Apply("sobel", img, map[string]interface{}{"dx": 0.0, "dy": 1.0})
	require.NoError(t, err)
	direct, err := SobelEdges(img, 0, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, direct.Pix, viaRegistry.Pix)

	viaRegistry, err = Apply("gaussian", img, map[string]interface{}{"kernel_size": 3.0, "sigma": 0.8})
	require.NoError(t, err)
	direct, err = GaussianBlur(img, 3, 0.8)
	require.NoError(t, err)
	assert.Equal(t, direct.Pix, viaRegistry.Pix)
}

func TestDescribeParams(t *testing.T) {
	assert.Equal(t, "d=9 sigma_color=75", DescribeParams(map[string]interface{}{"sigma_color": 75.0, "d": 9}))
	assert.Equal(t, "", DescribeParams(nil))
}
