// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name:         "simple path",
			raw:          "a.b.c",
			expectedAddr: New("a", "b", "c"),
		},
		{
			name:         "arrowed path",
			raw:          "camera > Resolution > Width",
			expectedAddr: New("camera", "Resolution", "Width"),
		},
		{
			name:         "mixed separators",
			raw:          "camera.Resolution > Width",
			expectedAddr: New("camera", "Resolution", "Width"),
		},
		{
			name:         "inner spaces",
			raw:          "render > Output Image",
			expectedAddr: New("render", "Output Image"),
		},
		{
			name:         "single segment",
			raw:          "gain",
			expectedAddr: New("gain"),
		},
		{
			name:      "error - empty path segment",
			raw:       "a..b",
			expectErr: true,
		},
		{
			name:      "error - empty arrow segment",
			raw:       "a > > b",
			expectErr: true,
		},
		{
			name:      "error - empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - blank string",
			raw:       "   ",
			expectErr: true,
		},
		{
			name:      "error - invalid characters",
			raw:       "a.b[0]",
			expectErr: true,
		},
		{
			name:      "error - just hyphen",
			raw:       "-",
			expectErr: true,
		},
		{
			name:      "error - just dot",
			raw:       ".",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, addr)
			assert.True(t, tc.expectedAddr.Equal(addr), "Parsed address does not match expected address: %s", addr)
		})
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Width"))
	assert.True(t, ValidName("output_2"))
	assert.True(t, ValidName("Output Image"))
	assert.False(t, ValidName(" Width"))
	assert.False(t, ValidName("a.b"))
	assert.False(t, ValidName("a>b"))
	assert.False(t, ValidName(""))
}
