// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        *Address
		expectedStr string
	}{
		{
			name:        "simple path",
			addr:        New("a", "b"),
			expectedStr: "a.b",
		},
		{
			name:        "spaces are kept",
			addr:        New("render", "Output Image"),
			expectedStr: "render.Output Image",
		},
		{
			name:        "nil address",
			addr:        nil,
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"a.b.c",
		"camera.Resolution.Width",
		"http-client.Output Image",
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)

			roundTripID := addr.String()
			assert.Equal(t, id, roundTripID)

			roundTripAddr, err := Parse(roundTripID)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func TestAddress_Equal(t *testing.T) {
	addr1, _ := Parse("a.b")
	addr2, _ := Parse("a > b")
	addr3, _ := Parse("a.c")

	assert.True(t, addr1.Equal(addr2))
	assert.False(t, addr1.Equal(addr3))
	assert.False(t, addr1.Equal(nil))
	assert.False(t, (*Address)(nil).Equal(addr1))
	assert.True(t, (*Address)(nil).Equal(nil))
}

func TestAddress_Navigation(t *testing.T) {
	addr := New("cam", "Resolution", "Width")
	assert.Equal(t, "cam", addr.First())
	assert.Equal(t, "Width", addr.Last())
	assert.Equal(t, "Resolution.Width", addr.Rest().String())
	assert.Equal(t, "cam.Resolution", addr.Parent().String())
	assert.Equal(t, "cam.Resolution.Width.Raw", addr.Child("Raw").String())

	single := New("gain")
	assert.Nil(t, single.Rest())
	assert.Nil(t, single.Parent())
	assert.Equal(t, "x", (*Address)(nil).Child("x").String())
}
