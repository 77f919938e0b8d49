package ss58

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Substrate development addresses (generic prefix 42).
var devAddresses = []string{
	"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", // Alice
	"5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty", // Bob
	"5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y", // Charlie
	"5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy", // Dave
	"5HGjWAeFDfFCWPsjFQdVV2Msvz2XtMktvgocEZcCj68kUMaw", // Eve
}

func TestValid_DevAddresses(t *testing.T) {
	for _, addr := range devAddresses {
		assert.True(t, Valid(addr), "address %s should be valid", addr)
	}
}

func TestDecode_AccountID(t *testing.T) {
	id, err := Decode(devAddresses[0])
	require.NoError(t, err)
	assert.Len(t, id, 32)
}

func TestValid_Rejects(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"not base58", "0OIl+/"},
		{"too short", "5Grwva"},
		{"corrupted checksum", "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQZ"},
		{"plain text", "not-an-address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Valid(tt.addr))
		})
	}
}
