package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		wantRao int64
		wantErr bool
	}{
		{"10.5", 10_500_000_000, false},
		{"0.000000001", 1, false},
		{"0.0005", 500_000, false},
		{"199", 199_000_000_000, false},
		{".5", 500_000_000, false},
		{"15.045", 15_045_000_000, false},
		{"-1.5", -1_500_000_000, false},
		{"1e-3", 1_000_000, false},
		{"0.0000000001", 0, true}, // 10 decimal places
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRao, got.Rao())
		})
	}
}

func TestAmount_Percent(t *testing.T) {
	// 15 TAO at 0.3% is exactly 0.045 TAO.
	total := FromFloat(15.0)
	fee := total.Percent(0.3)
	assert.Equal(t, int64(45_000_000), fee.Rao())
	assert.Equal(t, "0.045", fee.String())
}

func TestAmount_Format(t *testing.T) {
	tests := []struct {
		rao      int64
		decimals int
		want     string
	}{
		{15_045_000_000, 4, "15.0450"},
		{15_045_000_000, 6, "15.045000"},
		{45_000_000, 6, "0.045000"},
		{1, 9, "0.000000001"},
		{0, 4, "0.0000"},
		{999_999_999, 0, "1"},       // rounds up
		{-1_500_000_000, 2, "-1.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewAmount(tt.rao).Format(tt.decimals))
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "15.045", NewAmount(15_045_000_000).String())
	assert.Equal(t, "10", NewAmount(10_000_000_000).String())
	assert.Equal(t, "0", NewAmount(0).String())
	assert.Equal(t, "0.000000001", NewAmount(1).String())
}

func TestAmount_Arithmetic(t *testing.T) {
	a := FromFloat(10)
	b := FromFloat(5)
	assert.Equal(t, int64(15_000_000_000), a.Add(b).Rao())
	assert.Equal(t, int64(5_000_000_000), a.Sub(b).Rao())
	assert.Equal(t, int64(30_000_000_000), a.MulInt(3).Rao())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(a))
	assert.True(t, a.IsPositive())
	assert.True(t, NewAmount(0).IsZero())
}

func TestTotalAmount(t *testing.T) {
	rs := []Recipient{
		{Address: "a", Amount: FromFloat(10)},
		{Address: "b", Amount: FromFloat(5)},
	}
	assert.Equal(t, "15", TotalAmount(rs).String())
}
