package decimal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(1234.5)
	assert.Equal(t, "1234.50", m.String())

	s, err := NewMoneyFromString("99.999")
	require.NoError(t, err)
	assert.Equal(t, "100.00", s.Round().String())

	_, err = NewMoneyFromString("abc")
	assert.Error(t, err)

	assert.True(t, Zero().IsZero())
}

func TestRoundingAndFloat(t *testing.T) {
	assert.Equal(t, 10.13, NewMoney(10.125).Float64())
	assert.Equal(t, 10.12, NewMoney(10.1249).Float64())
	assert.Equal(t, "15.75", NewMoney(10.5).Add(NewMoney(5.25)).String())
	assert.Equal(t, "5.25", NewMoney(10.5).Sub(NewMoney(5.25)).String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234567.891, "$1,234,567.89"},
		{0, "$0.00"},
		{999.5, "$999.50"},
		{-1234.5, "-$1,234.50"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NewMoney(tc.in).Format())
	}
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "$1.23M", NewMoney(1234567).Compact())
	assert.Equal(t, "$2.50B", NewMoney(2.5e9).Compact())
	assert.Equal(t, "$12.3K", NewMoney(12345).Compact())
	assert.Equal(t, "-$4.5K", NewMoney(-4500).Compact())
	assert.Equal(t, "$250.00", NewMoney(250).Compact())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "87.5%", Percent(0.875, 1))
	assert.Equal(t, "100.00%", Percent(1, 2))
}
