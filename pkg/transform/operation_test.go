package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChain(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Chain
	}{
		{"single operation", "resize:300,300", Chain{NewOperation("resize", "300", "300")}},
		{"comma joined operations", "resize:300,300,crop:100,100,center", Chain{
			NewOperation("resize", "300", "300"),
			NewOperation("crop", "100", "100", "center"),
		}},
		{"pipe separated operations", "grayscale|rotate:90", Chain{
			NewOperation("grayscale"),
			NewOperation("rotate", "90"),
		}},
		{"whitespace around tokens", " resize:10, 20 | flip:h ", Chain{
			NewOperation("resize", "10", "20"),
			NewOperation("flip", "h"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := ParseChain(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(chain), "expected %v, got %v", tt.expected, chain)
		})
	}
}

func TestParseChain_Errors(t *testing.T) {
	_, err := ParseChain("")
	assert.ErrorIs(t, err, ErrEmptyChain)

	_, err = ParseChain("resize:1,1||flip:h")
	assert.ErrorIs(t, err, ErrMalformedChain)

	_, err = ParseChain(":300")
	assert.ErrorIs(t, err, ErrMalformedChain)
}

func TestChain_StringIsCanonical(t *testing.T) {
	chain := MustParseChain("resize:300,300,crop:100,100|grayscale")
	assert.Equal(t, "resize:300,300|crop:100,100|grayscale", chain.String())

	reparsed, err := ParseChain(chain.String())
	require.NoError(t, err)
	assert.True(t, chain.Equal(reparsed))
}

func TestOperation_NumericArguments(t *testing.T) {
	op := NewOperation("resize", "300", "abc")

	width, err := op.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 300, width)

	_, err = op.Int(1)
	assert.ErrorIs(t, err, ErrMalformedArgument)

	_, err = op.Float(5)
	assert.ErrorIs(t, err, ErrMalformedArgument)
}
