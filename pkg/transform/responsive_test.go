package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDevice(t *testing.T) {
	assert.Equal(t, Device{Width: 1024, Height: 768}, ParseDevice("1024x768"))
	assert.Equal(t, Device{Width: 320, Height: 480}, ParseDevice("320,480"))
	assert.Equal(t, Device{Width: 320, Height: 480}, ParseDevice("width=320,height=480"))
	assert.Equal(t, Device{}, ParseDevice(""))
	assert.Equal(t, Device{}, ParseDevice("garbage"))
	assert.Equal(t, Device{}, ParseDevice("-1x20"))
}

func TestParseBreakpoints(t *testing.T) {
	breakpoints, err := ParseBreakpoints("small=max-width=480; large=min-width=1200+min-height=600")
	require.NoError(t, err)

	assert.Equal(t, Breakpoints{
		"small": "max-width=480",
		"large": "min-width=1200+min-height=600",
	}, breakpoints)

	_, err = ParseBreakpoints("small=max-size=10")
	assert.ErrorIs(t, err, ErrMalformedBreakpoint)
}

func TestBreakpoints_Matches(t *testing.T) {
	breakpoints := Breakpoints{"small": "max-width=480"}
	phone := Device{Width: 375, Height: 812}
	desktop := Device{Width: 1920, Height: 1080}

	matches, err := breakpoints.Matches("small", phone)
	require.NoError(t, err)
	assert.True(t, matches)

	matches, err = breakpoints.Matches("small", desktop)
	require.NoError(t, err)
	assert.False(t, matches)

	matches, err = breakpoints.Matches("min-width=1000+max-height=1200", desktop)
	require.NoError(t, err)
	assert.True(t, matches)

	matches, err = breakpoints.Matches("small", Device{})
	require.NoError(t, err)
	assert.False(t, matches)

	_, err = breakpoints.Matches("tiny", phone)
	assert.ErrorIs(t, err, ErrUnknownBreakpoint)
}

func TestResolveResponsive(t *testing.T) {
	breakpoints := Breakpoints{"small": "max-width=480", "large": "min-width=1200"}
	value := "resize:800,600;small:resize:100,100;large:crop:1200,600,center"

	phone, err := ResolveResponsive(Device{Width: 375, Height: 812}, value, breakpoints)
	require.NoError(t, err)
	assert.Equal(t, "resize:800,600|resize:100,100", phone.String())

	desktop, err := ResolveResponsive(Device{Width: 1920, Height: 1080}, value, breakpoints)
	require.NoError(t, err)
	assert.Equal(t, "resize:800,600|crop:1200,600,center", desktop.String())

	unknown, err := ResolveResponsive(Device{}, value, breakpoints)
	require.NoError(t, err)
	assert.Equal(t, "resize:800,600", unknown.String())
}

func TestParseResponsive_RejectsRuleWithoutKey(t *testing.T) {
	_, _, err := ParseResponsive("resize:1,1;resize")
	assert.ErrorIs(t, err, ErrMalformedChain)
}
