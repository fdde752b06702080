package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Query
	}{
		{
			"plain request",
			"img=photo.jpg&t=resize:300,300",
			Query{"img": "photo.jpg", "t": "resize:300,300"},
		},
		{
			"leading question mark",
			"?img=photo.jpg&t=grayscale",
			Query{"img": "photo.jpg", "t": "grayscale"},
		},
		{
			"responsive rule stays in the transform value",
			"img=photo.jpg&t=resize:800,600;small:resize:100,100&r=true",
			Query{"img": "photo.jpg", "t": "resize:800,600;small:resize:100,100", "r": "true"},
		},
		{
			"rule segment after the flag is folded back",
			"img=photo.jpg&t=resize:800,600;small:resize:100,100&r=true;large:crop:1200,600&r=true",
			Query{"img": "photo.jpg", "t": "resize:800,600;small:resize:100,100;large:crop:1200,600", "r": "true"},
		},
		{
			"escaped values",
			"img=my%20photo%26co.jpg&t=resize:1,1",
			Query{"img": "my photo&co.jpg", "t": "resize:1,1"},
		},
		{
			"malformed escape is kept verbatim",
			"img=100%.jpg",
			Query{"img": "100%.jpg"},
		},
		{
			"empty",
			"",
			Query{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseQuery(tt.raw, "t"))
		})
	}
}

func TestEscapeValue_RoundTripsThroughParseQuery(t *testing.T) {
	value := "dir/my photo&50%#1+2;x.jpg"
	query := ParseQuery("img="+EscapeValue(value), "t")

	assert.Equal(t, value, query.Get("img"))
}
