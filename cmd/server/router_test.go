package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsConfig(t *testing.T) {
	t.Run("allows all origins for wildcard", func(t *testing.T) {
		config := corsConfig([]string{"https://example.com", "*"})

		assert.True(t, config.AllowAllOrigins)
		assert.Nil(t, config.AllowOriginFunc)
	})

	t.Run("matches origins by glob", func(t *testing.T) {
		config := corsConfig([]string{"https://*.example.com", "http://localhost:3000"})

		assert.False(t, config.AllowAllOrigins)
		assert.True(t, config.AllowOriginFunc("https://cdn.example.com"))
		assert.True(t, config.AllowOriginFunc("http://localhost:3000"))
		assert.False(t, config.AllowOriginFunc("https://example.org"))
	})
}
