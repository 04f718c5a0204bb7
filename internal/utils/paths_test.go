package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected string
	}{
		{
			name:     "empty stays empty",
			path:     "",
			baseDir:  "/base",
			expected: "",
		},
		{
			name:     "absolute path unchanged",
			path:     "/abs/shots",
			baseDir:  "/base",
			expected: "/abs/shots",
		},
		{
			name:     "relative path resolved",
			path:     "out/shots",
			baseDir:  "/base",
			expected: "/base/out/shots",
		},
		{
			name:     "parent reference",
			path:     "../report.md",
			baseDir:  "/base/sub",
			expected: "/base/report.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolvePath(tt.path, tt.baseDir)
			if tt.expected == "" {
				assert.Empty(t, result)
				return
			}
			// Clean paths for comparison (normalize separators and . .. references)
			assert.Equal(t, filepath.Clean(tt.expected), filepath.Clean(result))
		})
	}
}

func TestResolvePaths(t *testing.T) {
	shots, log, report := "shots", "", "/tmp/report.md"

	ResolvePaths("/base", &shots, &log, nil, &report)

	assert.Equal(t, filepath.Join("/base", "shots"), shots)
	assert.Empty(t, log)
	assert.Equal(t, "/tmp/report.md", report)
}

func TestPtr(t *testing.T) {
	v := 42
	p := Ptr(v)

	assert.NotNil(t, p)
	assert.Equal(t, 42, *p)

	v = 100
	assert.Equal(t, 42, *p, "pointer holds a copy")
}
