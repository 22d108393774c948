package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageByContent(t *testing.T) {
	d := New(nil)

	tests := []struct {
		path   string
		sample string
		want   string
	}{
		{"main.go", "package main\n\nfunc main() {}\n", "go"},
		{"script.py", "import os\n\ndef main():\n    pass\n", "python"},
		{"app.js", "const x = require('fs');\n", "javascript"},
	}
	for _, tt := range tests {
		got := d.Language(tt.path, []byte(tt.sample))
		assert.Equal(t, tt.want, got, "path %s", tt.path)
	}
}

func TestLanguageByExtensionOnly(t *testing.T) {
	d := New(nil)
	assert.Equal(t, "go", d.Language("pkg/server.go", nil))
	assert.Equal(t, "python", d.Language("tool.py", nil))
}

func TestLanguageAliases(t *testing.T) {
	d := New(nil)
	assert.Equal(t, "cpp", d.Language("engine.cpp", []byte("#include <vector>\n")))
}

func TestLanguageBinaryFallsBack(t *testing.T) {
	d := New(nil)
	got := d.Language("blob.bin", []byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01, 0x02})
	assert.Equal(t, DefaultLanguage, got)
}

func TestLanguageUnknownFallsBack(t *testing.T) {
	d := New(nil)
	assert.Equal(t, DefaultLanguage, d.Language("mystery.zzqq", nil))
}
