// Package detect maps files to language profile ids using go-enry's
// content and filename classifiers.
package detect

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// DefaultLanguage is the profile id used when no language can be
// determined. The registry resolves it to the plain generic profile.
const DefaultLanguage = "generic"

// aliases maps enry language names whose lowercase form differs from the
// profile naming convention.
var aliases = map[string]string{
	"c++":         "cpp",
	"c#":          "csharp",
	"objective-c": "objc",
	"shell":       "sh",
}

// Detector resolves file paths and contents to lowercase profile ids.
type Detector struct {
	logger *slog.Logger
}

// New creates a detector. A nil logger discards diagnostics.
func New(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{logger: logger}
}

// Language returns the profile id for a file, consulting content when
// available and falling back to extension and filename classification.
// Unrecognized or binary files map to DefaultLanguage rather than failing:
// every buffer gets at least plain analysis.
func (d *Detector) Language(path string, sample []byte) string {
	name := filepath.Base(path)

	if len(sample) > 0 && enry.IsBinary(sample) {
		d.logger.Debug("binary content, using default language", "path", path)
		return DefaultLanguage
	}

	language := enry.GetLanguage(name, sample)
	if language == "" {
		language, _ = enry.GetLanguageByExtension(path)
	}
	if language == "" {
		language, _ = enry.GetLanguageByFilename(name)
	}
	if language == "" {
		d.logger.Debug("no language detected", "path", path)
		return DefaultLanguage
	}

	id := normalize(language)
	d.logger.Debug("language detected", "path", path, "language", id)
	return id
}

// normalize lowercases an enry language name into a profile id.
func normalize(language string) string {
	id := strings.ToLower(language)
	if alias, ok := aliases[id]; ok {
		return alias
	}
	return id
}
