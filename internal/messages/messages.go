// Package messages maps the machine codes returned by the remote API
// (EMAIL_TAKEN, CREDENTIALS_INVALID, ...) to user-facing text.
//
//	loc := messages.NewLocalizer("es")
//	loc.T("EMAIL_TAKEN") // "El correo ya está en uso"
//
// Unknown codes are returned unchanged.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Supported locale codes.
var SupportedLanguages = []string{"es", "en"}

const DefaultLanguage = "es"

var (
	catalog  map[string]map[string]string
	loadErr  error
	loadOnce sync.Once
)

// Load reads every supported locale from fsys. It runs once per process;
// NewLocalizer calls it with the embedded files when nobody did before.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		catalog, loadErr = readCatalog(fsys)
	})
	return loadErr
}

func readCatalog(fsys fs.FS) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		name := lang + ".json"
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		out[lang] = table
	}
	return out, nil
}

func mustLoadEmbedded() {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		panic(err)
	}
	if err := Load(sub); err != nil {
		panic(err)
	}
}

// Localizer translates codes for one language.
type Localizer struct {
	lang string
}

// NewLocalizer returns a Localizer for lang, falling back to the default
// language when lang is not supported. Region suffixes ("es-MX") are
// ignored.
func NewLocalizer(lang string) *Localizer {
	mustLoadEmbedded()
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if !isSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

func (l *Localizer) Lang() string { return l.lang }

// T returns the translation of code, then the default language's, then
// code itself.
func (l *Localizer) T(code string) string {
	if msg, ok := catalog[l.lang][code]; ok {
		return msg
	}
	if msg, ok := catalog[DefaultLanguage][code]; ok {
		return msg
	}
	return code
}

func isSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
