package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Translations maps display-string keys (unit1Title, lesson_u1_n1_q, ...) to
// localized text. A nil map is valid and yields the built-in defaults.
type Translations map[string]string

// Lookup returns the translation for key, or fallback when absent or empty.
func (t Translations) Lookup(key, fallback string) string {
	if v, ok := t[key]; ok && v != "" {
		return v
	}
	return fallback
}

// translationsSchema accepts a flat object of identifier keys to strings.
const translationsSchema = `{
	"type": "object",
	"propertyNames": {"pattern": "^[A-Za-z][A-Za-z0-9_]*$"},
	"additionalProperties": {"type": "string"}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func translationSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(translationsSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://translations.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

// ParseTranslations decodes a YAML translation document and validates its
// shape before use.
func ParseTranslations(data []byte) (Translations, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc == nil {
		return Translations{}, nil
	}

	// Round-trip through JSON so the validator sees plain JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize yaml: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("normalize yaml: %w", err)
	}

	sch, err := translationSchema()
	if err != nil {
		return nil, fmt.Errorf("compile translation schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("invalid translations: %w", err)
	}

	var t Translations
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return t, nil
}

// LoadTranslations reads <dir>/<lang>.yaml. An empty dir or the "en"
// language with no file returns nil, meaning built-in defaults.
func LoadTranslations(dir, lang string) (Translations, error) {
	if dir == "" {
		return nil, nil
	}
	path := filepath.Join(dir, lang+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && lang == "en" {
			return nil, nil
		}
		return nil, fmt.Errorf("read translations %s: %w", path, err)
	}
	t, err := ParseTranslations(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
