package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/goccy/go-yaml"
)

// LoadOptions controls how a manifest file is loaded
type LoadOptions struct {
	// ValuesPath renders the manifest as a template against the given
	// values file before parsing
	ValuesPath string
}

// Load reads, optionally renders and parses a manifest file
func Load(path string, opts LoadOptions) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	if opts.ValuesPath != "" {
		values, err := loadValues(opts.ValuesPath)
		if err != nil {
			return nil, err
		}
		content, err = render(filepath.Base(path), content, values)
		if err != nil {
			return nil, err
		}
	}

	return Parse(content)
}

// Parse decodes a single YAML document into a validated manifest
func Parse(content []byte) (*Manifest, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))

	var doc Manifest
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s", yaml.FormatError(err, true, true))
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &doc, nil
}

// loadValues reads the values file used as the template context
func loadValues(path string) (map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values %s: %w", path, err)
	}

	var values map[string]interface{}
	if err := yaml.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("failed to parse values %s: %w", path, err)
	}

	return values, nil
}

// render executes the manifest as a template with sprig functions
func render(name string, content []byte, values map[string]interface{}) ([]byte, error) {
	tmpl, err := template.
		New(name).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	context := map[string]interface{}{
		"Values": values,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}
