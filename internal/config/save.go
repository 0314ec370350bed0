package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fontedit/fontedit/internal/export"
	"github.com/fontedit/fontedit/internal/log"
)

// SaveExportOptions writes the export section keys for opts into the config
// file. Other keys, sections and comments are preserved by editing the
// yaml.Node tree instead of re-marshaling Config.
func SaveExportOptions(configPath string, opts export.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return updateConfig(configPath, func(root *yaml.Node) {
		section := mappingChild(root, "export")
		setScalar(section, "format", string(opts.Format), "!!str")
		setScalar(section, "invert_bits", strconv.FormatBool(opts.InvertBits), "!!bool")
		setScalar(section, "msb_first", strconv.FormatBool(opts.MSBFirst), "!!bool")
		setScalar(section, "include_line_spacing", strconv.FormatBool(opts.IncludeLineSpacing), "!!bool")
	})
}

// SaveLastDocument records the most recently saved or opened document in
// editor.last_document.
func SaveLastDocument(configPath, documentPath string) error {
	if documentPath != "" {
		abs, err := filepath.Abs(documentPath)
		if err != nil {
			return fmt.Errorf("resolving document path: %w", err)
		}
		documentPath = abs
	}
	return updateConfig(configPath, func(root *yaml.Node) {
		section := mappingChild(root, "editor")
		setScalar(section, "last_document", documentPath, "!!str")
	})
}

// updateConfig loads configPath as a yaml.Node document (an absent or empty
// file starts a new one), lets edit change the root mapping and writes the
// result back atomically.
func updateConfig(configPath string, edit func(root *yaml.Node)) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level of %s is not a mapping", configPath)
	}
	edit(doc.Content[0])

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save config", err, "path", configPath)
		return err
	}
	log.Debug(log.CatConfig, "Saved config", "path", configPath)
	return nil
}

// mappingChild returns the mapping stored under key in m, creating it (or
// replacing a non-mapping value) when needed.
func mappingChild(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		child := m.Content[i+1]
		if child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode}
			m.Content[i+1] = child
		}
		return child
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
	return child
}

// setScalar sets key in mapping m, keeping the existing value node (and its
// line comment) when there is one.
func setScalar(m *yaml.Node, key, value, tag string) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		v := m.Content[i+1]
		v.Kind = yaml.ScalarNode
		v.Tag = tag
		v.Value = value
		v.Style = 0
		v.Content = nil
		return
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
}

func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".fontedit.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
