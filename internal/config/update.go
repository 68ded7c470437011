package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"gopkg.in/yaml.v3"
)

// Save writes settings to path as YAML, creating parent directories.
// Settings are only persisted on an explicit save.
func Save(path string, s Settings) error {
	if err := Validate(s); err != nil {
		return err
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	encoder.Close()

	return writeConfig(path, []byte(buf.String()))
}

// SetValue updates one key in the config file at path, keeping every other
// line and comment as written. Dotted keys address nested mappings
// (serve.addr). The result must still validate or nothing is written.
func SetValue(path, key, value string) error {
	if !IsKnownKey(key) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown setting '%s'", key),
			"Known settings: "+strings.Join(Keys(), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(part), child)
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Style = 0
		existing.Value = value
		existing.Content = nil
	} else {
		valueNode := scalar(value)
		valueNode.Tag = ""
		node.Content = append(node.Content, scalar(leaf), valueNode)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	// Validate the edited document before it replaces the file.
	candidate := DefaultSettings()
	if err := yaml.Unmarshal([]byte(buf.String()), &candidate); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Value %q does not fit setting '%s'", value, key),
			"Check the value type (number, true/false, or text)")
	}
	if err := Validate(candidate); err != nil {
		return err
	}

	return writeConfig(path, []byte(buf.String()))
}

// Keys lists every settable key in dotted form, sorted.
func Keys() []string {
	data, _ := yaml.Marshal(DefaultSettings())
	var tree map[string]interface{}
	_ = yaml.Unmarshal(data, &tree)

	var keys []string
	flattenKeys("", tree, &keys)
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func flattenKeys(prefix string, tree map[string]interface{}, out *[]string) {
	for k, v := range tree {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flattenKeys(full, nested, out)
			continue
		}
		*out = append(*out, full)
	}
}

func writeConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file",
			"Check permissions on "+path)
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
