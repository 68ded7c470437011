// Package export writes snapshots as reports: JSON and YAML for machines,
// a text layout for people, to a writer, a file, or the clipboard.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// Format selects a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatText}

// ParseFormat accepts a format name, case-insensitively. "yml" and "txt" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", errors.New(errors.ErrExport,
		fmt.Sprintf("Unknown report format '%s'", name),
		"Use one of: json, yaml, text")
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Encode writes snap to w in the given format.
func Encode(w io.Writer, snap snapshot.Snapshot, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(snap); err == nil {
			err = enc.Close()
		}
	case FormatText:
		_, err = io.WriteString(w, RenderText(snap))
	default:
		_, err = ParseFormat(string(format))
		return err
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			fmt.Sprintf("Cannot encode %s report", format), "")
	}
	return nil
}

// Decode reads a snapshot written by Encode. Text reports are for reading
// only and cannot be decoded.
func Decode(r io.Reader, format Format) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&snap)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&snap)
	case FormatText:
		return snapshot.Snapshot{}, errors.New(errors.ErrExport,
			"Text reports cannot be read back",
			"Export with --format json or --format yaml to keep a machine-readable copy")
	default:
		_, err := ParseFormat(string(format))
		return snapshot.Snapshot{}, err
	}
	if err != nil {
		return snapshot.Snapshot{}, errors.WrapWithCode(err, errors.ErrExport,
			fmt.Sprintf("Cannot decode %s report", format), "Check that the file is a sysmon report")
	}
	return snap, nil
}

// Marshal encodes snap into a byte slice.
func Marshal(snap snapshot.Snapshot, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, snap, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultFileName names a report after the time it was taken:
// sysmon-report-20060102-150405.json.
func DefaultFileName(at time.Time, format Format) string {
	return fmt.Sprintf("sysmon-report-%s.%s", at.Format("20060102-150405"), format.Extension())
}

// WriteFile writes the report to path. An empty path, or a path naming an
// existing directory, gets DefaultFileName. It returns the path written.
func WriteFile(path string, snap snapshot.Snapshot, format Format, now time.Time) (string, error) {
	if path == "" {
		path = DefaultFileName(now, format)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFileName(now, format))
	}

	data, err := Marshal(snap, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrExport,
				"Cannot create report directory", "Check permissions on "+dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExport,
			"Cannot write report", "Check permissions on "+path)
	}
	return path, nil
}

// Swapped out in tests.
var (
	clipboardWrite       = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)

// ClipboardAvailable reports whether CopyToClipboard can work here.
func ClipboardAvailable() bool {
	return !clipboardUnsupported()
}

// CopyToClipboard places the report on the system clipboard.
func CopyToClipboard(snap snapshot.Snapshot, format Format) error {
	if clipboardUnsupported() {
		return errors.New(errors.ErrExport,
			"No clipboard available on this system",
			"Install xclip, xsel, or wl-clipboard, or export to a file instead")
	}

	data, err := Marshal(snap, format)
	if err != nil {
		return err
	}
	if err := clipboardWrite(string(data)); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Cannot copy report to clipboard",
			"Export to a file instead")
	}
	return nil
}
