// ABOUTME: Helpers for markdown files with YAML frontmatter and atomic file writes.
// ABOUTME: Shared by the markdown entry store for entries and the custom food list.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// timeLayout keeps sub-second precision and the zone offset.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// renderFrontmatter renders fm as YAML between --- delimiters, followed by body.
func renderFrontmatter(fm any, body string) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(frontmatterDelim + "\n")
	sb.Write(data)
	sb.WriteString(frontmatterDelim + "\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// parseFrontmatter splits content into its YAML frontmatter and body.
// Returns an empty YAML string if the content has no frontmatter.
func parseFrontmatter(content string) (yamlStr, body string) {
	if !strings.HasPrefix(content, frontmatterDelim+"\n") {
		return "", content
	}
	rest := content[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+frontmatterDelim) {
			return rest[:len(rest)-len(frontmatterDelim)-1], ""
		}
		return "", content
	}
	return rest[:end], rest[end+len(frontmatterDelim)+2:]
}

// atomicWrite writes data to path via a temp file and rename, creating parent dirs.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return renameio.WriteFile(path, data, 0600)
}

// readYAML decodes the YAML file at path into v. A missing file leaves v untouched.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, v)
}

// writeYAML atomically writes v as YAML to path.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}
