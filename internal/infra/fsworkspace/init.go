package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/munson/internal/app/template"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/ports"
)

// DefaultBaseURL is written when no base URL is given.
const DefaultBaseURL = "http://localhost:3000"

type Initializer struct{}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func NewInitializer() *Initializer {
	return &Initializer{}
}

// Init renders the embedded templates into spec.Root. Existing files are kept
// unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	if err := os.MkdirAll(filepath.Join(root, ".munson", "logs"), 0o755); err != nil {
		return initErr(root, err)
	}

	if err := ensureGitignore(root); err != nil {
		return initErr(root, err)
	}

	vars := map[string]string{
		"base_url":   strings.TrimSpace(spec.BaseURL),
		"key_format": strings.TrimSpace(spec.KeyFormat),
	}
	if vars["base_url"] == "" {
		vars["base_url"] = DefaultBaseURL
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return initErr(dst, err)
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return initErr(p, err)
		}

		out, err := template.RenderString(string(b), vars)
		if err != nil {
			return err
		}

		if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
			return initErr(dst, err)
		}
		return nil
	})
}

func initErr(path string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}

func ensureGitignore(root string) error {
	const header = "# munson"
	entries := []string{
		".munson/",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 32)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
