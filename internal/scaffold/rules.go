package scaffold

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"planforge/internal/plan"
)

// Rules tunes how planned files are classified and what gets synthesized
// for them. Zero-valued fields in a rules file keep the defaults.
type Rules struct {
	SourceExtensions   []string          `yaml:"source_extensions"`
	DocumentExtensions []string          `yaml:"document_extensions"`
	ReadmeNames        []string          `yaml:"readme_names"`
	PackageInitNames   []string          `yaml:"package_init_names"`
	SpecialFiles       []string          `yaml:"special_files"`
	PlanFileName       string            `yaml:"plan_file_name"`
	CommentPrefixes    map[string]string `yaml:"comment_prefixes"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		SourceExtensions:   []string{".py"},
		DocumentExtensions: []string{".md", ".markdown"},
		ReadmeNames:        []string{"readme.md", "readme.markdown"},
		PackageInitNames:   []string{"__init__.py"},
		SpecialFiles: []string{
			"Makefile", "Dockerfile", "Procfile", "LICENSE", "Pipfile",
			"Gemfile", "Rakefile", "Jenkinsfile", "Vagrantfile",
		},
		PlanFileName: plan.FileName,
		CommentPrefixes: map[string]string{
			".js": "//", ".jsx": "//", ".ts": "//", ".tsx": "//",
			".go": "//", ".java": "//", ".c": "//", ".h": "//",
			".cc": "//", ".cpp": "//", ".hpp": "//", ".cs": "//",
			".rs": "//", ".swift": "//", ".kt": "//", ".scala": "//",
			".sql": "--", ".lua": "--",
		},
	}
}

// LoadRules reads a YAML rules file and overlays it on DefaultRules.
// An empty path returns the defaults.
func LoadRules(file string) (Rules, error) {
	if strings.TrimSpace(file) == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return Rules{}, fmt.Errorf("scaffold: read rules %s: %w", file, err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules and overlays them on DefaultRules.
func ParseRules(data []byte) (Rules, error) {
	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Rules{}, fmt.Errorf("scaffold: parse rules: %w", err)
	}
	r := DefaultRules()
	if len(override.SourceExtensions) > 0 {
		r.SourceExtensions = normalizeExts(override.SourceExtensions)
	}
	if len(override.DocumentExtensions) > 0 {
		r.DocumentExtensions = normalizeExts(override.DocumentExtensions)
	}
	if len(override.ReadmeNames) > 0 {
		r.ReadmeNames = override.ReadmeNames
	}
	if len(override.PackageInitNames) > 0 {
		r.PackageInitNames = override.PackageInitNames
	}
	if len(override.SpecialFiles) > 0 {
		r.SpecialFiles = override.SpecialFiles
	}
	if override.PlanFileName != "" {
		r.PlanFileName = override.PlanFileName
	}
	for ext, prefix := range override.CommentPrefixes {
		exts := normalizeExts([]string{ext})
		if len(exts) == 1 {
			r.CommentPrefixes[exts[0]] = prefix
		}
	}
	return r, nil
}

func normalizeExts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func (r Rules) isSource(name string) bool {
	return containsFold(r.SourceExtensions, path.Ext(name))
}

func (r Rules) isDocument(name string) bool {
	return containsFold(r.DocumentExtensions, path.Ext(name))
}

func (r Rules) isReadme(name string) bool {
	return containsFold(r.ReadmeNames, path.Base(name))
}

func (r Rules) isPackageInit(name string) bool {
	return containsFold(r.PackageInitNames, path.Base(name))
}

func (r Rules) isSpecial(name string) bool {
	return containsFold(r.SpecialFiles, path.Base(name))
}

func (r Rules) planFile() string {
	if r.PlanFileName == "" {
		return plan.FileName
	}
	return r.PlanFileName
}

func (r Rules) commentPrefix(name string) string {
	if p, ok := r.CommentPrefixes[strings.ToLower(path.Ext(name))]; ok && p != "" {
		return p
	}
	return "#"
}

// isFileName reports whether the last segment of p names a file rather than a
// directory: it has an extension, is a dunder name, or is a known special file.
func (r Rules) isFileName(p string) bool {
	base := path.Base(p)
	if base == "" || base == "." || base == "/" {
		return false
	}
	if strings.Contains(base, ".") {
		return true
	}
	return r.isSpecial(base)
}

// hasUsableName reports whether a breakdown path names something the
// generator can write: a basename with an extension, a dunder-style
// marker, or a known extensionless special file.
func (r Rules) hasUsableName(p string) bool {
	base := path.Base(p)
	if path.Ext(base) != "" && base != path.Ext(base) {
		return true
	}
	if strings.HasPrefix(base, ".") && len(base) > 1 {
		return true
	}
	if strings.HasPrefix(base, "__") && strings.HasSuffix(base, "__") && len(base) > 4 {
		return true
	}
	return r.isSpecial(base)
}
