package configcheck

import (
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

var mkdocsFields = []field{
	{key: "site_name", types: []string{typeString}, required: true},
	{key: "nav", types: []string{typeSequence}, required: true},
	{key: "docs_dir", types: []string{typeString}},
	{key: "theme", types: []string{typeString, typeMapping}},
	{key: "plugins", types: []string{typeSequence}},
	{key: "markdown_extensions", types: []string{typeSequence}},
	{key: "site_url", types: []string{typeString}},
}

func checkMkdocs(c *fileCheck, root *yaml.Node, known map[string]bool) {
	c.stage = stageSchema
	c.checkFields(root, "", 0, mkdocsFields)

	if v, ok := lookup(root, "site_name"); ok && typeOf(v) == typeString && strings.TrimSpace(resolve(v).Value) == "" {
		c.add(findings.SeverityError, RuleEmptyValue, v.Line, "key 'site_name' must be a non-empty string")
	}
	if theme, ok := lookup(root, "theme"); ok && typeOf(theme) == typeMapping {
		if _, hasName := lookup(theme, "name"); !hasName {
			c.add(findings.SeverityWarning, RuleThemeName, theme.Line, "theme mapping has no 'name' key")
		}
	}

	if known == nil {
		return
	}
	nav, ok := lookup(root, "nav")
	if !ok || typeOf(nav) != typeSequence {
		return
	}
	c.stage = stageCrossField
	checkNav(c, nav, known)
}

// checkNav walks navigation entries recursively and reports Markdown
// references that are not known documents. Entries are either a bare path or a
// single-key mapping from title to a path or nested list.
func checkNav(c *fileCheck, n *yaml.Node, known map[string]bool) {
	n = resolve(n)
	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			checkNav(c, item, known)
		}
	case yaml.MappingNode:
		for _, p := range pairs(n) {
			checkNav(c, p.value, known)
		}
	case yaml.ScalarNode:
		ref := strings.TrimSpace(n.Value)
		if !isDocReference(ref) {
			return
		}
		if !known[normalizeDocPath(ref)] {
			c.add(findings.SeverityWarning, RuleNavReference, n.Line,
				fmt.Sprintf("navigation references unknown document '%s'", ref))
		}
	}
}

func isDocReference(ref string) bool {
	lower := strings.ToLower(ref)
	if strings.Contains(lower, "://") || strings.HasPrefix(lower, "mailto:") {
		return false
	}
	if i := strings.IndexAny(lower, "#?"); i >= 0 {
		lower = lower[:i]
	}
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// normalizeDocPath reduces a document reference to a clean slash path without
// a leading "./" or "/" and without an anchor.
func normalizeDocPath(p string) string {
	if i := strings.IndexAny(p, "#?"); i >= 0 {
		p = p[:i]
	}
	p = path.Clean(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"))
	return strings.TrimPrefix(strings.TrimPrefix(p, "./"), "/")
}

var pipelineFields = []field{
	{key: "name", types: []string{typeString}, required: true},
	{key: "on", types: []string{typeString, typeSequence, typeMapping}, required: true},
	{key: "jobs", types: []string{typeMapping}, required: true},
}

var jobFields = []field{
	{key: "runs-on", types: []string{typeString, typeSequence, typeMapping}, required: true},
	{key: "steps", types: []string{typeSequence}, required: true},
}

func checkPipeline(c *fileCheck, root *yaml.Node) {
	c.stage = stageSchema
	c.checkFields(root, "", 0, pipelineFields)

	jobs, ok := lookup(root, "jobs")
	if !ok || typeOf(jobs) != typeMapping {
		return
	}
	for _, p := range pairs(jobs) {
		key := "jobs." + p.key.Value
		if !c.checkType(p.value, key, typeMapping) {
			continue
		}
		c.checkFields(p.value, key+".", p.key.Line, jobFields)
	}
}

func checkCompose(c *fileCheck, root *yaml.Node) {
	c.stage = stageSchema
	c.checkFields(root, "", 0, []field{
		{key: "services", types: []string{typeMapping}, required: true},
		{key: "version", types: []string{typeString, typeNumber}},
	})
	if _, ok := lookup(root, "version"); !ok {
		c.add(findings.SeverityInfo, RuleComposeVersion, 0, "no 'version' key; consider pinning the compose file format")
	}

	services, ok := lookup(root, "services")
	if !ok || typeOf(services) != typeMapping {
		return
	}
	for _, p := range pairs(services) {
		key := "services." + p.key.Value
		if !c.checkType(p.value, key, typeMapping) {
			continue
		}
		_, hasImage := lookup(p.value, "image")
		_, hasBuild := lookup(p.value, "build")
		if !hasImage && !hasBuild {
			c.add(findings.SeverityError, RuleServiceSource, p.key.Line,
				fmt.Sprintf("service '%s' must set 'image' or 'build'", p.key.Value))
		}
	}
}
