package docblocks

import "strings"

// ExtractFileConfig collects "sphinx_gallery_<name> = <value>" directives
// written as whole-line comments. Values are parsed with ParseLiteral; when a
// name repeats, the last value wins. Values that fail to parse are skipped
// and reported as diagnostics. Flags (directives without a value) are not
// configuration and are ignored here.
func (s *Syntax) ExtractFileConfig(content string) (FileConfig, []Diagnostic) {
	config := FileConfig{}
	var diags []Diagnostic

	n := 0
	for piece := range strings.Lines(content) {
		n++
		line := strings.TrimSuffix(piece, "\n")
		m := s.directive.FindStringSubmatchIndex(line)
		if m == nil || m[4] < 0 {
			continue
		}
		name, raw := line[m[2]:m[3]], line[m[4]:m[5]]

		value, err := ParseLiteral(raw)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:    DiagInvalidDirective,
				Line:    n,
				Name:    name,
				Text:    raw,
				Message: err.Error(),
			})
			continue
		}
		config[name] = value
	}
	return config, diags
}

// RemoveConfigComments removes every directive line, flags included, from
// code. Other lines are kept byte for byte.
func (s *Syntax) RemoveConfigComments(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for piece := range strings.Lines(code) {
		if s.directive.MatchString(strings.TrimSuffix(piece, "\n")) {
			continue
		}
		b.WriteString(piece)
	}
	return b.String()
}
