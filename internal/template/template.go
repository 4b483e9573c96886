// Package template renders the aggregated run results into final document
// text by pure placeholder substitution over a flat data record. Rendering
// never fails: unknown tokens stay verbatim and absent fields render empty.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind names a document layout.
type Kind string

const (
	KindDefault  Kind = "default"
	KindMinimal  Kind = "minimal"
	KindDetailed Kind = "detailed"
	KindCustom   Kind = "custom"
	KindFile     Kind = "file"
)

// Data is the flat record every placeholder draws from. Constructed once
// per run after all topic content is finalized; read-only input here.
type Data struct {
	Date     string // 2006-01-02
	DateLong string // Monday, January 2, 2006
	Time     string // 15:04
	Weekday  string
	Month    string
	Year     string

	Title         string
	Topics        string // all topic sections, in configured order
	TOC           string
	StatusSummary string
	Metadata      string
	Provider      string

	TopicCount   int
	NewsCount    int
	SuccessCount int
	FailedCount  int
}

// fields maps placeholder names to their value in data.
func fields(d Data) map[string]string {
	return map[string]string{
		"date":           d.Date,
		"date_long":      d.DateLong,
		"time":           d.Time,
		"weekday":        d.Weekday,
		"month":          d.Month,
		"year":           d.Year,
		"title":          d.Title,
		"topics":         d.Topics,
		"toc":            d.TOC,
		"status_summary": d.StatusSummary,
		"metadata":       d.Metadata,
		"provider":       d.Provider,
		"topic_count":    strconv.Itoa(d.TopicCount),
		"news_count":     strconv.Itoa(d.NewsCount),
		"success_count":  strconv.Itoa(d.SuccessCount),
		"failed_count":   strconv.Itoa(d.FailedCount),
	}
}

const defaultLayout = `# {{title}}

{{date_long}}

{{metadata}}
## Contents

{{toc}}

{{topics}}`

const minimalLayout = `# {{title}}

{{topics}}`

const detailedLayout = `# {{title}}

{{date_long}} · generated at {{time}} by {{provider}}

{{metadata}}
## Contents

{{toc}}

{{topics}}
---

{{status_summary}}
Topics: {{topic_count}} · News items: {{news_count}} · Succeeded: {{success_count}} · Failed: {{failed_count}}`

var tokenRe = regexp.MustCompile(`\{\{\s*([#/^]?[A-Za-z0-9_.]+)\s*\}\}`)

// Render produces the final document text. kind selects the layout; for
// KindCustom the body is customSource, for KindFile the body comes from
// loadFile and a load failure silently downgrades to the default layout.
func Render(kind Kind, customSource string, data Data, loadFile func() (string, error)) string {
	var source string
	switch kind {
	case KindMinimal:
		source = minimalLayout
	case KindDetailed:
		source = detailedLayout
	case KindCustom:
		source = customSource
	case KindFile:
		if loadFile != nil {
			if body, err := loadFile(); err == nil {
				source = body
			}
		}
		if source == "" {
			source = defaultLayout
		}
	default:
		source = defaultLayout
	}

	return substitute(source, data)
}

// substitute replaces every recognized placeholder with its field value.
// Unrecognized tokens are left verbatim so partial templates keep working.
func substitute(source string, data Data) string {
	values := fields(data)
	return tokenRe.ReplaceAllStringFunc(source, func(match string) string {
		name := tokenRe.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// ValidationResult is the outcome of a dry static template check.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate statically checks a user template without rendering: unknown
// placeholder names, unsupported loop/conditional constructs, and unbalanced
// braces are reported. Runs against arbitrary input in isolation.
func Validate(source string) ValidationResult {
	var errs []string

	known := fields(Data{})
	for _, m := range tokenRe.FindAllStringSubmatch(source, -1) {
		name := m[1]
		switch name[0] {
		case '#', '/', '^':
			errs = append(errs, fmt.Sprintf("unsupported construct %q: loops and conditionals are not available", m[0]))
		default:
			if _, ok := known[name]; !ok {
				errs = append(errs, fmt.Sprintf("unknown placeholder %q", m[0]))
			}
		}
	}

	stripped := tokenRe.ReplaceAllString(source, "")
	if strings.Count(stripped, "{{") != strings.Count(stripped, "}}") ||
		strings.Contains(stripped, "{{") {
		errs = append(errs, "unbalanced placeholder braces")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Placeholders lists every supported placeholder name.
func Placeholders() []string {
	names := make([]string, 0, 16)
	for name := range fields(Data{}) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
