// Package generate drives one daily generation run: per-topic acquisition
// through the active provider, daily caching, failure classification, and
// document creation through the template engine.
package generate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/cache"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/config"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/provider"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/template"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/vault"
)

// State is the terminal outcome of one generation run.
type State int

const (
	Published State = iota
	PublishedWithErrors
	SkippedAlreadyExists
	AbortedConfig
	AbortedNoFolder
)

func (s State) String() string {
	switch s {
	case Published:
		return "published"
	case PublishedWithErrors:
		return "published-with-errors"
	case SkippedAlreadyExists:
		return "skipped-already-exists"
	case AbortedConfig:
		return "aborted-config"
	case AbortedNoFolder:
		return "aborted-no-folder"
	}
	return "unknown"
}

// Analysis summarizes a run's per-topic outcomes. Derived, never stored.
type Analysis struct {
	AllTopicsFailed           bool
	AtLeastOneSuccessfulTopic bool
	AtLeastOneNewsItem        bool
	ErrorSummary              string
}

// Analyze computes the run analysis from the full status list. A topic that
// legitimately found nothing is neither a failure nor a news item: zero
// items and failed retrieval stay distinct.
func Analyze(statuses []cache.TopicStatus) Analysis {
	a := Analysis{AllTopicsFailed: len(statuses) > 0}
	var errs []string
	for _, s := range statuses {
		if s.Error != "" {
			errs = append(errs, s.Topic+": "+s.Error)
		} else {
			a.AllTopicsFailed = false
		}
		if s.SummarizationSuccess {
			a.AtLeastOneSuccessfulTopic = true
		}
		if s.RetrievalSuccess && s.NewsCount > 0 {
			a.AtLeastOneNewsItem = true
		}
	}
	a.ErrorSummary = strings.Join(errs, "; ")
	return a
}

// Report is the outcome of one run.
type Report struct {
	State         State
	Reason        string // set for aborted states
	Path          string // document path for published/skipped states
	Statuses      []cache.TopicStatus
	Analysis      Analysis
	ProviderCalls int
}

// Deps carries the orchestrator's collaborators. Provider is optional and
// is built from configuration when nil; Now and Out default to time.Now and
// io.Discard.
type Deps struct {
	Config   *config.Config
	Cache    cache.Store
	Vault    vault.Store
	Provider provider.Provider
	Now      func() time.Time
	Out      io.Writer
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return io.Discard
}

// flights serializes runs per date: a second call for the same date while
// one is in flight shares its outcome instead of racing it.
var flights singleflight.Group

// Run executes one daily generation run to a terminal state. It never
// panics: unexpected faults become a best-effort fallback document, and
// only a failure to produce any artifact at all surfaces as an error.
func Run(ctx context.Context, deps Deps) (*Report, error) {
	date := deps.now().Format("2006-01-02")
	v, err, _ := flights.Do(date, func() (interface{}, error) {
		return run(ctx, deps, date)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

func run(ctx context.Context, deps Deps, date string) (*Report, error) {
	cfg := deps.Config
	r := &runner{
		cfg:   cfg,
		cache: deps.Cache,
		vault: deps.Vault,
		prov:  deps.Provider,
		date:  date,
		now:   deps.now(),
		out:   deps.out(),
	}

	// Step 1: configuration gate. No cache or network activity past a bad
	// config.
	if cfg.Language != "" && len(cfg.Language) != 2 {
		return &Report{State: AbortedConfig, Reason: fmt.Sprintf("language code %q must be exactly two characters", cfg.Language)}, nil
	}
	if r.prov == nil {
		built, err := provider.New(cfg, deps.Cache)
		if err != nil {
			return &Report{State: AbortedConfig, Reason: err.Error()}, nil
		}
		r.prov = built
	}
	if !r.prov.ValidateConfig() {
		return &Report{State: AbortedConfig, Reason: "provider configuration is incomplete (missing credentials or sources)"}, nil
	}

	// Step 2: idempotence. A document for today is never overwritten or
	// duplicated, and no provider call happens.
	docPath := vault.DocumentPath(cfg.ArchiveFolder, r.now)
	if deps.Vault.Exists(docPath) {
		return &Report{State: SkippedAlreadyExists, Path: docPath}, nil
	}

	// Entries from previous days are stale; drop them before reading.
	r.cache.PruneNotMatching(date)

	report := &Report{Path: docPath}
	fault := r.generate(ctx, report)
	if fault == nil {
		return report, nil
	}

	// Step 8: best-effort fallback document with the raw fault text. The
	// run must leave an artifact whenever a document was expected.
	fallback := fmt.Sprintf("# Daily News - %s\n\nGeneration failed: %v\n", date, fault)
	if err := deps.Vault.Create(docPath, fallback); err != nil {
		return nil, fmt.Errorf("generation failed (%v) and fallback write failed: %w", fault, err)
	}
	fmt.Fprintf(r.out, "[warn] generation fault, wrote fallback document: %v\n", fault)
	report.State = PublishedWithErrors
	report.Reason = fault.Error()
	return report, nil
}

type runner struct {
	cfg   *config.Config
	cache cache.Store
	vault vault.Store
	prov  provider.Provider
	date  string
	now   time.Time
	out   io.Writer
}

// generate performs steps 3–7, reporting any unexpected fault (including a
// panic) for the fallback path instead of unwinding.
func (r *runner) generate(ctx context.Context, report *Report) (fault error) {
	defer func() {
		if p := recover(); p != nil {
			fault = fmt.Errorf("panic: %v", p)
		}
	}()

	// Step 3: per-topic loop, strictly in configured order.
	key := provider.Key(r.cfg)
	contents := make([]cache.TopicContent, 0, len(r.cfg.Topics))
	for _, topic := range r.cfg.Topics {
		if tc, ok := r.cache.Get(r.date, key, topic); ok {
			r.progress("· %s (cached)\n", topic)
			contents = append(contents, tc)
			report.Statuses = append(report.Statuses, tc.Status)
			continue
		}

		result := r.prov.FetchAndSummarizeNews(ctx, topic)
		report.ProviderCalls++
		tc := contentFromResult(topic, result, r.cfg.GetLanguage())

		// Failures are cached too: a same-day retrigger must not repeat a
		// failing call. Clearing the cache is the way to force a retry.
		if err := r.cache.Put(r.date, key, topic, tc); err != nil {
			fmt.Fprintf(r.out, "[warn] caching %s: %v\n", topic, err)
		}

		r.progress("· %s (%s)\n", topic, result.Kind)
		contents = append(contents, tc)
		report.Statuses = append(report.Statuses, tc.Status)
	}

	// Step 4: run analysis. Degraded runs still publish; a partially
	// informative note beats silence.
	report.Analysis = Analyze(report.Statuses)
	if report.Analysis.AllTopicsFailed || !report.Analysis.AtLeastOneSuccessfulTopic {
		fmt.Fprintf(r.out, "[warn] no topic produced a summary: %s\n", report.Analysis.ErrorSummary)
	}

	// Step 5: destination folders.
	if err := r.vault.CreateFolder(r.cfg.ArchiveFolder); err != nil {
		report.State = AbortedNoFolder
		report.Reason = err.Error()
		return nil
	}
	if err := r.vault.CreateFolder(vault.MonthFolder(r.cfg.ArchiveFolder, r.now)); err != nil {
		report.State = AbortedNoFolder
		report.Reason = err.Error()
		return nil
	}

	// Step 6: render and write.
	data := r.templateData(contents, report.Analysis)
	body := template.Render(template.Kind(r.cfg.Template.Kind), r.cfg.Template.Custom, data, r.loadTemplateFile)
	if err := r.vault.Create(report.Path, body); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	// Step 7: keep only today's entries now that today's document exists.
	if _, err := r.cache.PruneNotMatching(r.date); err != nil {
		fmt.Fprintf(r.out, "[warn] pruning cache: %v\n", err)
	}

	if report.Analysis.ErrorSummary != "" {
		report.State = PublishedWithErrors
	} else {
		report.State = Published
	}
	return nil
}

func (r *runner) progress(format string, args ...interface{}) {
	if r.cfg.Verbose {
		fmt.Fprintf(r.out, format, args...)
	}
}

// loadTemplateFile reads the configured template document from the vault's
// store. Any failure downgrades to the default layout inside Render.
func (r *runner) loadTemplateFile() (string, error) {
	p := r.cfg.Template.File
	if p == "" {
		return "", fmt.Errorf("no template file configured")
	}
	return r.vault.Read(p)
}

// contentFromResult converts a tagged provider result into the immutable
// TopicContent/TopicStatus pair recorded for the run and the cache.
func contentFromResult(topic string, res provider.Result, lang string) cache.TopicContent {
	status := cache.TopicStatus{
		Topic:                topic,
		RetrievalSuccess:     res.Retrieved,
		SummarizationSuccess: res.Kind == provider.Success,
		NewsCount:            res.NewsCount,
	}
	text := res.Text
	switch res.Kind {
	case provider.Error:
		status.Error = res.Detail
		if status.Error == "" {
			status.Error = strings.TrimSpace(res.Text)
		}
		if text == "" {
			text = "Error: " + status.Error
		}
	case provider.Empty:
		status.NewsCount = 0
		if strings.TrimSpace(text) == "" {
			text = provider.NoNewsText(lang)
		}
	}
	return cache.TopicContent{Topic: topic, Content: text, Status: status}
}

func (r *runner) templateData(contents []cache.TopicContent, an Analysis) template.Data {
	var sections, toc strings.Builder
	newsCount, successCount, failedCount := 0, 0, 0

	for _, tc := range contents {
		fmt.Fprintf(&sections, "## %s\n\n%s\n\n", tc.Topic, strings.TrimSpace(tc.Content))
		fmt.Fprintf(&toc, "- [[#%s]]\n", tc.Topic)
		newsCount += tc.Status.NewsCount
		if tc.Status.SummarizationSuccess {
			successCount++
		}
		if tc.Status.Error != "" {
			failedCount++
		}
	}

	providerKey := provider.Key(r.cfg)

	metadata := ""
	if r.cfg.IncludeMetadata {
		metadata = fmt.Sprintf("> Generated %s %s · provider %s · %d topics · %d news items\n",
			r.date, r.now.Format("15:04"), providerKey, len(contents), newsCount)
	}

	return template.Data{
		Date:          r.date,
		DateLong:      r.now.Format("Monday, January 2, 2006"),
		Time:          r.now.Format("15:04"),
		Weekday:       r.now.Format("Monday"),
		Month:         r.now.Format("January"),
		Year:          r.now.Format("2006"),
		Title:         "Daily News - " + r.date,
		Topics:        strings.TrimSpace(sections.String()) + "\n",
		TOC:           strings.TrimSpace(toc.String()),
		StatusSummary: statusSummary(successCount, failedCount, len(contents), an),
		Metadata:      metadata,
		Provider:      providerKey,
		TopicCount:    len(contents),
		NewsCount:     newsCount,
		SuccessCount:  successCount,
		FailedCount:   failedCount,
	}
}

func statusSummary(success, failed, total int, an Analysis) string {
	if total == 0 {
		return "No topics configured."
	}
	if an.AllTopicsFailed {
		return fmt.Sprintf("All %d topics failed: %s", total, an.ErrorSummary)
	}
	s := fmt.Sprintf("%d of %d topics succeeded.", success, total)
	if failed > 0 {
		s += fmt.Sprintf(" %d failed: %s", failed, an.ErrorSummary)
	}
	return s
}
