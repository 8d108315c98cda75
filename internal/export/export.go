// Package export composes a theme document with the renderer and the feature
// gate into a set of output artifacts. The live preview of a page runs the same
// steps through the caching backend so the two never disagree.
package export

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/alexisbeaulieu97/sectionforge/internal/content"
	"github.com/alexisbeaulieu97/sectionforge/internal/document"
	"github.com/alexisbeaulieu97/sectionforge/internal/gate"
	"github.com/alexisbeaulieu97/sectionforge/internal/logger"
	"github.com/alexisbeaulieu97/sectionforge/internal/registry"
	"github.com/alexisbeaulieu97/sectionforge/internal/render"
	"github.com/alexisbeaulieu97/sectionforge/internal/sections"
	"github.com/alexisbeaulieu97/sectionforge/internal/tags"
	"github.com/alexisbeaulieu97/sectionforge/internal/validation"
	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// Options tune a pipeline.
type Options struct {
	// SiteName is used in page titles.
	SiteName string
	// Parallel caps the number of sections rendered at once. Values below 1 mean 1.
	Parallel int
}

// Pipeline renders documents. It is safe for concurrent use.
type Pipeline struct {
	registry *registry.Registry
	source   content.Source
	export   *render.Renderer
	preview  *render.Renderer
	opts     Options
	logger   *logger.Logger
}

// New returns a pipeline over the templates in fsys. A nil source binds no pages.
func New(reg *registry.Registry, source content.Source, fsys fs.FS, opts Options, log *logger.Logger) *Pipeline {
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	return &Pipeline{
		registry: reg,
		source:   source,
		export:   render.New(render.NewExportBackend(fsys)),
		preview:  render.New(render.NewPreviewBackend(fsys)),
		opts:     opts,
		logger:   log.WithComponent("export"),
	}
}

// Result is the output of one export.
type Result struct {
	Artifacts Artifacts
	Report    *Report
}

// Export renders every active section of doc for tier and composes one file
// per page. doc is not modified.
func (p *Pipeline) Export(ctx context.Context, doc *document.Document, tier gate.Tier) (*Result, error) {
	run, err := p.run(ctx, p.export, doc, doc.PageKeys(), tier)
	if err != nil {
		return nil, err
	}

	artifacts := Artifacts{}
	for _, o := range run.outcomes {
		if o.markup == "" {
			continue
		}
		rel := fragmentPath(o.entry.Page, o.entry.ID)
		if _, dup := artifacts[rel]; dup {
			return nil, fmt.Errorf("section %s/%s: fragment path %s is already taken", o.entry.Page, o.entry.ID, rel)
		}
		artifacts[rel] = []byte(o.markup)
	}
	for _, page := range doc.PageKeys() {
		markup, err := p.compose(p.export, run, page)
		if err != nil {
			return nil, err
		}
		artifacts[PagePath(page)] = []byte(markup)
	}

	manifest, err := run.report.manifest()
	if err != nil {
		return nil, err
	}
	artifacts[ManifestPath] = manifest

	p.logger.WithFields(map[string]any{
		"tier":      string(tier),
		"artifacts": len(artifacts),
		"rendered":  run.report.Count(StatusRendered),
		"gated":     run.report.Count(StatusPlaceholder) + run.report.Count(StatusOmitted),
	}).Info("export complete")

	return &Result{Artifacts: artifacts, Report: run.report}, nil
}

// PreviewPage renders one page through the preview backend with the same
// validation, binding and gating as Export.
func (p *Pipeline) PreviewPage(ctx context.Context, doc *document.Document, page string, tier gate.Tier) (string, *Report, error) {
	if _, ok := doc.Pages[page]; !ok {
		return "", nil, sferrors.NewNotFoundError("page", page)
	}
	run, err := p.run(ctx, p.preview, doc, []string{page}, tier)
	if err != nil {
		return "", nil, err
	}
	markup, err := p.compose(p.preview, run, page)
	if err != nil {
		return "", nil, err
	}
	return markup, run.report, nil
}

type job struct {
	page string
	id   string
	cfg  document.SectionConfig
}

type outcome struct {
	entry  Entry
	markup string
}

type runResult struct {
	outcomes []outcome
	byPage   map[string][]int
	report   *Report
}

// jobs lists header, footer and page sections in render order.
func jobs(doc *document.Document, pages []string) []job {
	var out []job
	if !doc.Header.IsZero() {
		out = append(out, job{page: document.HeaderKey, id: document.HeaderKey, cfg: doc.Header})
	}
	for _, page := range append([]string{document.FooterKey}, pages...) {
		layout, ok := doc.Layout(page)
		if !ok {
			continue
		}
		for _, id := range layout.Active() {
			out = append(out, job{page: page, id: id, cfg: layout.Sections[id]})
		}
	}
	return out
}

func (p *Pipeline) run(ctx context.Context, r *render.Renderer, doc *document.Document, pages []string, tier gate.Tier) (*runResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var bound []content.Page
	if p.source != nil {
		fetched, err := p.source.Pages(ctx)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		bound = fetched
	}

	work := jobs(doc, pages)
	outcomes := make([]outcome, len(work))
	workerPool := make(chan struct{}, p.opts.Parallel)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for idx, j := range work {
		wg.Add(1)
		go func(idx int, j job) {
			defer wg.Done()

			select {
			case workerPool <- struct{}{}:
				defer func() { <-workerPool }()
			case <-ctx.Done():
				once.Do(func() { firstErr = ctx.Err() })
				return
			}
			if err := ctx.Err(); err != nil {
				once.Do(func() { firstErr = err })
				return
			}

			o, err := p.renderSection(r, j, bound, tier)
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			outcomes[idx] = o
		}(idx, j)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	result := &runResult{
		outcomes: outcomes,
		byPage:   make(map[string][]int),
		report:   &Report{Tier: tier, Policy: p.registry.Gate().Policy(), Pages: make(map[string][]string)},
	}
	for i, o := range outcomes {
		result.byPage[o.entry.Page] = append(result.byPage[o.entry.Page], i)
		result.report.Entries = append(result.report.Entries, o.entry)
		if o.markup != "" {
			result.report.Pages[o.entry.Page] = append(result.report.Pages[o.entry.Page], o.entry.ID)
		}
	}
	return result, nil
}

func (p *Pipeline) renderSection(r *render.Renderer, j job, pages []content.Page, tier gate.Tier) (outcome, error) {
	definitionID := document.DefinitionID(j.id, j.cfg, p.registry)
	entry := Entry{Page: j.page, ID: j.id, Definition: definitionID}
	log := p.logger.WithSection(j.id, definitionID).WithFields(map[string]any{"page": j.page})

	def, ok := p.registry.Lookup(definitionID)
	if !ok {
		err := sferrors.NewUnknownSectionError(j.id, definitionID)
		log.Warn(err.Error())
		entry.Status = StatusUnknown
		entry.Error = err.Error()
		return outcome{entry: entry}, nil
	}

	// Stored configs are validated again; nothing stored is trusted as-is.
	result, err := validation.Validate(def, j.cfg.Settings)
	if err != nil {
		return outcome{}, fmt.Errorf("%s/%s: %w", j.page, j.id, err)
	}
	cfg := result.Config
	entry.Warnings = result.Issues()
	if len(entry.Warnings) > 0 {
		log.WithFields(map[string]any{"warnings": result.Summary()}).Warn("stored config repaired")
	}

	if !cfg.Visible {
		entry.Status = StatusHidden
		return outcome{entry: entry}, nil
	}

	entry.Class = p.registry.Classify(definitionID)
	if !gate.Entitled(tier, entry.Class) {
		log.Debug("section gated")
		if p.registry.Gate().Policy() == gate.PolicyOmit {
			entry.Status = StatusOmitted
			return outcome{entry: entry}, nil
		}
		entry.Status = StatusPlaceholder
		return outcome{entry: entry, markup: gate.Placeholder(j.id, definitionID) + "\n"}, nil
	}

	bound, ok := tags.Resolve(def.Binding, cfg, pages)
	if !ok {
		entry.Miss = true
		log.Debug("no tagged content found")
	}

	markup, err := r.Render(def, cfg, render.Context{
		InstanceID: j.id,
		PageKey:    j.page,
		Bound:      bound,
		Miss:       !ok,
	})
	if err != nil {
		return outcome{}, err
	}
	entry.Status = StatusRendered
	return outcome{entry: entry, markup: markup}, nil
}

func (p *Pipeline) compose(r *render.Renderer, run *runResult, page string) (string, error) {
	view := render.PageView{Key: page, Title: page, SiteName: p.opts.SiteName}
	if tmpl, ok := sections.PageTemplateFor(page); ok {
		view.Title = tmpl.Label
	}

	for _, i := range run.byPage[document.HeaderKey] {
		view.Header += render.Trusted(run.outcomes[i].markup)
	}
	for _, i := range run.byPage[page] {
		if markup := run.outcomes[i].markup; markup != "" {
			view.Sections = append(view.Sections, render.Trusted(markup))
		}
	}
	for _, i := range run.byPage[document.FooterKey] {
		view.Footer += render.Trusted(run.outcomes[i].markup)
	}
	return r.Compose(view)
}
