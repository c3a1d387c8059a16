// Package extract builds field-level catalogs and lineage from a parsed
// PowerMart metadata export. One Extractor run owns one identity registry
// and the two catalog accumulators; nothing persists across runs.
package extract

import (
	"errors"
	"log/slog"

	"infacat/internal/xmltree"
)

// Result holds the three derived artifacts of one extraction run.
type Result struct {
	RepositoryName     string
	DBObjects          Fragment
	InformaticaObjects Fragment
	Lineage            []Edge
}

// Extractor drives the extraction pipeline over one document tree.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor logging through the given logger.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "extractor")}
}

func emptyResult() *Result {
	return &Result{
		RepositoryName:     "N/A",
		DBObjects:          Fragment{},
		InformaticaObjects: Fragment{},
		Lineage:            []Edge{},
	}
}

// ExtractFile parses the document at path and extracts it. Missing, empty,
// and malformed inputs degrade to all-empty outputs with an error log — the
// pipeline never fails on bad input.
func (x *Extractor) ExtractFile(path string) *Result {
	root, err := xmltree.ParseFile(path)
	if err != nil {
		var pe *xmltree.ParseError
		switch {
		case errors.Is(err, xmltree.ErrNotFound):
			x.logger.Error("input file not found or empty", "path", path)
		case errors.As(err, &pe):
			x.logger.Error("input parse failed", "path", path, "error", err)
		default:
			x.logger.Error("input read failed", "path", path, "error", err)
		}
		return emptyResult()
	}
	return x.Extract(root)
}

// Extract runs the three extraction phases over an already-parsed tree:
// all sources and targets into the db catalog, all mappings into the
// transformation catalog plus lineage, then all workflows re-resolving the
// mappings their sessions reference. Document order is preserved
// throughout, which makes identity assignment and lineage order
// deterministic for a given document.
func (x *Extractor) Extract(root *xmltree.Element) *Result {
	reg := NewRegistry()
	result := emptyResult()

	if repo := root.FirstDescendant(tagRepository); repo != nil {
		result.RepositoryName = repo.Attr(attrName)
	}

	// Phase A: sources first, then targets, each in document order.
	for _, el := range root.Descendants(tagSource) {
		Merge(result.DBObjects, buildDBFragment(el, KindSource, reg))
	}
	for _, el := range root.Descendants(tagTarget) {
		Merge(result.DBObjects, buildDBFragment(el, KindTarget, reg))
	}

	// Phase B: mappings — catalog fragments plus lineage per mapping. The
	// instance-type map lives exactly as long as its mapping's lineage pass.
	mappings := root.Descendants(tagMapping)
	for _, el := range mappings {
		fragment, types := buildMappingFragment(el, reg)
		Merge(result.InformaticaObjects, Fragment{result.RepositoryName: fragment})
		result.Lineage = append(result.Lineage, resolveLineage(el, types, reg, x.logger)...)
	}

	// Phase C: workflows, re-resolving session mappings from Phase B's list.
	for _, el := range root.Descendants(tagWorkflow) {
		fragment := buildWorkflowFragment(el, mappings, reg, x.logger)
		Merge(result.InformaticaObjects, Fragment{result.RepositoryName: fragment})
	}

	if len(result.DBObjects) == 0 {
		x.logger.Warn("no database objects extracted")
	}
	if len(result.InformaticaObjects) == 0 {
		x.logger.Warn("no transformation objects extracted")
	}
	if len(result.Lineage) == 0 {
		x.logger.Warn("no field lineage extracted")
	}

	return result
}
