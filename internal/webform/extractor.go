package webform

import (
	"fmt"
	"sort"
)

// collectionKind indexes the kinds that normally occur as homogeneous arrays.
type collectionKind int

const (
	kindField collectionKind = iota
	kindWorkflowRule
	kindUIField
	numCollectionKinds
)

// arrayCandidate is a qualifying array found during traversal. Candidates
// are appended in traversal order, which provides the first-encountered
// tie-break for free.
type arrayCandidate struct {
	path  string
	items []any
}

// objectMatch is an individual object match, used for the scattered fallback.
type objectMatch struct {
	path string
	obj  map[string]any
}

// walker accumulates candidates during one depth-first pass.
type walker struct {
	cfg Config

	arrays    [numCollectionKinds][]arrayCandidate
	scattered [numCollectionKinds][]objectMatch

	metadata     map[string]any
	metadataPath string

	bundle     map[string]any
	bundlePath string
}

// Extract walks a decoded JSON document and locates the best-matching
// substructure for each semantic kind. Absence of any kind is reported as a
// zero-count Finding; the only error is untraversable input.
func Extract(root any, cfg Config) (*ParsedDocument, error) {
	switch root.(type) {
	case map[string]any, []any, string, float64, bool, nil:
	default:
		return nil, fmt.Errorf("%w: unsupported root type %T", ErrMalformedInput, root)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.CollectionRatio <= 0 {
		cfg.CollectionRatio = DefaultCollectionRatio
	}
	if cfg.MinExtraProps <= 0 {
		cfg.MinExtraProps = DefaultMinExtraProps
	}
	if cfg.LanguagePattern == nil {
		cfg.LanguagePattern = defaultLanguagePattern
	}

	w := &walker{cfg: cfg}
	w.walk(root, "$", 0)

	doc := &ParsedDocument{}
	w.resolveFields(doc)
	w.resolveWorkflowRules(doc)
	w.resolveUIFields(doc)
	w.resolveTranslations(doc)
	w.resolveMetadata(doc)
	resolveVisibility(doc)
	return doc, nil
}

// walk is a pre-order depth-first traversal. Object keys are visited in
// sorted order so that traversal order (and with it every first/longest
// tie-break and path string) is deterministic.
func (w *walker) walk(node any, path string, depth int) {
	if depth > w.cfg.MaxDepth {
		return
	}
	switch n := node.(type) {
	case map[string]any:
		w.inspectObject(n, path)
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.walk(n[k], path+"."+k, depth+1)
		}
	case []any:
		w.inspectArray(n, path)
		for i, el := range n {
			w.walk(el, fmt.Sprintf("%s[%d]", path, i), depth+1)
		}
	}
}

// inspectObject evaluates the object-level predicates. Matches across kinds
// are independent: one object may satisfy several predicates at once.
func (w *walker) inspectObject(obj map[string]any, path string) {
	if isFieldShape(obj, w.cfg) {
		w.scattered[kindField] = append(w.scattered[kindField], objectMatch{path, obj})
	}
	if isWorkflowRuleShape(obj, w.cfg) {
		w.scattered[kindWorkflowRule] = append(w.scattered[kindWorkflowRule], objectMatch{path, obj})
	}
	if isUIFieldShape(obj) {
		w.scattered[kindUIField] = append(w.scattered[kindUIField], objectMatch{path, obj})
	}
	if w.metadata == nil && isMetadataShape(obj, w.cfg) {
		// Metadata is a singleton: first match in traversal order wins.
		w.metadata = obj
		w.metadataPath = path
	}
	if isTranslationBundle(obj, w.cfg) {
		// Translation bundles are selected by size: the candidate with the
		// most language keys wins, first-encountered on ties.
		if w.bundle == nil || len(obj) > len(w.bundle) {
			w.bundle = obj
			w.bundlePath = path
		}
	}
}

// inspectArray evaluates collection-level promotion for each array kind.
func (w *walker) inspectArray(arr []any, path string) {
	cfg := w.cfg
	if isCollectionOf(arr, cfg, func(o map[string]any) bool { return isFieldShape(o, cfg) }) {
		w.arrays[kindField] = append(w.arrays[kindField], arrayCandidate{path, arr})
	}
	if isCollectionOf(arr, cfg, func(o map[string]any) bool { return isWorkflowRuleShape(o, cfg) }) {
		w.arrays[kindWorkflowRule] = append(w.arrays[kindWorkflowRule], arrayCandidate{path, arr})
	}
	if isCollectionOf(arr, cfg, isUIFieldShape) {
		w.arrays[kindUIField] = append(w.arrays[kindUIField], arrayCandidate{path, arr})
	}
}

// selectCollection picks the canonical array for a kind: the longest
// qualifying candidate, first-encountered on ties. The second return is false
// when no array qualified and the scattered fallback should apply.
func (w *walker) selectCollection(kind collectionKind) (arrayCandidate, bool) {
	candidates := w.arrays[kind]
	if len(candidates) == 0 {
		return arrayCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.items) > len(best.items) {
			best = c
		}
	}
	return best, true
}

func (w *walker) resolveFields(doc *ParsedDocument) {
	if best, ok := w.selectCollection(kindField); ok {
		for _, el := range best.items {
			if obj, ok := asObject(el); ok && isFieldShape(obj, w.cfg) {
				doc.Fields = append(doc.Fields, decodeField(obj))
			}
		}
		doc.FieldsFinding = Finding{Count: len(best.items), Path: best.path}
		return
	}
	for _, m := range w.scattered[kindField] {
		doc.Fields = append(doc.Fields, decodeField(m.obj))
	}
	doc.FieldsFinding = scatteredFinding(len(doc.Fields))
}

func (w *walker) resolveWorkflowRules(doc *ParsedDocument) {
	if best, ok := w.selectCollection(kindWorkflowRule); ok {
		for _, el := range best.items {
			if obj, ok := asObject(el); ok && isWorkflowRuleShape(obj, w.cfg) {
				doc.WorkflowRules = append(doc.WorkflowRules, decodeWorkflowRule(obj))
			}
		}
		doc.WorkflowRulesFinding = Finding{Count: len(best.items), Path: best.path}
		return
	}
	for _, m := range w.scattered[kindWorkflowRule] {
		doc.WorkflowRules = append(doc.WorkflowRules, decodeWorkflowRule(m.obj))
	}
	doc.WorkflowRulesFinding = scatteredFinding(len(doc.WorkflowRules))
}

func (w *walker) resolveUIFields(doc *ParsedDocument) {
	if best, ok := w.selectCollection(kindUIField); ok {
		for _, el := range best.items {
			if obj, ok := asObject(el); ok && isUIFieldShape(obj) {
				doc.UIFields = append(doc.UIFields, decodeUIField(obj))
			}
		}
		doc.UIFieldsFinding = Finding{Count: len(best.items), Path: best.path}
		return
	}
	for _, m := range w.scattered[kindUIField] {
		doc.UIFields = append(doc.UIFields, decodeUIField(m.obj))
	}
	doc.UIFieldsFinding = scatteredFinding(len(doc.UIFields))
}

func (w *walker) resolveTranslations(doc *ParsedDocument) {
	if w.bundle == nil {
		return
	}
	doc.Translations = decodeTranslations(w.bundle)
	doc.TranslationsFinding = Finding{Count: len(doc.Translations), Path: w.bundlePath}
}

func (w *walker) resolveMetadata(doc *ParsedDocument) {
	if w.metadata == nil {
		return
	}
	md := decodeMetadata(w.metadata)
	doc.Metadata = &md
	doc.MetadataFinding = Finding{Count: 1, Path: w.metadataPath}
}

// resolveVisibility derives the per-field visibility rule index from the
// already-resolved field collection.
func resolveVisibility(doc *ParsedDocument) {
	total := 0
	index := make(map[string][]VisibilityRule)
	for _, f := range doc.Fields {
		if f.HasVisibilityRule && len(f.VisibilityRules) > 0 {
			index[f.FieldKey] = f.VisibilityRules
			total += len(f.VisibilityRules)
		}
	}
	if total > 0 {
		doc.VisibilityRules = index
	}
	doc.VisibilityFinding = Finding{Count: total}
}

func scatteredFinding(count int) Finding {
	if count == 0 {
		return Finding{}
	}
	return Finding{Count: count, Path: PathScattered}
}
