package categorizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"
	"fjacquet/ia-financiera/internal/textutils"
)

// UnknownCategoryPolicy decides what happens to a remote category label that is
// not part of the vocabulary.
type UnknownCategoryPolicy string

const (
	// PolicyCoerce maps unknown labels to the Other sentinel.
	PolicyCoerce UnknownCategoryPolicy = "coerce"
	// PolicyExtend appends unknown labels to the vocabulary.
	PolicyExtend UnknownCategoryPolicy = "extend"
)

// ParseUnknownCategoryPolicy validates a policy name. Empty means coerce.
func ParseUnknownCategoryPolicy(s string) (UnknownCategoryPolicy, error) {
	switch UnknownCategoryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyCoerce:
		return PolicyCoerce, nil
	case PolicyExtend:
		return PolicyExtend, nil
	default:
		return "", fmt.Errorf("unknown category policy %q (want coerce or extend)", s)
	}
}

// keywordPattern is a compiled whole-word keyword.
type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// categoryMatcher holds the compiled keywords of one category. Matchers are
// immutable and shared between snapshots.
type categoryMatcher struct {
	name     string
	sentinel bool
	keywords []keywordPattern
}

// Vocabulary is an immutable, ordered snapshot of the category vocabulary.
type Vocabulary struct {
	categories []models.CategoryConfig
	matchers   []*categoryMatcher
	index      map[string]int // canonical form -> position
}

// canonicalForms returns the lookup keys of a label: accent-folded, lower-cased,
// whitespace-collapsed, plus its singular candidates ("-es" and "-s" stripped).
func canonicalForms(label string) []string {
	base := strings.Join(strings.Fields(textutils.Fold(label)), " ")
	if base == "" {
		return nil
	}
	forms := []string{base}
	if strings.HasSuffix(base, "es") && len(base)-2 >= 3 {
		forms = append(forms, base[:len(base)-2])
	}
	if strings.HasSuffix(base, "s") && len(base)-1 >= 3 {
		forms = append(forms, base[:len(base)-1])
	}
	return forms
}

func compileKeyword(keyword string) (keywordPattern, bool) {
	normalized := strings.TrimSpace(textutils.Normalize(keyword))
	if normalized == "" {
		return keywordPattern{}, false
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(normalized) + `(?:e?s)?\b`)
	return keywordPattern{keyword: normalized, re: re}, true
}

func newMatcher(cfg models.CategoryConfig) *categoryMatcher {
	m := &categoryMatcher{
		name:     cfg.Name,
		sentinel: isSentinel(cfg.Name),
	}
	if m.sentinel {
		return m
	}
	seen := make(map[string]bool, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		p, ok := compileKeyword(kw)
		if !ok || seen[p.keyword] {
			continue
		}
		seen[p.keyword] = true
		m.keywords = append(m.keywords, p)
	}
	return m
}

func isSentinel(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), models.CategoryOther)
}

// newVocabulary builds a snapshot from a configuration list. Names must be
// non-empty and canonically distinct.
func newVocabulary(categories []models.CategoryConfig) (*Vocabulary, error) {
	v := &Vocabulary{index: make(map[string]int, len(categories)*3)}
	for _, cfg := range categories {
		cfg.Name = strings.TrimSpace(cfg.Name)
		if cfg.Name == "" {
			return nil, errors.New("category name must not be empty")
		}
		if existing, ok := v.Lookup(cfg.Name); ok {
			return nil, fmt.Errorf("category %q duplicates %q", cfg.Name, existing)
		}
		v.add(cfg.Clone(), newMatcher(cfg))
	}
	return v, nil
}

// add appends in place; only used while a snapshot is still private.
func (v *Vocabulary) add(cfg models.CategoryConfig, m *categoryMatcher) {
	pos := len(v.categories)
	v.categories = append(v.categories, cfg)
	v.matchers = append(v.matchers, m)

	labels := append([]string{cfg.Name}, cfg.Aliases...)
	for _, label := range labels {
		for _, form := range canonicalForms(label) {
			if _, taken := v.index[form]; !taken {
				v.index[form] = pos
			}
		}
	}
}

// with returns a new snapshot with cfg appended. v is left untouched.
func (v *Vocabulary) with(cfg models.CategoryConfig) *Vocabulary {
	next := &Vocabulary{
		categories: make([]models.CategoryConfig, len(v.categories), len(v.categories)+1),
		matchers:   make([]*categoryMatcher, len(v.matchers), len(v.matchers)+1),
		index:      make(map[string]int, len(v.index)+3),
	}
	copy(next.categories, v.categories)
	copy(next.matchers, v.matchers)
	for k, pos := range v.index {
		next.index[k] = pos
	}
	next.add(cfg, newMatcher(cfg))
	return next
}

// Len returns the number of categories.
func (v *Vocabulary) Len() int {
	return len(v.categories)
}

// Names returns the category names in declaration order.
func (v *Vocabulary) Names() []string {
	names := make([]string, len(v.categories))
	for i, c := range v.categories {
		names[i] = c.Name
	}
	return names
}

// Categories returns a deep copy of the categories in declaration order.
func (v *Vocabulary) Categories() []models.CategoryConfig {
	out := make([]models.CategoryConfig, len(v.categories))
	for i, c := range v.categories {
		out[i] = c.Clone()
	}
	return out
}

// Lookup finds the category a label refers to, ignoring case, accents,
// whitespace and plural endings. Aliases are honored.
func (v *Vocabulary) Lookup(label string) (string, bool) {
	for _, form := range canonicalForms(label) {
		if pos, ok := v.index[form]; ok {
			return v.categories[pos].Name, true
		}
	}
	return "", false
}

// Contains reports whether the label resolves to a category.
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.Lookup(label)
	return ok
}

// VocabularyStore owns the process-wide vocabulary. Readers take lock-free
// snapshots; appends are serialized and publish a new snapshot.
type VocabularyStore struct {
	mu      sync.Mutex
	current atomic.Pointer[Vocabulary]
	logger  logging.Logger
}

// NewVocabularyStore creates a store seeded with categories, or with
// DefaultCategories when the list is empty. The Other sentinel is appended when
// the seed lacks it.
func NewVocabularyStore(categories []models.CategoryConfig, logger logging.Logger) (*VocabularyStore, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if len(categories) == 0 {
		categories = DefaultCategories()
	}

	vocab, err := newVocabulary(categories)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}
	if !vocab.Contains(models.CategoryOther) {
		vocab.add(models.CategoryConfig{Name: models.CategoryOther}, newMatcher(models.CategoryConfig{Name: models.CategoryOther}))
	}

	s := &VocabularyStore{logger: logger}
	s.current.Store(vocab)

	logger.WithField(logging.FieldCount, vocab.Len()).Debug("Category vocabulary loaded")
	return s, nil
}

// Snapshot returns the current immutable vocabulary.
func (s *VocabularyStore) Snapshot() *Vocabulary {
	return s.current.Load()
}

// AppendOrGet returns the existing category matching name, or appends name as a
// new keyword-less category. added reports whether an append happened.
// Concurrent calls never lose or duplicate entries.
func (s *VocabularyStore) AppendOrGet(name string) (category string, added bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, fmt.Errorf("%w: empty label", classifyerror.ErrUnknownCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if existing, ok := cur.Lookup(name); ok {
		return existing, false, nil
	}

	s.current.Store(cur.with(models.CategoryConfig{Name: name}))

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: name},
		logging.Field{Key: logging.FieldCount, Value: cur.Len() + 1},
	).Info("New category appended to vocabulary")
	return name, true, nil
}

// Resolve maps a remote label to a vocabulary category. The label is looked up
// in vocab (the request's snapshot; nil means the current one). Unknown labels
// follow policy: coerce answers Other, extend appends the label.
func (s *VocabularyStore) Resolve(vocab *Vocabulary, label string, policy UnknownCategoryPolicy) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", fmt.Errorf("%w: empty label", classifyerror.ErrUnknownCategory)
	}
	if vocab == nil {
		vocab = s.Snapshot()
	}
	if name, ok := vocab.Lookup(label); ok {
		return name, nil
	}

	switch policy {
	case PolicyExtend:
		name, _, err := s.AppendOrGet(label)
		return name, err
	case PolicyCoerce, "":
		s.logger.WithFields(
			logging.Field{Key: logging.FieldCategory, Value: label},
		).Debug("Unknown category coerced to Other")
		return models.CategoryOther, nil
	default:
		return "", fmt.Errorf("%w: unsupported policy %q", classifyerror.ErrUnknownCategory, policy)
	}
}
