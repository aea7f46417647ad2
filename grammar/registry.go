package grammar

import (
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrUnknownLanguage is returned when a name resolves to no registered language.
var ErrUnknownLanguage = errors.New("unknown language")

type entry struct {
	desc    *LanguageDescriptor
	matcher *Matcher
}

// A Registry owns the descriptors registered with it. Names and aliases are
// matched case-insensitively: everything is stored lower-cased.
type Registry struct {
	mu        sync.RWMutex
	languages map[string]*entry
	aliases   map[string]string
	log       logrus.FieldLogger
}

type RegistryOption func(*Registry)

// WithLogger sets the logger used to report replaced registrations.
func WithLogger(l logrus.FieldLogger) RegistryOption {
	return func(r *Registry) {
		r.log = l
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		languages: make(map[string]*entry),
		aliases:   make(map[string]string),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterLanguage calls factory once, validates and compiles the result, and
// stores it under name. Registering a name twice replaces the earlier entry.
func (r *Registry) RegisterLanguage(name string, factory Factory) error {
	key := normalize(name)
	if key == "" {
		return errors.Wrap(ErrInvalidDescriptor, "empty language name")
	}

	desc := factory()
	m, err := Compile(&desc)
	if err != nil {
		return errors.Wrapf(err, "registering %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.languages[key]; ok {
		r.log.WithField("language", key).Warn("replacing registered language")
		for alias, target := range r.aliases {
			if target == key {
				delete(r.aliases, alias)
			}
		}
	}
	r.languages[key] = &entry{&desc, m}

	for _, alias := range desc.Aliases {
		if a := normalize(alias); a != "" && a != key {
			r.aliases[a] = key
		}
	}
	r.log.WithFields(logrus.Fields{"language": key, "aliases": desc.Aliases}).Debug("registered language")
	return nil
}

func (r *Registry) lookup(name string) *entry {
	key := normalize(name)
	if e, ok := r.languages[key]; ok {
		return e
	}
	if target, ok := r.aliases[key]; ok {
		return r.languages[target]
	}
	return nil
}

// GetLanguage resolves a name or alias. The descriptor must not be modified.
func (r *Registry) GetLanguage(name string) (*LanguageDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e := r.lookup(name); e != nil {
		return e.desc, true
	}
	return nil, false
}

func (r *Registry) HasLanguage(name string) bool {
	_, ok := r.GetLanguage(name)
	return ok
}

// Matcher returns the compiled form of a registered language.
func (r *Registry) Matcher(name string) (*Matcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e := r.lookup(name); e != nil {
		return e.matcher, nil
	}
	return nil, errors.Wrapf(ErrUnknownLanguage, "%q", name)
}

// Languages returns the registered names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.languages))
	for name := range r.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchFilename returns the name of the first language, in name order, with a
// Filetypes glob matching path or its base name.
func (r *Registry) MatchFilename(path string) (string, bool) {
	path = strings.ReplaceAll(path, "\\", "/")
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}

	for _, name := range r.Languages() {
		desc, _ := r.GetLanguage(name)
		for _, glob := range desc.Filetypes {
			for _, candidate := range []string{path, base} {
				if ok, err := doublestar.Match(glob, candidate); err == nil && ok {
					return name, true
				}
			}
		}
	}
	return "", false
}
