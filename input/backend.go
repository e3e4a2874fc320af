package input

import (
	"os/exec"

	"github.com/pkg/errors"
)

// Analyzer is a spectrum analyzer that can feed the dashboard.
type Analyzer interface {
	// Binary is the executable the analyzer needs on PATH.
	Binary() string
	New(SourceConfig) Source
}

type NamedAnalyzer struct {
	Name string
	Analyzer
}

var Analyzers []NamedAnalyzer

// RegisterAnalyzer registers an analyzer globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterAnalyzer(name string, a Analyzer) {
	Analyzers = append(Analyzers, NamedAnalyzer{
		Name:     name,
		Analyzer: a,
	})
}

// GetAllAnalyzerNames returns all registered analyzer names.
func GetAllAnalyzerNames() []string {
	out := make([]string, len(Analyzers))
	for i, a := range Analyzers {
		out[i] = a.Name
	}
	return out
}

// DefaultAnalyzer returns the first registered analyzer whose binary is
// installed, or the first registered one if none are.
func DefaultAnalyzer() string {
	for _, a := range Analyzers {
		if path, _ := exec.LookPath(a.Binary()); path != "" {
			return a.Name
		}
	}

	if len(Analyzers) > 0 {
		return Analyzers[0].Name
	}

	return ""
}

// FindAnalyzer returns nil if the analyzer is not registered.
func FindAnalyzer(name string) Analyzer {
	for _, a := range Analyzers {
		if a.Name == name {
			return a.Analyzer
		}
	}
	return nil
}

func HasAnalyzer(name string) bool {
	return FindAnalyzer(name) != nil
}

// InitAnalyzer looks up an analyzer by name. An empty name picks the default.
func InitAnalyzer(name string) (Analyzer, error) {
	if name == "" {
		name = DefaultAnalyzer()
	}

	a := FindAnalyzer(name)
	if a == nil {
		return nil, errors.Errorf("analyzer not found: %q; check list-analyzers", name)
	}

	return a, nil
}
