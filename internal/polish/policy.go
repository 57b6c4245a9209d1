package polish

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// defaultRules is the editing policy embedded in every polish request. The
// remote model is instructed to follow these verbatim.
var defaultRules = []string{
	"Do not invent new facts, claims, or examples that are not in the transcript.",
	"Do not remove technical detail.",
	"Remove filler words, false starts, stutters, and repeated phrases.",
	"Normalize punctuation, casing, and sentence boundaries.",
	"Preserve acronyms, identifiers, numbers, and proper nouns exactly as spoken.",
	"Preserve ambiguity rather than resolving it speculatively.",
}

// policyFile is the YAML shape of an editing-policy override.
type policyFile struct {
	Rules []string `yaml:"rules"`
}

// PolicySource provides the editing-policy rules, optionally overridden by
// a YAML file that can be hot-reloaded on change.
type PolicySource struct {
	path string

	mu    sync.RWMutex
	rules []string
}

// NewPolicySource creates a policy source. An empty path means the built-in
// rules are used and Load/WatchAndReload are no-ops.
func NewPolicySource(path string) *PolicySource {
	return &PolicySource{path: path, rules: defaultRules}
}

// Rules returns the current editing-policy rules.
func (s *PolicySource) Rules() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// Load reads the override file. Files with no rules fall back to the
// built-in policy.
func (s *PolicySource) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read policy file %q: %w", s.path, err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse policy file %q: %w", s.path, err)
	}

	rules := make([]string, 0, len(pf.Rules))
	for _, rule := range pf.Rules {
		if r := strings.TrimSpace(rule); r != "" {
			rules = append(rules, r)
		}
	}
	if len(rules) == 0 {
		rules = defaultRules
	}

	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
	return nil
}

// WatchAndReload watches the policy file for changes and reloads. Blocks
// until the done channel is closed.
func (s *PolicySource) WatchAndReload(done <-chan struct{}) error {
	if s.path == "" {
		<-done
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.path); err != nil {
		return fmt.Errorf("watch policy file %q: %w", s.path, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				_ = s.Load()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
