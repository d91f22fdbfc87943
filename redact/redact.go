package redact

import (
	"regexp"
	"strings"
)

// Config controls which rules the Redactor applies.
type Config struct {
	Secrets    bool
	PII        bool
	ExtraRules []Rule   // applied after the built-in rules
	Allowlist  []string // regex patterns; matching hits are left untouched
}

// Redactor replaces secret-shaped substrings with typed placeholders. It
// holds no mutable state and is safe for concurrent use.
type Redactor struct {
	rules     []Rule
	allowlist []*regexp.Regexp
}

// New creates a Redactor from the given config. Allowlist patterns that do
// not compile are ignored.
func New(cfg Config) *Redactor {
	var rules []Rule
	if cfg.Secrets {
		rules = append(rules, SecretRules()...)
	}
	if cfg.PII {
		rules = append(rules, PIIRules()...)
	}
	rules = append(rules, cfg.ExtraRules...)

	allowlist := make([]*regexp.Regexp, 0, len(cfg.Allowlist))
	for _, pattern := range cfg.Allowlist {
		if re, err := regexp.Compile(pattern); err == nil {
			allowlist = append(allowlist, re)
		}
	}

	return &Redactor{rules: rules, allowlist: allowlist}
}

// Default returns a Redactor with every built-in rule enabled.
func Default() *Redactor {
	return New(Config{Secrets: true, PII: true})
}

// maxPasses bounds how often the rule table is re-applied. A placeholder can
// open a word boundary in front of a secret glued to the one it replaced, so
// one pass is not always enough.
const maxPasses = 8

// String applies each rule, in table order, to the output of the previous
// one, and repeats the table until nothing changes. Running it on its own
// output returns that output unchanged.
func (r *Redactor) String(s string) string {
	if r == nil || s == "" {
		return s
	}
	for range maxPasses {
		out := s
		for _, rule := range r.rules {
			out = r.apply(rule, out)
		}
		if out == s {
			break
		}
		s = out
	}
	return s
}

// Rules returns the rules in application order.
func (r *Redactor) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

func (r *Redactor) apply(rule Rule, s string) string {
	locs := rule.Pattern.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	pos := 0
	for _, loc := range locs {
		match := s[loc[0]:loc[1]]
		if r.isAllowed(match) {
			continue
		}
		b.WriteString(s[pos:loc[0]])
		b.WriteString(replacement(rule, s, loc))
		pos = loc[1]
	}
	b.WriteString(s[pos:])
	return b.String()
}

func replacement(rule Rule, s string, loc []int) string {
	if rule.Expand != nil {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		return rule.Expand(groups)
	}
	return string(rule.Pattern.ExpandString(nil, rule.Replacement, s, loc))
}

func (r *Redactor) isAllowed(value string) bool {
	for _, re := range r.allowlist {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
