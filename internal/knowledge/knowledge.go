// Package knowledge loads the crop knowledge base: per-crop ordered rule
// sets whose conditions are compiled into safe expression trees at load
// time.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Knowledge base errors.
var (
	// ErrNotFound is returned when the knowledge base file does not exist.
	ErrNotFound = errors.New("knowledge base file not found")
)

// ParseError describes a malformed knowledge base document or rule.
type ParseError struct {
	Crop   string
	Rule   int // zero-based rule index, -1 for document-level errors
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Crop == "" {
		return fmt.Sprintf("knowledge base: %s", e.Detail)
	}
	if e.Rule < 0 {
		return fmt.Sprintf("knowledge base: crop %q: %s", e.Crop, e.Detail)
	}
	return fmt.Sprintf("knowledge base: crop %q rule %d: %s", e.Crop, e.Rule, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// alertSeverities are the severity labels that count as alert-level for
// verdicts and critical-warning extraction.
var alertSeverities = map[string]struct{}{
	"high":     {},
	"critical": {},
	"severe":   {},
	"alert":    {},
}

// Rule is one compiled advisory rule.
type Rule struct {
	When     string
	Severity string
	Advisory string

	cond  Expr
	alert bool
}

// Matches evaluates the rule condition against a day's field values.
// Evaluation errors (undefined operands) count as no match.
func (r Rule) Matches(vars map[string]float64) bool {
	ok, err := r.cond.Eval(vars)
	if err != nil {
		return false
	}
	return ok
}

// IsAlert reports whether the rule carries an alert-level severity.
func (r Rule) IsAlert() bool {
	return r.alert
}

// Render formats the rule as "[SEVERITY] advisory".
func (r Rule) Render() string {
	return "[" + strings.ToUpper(r.Severity) + "] " + r.Advisory
}

// KnowledgeBase is an immutable crop-keyed rule set. Safe for concurrent
// use once loaded.
type KnowledgeBase struct {
	rules map[string][]Rule
	crops []string
}

// Load reads and parses a knowledge base file.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse parses a knowledge base document and compiles every rule condition.
func Parse(data []byte) (*KnowledgeBase, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Rule: -1, Detail: "invalid JSON", Err: err}
	}
	if len(doc.Crops) == 0 {
		return nil, &ParseError{Rule: -1, Detail: "no crops defined"}
	}

	kb := &KnowledgeBase{rules: make(map[string][]Rule)}
	for _, crop := range doc.Crops {
		if crop.Name == "" {
			return nil, &ParseError{Rule: -1, Detail: "crop with empty name"}
		}

		rules := make([]Rule, 0, len(crop.Rules))
		for i, rd := range crop.Rules {
			if rd.When == "" {
				return nil, &ParseError{Crop: crop.Name, Rule: i, Detail: "missing condition"}
			}
			if rd.Advisory == "" {
				return nil, &ParseError{Crop: crop.Name, Rule: i, Detail: "missing advisory text"}
			}

			cond, err := Compile(rd.When)
			if err != nil {
				return nil, &ParseError{
					Crop:   crop.Name,
					Rule:   i,
					Detail: fmt.Sprintf("bad condition %q: %v", rd.When, err),
					Err:    err,
				}
			}

			severity := rd.Severity
			if severity == "" {
				severity = "info"
			}
			_, alert := alertSeverities[strings.ToLower(severity)]

			rules = append(rules, Rule{
				When:     rd.When,
				Severity: severity,
				Advisory: rd.Advisory,
				cond:     cond,
				alert:    alert,
			})
		}

		canonical := strings.ToLower(crop.Name)
		if _, dup := kb.rules[canonical]; dup {
			return nil, &ParseError{Crop: crop.Name, Rule: -1, Detail: "duplicate crop name"}
		}
		kb.rules[canonical] = rules
		kb.crops = append(kb.crops, canonical)

		for _, alias := range crop.Aliases {
			key := strings.ToLower(alias)
			if _, dup := kb.rules[key]; dup {
				return nil, &ParseError{Crop: crop.Name, Rule: -1, Detail: fmt.Sprintf("alias %q already in use", alias)}
			}
			kb.rules[key] = rules
		}
	}

	sort.Strings(kb.crops)
	return kb, nil
}

// Rules returns the ordered rule set for a crop name or alias,
// case-insensitively. The second return is false when the crop is unknown.
func (kb *KnowledgeBase) Rules(cropName string) ([]Rule, bool) {
	rules, ok := kb.rules[strings.ToLower(strings.TrimSpace(cropName))]
	return rules, ok
}

// Crops returns the sorted canonical crop names.
func (kb *KnowledgeBase) Crops() []string {
	return kb.crops
}

// Document structure of the knowledge base file.

type document struct {
	Crops []cropDocument `json:"crops"`
}

type cropDocument struct {
	Name    string         `json:"name"`
	Aliases []string       `json:"aliases"`
	Rules   []ruleDocument `json:"rules"`
}

type ruleDocument struct {
	When     string `json:"when"`
	Severity string `json:"severity"`
	Advisory string `json:"advisory"`
}
