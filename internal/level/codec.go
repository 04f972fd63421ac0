package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cellrules/internal/core"
	"cellrules/internal/rewrite"
)

// ErrUnknownFormat reports a file extension with no registered codec.
var ErrUnknownFormat = errors.New("unknown level format")

// Codec reads and writes a pack in one on-disk format.
type Codec interface {
	Decode(filename string, data []byte) (*Pack, error)
	Encode(p *Pack) ([]byte, error)
}

var codecs = map[string]Codec{}

// Register adds a codec for the given file extension, e.g. ".yaml".
func Register(ext string, c Codec) {
	if ext == "" || c == nil {
		return
	}
	codecs[strings.ToLower(ext)] = c
}

// Formats lists the registered extensions.
func Formats() []string {
	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// CodecFor picks the codec registered for path's extension. A bare format
// name such as "hcl" is accepted too.
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = "." + strings.ToLower(path)
	}
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, ext, strings.Join(Formats(), ", "))
	}
	return c, nil
}

// Load reads and validates the pack at path.
func Load(path string) (*Pack, error) {
	c, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level pack: %w", err)
	}
	p, err := c.Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// Save encodes p with the codec matching path's extension and writes it.
func Save(path string, p *Pack) error {
	c, err := CodecFor(path)
	if err != nil {
		return err
	}
	data, err := c.Encode(p)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write level pack: %w", err)
	}
	return nil
}

// RuleDoc is the serialized form of a rule: three pattern rows and a
// one-symbol replacement.
type RuleDoc struct {
	Pattern []string `yaml:"pattern" json:"pattern"`
	Replace string   `yaml:"replace" json:"replace"`
	Locked  bool     `yaml:"locked,omitempty" json:"locked,omitempty"`
}

// LevelDoc is the serialized form of a level.
type LevelDoc struct {
	ID       int       `yaml:"id"`
	Name     string    `yaml:"name,omitempty"`
	Hint     string    `yaml:"hint,omitempty"`
	Start    []string  `yaml:"start"`
	Goal     []string  `yaml:"goal"`
	Rules    []RuleDoc `yaml:"rules"`
	Solution []RuleDoc `yaml:"solution,omitempty"`
}

// PackDoc is the serialized form of a pack.
type PackDoc struct {
	Name   string     `yaml:"name,omitempty"`
	Levels []LevelDoc `yaml:"levels"`
}

// EncodeRules converts rules to their serialized form.
func EncodeRules(rules []rewrite.Rule) []RuleDoc {
	if len(rules) == 0 {
		return nil
	}
	docs := make([]RuleDoc, len(rules))
	for i, r := range rules {
		docs[i] = RuleDoc{
			Pattern: r.Pattern.Rows(),
			Replace: string([]byte{byte(r.Replace)}),
			Locked:  r.Locked,
		}
	}
	return docs
}

// DecodeRules parses serialized rules.
func DecodeRules(docs []RuleDoc) ([]rewrite.Rule, error) {
	rules := make([]rewrite.Rule, 0, len(docs))
	for i, d := range docs {
		p, err := rewrite.ParsePatternRows(d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		r, err := rewrite.ParseSymbol(d.Replace)
		if err != nil {
			return nil, fmt.Errorf("rule %d replace: %w", i, err)
		}
		rules = append(rules, rewrite.Rule{Pattern: p, Replace: r, Locked: d.Locked})
	}
	return rules, nil
}

func toDoc(p *Pack) PackDoc {
	doc := PackDoc{Name: p.Name, Levels: make([]LevelDoc, len(p.Levels))}
	for i, l := range p.Levels {
		doc.Levels[i] = LevelDoc{
			ID:       l.ID,
			Name:     l.Name,
			Hint:     l.Hint,
			Start:    l.Start.Rows(),
			Goal:     l.Goal.Rows(),
			Rules:    EncodeRules(l.Auto.Rules()),
			Solution: EncodeRules(l.Solution),
		}
	}
	return doc
}

func fromDoc(doc PackDoc) (*Pack, error) {
	p := &Pack{Name: doc.Name, Levels: make([]*Level, 0, len(doc.Levels))}
	for _, d := range doc.Levels {
		l, err := levelFromDoc(d)
		if err != nil {
			return nil, err
		}
		p.Levels = append(p.Levels, l)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func levelFromDoc(d LevelDoc) (*Level, error) {
	wrap := func(what string, err error) error {
		return fmt.Errorf("%w %d: %s: %w", ErrInvalidLevel, d.ID, what, err)
	}
	start, err := core.ParseGrid(d.Start)
	if err != nil {
		return nil, wrap("start", err)
	}
	goal, err := core.ParseGrid(d.Goal)
	if err != nil {
		return nil, wrap("goal", err)
	}
	rules, err := DecodeRules(d.Rules)
	if err != nil {
		return nil, wrap("rules", err)
	}
	solution, err := DecodeRules(d.Solution)
	if err != nil {
		return nil, wrap("solution", err)
	}
	l := New(d.ID, start, goal, rules...)
	l.Name = d.Name
	l.Hint = d.Hint
	if len(solution) > 0 {
		l.Solution = solution
	}
	return l, nil
}
