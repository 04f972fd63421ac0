package level

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// hclPackFile is the top-level structure of an .hcl level pack:
//
//	name = "tutorial"
//	level "1" {
//	  start = ["x    ", ...]
//	  goal  = [".x   ", ...]
//	  rule {
//	    pattern = ["___", "_x_", "___"]
//	    replace = "."
//	  }
//	}
type hclPackFile struct {
	Name   string      `hcl:"name,optional"`
	Levels []*hclLevel `hcl:"level,block"`
}

type hclLevel struct {
	ID       string     `hcl:"id,label"`
	Name     string     `hcl:"name,optional"`
	Hint     string     `hcl:"hint,optional"`
	Start    []string   `hcl:"start"`
	Goal     []string   `hcl:"goal"`
	Rules    []*hclRule `hcl:"rule,block"`
	Solution []*hclRule `hcl:"solution,block"`
}

type hclRule struct {
	Pattern []string `hcl:"pattern"`
	Replace string   `hcl:"replace"`
	Locked  bool     `hcl:"locked,optional"`
}

type hclCodec struct{}

func (hclCodec) Decode(filename string, data []byte) (*Pack, error) {
	f, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}
	var parsed hclPackFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	doc := PackDoc{Name: parsed.Name, Levels: make([]LevelDoc, 0, len(parsed.Levels))}
	for _, l := range parsed.Levels {
		id, err := strconv.Atoi(l.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: label %q is not a numeric id", ErrInvalidLevel, l.ID)
		}
		doc.Levels = append(doc.Levels, LevelDoc{
			ID:       id,
			Name:     l.Name,
			Hint:     l.Hint,
			Start:    l.Start,
			Goal:     l.Goal,
			Rules:    hclRuleDocs(l.Rules),
			Solution: hclRuleDocs(l.Solution),
		})
	}
	return fromDoc(doc)
}

func hclRuleDocs(rules []*hclRule) []RuleDoc {
	docs := make([]RuleDoc, 0, len(rules))
	for _, r := range rules {
		docs = append(docs, RuleDoc{Pattern: r.Pattern, Replace: r.Replace, Locked: r.Locked})
	}
	return docs
}

func (hclCodec) Encode(p *Pack) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	if p.Name != "" {
		body.SetAttributeValue("name", cty.StringVal(p.Name))
	}
	for _, l := range toDoc(p).Levels {
		body.AppendNewline()
		lb := body.AppendNewBlock("level", []string{strconv.Itoa(l.ID)}).Body()
		if l.Name != "" {
			lb.SetAttributeValue("name", cty.StringVal(l.Name))
		}
		if l.Hint != "" {
			lb.SetAttributeValue("hint", cty.StringVal(l.Hint))
		}
		lb.SetAttributeValue("start", stringList(l.Start))
		lb.SetAttributeValue("goal", stringList(l.Goal))
		appendHCLRules(lb, "rule", l.Rules)
		appendHCLRules(lb, "solution", l.Solution)
	}
	return f.Bytes(), nil
}

func appendHCLRules(body *hclwrite.Body, kind string, rules []RuleDoc) {
	for _, r := range rules {
		body.AppendNewline()
		rb := body.AppendNewBlock(kind, nil).Body()
		rb.SetAttributeValue("pattern", stringList(r.Pattern))
		rb.SetAttributeValue("replace", cty.StringVal(r.Replace))
		if r.Locked {
			rb.SetAttributeValue("locked", cty.True)
		}
	}
}

func stringList(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func init() {
	Register(".hcl", hclCodec{})
}
