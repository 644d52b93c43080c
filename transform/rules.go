package transform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/arnodel/arraystream"
	"github.com/arnodel/arraystream/encoding/json"
	"github.com/arnodel/arraystream/value"
)

// Rules describe edits to apply to each element.  Renames are applied first,
// then assignments, then deletions.  A rule file looks like this:
//
//	rename:
//	  name: title
//	set:
//	  _source.lexiconName: Core
//	  _source.lexiconOrder: 1
//	delete:
//	  - _source.draft
type Rules struct {
	Rename Renames     `yaml:"rename"`
	Set    Assignments `yaml:"set"`
	Delete []Path      `yaml:"delete"`
}

// An Assignment sets the member at Path to Value.
type Assignment struct {
	Path  Path
	Value value.Value
}

// A Rename moves the member at From to To.
type Rename struct {
	From Path
	To   Path
}

// Assignments unmarshal from a YAML mapping of paths to values, keeping the
// order of the mapping.
type Assignments []Assignment

// Renames unmarshal from a YAML mapping of paths to paths, keeping the order
// of the mapping.
type Renames []Rename

// LoadRules reads a rule file.
func LoadRules(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rules, err := ReadRules(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rules, nil
}

// ReadRules reads rules in YAML format.  Unknown sections are an error.
func ReadRules(r io.Reader) (*Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &rules, nil
}

// Merge appends the rules of other to r.
func (r *Rules) Merge(other *Rules) {
	if other == nil {
		return
	}
	r.Rename = append(r.Rename, other.Rename...)
	r.Set = append(r.Set, other.Set...)
	r.Delete = append(r.Delete, other.Delete...)
}

// Len returns the number of rules.
func (r *Rules) Len() int {
	return len(r.Rename) + len(r.Set) + len(r.Delete)
}

// Transform returns a transform applying all the rules to an element.
func (r *Rules) Transform() arraystream.TransformFunc {
	var fs []arraystream.TransformFunc
	fs = append(fs, lo.Map(r.Rename, func(rn Rename, _ int) arraystream.TransformFunc {
		return RenameMember(rn.From, rn.To)
	})...)
	fs = append(fs, lo.Map(r.Set, func(a Assignment, _ int) arraystream.TransformFunc {
		return Set(a.Path, a.Value)
	})...)
	fs = append(fs, lo.Map(r.Delete, func(p Path, _ int) arraystream.TransformFunc {
		return Delete(p)
	})...)
	return Chain(fs...)
}

// ParseAssignment parses "path=json", e.g. `_source.lexiconOrder=1` or
// `_source.lexiconName="Core"`.
func ParseAssignment(s string) (Assignment, error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, fmt.Errorf("invalid assignment %q: missing '='", s)
	}
	path, err := ParsePath(lhs)
	if err != nil {
		return Assignment{}, err
	}
	v, err := json.Unmarshal([]byte(rhs))
	if err != nil {
		return Assignment{}, fmt.Errorf("invalid assignment %q: %w", s, err)
	}
	return Assignment{Path: path, Value: v}, nil
}

// ParseRename parses "from=to".
func ParseRename(s string) (Rename, error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return Rename{}, fmt.Errorf("invalid rename %q: missing '='", s)
	}
	from, err := ParsePath(lhs)
	if err != nil {
		return Rename{}, err
	}
	to, err := ParsePath(rhs)
	if err != nil {
		return Rename{}, err
	}
	return Rename{From: from, To: to}, nil
}

func (p *Path) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}

func (as *Assignments) UnmarshalYAML(n *yaml.Node) error {
	return eachPair(n, func(k, v *yaml.Node) error {
		var a Assignment
		if err := a.Path.UnmarshalYAML(k); err != nil {
			return err
		}
		val, err := nodeValue(v)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", v.Line, a.Path, err)
		}
		a.Value = val
		*as = append(*as, a)
		return nil
	})
}

func (rs *Renames) UnmarshalYAML(n *yaml.Node) error {
	return eachPair(n, func(k, v *yaml.Node) error {
		var r Rename
		if err := r.From.UnmarshalYAML(k); err != nil {
			return err
		}
		if err := r.To.UnmarshalYAML(v); err != nil {
			return err
		}
		*rs = append(*rs, r)
		return nil
	})
}

func eachPair(n *yaml.Node, f func(k, v *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := f(n.Content[i], n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// nodeValue converts a YAML node to a JSON value, keeping the order of
// mappings and the text of numbers when it is valid JSON.
func nodeValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		arr := value.NewArray()
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := value.NewObject()
		err := eachPair(n, func(k, c *yaml.Node) error {
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: keys must be strings", k.Line)
			}
			v, err := nodeValue(c)
			if err != nil {
				return err
			}
			obj.Set(k.Value, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	}
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!int", "!!float":
		if num, err := value.ParseNumber(n.Value); err == nil {
			return num, nil
		}
		fallthrough
	case "!!bool":
		var x any
		if err := n.Decode(&x); err != nil {
			return nil, err
		}
		return value.FromGo(x)
	default:
		return value.String(n.Value), nil
	}
}
