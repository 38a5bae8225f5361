package catalogue

import (
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// WriteYAML writes t as a sequence of mappings, one per row, keeping the
// column order
func WriteYAML(w io.Writer, t *Table) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, v := range row {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Columns[i].Name},
				yamlScalar(v))
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return skyerr.Wrap(err, "encoding YAML").WithCode(skyerr.CodeIO)
	}
	if err := enc.Close(); err != nil {
		return skyerr.Wrap(err, "encoding YAML").WithCode(skyerr.CodeIO)
	}
	return nil
}

func yamlScalar(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(x)}
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(x, 10)}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(x)}
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, e := range x {
			seq.Content = append(seq.Content, yamlScalar(e))
		}
		return seq
	default:
		n := &yaml.Node{}
		if err := n.Encode(x); err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: err.Error()}
		}
		return n
	}
}

// yamlFloat formats v so that it resolves back to a float
func yamlFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
