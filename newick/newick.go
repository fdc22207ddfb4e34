/*
   Package newick parses and writes the Newick tree format,
   restricted to binary internal nodes
*/
package newick

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pythseq/hgtree/io"
	"github.com/pythseq/hgtree/tree"
)

// ErrParse marks malformed Newick input. A parse failure is
// fatal to the affected tree only; drivers reading multi-tree
// files continue with the next tree.
var ErrParse = errors.New("newick parse error")

// Parse reads one or more ';'-terminated trees from the input
// string. Whitespace between trees, before a subtree and
// before ',', ')', ':' or ';' is ignored; a node name must
// directly follow its ')' and a length its ':'. A missing
// branch length defaults to 0.0; an unparseable one defaults
// to 0.0 with a warning; structural errors abort the parse.
func Parse(s string) ([]*tree.Node, error) {
	p := &parser{input: s}
	trees := make([]*tree.Node, 0, 1)
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			break
		}
		root, err := p.subtree()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.accept(';') {
			return nil, fmt.Errorf("%w: expected ';' at offset %d", ErrParse, p.pos)
		}
		trees = append(trees, root)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: no tree found", ErrParse)
	}
	return trees, nil
}

// SplitTrees cuts a multi-tree Newick document into one string
// per tree, whitespace stripped and the terminating ';'
// restored. Empty fragments are dropped.
func SplitTrees(s string) []string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	parts := strings.Split(b.String(), ";")
	trees := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			trees = append(trees, part+";")
		}
	}
	return trees
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// subtree := internal | leaf
func (p *parser) subtree() (*tree.Node, error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		return p.internal()
	}
	return p.leaf()
}

// internal := '(' subtree ',' subtree ')' NAME? (':' LENGTH)?
func (p *parser) internal() (*tree.Node, error) {
	if !p.accept('(') {
		return nil, fmt.Errorf("%w: expected '(' at offset %d", ErrParse, p.pos)
	}
	left, err := p.subtree()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.accept(',') {
		return nil, fmt.Errorf("%w: expected ',' at offset %d", ErrParse, p.pos)
	}
	right, err := p.subtree()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ',' {
		return nil, fmt.Errorf("%w: multifurcation at offset %d, only binary internal nodes are supported", ErrParse, p.pos)
	}
	if !p.accept(')') {
		return nil, fmt.Errorf("%w: expected ')' at offset %d", ErrParse, p.pos)
	}
	n := tree.NewNode(p.name())
	n.Left = left
	n.Right = right
	n.Length = p.length()
	return n, nil
}

// leaf := NAME (':' LENGTH)?
func (p *parser) leaf() (*tree.Node, error) {
	p.skipSpace()
	name := p.name()
	if name == "" {
		return nil, fmt.Errorf("%w: expected a leaf name at offset %d", ErrParse, p.pos)
	}
	n := tree.NewNode(name)
	n.Length = p.length()
	return n, nil
}

// name reads the possibly empty label before ':', ',', ')', ';'
func (p *parser) name() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ':' || c == ',' || c == '(' || c == ')' || c == ';' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

// length reads the optional ':'-prefixed branch length. An
// unparseable length is reported and treated as 0.0.
func (p *parser) length() float64 {
	p.skipSpace()
	if !p.accept(':') {
		return 0.0
	}
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ',' || c == '(' || c == ')' || c == ';' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	val := p.input[start:p.pos]
	length, err := strconv.ParseFloat(val, 64)
	if err != nil {
		io.LogWarning("failed to parse branch length %q, defaulting to 0.0", val)
		return 0.0
	}
	return length
}

// WriteNewick renders the subtree rooted at n without the
// terminating ';'. Lengths are formatted to six decimal
// places; internal nodes as (left,right)name:length, leaves as
// name:length.
func WriteNewick(n *tree.Node) string {
	var buffer bytes.Buffer
	writeNewickRecur(n, &buffer)
	return buffer.String()
}

// String renders the tree rooted at n with the terminating ';'.
func String(n *tree.Node) string {
	return WriteNewick(n) + ";"
}

func writeNewickRecur(n *tree.Node, buffer *bytes.Buffer) {
	if n.Left != nil && n.Right != nil {
		buffer.WriteString("(")
		writeNewickRecur(n.Left, buffer)
		buffer.WriteString(",")
		writeNewickRecur(n.Right, buffer)
		buffer.WriteString(")")
	}
	buffer.WriteString(n.Name)
	buffer.WriteString(fmt.Sprintf(":%.6f", n.Length))
}
