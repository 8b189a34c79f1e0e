package nbt

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML carries NBT types as local tags so that a tree survives a text round
// trip unchanged:
//
//	!byte 1   !short 1   !int 1   !long 1   !float 1.5   !double 1.5
//	!bytes AAEC          (base64)
//	!ints [1, 2]         !longs [1, 2]
//	!list:short [1, 2]   (untagged items take the element type)
//	!compound {a: !int 1}
//
// Untagged values are inferred the same way FromJSON infers them. The
// document root is a single-key mapping holding the root name and value.
const listTagPrefix = "!list:"

// FromYAML converts a typed YAML document into a named tag.
func FromYAML(data []byte) (Tag, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Tag{}, err
	}
	root := documentRoot(&doc)
	if root == nil {
		return Tag{}, fmt.Errorf("yaml input is empty")
	}
	if root.Kind != yaml.MappingNode || len(root.Content) != 2 {
		return Tag{}, fmt.Errorf("yaml root must be a single-key mapping of name to value")
	}
	return tagFromYAML(root.Content[0].Value, root.Content[1], TypeEnd, 0)
}

// fromYAMLDocument converts any YAML (or JSON) value into a tag named name.
func fromYAMLDocument(name string, data []byte) (Tag, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Tag{}, err
	}
	root := documentRoot(&doc)
	if root == nil {
		return Tag{}, fmt.Errorf("input is empty")
	}
	return tagFromYAML(name, root, TypeEnd, 0)
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == 0 {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

// tagFromYAML converts n. want is the element type imposed by an enclosing
// typed list, or TypeEnd when the type comes from n itself.
func tagFromYAML(name string, n *yaml.Node, want TagType, depth int) (Tag, error) {
	if depth > MaxDepth {
		return Tag{}, fmt.Errorf("yaml nesting deeper than %d", MaxDepth)
	}
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	tag := n.ShortTag()
	explicit := !strings.HasPrefix(tag, "!!")
	typ := TypeEnd
	var elem TagType
	if explicit {
		var err error
		typ, elem, err = parseYAMLTag(tag)
		if err != nil {
			return Tag{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if want != TypeEnd && typ != want {
			return Tag{}, fmt.Errorf("line %d: %w: %s in list of %s", n.Line, ErrElementType, typ, want)
		}
	} else if want != TypeEnd {
		typ = want
	}
	if typ == TypeEnd {
		return inferYAML(name, n, tag, depth)
	}
	return typedYAML(name, n, typ, elem, explicit, depth)
}

func parseYAMLTag(tag string) (TagType, TagType, error) {
	if strings.HasPrefix(tag, listTagPrefix) {
		elem, err := ParseTagType(strings.TrimPrefix(tag, listTagPrefix))
		if err != nil {
			return 0, 0, err
		}
		return TypeList, elem, nil
	}
	if tag == "!list" {
		return TypeList, TypeEnd, nil
	}
	typ, err := ParseTagType(strings.TrimPrefix(tag, "!"))
	if err != nil {
		return 0, 0, err
	}
	if typ == TypeEnd {
		return 0, 0, fmt.Errorf("%w: %s cannot be written as a value", ErrUnknownType, tag)
	}
	return typ, TypeEnd, nil
}

func inferYAML(name string, n *yaml.Node, tag string, depth int) (Tag, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return compoundFromYAML(name, n, depth)
	case yaml.SequenceNode:
		items := make([]Tag, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := tagFromYAML("", c, TypeEnd, depth+1)
			if err != nil {
				return Tag{}, err
			}
			items = append(items, item)
		}
		return inferList(name, items)
	}
	switch tag {
	case "!!null":
		return Tag{}, fmt.Errorf("line %d: null at %q has no nbt form", n.Line, name)
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return Tag{}, err
		}
		return boolTag(name, v), nil
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			var u uint64
			if u, err = strconv.ParseUint(n.Value, 0, 64); err == nil {
				return NewDouble(name, float64(u)), nil
			}
			var f float64
			if derr := n.Decode(&f); derr == nil {
				return NewDouble(name, f), nil
			}
			return Tag{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return intTag(name, v), nil
	case "!!float":
		v, err := parseYAMLFloat(n.Value, 64)
		if err != nil {
			return Tag{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return NewDouble(name, v), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(compactBase64(n.Value))
		if err != nil {
			return Tag{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return NewByteArray(name, b), nil
	default:
		return stringTag(name, n.Value), nil
	}
}

func typedYAML(name string, n *yaml.Node, typ, elem TagType, explicit bool, depth int) (Tag, error) {
	t := Tag{Name: name, Type: typ}
	switch typ {
	case TypeByte, TypeShort, TypeInt, TypeLong:
		if n.Kind != yaml.ScalarNode {
			return Tag{}, fmt.Errorf("line %d: %s needs a scalar", n.Line, typ)
		}
		if n.ShortTag() == "!!bool" && !explicit {
			var v bool
			if err := n.Decode(&v); err != nil {
				return Tag{}, err
			}
			t = boolTag(name, v)
			t.Type = typ
			return t, nil
		}
		v, err := strconv.ParseInt(n.Value, 0, intBits(typ))
		if err != nil {
			return Tag{}, fmt.Errorf("line %d: %s: %w", n.Line, typ, err)
		}
		t.I64 = v
	case TypeFloat, TypeDouble:
		if n.Kind != yaml.ScalarNode {
			return Tag{}, fmt.Errorf("line %d: %s needs a scalar", n.Line, typ)
		}
		bits := 64
		if typ == TypeFloat {
			bits = 32
		}
		v, err := parseYAMLFloat(n.Value, bits)
		if err != nil {
			return Tag{}, fmt.Errorf("line %d: %s: %w", n.Line, typ, err)
		}
		t.F64 = v
	case TypeString:
		if n.Kind != yaml.ScalarNode {
			return Tag{}, fmt.Errorf("line %d: %s needs a scalar", n.Line, typ)
		}
		t.Str = n.Value
	case TypeByteArray:
		if n.Kind == yaml.SequenceNode {
			for _, c := range n.Content {
				v, err := strconv.ParseInt(c.Value, 0, 8)
				if err != nil {
					return Tag{}, fmt.Errorf("line %d: %s: %w", c.Line, typ, err)
				}
				t.Bytes = append(t.Bytes, byte(int8(v)))
			}
			break
		}
		b, err := base64.StdEncoding.DecodeString(compactBase64(n.Value))
		if err != nil {
			return Tag{}, fmt.Errorf("line %d: %s: %w", n.Line, typ, err)
		}
		t.Bytes = b
	case TypeIntArray, TypeLongArray:
		if n.Kind != yaml.SequenceNode {
			return Tag{}, fmt.Errorf("line %d: %s needs a sequence", n.Line, typ)
		}
		bits := 32
		if typ == TypeLongArray {
			bits = 64
		}
		for _, c := range n.Content {
			v, err := strconv.ParseInt(c.Value, 0, bits)
			if err != nil {
				return Tag{}, fmt.Errorf("line %d: %s: %w", c.Line, typ, err)
			}
			if bits == 32 {
				t.Ints = append(t.Ints, int32(v))
			} else {
				t.Longs = append(t.Longs, v)
			}
		}
	case TypeList:
		if n.Kind != yaml.SequenceNode {
			return Tag{}, fmt.Errorf("line %d: %s needs a sequence", n.Line, typ)
		}
		if elem == TypeEnd {
			// "!list" without an element type: infer from the items.
			inferred, err := inferYAML(name, n, "!!seq", depth)
			if err != nil {
				return Tag{}, err
			}
			return inferred, nil
		}
		t.Elem = elem
		t.List = make([]Tag, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := tagFromYAML("", c, elem, depth+1)
			if err != nil {
				return Tag{}, err
			}
			t.List = append(t.List, item)
		}
	case TypeCompound:
		return compoundFromYAML(name, n, depth)
	}
	return t, nil
}

func compoundFromYAML(name string, n *yaml.Node, depth int) (Tag, error) {
	if n.Kind != yaml.MappingNode {
		return Tag{}, fmt.Errorf("line %d: %s needs a mapping", n.Line, TypeCompound)
	}
	c := NewCompoundMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		child, err := tagFromYAML(n.Content[i].Value, n.Content[i+1], TypeEnd, depth+1)
		if err != nil {
			return Tag{}, err
		}
		c.Set(child)
	}
	return Tag{Name: name, Type: TypeCompound, Compound: c}, nil
}

func intBits(typ TagType) int {
	switch typ {
	case TypeByte:
		return 8
	case TypeShort:
		return 16
	case TypeInt:
		return 32
	default:
		return 64
	}
}

func parseYAMLFloat(s string, bits int) (float64, error) {
	switch strings.ToLower(s) {
	case ".nan":
		return math.NaN(), nil
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, bits)
}

func compactBase64(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}

// ToYAML renders t as a typed YAML document that FromYAML reads back into an
// equal tree.
func ToYAML(t Tag) ([]byte, error) {
	val, err := yamlNode(t)
	if err != nil {
		return nil, err
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{strNode(t.Name), val}}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	return yaml.Marshal(doc)
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatYAMLFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

// yamlNode renders the payload of t; explicit type tags are emitted only
// where the value is not already typed by an enclosing list.
func yamlNode(t Tag) (*yaml.Node, error) {
	return yamlNodeIn(t, TypeEnd)
}

func yamlNodeIn(t Tag, elem TagType) (*yaml.Node, error) {
	tag := func(name string) string {
		if elem != TypeEnd {
			return ""
		}
		return "!" + name
	}
	switch t.Type {
	case TypeEnd:
		return scalarNode("!!null", "null"), nil
	case TypeByte, TypeShort, TypeInt, TypeLong:
		return scalarNode(tag(t.Type.ShortName()), strconv.FormatInt(t.I64, 10)), nil
	case TypeFloat:
		return scalarNode(tag("float"), formatYAMLFloat(t.F64, 32)), nil
	case TypeDouble:
		return scalarNode(tag("double"), formatYAMLFloat(t.F64, 64)), nil
	case TypeString:
		if elem == TypeEnd && strings.HasPrefix(t.Str, "b64:") {
			// Untagged, this would read back as a byte array.
			return scalarNode("!string", t.Str), nil
		}
		return strNode(t.Str), nil
	case TypeByteArray:
		return scalarNode(tag("bytes"), base64.StdEncoding.EncodeToString(t.Bytes)), nil
	case TypeIntArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tag("ints"), Style: yaml.FlowStyle}
		for _, v := range t.Ints {
			n.Content = append(n.Content, scalarNode("", strconv.FormatInt(int64(v), 10)))
		}
		return n, nil
	case TypeLongArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tag("longs"), Style: yaml.FlowStyle}
		for _, v := range t.Longs {
			n.Content = append(n.Content, scalarNode("", strconv.FormatInt(v, 10)))
		}
		return n, nil
	case TypeList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: listTagPrefix + t.Elem.ShortName()}
		if len(t.List) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, item := range t.List {
			c, err := yamlNodeIn(item, t.Elem)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case TypeCompound:
		n := &yaml.Node{Kind: yaml.MappingNode}
		if t.Compound.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		for name, child := range t.Compound.All() {
			c, err := yamlNodeIn(child, TypeEnd)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, strNode(name), c)
		}
		return n, nil
	default:
		return nil, formatErr(t, ErrUnknownType, "type code %d", uint8(t.Type))
	}
}
