package channels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Kind tags the shape of a payload Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a schema-less JSON value. Object members keep document order so
// that searches over the tree are deterministic.
type Node struct {
	Kind    Kind
	Str     string // string value, or the literal text of a number
	Bool    bool
	Members []Member
	Items   []*Node
}

// Get returns the first member named key, or nil. Safe on nil and non-object nodes.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	for _, m := range n.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Path follows a chain of object keys.
func (n *Node) Path(keys ...string) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Get(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Truthy mirrors script truthiness: null, false, 0 and "" are false;
// objects and arrays are always true.
func (n *Node) Truthy() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindNumber:
		f, err := json.Number(n.Str).Float64()
		return err == nil && f != 0
	case KindString:
		return n.Str != ""
	case KindObject, KindArray:
		return true
	}
	return false
}

// Field returns the first truthy member among keys, or nil.
func (n *Node) Field(keys ...string) *Node {
	for _, k := range keys {
		if v := n.Get(k); v.Truthy() {
			return v
		}
	}
	return nil
}

// Find walks the tree depth-first in document order and returns the first
// object node for which match reports true. It uses an explicit stack, so
// deeply nested payloads cannot exhaust the goroutine stack.
func Find(root *Node, match func(*Node) bool) *Node {
	if root == nil {
		return nil
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch cur.Kind {
		case KindObject:
			if match(cur) {
				return cur
			}
			for i := len(cur.Members) - 1; i >= 0; i-- {
				if v := cur.Members[i].Value; v.Kind == KindObject || v.Kind == KindArray {
					stack = append(stack, v)
				}
			}
		case KindArray:
			for i := len(cur.Items) - 1; i >= 0; i-- {
				if v := cur.Items[i]; v.Kind == KindObject || v.Kind == KindArray {
					stack = append(stack, v)
				}
			}
		}
	}
	return nil
}

// HasKey returns a Find predicate matching objects with a truthy member key.
func HasKey(keys ...string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Field(keys...) != nil
	}
}

// TextOf reads a display text node: a plain string, {simpleText}, or
// {runs:[{text}...]} concatenated in order. Anything else is "".
func TextOf(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindString:
		return n.Str
	case KindObject:
		if st := n.Get("simpleText"); st.Truthy() {
			if st.Kind == KindString {
				return st.Str
			}
			return ""
		}
		runs := n.Get("runs")
		if runs == nil || runs.Kind != KindArray {
			return ""
		}
		var buf bytes.Buffer
		for _, r := range runs.Items {
			if t := r.Get("text"); t != nil && t.Kind == KindString {
				buf.WriteString(t.Str)
			}
		}
		return buf.String()
	}
	return ""
}

// ParseNode decodes a single JSON document into an ordered Node tree.
func ParseNode(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return n, nil
}

func decodeNode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &Node{Kind: KindObject}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key: unexpected %v", kt)
				}
				val, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.Members = append(n.Members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &Node{Kind: KindArray}
			for dec.More() {
				val, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.Items = append(n.Items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return &Node{Kind: KindString, Str: v}, nil
	case json.Number:
		return &Node{Kind: KindNumber, Str: v.String()}, nil
	case bool:
		return &Node{Kind: KindBool, Bool: v}, nil
	case nil:
		return &Node{Kind: KindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// nodeFromValue converts a generically decoded value (maps, slices, scalars)
// into a Node. Map keys carry no order, so members are sorted by key.
func nodeFromValue(v any) *Node {
	switch t := v.(type) {
	case nil:
		return &Node{Kind: KindNull}
	case bool:
		return &Node{Kind: KindBool, Bool: t}
	case string:
		return &Node{Kind: KindString, Str: t}
	case float64:
		return &Node{Kind: KindNumber, Str: strconv.FormatFloat(t, 'f', -1, 64)}
	case json.Number:
		return &Node{Kind: KindNumber, Str: t.String()}
	case []any:
		n := &Node{Kind: KindArray, Items: make([]*Node, 0, len(t))}
		for _, it := range t {
			n.Items = append(n.Items, nodeFromValue(it))
		}
		return n
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &Node{Kind: KindObject, Members: make([]Member, 0, len(t))}
		for _, k := range keys {
			n.Members = append(n.Members, Member{Key: k, Value: nodeFromValue(t[k])})
		}
		return n
	}
	return &Node{Kind: KindString, Str: fmt.Sprint(v)}
}
