package tinylang

import (
	"reflect"
	"strings"
)

// Dump converts a node into maps and slices for debug traces and queries.
// The "node" key holds the node type name.
func Dump(node Node) map[string]any {
	value := reflect.ValueOf(node).Elem()
	typ := value.Type()
	ret := map[string]any{
		"node":  typ.Name(),
		"token": DumpToken(node.Token()),
	}
	for i := range typ.NumField() {
		field := typ.Field(i)
		if field.Anonymous || !field.IsExported() {
			continue
		}
		ret[strings.ToLower(field.Name)] = dumpValue(value.Field(i).Interface())
	}
	return ret
}

func DumpToken(tok Token) map[string]any {
	return map[string]any{
		"kind":     tok.Kind.String(),
		"literal":  tok.Literal,
		"location": tok.Location.String(),
	}
}

func dumpValue(v any) any {
	switch v := v.(type) {
	case Node:
		return Dump(v)
	case Token:
		return DumpToken(v)
	case []Node:
		ret := make([]any, 0, len(v))
		for _, node := range v {
			ret = append(ret, Dump(node))
		}
		return ret
	case []Token:
		ret := make([]any, 0, len(v))
		for _, tok := range v {
			ret = append(ret, DumpToken(tok))
		}
		return ret
	}
	return v
}
