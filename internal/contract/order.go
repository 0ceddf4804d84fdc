package contract

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Declaration order of paths and responses matters: routing is first-match in
// declaration order, and response selection may fall back to the first
// declared response. The underlying parser exposes unordered maps, so the
// order is recovered from the raw YAML/JSON node tree instead.

type declOrder struct {
	paths     []string
	responses map[string]map[string][]string // template -> method -> status keys
}

// declarationOrder extracts the ordered path templates and per-operation
// response keys from raw description bytes. Returns nil when the bytes cannot
// be parsed; callers fall back to sorted order.
func declarationOrder(raw []byte) *declOrder {
	if len(raw) == 0 {
		return nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil
	}
	doc := documentNode(&root)
	if doc == nil {
		return nil
	}
	pathsNode := mappingValue(doc, "paths")
	if pathsNode == nil || pathsNode.Kind != yaml.MappingNode {
		return nil
	}

	ord := &declOrder{responses: make(map[string]map[string][]string)}
	forEachPair(pathsNode, func(template string, item *yaml.Node) {
		ord.paths = append(ord.paths, template)
		if item.Kind != yaml.MappingNode {
			return
		}
		byMethod := make(map[string][]string)
		forEachPair(item, func(method string, opNode *yaml.Node) {
			method = strings.ToLower(method)
			switch method {
			case "get", "post", "put", "delete", "patch", "head", "options", "trace":
			default:
				return
			}
			if opNode.Kind != yaml.MappingNode {
				return
			}
			respNode := mappingValue(opNode, "responses")
			if respNode == nil || respNode.Kind != yaml.MappingNode {
				return
			}
			var keys []string
			forEachPair(respNode, func(status string, _ *yaml.Node) {
				keys = append(keys, status)
			})
			byMethod[method] = keys
		})
		if len(byMethod) > 0 {
			ord.responses[template] = byMethod
		}
	})
	if len(ord.paths) == 0 {
		return nil
	}
	return ord
}

// responseOrder returns the declared response-key order for one operation,
// or nil when unknown.
func (o *declOrder) responseOrder(template string, method HTTPMethod) []string {
	if o == nil {
		return nil
	}
	byMethod, ok := o.responses[template]
	if !ok {
		return nil
	}
	return byMethod[string(method)]
}

func documentNode(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		return root
	}
	return nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func forEachPair(node *yaml.Node, fn func(key string, value *yaml.Node)) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		fn(node.Content[i].Value, node.Content[i+1])
	}
}
