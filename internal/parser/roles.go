package parser

import "sync"

// Role is a named structural slot that may hold zero, one or many children
type Role struct {
	Name string
	// Ambiguous roles hold a single node for some kinds and a list for others
	Ambiguous bool

	get func(*Node) Slot
}

// Get resolves the role against n
func (r Role) Get(n *Node) Slot {
	return r.get(n)
}

// RoleChild is a child node together with the role it was found under
type RoleChild struct {
	Role string
	Node *Node
}

func single(f func(*Node) *Node) func(*Node) Slot {
	return func(n *Node) Slot { return One(f(n)) }
}

func list(f func(*Node) []*Node) func(*Node) Slot {
	return func(n *Node) Slot {
		nodes := f(n)
		if nodes == nil {
			return Slot{}
		}
		return Many(nodes)
	}
}

// catalog is the fixed set of child roles shared by every node kind
var catalog = []Role{
	{Name: "decorators", get: list(func(n *Node) []*Node { return n.Decorators })},
	{Name: "id", get: single(func(n *Node) *Node { return n.ID })},
	{Name: "key", get: single(func(n *Node) *Node { return n.Key })},
	{Name: "name", get: single(func(n *Node) *Node { return n.NameNode })},
	{Name: "label", get: single(func(n *Node) *Node { return n.Label })},
	{Name: "typeName", get: single(func(n *Node) *Node { return n.TypeName })},
	{Name: "typeParameters", get: single(func(n *Node) *Node { return n.TypeParameters })},
	{Name: "params", get: list(func(n *Node) []*Node { return n.Params })},
	{Name: "param", get: single(func(n *Node) *Node { return n.Param })},
	{Name: "returnType", get: single(func(n *Node) *Node { return n.ReturnType })},
	{Name: "superClass", get: single(func(n *Node) *Node { return n.SuperClass })},
	{Name: "implements", get: list(func(n *Node) []*Node { return n.Implements })},
	{Name: "extends", Ambiguous: true, get: func(n *Node) Slot { return n.Extends }},
	{Name: "constraint", get: single(func(n *Node) *Node { return n.Constraint })},
	{Name: "default", get: single(func(n *Node) *Node { return n.Default })},
	{Name: "declarations", get: list(func(n *Node) []*Node { return n.Declarations })},
	{Name: "declaration", get: single(func(n *Node) *Node { return n.Declaration })},
	{Name: "specifiers", get: list(func(n *Node) []*Node { return n.Specifiers })},
	{Name: "imported", get: single(func(n *Node) *Node { return n.Imported })},
	{Name: "local", get: single(func(n *Node) *Node { return n.Local })},
	{Name: "exported", get: single(func(n *Node) *Node { return n.Exported })},
	{Name: "source", get: single(func(n *Node) *Node { return n.Source })},
	{Name: "init", get: single(func(n *Node) *Node { return n.Init })},
	{Name: "discriminant", get: single(func(n *Node) *Node { return n.Discriminant })},
	{Name: "cases", get: list(func(n *Node) []*Node { return n.Cases })},
	{Name: "test", get: single(func(n *Node) *Node { return n.Test })},
	{Name: "update", get: single(func(n *Node) *Node { return n.Update })},
	{Name: "left", get: single(func(n *Node) *Node { return n.Left })},
	{Name: "right", get: single(func(n *Node) *Node { return n.Right })},
	{Name: "block", get: single(func(n *Node) *Node { return n.Block })},
	{Name: "handler", get: single(func(n *Node) *Node { return n.Handler })},
	{Name: "finalizer", get: single(func(n *Node) *Node { return n.Finalizer })},
	{Name: "tag", get: single(func(n *Node) *Node { return n.Tag })},
	{Name: "quasi", get: single(func(n *Node) *Node { return n.Quasi })},
	{Name: "callee", get: single(func(n *Node) *Node { return n.Callee })},
	{Name: "object", get: single(func(n *Node) *Node { return n.Object })},
	{Name: "property", get: single(func(n *Node) *Node { return n.Property })},
	{Name: "arguments", get: list(func(n *Node) []*Node { return n.Arguments })},
	{Name: "argument", get: single(func(n *Node) *Node { return n.Argument })},
	{Name: "expression", get: single(func(n *Node) *Node { return n.Expression })},
	{Name: "properties", get: list(func(n *Node) []*Node { return n.Properties })},
	{Name: "elements", get: list(func(n *Node) []*Node { return n.Elements })},
	{Name: "quasis", get: list(func(n *Node) []*Node { return n.Quasis })},
	{Name: "expressions", get: list(func(n *Node) []*Node { return n.Expressions })},
	{Name: "value", get: single(func(n *Node) *Node { return n.ValueNode })},
	{Name: "typeAnnotation", get: single(func(n *Node) *Node { return n.TypeAnnotation })},
	{Name: "types", get: list(func(n *Node) []*Node { return n.Types })},
	{Name: "members", get: list(func(n *Node) []*Node { return n.Members })},
	{Name: "initializer", get: single(func(n *Node) *Node { return n.Initializer })},
	{Name: "openingElement", get: single(func(n *Node) *Node { return n.OpeningElement })},
	{Name: "attributes", get: list(func(n *Node) []*Node { return n.Attributes })},
	{Name: "children", get: list(func(n *Node) []*Node { return n.Children })},
	{Name: "closingElement", get: single(func(n *Node) *Node { return n.ClosingElement })},
	{Name: "consequent", Ambiguous: true, get: func(n *Node) Slot { return n.Consequent }},
	{Name: "alternate", get: single(func(n *Node) *Node { return n.Alternate })},
	{Name: "body", Ambiguous: true, get: func(n *Node) Slot { return n.Body }},
}

// schema lists, per node kind, the roles that kind may populate in source
// order. Kinds absent from the table carry no children.
var schema = map[NodeType][]string{
	NodeProgram: {"body"},

	NodeExpressionStatement: {"expression"},
	NodeBlockStatement:      {"body"},
	NodeReturnStatement:     {"argument"},
	NodeThrowStatement:      {"argument"},
	NodeLabeledStatement:    {"label", "body"},
	NodeBreakStatement:      {"label"},
	NodeContinueStatement:   {"label"},
	NodeIfStatement:         {"test", "consequent", "alternate"},
	NodeSwitchStatement:     {"discriminant", "cases"},
	NodeSwitchCase:          {"test", "consequent"},
	NodeTryStatement:        {"block", "handler", "finalizer"},
	NodeCatchClause:         {"param", "body"},
	NodeWhileStatement:      {"test", "body"},
	NodeDoWhileStatement:    {"body", "test"},
	NodeForStatement:        {"init", "test", "update", "body"},
	NodeForInStatement:      {"left", "right", "body"},
	NodeForOfStatement:      {"left", "right", "body"},

	NodeFunctionDeclaration: {"typeParameters", "params", "returnType", "body"},
	NodeFunctionExpression:  {"typeParameters", "params", "returnType", "body"},
	NodeArrowFunctionExpression: {
		"typeParameters", "params", "returnType", "body",
	},
	NodeVariableDeclaration: {"declarations"},
	NodeVariableDeclarator:  {"id", "typeAnnotation", "init"},
	NodeClassDeclaration: {
		"decorators", "typeParameters", "superClass", "implements", "body",
	},
	NodeClassExpression: {
		"decorators", "typeParameters", "superClass", "implements", "body",
	},
	NodeClassBody:          {"body"},
	NodeMethodDefinition:   {"decorators", "key", "typeParameters", "params", "returnType", "body"},
	NodePropertyDefinition: {"decorators", "key", "typeAnnotation", "value"},
	NodeStaticBlock:        {"body"},
	NodeFormalParameter:    {"decorators", "typeAnnotation", "default"},
	NodeDecorator:          {"expression"},

	NodeImportDeclaration:        {"specifiers", "source"},
	NodeImportSpecifier:          {"imported", "local"},
	NodeImportDefaultSpecifier:   {"local"},
	NodeImportNamespaceSpecifier: {"local"},
	NodeExportNamedDeclaration:   {"declaration", "specifiers", "source"},
	NodeExportDefaultDeclaration: {"declaration"},
	NodeExportAllDeclaration:     {"exported", "source"},
	NodeExportSpecifier:          {"local", "exported"},

	NodeTemplateLiteral:          {"quasis", "expressions"},
	NodeTaggedTemplateExpression: {"tag", "typeParameters", "quasi"},
	NodeArrayExpression:          {"elements"},
	NodeObjectExpression:         {"properties"},
	NodeProperty:                 {"key", "value"},
	NodeSpreadElement:            {"argument"},
	NodeCallExpression:           {"callee", "typeParameters", "arguments"},
	NodeNewExpression:            {"callee", "typeParameters", "arguments"},
	NodeMemberExpression:         {"object", "property"},
	NodeUnaryExpression:          {"argument"},
	NodeUpdateExpression:         {"argument"},
	NodeBinaryExpression:         {"left", "right"},
	NodeLogicalExpression:        {"left", "right"},
	NodeAssignmentExpression:     {"left", "right"},
	NodeConditionalExpression:    {"test", "consequent", "alternate"},
	NodeSequenceExpression:       {"expressions"},
	NodeAwaitExpression:          {"argument"},
	NodeYieldExpression:          {"argument"},
	NodeImportExpression:         {"source"},

	NodeJSXElement:             {"openingElement", "children", "closingElement"},
	NodeJSXOpeningElement:      {"name", "typeParameters", "attributes"},
	NodeJSXClosingElement:      {"name"},
	NodeJSXFragment:            {"children"},
	NodeJSXAttribute:           {"name", "value"},
	NodeJSXSpreadAttribute:     {"argument"},
	NodeJSXMemberExpression:    {"object", "property"},
	NodeJSXExpressionContainer: {"expression"},
	NodeJSXSpreadChild:         {"expression"},

	NodeTSTypeAliasDeclaration:       {"typeParameters", "typeAnnotation"},
	NodeTSInterfaceDeclaration:       {"typeParameters", "extends", "body"},
	NodeTSInterfaceBody:              {"body"},
	NodeTSInterfaceHeritage:          {"expression", "typeParameters"},
	NodeTSPropertySignature:          {"key", "typeAnnotation"},
	NodeTSMethodSignature:            {"key", "typeParameters", "params", "returnType"},
	NodeTSEnumDeclaration:            {"members"},
	NodeTSEnumMember:                 {"id", "initializer"},
	NodeTSTypeAnnotation:             {"typeAnnotation"},
	NodeTSTypeReference:              {"typeName", "typeParameters"},
	NodeTSTypeParameter:              {"constraint", "default"},
	NodeTSTypeParameterDeclaration:   {"params"},
	NodeTSTypeParameterInstantiation: {"params"},
	NodeTSUnionType:                  {"types"},
	NodeTSIntersectionType:           {"types"},
	NodeTSTypeLiteral:                {"members"},
	NodeTSAsExpression:               {"expression", "typeAnnotation"},
	NodeTSSatisfiesExpression:        {"expression", "typeAnnotation"},
	NodeTSNonNullExpression:          {"expression"},
	NodeTSTypeAssertion:              {"typeAnnotation", "expression"},
}

var (
	roleIndexOnce sync.Once
	roleIndex     map[string]int
	kindRoles     map[NodeType][]Role
)

func buildRoleTables() {
	roleIndex = make(map[string]int, len(catalog))
	for i, r := range catalog {
		roleIndex[r.Name] = i
	}
	kindRoles = make(map[NodeType][]Role, len(schema))
	for kind, names := range schema {
		roles := make([]Role, 0, len(names))
		for _, name := range names {
			idx, ok := roleIndex[name]
			if !ok {
				panic("parser: schema for " + string(kind) + " names unknown role " + name)
			}
			roles = append(roles, catalog[idx])
		}
		kindRoles[kind] = roles
	}
}

// Catalog returns the full child-role catalog
func Catalog() []Role {
	out := make([]Role, len(catalog))
	copy(out, catalog)
	return out
}

// RoleByName looks up a catalog role
func RoleByName(name string) (Role, bool) {
	roleIndexOnce.Do(buildRoleTables)
	idx, ok := roleIndex[name]
	if !ok {
		return Role{}, false
	}
	return catalog[idx], true
}

// RolesOf returns the role names a node kind may populate, in source order
func RolesOf(kind NodeType) []string {
	roleIndexOnce.Do(buildRoleTables)
	roles := kindRoles[kind]
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

func rolesFor(kind NodeType) []Role {
	roleIndexOnce.Do(buildRoleTables)
	return kindRoles[kind]
}

// resolve appends the nodes held by slot. Ambiguous slots are probed as a
// list first and as a single node second; nil entries are skipped.
func resolve(dst []*Node, slot Slot) []*Node {
	if nodes, ok := slot.List(); ok {
		for _, c := range nodes {
			if c != nil {
				dst = append(dst, c)
			}
		}
		return dst
	}
	if c, ok := slot.Single(); ok && c != nil {
		dst = append(dst, c)
	}
	return dst
}

// Children returns the direct structural children of n in schema order
func Children(n *Node) []RoleChild {
	if n == nil {
		return nil
	}
	var out []RoleChild
	var buf []*Node
	for _, r := range rolesFor(n.Type) {
		buf = resolve(buf[:0], r.get(n))
		for _, c := range buf {
			out = append(out, RoleChild{Role: r.Name, Node: c})
		}
	}
	return out
}

// childNodes appends the direct children of n to dst without role names
func childNodes(dst []*Node, n *Node) []*Node {
	for _, r := range rolesFor(n.Type) {
		dst = resolve(dst, r.get(n))
	}
	return dst
}
