package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

var predefinedTypes = map[string]NodeType{
	"any":       NodeTSAnyKeyword,
	"unknown":   NodeTSUnknownKeyword,
	"number":    NodeTSNumberKeyword,
	"string":    NodeTSStringKeyword,
	"boolean":   NodeTSBooleanKeyword,
	"bigint":    NodeTSBigIntKeyword,
	"symbol":    NodeTSSymbolKeyword,
	"object":    NodeTSObjectKeyword,
	"void":      NodeTSVoidKeyword,
	"never":     NodeTSNeverKeyword,
	"undefined": NodeTSUndefinedKeyword,
	"null":      NodeTSNullKeyword,
}

// buildTypeAnnotation builds ": T"
func (b *ASTBuilder) buildTypeAnnotation(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSTypeAnnotation, tsNode)
	node.TypeAnnotation = b.convertChild(b.firstNamed(tsNode))
	return node
}

// buildPredefinedType maps a builtin type keyword to its keyword node
func (b *ASTBuilder) buildPredefinedType(tsNode *sitter.Node) *Node {
	if kind, ok := predefinedTypes[b.text(tsNode)]; ok {
		return b.newNode(kind, tsNode)
	}
	return b.newNode(NodeTSType, tsNode)
}

// buildTypeAlias builds "type X<T> = ..."
func (b *ASTBuilder) buildTypeAlias(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSTypeAliasDeclaration, tsNode)
	node.Name = b.text(b.field(tsNode, "name"))
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_parameters"))
	node.TypeAnnotation = b.convertChild(b.field(tsNode, "value"))
	return node
}

// buildInterface builds an interface declaration
func (b *ASTBuilder) buildInterface(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSInterfaceDeclaration, tsNode)
	node.Name = b.text(b.field(tsNode, "name"))
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_parameters"))

	var heritage []*Node
	for _, clause := range b.namedChildrenOf(tsNode, "extends_type_clause", "extends_clause") {
		for _, t := range b.namedChildren(clause) {
			heritage = append(heritage, b.buildInterfaceHeritage(t))
		}
	}
	if heritage != nil {
		node.Extends = Many(heritage)
	}

	if body := b.field(tsNode, "body"); body != nil {
		iface := b.newNode(NodeTSInterfaceBody, body)
		iface.Body = Many(b.typeMembers(body))
		node.Body = One(iface)
	}
	return node
}

// buildInterfaceHeritage builds one entry of an interface extends list
func (b *ASTBuilder) buildInterfaceHeritage(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSInterfaceHeritage, tsNode)
	if tsNode.Type() == "generic_type" {
		if name := b.field(tsNode, "name"); name != nil {
			node.Expression = b.typeName(name)
		}
		node.TypeParameters = b.convertChild(b.field(tsNode, "type_arguments"))
		return node
	}
	node.Expression = b.typeName(tsNode)
	return node
}

// typeMembers converts the members of an interface body or type literal
func (b *ASTBuilder) typeMembers(tsNode *sitter.Node) []*Node {
	members := b.convertAll(b.namedChildren(tsNode))
	if members == nil {
		members = []*Node{}
	}
	return members
}

// buildTypeLiteral builds "{ a: T }" in type position
func (b *ASTBuilder) buildTypeLiteral(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSTypeLiteral, tsNode)
	node.Members = b.typeMembers(tsNode)
	return node
}

// buildPropertySignature builds an interface or type literal property
func (b *ASTBuilder) buildPropertySignature(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSPropertySignature, tsNode)
	node.Key, node.Computed = b.propertyKey(b.field(tsNode, "name"))
	if node.Key != nil && !node.Computed {
		node.Name = node.Key.Name
	}
	node.Optional = b.hasToken(tsNode, "?")
	node.Readonly = b.hasToken(tsNode, "readonly")
	node.TypeAnnotation = b.convertChild(b.field(tsNode, "type"))
	return node
}

// buildMethodSignature builds an interface or type literal method
func (b *ASTBuilder) buildMethodSignature(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSMethodSignature, tsNode)
	node.Key, node.Computed = b.propertyKey(b.field(tsNode, "name"))
	if node.Key != nil && !node.Computed {
		node.Name = node.Key.Name
	}
	node.Optional = b.hasToken(tsNode, "?")
	switch {
	case b.hasToken(tsNode, "get"):
		node.Kind = "get"
	case b.hasToken(tsNode, "set"):
		node.Kind = "set"
	default:
		node.Kind = "method"
	}
	b.buildSignature(node, tsNode)
	return node
}

// buildEnum builds an enum declaration
func (b *ASTBuilder) buildEnum(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSEnumDeclaration, tsNode)
	node.Name = b.text(b.field(tsNode, "name"))
	node.Const = b.hasToken(tsNode, "const")
	node.Members = []*Node{}

	body := b.field(tsNode, "body")
	if body == nil {
		return node
	}
	for _, child := range b.namedChildren(body) {
		member := b.newNode(NodeTSEnumMember, child)
		if child.Type() == "enum_assignment" {
			member.ID, _ = b.propertyKey(b.field(child, "name"))
			member.Initializer = b.convertChild(b.field(child, "value"))
		} else {
			member.ID, _ = b.propertyKey(child)
		}
		if member.ID != nil {
			member.Name = member.ID.Name
			if member.Name == "" {
				if s, ok := member.ID.Value.(string); ok {
					member.Name = s
				}
			}
		}
		node.Members = append(node.Members, member)
	}
	return node
}

// buildTypeParameters builds "<T, U>" declarations and instantiations
func (b *ASTBuilder) buildTypeParameters(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	node.Params = b.convertAll(b.namedChildren(tsNode))
	if node.Params == nil {
		node.Params = []*Node{}
	}
	return node
}

// buildTypeParameter builds "T extends C = D"
func (b *ASTBuilder) buildTypeParameter(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSTypeParameter, tsNode)
	node.Name = b.text(b.field(tsNode, "name"))
	node.Const = b.hasToken(tsNode, "const")
	if constraint := b.field(tsNode, "constraint"); constraint != nil {
		node.Constraint = b.convertChild(b.firstNamed(constraint))
	}
	if def := b.field(tsNode, "value"); def != nil {
		node.Default = b.convertChild(b.firstNamed(def))
	}
	return node
}

// buildTypeReference builds a named type with optional type arguments
func (b *ASTBuilder) buildTypeReference(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSTypeReference, tsNode)
	if tsNode.Type() == "generic_type" {
		if name := b.field(tsNode, "name"); name != nil {
			node.TypeName = b.typeName(name)
		}
		node.TypeParameters = b.convertChild(b.field(tsNode, "type_arguments"))
		return node
	}
	node.TypeName = b.typeName(tsNode)
	return node
}

// typeName converts the name part of a type reference. Qualified names
// stay generic.
func (b *ASTBuilder) typeName(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "type_identifier", "identifier":
		return b.buildIdentifier(tsNode)
	case "nested_type_identifier", "nested_identifier", "member_expression":
		return b.newNode(NodeTSQualifiedName, tsNode)
	}
	return b.convertChild(tsNode)
}

// buildCompositeType builds union and intersection types, flattening
// directly nested members of the same operator
func (b *ASTBuilder) buildCompositeType(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	node.Types = b.convertAll(b.flattenType(tsNode, tsNode.Type(), nil))
	if node.Types == nil {
		node.Types = []*Node{}
	}
	return node
}

func (b *ASTBuilder) flattenType(tsNode *sitter.Node, tsType string, dst []*sitter.Node) []*sitter.Node {
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == tsType {
			dst = b.flattenType(child, tsType, dst)
			continue
		}
		dst = append(dst, child)
	}
	return dst
}

// buildTypeCast builds "x as T" and "x satisfies T". "as const" carries no
// type node.
func (b *ASTBuilder) buildTypeCast(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	parts := b.namedChildren(tsNode)
	if len(parts) > 0 {
		node.Expression = b.convertChild(parts[0])
	}
	if len(parts) > 1 {
		node.TypeAnnotation = b.convertChild(parts[1])
	}
	return node
}

// buildNonNullExpression builds "x!"
func (b *ASTBuilder) buildNonNullExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSNonNullExpression, tsNode)
	node.Expression = b.convertChild(b.firstNamed(tsNode))
	return node
}

// buildTypeAssertion builds the angle-bracket cast "<T>x"
func (b *ASTBuilder) buildTypeAssertion(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTSTypeAssertion, tsNode)
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "type_arguments" {
			node.TypeAnnotation = b.convertChild(b.firstNamed(child))
			continue
		}
		node.Expression = b.convertChild(child)
	}
	return node
}

// buildAmbientDeclaration converts the declaration under "declare" and
// marks it. declare global and declare module blocks stay generic.
func (b *ASTBuilder) buildAmbientDeclaration(tsNode *sitter.Node) *Node {
	inner := b.firstNamed(tsNode)
	if inner == nil || inner.Type() == "statement_block" || inner.Type() == "property_identifier" {
		return b.newNode(NodeTSModuleDeclaration, tsNode)
	}

	node := b.convertChild(inner)
	if node == nil {
		return b.newNode(NodeTSModuleDeclaration, tsNode)
	}
	switch node.Type {
	case NodeVariableDeclaration, NodeClassDeclaration, NodeFunctionDeclaration,
		NodeTSEnumDeclaration, NodeTSInterfaceDeclaration, NodeTSTypeAliasDeclaration:
		node.Declare = true
	}
	return node
}
