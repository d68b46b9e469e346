package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// buildIdentifier builds an identifier node. "undefined" is an ordinary
// identifier.
func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeIdentifier, tsNode)
	node.Name = b.text(tsNode)
	return node
}

func (b *ASTBuilder) buildPrivateIdentifier(tsNode *sitter.Node) *Node {
	node := b.newNode(NodePrivateIdentifier, tsNode)
	node.Name = b.text(tsNode)
	return node
}

// buildFunction builds function declarations and expressions
func (b *ASTBuilder) buildFunction(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	if name := b.field(tsNode, "name"); name != nil {
		node.Name = b.text(name)
	}
	node.Async = b.hasToken(tsNode, "async")
	node.Generator = b.hasToken(tsNode, "*")
	b.buildSignature(node, tsNode)
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildSignature fills type parameters, parameters and return type shared by
// every callable
func (b *ASTBuilder) buildSignature(node *Node, tsNode *sitter.Node) {
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_parameters"))
	node.Params = b.buildParameters(b.field(tsNode, "parameters"))
	node.ReturnType = b.convertChild(b.field(tsNode, "return_type"))
}

// buildArrowFunction builds an arrow function. The body is an expression or
// a block statement.
func (b *ASTBuilder) buildArrowFunction(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeArrowFunctionExpression, tsNode)
	node.Async = b.hasToken(tsNode, "async")
	if param := b.field(tsNode, "parameter"); param != nil {
		node.Params = []*Node{b.buildParameter(param)}
		node.TypeParameters = b.convertChild(b.field(tsNode, "type_parameters"))
		node.ReturnType = b.convertChild(b.field(tsNode, "return_type"))
	} else {
		b.buildSignature(node, tsNode)
	}
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildParameters converts a formal parameter list
func (b *ASTBuilder) buildParameters(tsNode *sitter.Node) []*Node {
	params := []*Node{}
	if tsNode == nil {
		return params
	}
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "decorator" {
			continue
		}
		params = append(params, b.buildParameter(child))
	}
	return params
}

// buildParameter builds a FormalParameter. Parameters that are not a plain
// identifier are named with PlaceholderName.
func (b *ASTBuilder) buildParameter(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeFormalParameter, tsNode)
	node.Name = PlaceholderName

	pattern := tsNode
	switch tsNode.Type() {
	case "required_parameter", "optional_parameter":
		node.Optional = tsNode.Type() == "optional_parameter"
		node.Readonly = b.hasToken(tsNode, "readonly")
		node.Decorators = b.decorators(tsNode)
		node.TypeAnnotation = b.convertChild(b.field(tsNode, "type"))
		node.Default = b.convertChild(b.field(tsNode, "value"))
		pattern = b.field(tsNode, "pattern")
	case "assignment_pattern":
		node.Default = b.convertChild(b.field(tsNode, "right"))
		pattern = b.field(tsNode, "left")
	}
	if pattern == nil {
		return node
	}

	if pattern.Type() == "rest_pattern" {
		node.Rest = true
		pattern = b.firstNamed(pattern)
		if pattern == nil {
			return node
		}
	}
	switch pattern.Type() {
	case "identifier", "this":
		node.Name = b.text(pattern)
	}
	return node
}

// buildClass builds class declarations and expressions
func (b *ASTBuilder) buildClass(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	if name := b.field(tsNode, "name"); name != nil {
		node.Name = b.text(name)
	}
	node.Abstract = tsNode.Type() == "abstract_class_declaration"
	node.Decorators = b.decorators(tsNode)
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_parameters"))

	for _, heritage := range b.namedChildrenOf(tsNode, "class_heritage") {
		b.buildClassHeritage(node, heritage)
	}
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildClassHeritage fills the superclass and implemented interfaces
func (b *ASTBuilder) buildClassHeritage(node *Node, tsNode *sitter.Node) {
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "extends_clause":
			value := b.field(child, "value")
			if value == nil {
				value = b.firstNamed(child)
			}
			node.SuperClass = b.convertChild(value)
		case "implements_clause":
			node.Implements = append(node.Implements, b.convertAll(b.namedChildren(child))...)
		default:
			// JavaScript grammar: the heritage holds the superclass expression
			if node.SuperClass == nil {
				node.SuperClass = b.convertChild(child)
			}
		}
	}
}

// buildClassBody builds the member list of a class
func (b *ASTBuilder) buildClassBody(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeClassBody, tsNode)
	members := []*Node{}
	// The TypeScript grammar places member decorators in the class body
	var pending []*Node
	for _, child := range b.namedChildren(tsNode) {
		member := b.convertChild(child)
		if member == nil {
			continue
		}
		if member.Type == NodeDecorator {
			pending = append(pending, member)
			continue
		}
		if len(pending) > 0 && (member.Type == NodeMethodDefinition || member.Type == NodePropertyDefinition) {
			member.Decorators = append(pending, member.Decorators...)
			member.Span.Start = pending[0].Span.Start
			member.StartLine = pending[0].StartLine
			pending = nil
		}
		members = append(members, member)
	}
	members = append(members, pending...)
	node.Body = Many(members)
	return node
}

// buildMethodDefinition builds methods, accessors and constructors in
// classes and object literals
func (b *ASTBuilder) buildMethodDefinition(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMethodDefinition, tsNode)
	node.Decorators = b.decorators(tsNode)
	node.Key, node.Computed = b.propertyKey(b.field(tsNode, "name"))
	if node.Key != nil && !node.Computed {
		node.Name = node.Key.Name
	}

	switch {
	case node.Name == "constructor":
		node.Kind = "constructor"
	case b.hasToken(tsNode, "get"):
		node.Kind = "get"
	case b.hasToken(tsNode, "set"):
		node.Kind = "set"
	default:
		node.Kind = "method"
	}
	node.Static = b.hasToken(tsNode, "static")
	node.Async = b.hasToken(tsNode, "async")
	node.Generator = b.hasToken(tsNode, "*")
	node.Optional = b.hasToken(tsNode, "?")
	node.Abstract = tsNode.Type() == "abstract_method_signature"

	b.buildSignature(node, tsNode)
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildPropertyDefinition builds a class field
func (b *ASTBuilder) buildPropertyDefinition(tsNode *sitter.Node) *Node {
	node := b.newNode(NodePropertyDefinition, tsNode)
	node.Decorators = b.decorators(tsNode)
	key := b.field(tsNode, "property")
	if key == nil {
		key = b.field(tsNode, "name")
	}
	node.Key, node.Computed = b.propertyKey(key)
	if node.Key != nil && !node.Computed {
		node.Name = node.Key.Name
	}
	node.Static = b.hasToken(tsNode, "static")
	node.Readonly = b.hasToken(tsNode, "readonly")
	node.Optional = b.hasToken(tsNode, "?")
	node.Declare = b.hasToken(tsNode, "declare")
	node.Abstract = b.hasToken(tsNode, "abstract")
	node.TypeAnnotation = b.convertChild(b.field(tsNode, "type"))
	node.ValueNode = b.convertChild(b.field(tsNode, "value"))
	return node
}

// buildStaticBlock builds a class static initialization block
func (b *ASTBuilder) buildStaticBlock(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeStaticBlock, tsNode)
	var stmts []*Node
	if body := b.field(tsNode, "body"); body != nil {
		stmts = b.statements(body)
	} else {
		stmts = b.statements(tsNode)
	}
	node.Body = Many(stmts)
	return node
}

// propertyKey converts a property name, reporting whether it is computed
func (b *ASTBuilder) propertyKey(tsNode *sitter.Node) (*Node, bool) {
	if tsNode == nil {
		return nil, false
	}
	switch tsNode.Type() {
	case "computed_property_name":
		return b.convertChild(b.firstNamed(tsNode)), true
	case "property_identifier", "identifier", "shorthand_property_identifier":
		return b.buildIdentifier(tsNode), false
	case "private_property_identifier":
		return b.buildPrivateIdentifier(tsNode), false
	}
	return b.convertChild(tsNode), false
}

// buildArrayExpression builds an array literal. Holes are omitted.
func (b *ASTBuilder) buildArrayExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeArrayExpression, tsNode)
	node.Elements = b.convertAll(b.namedChildren(tsNode))
	if node.Elements == nil {
		node.Elements = []*Node{}
	}
	return node
}

// buildObjectExpression builds an object literal
func (b *ASTBuilder) buildObjectExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeObjectExpression, tsNode)
	node.Properties = []*Node{}
	for _, child := range b.namedChildren(tsNode) {
		var prop *Node
		if child.Type() == "shorthand_property_identifier" {
			prop = b.buildShorthandProperty(child)
		} else {
			prop = b.convertChild(child)
		}
		if prop != nil {
			node.Properties = append(node.Properties, prop)
		}
	}
	return node
}

// buildProperty builds a "key: value" pair
func (b *ASTBuilder) buildProperty(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeProperty, tsNode)
	node.Kind = "init"
	node.Key, node.Computed = b.propertyKey(b.field(tsNode, "key"))
	node.ValueNode = b.convertChild(b.field(tsNode, "value"))
	return node
}

// buildShorthandProperty builds "{ a }". Key and value are separate nodes
// over the same span.
func (b *ASTBuilder) buildShorthandProperty(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeProperty, tsNode)
	node.Kind = "init"
	node.Shorthand = true
	node.Key = b.buildIdentifier(tsNode)
	node.ValueNode = b.buildIdentifier(tsNode)
	return node
}

// buildArgumentNode builds nodes whose only child is an argument
func (b *ASTBuilder) buildArgumentNode(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	node.Argument = b.convertChild(b.firstNamed(tsNode))
	return node
}

func (b *ASTBuilder) buildYieldExpression(tsNode *sitter.Node) *Node {
	node := b.buildArgumentNode(NodeYieldExpression, tsNode)
	node.Delegate = b.hasToken(tsNode, "*")
	return node
}

// buildCallExpression builds calls. A template argument makes a tagged
// template and an import callee makes a dynamic import.
func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	callee := b.field(tsNode, "function")
	args := b.field(tsNode, "arguments")

	if args != nil && args.Type() == "template_string" {
		node := b.newNode(NodeTaggedTemplateExpression, tsNode)
		node.Tag = b.convertChild(callee)
		node.TypeParameters = b.convertChild(b.field(tsNode, "type_arguments"))
		node.Quasi = b.buildTemplateLiteral(args)
		return node
	}

	if callee != nil && callee.Type() == "import" {
		node := b.newNode(NodeImportExpression, tsNode)
		if args != nil {
			node.Source = b.convertChild(b.firstNamed(args))
		}
		return node
	}

	node := b.newNode(NodeCallExpression, tsNode)
	node.Callee = b.convertChild(callee)
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_arguments"))
	node.Optional = b.hasOptionalChain(tsNode)
	node.Arguments = b.buildArguments(args)
	return node
}

// buildNewExpression builds a new expression. Arguments may be omitted.
func (b *ASTBuilder) buildNewExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeNewExpression, tsNode)
	node.Callee = b.convertChild(b.field(tsNode, "constructor"))
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_arguments"))
	node.Arguments = b.buildArguments(b.field(tsNode, "arguments"))
	return node
}

func (b *ASTBuilder) buildArguments(tsNode *sitter.Node) []*Node {
	args := []*Node{}
	if tsNode == nil {
		return args
	}
	return append(args, b.convertAll(b.namedChildren(tsNode))...)
}

// hasOptionalChain reports whether the node carries a "?." token
func (b *ASTBuilder) hasOptionalChain(tsNode *sitter.Node) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil && (child.Type() == "optional_chain" || child.Type() == "?.") {
			return true
		}
	}
	return false
}

// buildMemberExpression builds "a.b". Private member access stays generic.
func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	property := b.field(tsNode, "property")
	if property != nil && property.Type() == "private_property_identifier" {
		return b.newNode(NodeMemberExpression, tsNode)
	}

	node := b.newNode(NodeMemberExpression, tsNode)
	node.Object = b.convertChild(b.field(tsNode, "object"))
	if property != nil {
		node.Property = b.buildIdentifier(property)
	}
	node.Optional = b.hasOptionalChain(tsNode)
	return node
}

// buildSubscriptExpression builds "a[b]" as a computed member expression
func (b *ASTBuilder) buildSubscriptExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMemberExpression, tsNode)
	node.Computed = true
	node.Object = b.convertChild(b.field(tsNode, "object"))
	node.Property = b.convertChild(b.field(tsNode, "index"))
	node.Optional = b.hasOptionalChain(tsNode)
	return node
}

// buildBinaryExpression builds binary and logical expressions
func (b *ASTBuilder) buildBinaryExpression(tsNode *sitter.Node) *Node {
	op := b.token(tsNode, "operator")
	kind := NodeBinaryExpression
	switch op {
	case "&&", "||", "??":
		kind = NodeLogicalExpression
	}
	node := b.newNode(kind, tsNode)
	node.Operator = op
	node.Left = b.convertChild(b.field(tsNode, "left"))
	node.Right = b.convertChild(b.field(tsNode, "right"))
	return node
}

func (b *ASTBuilder) buildUnaryExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeUnaryExpression, tsNode)
	node.Operator = b.token(tsNode, "operator")
	node.Prefix = true
	arg := b.field(tsNode, "argument")
	if arg == nil {
		arg = b.firstNamed(tsNode)
	}
	node.Argument = b.convertChild(arg)
	return node
}

func (b *ASTBuilder) buildUpdateExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeUpdateExpression, tsNode)
	node.Operator = b.token(tsNode, "operator")
	arg := b.field(tsNode, "argument")
	if arg == nil {
		arg = b.firstNamed(tsNode)
	}
	if arg != nil {
		node.Prefix = arg.StartByte() > tsNode.StartByte()
	}
	node.Argument = b.convertChild(arg)
	return node
}

// buildAssignmentExpression builds plain and compound assignments
func (b *ASTBuilder) buildAssignmentExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeAssignmentExpression, tsNode)
	node.Operator = "="
	if op := b.token(tsNode, "operator"); op != "" {
		node.Operator = op
	}
	node.Left = b.convertChild(b.field(tsNode, "left"))
	node.Right = b.convertChild(b.field(tsNode, "right"))
	return node
}

// buildConditionalExpression builds "a ? b : c"
func (b *ASTBuilder) buildConditionalExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeConditionalExpression, tsNode)
	node.Test = b.convertChild(b.field(tsNode, "condition"))
	if consequent := b.convertChild(b.field(tsNode, "consequence")); consequent != nil {
		node.Consequent = One(consequent)
	}
	node.Alternate = b.convertChild(b.field(tsNode, "alternative"))
	return node
}

// buildSequenceExpression builds a flat comma expression
func (b *ASTBuilder) buildSequenceExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSequenceExpression, tsNode)
	node.Expressions = b.convertAll(b.flattenSequence(tsNode, nil))
	if node.Expressions == nil {
		node.Expressions = []*Node{}
	}
	return node
}

// flattenSequence collects operands of right-nested sequence expressions
func (b *ASTBuilder) flattenSequence(tsNode *sitter.Node, dst []*sitter.Node) []*sitter.Node {
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "sequence_expression" {
			dst = b.flattenSequence(child, dst)
			continue
		}
		dst = append(dst, child)
	}
	return dst
}

// buildMetaProperty builds new.target and import.meta
func (b *ASTBuilder) buildMetaProperty(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMetaProperty, tsNode)
	node.Name = b.text(tsNode)
	return node
}

// buildLiteral builds string, number, boolean, null and regex literals
func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeLiteral, tsNode)
	node.Raw = b.text(tsNode)

	switch tsNode.Type() {
	case "string":
		node.Value = decodeString(node.Raw)
	case "number":
		node.Value = parseNumber(node.Raw)
	case "true":
		node.Value = true
	case "false":
		node.Value = false
	case "regex":
		node.Value = b.text(b.field(tsNode, "pattern"))
		node.Flags = b.text(b.field(tsNode, "flags"))
	}
	return node
}

// buildTemplateLiteral builds a template literal. Quasis are the raw text
// runs between substitutions; the last one is marked Tail.
func (b *ASTBuilder) buildTemplateLiteral(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTemplateLiteral, tsNode)
	node.Quasis = []*Node{}
	node.Expressions = []*Node{}

	start := int(tsNode.StartByte()) + 1
	end := int(tsNode.EndByte())
	if end > start && end <= len(b.source) && b.source[end-1] == '`' {
		end--
	}

	cursor := start
	for _, sub := range b.namedChildrenOf(tsNode, "template_substitution") {
		node.Quasis = append(node.Quasis, b.templateElement(cursor, int(sub.StartByte()), false))
		if expr := b.convertChild(b.firstNamed(sub)); expr != nil {
			node.Expressions = append(node.Expressions, expr)
		}
		cursor = int(sub.EndByte())
	}
	node.Quasis = append(node.Quasis, b.templateElement(cursor, end, true))
	return node
}

func (b *ASTBuilder) templateElement(start, end int, tail bool) *Node {
	if end < start {
		end = start
	}
	node := b.spanNode(NodeTemplateElement, start, end)
	node.Raw = TextOf(node.Span, b.source)
	node.Value = decodeEscapes(node.Raw)
	node.Tail = tail
	return node
}
