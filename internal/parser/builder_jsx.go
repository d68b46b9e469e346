package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// buildJSXElement builds an element with an opening and closing tag. A
// nameless opening tag produces a fragment.
func (b *ASTBuilder) buildJSXElement(tsNode *sitter.Node) *Node {
	open := b.field(tsNode, "open_tag")
	closeTag := b.field(tsNode, "close_tag")
	if open == nil || closeTag == nil {
		for _, child := range b.namedChildren(tsNode) {
			switch child.Type() {
			case "jsx_opening_element":
				if open == nil {
					open = child
				}
			case "jsx_closing_element":
				closeTag = child
			}
		}
	}

	var inner []*sitter.Node
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "jsx_opening_element", "jsx_closing_element":
			continue
		}
		inner = append(inner, child)
	}
	children := b.buildJSXChildren(inner)

	if open != nil && b.jsxTagName(open) == nil {
		node := b.newNode(NodeJSXFragment, tsNode)
		node.Children = children
		return node
	}

	node := b.newNode(NodeJSXElement, tsNode)
	if open != nil {
		node.OpeningElement = b.buildJSXOpeningElement(open, false)
	}
	if closeTag != nil {
		node.ClosingElement = b.buildJSXClosingElement(closeTag)
	}
	node.Children = children
	return node
}

// buildJSXSelfClosingElement builds "<X />" as an element without a
// closing tag
func (b *ASTBuilder) buildJSXSelfClosingElement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeJSXElement, tsNode)
	node.OpeningElement = b.buildJSXOpeningElement(tsNode, true)
	node.Children = []*Node{}
	return node
}

// buildJSXOpeningElement builds the opening tag from an opening or
// self-closing element
func (b *ASTBuilder) buildJSXOpeningElement(tsNode *sitter.Node, selfClosing bool) *Node {
	node := b.newNode(NodeJSXOpeningElement, tsNode)
	node.SelfClosing = selfClosing || tsNode.Type() == "jsx_self_closing_element"
	name := b.jsxTagName(tsNode)
	if name != nil {
		node.NameNode = b.buildJSXName(name)
	}
	node.TypeParameters = b.convertChild(b.field(tsNode, "type_arguments"))

	node.Attributes = []*Node{}
	for _, child := range b.namedChildren(tsNode) {
		var attr *Node
		switch child.Type() {
		case "jsx_attribute":
			attr = b.convertChild(child)
		case "jsx_expression":
			attr = b.buildJSXExpression(child, true)
		}
		if attr != nil {
			node.Attributes = append(node.Attributes, attr)
		}
	}
	return node
}

// buildJSXClosingElement builds a closing tag
func (b *ASTBuilder) buildJSXClosingElement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeJSXClosingElement, tsNode)
	if name := b.jsxTagName(tsNode); name != nil {
		node.NameNode = b.buildJSXName(name)
	}
	return node
}

// jsxTagName returns the name node of a tag, nil for fragment tags
func (b *ASTBuilder) jsxTagName(tsNode *sitter.Node) *sitter.Node {
	if name := b.field(tsNode, "name"); name != nil {
		return name
	}
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			return child
		}
	}
	return nil
}

// buildJSXName converts a tag or attribute name
func (b *ASTBuilder) buildJSXName(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "member_expression", "nested_identifier":
		node := b.newNode(NodeJSXMemberExpression, tsNode)
		object := b.field(tsNode, "object")
		property := b.field(tsNode, "property")
		if object == nil || property == nil {
			parts := b.namedChildren(tsNode)
			if len(parts) >= 2 {
				object, property = parts[0], parts[len(parts)-1]
			}
		}
		if object != nil {
			node.Object = b.buildJSXName(object)
		}
		if property != nil {
			node.Property = b.buildJSXName(property)
		}
		return node
	case "jsx_namespace_name":
		node := b.newNode(NodeJSXNamespacedName, tsNode)
		node.Name = b.text(tsNode)
		return node
	}
	node := b.newNode(NodeJSXIdentifier, tsNode)
	node.Name = b.text(tsNode)
	return node
}

// buildJSXAttribute builds "name" or "name=value"
func (b *ASTBuilder) buildJSXAttribute(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeJSXAttribute, tsNode)
	parts := b.namedChildren(tsNode)
	if len(parts) == 0 {
		return node
	}
	node.NameNode = b.buildJSXName(parts[0])
	node.Name = node.NameNode.Name
	if len(parts) > 1 {
		value := parts[1]
		switch value.Type() {
		case "string":
			node.ValueNode = b.buildLiteral(value)
		case "jsx_expression":
			node.ValueNode = b.buildJSXExpression(value, false)
		default:
			node.ValueNode = b.convertChild(value)
		}
	}
	return node
}

// buildJSXExpression builds "{expr}". A spread inside braces becomes a
// spread attribute or spread child depending on position, and empty braces
// hold a JSXEmptyExpression.
func (b *ASTBuilder) buildJSXExpression(tsNode *sitter.Node, attribute bool) *Node {
	inner := b.firstNamed(tsNode)
	if inner != nil && inner.Type() == "spread_element" {
		kind := NodeJSXSpreadChild
		if attribute {
			kind = NodeJSXSpreadAttribute
		}
		node := b.newNode(kind, tsNode)
		if kind == NodeJSXSpreadAttribute {
			node.Argument = b.convertChild(b.firstNamed(inner))
		} else {
			node.Expression = b.convertChild(b.firstNamed(inner))
		}
		return node
	}

	node := b.newNode(NodeJSXExpressionContainer, tsNode)
	if inner == nil {
		node.Expression = b.spanNode(NodeJSXEmptyExpression,
			int(tsNode.StartByte())+1, int(tsNode.EndByte())-1)
		return node
	}
	node.Expression = b.convertChild(inner)
	return node
}

// buildJSXText builds a text run between tags
func (b *ASTBuilder) buildJSXText(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeJSXText, tsNode)
	node.Raw = b.text(tsNode)
	node.Value = node.Raw
	return node
}

// buildJSXChildren converts element children in source order
func (b *ASTBuilder) buildJSXChildren(tsNodes []*sitter.Node) []*Node {
	children := []*Node{}
	for _, child := range tsNodes {
		var n *Node
		if child.Type() == "jsx_expression" {
			n = b.buildJSXExpression(child, false)
		} else {
			n = b.convertChild(child)
		}
		if n != nil {
			children = append(children, n)
		}
	}
	return children
}
