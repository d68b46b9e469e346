package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// buildExpressionStatement builds an expression statement node
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	inner := b.firstNamed(tsNode)
	// "namespace X {}" parses as an expression statement around the module
	if inner != nil && inner.Type() == "internal_module" {
		return b.buildGenericNode(inner)
	}
	node := b.newNode(NodeExpressionStatement, tsNode)
	node.Expression = b.convertChild(inner)
	return node
}

// buildVariableDeclaration builds var, let, const and using declarations
func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeVariableDeclaration, tsNode)
	node.Kind = b.declarationKind(tsNode)
	node.Declarations = []*Node{}
	for _, declarator := range b.namedChildrenOf(tsNode, "variable_declarator") {
		if d := b.buildVariableDeclarator(declarator); d != nil {
			node.Declarations = append(node.Declarations, d)
		}
	}
	return node
}

func (b *ASTBuilder) declarationKind(tsNode *sitter.Node) string {
	if kind := b.token(tsNode, "kind"); kind != "" {
		return kind
	}
	if tsNode.ChildCount() == 0 {
		return "var"
	}
	first := tsNode.Child(0)
	switch first.Type() {
	case "var", "let", "const", "using":
		return first.Type()
	case "await":
		return "await using"
	}
	return "var"
}

// buildVariableDeclarator builds one binding of a declaration
func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeVariableDeclarator, tsNode)
	node.ID = b.convertChild(b.field(tsNode, "name"))
	node.TypeAnnotation = b.convertChild(b.field(tsNode, "type"))
	node.Init = b.convertChild(b.field(tsNode, "value"))
	return node
}

// buildBlockStatement builds a block statement node
func (b *ASTBuilder) buildBlockStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeBlockStatement, tsNode)
	node.Body = Many(b.statements(tsNode))
	return node
}

// buildIfStatement builds an if statement node
func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeIfStatement, tsNode)
	node.Test = b.convertChild(b.field(tsNode, "condition"))
	if consequent := b.convertChild(b.field(tsNode, "consequence")); consequent != nil {
		node.Consequent = One(consequent)
	}

	if alt := b.field(tsNode, "alternative"); alt != nil {
		if alt.Type() == "else_clause" {
			alt = b.firstNamed(alt)
		}
		node.Alternate = b.convertChild(alt)
	}
	return node
}

// buildSwitchStatement builds a switch statement node
func (b *ASTBuilder) buildSwitchStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchStatement, tsNode)
	node.Discriminant = b.convertChild(b.field(tsNode, "value"))
	node.Cases = []*Node{}
	if body := b.field(tsNode, "body"); body != nil {
		node.Cases = append(node.Cases,
			b.convertAll(b.namedChildrenOf(body, "switch_case", "switch_default"))...)
	}
	return node
}

// buildSwitchCase builds a case or default clause. Test is nil for default.
func (b *ASTBuilder) buildSwitchCase(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchCase, tsNode)
	if tsNode.Type() == "switch_case" {
		node.Test = b.convertChild(b.field(tsNode, "value"))
	}

	var stmts []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || !child.IsNamed() || isTrivia(child) || tsNode.FieldNameForChild(i) == "value" {
			continue
		}
		stmts = append(stmts, child)
	}
	consequent := b.convertAll(stmts)
	if consequent == nil {
		consequent = []*Node{}
	}
	node.Consequent = Many(consequent)
	return node
}

// buildForStatement builds a C-style for loop
func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeForStatement, tsNode)
	node.Init = b.loopClause(b.field(tsNode, "initializer"))
	node.Test = b.loopClause(b.field(tsNode, "condition"))
	node.Update = b.loopClause(b.field(tsNode, "increment"))
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// loopClause converts a for-loop header clause; empty clauses yield nil
func (b *ASTBuilder) loopClause(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	switch tsNode.Type() {
	case "empty_statement":
		return nil
	case "expression_statement":
		return b.convertChild(b.firstNamed(tsNode))
	}
	return b.convertChild(tsNode)
}

// buildForInStatement builds for-in, for-of and for-await-of loops
func (b *ASTBuilder) buildForInStatement(tsNode *sitter.Node) *Node {
	kind := NodeForInStatement
	if b.token(tsNode, "operator") == "of" || b.hasToken(tsNode, "of") {
		kind = NodeForOfStatement
	}
	node := b.newNode(kind, tsNode)
	if kind == NodeForOfStatement {
		node.Await = b.hasToken(tsNode, "await")
	}

	left := b.field(tsNode, "left")
	if declKind := b.token(tsNode, "kind"); declKind != "" && left != nil {
		// for (const x of xs): rebuild the binding as a one-declarator declaration
		start := int(left.StartByte())
		for i := 0; i < int(tsNode.ChildCount()); i++ {
			if tsNode.FieldNameForChild(i) == "kind" {
				start = int(tsNode.Child(i).StartByte())
				break
			}
		}
		decl := b.spanNode(NodeVariableDeclaration, start, int(left.EndByte()))
		decl.Kind = declKind
		declarator := b.newNode(NodeVariableDeclarator, left)
		declarator.ID = b.convertChild(left)
		decl.Declarations = []*Node{declarator}
		node.Left = decl
	} else {
		node.Left = b.convertChild(left)
	}

	node.Right = b.convertChild(b.field(tsNode, "right"))
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildWhileStatement builds a while loop
func (b *ASTBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeWhileStatement, tsNode)
	node.Test = b.convertChild(b.field(tsNode, "condition"))
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildDoWhileStatement builds a do-while loop
func (b *ASTBuilder) buildDoWhileStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeDoWhileStatement, tsNode)
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	node.Test = b.convertChild(b.field(tsNode, "condition"))
	return node
}

// buildTryStatement builds a try statement node
func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTryStatement, tsNode)
	node.Block = b.convertChild(b.field(tsNode, "body"))
	node.Handler = b.convertChild(b.field(tsNode, "handler"))
	if finalizer := b.field(tsNode, "finalizer"); finalizer != nil {
		block := b.field(finalizer, "body")
		if block == nil {
			block = b.firstNamed(finalizer)
		}
		node.Finalizer = b.convertChild(block)
	}
	return node
}

// buildCatchClause builds a catch clause. A destructured parameter is
// reduced to a placeholder identifier.
func (b *ASTBuilder) buildCatchClause(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeCatchClause, tsNode)
	if param := b.field(tsNode, "parameter"); param != nil {
		if param.Type() == "identifier" {
			node.Param = b.buildIdentifier(param)
		} else {
			node.Param = b.newNode(NodeIdentifier, param)
			node.Param.Name = PlaceholderName
		}
	}
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildArgumentStatement builds return and throw statements
func (b *ASTBuilder) buildArgumentStatement(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	node.Argument = b.convertChild(b.firstNamed(tsNode))
	return node
}

// buildJumpStatement builds break and continue statements
func (b *ASTBuilder) buildJumpStatement(kind NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(kind, tsNode)
	label := b.field(tsNode, "label")
	if label == nil {
		label = b.firstNamed(tsNode)
	}
	if label != nil {
		node.Label = b.buildIdentifier(label)
	}
	return node
}

// buildLabeledStatement builds a labeled statement node
func (b *ASTBuilder) buildLabeledStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeLabeledStatement, tsNode)
	if label := b.field(tsNode, "label"); label != nil {
		node.Label = b.buildIdentifier(label)
	}
	if body := b.convertChild(b.field(tsNode, "body")); body != nil {
		node.Body = One(body)
	}
	return node
}

// buildImportDeclaration builds an import declaration node
func (b *ASTBuilder) buildImportDeclaration(tsNode *sitter.Node) *Node {
	// import x = require("y")
	if len(b.namedChildrenOf(tsNode, "import_require_clause")) > 0 {
		return b.newNode(NodeTSImportEqualsDeclaration, tsNode)
	}

	node := b.newNode(NodeImportDeclaration, tsNode)
	node.Kind = "value"
	if b.hasToken(tsNode, "type") || b.hasToken(tsNode, "typeof") {
		node.Kind = "type"
	}
	node.Source = b.convertChild(b.field(tsNode, "source"))
	node.Specifiers = []*Node{}

	for _, clause := range b.namedChildrenOf(tsNode, "import_clause") {
		for _, child := range b.namedChildren(clause) {
			switch child.Type() {
			case "identifier":
				spec := b.newNode(NodeImportDefaultSpecifier, child)
				spec.Local = b.buildIdentifier(child)
				node.Specifiers = append(node.Specifiers, spec)
			case "namespace_import":
				spec := b.newNode(NodeImportNamespaceSpecifier, child)
				if id := b.firstNamed(child); id != nil {
					spec.Local = b.buildIdentifier(id)
				}
				node.Specifiers = append(node.Specifiers, spec)
			case "named_imports":
				for _, s := range b.namedChildrenOf(child, "import_specifier") {
					node.Specifiers = append(node.Specifiers, b.buildImportSpecifier(s))
				}
			}
		}
	}
	return node
}

// buildImportSpecifier builds "a" or "a as b" inside named imports. The
// imported and local names are distinct nodes even when they share text.
func (b *ASTBuilder) buildImportSpecifier(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeImportSpecifier, tsNode)
	if b.hasToken(tsNode, "type") {
		node.Kind = "type"
	}

	name := b.field(tsNode, "name")
	alias := b.field(tsNode, "alias")
	if name == nil {
		ids := b.namedChildren(tsNode)
		if len(ids) > 0 {
			name = ids[0]
		}
		if len(ids) > 1 {
			alias = ids[1]
		}
	}
	if name == nil {
		return node
	}

	node.Imported = b.moduleExportName(name)
	if alias != nil {
		node.Local = b.moduleExportName(alias)
	} else {
		node.Local = b.moduleExportName(name)
	}
	return node
}

// moduleExportName converts an identifier or string module export name
func (b *ASTBuilder) moduleExportName(tsNode *sitter.Node) *Node {
	if tsNode.Type() == "string" {
		return b.buildLiteral(tsNode)
	}
	return b.buildIdentifier(tsNode)
}

// buildExportDeclaration builds export statements
func (b *ASTBuilder) buildExportDeclaration(tsNode *sitter.Node) *Node {
	switch {
	case b.hasToken(tsNode, "="):
		// export = x
		return b.newNode(NodeTSExportAssignment, tsNode)
	case b.hasToken(tsNode, "namespace") && b.hasToken(tsNode, "as"):
		// export as namespace X
		return b.newNode(NodeTSNamespaceExportDeclaration, tsNode)
	case b.hasToken(tsNode, "default"):
		node := b.newNode(NodeExportDefaultDeclaration, tsNode)
		decl := b.field(tsNode, "declaration")
		if decl == nil {
			decl = b.field(tsNode, "value")
		}
		node.Declaration = b.convertChild(decl)
		return node
	}

	namespaces := b.namedChildrenOf(tsNode, "namespace_export")
	if b.hasToken(tsNode, "*") || len(namespaces) > 0 {
		node := b.newNode(NodeExportAllDeclaration, tsNode)
		node.Source = b.convertChild(b.field(tsNode, "source"))
		if len(namespaces) > 0 {
			if name := b.firstNamed(namespaces[0]); name != nil {
				node.Exported = b.moduleExportName(name)
			}
		} else if b.hasToken(tsNode, "as") {
			if ids := b.namedChildrenOf(tsNode, "identifier"); len(ids) > 0 {
				node.Exported = b.buildIdentifier(ids[0])
			}
		}
		return node
	}

	node := b.newNode(NodeExportNamedDeclaration, tsNode)
	node.Declaration = b.convertChild(b.field(tsNode, "declaration"))
	node.Source = b.convertChild(b.field(tsNode, "source"))
	node.Specifiers = []*Node{}
	for _, clause := range b.namedChildrenOf(tsNode, "export_clause") {
		for _, s := range b.namedChildrenOf(clause, "export_specifier") {
			node.Specifiers = append(node.Specifiers, b.buildExportSpecifier(s))
		}
	}
	return node
}

// buildExportSpecifier builds "a" or "a as b" inside an export clause
func (b *ASTBuilder) buildExportSpecifier(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeExportSpecifier, tsNode)
	name := b.field(tsNode, "name")
	alias := b.field(tsNode, "alias")
	if name == nil {
		ids := b.namedChildren(tsNode)
		if len(ids) > 0 {
			name = ids[0]
		}
		if len(ids) > 1 {
			alias = ids[1]
		}
	}
	if name == nil {
		return node
	}

	node.Local = b.moduleExportName(name)
	if alias != nil {
		node.Exported = b.moduleExportName(alias)
	} else {
		node.Exported = b.moduleExportName(name)
	}
	return node
}

// buildDecorator builds a decorator node
func (b *ASTBuilder) buildDecorator(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeDecorator, tsNode)
	node.Expression = b.convertChild(b.firstNamed(tsNode))
	return node
}

// decorators converts the decorator children of tsNode
func (b *ASTBuilder) decorators(tsNode *sitter.Node) []*Node {
	return b.convertAll(b.namedChildrenOf(tsNode, "decorator"))
}
