package parser

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder converts a tree-sitter CST into the normalized node tree.
//
// The builder owns the LineIndex for the source it converts; every node's
// line range is computed from it. A builder converts one tree and is then
// discarded.
type ASTBuilder struct {
	source []byte
	lines  *LineIndex
	logger *slog.Logger

	comments    []Comment
	diagnostics []Diagnostic
	recovered   int
}

// beforeBuild, when set, is called with the tree-sitter type of every node
// about to be converted. Tests use it to inject conversion failures.
var beforeBuild func(tsType string)

// NewASTBuilder creates a new AST builder
func NewASTBuilder(source []byte, logger *slog.Logger) *ASTBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ASTBuilder{
		source: source,
		lines:  BuildLineIndex(source),
		logger: logger,
	}
}

// Build converts the tree rooted at tsNode. Comments and syntax errors found
// along the way are available from Comments and Diagnostics afterwards.
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	b.scan(tsNode)
	if tsNode.Type() == "program" {
		return b.buildProgram(tsNode)
	}
	return b.buildNode(tsNode)
}

// Comments returns the comments collected by Build in source order
func (b *ASTBuilder) Comments() []Comment {
	return b.comments
}

// Diagnostics returns the syntax errors collected by Build in source order
func (b *ASTBuilder) Diagnostics() []Diagnostic {
	return b.diagnostics
}

// Recovered returns how many subtrees were dropped after a conversion panic
func (b *ASTBuilder) Recovered() int {
	return b.recovered
}

// LineIndex returns the line table built for the source
func (b *ASTBuilder) LineIndex() *LineIndex {
	return b.lines
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if beforeBuild != nil {
		beforeBuild(tsNode.Type())
	}
	switch tsNode.Type() {
	// Statements
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "variable_declaration", "lexical_declaration", "using_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "statement_block":
		return b.buildBlockStatement(tsNode)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "switch_statement":
		return b.buildSwitchStatement(tsNode)
	case "switch_case", "switch_default":
		return b.buildSwitchCase(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "for_in_statement":
		return b.buildForInStatement(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "do_statement":
		return b.buildDoWhileStatement(tsNode)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "catch_clause":
		return b.buildCatchClause(tsNode)
	case "return_statement":
		return b.buildArgumentStatement(NodeReturnStatement, tsNode)
	case "throw_statement":
		return b.buildArgumentStatement(NodeThrowStatement, tsNode)
	case "break_statement":
		return b.buildJumpStatement(NodeBreakStatement, tsNode)
	case "continue_statement":
		return b.buildJumpStatement(NodeContinueStatement, tsNode)
	case "labeled_statement":
		return b.buildLabeledStatement(tsNode)
	case "empty_statement":
		return b.newNode(NodeEmptyStatement, tsNode)
	case "debugger_statement":
		return b.newNode(NodeDebuggerStatement, tsNode)
	case "import_statement":
		return b.buildImportDeclaration(tsNode)
	case "export_statement":
		return b.buildExportDeclaration(tsNode)

	// Functions and classes
	case "function_declaration", "generator_function_declaration":
		return b.buildFunction(NodeFunctionDeclaration, tsNode)
	case "function_expression", "function", "generator_function":
		return b.buildFunction(NodeFunctionExpression, tsNode)
	case "arrow_function":
		return b.buildArrowFunction(tsNode)
	case "class_declaration", "abstract_class_declaration":
		return b.buildClass(NodeClassDeclaration, tsNode)
	case "class":
		return b.buildClass(NodeClassExpression, tsNode)
	case "class_body":
		return b.buildClassBody(tsNode)
	case "method_definition", "abstract_method_signature":
		return b.buildMethodDefinition(tsNode)
	case "field_definition", "public_field_definition":
		return b.buildPropertyDefinition(tsNode)
	case "class_static_block":
		return b.buildStaticBlock(tsNode)
	case "decorator":
		return b.buildDecorator(tsNode)

	// Expressions
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "statement_identifier":
		return b.buildIdentifier(tsNode)
	case "private_property_identifier":
		return b.buildPrivateIdentifier(tsNode)
	case "undefined":
		return b.buildIdentifier(tsNode)
	case "string", "number", "true", "false", "null", "regex":
		return b.buildLiteral(tsNode)
	case "template_string":
		return b.buildTemplateLiteral(tsNode)
	case "this":
		return b.newNode(NodeThisExpression, tsNode)
	case "super":
		return b.newNode(NodeSuper, tsNode)
	case "array":
		return b.buildArrayExpression(tsNode)
	case "object":
		return b.buildObjectExpression(tsNode)
	case "pair":
		return b.buildProperty(tsNode)
	case "spread_element":
		return b.buildArgumentNode(NodeSpreadElement, tsNode)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "new_expression":
		return b.buildNewExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "subscript_expression":
		return b.buildSubscriptExpression(tsNode)
	case "binary_expression":
		return b.buildBinaryExpression(tsNode)
	case "unary_expression":
		return b.buildUnaryExpression(tsNode)
	case "update_expression":
		return b.buildUpdateExpression(tsNode)
	case "assignment_expression", "augmented_assignment_expression":
		return b.buildAssignmentExpression(tsNode)
	case "ternary_expression":
		return b.buildConditionalExpression(tsNode)
	case "sequence_expression":
		return b.buildSequenceExpression(tsNode)
	case "await_expression":
		return b.buildArgumentNode(NodeAwaitExpression, tsNode)
	case "yield_expression":
		return b.buildYieldExpression(tsNode)
	case "parenthesized_expression", "parenthesized_type":
		return b.unwrap(tsNode)
	case "meta_property":
		return b.buildMetaProperty(tsNode)

	// JSX
	case "jsx_element":
		return b.buildJSXElement(tsNode)
	case "jsx_self_closing_element":
		return b.buildJSXSelfClosingElement(tsNode)
	case "jsx_opening_element":
		return b.buildJSXOpeningElement(tsNode, false)
	case "jsx_closing_element":
		return b.buildJSXClosingElement(tsNode)
	case "jsx_attribute":
		return b.buildJSXAttribute(tsNode)
	case "jsx_expression":
		return b.buildJSXExpression(tsNode, false)
	case "jsx_text", "html_character_reference":
		return b.buildJSXText(tsNode)

	// TypeScript
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation":
		return b.buildTypeAnnotation(tsNode)
	case "type_alias_declaration":
		return b.buildTypeAlias(tsNode)
	case "interface_declaration":
		return b.buildInterface(tsNode)
	case "enum_declaration":
		return b.buildEnum(tsNode)
	case "property_signature":
		return b.buildPropertySignature(tsNode)
	case "method_signature":
		return b.buildMethodSignature(tsNode)
	case "type_parameters":
		return b.buildTypeParameters(NodeTSTypeParameterDeclaration, tsNode)
	case "type_arguments":
		return b.buildTypeParameters(NodeTSTypeParameterInstantiation, tsNode)
	case "type_parameter":
		return b.buildTypeParameter(tsNode)
	case "type_identifier", "generic_type", "nested_type_identifier":
		return b.buildTypeReference(tsNode)
	case "predefined_type":
		return b.buildPredefinedType(tsNode)
	case "union_type":
		return b.buildCompositeType(NodeTSUnionType, tsNode)
	case "intersection_type":
		return b.buildCompositeType(NodeTSIntersectionType, tsNode)
	case "object_type":
		return b.buildTypeLiteral(tsNode)
	case "as_expression":
		return b.buildTypeCast(NodeTSAsExpression, tsNode)
	case "satisfies_expression":
		return b.buildTypeCast(NodeTSSatisfiesExpression, tsNode)
	case "non_null_expression":
		return b.buildNonNullExpression(tsNode)
	case "type_assertion":
		return b.buildTypeAssertion(tsNode)
	case "ambient_declaration":
		return b.buildAmbientDeclaration(tsNode)
	}

	return b.buildGenericNode(tsNode)
}

// buildProgram builds the root node. Its span always covers the whole
// source, leading and trailing trivia included.
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	if beforeBuild != nil {
		beforeBuild(tsNode.Type())
	}
	node := b.spanNode(NodeProgram, 0, len(b.source))
	node.Body = Many(b.statements(tsNode))
	return node
}

// convertChild converts an optional child. A panic raised while converting
// the subtree is recovered and the child is omitted, so siblings and the
// parent still convert.
func (b *ASTBuilder) convertChild(tsNode *sitter.Node) (node *Node) {
	if tsNode == nil || tsNode.IsNull() {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			b.recovered++
			b.logger.Debug("dropped subtree after conversion failure",
				slog.String("type", tsNode.Type()),
				slog.Int("start", int(tsNode.StartByte())),
				slog.Any("panic", r))
			node = nil
		}
	}()
	return b.buildNode(tsNode)
}

// convertAll converts each node, dropping any that yield nothing
func (b *ASTBuilder) convertAll(tsNodes []*sitter.Node) []*Node {
	if len(tsNodes) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(tsNodes))
	for _, c := range tsNodes {
		if n := b.convertChild(c); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// statements converts every named, non-trivia child of a statement container
func (b *ASTBuilder) statements(tsNode *sitter.Node) []*Node {
	nodes := b.convertAll(b.namedChildren(tsNode))
	if nodes == nil {
		nodes = []*Node{}
	}
	return nodes
}

// unwrap converts the single inner node of a parenthesized expression or type
func (b *ASTBuilder) unwrap(tsNode *sitter.Node) *Node {
	inner := b.firstNamed(tsNode)
	if inner == nil {
		return b.buildGenericNode(tsNode)
	}
	return b.convertChild(inner)
}

// buildGenericNode builds a payload-free node for constructs without a
// dedicated converter
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	return b.newNode(genericKind(tsNode.Type()), tsNode)
}

var genericKinds = map[string]NodeType{
	"with_statement":            NodeWithStatement,
	"object_pattern":            NodeObjectPattern,
	"array_pattern":             NodeArrayPattern,
	"assignment_pattern":        NodeAssignmentPattern,
	"object_assignment_pattern": NodeAssignmentPattern,
	"rest_pattern":              NodeRestElement,
	"pair_pattern":              NodePattern,
	"import":                    NodeImportExpression,
	"array_type":                NodeTSArrayType,
	"tuple_type":                NodeTSTupleType,
	"function_type":             NodeTSFunctionType,
	"constructor_type":          NodeTSConstructorType,
	"literal_type":              NodeTSLiteralType,
	"type_query":                NodeTSTypeQuery,
	"index_type_query":          NodeTSTypeOperator,
	"readonly_type":             NodeTSTypeOperator,
	"lookup_type":               NodeTSIndexedAccessType,
	"conditional_type":          NodeTSConditionalType,
	"infer_type":                NodeTSInferType,
	"mapped_type_clause":        NodeTSMappedType,
	"template_literal_type":     NodeTSTemplateLiteralType,
	"type_predicate":            NodeTSTypePredicate,
	"type_predicate_annotation": NodeTSTypeAnnotation,
	"asserts":                   NodeTSTypePredicate,
	"asserts_annotation":        NodeTSTypeAnnotation,
	"index_signature":           NodeTSIndexSignature,
	"call_signature":            NodeTSCallSignatureDeclaration,
	"construct_signature":       NodeTSConstructSignatureDeclaration,
	"internal_module":           NodeTSModuleDeclaration,
	"module":                    NodeTSModuleDeclaration,
	"function_signature":        NodeTSDeclareFunction,
	"import_alias":              NodeTSImportEqualsDeclaration,
	"this_type":                 NodeTSType,
	"existential_type":          NodeTSType,
	"optional_type":             NodeTSType,
	"rest_type":                 NodeTSType,
	"jsx_namespace_name":        NodeJSXNamespacedName,
	"instantiation_expression":  NodeExpression,
	"glimmer_template":          NodeExpression,
	"ERROR":                     NodeUnknown,
}

// genericKind picks the best vocabulary discriminator for a tree-sitter type
func genericKind(tsType string) NodeType {
	if kind, ok := genericKinds[tsType]; ok {
		return kind
	}
	switch {
	case strings.HasSuffix(tsType, "_statement"):
		return NodeStatement
	case strings.HasSuffix(tsType, "_declaration"), strings.HasSuffix(tsType, "_signature"):
		return NodeDeclaration
	case strings.HasSuffix(tsType, "_pattern"):
		return NodePattern
	case strings.HasSuffix(tsType, "_type"):
		return NodeTSType
	case strings.HasSuffix(tsType, "_expression"):
		return NodeExpression
	}
	return NodeUnknown
}

// newNode creates a node spanning tsNode
func (b *ASTBuilder) newNode(kind NodeType, tsNode *sitter.Node) *Node {
	return b.spanNode(kind, int(tsNode.StartByte()), int(tsNode.EndByte()))
}

// spanNode creates a node over [start, end), clamped to the source
func (b *ASTBuilder) spanNode(kind NodeType, start, end int) *Node {
	start = clamp(start, 0, len(b.source))
	end = clamp(end, start, len(b.source))
	node := NewNode(kind)
	node.Span = Span{Start: start, End: end}
	node.StartLine, node.EndLine = b.lines.LinesOf(node.Span)
	return node
}

// text returns the source text of a tree-sitter node
func (b *ASTBuilder) text(tsNode *sitter.Node) string {
	if tsNode == nil {
		return ""
	}
	return TextOf(Span{Start: int(tsNode.StartByte()), End: int(tsNode.EndByte())}, b.source)
}

// field returns the first named child stored under fieldName
func (b *ASTBuilder) field(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !isTrivia(child) && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// fields returns every named child stored under fieldName
func (b *ASTBuilder) fields(tsNode *sitter.Node, fieldName string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !isTrivia(child) && tsNode.FieldNameForChild(i) == fieldName {
			out = append(out, child)
		}
	}
	return out
}

// token returns the anonymous token stored under fieldName, such as an
// operator
func (b *ASTBuilder) token(tsNode *sitter.Node, fieldName string) string {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if tsNode.FieldNameForChild(i) == fieldName {
			if child := tsNode.Child(i); child != nil {
				return b.text(child)
			}
		}
	}
	return ""
}

// hasToken reports whether tsNode has an anonymous child token tok
func (b *ASTBuilder) hasToken(tsNode *sitter.Node, tok string) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == tok {
			return true
		}
	}
	return false
}

// namedChildren returns the named children of tsNode, comments excluded
func (b *ASTBuilder) namedChildren(tsNode *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !isTrivia(child) {
			out = append(out, child)
		}
	}
	return out
}

// namedChildrenOf returns the named children of the given tree-sitter types
func (b *ASTBuilder) namedChildrenOf(tsNode *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range b.namedChildren(tsNode) {
		for _, t := range types {
			if child.Type() == t {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// firstNamed returns the first named, non-trivia child
func (b *ASTBuilder) firstNamed(tsNode *sitter.Node) *sitter.Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !isTrivia(child) {
			return child
		}
	}
	return nil
}

// isTrivia checks if a node is trivia (comments, shebang)
func isTrivia(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "comment", "html_comment", "hash_bang_line", "":
		return true
	}
	return false
}

// scan collects comments and syntax errors in a single pass over the CST.
// Errors nested inside an ERROR node are reported once, at the outermost node.
func (b *ASTBuilder) scan(root *sitter.Node) {
	type entry struct {
		node    *sitter.Node
		inError bool
	}
	stack := []entry{{node: root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := e.node

		switch t := n.Type(); {
		case t == "comment" || t == "html_comment":
			b.addComment(n)
			continue
		case n.IsMissing():
			if !e.inError {
				b.addDiagnostic(n, fmt.Sprintf("missing %s", t))
			}
			continue
		case t == "ERROR":
			if !e.inError {
				b.addDiagnostic(n, b.errorMessage(n))
			}
			e.inError = true
		}

		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child != nil {
				stack = append(stack, entry{node: child, inError: e.inError})
			}
		}
	}
}

func (b *ASTBuilder) addComment(tsNode *sitter.Node) {
	raw := b.text(tsNode)
	comment := Comment{
		Span: Span{Start: int(tsNode.StartByte()), End: int(tsNode.EndByte())},
		Line: b.lines.LineAt(int(tsNode.StartByte())),
	}
	switch {
	case strings.HasPrefix(raw, "/*"):
		comment.IsBlock = true
		comment.Text = strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
	case strings.HasPrefix(raw, "//"):
		comment.Text = strings.TrimPrefix(raw, "//")
	case strings.HasPrefix(raw, "<!--"):
		comment.Text = strings.TrimPrefix(raw, "<!--")
	case strings.HasPrefix(raw, "-->"):
		comment.Text = strings.TrimPrefix(raw, "-->")
	default:
		comment.Text = raw
	}
	b.comments = append(b.comments, comment)
}

func (b *ASTBuilder) addDiagnostic(tsNode *sitter.Node, message string) {
	span := Span{Start: int(tsNode.StartByte()), End: int(tsNode.EndByte())}
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Message:  message,
		Span:     span,
		Line:     b.lines.LineAt(span.Start),
		Severity: SeverityError,
	})
}

const maxSnippet = 24

func (b *ASTBuilder) errorMessage(tsNode *sitter.Node) string {
	snippet := strings.TrimSpace(b.text(tsNode))
	if snippet == "" {
		return "syntax error"
	}
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	if len(snippet) > maxSnippet {
		cut := maxSnippet
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut] + "..."
	}
	return fmt.Sprintf("unexpected %q", snippet)
}
