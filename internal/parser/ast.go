package parser

import (
	"fmt"
	"strings"
)

// NodeType represents the type of AST node
type NodeType string

// PlaceholderName is the name given to bindings that cannot be reduced to a
// single identifier, such as destructuring patterns in parameter position
const PlaceholderName = "param"

// JavaScript/TypeScript AST node types
const (
	// Program and structure
	NodeProgram NodeType = "Program"

	// Statements
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeEmptyStatement      NodeType = "EmptyStatement"
	NodeDebuggerStatement   NodeType = "DebuggerStatement"
	NodeWithStatement       NodeType = "WithStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeLabeledStatement    NodeType = "LabeledStatement"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeContinueStatement   NodeType = "ContinueStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeSwitchStatement     NodeType = "SwitchStatement"
	NodeSwitchCase          NodeType = "SwitchCase"
	NodeThrowStatement      NodeType = "ThrowStatement"
	NodeTryStatement        NodeType = "TryStatement"
	NodeCatchClause         NodeType = "CatchClause"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeDoWhileStatement    NodeType = "DoWhileStatement"
	NodeForStatement        NodeType = "ForStatement"
	NodeForInStatement      NodeType = "ForInStatement"
	NodeForOfStatement      NodeType = "ForOfStatement"

	// Declarations
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
	NodeClassBody           NodeType = "ClassBody"
	NodeMethodDefinition    NodeType = "MethodDefinition"
	NodePropertyDefinition  NodeType = "PropertyDefinition"
	NodeStaticBlock         NodeType = "StaticBlock"
	NodeFormalParameter     NodeType = "FormalParameter"
	NodeDecorator           NodeType = "Decorator"

	// Module system (ESM)
	NodeImportDeclaration        NodeType = "ImportDeclaration"
	NodeImportSpecifier          NodeType = "ImportSpecifier"
	NodeImportDefaultSpecifier   NodeType = "ImportDefaultSpecifier"
	NodeImportNamespaceSpecifier NodeType = "ImportNamespaceSpecifier"
	NodeExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	NodeExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"
	NodeExportAllDeclaration     NodeType = "ExportAllDeclaration"
	NodeExportSpecifier          NodeType = "ExportSpecifier"

	// Expressions
	NodeIdentifier               NodeType = "Identifier"
	NodePrivateIdentifier        NodeType = "PrivateIdentifier"
	NodeLiteral                  NodeType = "Literal"
	NodeTemplateLiteral          NodeType = "TemplateLiteral"
	NodeTemplateElement          NodeType = "TemplateElement"
	NodeTaggedTemplateExpression NodeType = "TaggedTemplateExpression"
	NodeThisExpression           NodeType = "ThisExpression"
	NodeSuper                    NodeType = "Super"
	NodeArrayExpression          NodeType = "ArrayExpression"
	NodeObjectExpression         NodeType = "ObjectExpression"
	NodeProperty                 NodeType = "Property"
	NodeSpreadElement            NodeType = "SpreadElement"
	NodeFunctionExpression       NodeType = "FunctionExpression"
	NodeArrowFunctionExpression  NodeType = "ArrowFunctionExpression"
	NodeClassExpression          NodeType = "ClassExpression"
	NodeCallExpression           NodeType = "CallExpression"
	NodeNewExpression            NodeType = "NewExpression"
	NodeMemberExpression         NodeType = "MemberExpression"
	NodeUnaryExpression          NodeType = "UnaryExpression"
	NodeUpdateExpression         NodeType = "UpdateExpression"
	NodeBinaryExpression         NodeType = "BinaryExpression"
	NodeLogicalExpression        NodeType = "LogicalExpression"
	NodeAssignmentExpression     NodeType = "AssignmentExpression"
	NodeConditionalExpression    NodeType = "ConditionalExpression"
	NodeSequenceExpression       NodeType = "SequenceExpression"
	NodeAwaitExpression          NodeType = "AwaitExpression"
	NodeYieldExpression          NodeType = "YieldExpression"
	NodeImportExpression         NodeType = "ImportExpression"
	NodeMetaProperty             NodeType = "MetaProperty"

	// Patterns (always generic)
	NodeObjectPattern     NodeType = "ObjectPattern"
	NodeArrayPattern      NodeType = "ArrayPattern"
	NodeAssignmentPattern NodeType = "AssignmentPattern"
	NodeRestElement       NodeType = "RestElement"

	// JSX
	NodeJSXElement             NodeType = "JSXElement"
	NodeJSXOpeningElement      NodeType = "JSXOpeningElement"
	NodeJSXClosingElement      NodeType = "JSXClosingElement"
	NodeJSXFragment            NodeType = "JSXFragment"
	NodeJSXAttribute           NodeType = "JSXAttribute"
	NodeJSXSpreadAttribute     NodeType = "JSXSpreadAttribute"
	NodeJSXIdentifier          NodeType = "JSXIdentifier"
	NodeJSXMemberExpression    NodeType = "JSXMemberExpression"
	NodeJSXNamespacedName      NodeType = "JSXNamespacedName"
	NodeJSXText                NodeType = "JSXText"
	NodeJSXExpressionContainer NodeType = "JSXExpressionContainer"
	NodeJSXEmptyExpression     NodeType = "JSXEmptyExpression"
	NodeJSXSpreadChild         NodeType = "JSXSpreadChild"

	// TypeScript declarations and annotations
	NodeTSTypeAliasDeclaration       NodeType = "TSTypeAliasDeclaration"
	NodeTSInterfaceDeclaration       NodeType = "TSInterfaceDeclaration"
	NodeTSInterfaceBody              NodeType = "TSInterfaceBody"
	NodeTSInterfaceHeritage          NodeType = "TSInterfaceHeritage"
	NodeTSPropertySignature          NodeType = "TSPropertySignature"
	NodeTSMethodSignature            NodeType = "TSMethodSignature"
	NodeTSEnumDeclaration            NodeType = "TSEnumDeclaration"
	NodeTSEnumMember                 NodeType = "TSEnumMember"
	NodeTSTypeAnnotation             NodeType = "TSTypeAnnotation"
	NodeTSTypeReference              NodeType = "TSTypeReference"
	NodeTSTypeParameter              NodeType = "TSTypeParameter"
	NodeTSTypeParameterDeclaration   NodeType = "TSTypeParameterDeclaration"
	NodeTSTypeParameterInstantiation NodeType = "TSTypeParameterInstantiation"
	NodeTSUnionType                  NodeType = "TSUnionType"
	NodeTSIntersectionType           NodeType = "TSIntersectionType"
	NodeTSTypeLiteral                NodeType = "TSTypeLiteral"
	NodeTSAsExpression               NodeType = "TSAsExpression"
	NodeTSSatisfiesExpression        NodeType = "TSSatisfiesExpression"
	NodeTSNonNullExpression          NodeType = "TSNonNullExpression"
	NodeTSTypeAssertion              NodeType = "TSTypeAssertion"

	// TypeScript constructs kept generic
	NodeTSAnyKeyword                    NodeType = "TSAnyKeyword"
	NodeTSUnknownKeyword                NodeType = "TSUnknownKeyword"
	NodeTSNumberKeyword                 NodeType = "TSNumberKeyword"
	NodeTSStringKeyword                 NodeType = "TSStringKeyword"
	NodeTSBooleanKeyword                NodeType = "TSBooleanKeyword"
	NodeTSBigIntKeyword                 NodeType = "TSBigIntKeyword"
	NodeTSSymbolKeyword                 NodeType = "TSSymbolKeyword"
	NodeTSObjectKeyword                 NodeType = "TSObjectKeyword"
	NodeTSVoidKeyword                   NodeType = "TSVoidKeyword"
	NodeTSNeverKeyword                  NodeType = "TSNeverKeyword"
	NodeTSUndefinedKeyword              NodeType = "TSUndefinedKeyword"
	NodeTSNullKeyword                   NodeType = "TSNullKeyword"
	NodeTSArrayType                     NodeType = "TSArrayType"
	NodeTSTupleType                     NodeType = "TSTupleType"
	NodeTSFunctionType                  NodeType = "TSFunctionType"
	NodeTSConstructorType               NodeType = "TSConstructorType"
	NodeTSLiteralType                   NodeType = "TSLiteralType"
	NodeTSTypeQuery                     NodeType = "TSTypeQuery"
	NodeTSTypeOperator                  NodeType = "TSTypeOperator"
	NodeTSIndexedAccessType             NodeType = "TSIndexedAccessType"
	NodeTSConditionalType               NodeType = "TSConditionalType"
	NodeTSInferType                     NodeType = "TSInferType"
	NodeTSMappedType                    NodeType = "TSMappedType"
	NodeTSTemplateLiteralType           NodeType = "TSTemplateLiteralType"
	NodeTSTypePredicate                 NodeType = "TSTypePredicate"
	NodeTSQualifiedName                 NodeType = "TSQualifiedName"
	NodeTSIndexSignature                NodeType = "TSIndexSignature"
	NodeTSCallSignatureDeclaration      NodeType = "TSCallSignatureDeclaration"
	NodeTSConstructSignatureDeclaration NodeType = "TSConstructSignatureDeclaration"
	NodeTSModuleDeclaration             NodeType = "TSModuleDeclaration"
	NodeTSDeclareFunction               NodeType = "TSDeclareFunction"
	NodeTSImportEqualsDeclaration       NodeType = "TSImportEqualsDeclaration"
	NodeTSExportAssignment              NodeType = "TSExportAssignment"
	NodeTSNamespaceExportDeclaration    NodeType = "TSNamespaceExportDeclaration"

	// Fallback categories for constructs without a specific discriminator
	NodeStatement   NodeType = "Statement"
	NodeDeclaration NodeType = "Declaration"
	NodeExpression  NodeType = "Expression"
	NodePattern     NodeType = "Pattern"
	NodeTSType      NodeType = "TSType"
	NodeUnknown     NodeType = "Unknown"
)

var vocabulary = map[NodeType]struct{}{}

func init() {
	for _, kind := range allKinds {
		vocabulary[kind] = struct{}{}
	}
}

var allKinds = []NodeType{
	NodeProgram,
	NodeExpressionStatement, NodeBlockStatement, NodeEmptyStatement, NodeDebuggerStatement,
	NodeWithStatement, NodeReturnStatement, NodeLabeledStatement, NodeBreakStatement,
	NodeContinueStatement, NodeIfStatement, NodeSwitchStatement, NodeSwitchCase,
	NodeThrowStatement, NodeTryStatement, NodeCatchClause, NodeWhileStatement,
	NodeDoWhileStatement, NodeForStatement, NodeForInStatement, NodeForOfStatement,
	NodeFunctionDeclaration, NodeVariableDeclaration, NodeVariableDeclarator,
	NodeClassDeclaration, NodeClassBody, NodeMethodDefinition, NodePropertyDefinition,
	NodeStaticBlock, NodeFormalParameter, NodeDecorator,
	NodeImportDeclaration, NodeImportSpecifier, NodeImportDefaultSpecifier,
	NodeImportNamespaceSpecifier, NodeExportNamedDeclaration, NodeExportDefaultDeclaration,
	NodeExportAllDeclaration, NodeExportSpecifier,
	NodeIdentifier, NodePrivateIdentifier, NodeLiteral, NodeTemplateLiteral,
	NodeTemplateElement, NodeTaggedTemplateExpression, NodeThisExpression, NodeSuper,
	NodeArrayExpression, NodeObjectExpression, NodeProperty, NodeSpreadElement,
	NodeFunctionExpression, NodeArrowFunctionExpression, NodeClassExpression,
	NodeCallExpression, NodeNewExpression, NodeMemberExpression, NodeUnaryExpression,
	NodeUpdateExpression, NodeBinaryExpression, NodeLogicalExpression,
	NodeAssignmentExpression, NodeConditionalExpression, NodeSequenceExpression,
	NodeAwaitExpression, NodeYieldExpression, NodeImportExpression, NodeMetaProperty,
	NodeObjectPattern, NodeArrayPattern, NodeAssignmentPattern, NodeRestElement,
	NodeJSXElement, NodeJSXOpeningElement, NodeJSXClosingElement, NodeJSXFragment,
	NodeJSXAttribute, NodeJSXSpreadAttribute, NodeJSXIdentifier, NodeJSXMemberExpression,
	NodeJSXNamespacedName, NodeJSXText, NodeJSXExpressionContainer, NodeJSXEmptyExpression,
	NodeJSXSpreadChild,
	NodeTSTypeAliasDeclaration, NodeTSInterfaceDeclaration, NodeTSInterfaceBody,
	NodeTSInterfaceHeritage, NodeTSPropertySignature, NodeTSMethodSignature,
	NodeTSEnumDeclaration, NodeTSEnumMember, NodeTSTypeAnnotation, NodeTSTypeReference,
	NodeTSTypeParameter, NodeTSTypeParameterDeclaration, NodeTSTypeParameterInstantiation,
	NodeTSUnionType, NodeTSIntersectionType, NodeTSTypeLiteral, NodeTSAsExpression,
	NodeTSSatisfiesExpression, NodeTSNonNullExpression, NodeTSTypeAssertion,
	NodeTSAnyKeyword, NodeTSUnknownKeyword, NodeTSNumberKeyword, NodeTSStringKeyword,
	NodeTSBooleanKeyword, NodeTSBigIntKeyword, NodeTSSymbolKeyword, NodeTSObjectKeyword,
	NodeTSVoidKeyword, NodeTSNeverKeyword, NodeTSUndefinedKeyword, NodeTSNullKeyword,
	NodeTSArrayType, NodeTSTupleType, NodeTSFunctionType, NodeTSConstructorType,
	NodeTSLiteralType, NodeTSTypeQuery, NodeTSTypeOperator, NodeTSIndexedAccessType,
	NodeTSConditionalType, NodeTSInferType, NodeTSMappedType, NodeTSTemplateLiteralType,
	NodeTSTypePredicate, NodeTSQualifiedName, NodeTSIndexSignature,
	NodeTSCallSignatureDeclaration, NodeTSConstructSignatureDeclaration,
	NodeTSModuleDeclaration, NodeTSDeclareFunction, NodeTSImportEqualsDeclaration,
	NodeTSExportAssignment, NodeTSNamespaceExportDeclaration,
	NodeStatement, NodeDeclaration, NodeExpression, NodePattern, NodeTSType, NodeUnknown,
}

// Known reports whether t belongs to the closed node vocabulary
func (t NodeType) Known() bool {
	_, ok := vocabulary[t]
	return ok
}

// Kinds returns every node type of the vocabulary
func Kinds() []NodeType {
	out := make([]NodeType, len(allKinds))
	copy(out, allKinds)
	return out
}

// SlotKind tells which shape an ambiguous slot holds
type SlotKind uint8

const (
	SlotNone SlotKind = iota
	SlotOne
	SlotMany
)

// Slot holds a child role that is a single node for some kinds and a node
// list for others (body, consequent, extends)
type Slot struct {
	kind SlotKind
	one  *Node
	many []*Node
}

// One creates a slot holding a single node. A nil node gives an empty slot.
func One(n *Node) Slot {
	if n == nil {
		return Slot{}
	}
	return Slot{kind: SlotOne, one: n}
}

// Many creates a slot holding an ordered node list. An empty list is still a
// list: a block with no statements has a Many slot of length zero.
func Many(nodes []*Node) Slot {
	return Slot{kind: SlotMany, many: nodes}
}

// Kind returns the shape held by the slot
func (s Slot) Kind() SlotKind {
	return s.kind
}

// IsNone reports whether the slot is empty
func (s Slot) IsNone() bool {
	return s.kind == SlotNone
}

// Single returns the node held by a One slot
func (s Slot) Single() (*Node, bool) {
	if s.kind != SlotOne {
		return nil, false
	}
	return s.one, true
}

// List returns the nodes held by a Many slot
func (s Slot) List() ([]*Node, bool) {
	if s.kind != SlotMany {
		return nil, false
	}
	return s.many, true
}

// Nodes flattens the slot into a list, whatever its shape
func (s Slot) Nodes() []*Node {
	switch s.kind {
	case SlotOne:
		return []*Node{s.one}
	case SlotMany:
		return s.many
	}
	return nil
}

// Node represents a normalized AST node.
//
// Every node carries Type, Span and its inclusive line range. The remaining
// fields form the payload and only the ones declared for the node's type in
// the role schema are ever populated. Children are owned exclusively by their
// parent: there are no back-references and no shared subtrees.
type Node struct {
	Type      NodeType
	Span      Span
	StartLine int
	EndLine   int

	// Scalar leaf data
	Name     string // identifier, function, class and member names
	Operator string
	Kind     string // var/let/const, get/set/method/constructor, import kind
	Raw      string // raw literal text
	Value    any    // parsed literal value: string, float64, bool or nil
	Flags    string // regular expression flags

	Async       bool
	Generator   bool
	Computed    bool
	Optional    bool
	Shorthand   bool
	Prefix      bool
	Delegate    bool
	Await       bool
	SelfClosing bool
	Readonly    bool
	Const       bool
	Static      bool
	Abstract    bool
	Rest        bool
	Tail        bool
	Declare     bool

	// Single children
	ID             *Node
	Init           *Node
	Declaration    *Node
	ValueNode      *Node
	Key            *Node
	SuperClass     *Node
	Test           *Node
	Alternate      *Node
	Update         *Node
	Discriminant   *Node
	Block          *Node
	Handler        *Node
	Finalizer      *Node
	Param          *Node
	Left           *Node
	Right          *Node
	Expression     *Node
	Callee         *Node
	Object         *Node
	Property       *Node
	Argument       *Node
	Quasi          *Node
	Tag            *Node
	Source         *Node
	Local          *Node
	Imported       *Node
	Exported       *Node
	TypeAnnotation *Node
	TypeParameters *Node
	OpeningElement *Node
	ClosingElement *Node
	ReturnType     *Node
	Constraint     *Node
	Default        *Node
	Initializer    *Node
	Label          *Node
	TypeName       *Node
	NameNode       *Node // JSX element and attribute names

	// Child lists
	Params       []*Node
	Declarations []*Node
	Arguments    []*Node
	Properties   []*Node
	Elements     []*Node
	Quasis       []*Node
	Expressions  []*Node
	Specifiers   []*Node
	Members      []*Node
	Cases        []*Node
	Children     []*Node
	Attributes   []*Node
	Types        []*Node
	Decorators   []*Node
	Implements   []*Node

	// Ambiguous single-or-list children
	Body       Slot
	Consequent Slot
	Extends    Slot
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// Text returns the source text covered by the node
func (n *Node) Text(source []byte) string {
	if n == nil {
		return ""
	}
	return TextOf(n.Span, source)
}

// LineRange returns the inclusive, 1-based line range of the node
func (n *Node) LineRange() (int, int) {
	return n.StartLine, n.EndLine
}

// IsGeneric reports whether the node carries no structural payload beyond
// the common fields
func (n *Node) IsGeneric() bool {
	return len(Children(n)) == 0 && !n.hasScalars()
}

func (n *Node) hasScalars() bool {
	return n.Name != "" || n.Operator != "" || n.Kind != "" || n.Raw != "" ||
		n.Value != nil || n.Flags != "" ||
		n.Async || n.Generator || n.Computed || n.Optional || n.Shorthand ||
		n.Prefix || n.Delegate || n.Await || n.SelfClosing || n.Readonly ||
		n.Const || n.Static || n.Abstract || n.Rest || n.Tail || n.Declare
}

// String returns a string representation of the node
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(string(n.Type))
	if n.Name != "" {
		fmt.Fprintf(&sb, "(%s)", n.Name)
	}
	if n.StartLine == n.EndLine {
		fmt.Fprintf(&sb, " at %d %s", n.StartLine, n.Span)
	} else {
		fmt.Fprintf(&sb, " at %d-%d %s", n.StartLine, n.EndLine, n.Span)
	}
	return sb.String()
}

// IsStatement returns true if the node is a statement
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeExpressionStatement, NodeBlockStatement, NodeEmptyStatement,
		NodeDebuggerStatement, NodeWithStatement, NodeReturnStatement,
		NodeLabeledStatement, NodeBreakStatement, NodeContinueStatement,
		NodeIfStatement, NodeSwitchStatement, NodeThrowStatement, NodeTryStatement,
		NodeWhileStatement, NodeDoWhileStatement, NodeForStatement,
		NodeForInStatement, NodeForOfStatement, NodeStatement:
		return true
	}
	return false
}

// IsDeclaration returns true if the node declares a binding or a type
func (n *Node) IsDeclaration() bool {
	switch n.Type {
	case NodeFunctionDeclaration, NodeVariableDeclaration, NodeClassDeclaration,
		NodeImportDeclaration, NodeExportNamedDeclaration, NodeExportDefaultDeclaration,
		NodeExportAllDeclaration, NodeTSTypeAliasDeclaration, NodeTSInterfaceDeclaration,
		NodeTSEnumDeclaration, NodeTSModuleDeclaration, NodeTSDeclareFunction,
		NodeTSImportEqualsDeclaration, NodeDeclaration:
		return true
	}
	return false
}

// IsFunction returns true if the node is a function
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunctionDeclaration, NodeFunctionExpression, NodeArrowFunctionExpression,
		NodeMethodDefinition:
		return true
	}
	return false
}
