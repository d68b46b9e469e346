package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJSX(t *testing.T, code string) *Node {
	t.Helper()
	result, err := ParseSource(context.Background(), []byte(code), SourceJSX)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	return result.Program
}

func TestJSX_ElementWithAttributes(t *testing.T) {
	root := parseJSX(t, `const el = <Button kind="primary" onClick={handle} {...rest} disabled>Go</Button>;`)

	elements := FindAll(root, NodeJSXElement)
	require.Len(t, elements, 1)
	el := elements[0]

	require.NotNil(t, el.OpeningElement)
	require.NotNil(t, el.ClosingElement)
	assert.False(t, el.OpeningElement.SelfClosing)
	assert.Equal(t, NodeJSXIdentifier, el.OpeningElement.NameNode.Type)
	assert.Equal(t, "Button", el.OpeningElement.NameNode.Name)
	assert.Equal(t, "Button", el.ClosingElement.NameNode.Name)

	attrs := el.OpeningElement.Attributes
	require.Len(t, attrs, 4)
	assert.Equal(t, NodeJSXAttribute, attrs[0].Type)
	assert.Equal(t, "kind", attrs[0].Name)
	require.NotNil(t, attrs[0].ValueNode)
	assert.Equal(t, "primary", attrs[0].ValueNode.Value)

	require.NotNil(t, attrs[1].ValueNode)
	assert.Equal(t, NodeJSXExpressionContainer, attrs[1].ValueNode.Type)
	assert.Equal(t, "handle", attrs[1].ValueNode.Expression.Name)

	assert.Equal(t, NodeJSXSpreadAttribute, attrs[2].Type)
	require.NotNil(t, attrs[2].Argument)
	assert.Equal(t, "rest", attrs[2].Argument.Name)

	assert.Equal(t, "disabled", attrs[3].Name)
	assert.Nil(t, attrs[3].ValueNode)

	require.Len(t, el.Children, 1)
	assert.Equal(t, NodeJSXText, el.Children[0].Type)
	assert.Equal(t, "Go", el.Children[0].Value)
}

func TestJSX_SelfClosing(t *testing.T) {
	root := parseJSX(t, `const el = <Icon name="x" />;`)

	elements := FindAll(root, NodeJSXElement)
	require.Len(t, elements, 1)
	assert.True(t, elements[0].OpeningElement.SelfClosing)
	assert.Nil(t, elements[0].ClosingElement)
	assert.Empty(t, elements[0].Children)
}

func TestJSX_Fragment(t *testing.T) {
	root := parseJSX(t, `const f = <><a /><b /></>;`)

	fragments := FindAll(root, NodeJSXFragment)
	require.Len(t, fragments, 1)
	require.Len(t, fragments[0].Children, 2)
	for _, c := range fragments[0].Children {
		assert.Equal(t, NodeJSXElement, c.Type)
	}
}

func TestJSX_MemberAndNamespacedNames(t *testing.T) {
	root := parseJSX(t, `const el = <ui.Form.Field xlink:href="#a" />;`)

	opening := FindAll(root, NodeJSXOpeningElement)
	require.Len(t, opening, 1)

	name := opening[0].NameNode
	require.NotNil(t, name)
	assert.Equal(t, NodeJSXMemberExpression, name.Type)
	require.NotNil(t, name.Property)
	assert.Equal(t, "Field", name.Property.Name)
	require.NotNil(t, name.Object)
	assert.Equal(t, NodeJSXMemberExpression, name.Object.Type)

	require.Len(t, opening[0].Attributes, 1)
	attrName := opening[0].Attributes[0].NameNode
	require.NotNil(t, attrName)
	assert.Equal(t, NodeJSXNamespacedName, attrName.Type)
	assert.Equal(t, "xlink:href", attrName.Name)
}

func TestJSX_ExpressionChildren(t *testing.T) {
	root := parseJSX(t, `const el = <ul>{items}{/* empty */}{...spread}</ul>;`)

	el := FindAll(root, NodeJSXElement)[0]
	require.Len(t, el.Children, 3)

	assert.Equal(t, NodeJSXExpressionContainer, el.Children[0].Type)
	assert.Equal(t, "items", el.Children[0].Expression.Name)

	assert.Equal(t, NodeJSXExpressionContainer, el.Children[1].Type)
	require.NotNil(t, el.Children[1].Expression)
	assert.Equal(t, NodeJSXEmptyExpression, el.Children[1].Expression.Type)

	assert.Equal(t, NodeJSXSpreadChild, el.Children[2].Type)
	require.NotNil(t, el.Children[2].Expression)
	assert.Equal(t, "spread", el.Children[2].Expression.Name)
}

func TestJSX_WalkReachesNestedElements(t *testing.T) {
	root := parseJSX(t, `const el = <A><B><C /></B></A>;`)

	var names []string
	for n := range Walk(root, WalkOptions{}) {
		if n.Type == NodeJSXOpeningElement {
			names = append(names, n.NameNode.Name)
		}
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}
