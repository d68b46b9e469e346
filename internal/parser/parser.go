package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps a tree-sitter parser configured for one source type. A Parser
// is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser     *sitter.Parser
	sourceType SourceType
	logger     *slog.Logger
}

// NewParser creates a parser for the given source type
func NewParser(sourceType SourceType) (*Parser, error) {
	st, err := ParseSourceType(string(sourceType))
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(st))

	return &Parser{
		parser:     parser,
		sourceType: st,
		logger:     slog.Default(),
	}, nil
}

// NewJavaScriptParser creates a module-mode JavaScript parser
func NewJavaScriptParser() *Parser {
	p, _ := NewParser(SourceModule)
	return p
}

// NewTypeScriptParser creates a TSX-capable TypeScript parser
func NewTypeScriptParser() *Parser {
	p, _ := NewParser(SourceTSX)
	return p
}

func languageFor(st SourceType) *sitter.Language {
	switch st {
	case SourceTSX:
		return tsx.GetLanguage()
	case SourceTS, SourceTypeScript:
		return typescript.GetLanguage()
	}
	return javascript.GetLanguage()
}

// WithLogger sets the logger used for conversion diagnostics
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// SourceType returns the source type the parser was created for
func (p *Parser) SourceType() SourceType {
	return p.sourceType
}

// IsTypeScript returns true if this parser is configured for TypeScript
func (p *Parser) IsTypeScript() bool {
	return p.sourceType.IsTypeScript()
}

// Parse parses source and converts the result into the normalized tree.
//
// Syntax errors never fail the call: they are reported in ParseResult.Errors
// and the tree is still built. An error is returned only when tree-sitter
// produced no tree or the root could not be constructed.
func (p *Parser) Parse(ctx context.Context, source []byte) (result *ParseResult, err error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse: no tree produced")
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("parse: no root node in parse tree")
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrConversionFailed, r)
		}
	}()

	builder := NewASTBuilder(source, p.logger)
	program := builder.Build(rootNode)

	return &ParseResult{
		Program:    program,
		Errors:     builder.Diagnostics(),
		Comments:   builder.Comments(),
		SourceType: p.sourceType,
		Lines:      builder.lines.TotalLines(),
		Panicked:   builder.Recovered() > 0,
	}, nil
}

// ParseString parses source code held in a string
func (p *Parser) ParseString(ctx context.Context, source string) (*ParseResult, error) {
	return p.Parse(ctx, []byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseSource parses source with a throwaway parser of the given type
func ParseSource(ctx context.Context, source []byte, sourceType SourceType) (*ParseResult, error) {
	p, err := NewParser(sourceType)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(ctx, source)
}

// ParseFile reads and parses a file, selecting the grammar from its extension
func ParseFile(ctx context.Context, filename string) (*ParseResult, []byte, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	result, err := ParseSource(ctx, source, SourceTypeFromPath(filename))
	if err != nil {
		return nil, source, fmt.Errorf("%s: %w", filename, err)
	}
	return result, source, nil
}
