package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ludo-technologies/jsast/domain"
)

// ParseUseCase orchestrates the parse workflow: resolve inputs, parse them
// and render the response
type ParseUseCase struct {
	service    domain.ParseService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewParseUseCase creates a new parse use case
func NewParseUseCase(service domain.ParseService, formatter domain.OutputFormatter) *ParseUseCase {
	return &ParseUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute resolves req.Paths into source files, parses them and, when
// req.OutputWriter is set, writes the response in req.OutputFormat
func (uc *ParseUseCase) Execute(ctx context.Context, req domain.ParseRequest) (*domain.ParseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := uc.resolveFiles(req)
	if err != nil {
		return nil, err
	}
	req.Paths = files

	response, err := uc.service.Parse(ctx, req)
	if err != nil {
		var domainErr domain.DomainError
		if errors.As(err, &domainErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.NewDomainError(domain.ErrCodeParseError, "parse failed", err)
	}

	if req.OutputWriter != nil && uc.formatter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return response, err
		}
	}

	return response, nil
}

// WalkFile parses a single file and returns its walk listing in the order
// and depth limit of req
func (uc *ParseUseCase) WalkFile(ctx context.Context, filePath string, req domain.ParseRequest) (*domain.FileParseResult, error) {
	if !uc.fileHelper.IsValidSourceFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a JavaScript/TypeScript file: %s", filePath), nil)
	}

	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	req.ShowTree = true
	return uc.service.ParseFile(ctx, filePath, req)
}

func (uc *ParseUseCase) resolveFiles(req domain.ParseRequest) ([]string, error) {
	uc.fileHelper.WithGitignore(req.RespectGitignore)

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no JavaScript/TypeScript files found in the specified paths", nil)
	}
	return files, nil
}

// ParseUseCaseBuilder provides a builder pattern for creating ParseUseCase
type ParseUseCaseBuilder struct {
	service    domain.ParseService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewParseUseCaseBuilder creates a new builder
func NewParseUseCaseBuilder() *ParseUseCaseBuilder {
	return &ParseUseCaseBuilder{}
}

// WithService sets the parse service
func (b *ParseUseCaseBuilder) WithService(service domain.ParseService) *ParseUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ParseUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ParseUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *ParseUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ParseUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ParseUseCase with the configured dependencies
func (b *ParseUseCaseBuilder) Build() (*ParseUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("parse service is required")
	}

	uc := &ParseUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
