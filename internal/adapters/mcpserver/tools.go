package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	service "github.com/okian/bottleneck/internal/app"
	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/internal/domain/model"
	"github.com/okian/bottleneck/internal/domain/types"
	"github.com/okian/bottleneck/pkg/logger"
)

// Code classifies tool errors for the calling model.
type Code string

// Tool error codes.
const (
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeUnavailable   Code = "UNAVAILABLE"
	CodeInternalError Code = "INTERNAL_ERROR"
)

// Dependencies is the subset of the service the tools call.
type Dependencies interface {
	Analyze(ctx context.Context, req types.BuildRequest) (types.Report, error)
	Search(ctx context.Context, kind model.Kind, query string, limit int) ([]model.Named, error)
	Lookup(ctx context.Context, kind model.Kind, name string) (model.Named, error)
}

// Register adds every tool to server.
func Register(server *mcp.Server, deps Dependencies, log logger.Logger) {
	addTool(server, &mcp.Tool{
		Name:        "list_components",
		Description: "lists CPU, GPU or motherboard names in catalog order, optionally filtered by a case-insensitive substring",
	}, func(ctx context.Context, input ListComponentsInput) (*mcp.CallToolResult, ListComponentsOutput, error) {
		return ListComponents(ctx, deps, input)
	})

	addTool(server, &mcp.Tool{
		Name:        "lookup_component",
		Description: "returns the full record of one component by exact name",
	}, func(ctx context.Context, input LookupComponentInput) (*mcp.CallToolResult, LookupComponentOutput, error) {
		return LookupComponent(ctx, deps, input)
	})

	addTool(server, &mcp.Tool{
		Name:        "compute_bottleneck",
		Description: "scores a CPU, GPU and motherboard build: bottleneck percentage, limiting side, socket compatibility, upgrade recommendation and suggestions",
	}, func(ctx context.Context, input ComputeBottleneckInput) (*mcp.CallToolResult, types.Report, error) {
		res, out, err := ComputeBottleneck(ctx, deps, input)
		if res == nil {
			log.Debug(ctx, "compute_bottleneck",
				logger.String("cpu", out.CPU),
				logger.String("gpu", out.GPU),
				logger.Float64("percentage", out.Percentage),
			)
		}
		return res, out, err
	})
}

// addTool registers h with a raw handler. A non-nil result from h is sent
// as is; otherwise out becomes the structured content.
func addTool[In, Out any](server *mcp.Server, tool *mcp.Tool, h func(context.Context, In) (*mcp.CallToolResult, Out, error)) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tool %s: input schema: %v", tool.Name, err))
	}
	tool.InputSchema = schema

	server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input In
		if args := req.Params.Arguments; len(args) > 0 {
			if err := json.Unmarshal(args, &input); err != nil {
				return callError(CodeInvalidInput, fmt.Sprintf("decode arguments: %v", err), ""), nil
			}
		}

		res, out, err := h(ctx, input)
		if err != nil {
			return callError(CodeInternalError, err.Error(), ""), nil
		}
		if res != nil {
			return res, nil
		}

		body, err := json.Marshal(out)
		if err != nil {
			return callError(CodeInternalError, fmt.Sprintf("encode result: %v", err), ""), nil
		}
		return &mcp.CallToolResult{
			StructuredContent: json.RawMessage(body),
			Content:           []mcp.Content{&mcp.TextContent{Text: string(body)}},
		}, nil
	})
}

// ListComponents tool

type ListComponentsInput struct {
	Kind  string `json:"kind" jsonschema:"cpu, gpu or motherboard"`
	Query string `json:"query,omitempty" jsonschema:"case-insensitive substring of the name"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum names to return; 0 means the server maximum"`
}

type ListComponentsOutput struct {
	Kind  model.Kind `json:"kind"`
	Count int        `json:"count"`
	Names []string   `json:"names"`
}

func ListComponents(ctx context.Context, deps Dependencies, input ListComponentsInput) (*mcp.CallToolResult, ListComponentsOutput, error) {
	kind, err := model.ParseKind(input.Kind)
	if err != nil {
		return callError(CodeInvalidInput, err.Error(), "kind must be cpu, gpu or motherboard"), ListComponentsOutput{}, nil
	}
	if input.Limit < 0 {
		return callError(CodeInvalidInput, "limit must not be negative", ""), ListComponentsOutput{}, nil
	}
	items, err := deps.Search(ctx, kind, input.Query, input.Limit)
	if err != nil {
		return serviceError(err), ListComponentsOutput{}, nil
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.ComponentName()
	}
	return nil, ListComponentsOutput{Kind: kind, Count: len(names), Names: names}, nil
}

// LookupComponent tool

type LookupComponentInput struct {
	Kind string `json:"kind" jsonschema:"cpu, gpu or motherboard"`
	Name string `json:"name" jsonschema:"exact catalog name"`
}

// LookupComponentOutput carries exactly one of CPU, GPU or Motherboard.
type LookupComponentOutput struct {
	Kind        model.Kind         `json:"kind"`
	CPU         *model.CPU         `json:"cpu,omitempty"`
	GPU         *model.GPU         `json:"gpu,omitempty"`
	Motherboard *model.Motherboard `json:"motherboard,omitempty"`
}

func LookupComponent(ctx context.Context, deps Dependencies, input LookupComponentInput) (*mcp.CallToolResult, LookupComponentOutput, error) {
	kind, err := model.ParseKind(input.Kind)
	if err != nil {
		return callError(CodeInvalidInput, err.Error(), "kind must be cpu, gpu or motherboard"), LookupComponentOutput{}, nil
	}
	if input.Name == "" {
		return callError(CodeInvalidInput, "name is required", ""), LookupComponentOutput{}, nil
	}
	rec, err := deps.Lookup(ctx, kind, input.Name)
	if err != nil {
		return serviceError(err), LookupComponentOutput{}, nil
	}

	out := LookupComponentOutput{Kind: kind}
	switch r := rec.(type) {
	case model.CPU:
		out.CPU = &r
	case model.GPU:
		out.GPU = &r
	case model.Motherboard:
		out.Motherboard = &r
	default:
		return callError(CodeInternalError, fmt.Sprintf("unexpected record type %T", rec), ""), LookupComponentOutput{}, nil
	}
	return nil, out, nil
}

// ComputeBottleneck tool

type ComputeBottleneckInput struct {
	CPU         string `json:"cpu" jsonschema:"exact CPU name"`
	GPU         string `json:"gpu" jsonschema:"exact GPU name"`
	Motherboard string `json:"motherboard" jsonschema:"exact motherboard name"`
}

func ComputeBottleneck(ctx context.Context, deps Dependencies, input ComputeBottleneckInput) (*mcp.CallToolResult, types.Report, error) {
	report, err := deps.Analyze(ctx, types.BuildRequest{
		CPU:         input.CPU,
		GPU:         input.GPU,
		Motherboard: input.Motherboard,
	})
	if err != nil {
		return serviceError(err), types.Report{}, nil
	}
	return nil, report, nil
}

func serviceError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, service.ErrMissingField):
		return callError(CodeInvalidInput, err.Error(), "cpu, gpu and motherboard are all required")
	case errors.Is(err, catalog.ErrNotFound):
		return callError(CodeNotFound, err.Error(), "use list_components to find exact names")
	case errors.Is(err, service.ErrNotStarted):
		return callError(CodeUnavailable, err.Error(), "")
	default:
		return callError(CodeInternalError, err.Error(), "")
	}
}

func callError(code Code, msg, hint string) *mcp.CallToolResult {
	errObj := map[string]any{"code": code, "message": msg}
	if hint != "" {
		errObj["hint"] = hint
	}
	return &mcp.CallToolResult{
		IsError:           true,
		StructuredContent: errObj,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %s", code, msg)},
		},
	}
}
