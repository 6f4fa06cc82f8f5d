package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/attune/internal/matching"
	"github.com/kalambet/attune/internal/storage"
	"github.com/kalambet/attune/internal/taxonomy"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store   *storage.Store
	Matcher *matching.Matcher
}

// NewMCPServer creates an MCP server exposing the matcher to local agents.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"attune",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("attune — therapist compatibility matching over locally stored survey answers."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("match_therapists",
			mcp.WithDescription("Rank matchable therapists for a client by survey compatibility and return scores with per-dimension breakdowns."),
			mcp.WithString("user_id", mcp.Description("Client entity ID"), mcp.Required()),
			mcp.WithNumber("top_k", mcp.Description("Maximum number of results (default 20)")),
		),
		mcpMatchTherapists(deps),
	)

	s.AddTool(
		mcp.NewTool("get_vocabulary",
			mcp.WithDescription("Return the per-category survey option vocabularies, including built-in defaults for the core matching categories."),
		),
		mcpGetVocabulary(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"attune://taxonomy",
			"Matching Taxonomy",
			mcp.WithResourceDescription("Canonical category tables and ordinal scales the matcher scores against"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceTaxonomy(),
	)

	return s
}

func mcpMatchTherapists(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}

		topK := req.GetInt("top_k", matching.DefaultTopK)
		if topK <= 0 {
			topK = matching.DefaultTopK
		}
		if topK > maxTopK {
			topK = maxTopK
		}

		if _, err := deps.Store.GetEntity(userID); err != nil {
			return mcpError(fmt.Sprintf("entity %s not found", userID)), nil
		}

		results, err := deps.Matcher.Rank(ctx, userID, topK)
		if err != nil {
			return mcpError(fmt.Sprintf("ranking failed: %v", err)), nil
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetVocabulary(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		vocab, err := matching.BuildVocabulary(deps.Store)
		if err != nil {
			return mcpError(fmt.Sprintf("building vocabulary: %v", err)), nil
		}
		b, err := json.Marshal(vocab.ByCategory)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal vocabulary: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceTaxonomy() server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		payload := map[string]any{
			"issues":        taxonomy.Issues,
			"emotional":     taxonomy.Emotional,
			"communication": taxonomy.Communication,
			"depth":         taxonomy.DepthScale,
			"pacing":        taxonomy.PacingScale,
			"boundaries":    taxonomy.BoundaryScale,
		}
		b, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling taxonomy: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
