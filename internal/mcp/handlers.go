package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/ops"
	"github.com/hpungsan/sorteador/internal/session"
)

// Handlers holds dependencies for MCP tool handlers. Each call holds the
// session lock until it returns.
type Handlers struct {
	sess *session.Session
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sess *session.Session) *Handlers {
	return &Handlers{sess: sess}
}

// Request types for each tool

// LoadRequest represents the arguments for load.
type LoadRequest struct {
	Path           string `json:"path"`
	Column         string `json:"column,omitempty"`
	CategoryColumn string `json:"category_column,omitempty"`
}

// ColumnRequest represents the arguments for column.
type ColumnRequest struct {
	Column string `json:"column"`
}

// DrawRequest represents the arguments for draw.
type DrawRequest struct {
	Quantity *int `json:"quantity,omitempty"`
}

// RankedRequest represents the arguments for ranked.
type RankedRequest struct {
	Quantity  *int     `json:"quantity,omitempty"`
	PrizeMode string   `json:"prize_mode,omitempty"`
	Prizes    []string `json:"prizes,omitempty"`
}

// GroupsRequest represents the arguments for groups.
type GroupsRequest struct {
	Groups *int `json:"groups,omitempty"`
}

// CategoryRequest represents the arguments for category.
type CategoryRequest struct {
	Category string `json:"category,omitempty"`
	Quantity *int   `json:"quantity,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ChartRequest represents the arguments for chart.
type ChartRequest struct {
	XLSXPath string `json:"xlsx_path,omitempty"`
}

// HandleLoad handles the load tool call.
func (h *Handlers) HandleLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LoadRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Load(h.sess, ops.LoadInput{
		Path:           input.Path,
		Column:         input.Column,
		CategoryColumn: input.CategoryColumn,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleColumn handles the column tool call.
func (h *Handlers) HandleColumn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ColumnRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.SelectColumn(h.sess, ops.SelectColumnInput{Column: input.Column})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraw handles the draw tool call.
func (h *Handlers) HandleDraw(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DrawRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Draw(h.sess, ops.DrawInput{Quantity: input.Quantity})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRanked handles the ranked tool call.
func (h *Handlers) HandleRanked(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RankedRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	mode, err := draw.ParsePrizeMode(input.PrizeMode)
	if err != nil {
		return errorResult(err), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Ranked(h.sess, ops.RankedInput{
		Quantity:  input.Quantity,
		PrizeMode: mode,
		Prizes:    input.Prizes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGroups handles the groups tool call.
func (h *Handlers) HandleGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GroupsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Groups(h.sess, ops.GroupsInput{Groups: input.Groups})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCategory handles the category tool call.
func (h *Handlers) HandleCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Category(h.sess, ops.CategoryInput{
		Category: input.Category,
		Quantity: input.Quantity,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Export(h.sess, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.sess.Lock()
	defer h.sess.Unlock()

	return successResult(ops.History(h.sess))
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.ClearHistory(h.sess)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleChart handles the chart tool call.
func (h *Handlers) HandleChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ChartRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.sess.Lock()
	defer h.sess.Unlock()

	result, err := ops.Chart(h.sess, ops.ChartInput{XLSXPath: input.XLSXPath})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatus handles the status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.sess.Lock()
	defer h.sess.Unlock()

	return successResult(ops.Status(h.sess))
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.SorteioError); ok && sErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		if sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
