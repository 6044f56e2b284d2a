package mcp

import "github.com/mark3labs/mcp-go/mcp"

var loadToolDef = mcp.NewTool("sorteio_load",
	mcp.WithDescription("Load names from a spreadsheet (.xlsx). The first row is the header; "+
		"items are the non-blank cells of the chosen column. Returns the available columns, "+
		"item count, categories and the current distribution chart."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path to the spreadsheet file")),
	mcp.WithString("column", mcp.Description("Column letter to draw from (default: first column with data)")),
	mcp.WithString("category_column", mcp.Description("Column letter holding the item category (default: B)")),
)

var columnToolDef = mcp.NewTool("sorteio_column",
	mcp.WithDescription("Switch the drawing column of the loaded spreadsheet."),
	mcp.WithString("column", mcp.Required(), mcp.Description("Column letter, e.g. \"C\"")),
)

var drawToolDef = mcp.NewTool("sorteio_draw",
	mcp.WithDescription("Draw distinct names at random from the loaded items."),
	mcp.WithNumber("quantity", mcp.Description("How many names to draw (default: 3)"), mcp.Min(1)),
)

var rankedToolDef = mcp.NewTool("sorteio_ranked",
	mcp.WithDescription("Draw names where the order is the placing (1st, 2nd, ...), optionally with prizes. "+
		"With prize_mode=custom, prizes[i] is the prize for rank i+1; blank entries leave a rank "+
		"unprized and later prizes move up."),
	mcp.WithNumber("quantity", mcp.Description("How many names to draw (default: 3)"), mcp.Min(1)),
	mcp.WithString("prize_mode", mcp.Description("Prize annotation"), mcp.Enum("none", "default", "custom")),
	mcp.WithArray("prizes", mcp.Description("Custom prizes, one per rank"), mcp.WithStringItems()),
)

var groupsToolDef = mcp.NewTool("sorteio_groups",
	mcp.WithDescription("Shuffle every loaded item into balanced groups (sizes differ by at most one)."),
	mcp.WithNumber("groups", mcp.Description("Number of groups (default: 2)"), mcp.Min(1)),
)

var categoryToolDef = mcp.NewTool("sorteio_category",
	mcp.WithDescription("Draw names among the items of one category. "+
		"An empty category or \"(Sem classificação)\" draws from every item."),
	mcp.WithString("category", mcp.Description("Category value, exact match")),
	mcp.WithNumber("quantity", mcp.Description("How many names to draw (default: 1)"), mcp.Min(1)),
)

var exportToolDef = mcp.NewTool("sorteio_export",
	mcp.WithDescription("Write the last draw result to a new .xlsx file."),
	mcp.WithString("path", mcp.Description("Output path (default: ~/Documents/Resultados_Sorteio_<timestamp>.xlsx)")),
)

var historyToolDef = mcp.NewTool("sorteio_history",
	mcp.WithDescription("List past draws, most recent first."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyClearToolDef = mcp.NewTool("sorteio_history_clear",
	mcp.WithDescription("Delete every history entry and the history file."),
	mcp.WithDestructiveHintAnnotation(true),
)

var chartToolDef = mcp.NewTool("sorteio_chart",
	mcp.WithDescription("Distribution of the loaded items by category, or by initial letter when "+
		"there is at most one category. Optionally saves it as a workbook with a chart."),
	mcp.WithString("xlsx_path", mcp.Description("Also write the chart workbook to this path")),
)

var statusToolDef = mcp.NewTool("sorteio_status",
	mcp.WithDescription("Report the loaded spreadsheet, item count, columns, categories and last result."),
	mcp.WithReadOnlyHintAnnotation(true),
)
