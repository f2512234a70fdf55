// ABOUTME: MCP tool implementations for food recognition and logging.
// ABOUTME: Registers recognise_food, scan_bulk, log_food, log_manual_food, add_custom_food, list_known_foods, daily_summary.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/munch/internal/models"
	"github.com/2389-research/munch/internal/tracker"
)

func (s *Server) registerFoodTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "recognise_food",
		Description: "Match a free-text meal description against the food catalog. Returns the best matches with nutrition per serving and a confidence between 0 and 1.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"description": {"type": "string", "description": "What was eaten, e.g. 'grilled chicken' or 'bowl of oats'"},
				"top_k": {"type": "number", "description": "Maximum number of matches (default from config)"}
			},
			"required": ["description"]
		}`),
	}, s.handleRecogniseFood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "scan_bulk",
		Description: "Recognise several meal descriptions in one call. Results are returned in input order.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"descriptions": {"type": "array", "items": {"type": "string"}, "description": "Meal descriptions to recognise"},
				"top_k": {"type": "number", "description": "Maximum number of matches per description (default from config)"}
			},
			"required": ["descriptions"]
		}`),
	}, s.handleScanBulk)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "log_food",
		Description: "Recognise a description and log its best match as eaten.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"description": {"type": "string", "description": "What was eaten"},
				"quantity": {"type": "number", "description": "Number of servings (default 1)"},
				"timestamp": {"type": "string", "description": "When it was eaten, RFC3339 (default: now)"}
			},
			"required": ["description"]
		}`),
	}, s.handleLogFood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "log_manual_food",
		Description: "Log a one-off food with explicit nutrition. The food is not added to the catalog.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Food name"},
				"serving_size": {"type": "string", "description": "Serving description, e.g. '1 bar'"},
				"calories": {"type": "number", "description": "Calories per serving"},
				"quantity": {"type": "number", "description": "Number of servings (default 1)"},
				"macronutrients": {"type": "object", "additionalProperties": {"type": "number"}, "description": "Grams per serving, e.g. {\"protein\": 10}"}
			},
			"required": ["name", "calories"]
		}`),
	}, s.handleLogManualFood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_custom_food",
		Description: "Add a food to the catalog so later descriptions can match it. Persists across runs.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Food name"},
				"serving_size": {"type": "string", "description": "Serving description, e.g. '1 cup'"},
				"calories": {"type": "number", "description": "Calories per serving"},
				"macronutrients": {"type": "object", "additionalProperties": {"type": "number"}, "description": "Grams per serving"},
				"aliases": {"type": "array", "items": {"type": "string"}, "description": "Alternative names"}
			},
			"required": ["name", "calories"]
		}`),
	}, s.handleAddCustomFood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_known_foods",
		Description: "List the foods in the catalog, including custom foods.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"filter": {"type": "string", "description": "Only list foods whose name contains this text"}
			}
		}`),
	}, s.handleListKnownFoods)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "daily_summary",
		Description: "Summarize logged food. With a date, lists that day's entries; without one, totals every logged day.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"date": {"type": "string", "description": "Day to summarize, YYYY-MM-DD"}
			}
		}`),
	}, s.handleDailySummary)
}

type recogniseArgs struct {
	Description string `json:"description"`
	TopK        int    `json:"top_k"`
}

type scanBulkArgs struct {
	Descriptions []string `json:"descriptions"`
	TopK         int      `json:"top_k"`
}

type logFoodArgs struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Timestamp   string  `json:"timestamp"`
}

type foodArgs struct {
	Name           string             `json:"name"`
	ServingSize    string             `json:"serving_size"`
	Calories       float64            `json:"calories"`
	Quantity       float64            `json:"quantity"`
	Macronutrients map[string]float64 `json:"macronutrients"`
	Aliases        []string           `json:"aliases"`
}

func (s *Server) handleRecogniseFood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args recogniseArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if strings.TrimSpace(args.Description) == "" {
		return toolError("description is required"), nil
	}

	matches := s.tracker.ScanDescription(args.Description, s.limit(args.TopK))
	return textResult(formatMatches(args.Description, matches)), nil
}

func (s *Server) handleScanBulk(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args scanBulkArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if len(args.Descriptions) == 0 {
		return toolError("at least one description is required"), nil
	}

	results := s.tracker.ScanDescriptions(args.Descriptions, s.limit(args.TopK))

	var sb strings.Builder
	for i, desc := range args.Descriptions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(formatMatches(desc, results[i]))
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleLogFood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args logFoodArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if strings.TrimSpace(args.Description) == "" {
		return toolError("description is required"), nil
	}

	quantity := args.Quantity
	if quantity == 0 {
		quantity = tracker.DefaultQuantity
	}

	var at time.Time
	if args.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, args.Timestamp)
		if err != nil {
			return toolError("invalid timestamp %q: use RFC3339, e.g. 2024-01-15T12:30:00Z", args.Timestamp), nil
		}
		at = parsed
	}

	entry, match, err := s.tracker.LogDescription(args.Description, quantity, at)
	if err != nil {
		if errors.Is(err, tracker.ErrNoMatch) {
			return toolError("no food in the catalog matches %q; use add_custom_food or log_manual_food", args.Description), nil
		}
		return toolError("failed to log food: %v", err), nil
	}

	return textResult(fmt.Sprintf("Logged %g × %s (confidence %.2f)\n%s",
		entry.Quantity, entry.Food.Name, match.Confidence, formatEntryNutrition(entry))), nil
}

func (s *Server) handleLogManualFood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args foodArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Quantity != 0 {
		if err := models.ValidateQuantity(args.Quantity); err != nil {
			return toolError("%v", err), nil
		}
	}

	entry, err := s.tracker.ManualFoodEntry(args.Name, args.ServingSize, args.Calories, args.Quantity, args.Macronutrients)
	if err != nil {
		return toolError("failed to log food: %v", err), nil
	}

	return textResult(fmt.Sprintf("Logged %g × %s\n%s",
		entry.Quantity, entry.Food.Name, formatEntryNutrition(entry))), nil
}

func (s *Server) handleAddCustomFood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args foodArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	item, err := s.tracker.RegisterCustomFood(args.Name, args.ServingSize, args.Calories, args.Macronutrients, args.Aliases)
	if err != nil {
		return toolError("failed to add custom food: %v", err), nil
	}

	return textResult(fmt.Sprintf("Added custom food: %s", formatItem(item))), nil
}

func (s *Server) handleListKnownFoods(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Filter string `json:"filter"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	filter := strings.ToLower(strings.TrimSpace(args.Filter))

	var sb strings.Builder
	count := 0
	for _, item := range s.tracker.KnownItems() {
		if filter != "" && !strings.Contains(strings.ToLower(item.Name), filter) {
			continue
		}
		count++
		fmt.Fprintf(&sb, "- %s\n", formatItem(item))
	}

	if count == 0 {
		return textResult("No known foods."), nil
	}
	return textResult(fmt.Sprintf("%d known foods:\n%s", count, sb.String())), nil
}

func (s *Server) handleDailySummary(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Date string `json:"date"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Date != "" {
		day, err := time.ParseInLocation(models.DayFormat, args.Date, time.Local)
		if err != nil {
			return toolError("invalid date %q: use YYYY-MM-DD", args.Date), nil
		}
		return textResult(formatDay(s.tracker.EntriesForDay(day), true)), nil
	}

	summary := s.tracker.DailySummary()
	if len(summary) == 0 {
		return textResult("No food logged yet."), nil
	}

	var sb strings.Builder
	for _, log := range summary {
		sb.WriteString(formatDay(log, false))
	}
	fmt.Fprintf(&sb, "\nAll days: %.0f kcal (%s)", s.tracker.TotalCalories(), models.FormatMacros(s.tracker.TotalMacros()))
	return textResult(sb.String()), nil
}

func (s *Server) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.topK
}

func decodeArgs(req *gomcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func formatItem(item models.FoodItem) string {
	serving := item.ServingSize
	if serving == "" {
		serving = "1 serving"
	}
	return fmt.Sprintf("%s (%s) - %.0f kcal; %s", item.Name, serving, item.Calories, models.FormatMacros(item.Macronutrients))
}

func formatMatches(description string, matches []models.RecognisedFood) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No matching foods found for %q.\n", description)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Matches for %q:\n", description)
	for i, m := range matches {
		fmt.Fprintf(&sb, "%d. [%.2f] %s\n", i+1, m.Confidence, formatItem(m.Item))
	}
	return sb.String()
}

func formatEntryNutrition(entry *models.FoodEntry) string {
	return fmt.Sprintf("%.0f kcal; %s\nAt: %s", entry.Calories(), models.FormatMacros(entry.Macros()),
		entry.Timestamp.Format("2006-01-02 15:04"))
}

func formatDay(log models.DailyLog, withEntries bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %.0f kcal (%s), %d entries\n",
		log.Day.Format(models.DayFormat), log.TotalCalories(), models.FormatMacros(log.TotalMacros()), len(log.Entries))
	if withEntries {
		for _, e := range log.Entries {
			fmt.Fprintf(&sb, "  %s  %g × %s - %.0f kcal\n", e.Timestamp.Format("15:04"), e.Quantity, e.Food.Name, e.Calories())
		}
	}
	return sb.String()
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
