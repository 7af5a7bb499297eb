package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/charuco-tools-mcp/internal/board"
	"github.com/ironsheep/charuco-tools-mcp/internal/imaging"
	"github.com/ironsheep/charuco-tools-mcp/internal/qraruco"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "charuco_board_create").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("Tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return s.toolResultResponse(req.ID, params.Name, result)
}

// toolResultResponse wraps a tool result in MCP text content. A result that
// cannot be encoded yields a -32603 error rather than empty content.
func (s *Server) toolResultResponse(id interface{}, name string, result interface{}) *MCPResponse {
	text, err := marshalToolResult(result)
	if err != nil {
		s.debugf("Tool %s result encoding failed: %v", name, err)
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Looks up the board in the registry as needed
//  3. Calls the appropriate board/imaging/qraruco function
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Board Management
	case "charuco_board_create":
		return s.handleBoardCreate(args)
	case "charuco_board_info":
		return s.handleBoardInfo(args)
	case "charuco_board_list":
		return s.handleBoardList(args)
	case "charuco_board_delete":
		return s.handleBoardDelete(args)

	// Corner Operations
	case "charuco_board_corners":
		return s.handleBoardCorners(args)
	case "charuco_check_collinear":
		return s.handleCheckCollinear(args)
	case "charuco_render_corners":
		return s.handleRenderCorners(args)

	// Detector Parameters
	case "qr_aruco_params":
		return s.handleQRArucoParams(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// marshalToolResult converts a tool result to a pretty-printed JSON string.
func marshalToolResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// BoardSummary describes a registered board.
type BoardSummary struct {
	BoardID        string     `json:"board_id"`
	ChessboardSize board.Size `json:"chessboard_size"`
	SquareLength   float64    `json:"square_length"`
	MarkerLength   float64    `json:"marker_length"`
	LegacyPattern  bool       `json:"legacy_pattern"`
	CornerCount    int        `json:"corner_count"`
	Tolerance      float64    `json:"tolerance"`
}

func (s *Server) summarize(id string, b *board.Board) BoardSummary {
	return BoardSummary{
		BoardID:        id,
		ChessboardSize: b.ChessboardSize(),
		SquareLength:   b.SquareLength(),
		MarkerLength:   b.MarkerLength(),
		LegacyPattern:  b.LegacyPattern(),
		CornerCount:    b.CornerCount(),
		Tolerance:      s.defaultTolerance(b),
	}
}

// defaultTolerance scales the board's square length by the configured
// fraction.
func (s *Server) defaultTolerance(b *board.Board) float64 {
	return s.cfg.ToleranceFraction * b.SquareLength()
}

// === Board Management Handlers ===

type boardIDArgs struct {
	BoardID string `json:"board_id"`
}

func (s *Server) lookupBoard(args json.RawMessage) (string, *board.Board, error) {
	var a boardIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", nil, err
	}
	b, err := s.boards.Get(a.BoardID)
	if err != nil {
		return "", nil, err
	}
	return a.BoardID, b, nil
}

func (s *Server) handleBoardCreate(args json.RawMessage) (interface{}, error) {
	var spec board.Spec
	if err := json.Unmarshal(args, &spec); err != nil {
		return nil, err
	}
	b, err := spec.Build()
	if err != nil {
		return nil, err
	}
	id := s.boards.Add(b)
	s.debugf("Created board %s: %dx%d squares, %d corners", id, spec.SquaresX, spec.SquaresY, b.CornerCount())
	return s.summarize(id, b), nil
}

func (s *Server) handleBoardInfo(args json.RawMessage) (interface{}, error) {
	id, b, err := s.lookupBoard(args)
	if err != nil {
		return nil, err
	}
	return s.summarize(id, b), nil
}

// BoardListResult contains every registered board.
type BoardListResult struct {
	Boards []BoardSummary `json:"boards"`
	Count  int            `json:"count"`
}

func (s *Server) handleBoardList(args json.RawMessage) (interface{}, error) {
	entries := s.boards.List()
	result := &BoardListResult{
		Boards: make([]BoardSummary, 0, len(entries)),
		Count:  len(entries),
	}
	for _, e := range entries {
		result.Boards = append(result.Boards, s.summarize(e.ID, e.Board))
	}
	return result, nil
}

func (s *Server) handleBoardDelete(args json.RawMessage) (interface{}, error) {
	var a boardIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.boards.Delete(a.BoardID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"board_id": a.BoardID,
		"deleted":  true,
	}, nil
}

// === Corner Operation Handlers ===

// CornerInfo is one interior corner with its id and grid position.
type CornerInfo struct {
	ID  int     `json:"id"`
	Row int     `json:"row"`
	Col int     `json:"col"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
}

// CornersResult lists a board's corners.
type CornersResult struct {
	BoardID string       `json:"board_id"`
	Corners []CornerInfo `json:"corners"`
	Count   int          `json:"count"`
}

func (s *Server) handleBoardCorners(args json.RawMessage) (interface{}, error) {
	id, b, err := s.lookupBoard(args)
	if err != nil {
		return nil, err
	}

	corners := b.Corners()
	result := &CornersResult{
		BoardID: id,
		Corners: make([]CornerInfo, 0, len(corners)),
		Count:   len(corners),
	}
	for i, c := range corners {
		row, col, err := b.CornerGrid(i)
		if err != nil {
			return nil, err
		}
		result.Corners = append(result.Corners, CornerInfo{
			ID: i, Row: row, Col: col,
			X: c.X, Y: c.Y, Z: c.Z,
		})
	}
	return result, nil
}

type checkCollinearArgs struct {
	BoardID    string   `json:"board_id"`
	CharucoIDs []int    `json:"charuco_ids"`
	Tolerance  *float64 `json:"tolerance"`
}

// CollinearResult reports the outcome of a collinearity check.
type CollinearResult struct {
	BoardID      string  `json:"board_id"`
	Collinear    bool    `json:"collinear"`
	CheckedCount int     `json:"checked_count"`
	Tolerance    float64 `json:"tolerance"`
}

func (s *Server) handleCheckCollinear(args json.RawMessage) (interface{}, error) {
	var a checkCollinearArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.boards.Get(a.BoardID)
	if err != nil {
		return nil, err
	}

	tolerance := s.defaultTolerance(b)
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	checker, err := board.NewCollinearityChecker(tolerance)
	if err != nil {
		return nil, err
	}

	collinear, err := checker.AreCollinear(b.Corners(), a.CharucoIDs)
	if err != nil {
		return nil, err
	}

	return &CollinearResult{
		BoardID:      a.BoardID,
		Collinear:    collinear,
		CheckedCount: len(a.CharucoIDs),
		Tolerance:    tolerance,
	}, nil
}

type renderCornersArgs struct {
	BoardID         string  `json:"board_id"`
	CharucoIDs      []int   `json:"charuco_ids"`
	PixelsPerSquare int     `json:"pixels_per_square"`
	Scale           float64 `json:"scale"`
	CornerColor     string  `json:"corner_color"`
	SelectionColor  string  `json:"selection_color"`
	LineColor       string  `json:"line_color"`
}

func (s *Server) handleRenderCorners(args json.RawMessage) (interface{}, error) {
	var a renderCornersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.boards.Get(a.BoardID)
	if err != nil {
		return nil, err
	}
	return imaging.RenderCornerMap(b, imaging.CornerMapOptions{
		PixelsPerSquare: a.PixelsPerSquare,
		Selection:       a.CharucoIDs,
		Scale:           a.Scale,
		CornerColor:     a.CornerColor,
		SelectionColor:  a.SelectionColor,
		LineColor:       a.LineColor,
	})
}

// === Detector Parameter Handlers ===

func (s *Server) handleQRArucoParams(args json.RawMessage) (interface{}, error) {
	var o qraruco.Overrides
	if err := json.Unmarshal(args, &o); err != nil {
		return nil, err
	}
	params, err := o.Apply(s.cfg.QRAruco)
	if err != nil {
		return nil, err
	}
	return params, nil
}
