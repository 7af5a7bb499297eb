package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func boardIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Board id returned by charuco_board_create, or \"default\" for the configured board",
	}
}

func charucoIDsProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"description": description,
	}
}

func qrParamProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Board Management
		{
			Name:        "charuco_board_create",
			Description: "Create a ChArUco board and compute the positions of its interior chessboard corners. Returns a board_id for the other tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"squares_x": map[string]interface{}{
						"type":        "integer",
						"description": "Number of chessboard squares along X (at least 2)",
					},
					"squares_y": map[string]interface{}{
						"type":        "integer",
						"description": "Number of chessboard squares along Y (at least 2)",
					},
					"square_length": map[string]interface{}{
						"type":        "number",
						"description": "Chessboard square side length, normally in meters",
					},
					"marker_length": map[string]interface{}{
						"type":        "number",
						"description": "ArUco marker side length in the same unit; must not exceed square_length",
					},
					"legacy_pattern": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the chessboard pattern of OpenCV versions before 4.6.0. Default false",
						"default":     false,
					},
				},
				"required": []string{"squares_x", "squares_y", "square_length", "marker_length"},
			},
		},
		{
			Name:        "charuco_board_info",
			Description: "Get the geometry of a registered board.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"board_id": boardIDProperty(),
				},
				"required": []string{"board_id"},
			},
		},
		{
			Name:        "charuco_board_list",
			Description: "List all registered boards in creation order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "charuco_board_delete",
			Description: "Remove a registered board.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"board_id": boardIDProperty(),
				},
				"required": []string{"board_id"},
			},
		},

		// Corner Operations
		{
			Name:        "charuco_board_corners",
			Description: "List a board's interior chessboard corners with their ids, grid positions and 3D coordinates (z is always 0).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"board_id": boardIDProperty(),
				},
				"required": []string{"board_id"},
			},
		},
		{
			Name:        "charuco_check_collinear",
			Description: "Check whether detected ChArUco corners lie on one straight line. Calibration and pose estimation fail on collinear corners. Two or fewer ids are always collinear.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"board_id":    boardIDProperty(),
					"charuco_ids": charucoIDsProperty("Corner ids reported by the ChArUco detector for one frame"),
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Largest distance from the line, in board units, still counted as on it. Defaults to a small fraction of square_length",
					},
				},
				"required": []string{"board_id", "charuco_ids"},
			},
		},
		{
			Name:        "charuco_render_corners",
			Description: "Render the board's chessboard with its corners marked as a base64-encoded PNG. Selected corners are highlighted and the collinearity test line through the first two is drawn.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"board_id":    boardIDProperty(),
					"charuco_ids": charucoIDsProperty("Optional corner ids to highlight"),
					"pixels_per_square": map[string]interface{}{
						"type":        "integer",
						"description": "Square size in pixels (4-400). Default 40",
						"default":     40,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor applied to the finished image. Default 1.0",
						"default":     1.0,
					},
					"corner_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for corners (default #2979FF)",
					},
					"selection_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for selected corners (default #FF1744)",
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for the test line (default #FFC400)",
					},
				},
				"required": []string{"board_id"},
			},
		},

		// Detector Parameters
		{
			Name:        "qr_aruco_params",
			Description: "Get a validated parameter set for the Aruco-based QR code detector. Omitted fields keep the configured defaults.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"min_module_size_in_pyramid":  qrParamProperty("Smallest module size in pixels kept in the image pyramid"),
					"max_rotation":                qrParamProperty("Largest finder pattern rotation in radians (at most pi/2)"),
					"max_module_size_mismatch":    qrParamProperty("Largest module size ratio between finder patterns"),
					"max_timing_pattern_mismatch": qrParamProperty("Largest timing pattern deviation"),
					"max_penalties":               qrParamProperty("Largest share of penalized modules (0-1)"),
					"max_colors_mismatch":         qrParamProperty("Largest share of modules with mismatched color (0-1)"),
					"scale_timing_pattern_score":  qrParamProperty("Timing pattern score weight (0-1)"),
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
