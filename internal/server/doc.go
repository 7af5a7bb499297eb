// Package server implements the MCP (Model Context Protocol) server for ChArUco
// board geometry tools.
//
// This package provides a JSON-RPC 2.0 server that exposes board construction,
// corner lookup and corner collinearity checks through the MCP protocol, so a
// calibration pipeline or an AI client can validate detector output before
// handing it to pose estimation.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Board Management:
//   - charuco_board_create: Build a board and register it
//   - charuco_board_info: Get a board's geometry
//   - charuco_board_list: List registered boards
//   - charuco_board_delete: Remove a board
//
// Corner Operations:
//   - charuco_board_corners: List interior corners with ids and coordinates
//   - charuco_check_collinear: Check whether detected corners lie on one line
//   - charuco_render_corners: Render the corner map as a PNG
//
// Detector Parameters:
//   - qr_aruco_params: Validated Aruco-based QR detector parameters
//
// # Board Registry
//
// Boards are built once and stored in a BoardRegistry keyed by a random id.
// A board configured through CHARUCO_MCP_CONFIG is preloaded under the id
// "default". Registered boards are immutable and live for the lifetime of
// the server process or until deleted.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "invalid board dimensions: 1x5 squares"
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.FromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
