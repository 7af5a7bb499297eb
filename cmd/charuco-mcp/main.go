package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/charuco-tools-mcp/internal/config"
	"github.com/ironsheep/charuco-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("charuco-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("charuco-tools-mcp - MCP server for ChArUco board geometry")
			fmt.Println()
			fmt.Println("Usage: charuco-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CHARUCO_MCP_LOG_LEVEL=debug            Enable debug logging")
			fmt.Println("  CHARUCO_MCP_CONFIG=/path/config.json   Load default board and QR detector params")
			fmt.Println("  CHARUCO_MCP_TOLERANCE_FRACTION=1e-6    Collinearity tolerance as a fraction of square length")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug {
		log.Printf("ChArUco MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server setup error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
