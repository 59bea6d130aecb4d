package tools

import (
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// toolError prefixes err with the tool name and its domain kind so agents can
// tell a refused transition from a broken backend
func toolError(tool string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return fmt.Errorf("[%s] %s: %w", tool, de.Kind, err)
	}
	return fmt.Errorf("[%s] %w", tool, err)
}
