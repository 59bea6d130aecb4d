package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/mcp/tools"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

const rolesURI = "plugplayers://teambuilder/roles"

// RegisterAll registers every hiring tool and the role catalog resource
func RegisterAll(server *sdkmcp.Server, res *Resources, logger *logging.Logger) {
	opts := []tools.Option{
		tools.WithLogger(logger.Named("tools")),
		tools.WithJobTools(res.Hiring),
		tools.WithApplicationTools(res.Hiring, res.Directory),
		tools.WithInterviewTools(res.Hiring),
		tools.WithContractTools(res.Hiring),
		tools.WithShortlistTools(res.Hiring, res.Catalog),
		tools.WithInboxTools(res.Inbox),
		tools.WithDashboardStats(res.Dashboard, res.Directory),
	}
	// keep the interface nil when Sheets is off
	var exporter tools.PaymentExporter
	if res.Exporter != nil {
		exporter = res.Exporter
	}
	opts = append(opts, tools.WithExportPayments(exporter))
	tools.Register(server, opts...)

	server.AddResource(&sdkmcp.Resource{
		URI:         rolesURI,
		Name:        "roles",
		Description: "Team builder role catalog with hourly rates and capacity",
		MIMEType:    "application/json",
	}, func(_ context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		data, err := json.Marshal(res.Catalog.Roles())
		if err != nil {
			return nil, fmt.Errorf("marshal roles: %w", err)
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{URI: rolesURI, MIMEType: "application/json", Text: string(data)}},
		}, nil
	})
}
