package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Demo users, see internal/seed/demo.yaml
const (
	adminUser     = "user-1"
	clientUser    = "user-2"
	candidateUser = "user-4"
	demoJob       = "job-2"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "plugplayers-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testHireFlow(ctx, session)
	testTeamSuggestion(ctx, session)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("list tools failed: %v", err)
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

// testHireFlow walks one candidate from application to disbursed payment.
// It needs a server started with SEED_DEMO=true
func testHireFlow(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: hire flow")

	var app struct {
		ID string `json:"id"`
	}
	if !call(ctx, session, "apply_for_job", map[string]any{
		"actor_id": candidateUser,
		"job_id":   demoJob,
	}, &app) {
		return
	}

	var hired struct {
		Contract *struct {
			ID string `json:"id"`
		} `json:"contract"`
		ContractError string `json:"contract_error"`
	}
	if !call(ctx, session, "update_application_status", map[string]any{
		"actor_id":       clientUser,
		"application_id": app.ID,
		"status":         "Hired",
	}, &hired) {
		return
	}
	if hired.Contract == nil {
		log.Printf("✗ hired without contract: %s", hired.ContractError)
		return
	}

	for _, signer := range []string{clientUser, candidateUser} {
		if !call(ctx, session, "sign_contract", map[string]any{
			"actor_id":    signer,
			"contract_id": hired.Contract.ID,
			"signature":   "c2lnbmVk",
		}, nil) {
			return
		}
	}

	var payment struct {
		ID string `json:"id"`
	}
	if !call(ctx, session, "initiate_payment", map[string]any{
		"actor_id":    clientUser,
		"contract_id": hired.Contract.ID,
		"amount":      "1500.00",
		"notes":       "First milestone",
	}, &payment) {
		return
	}
	if !call(ctx, session, "disburse_payment", map[string]any{
		"actor_id":   adminUser,
		"payment_id": payment.ID,
	}, nil) {
		return
	}

	if !call(ctx, session, "list_notifications", map[string]any{
		"actor_id":    candidateUser,
		"unread_only": true,
	}, nil) {
		return
	}
	fmt.Println("hire flow passed")
}

func testTeamSuggestion(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: team_suggestion")

	if call(ctx, session, "team_suggestion", map[string]any{
		"project": map[string]any{
			"goal":     "Marketplace MVP",
			"category": "SaaS",
			"timeline": 12,
			"budget":   40000,
		},
	}, nil) {
		fmt.Println("team_suggestion passed")
	}
}

// call runs a tool, prints its text and decodes the structured result into out
func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any, out any) bool {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("✗ %s failed: %v", name, err)
		return false
	}
	printResult(result)
	if result.IsError {
		log.Printf("✗ %s returned an error", name)
		return false
	}
	if out == nil {
		return true
	}

	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		log.Printf("✗ %s: encode structured result: %v", name, err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("✗ %s: decode structured result: %v", name, err)
		return false
	}
	return true
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
