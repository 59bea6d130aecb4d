package tools

import (
	"context"
	"encoding/base64"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
)

// SignContractParams defines the arguments for the sign_contract tool
type SignContractParams struct {
	ActorID    string `json:"actor_id" jsonschema:"Signing user: a client of the organization first, then the candidate"`
	ContractID string `json:"contract_id" jsonschema:"Contract to sign"`
	Signature  string `json:"signature" jsonschema:"Base64 encoded signature image"`
}

// InitiatePaymentParams defines the arguments for the initiate_payment tool
type InitiatePaymentParams struct {
	ActorID    string `json:"actor_id" jsonschema:"User id of a client of the contract's organization or an admin"`
	ContractID string `json:"contract_id" jsonschema:"Signed contract to pay under"`
	Amount     string `json:"amount" jsonschema:"Positive decimal amount in dollars, e.g. 1500.00"`
	Notes      string `json:"notes,omitempty" jsonschema:"Optional memo"`
}

// DisbursePaymentParams defines the arguments for the disburse_payment tool
type DisbursePaymentParams struct {
	ActorID   string `json:"actor_id" jsonschema:"User id of a platform admin"`
	PaymentID string `json:"payment_id" jsonschema:"Pending payment to disburse"`
}

type contractTools struct {
	svc *hiring.Service
}

// WithContractTools registers sign_contract, initiate_payment and disburse_payment
func WithContractTools(svc *hiring.Service) Option {
	return func(reg *registry) {
		t := contractTools{svc: svc}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sign_contract",
			Description: "Sign a contract. The client signs first, then the candidate",
		}, t.sign)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "initiate_payment",
			Description: "Create a pending payment under a fully signed contract",
		}, t.initiatePayment)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "disburse_payment",
			Description: "Mark a pending payment as disbursed and notify the candidate",
		}, t.disbursePayment)
	}
}

func (t contractTools) sign(ctx context.Context, _ *sdkmcp.CallToolRequest, params *SignContractParams) (*sdkmcp.CallToolResult, any, error) {
	signature, err := base64.StdEncoding.DecodeString(params.Signature)
	if err != nil {
		return nil, nil, toolError("sign_contract", domain.Invalid("signature must be base64: %v", err))
	}
	c, err := t.svc.SignContract(ctx, params.ContractID, params.ActorID, signature)
	if err != nil {
		return nil, nil, toolError("sign_contract", err)
	}
	return textResult(fmt.Sprintf("[sign_contract] contract %s is %s", c.ID, c.Status)), c, nil
}

func (t contractTools) initiatePayment(ctx context.Context, _ *sdkmcp.CallToolRequest, params *InitiatePaymentParams) (*sdkmcp.CallToolResult, any, error) {
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		return nil, nil, toolError("initiate_payment", domain.Invalid("amount %q is not a decimal", params.Amount))
	}
	p, err := t.svc.InitiatePayment(ctx, params.ActorID, params.ContractID, amount, params.Notes)
	if err != nil {
		return nil, nil, toolError("initiate_payment", err)
	}
	return textResult(fmt.Sprintf("[initiate_payment] payment %s of $%s is %s", p.ID, p.Amount.StringFixed(2), p.Status)), p, nil
}

func (t contractTools) disbursePayment(ctx context.Context, _ *sdkmcp.CallToolRequest, params *DisbursePaymentParams) (*sdkmcp.CallToolResult, any, error) {
	p, err := t.svc.DisbursePayment(ctx, params.ActorID, params.PaymentID)
	if err != nil {
		return nil, nil, toolError("disburse_payment", err)
	}
	return textResult(fmt.Sprintf("[disburse_payment] payment %s disbursed to %s", p.ID, p.CandidateName)), p, nil
}
