package trending

import (
	"context"
	"encoding/json"
)

// RPCCaller invokes a named remote function.
type RPCCaller interface {
	CallRPC(ctx context.Context, name string, args any, out any) error
}

// RPCProcedure calls the store's trend scoring function by name.
type RPCProcedure struct {
	caller RPCCaller
	name   string
}

func NewRPCProcedure(caller RPCCaller, name string) *RPCProcedure {
	return &RPCProcedure{caller: caller, name: name}
}

// Refresh reports success when the call returns. A numeric reply is taken as
// the affected count; anything else is ignored.
func (p *RPCProcedure) Refresh(ctx context.Context) (Result, error) {
	var raw json.RawMessage
	if err := p.caller.CallRPC(ctx, p.name, nil, &raw); err != nil {
		return Result{}, err
	}
	res := Result{Success: true}
	var n int
	if len(raw) > 0 && json.Unmarshal(raw, &n) == nil {
		res.AffectedCount = &n
	}
	return res, nil
}
