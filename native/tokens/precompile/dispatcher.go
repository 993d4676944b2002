// Package precompile exposes the ledger engine to EVM callers through an
// ABI selector surface. Selectors carry either the HAPI convention, where
// every return tuple leads with an int64 response code, or the ERC
// convention, where failures revert and success returns the bare value.
package precompile

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"

	"tokennet/core/types"
	"tokennet/native/tokens"
	"tokennet/observability"
)

var (
	errShortInput      = errors.New("precompile: input shorter than a selector")
	errUnknownSelector = errors.New("precompile: unknown selector")
	errBadArguments    = errors.New("precompile: malformed call arguments")
)

// AliasResolver maps a 20-byte alias to its account id. Long-zero addresses
// never reach it.
type AliasResolver interface {
	AccountByAlias(alias []byte) (types.EntityID, bool, error)
}

// AccountReader resolves the caller's ledger record so its key can stand in
// as the verified signer set for keyed operations.
type AccountReader interface {
	GetAccount(id types.EntityID) (*types.Account, error)
}

// Dispatcher decodes selector calls into engine invocations and re-encodes
// the outcome per the selector's convention.
type Dispatcher struct {
	engine   *tokens.Engine
	accounts AccountReader
	aliases  AliasResolver
	logger   *slog.Logger
	metrics  *observability.PrecompileMetrics
	ledgerID string
}

// NewDispatcher wires the dispatcher. The accounts and aliases views are
// typically both served by the state manager backing the engine.
func NewDispatcher(engine *tokens.Engine, accounts AccountReader, aliases AliasResolver) *Dispatcher {
	return &Dispatcher{
		engine:   engine,
		accounts: accounts,
		aliases:  aliases,
		logger:   slog.Default(),
		metrics:  observability.Precompile(),
	}
}

// SetLogger overrides the structured logger.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// SetLedgerID sets the ledger identifier reported by token-info queries.
func (d *Dispatcher) SetLedgerID(id string) { d.ledgerID = id }

// callContext carries the resolved caller identity and, for redirect calls,
// the token the call is scoped to.
type callContext struct {
	caller    types.EntityID
	callerKey types.Key
	token     types.EntityID
	redirect  bool
}

func (c *callContext) signers() tokens.KeySet {
	if c.callerKey.Empty() {
		return nil
	}
	return tokens.KeySet{c.callerKey}
}

// entityID resolves an address to an entity id, going through the alias
// index when the address is not in long-zero form.
func (d *Dispatcher) entityID(addr common.Address) (types.EntityID, bool) {
	if id, ok := types.EntityIDFromAddress(addr); ok {
		return id, true
	}
	if d.aliases == nil {
		return types.EntityID{}, false
	}
	id, ok, err := d.aliases.AccountByAlias(addr.Bytes())
	if err != nil || !ok {
		return types.EntityID{}, false
	}
	return id, true
}

// Dispatch runs one call on behalf of caller and returns the ABI-encoded
// result. Engine statuses never surface as errors here; only storage faults
// and malformed input do. A caller with no ledger account is a domain
// verdict, encoded per the selector's convention like any other status.
func (d *Dispatcher) Dispatch(caller common.Address, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, errShortInput
	}
	var id [4]byte
	copy(id[:], input[:4])
	if id == redirectSelectorID {
		return d.dispatchRedirect(caller, input[4:])
	}
	sel, ok := directSelectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %x", errUnknownSelector, id)
	}
	ctx, err := d.resolveCaller(caller)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		return d.encodeStatus(sel, tokens.StatusInvalidAccountID)
	}
	return d.run(ctx, sel, input[4:])
}

// dispatchRedirect unwraps redirectForToken(address,bytes) and runs the
// inner call against the redirect selector table, with the token baked into
// the context.
func (d *Dispatcher) dispatchRedirect(caller common.Address, payload []byte) ([]byte, error) {
	values, err := redirectArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadArguments, err)
	}
	tokenAddr := convert[common.Address](values[0])
	inner := convert[[]byte](values[1])
	if len(inner) < 4 {
		return nil, errShortInput
	}
	tokenID, ok := types.EntityIDFromAddress(tokenAddr)
	if !ok {
		return nil, fmt.Errorf("precompile: redirect to non-token address %s", tokenAddr)
	}

	var id [4]byte
	copy(id[:], inner[:4])
	sel, ok := redirectSelectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %x (redirect)", errUnknownSelector, id)
	}
	ctx, err := d.resolveCaller(caller)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		return d.encodeStatus(sel, tokens.StatusInvalidAccountID)
	}
	ctx.token = tokenID
	ctx.redirect = true
	return d.run(ctx, sel, inner[4:])
}

// resolveCaller maps the EVM caller to its ledger identity. A nil context
// with a nil error means the address has no account behind it.
func (d *Dispatcher) resolveCaller(caller common.Address) (*callContext, error) {
	callerID, ok := d.entityID(caller)
	if !ok {
		return nil, nil
	}
	ctx := &callContext{caller: callerID}
	if d.accounts != nil {
		account, err := d.accounts.GetAccount(callerID)
		if err != nil {
			return nil, err
		}
		if account != nil {
			ctx.callerKey = account.Key.Clone()
		}
	}
	return ctx, nil
}

// encodeStatus encodes a verdict reached before the handler ran. HAPI
// selectors still produce a full return tuple, with every non-status slot
// zero-shaped.
func (d *Dispatcher) encodeStatus(sel *selector, status tokens.Status) ([]byte, error) {
	d.metrics.Observe(sel.name, status.String(), 0)
	d.logger.Debug("precompile dispatch", "selector", sel.name, "status", status.String())
	if sel.encoding == encodeERC {
		return nil, fmt.Errorf("%w: %s", vm.ErrExecutionReverted, status)
	}
	packed := make([]interface{}, 0, len(sel.returns))
	packed = append(packed, int64(status))
	for _, ret := range sel.returns[1:] {
		packed = append(packed, zeroReturn(ret.Type.GetType()).Interface())
	}
	return sel.returns.Pack(packed...)
}

var bigIntType = reflect.TypeOf(big.Int{})

// zeroReturn builds a packable zero value for an ABI return shape. Pointers
// and nested tuples are allocated recursively so packing never sees a nil
// *big.Int.
func zeroReturn(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Ptr:
		if t.Elem() == bigIntType {
			return reflect.ValueOf(new(big.Int))
		}
		v := reflect.New(t.Elem())
		v.Elem().Set(zeroReturn(t.Elem()))
		return v
	case reflect.Struct:
		v := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			if !v.Field(i).CanSet() {
				continue
			}
			v.Field(i).Set(zeroReturn(t.Field(i).Type))
		}
		return v
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Array:
		v := reflect.New(t).Elem()
		for i := 0; i < t.Len(); i++ {
			v.Index(i).Set(zeroReturn(t.Elem()))
		}
		return v
	default:
		return reflect.Zero(t)
	}
}

func (d *Dispatcher) run(ctx *callContext, sel *selector, payload []byte) ([]byte, error) {
	start := time.Now()
	values, err := sel.args.Unpack(payload)
	if err != nil {
		d.metrics.Observe(sel.name, "decode_error", time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", errBadArguments, sel.name, err)
	}

	results, status, err := sel.handler(d, ctx, values)
	if err != nil {
		d.metrics.Observe(sel.name, "fault", time.Since(start))
		d.logger.Error("precompile dispatch failed", "selector", sel.name, "err", err)
		return nil, err
	}
	// The engine's bare signature failure becomes the precompile-specific
	// variant so callers can tell the two surfaces apart.
	if status == tokens.StatusInvalidSignature {
		status = tokens.StatusInvalidSignatureForPrecompile
	}
	d.metrics.Observe(sel.name, status.String(), time.Since(start))
	d.logger.Debug("precompile dispatch", "selector", sel.name, "status", status.String())

	switch sel.encoding {
	case encodeERC:
		if !status.OK() {
			return nil, fmt.Errorf("%w: %s", vm.ErrExecutionReverted, status)
		}
		return sel.returns.Pack(results...)
	default:
		packed := append([]interface{}{int64(status)}, results...)
		return sel.returns.Pack(packed...)
	}
}

// Contract binds the dispatcher to one EVM caller so it can be installed as
// a precompiled contract.
type Contract struct {
	dispatcher *Dispatcher
	caller     common.Address
}

var _ vm.PrecompiledContract = (*Contract)(nil)

// Contract returns the vm adapter for the given caller.
func (d *Dispatcher) Contract(caller common.Address) *Contract {
	return &Contract{dispatcher: d, caller: caller}
}

func (c *Contract) RequiredGas(input []byte) uint64 {
	if len(input) < 4 {
		return baseGas
	}
	var id [4]byte
	copy(id[:], input[:4])
	if id == redirectSelectorID {
		return redirectGas
	}
	if sel, ok := directSelectors[id]; ok {
		return sel.gas
	}
	return baseGas
}

func (c *Contract) Run(input []byte) ([]byte, error) {
	return c.dispatcher.Dispatch(c.caller, input)
}
