package precompile

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/require"

	"tokennet/core/state"
	"tokennet/core/types"
	"tokennet/native/tokens"
)

// pcFixture wires a dispatcher over an engine backed by map state. The state
// manager serves both the account and the alias views.
type pcFixture struct {
	t      *testing.T
	engine *tokens.Engine
	state  *state.Manager
	d      *Dispatcher
}

func newPcFixture(t *testing.T) *pcFixture {
	t.Helper()
	manager := state.NewManager(state.NewMemKV())
	engine := tokens.NewEngine()
	engine.SetState(manager)
	d := NewDispatcher(engine, manager, manager)
	return &pcFixture{t: t, engine: engine, state: manager, d: d}
}

func (f *pcFixture) addAccount(num uint64) types.EntityID {
	f.t.Helper()
	id := types.NewEntityID(num)
	require.NoError(f.t, f.state.PutAccount(&types.Account{ID: id, Key: types.Key{0xA0, byte(num)}}))
	return id
}

func (f *pcFixture) createFungible(treasury types.EntityID, supply uint64, mutate func(*tokens.TokenDefinition)) types.EntityID {
	f.t.Helper()
	def := &tokens.TokenDefinition{
		Name:          "Demo Coin",
		Symbol:        "DEMO",
		Type:          types.FungibleCommon,
		Decimals:      2,
		InitialSupply: supply,
		Treasury:      treasury,
	}
	if mutate != nil {
		mutate(def)
	}
	id, status, err := f.engine.CreateToken(def)
	require.NoError(f.t, err)
	require.Equal(f.t, tokens.StatusOK, status)
	return id
}

func (f *pcFixture) associate(account, token types.EntityID) {
	f.t.Helper()
	status, err := f.engine.Associate(account, []types.EntityID{token})
	require.NoError(f.t, err)
	require.Equal(f.t, tokens.StatusOK, status)
}

func (f *pcFixture) balance(account, token types.EntityID) uint64 {
	f.t.Helper()
	relation, err := f.state.GetRelation(account, token)
	require.NoError(f.t, err)
	if relation == nil {
		return 0
	}
	return relation.Balance
}

// packCall builds selector-prefixed input the way an EVM caller would.
func packCall(t *testing.T, name string, args abi.Arguments, values ...interface{}) []byte {
	t.Helper()
	id := selectorID(signatureOf(name, args))
	payload, err := args.Pack(values...)
	require.NoError(t, err)
	return append(id[:], payload...)
}

func packRedirect(t *testing.T, token common.Address, inner []byte) []byte {
	t.Helper()
	payload, err := redirectArgs.Pack(token, inner)
	require.NoError(t, err)
	return append(redirectSelectorID[:], payload...)
}

// decodeHAPI splits the leading response code off a HAPI return tuple.
func decodeHAPI(t *testing.T, rets abi.Arguments, output []byte) (tokens.Status, []interface{}) {
	t.Helper()
	full := append(arguments(typeInt64), rets...)
	values, err := full.Unpack(output)
	require.NoError(t, err)
	return tokens.Status(convert[int64](values[0])), values[1:]
}

func TestRedirectSelectorsMatchErcInterface(t *testing.T) {
	cases := []struct {
		id  string
		sig string
	}{
		{"06fdde03", "name()"},
		{"95d89b41", "symbol()"},
		{"313ce567", "decimals()"},
		{"18160ddd", "totalSupply()"},
		{"70a08231", "balanceOf(address)"},
		{"6352211e", "ownerOf(uint256)"},
		{"c87b56dd", "tokenURI(uint256)"},
		{"a9059cbb", "transfer(address,uint256)"},
		{"23b872dd", "transferFrom(address,address,uint256)"},
		{"095ea7b3", "approve(address,uint256)"},
		{"a22cb465", "setApprovalForAll(address,bool)"},
		{"dd62ed3e", "allowance(address,address)"},
		{"081812fc", "getApproved(uint256)"},
		{"e985e9c5", "isApprovedForAll(address,address)"},
	}
	for _, tc := range cases {
		t.Run(tc.sig, func(t *testing.T) {
			raw, err := hex.DecodeString(tc.id)
			require.NoError(t, err)
			var id [4]byte
			copy(id[:], raw)
			sel, ok := redirectSelectors[id]
			require.True(t, ok, "selector %s not registered", tc.sig)
			require.Equal(t, tc.sig, sel.name)
		})
	}

	require.Equal(t, selectorID("redirectForToken(address,bytes)"), redirectSelectorID)
	require.Equal(t, "618dc65e", hex.EncodeToString(redirectSelectorID[:]))
}

func TestDispatchRejectsMalformedInput(t *testing.T) {
	f := newPcFixture(t)
	caller := f.addAccount(1)

	_, err := f.d.Dispatch(caller.Address(), []byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, errShortInput)

	_, err = f.d.Dispatch(caller.Address(), []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.ErrorIs(t, err, errUnknownSelector)
}

func TestDispatchUnresolvableCallerEncodesStatus(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	id := f.createFungible(treasury, 1000, nil)

	// Neither long-zero nor a known alias.
	var stranger common.Address
	for i := range stranger {
		stranger[i] = 0xFF
	}

	// HAPI selectors encode the verdict like any other status, with the
	// remaining return slots zero-shaped.
	input := packCall(t, "getTokenInfo", arguments(typeAddress), id.Address())
	output, err := f.d.Dispatch(stranger, input)
	require.NoError(t, err)
	status, _ := decodeHAPI(t, arguments(typeTokenInfo), output)
	require.Equal(t, tokens.StatusInvalidAccountID, status)

	input = packCall(t, "pauseToken", arguments(typeAddress), id.Address())
	output, err = f.d.Dispatch(stranger, input)
	require.NoError(t, err)
	status, _ = decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusInvalidAccountID, status)

	// The ERC surface reverts instead.
	transferCall := packCall(t, "transfer", arguments(typeAddress, typeUint256),
		treasury.Address(), big.NewInt(1))
	_, err = f.d.Dispatch(stranger, packRedirect(t, id.Address(), transferCall))
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
}

func TestDispatchAssociateToken(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	user := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)

	input := packCall(t, "associateToken", arguments(typeAddress, typeAddress), user.Address(), id.Address())
	output, err := f.d.Dispatch(user.Address(), input)
	require.NoError(t, err)

	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusOK, status)

	relation, err := f.state.GetRelation(user, id)
	require.NoError(t, err)
	require.NotNil(t, relation)
}

func TestDispatchNeverRevertsOnHapiStatus(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	user := f.addAccount(2)
	keyless := f.createFungible(treasury, 1000, nil)
	f.associate(user, keyless)

	input := packCall(t, "freezeToken", arguments(typeAddress, typeAddress), keyless.Address(), user.Address())
	output, err := f.d.Dispatch(user.Address(), input)
	require.NoError(t, err, "engine statuses are encoded, not surfaced")

	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusTokenHasNoFreezeKey, status)
}

func TestDispatchRemapsSignatureFailure(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	user := f.addAccount(2)
	id := f.createFungible(treasury, 1000, func(def *tokens.TokenDefinition) {
		def.FreezeKey = types.Key{0x0F}
	})
	f.associate(user, id)

	// The caller's account key is the verified signer set, and it does not
	// match the freeze key.
	input := packCall(t, "freezeToken", arguments(typeAddress, typeAddress), id.Address(), user.Address())
	output, err := f.d.Dispatch(user.Address(), input)
	require.NoError(t, err)

	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusInvalidSignatureForPrecompile, status)
}

func TestMintOverloadsNormalise(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	supplyKey := types.Key{0xA0, 0x01}
	withSupplyKey := func(def *tokens.TokenDefinition) { def.SupplyKey = supplyKey }
	first := f.createFungible(treasury, 1000, withSupplyKey)
	second := f.createFungible(treasury, 1000, withSupplyKey)

	inputV1 := packCall(t, "mintToken",
		arguments(typeAddress, typeUint64, typeBytesSlice),
		first.Address(), uint64(500), [][]byte{})
	output, err := f.d.Dispatch(treasury.Address(), inputV1)
	require.NoError(t, err)
	status, rest := decodeHAPI(t, arguments(typeUint64, typeInt64Slice), output)
	require.Equal(t, tokens.StatusOK, status)
	require.Equal(t, uint64(1500), convert[uint64](rest[0]))
	require.Empty(t, convert[[]int64](rest[1]))

	inputV2 := packCall(t, "mintToken",
		arguments(typeAddress, typeInt64, typeBytesSlice),
		second.Address(), int64(500), [][]byte{})
	output, err = f.d.Dispatch(treasury.Address(), inputV2)
	require.NoError(t, err)
	status, rest = decodeHAPI(t, arguments(typeInt64, typeInt64Slice), output)
	require.Equal(t, tokens.StatusOK, status)
	require.Equal(t, int64(1500), convert[int64](rest[0]))

	// Both widths land on the same engine call.
	for _, id := range []types.EntityID{first, second} {
		token, err := f.state.GetToken(id)
		require.NoError(t, err)
		require.Equal(t, uint64(1500), token.TotalSupply)
	}
}

func TestDispatchTransferToken(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)
	f.associate(receiver, id)

	input := packCall(t, "transferToken",
		arguments(typeAddress, typeAddress, typeAddress, typeInt64),
		id.Address(), treasury.Address(), receiver.Address(), int64(100))
	output, err := f.d.Dispatch(treasury.Address(), input)
	require.NoError(t, err)

	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusOK, status)
	require.Equal(t, uint64(900), f.balance(treasury, id))
	require.Equal(t, uint64(100), f.balance(receiver, id))
}

func TestCryptoTransferRejectsHbarList(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	f.createFungible(treasury, 1000, nil)

	input := packCall(t, "cryptoTransfer",
		arguments(typeTransferList, typeTokenTransferLists),
		transferListArg{Transfers: []accountAmountArg{{AccountID: treasury.Address(), Amount: 10}}},
		[]tokenTransferListArg{})
	output, err := f.d.Dispatch(treasury.Address(), input)
	require.NoError(t, err)

	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusNotSupported, status)
}

func TestAirdropTokensMultiListRollsBack(t *testing.T) {
	f := newPcFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	lists := []tokenTransferListArg{
		{Token: id.Address(), Transfers: []accountAmountArg{
			{AccountID: receiver.Address(), Amount: 100},
		}},
		{Token: types.NewEntityID(99).Address(), Transfers: []accountAmountArg{
			{AccountID: receiver.Address(), Amount: 1},
		}},
	}
	input := packCall(t, "airdropTokens", arguments(typeTokenTransferLists), lists)
	output, err := f.d.Dispatch(sender.Address(), input)
	require.NoError(t, err)

	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusInvalidTokenID, status)

	// The first list parked a pending drop before the second failed; a
	// failed multi-list airdrop must leave nothing behind.
	pending, err := f.state.GetAirdrop(types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id})
	require.NoError(t, err)
	require.Nil(t, pending)
	require.Equal(t, uint64(1000), f.balance(sender, id))
}

func TestCreateFungibleTokenV2(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)

	def := hederaTokenV2Arg{
		Name:      "Precompiled Coin",
		Symbol:    "PCC",
		Treasury:  treasury.Address(),
		TokenKeys: []tokenKeyArg{},
	}
	input := packCall(t, "createFungibleToken",
		arguments(typeHederaTokenV2, typeUint64, typeUint32),
		def, uint64(5000), uint32(2))
	output, err := f.d.Dispatch(treasury.Address(), input)
	require.NoError(t, err)

	status, rest := decodeHAPI(t, arguments(typeAddress), output)
	require.Equal(t, tokens.StatusOK, status)

	id, ok := types.EntityIDFromAddress(convert[common.Address](rest[0]))
	require.True(t, ok, "new tokens live at long-zero addresses")
	token, err := f.state.GetToken(id)
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Equal(t, "Precompiled Coin", token.Name)
	require.Equal(t, uint32(2), token.Decimals)
	require.Equal(t, uint64(5000), token.TotalSupply)
	require.Equal(t, uint64(5000), f.balance(treasury, id))
}

func TestRedirectViews(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	id := f.createFungible(treasury, 1000, nil)

	balanceCall := packCall(t, "balanceOf", arguments(typeAddress), treasury.Address())
	output, err := f.d.Dispatch(treasury.Address(), packRedirect(t, id.Address(), balanceCall))
	require.NoError(t, err)
	values, err := arguments(typeUint256).Unpack(output)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), convert[*big.Int](values[0]).Uint64())

	nameCall := selectorID("name()")
	output, err = f.d.Dispatch(treasury.Address(), packRedirect(t, id.Address(), nameCall[:]))
	require.NoError(t, err)
	values, err = arguments(typeString).Unpack(output)
	require.NoError(t, err)
	require.Equal(t, "Demo Coin", convert[string](values[0]))

	decimalsCall := selectorID("decimals()")
	output, err = f.d.Dispatch(treasury.Address(), packRedirect(t, id.Address(), decimalsCall[:]))
	require.NoError(t, err)
	values, err = arguments(typeUint8).Unpack(output)
	require.NoError(t, err)
	require.Equal(t, uint8(2), convert[uint8](values[0]))
}

func TestRedirectAssociateThenIsAssociated(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	user := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)

	isAssociated := selectorID("isAssociated()")
	output, err := f.d.Dispatch(user.Address(), packRedirect(t, id.Address(), isAssociated[:]))
	require.NoError(t, err)
	values, err := arguments(typeBool).Unpack(output)
	require.NoError(t, err)
	require.False(t, convert[bool](values[0]))

	associate := selectorID("associate()")
	output, err = f.d.Dispatch(user.Address(), packRedirect(t, id.Address(), associate[:]))
	require.NoError(t, err)
	status, _ := decodeHAPI(t, nil, output)
	require.Equal(t, tokens.StatusOK, status)

	output, err = f.d.Dispatch(user.Address(), packRedirect(t, id.Address(), isAssociated[:]))
	require.NoError(t, err)
	values, err = arguments(typeBool).Unpack(output)
	require.NoError(t, err)
	require.True(t, convert[bool](values[0]))
}

func TestErcTransferRevertsOnFailure(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)

	transferCall := packCall(t, "transfer", arguments(typeAddress, typeUint256),
		receiver.Address(), big.NewInt(100))

	// The receiver never associated, so the ERC surface reverts.
	output, err := f.d.Dispatch(treasury.Address(), packRedirect(t, id.Address(), transferCall))
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
	require.Nil(t, output)
	require.Equal(t, uint64(1000), f.balance(treasury, id))

	f.associate(receiver, id)
	output, err = f.d.Dispatch(treasury.Address(), packRedirect(t, id.Address(), transferCall))
	require.NoError(t, err)
	values, err := arguments(typeBool).Unpack(output)
	require.NoError(t, err)
	require.True(t, convert[bool](values[0]))
	require.Equal(t, uint64(100), f.balance(receiver, id))
}

func TestRedirectRejectsAliasTokenAddress(t *testing.T) {
	f := newPcFixture(t)
	caller := f.addAccount(1)

	var alias common.Address
	for i := range alias {
		alias[i] = 0xAB
	}
	inner := selectorID("name()")
	_, err := f.d.Dispatch(caller.Address(), packRedirect(t, alias, inner[:]))
	require.Error(t, err)
	require.False(t, errors.Is(err, errUnknownSelector))
}

func TestContractRequiredGas(t *testing.T) {
	f := newPcFixture(t)
	caller := f.addAccount(1)
	contract := f.d.Contract(caller.Address())

	mutation := selectorID(signatureOf("associateToken", arguments(typeAddress, typeAddress)))
	view := selectorID(signatureOf("getTokenInfo", arguments(typeAddress)))
	create := selectorID(signatureOf("createFungibleToken", arguments(typeHederaTokenV2, typeUint64, typeUint32)))

	require.Equal(t, baseGas, contract.RequiredGas(mutation[:]))
	require.Equal(t, viewGas, contract.RequiredGas(view[:]))
	require.Equal(t, createGas, contract.RequiredGas(create[:]))
	require.Equal(t, redirectGas, contract.RequiredGas(redirectSelectorID[:]))
	require.Equal(t, baseGas, contract.RequiredGas([]byte{0x01}))
	require.Equal(t, baseGas, contract.RequiredGas([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
}

func TestBurnOverloadsNormalise(t *testing.T) {
	f := newPcFixture(t)
	treasury := f.addAccount(1)
	supplyKey := types.Key{0xA0, 0x01}
	withSupplyKey := func(def *tokens.TokenDefinition) { def.SupplyKey = supplyKey }
	first := f.createFungible(treasury, 1000, withSupplyKey)
	second := f.createFungible(treasury, 1000, withSupplyKey)

	inputV1 := packCall(t, "burnToken",
		arguments(typeAddress, typeUint64, typeInt64Slice),
		first.Address(), uint64(400), []int64{})
	output, err := f.d.Dispatch(treasury.Address(), inputV1)
	require.NoError(t, err)
	status, rest := decodeHAPI(t, arguments(typeUint64), output)
	require.Equal(t, tokens.StatusOK, status)
	require.Equal(t, uint64(600), convert[uint64](rest[0]))

	inputV2 := packCall(t, "burnToken",
		arguments(typeAddress, typeInt64, typeInt64Slice),
		second.Address(), int64(400), []int64{})
	output, err = f.d.Dispatch(treasury.Address(), inputV2)
	require.NoError(t, err)
	status, rest = decodeHAPI(t, arguments(typeInt64), output)
	require.Equal(t, tokens.StatusOK, status)
	require.Equal(t, int64(600), convert[int64](rest[0]))

	// Identical post-state regardless of the call shape.
	for _, id := range []types.EntityID{first, second} {
		token, err := f.state.GetToken(id)
		require.NoError(t, err)
		require.Equal(t, uint64(600), token.TotalSupply)
		require.Equal(t, uint64(600), f.balance(treasury, id))
	}
}
