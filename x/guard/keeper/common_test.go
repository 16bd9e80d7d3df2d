package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"

	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	guardkeeper "github.com/rentable-labs/rentable/x/guard/keeper"
	guardtypes "github.com/rentable-labs/rentable/x/guard/types"
	kernelkeeper "github.com/rentable-labs/rentable/x/kernel/keeper"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	rentalkeeper "github.com/rentable-labs/rentable/x/rental/keeper"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

var (
	executorAddr = common.BytesToAddress([]byte{0x01})
	adminAddr    = common.BytesToAddress([]byte{0x02})
	strangerAddr = common.BytesToAddress([]byte{0x03})

	storeModuleAddr = common.BytesToAddress([]byte{0x10})
	guardAddr       = common.BytesToAddress([]byte{0x21})
	policyAddr      = common.BytesToAddress([]byte{0x20})

	walletAddr = common.BytesToAddress([]byte{0x40})
	assetAddr  = common.BytesToAddress([]byte{0x50})
	hookAddr   = common.BytesToAddress([]byte{0x61})
	otherAddr  = common.BytesToAddress([]byte{0x62})
)

type testInput struct {
	Ctx          sdk.Context
	KernelKeeper *kernelkeeper.Keeper
	RentalKeeper *rentalkeeper.Keeper
	GuardKeeper  *guardkeeper.Keeper
	Tokens       *mockTokenReader
}

func createDefaultTestInput(t testing.TB) testInput {
	kernelKey := storetypes.NewKVStoreKey(kerneltypes.StoreKey)
	rentalKey := storetypes.NewKVStoreKey(rentaltypes.StoreKey)

	db := dbm.NewMemDB()
	ms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	ms.MountStoreWithDB(kernelKey, storetypes.StoreTypeIAVL, db)
	ms.MountStoreWithDB(rentalKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, ms.LoadLatestVersion())

	ctx := sdk.NewContext(ms, tmproto.Header{
		Height: 1,
		Time:   time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}, false, log.NewNopLogger())

	kernelKeeper := kernelkeeper.NewKeeper(runtime.NewKVStoreService(kernelKey), executorAddr, adminAddr)
	rentalKeeper := rentalkeeper.NewKeeper(runtime.NewKVStoreService(rentalKey), storeModuleAddr, kernelKeeper, allContracts{})

	tokens := newMockTokenReader()
	guardKeeper := guardkeeper.NewKeeper(guardAddr, kernelKeeper, tokens)

	require.NoError(t, kernelKeeper.InstallModule(ctx, rentalKeeper))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, newStorePolicy(policyAddr)))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, guardKeeper))
	require.NoError(t, kernelKeeper.GrantRole(ctx, adminAddr, rentaltypes.RoleAdmin, adminAddr))

	return testInput{
		Ctx:          ctx,
		KernelKeeper: kernelKeeper,
		RentalKeeper: rentalKeeper,
		GuardKeeper:  guardKeeper,
		Tokens:       tokens,
	}
}

// encumber writes rental state through the granted store policy.
func encumber(t *testing.T, input testInput, orderHash common.Hash, asset common.Address, tokenID, amount int64) {
	require.NoError(t, input.RentalKeeper.AddRentals(input.Ctx, policyAddr, orderHash, []rentaltypes.RentalUpdate{{
		Wallet:  walletAddr,
		Asset:   asset,
		TokenID: math.NewInt(tokenID),
		Amount:  math.NewInt(amount),
	}}))
}

// calldata packs a selector with 32-byte argument words.
func calldata(selector kerneltypes.Selector, words ...common.Hash) []byte {
	data := selector.Bytes()
	for _, word := range words {
		data = append(data, word.Bytes()...)
	}

	return data
}

func addressWord(addr common.Address) common.Hash {
	return common.BytesToHash(common.LeftPadBytes(addr.Bytes(), common.HashLength))
}

func uintWord(n int64) common.Hash {
	return common.BigToHash(math.NewInt(n).BigInt())
}

// allContracts is a contract verifier that accepts every address.
type allContracts struct{}

func (allContracts) IsContract(_ context.Context, _ common.Address) (bool, error) {
	return true, nil
}

// mockTokenReader serves erc1155 balances for the partial-amount rule.
type mockTokenReader struct {
	balances map[common.Hash]math.Int
}

func newMockTokenReader() *mockTokenReader {
	return &mockTokenReader{balances: make(map[common.Hash]math.Int)}
}

func balanceKey(token, holder common.Address, tokenID math.Int) common.Hash {
	return rentaltypes.RentalID(holder, token, tokenID)
}

func (r *mockTokenReader) set(token, holder common.Address, tokenID, amount int64) {
	r.balances[balanceKey(token, holder, math.NewInt(tokenID))] = math.NewInt(amount)
}

func (r *mockTokenReader) BalanceOf(_ context.Context, token, holder common.Address, tokenID math.Int) (math.Int, error) {
	balance, ok := r.balances[balanceKey(token, holder, tokenID)]
	if !ok {
		return math.ZeroInt(), nil
	}

	return balance, nil
}

// storePolicy is granted the rental mutator selectors used to stage state.
type storePolicy struct {
	addr common.Address
}

func newStorePolicy(addr common.Address) *storePolicy {
	return &storePolicy{addr: addr}
}

func (p *storePolicy) Address() common.Address { return p.addr }

func (p *storePolicy) RequestedPermissions() []kerneltypes.Permission {
	return []kerneltypes.Permission{
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorAddRentals),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorUpdateHookPath),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorUpdateHookStatus),
	}
}

func (p *storePolicy) ConfigureDependencies(_ context.Context) ([]kerneltypes.Keycode, error) {
	return []kerneltypes.Keycode{rentaltypes.ModuleKeycode}, nil
}

func (p *storePolicy) SetActiveStatus(_ context.Context, _ bool) {}

func (p *storePolicy) ChangeKernel(_ context.Context, _ kerneltypes.KernelService) error { return nil }

// mockHook is a configurable middleware instance.
type mockHook struct {
	onTransaction func() error
	onStart       func() error
	onStop        func() error

	transactionCalls int
	startCalls       int
	stopCalls        int
}

func (h *mockHook) OnTransaction(_ context.Context, _, _ common.Address, _ math.Int, _ []byte) error {
	h.transactionCalls++
	if h.onTransaction != nil {
		return h.onTransaction()
	}

	return nil
}

func (h *mockHook) OnStart(_ context.Context, _, _ common.Address, _, _ math.Int, _ []byte) error {
	h.startCalls++
	if h.onStart != nil {
		return h.onStart()
	}

	return nil
}

func (h *mockHook) OnStop(_ context.Context, _, _ common.Address, _, _ math.Int, _ []byte) error {
	h.stopCalls++
	if h.onStop != nil {
		return h.onStop()
	}

	return nil
}

var _ guardtypes.Hook = (*mockHook)(nil)
