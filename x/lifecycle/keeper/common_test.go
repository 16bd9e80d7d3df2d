package keeper_test

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
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

	escrowkeeper "github.com/rentable-labs/rentable/x/escrow/keeper"
	escrowtypes "github.com/rentable-labs/rentable/x/escrow/types"
	guardkeeper "github.com/rentable-labs/rentable/x/guard/keeper"
	kernelkeeper "github.com/rentable-labs/rentable/x/kernel/keeper"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	lifecyclekeeper "github.com/rentable-labs/rentable/x/lifecycle/keeper"
	rentalkeeper "github.com/rentable-labs/rentable/x/rental/keeper"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

var (
	executorAddr = common.BytesToAddress([]byte{0x01})
	adminAddr    = common.BytesToAddress([]byte{0x02})
	strangerAddr = common.BytesToAddress([]byte{0x03})

	storeModuleAddr  = common.BytesToAddress([]byte{0x10})
	escrowModuleAddr = common.BytesToAddress([]byte{0x11})
	guardAddr        = common.BytesToAddress([]byte{0x21})
	lifecycleAddr    = common.BytesToAddress([]byte{0x22})
	hookPolicyAddr   = common.BytesToAddress([]byte{0x23})

	walletAddr = common.BytesToAddress([]byte{0x40})
	lenderAddr = common.BytesToAddress([]byte{0x41})
	renterAddr = common.BytesToAddress([]byte{0x42})
	assetAddr  = common.BytesToAddress([]byte{0x50})
	tokenAddr  = common.BytesToAddress([]byte{0x70})
	hookAddr   = common.BytesToAddress([]byte{0x61})
)

type testInput struct {
	Ctx             sdk.Context
	KernelKeeper    *kernelkeeper.Keeper
	RentalKeeper    *rentalkeeper.Keeper
	EscrowKeeper    *escrowkeeper.Keeper
	GuardKeeper     *guardkeeper.Keeper
	LifecycleKeeper *lifecyclekeeper.Keeper
	Tokens          *mockTokenClient
}

// createDefaultTestInput wires the whole protocol: kernel registry, the
// rental and escrow modules, and the guard and lifecycle policies, with
// the asset and payment token whitelisted.
func createDefaultTestInput(t testing.TB) testInput {
	kernelKey := storetypes.NewKVStoreKey(kerneltypes.StoreKey)
	rentalKey := storetypes.NewKVStoreKey(rentaltypes.StoreKey)
	escrowKey := storetypes.NewKVStoreKey(escrowtypes.StoreKey)

	db := dbm.NewMemDB()
	ms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	ms.MountStoreWithDB(kernelKey, storetypes.StoreTypeIAVL, db)
	ms.MountStoreWithDB(rentalKey, storetypes.StoreTypeIAVL, db)
	ms.MountStoreWithDB(escrowKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, ms.LoadLatestVersion())

	ctx := sdk.NewContext(ms, tmproto.Header{
		Height: 1,
		Time:   time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}, false, log.NewNopLogger())

	kernelKeeper := kernelkeeper.NewKeeper(runtime.NewKVStoreService(kernelKey), executorAddr, adminAddr)
	rentalKeeper := rentalkeeper.NewKeeper(runtime.NewKVStoreService(rentalKey), storeModuleAddr, kernelKeeper, allContracts{})

	tokens := newMockTokenClient(escrowModuleAddr)
	escrowKeeper := escrowkeeper.NewKeeper(runtime.NewKVStoreService(escrowKey), escrowModuleAddr, kernelKeeper, tokens)
	guardKeeper := guardkeeper.NewKeeper(guardAddr, kernelKeeper, tokenReader{tokens})
	lifecycleKeeper := lifecyclekeeper.NewKeeper(lifecycleAddr, kernelKeeper, guardKeeper)

	require.NoError(t, kernelKeeper.InstallModule(ctx, rentalKeeper))
	require.NoError(t, kernelKeeper.InstallModule(ctx, escrowKeeper))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, guardKeeper))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, lifecycleKeeper))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, newHookPolicy(hookPolicyAddr)))
	require.NoError(t, kernelKeeper.GrantRole(ctx, adminAddr, rentaltypes.RoleAdmin, adminAddr))

	require.NoError(t, rentalKeeper.ToggleWhitelist(ctx, adminAddr, rentaltypes.WhitelistAssets, assetAddr, true))
	require.NoError(t, rentalKeeper.ToggleWhitelist(ctx, adminAddr, rentaltypes.WhitelistPayments, tokenAddr, true))

	return testInput{
		Ctx:             ctx,
		KernelKeeper:    kernelKeeper,
		RentalKeeper:    rentalKeeper,
		EscrowKeeper:    escrowKeeper,
		GuardKeeper:     guardKeeper,
		LifecycleKeeper: lifecycleKeeper,
		Tokens:          tokens,
	}
}

// hookPolicy is granted the hook-routing selectors used to stage tests.
type hookPolicy struct {
	addr common.Address
}

func newHookPolicy(addr common.Address) *hookPolicy {
	return &hookPolicy{addr: addr}
}

func (p *hookPolicy) Address() common.Address { return p.addr }

func (p *hookPolicy) RequestedPermissions() []kerneltypes.Permission {
	return []kerneltypes.Permission{
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorUpdateHookPath),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorUpdateHookStatus),
	}
}

func (p *hookPolicy) ConfigureDependencies(_ context.Context) ([]kerneltypes.Keycode, error) {
	return []kerneltypes.Keycode{rentaltypes.ModuleKeycode}, nil
}

func (p *hookPolicy) SetActiveStatus(_ context.Context, _ bool) {}

func (p *hookPolicy) ChangeKernel(_ context.Context, _ kerneltypes.KernelService) error { return nil }

// allContracts is a contract verifier that accepts every address.
type allContracts struct{}

func (allContracts) IsContract(_ context.Context, _ common.Address) (bool, error) {
	return true, nil
}

// mockTokenClient is an in-memory erc20/erc1155 substrate shared by the
// escrow and the guard.
type mockTokenClient struct {
	escrow   common.Address
	balances map[common.Address]map[common.Address]math.Int
}

func newMockTokenClient(escrow common.Address) *mockTokenClient {
	return &mockTokenClient{
		escrow:   escrow,
		balances: make(map[common.Address]map[common.Address]math.Int),
	}
}

func (c *mockTokenClient) mint(token, holder common.Address, amount int64) {
	if c.balances[token] == nil {
		c.balances[token] = make(map[common.Address]math.Int)
	}

	c.balances[token][holder] = c.balanceOf(token, holder).Add(math.NewInt(amount))
}

func (c *mockTokenClient) balanceOf(token, holder common.Address) math.Int {
	balance, ok := c.balances[token][holder]
	if !ok {
		return math.ZeroInt()
	}

	return balance
}

func (c *mockTokenClient) BalanceOf(_ context.Context, token, holder common.Address) (math.Int, error) {
	return c.balanceOf(token, holder), nil
}

// tokenReader adapts the client to the guard's per-id balance reads; the
// lifecycle tests only need fungible semantics, so the id is ignored.
type tokenReader struct {
	c *mockTokenClient
}

func (r tokenReader) BalanceOf(_ context.Context, token, holder common.Address, _ math.Int) (math.Int, error) {
	return r.c.balanceOf(token, holder), nil
}

func (c *mockTokenClient) Call(_ context.Context, token common.Address, input []byte) ([]byte, error) {
	if !bytes.HasPrefix(input, escrowtypes.SelectorERC20Transfer.Bytes()) {
		return nil, fmt.Errorf("unexpected selector %x", input[:4])
	}

	to := common.BytesToAddress(input[4+12 : 4+32])
	amount := math.NewIntFromBigInt(new(big.Int).SetBytes(input[4+32:]))

	held := c.balanceOf(token, c.escrow)
	if amount.GT(held) {
		return nil, fmt.Errorf("transfer amount exceeds balance")
	}

	c.balances[token][c.escrow] = held.Sub(amount)
	c.balances[token][to] = c.balanceOf(token, to).Add(amount)
	return common.BigToHash(big.NewInt(1)).Bytes(), nil
}
