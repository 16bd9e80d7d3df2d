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
	kernelkeeper "github.com/rentable-labs/rentable/x/kernel/keeper"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

var (
	executorAddr = common.BytesToAddress([]byte{0x01})
	adminAddr    = common.BytesToAddress([]byte{0x02})
	strangerAddr = common.BytesToAddress([]byte{0x03})

	escrowModuleAddr = common.BytesToAddress([]byte{0x11})
	policyAddr       = common.BytesToAddress([]byte{0x20})

	tokenAddr  = common.BytesToAddress([]byte{0x70})
	lenderAddr = common.BytesToAddress([]byte{0x41})
	renterAddr = common.BytesToAddress([]byte{0x42})
)

type testInput struct {
	Ctx          sdk.Context
	KernelKeeper *kernelkeeper.Keeper
	EscrowKeeper *escrowkeeper.Keeper
	Tokens       *mockTokenClient
}

func createDefaultTestInput(t testing.TB) testInput {
	kernelKey := storetypes.NewKVStoreKey(kerneltypes.StoreKey)
	escrowKey := storetypes.NewKVStoreKey(escrowtypes.StoreKey)

	db := dbm.NewMemDB()
	ms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	ms.MountStoreWithDB(kernelKey, storetypes.StoreTypeIAVL, db)
	ms.MountStoreWithDB(escrowKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, ms.LoadLatestVersion())

	ctx := sdk.NewContext(ms, tmproto.Header{
		Height: 1,
		Time:   time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}, false, log.NewNopLogger())

	kernelKeeper := kernelkeeper.NewKeeper(runtime.NewKVStoreService(kernelKey), executorAddr, adminAddr)

	tokens := newMockTokenClient(escrowModuleAddr)
	escrowKeeper := escrowkeeper.NewKeeper(runtime.NewKVStoreService(escrowKey), escrowModuleAddr, kernelKeeper, tokens)

	require.NoError(t, kernelKeeper.InstallModule(ctx, escrowKeeper))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, newEscrowPolicy(policyAddr)))
	require.NoError(t, kernelKeeper.GrantRole(ctx, adminAddr, rentaltypes.RoleAdmin, adminAddr))

	return testInput{
		Ctx:          ctx,
		KernelKeeper: kernelKeeper,
		EscrowKeeper: escrowKeeper,
		Tokens:       tokens,
	}
}

// mockTokenClient is an in-memory erc20 substrate. Transfers debit the
// escrow address; per-token failure modes emulate non-standard tokens.
type mockTokenClient struct {
	escrow   common.Address
	balances map[common.Address]map[common.Address]math.Int

	revertOn      map[common.Address]bool // transfers revert
	returnFalseOn map[common.Address]bool // transfers return false
	legacyOn      map[common.Address]bool // transfers return no data
}

func newMockTokenClient(escrow common.Address) *mockTokenClient {
	return &mockTokenClient{
		escrow:        escrow,
		balances:      make(map[common.Address]map[common.Address]math.Int),
		revertOn:      make(map[common.Address]bool),
		returnFalseOn: make(map[common.Address]bool),
		legacyOn:      make(map[common.Address]bool),
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

func (c *mockTokenClient) Call(_ context.Context, token common.Address, input []byte) ([]byte, error) {
	if !bytes.HasPrefix(input, escrowtypes.SelectorERC20Transfer.Bytes()) {
		return nil, fmt.Errorf("unexpected selector %x", input[:4])
	}

	if c.revertOn[token] {
		return nil, fmt.Errorf("execution reverted")
	}

	if c.returnFalseOn[token] {
		return common.BigToHash(big.NewInt(0)).Bytes(), nil
	}

	to := common.BytesToAddress(input[4+12 : 4+32])
	amount := math.NewIntFromBigInt(new(big.Int).SetBytes(input[4+32:]))

	held := c.balanceOf(token, c.escrow)
	if amount.GT(held) {
		return nil, fmt.Errorf("transfer amount exceeds balance")
	}

	c.balances[token][c.escrow] = held.Sub(amount)
	c.balances[token][to] = c.balanceOf(token, to).Add(amount)

	if c.legacyOn[token] {
		return nil, nil
	}

	return common.BigToHash(big.NewInt(1)).Bytes(), nil
}

// escrowPolicy is granted every escrow mutator selector for tests.
type escrowPolicy struct {
	addr common.Address
}

func newEscrowPolicy(addr common.Address) *escrowPolicy {
	return &escrowPolicy{addr: addr}
}

func (p *escrowPolicy) Address() common.Address { return p.addr }

func (p *escrowPolicy) RequestedPermissions() []kerneltypes.Permission {
	return []kerneltypes.Permission{
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, p.addr, escrowtypes.SelectorIncreaseDeposit),
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, p.addr, escrowtypes.SelectorDecreaseDeposit),
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, p.addr, escrowtypes.SelectorSettlePayment),
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, p.addr, escrowtypes.SelectorSettlePaymentBatch),
	}
}

func (p *escrowPolicy) ConfigureDependencies(_ context.Context) ([]kerneltypes.Keycode, error) {
	return []kerneltypes.Keycode{escrowtypes.ModuleKeycode}, nil
}

func (p *escrowPolicy) SetActiveStatus(_ context.Context, _ bool) {}

func (p *escrowPolicy) ChangeKernel(_ context.Context, _ kerneltypes.KernelService) error { return nil }
