package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"

	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

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
	policyAddr      = common.BytesToAddress([]byte{0x20})

	walletAddr = common.BytesToAddress([]byte{0x40})
	assetAddr  = common.BytesToAddress([]byte{0x50})
	asset2Addr = common.BytesToAddress([]byte{0x51})
)

type testInput struct {
	Ctx          sdk.Context
	KernelKeeper *kernelkeeper.Keeper
	RentalKeeper *rentalkeeper.Keeper
	Verifier     *mockVerifier
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

	verifier := &mockVerifier{eoas: make(map[common.Address]bool)}
	rentalKeeper := rentalkeeper.NewKeeper(runtime.NewKVStoreService(rentalKey), storeModuleAddr, kernelKeeper, verifier)

	require.NoError(t, kernelKeeper.InstallModule(ctx, rentalKeeper))
	require.NoError(t, kernelKeeper.ActivatePolicy(ctx, newStorePolicy(policyAddr)))
	require.NoError(t, kernelKeeper.GrantRole(ctx, adminAddr, rentaltypes.RoleAdmin, adminAddr))

	return testInput{
		Ctx:          ctx,
		KernelKeeper: kernelKeeper,
		RentalKeeper: rentalKeeper,
		Verifier:     verifier,
	}
}

// mockVerifier treats every address as a contract unless marked as an EOA.
type mockVerifier struct {
	eoas map[common.Address]bool
}

func (v *mockVerifier) IsContract(_ context.Context, addr common.Address) (bool, error) {
	return !v.eoas[addr], nil
}

// storePolicy is granted every rental mutator selector for tests.
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
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorRemoveRentals),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorRemoveRentalsBatch),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorUpdateHookPath),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, p.addr, rentaltypes.SelectorUpdateHookStatus),
	}
}

func (p *storePolicy) ConfigureDependencies(_ context.Context) ([]kerneltypes.Keycode, error) {
	return []kerneltypes.Keycode{rentaltypes.ModuleKeycode}, nil
}

func (p *storePolicy) SetActiveStatus(_ context.Context, _ bool) {}

func (p *storePolicy) ChangeKernel(_ context.Context, _ kerneltypes.KernelService) error { return nil }
