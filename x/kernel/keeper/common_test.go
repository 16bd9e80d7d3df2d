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
)

var (
	executorAddr = common.BytesToAddress([]byte{0x01})
	adminAddr    = common.BytesToAddress([]byte{0x02})
	strangerAddr = common.BytesToAddress([]byte{0x03})
)

func createDefaultTestInput(t testing.TB) (sdk.Context, *kernelkeeper.Keeper) {
	key := storetypes.NewKVStoreKey(kerneltypes.StoreKey)
	db := dbm.NewMemDB()
	ms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	ms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	require.NoError(t, ms.LoadLatestVersion())

	ctx := sdk.NewContext(ms, tmproto.Header{
		Height: 1,
		Time:   time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}, false, log.NewNopLogger())

	keeper := kernelkeeper.NewKeeper(runtime.NewKVStoreService(key), executorAddr, adminAddr)
	return ctx, keeper
}

// testModule is a minimal passive module for registry tests.
type testModule struct {
	addr    common.Address
	keycode kerneltypes.Keycode

	kernel    kerneltypes.KernelService
	initCount int
}

func newTestModule(addr byte, keycode kerneltypes.Keycode, kernel kerneltypes.KernelService) *testModule {
	return &testModule{
		addr:    common.BytesToAddress([]byte{addr}),
		keycode: keycode,
		kernel:  kernel,
	}
}

func (m *testModule) Address() common.Address { return m.addr }

func (m *testModule) Keycode() kerneltypes.Keycode { return m.keycode }

func (m *testModule) InitializeModule(_ context.Context) error {
	m.initCount++
	return nil
}

func (m *testModule) ChangeKernel(_ context.Context, kernel kerneltypes.KernelService) error {
	m.kernel = kernel
	return nil
}

// testPolicy is a minimal active policy for registry tests.
type testPolicy struct {
	addr common.Address

	kernel      kerneltypes.KernelService
	permissions []kerneltypes.Permission
	deps        []kerneltypes.Keycode

	active          bool
	configuredCount int
}

func newTestPolicy(addr byte, kernel kerneltypes.KernelService, deps ...kerneltypes.Keycode) *testPolicy {
	return &testPolicy{
		addr:   common.BytesToAddress([]byte{addr}),
		kernel: kernel,
		deps:   deps,
	}
}

func (p *testPolicy) withPermissions(keycode kerneltypes.Keycode, signatures ...string) *testPolicy {
	for _, signature := range signatures {
		p.permissions = append(p.permissions, kerneltypes.NewPermission(keycode, p.addr, kerneltypes.NewSelector(signature)))
	}

	return p
}

func (p *testPolicy) Address() common.Address { return p.addr }

func (p *testPolicy) RequestedPermissions() []kerneltypes.Permission { return p.permissions }

func (p *testPolicy) ConfigureDependencies(_ context.Context) ([]kerneltypes.Keycode, error) {
	p.configuredCount++
	return p.deps, nil
}

func (p *testPolicy) SetActiveStatus(_ context.Context, active bool) { p.active = active }

func (p *testPolicy) ChangeKernel(_ context.Context, kernel kerneltypes.KernelService) error {
	p.kernel = kernel
	return nil
}
