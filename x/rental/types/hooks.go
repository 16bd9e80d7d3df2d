package types

// Hook status bitmap. A hook's status controls which events it receives;
// any value outside [0, MaxHookStatus] is rejected.
const (
	// HookFlagOnTransaction routes ordinary wallet calls targeting the
	// hooked contract through the hook.
	HookFlagOnTransaction uint8 = 1 << 0

	// HookFlagOnStart invokes the hook when a rental starts.
	HookFlagOnStart uint8 = 1 << 1

	// HookFlagOnStop invokes the hook when a rental stops.
	HookFlagOnStop uint8 = 1 << 2

	// MaxHookStatus is the highest valid status bitmap value.
	MaxHookStatus uint8 = HookFlagOnTransaction | HookFlagOnStart | HookFlagOnStop
)

// HookStatusEnabled reports whether the given flag is set in a status.
func HookStatusEnabled(status, flag uint8) bool {
	return status&flag != 0
}
