package types

const (
	// ModuleName is the name of the kernel module
	ModuleName = "kernel"

	// StoreKey is the string store representation
	StoreKey = ModuleName
)

// Keys for kernel store
// Items are stored with the following key: values
var (
	ModuleForKeycodePrefix = []byte{0x11} // keycode -> module address
	KeycodeForModulePrefix = []byte{0x12} // module address -> keycode
	PermissionsPrefix      = []byte{0x13} // (keycode, policy, selector) -> bool
	RolesPrefix            = []byte{0x14} // (role, address) -> bool

	ActivePoliciesPrefix      = []byte{0x21} // position -> policy address
	ActivePolicyIndexPrefix   = []byte{0x22} // policy address -> position
	ActivePolicyCountKey      = []byte{0x23}
	DependentsPrefix          = []byte{0x24} // (keycode, position) -> policy address
	DependentIndexPrefix      = []byte{0x25} // (keycode, policy address) -> position
	DependentCountPrefix      = []byte{0x26} // keycode -> list length
	DeclaredPermissionsPrefix = []byte{0x27} // (policy address, position) -> encoded permission
	DeclaredPermissionCount   = []byte{0x28} // policy address -> permission count

	PolicyDependenciesPrefix    = []byte{0x29} // (policy address, position) -> keycode
	PolicyDependencySizesPrefix = []byte{0x2a} // policy address -> dependency count

	ExecutorKey = []byte{0x31}
	AdminKey    = []byte{0x32}
	MigratedKey = []byte{0x33}
)
