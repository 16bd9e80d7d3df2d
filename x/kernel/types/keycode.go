package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeycodeLength is the maximum length of a module keycode.
const KeycodeLength = 5

// Keycode is the short identifier binding to exactly one live module.
type Keycode string

// Validate checks that the keycode is 1~5 upper-case ascii letters.
func (k Keycode) Validate() error {
	if len(k) == 0 || len(k) > KeycodeLength {
		return fmt.Errorf("keycode must be 1~%d characters, got %d", KeycodeLength, len(k))
	}

	for _, c := range k {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("keycode must contain only A-Z characters, got %q", k)
		}
	}

	return nil
}

// Bytes returns the keycode right-padded to KeycodeLength, used as a
// fixed-width component of composite store keys.
func (k Keycode) Bytes() []byte {
	bz := make([]byte, KeycodeLength)
	copy(bz, k)
	return bz
}

func (k Keycode) String() string {
	return string(k)
}

// SelectorLength is the byte length of a function selector.
const SelectorLength = 4

// Selector is the 4-byte identifier of a gated module function, computed
// as the leading bytes of the keccak256 hash of its signature.
type Selector [SelectorLength]byte

// NewSelector computes the selector of an EVM-style function signature.
func NewSelector(signature string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(signature))[:SelectorLength])
	return sel
}

func (s Selector) Bytes() []byte {
	return s[:]
}

func (s Selector) String() string {
	return fmt.Sprintf("0x%x", s[:])
}

// Permission is a single (keycode, policy, selector) capability grant.
type Permission struct {
	Keycode  Keycode
	Policy   common.Address
	Selector Selector
}

// NewPermission creates a permission entry for the given module function.
func NewPermission(keycode Keycode, policy common.Address, selector Selector) Permission {
	return Permission{
		Keycode:  keycode,
		Policy:   policy,
		Selector: selector,
	}
}

// Validate checks the permission components.
func (p Permission) Validate() error {
	if err := p.Keycode.Validate(); err != nil {
		return err
	}

	if p.Policy == (common.Address{}) {
		return fmt.Errorf("permission policy address must not be zero")
	}

	return nil
}

// permissionRecordLength is the encoded size of a permission without the
// policy address, which is carried by the store key.
const permissionRecordLength = KeycodeLength + SelectorLength

// EncodeRecord encodes the keycode and selector of a granted permission
// for the per-policy granted-permission list.
func (p Permission) EncodeRecord() []byte {
	bz := make([]byte, 0, permissionRecordLength)
	bz = append(bz, p.Keycode.Bytes()...)
	bz = append(bz, p.Selector.Bytes()...)
	return bz
}

// DecodePermissionRecord decodes a granted-permission record stored for
// the given policy.
func DecodePermissionRecord(policy common.Address, bz []byte) (Permission, error) {
	if len(bz) != permissionRecordLength {
		return Permission{}, fmt.Errorf("invalid permission record length %d", len(bz))
	}

	keycode := Keycode(trimKeycode(bz[:KeycodeLength]))
	var sel Selector
	copy(sel[:], bz[KeycodeLength:])

	return NewPermission(keycode, policy, sel), nil
}

func trimKeycode(bz []byte) string {
	for i, c := range bz {
		if c == 0 {
			return string(bz[:i])
		}
	}

	return string(bz)
}

// Role is an operator-level grant tag, disjoint from the module/policy
// capability system.
type Role string

// Validate checks that the role tag is 1~32 upper-case ascii letters or
// underscores.
func (r Role) Validate() error {
	if len(r) == 0 || len(r) > 32 {
		return fmt.Errorf("role must be 1~32 characters, got %d", len(r))
	}

	for _, c := range r {
		if (c < 'A' || c > 'Z') && c != '_' {
			return fmt.Errorf("role must contain only A-Z or underscore characters, got %q", r)
		}
	}

	return nil
}

func (r Role) String() string {
	return string(r)
}
