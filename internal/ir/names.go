package ir

import "strconv"

// Reserved name prefixes. Each generator in the pipeline owns one prefix:
// the decomposer mints fragments, the slot allocator mints scratch slots,
// power expansion mints pass-local intermediates, and the front end binds
// one result slot per input expression.
const (
	FragmentPrefix = "frag"
	SlotPrefix     = "tmp"
	ResultPrefix   = "res"
	PowerPrefix    = "pow"
	AuxPrefix      = "aux"
)

var reservedPrefixes = []string{FragmentPrefix, SlotPrefix, ResultPrefix, PowerPrefix, AuxPrefix}

// FragmentName returns the n-th fragment name (frag0, frag1, ...).
func FragmentName(n int) string { return FragmentPrefix + strconv.Itoa(n) }

// SlotName returns the n-th scratch slot name (tmp0, tmp1, ...).
func SlotName(n int) string { return SlotPrefix + strconv.Itoa(n) }

// ResultName returns the n-th result slot name (res0, res1, ...).
func ResultName(n int) string { return ResultPrefix + strconv.Itoa(n) }

// PowerName returns the n-th power-expansion intermediate (pow0, pow1, ...).
func PowerName(n int) string { return PowerPrefix + strconv.Itoa(n) }

// AuxName returns the n-th merge-stage temporary (aux0, aux1, ...). Engine
// programs may reuse their own temporaries; merging renames every engine
// temporary into this namespace to restore single assignment.
func AuxName(n int) string { return AuxPrefix + strconv.Itoa(n) }

// IsResult reports whether name is a result slot (res<N>).
func IsResult(name string) bool { return hasReservedForm(name, ResultPrefix) }

// IsFragment reports whether name is a decomposer-minted fragment (frag<N>).
func IsFragment(name string) bool { return hasReservedForm(name, FragmentPrefix) }

// IsSlot reports whether name is an allocator-minted scratch slot (tmp<N>).
func IsSlot(name string) bool { return hasReservedForm(name, SlotPrefix) }

// IsReserved reports whether name collides with any generated-name form.
// User input containing such an identifier must be rejected before the
// pipeline runs; every later stage assumes the reserved namespaces are its
// own.
func IsReserved(name string) bool {
	for _, p := range reservedPrefixes {
		if hasReservedForm(name, p) {
			return true
		}
	}
	return false
}

// ResultIndex returns the N in res<N>, or -1 if name is not a result slot.
func ResultIndex(name string) int {
	if !IsResult(name) {
		return -1
	}
	n, err := strconv.Atoi(name[len(ResultPrefix):])
	if err != nil {
		return -1
	}
	return n
}

// hasReservedForm reports whether name is exactly prefix followed by one or
// more digits. A name like "tmpRate" is an ordinary user identifier; only
// "tmp12" collides.
func hasReservedForm(name, prefix string) bool {
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return false
	}
	for i := len(prefix); i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// IsIdent reports whether s is a well-formed identifier:
// [a-zA-Z_][a-zA-Z0-9_]*.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	if !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// IsInteger reports whether s is a non-empty run of decimal digits.
func IsInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
