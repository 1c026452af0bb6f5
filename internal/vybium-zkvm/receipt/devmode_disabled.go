//go:build vybium_disable_dev_mode

package receipt

// DevModeSupported reports whether dev-mode proving and fake-receipt
// verification are compiled into this binary. This build excludes them.
func DevModeSupported() bool { return false }
