//go:build !vybium_disable_dev_mode

package receipt

// DevModeSupported reports whether dev-mode proving and fake-receipt
// verification are compiled into this binary. Build with the
// vybium_disable_dev_mode tag to force it off regardless of runtime
// configuration.
func DevModeSupported() bool { return true }
