//go:build arenadebug

package arena

// In debug builds every mutation is followed by a full chain validation and
// every Deallocate confirms the reference by walking the chain.
const debugChecks = true
