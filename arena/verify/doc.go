// Package verify provides validation functions for arena buffers.
//
// The arena package calls Blocks as its post-operation check; the other
// helpers are stricter diagnostics used by tests and the arenactl tool.
//
// Checks:
//   - Capacity: the buffer can hold one header/footer pair
//   - Blocks: walking from offset 0 by 2*TagWidth+|tag| lands on every header,
//     every header equals its footer, and the walk ends exactly at len(data)
//   - Coalesced: no two adjacent blocks are both free
//
// All checks return *ValidationError on failure:
//
//	if err := verify.AllInvariants(a.Bytes()); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at %d: %s\n", verr.Type, verr.Offset, verr.Message)
//	    }
//	}
//
// ValidationError unwraps to the internal decode error, so callers can
// also match format-level causes with errors.Is.
package verify
