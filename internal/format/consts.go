package format

import "math"

// Arena buffer layout constants.
//
// Every block in an arena buffer is framed by two tags of identical width:
//
//	Offset           Size      Description
//	0x00             TagWidth  Header tag. Signed size: positive => free, negative => in use.
//	TagWidth         |tag|     Payload bytes handed to the caller.
//	TagWidth+|tag|   TagWidth  Footer tag. Must equal the header tag.
//
// The magnitude of a tag is the payload length only; it never includes the tags.
const (
	// TagWidth is the byte width of a header or footer tag.
	TagWidth = 4

	// BlockOverhead is the space taken by one header/footer pair.
	BlockOverhead = 2 * TagWidth

	// MinCapacity is the smallest buffer that can hold one block. A tag of
	// magnitude 0 is never valid, so the lone block needs one payload byte.
	MinCapacity = BlockOverhead + 1

	// MaxMagnitude is the largest payload a signed 32-bit tag can describe.
	MaxMagnitude = math.MaxInt32
)
