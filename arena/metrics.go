package arena

// Metrics is a snapshot of how the buffer is currently partitioned.
type Metrics struct {
	Capacity      int     // Buffer size in bytes
	UsedBytes     int     // Payload bytes in allocated blocks
	FreeBytes     int     // Payload bytes in free blocks
	OverheadBytes int     // Bytes spent on header and footer tags
	Blocks        int     // Total number of blocks
	UsedBlocks    int     // Number of allocated blocks
	FreeBlocks    int     // Number of free blocks
	LargestFree   int     // Largest free payload, the biggest request that can succeed
	Utilization   float64 // UsedBytes / Capacity (0.0-1.0)
	Fragmentation float64 // 1 - LargestFree/FreeBytes, 0 when nothing or one block is free
}

// Metrics walks the chain and returns a snapshot of arena usage.
// UsedBytes + FreeBytes + OverheadBytes always equals Capacity.
func (a *Arena) Metrics() (Metrics, error) {
	blocks, err := a.Blocks()
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{Capacity: len(a.buf), Blocks: len(blocks)}
	for _, b := range blocks {
		m.OverheadBytes += TagWidth * 2
		if b.Free {
			m.FreeBlocks++
			m.FreeBytes += b.Size
			m.LargestFree = max(m.LargestFree, b.Size)
			continue
		}
		m.UsedBlocks++
		m.UsedBytes += b.Size
	}

	if m.Capacity > 0 {
		m.Utilization = float64(m.UsedBytes) / float64(m.Capacity)
	}
	if m.FreeBytes > 0 {
		m.Fragmentation = 1 - float64(m.LargestFree)/float64(m.FreeBytes)
	}
	return m, nil
}
