package storage

// Preallocation tracks block-wise space reservation for a writable file.
// Embed it to get SetPreallocationBlockSize and GetPreallocationStatus, and
// call Prepare from PrepareWrite.
type Preallocation struct {
	blockSize int
	lastBlock int
}

func (p *Preallocation) SetPreallocationBlockSize(size int) {
	p.blockSize = size
}

func (p *Preallocation) GetPreallocationStatus() (blockSize, lastAllocatedBlock int) {
	return p.blockSize, p.lastBlock
}

// Prepare reserves every block touched by [offset, offset+length) that lies
// past the last reserved block. alloc receives the byte range to reserve.
func (p *Preallocation) Prepare(offset, length int, alloc func(offset, length uint64) error) {
	if p.blockSize <= 0 {
		return
	}
	newLast := (offset + length + p.blockSize - 1) / p.blockSize
	if newLast <= p.lastBlock {
		return
	}
	spanned := newLast - p.lastBlock
	// Allocation is advisory; a failed reservation surfaces on the write.
	_ = alloc(uint64(p.blockSize*p.lastBlock), uint64(p.blockSize*spanned))
	p.lastBlock = newLast
}

// Preallocated reports whether any space was reserved past the written data.
func (p *Preallocation) Preallocated() bool {
	return p.lastBlock > 0
}
