package cdblock

// PartitionManager owns the 200-buffer pool, the 24 filters, and the 24
// output partitions sectors land in after filter testing, per spec.md
// §4.12 and the worked example in §8 scenario 5.
type PartitionManager struct {
	buffers  [NumBuffers]Sector
	inUse    [NumBuffers]bool
	filters  [NumFilters]Filter
	parts    [NumPartitions]Partition
	reserved int // buffers held back for the host's current read partition

	// connectionFilter is the filter the drive's sector output enters the
	// chain at (filter 0 until SetConnectionFilter changes it).
	connectionFilter int
}

// NewPartitionManager returns a manager with all filters reset to their
// default pass-to-own-partition / fail-to-disconnected wiring.
func NewPartitionManager() *PartitionManager {
	m := &PartitionManager{}
	for i := range m.filters {
		m.filters[i].Index = uint8(i)
		m.filters[i].Reset()
	}
	return m
}

func (m *PartitionManager) Filter(index int) *Filter { return &m.filters[index] }

// FreeCount returns how many buffers remain unallocated, excluding the
// reserved margin.
func (m *PartitionManager) FreeCount() int {
	free := 0
	for _, used := range m.inUse {
		if !used {
			free++
		}
	}
	return free - m.reserved
}

func (m *PartitionManager) allocBuffer() int {
	for i, used := range m.inUse {
		if !used {
			m.inUse[i] = true
			return i
		}
	}
	return -1
}

func (m *PartitionManager) freeBuffer(idx int) {
	if idx >= 0 && idx < NumBuffers {
		m.inUse[idx] = false
	}
}

// Deliver runs a decoded sector through the filter chain starting at
// the connection filter, copying it into a free
// buffer and appending to the winning partition's queue on a pass, or
// dropping it if every filter in the chain fails or disconnects, or if
// the buffer pool is exhausted (BFUL condition, reported by the caller).
//
// The chain walk mirrors the original filter engine exactly: a filter's
// failOutput points at the next filter to try (Disconnected ends the
// chain), and passOutput names the destination partition.
func (m *PartitionManager) Deliver(s *Sector) (partition int, delivered bool, bufferFull bool) {
	filterIdx := m.connectionFilter
	for hops := 0; hops < NumFilters+1; hops++ {
		if filterIdx == Disconnected {
			return 0, false, false
		}
		f := &m.filters[filterIdx]
		if f.Test(s) {
			if int(f.PassOutput) >= NumPartitions {
				return 0, false, false // pass output disconnected
			}
			bufIdx := m.allocBuffer()
			if bufIdx < 0 {
				return 0, false, true
			}
			m.buffers[bufIdx] = *s
			p := int(f.PassOutput)
			m.parts[p].pushFront(bufIdx)
			return p, true, false
		}
		filterIdx = int(f.FailOutput)
	}
	return 0, false, false
}

// SetConnectionFilter routes the CD drive's own output connector to
// filterIndex (CmdSetCDDeviceConnection), or disconnects the drive
// entirely when filterIndex is Disconnected.
func (m *PartitionManager) SetConnectionFilter(index int) { m.connectionFilter = index }

// ConnectionFilter reports the filter index the CD drive's output is
// currently routed to (CmdGetCDDeviceConnection).
func (m *PartitionManager) ConnectionFilter() int { return m.connectionFilter }

// PartitionSize reports how many sectors are queued in a partition.
func (m *PartitionManager) PartitionSize(index int) int { return m.parts[index].size() }

// PeekSector returns the sector at position pos within a partition (0 =
// tail / oldest) without removing it, for CmdGetSectorData/CmdGetSectorInfo.
func (m *PartitionManager) PeekSector(index, pos int) (*Sector, bool) {
	p := &m.parts[index]
	n := len(p.entries)
	if pos < 0 || pos >= n {
		return nil, false
	}
	sec := m.buffers[p.entries[n-1-pos]]
	return &sec, true
}

// DeleteSector removes the sector at position pos within a partition,
// freeing its buffer, for CmdDeleteSectorData.
func (m *PartitionManager) DeleteSector(index, pos int) bool {
	p := &m.parts[index]
	n := len(p.entries)
	if pos < 0 || pos >= n {
		return false
	}
	i := n - 1 - pos
	m.freeBuffer(p.entries[i])
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	return true
}

// PushSector appends a host- or filter-supplied sector to a partition,
// consuming a free buffer, for CmdPutSectorData/CmdCopySectorData.
func (m *PartitionManager) PushSector(index int, s *Sector) bool {
	bufIdx := m.allocBuffer()
	if bufIdx < 0 {
		return false
	}
	m.buffers[bufIdx] = *s
	m.parts[index].pushFront(bufIdx)
	return true
}

// CopySector duplicates the sector at position pos in src into dst,
// leaving src untouched, for CmdCopySectorData.
func (m *PartitionManager) CopySector(src, pos, dst int) bool {
	sec, ok := m.PeekSector(src, pos)
	if !ok {
		return false
	}
	return m.PushSector(dst, sec)
}

// MoveSector relocates the sector at position pos from src to dst,
// removing it from src, for CmdMoveSectorData.
func (m *PartitionManager) MoveSector(src, pos, dst int) bool {
	sec, ok := m.PeekSector(src, pos)
	if !ok {
		return false
	}
	if !m.PushSector(dst, sec) {
		return false
	}
	return m.DeleteSector(src, pos)
}

// PopSector removes and returns the oldest (tail) sector queued in a
// partition, freeing its buffer slot.
func (m *PartitionManager) PopSector(index int) (*Sector, bool) {
	p := &m.parts[index]
	n := len(p.entries)
	if n == 0 {
		return nil, false
	}
	bufIdx := p.entries[n-1]
	p.entries = p.entries[:n-1]
	sec := m.buffers[bufIdx]
	m.freeBuffer(bufIdx)
	return &sec, true
}

// ClearPartition discards every sector queued in a partition, freeing
// their buffers.
func (m *PartitionManager) ClearPartition(index int) {
	p := &m.parts[index]
	for _, bufIdx := range p.entries {
		m.freeBuffer(bufIdx)
	}
	p.entries = nil
}

// Reserve and Release adjust the margin FreeCount holds back, used while
// the host is actively draining a partition so a burst of incoming
// sectors doesn't starve it.
func (m *PartitionManager) Reserve(n int)  { m.reserved += n }
func (m *PartitionManager) Release(n int) {
	m.reserved -= n
	if m.reserved < 0 {
		m.reserved = 0
	}
}
