package cdblock

import (
	"github.com/kouen-dev/go-satemu/saturn/debug"
	"github.com/kouen-dev/go-satemu/saturn/scheduler"
)

// Block is the top-level CD block facade: drive, filter/partition engine,
// HIRQ/CR register set, and the command dispatcher that interprets CR1-4
// writes, per spec.md §4.11.
type Block struct {
	Drive      *Drive
	Partitions *PartitionManager
	FS         *Filesystem // nil until a disc image with a valid ISO-9660 PVD is mounted

	hirq     uint16
	hirqMask uint16

	cr                 [4]uint16 // CR1-4 as written by the host
	cr1, cr2, cr3, cr4 uint16    // latched response words

	commandPending bool

	// Host data-transfer port (0x98000) state: readBuffer/readPos back
	// host reads (GetSectorData, GetTOC, ReadDirectory, ReadFile, ...);
	// writeBuffer backs host writes (PutSectorData).
	dataTransferActive bool
	readBuffer         []byte
	readPos            int
	writeTransferActive bool
	writeBuffer         []byte

	getSectorLength uint16
	putSectorLength uint16
	lastCopyError   uint8
	lastActualSize  uint32
	fadSearchResult int
	lastBufferDest  uint8

	tracer debug.Tracer

	// RaiseInterrupt notifies the SCU of a pending CD-block IRQ (wired to
	// the SCU's external interrupt line in saturn.go).
	RaiseInterrupt func()
}

// New creates a CD block driving its own Drive off sched. A nil tracer
// disables dev-log tracing for this component at zero per-call cost.
func New(sched *scheduler.Scheduler, tracer debug.Tracer) *Block {
	if tracer == nil {
		tracer = debug.Nop
	}
	b := &Block{
		Partitions:      NewPartitionManager(),
		tracer:          tracer,
		fadSearchResult: -1,
		lastBufferDest:  Disconnected,
	}
	b.Drive = NewDrive(sched)
	b.Drive.OnSectorReady = b.onSectorReady
	b.Drive.OnReport = b.onPeriodicReport
	b.setHIRQ(0)
	return b
}

// MountImage attaches img as the drive's raw sector source and attempts
// to mount its ISO-9660 filesystem. FS stays nil (and the filesystem
// commands reject) if img has no valid Primary Volume Descriptor.
func (b *Block) MountImage(img DiscImage) {
	b.Drive.SetImage(img)
	if fs, err := NewFilesystem(b.Drive); err == nil {
		b.FS = fs
	} else {
		b.FS = nil
		b.tracer.Trace(debug.CategoryCDBlock, "filesystem mount failed", "err", err)
	}
}

// startReadTransfer arms the host data port for a sequence of 16-bit
// reads over data, and raises DRDY the way every transfer-producing
// command does once its payload is staged.
func (b *Block) startReadTransfer(data []byte) {
	b.dataTransferActive = true
	b.readBuffer = data
	b.readPos = 0
	b.setHIRQ(HIRQDRDY)
}

// ReadDataPort returns the next 16-bit word from the active read
// transfer, advancing the read position. Reads past the end return 0,
// matching the real port's behavior once a transfer underruns.
func (b *Block) ReadDataPort() uint16 {
	if !b.dataTransferActive || b.readPos+2 > len(b.readBuffer) {
		return 0
	}
	v := uint16(b.readBuffer[b.readPos])<<8 | uint16(b.readBuffer[b.readPos+1])
	b.readPos += 2
	return v
}

// WriteDataPort appends a 16-bit word to the active write-staging
// buffer (CmdPutSectorData's host-to-drive direction).
func (b *Block) WriteDataPort(v uint16) {
	if !b.writeTransferActive {
		return
	}
	b.writeBuffer = append(b.writeBuffer, byte(v>>8), byte(v))
}

func (b *Block) setHIRQ(bits uint16) {
	b.hirq |= bits
	if b.hirq&b.hirqMask != 0 && b.RaiseInterrupt != nil {
		b.RaiseInterrupt()
	}
}

// onSectorReady is called by the drive once per sector while playing: it
// builds a Sector record for the current FAD and runs it through the
// filter/partition engine.
func (b *Block) onSectorReady(fad uint32) {
	sec := Sector{FrameAddress: fad, Mode2: true, Size: SectorBytes}
	partition, delivered, full := b.Partitions.Deliver(&sec)
	if full {
		b.setHIRQ(HIRQBFUL)
		b.Drive.Pause()
		return
	}
	if delivered {
		b.lastBufferDest = uint8(partition)
		b.setHIRQ(HIRQCSCT)
	}
}

func (b *Block) onPeriodicReport() {
	b.setHIRQ(HIRQSCDQ)
}

// Command identifiers, named per spec.md §4.11's command table. Values
// are assigned in the order the command list is documented; no original-
// source dispatch table survives in the retrieved reference pack for this
// protocol (only struct/constant headers do), so this table is a
// clean-room design grounded in the documented command names and the
// HIRQ/status constants above (see DESIGN.md).
const (
	CmdGetStatus = iota
	CmdGetHardwareInfo
	CmdGetTOC
	CmdGetSessionInfo
	CmdInitializeCDSystem
	CmdOpenTray
	CmdEndDataTransfer
	CmdPlayDisc
	CmdSeekDisc
	CmdScanDisc
	CmdGetSubcodeQRW
	CmdSetCDDeviceConnection
	CmdGetCDDeviceConnection
	CmdGetLastBufferDestination
	CmdSetFilterRange
	CmdGetFilterRange
	CmdSetFilterSubheaderConditions
	CmdGetFilterSubheaderConditions
	CmdSetFilterMode
	CmdGetFilterMode
	CmdSetFilterConnection
	CmdGetFilterConnection
	CmdResetSelector
	CmdGetBufferSize
	CmdGetSectorNumber
	CmdCalculateActualSize
	CmdGetActualSize
	CmdGetSectorInfo
	CmdExecuteFADSearch
	CmdGetFADSearchResults
	CmdSetSectorLength
	CmdGetSectorData
	CmdDeleteSectorData
	CmdGetThenDeleteSectorData
	CmdPutSectorData
	CmdCopySectorData
	CmdMoveSectorData
	CmdGetCopyError
	CmdChangeDirectory
	CmdReadDirectory
	CmdGetFileSystemScope
	CmdGetFileInfo
	CmdReadFile
	CmdAbortFile
	CmdMpegGetStatus
	CmdMpegGetInterrupt
	CmdMpegSetInterruptMask
	CmdMpegInit
	CmdMpegSetMode
	CmdMpegPlay
	CmdMpegSetDecodingMethod
	CmdMpegSetConnection
	CmdMpegGetConnection
	CmdMpegSetStream
	CmdMpegGetStream
	CmdMpegDisplay
	CmdMpegSetWindow
	CmdMpegSetBorderColor
	CmdMpegSetFade
	CmdMpegSetVideoEffects
	CmdMpegSetLSI
	CmdAuthenticateDevice
	CmdIsAuthenticated
	CmdGetMPEGROM
)

// ExecuteCommand decodes CR1-4 the way the real drive does (CR1 high byte
// is the command code) and dispatches to the matching handler, returning
// the response CR1-4. HIRQ bits raised along the way are latched into the
// block's pending register (see HIRQ), not returned.
func (b *Block) ExecuteCommand(cr1, cr2, cr3, cr4 uint16) (rcr1, rcr2, rcr3, rcr4 uint16) {
	cmd := cr1 >> 8
	b.setHIRQ(HIRQCMOK)

	switch cmd {

	// ---- General CD block operations ----
	case CmdGetStatus:
		return b.statusWord(), 0, 0, 0
	case CmdGetHardwareInfo:
		// Fixed hardware-revision / "no MPEG card" payload; there is no
		// physical revision to query.
		return b.statusWord(), 0x0201, 0x0000, 0x0000
	case CmdGetTOC:
		toc := b.Drive.TOC()
		buf := make([]byte, 0, len(toc)*4)
		for _, e := range toc {
			buf = append(buf, e.Track, byte(e.FAD>>16), byte(e.FAD>>8), byte(e.FAD))
		}
		b.startReadTransfer(buf)
		return b.statusWord(), uint16(len(toc)), 0, 0
	case CmdGetSessionInfo:
		// Single-session discs only; session 1 starts at FAD 0.
		return b.statusWord(), 0x0100, 0, 0
	case CmdInitializeCDSystem:
		b.hirq = 0
		b.Drive.Stop()
		return b.statusWord(), 0, 0, 0
	case CmdOpenTray:
		b.Drive.OpenTray()
		b.setHIRQ(HIRQDCHG)
		return b.statusWord(), 0, 0, 0
	case CmdEndDataTransfer:
		remaining := uint16(0)
		if b.dataTransferActive {
			remaining = uint16(len(b.readBuffer) - b.readPos)
		}
		b.dataTransferActive = false
		b.readBuffer = nil
		b.readPos = 0
		b.writeTransferActive = false
		b.setHIRQ(HIRQEHST)
		return b.statusWord(), remaining, 0, 0

	// ---- Basic playback operations ----
	case CmdPlayDisc:
		startFAD := uint32(cr2)<<8 | uint32(cr3>>8)
		endFAD := uint32(cr3&0xFF)<<16 | uint32(cr4)
		repeat := uint8(cr1)
		b.Drive.Play(startFAD, endFAD, repeat)
		return b.statusWord(), 0, 0, 0
	case CmdSeekDisc:
		fad := uint32(cr2)<<8 | uint32(cr3>>8)
		b.Drive.Seek(fad)
		return b.statusWord(), 0, 0, 0
	case CmdScanDisc:
		fad := uint32(cr2)<<8 | uint32(cr3>>8)
		b.Drive.Scan(fad)
		return b.statusWord(), 0, 0, 0

	// ---- Subcode retrieval ----
	case CmdGetSubcodeQRW:
		fad := b.Drive.CurrentFAD()
		return b.statusWord(), uint16(fad >> 8), uint16(fad << 8), 0

	// ---- CD-ROM device connection: routes the *drive's own*
	// sector output to a filter, distinct from the per-filter connection
	// commands below. ----
	case CmdSetCDDeviceConnection:
		filterIdx := int(cr2 >> 8)
		b.Partitions.SetConnectionFilter(filterIdx)
		return b.statusWord(), 0, 0, 0
	case CmdGetCDDeviceConnection:
		return b.statusWord(), uint16(b.Partitions.ConnectionFilter())<<8, 0, 0
	case CmdGetLastBufferDestination:
		return b.statusWord(), uint16(b.lastBufferDest)<<8, 0, 0

	// ---- Filters: each sets/reads a filter's OWN routing
	// and match predicates, never the drive's connection. ----
	case CmdSetFilterRange:
		filterIdx := int(cr1)
		f := b.Partitions.Filter(filterIdx)
		f.StartFrameAddress = uint32(cr2)<<16 | uint32(cr3)
		f.FrameAddressCount = uint32(cr4) << 8
		return b.statusWord(), 0, 0, 0
	case CmdGetFilterRange:
		f := b.Partitions.Filter(int(cr1))
		return b.statusWord(), uint16(f.StartFrameAddress >> 16), uint16(f.StartFrameAddress), uint16(f.FrameAddressCount >> 8)
	case CmdSetFilterSubheaderConditions:
		filterIdx := int(cr1)
		f := b.Partitions.Filter(filterIdx)
		f.ChanNum = uint8(cr2 >> 8)
		f.FileNum = uint8(cr2)
		f.SubmodeMask = uint8(cr3 >> 8)
		f.SubmodeValue = uint8(cr3)
		f.CodingInfoMask = uint8(cr4 >> 8)
		f.CodingInfoValue = uint8(cr4)
		return b.statusWord(), 0, 0, 0
	case CmdGetFilterSubheaderConditions:
		f := b.Partitions.Filter(int(cr1))
		return b.statusWord(),
			uint16(f.ChanNum)<<8 | uint16(f.FileNum),
			uint16(f.SubmodeMask)<<8 | uint16(f.SubmodeValue),
			uint16(f.CodingInfoMask)<<8 | uint16(f.CodingInfoValue)
	case CmdSetFilterMode:
		filterIdx := int(cr1)
		f := b.Partitions.Filter(filterIdx)
		f.Mode = uint8(cr2 >> 8)
		return b.statusWord(), 0, 0, 0
	case CmdGetFilterMode:
		f := b.Partitions.Filter(int(cr1))
		return b.statusWord(), uint16(f.Mode)<<8, 0, 0
	case CmdSetFilterConnection:
		// cr2 high byte selects which of pass/fail to update (bit 0:
		// pass, bit 1: fail); cr3 high/low bytes carry the new routing.
		f := b.Partitions.Filter(int(cr1))
		selector := uint8(cr2 >> 8)
		if selector&0x01 != 0 {
			f.PassOutput = uint8(cr3 >> 8)
		}
		if selector&0x02 != 0 {
			f.FailOutput = uint8(cr3)
		}
		return b.statusWord(), 0, 0, 0
	case CmdGetFilterConnection:
		f := b.Partitions.Filter(int(cr1))
		return b.statusWord(), uint16(f.PassOutput)<<8, uint16(f.FailOutput)<<8, 0
	case CmdResetSelector:
		for i := range b.Partitions.filters {
			b.Partitions.filters[i].Reset()
		}
		for i := range b.Partitions.parts {
			b.Partitions.ClearPartition(i)
		}
		return b.statusWord(), 0, 0, 0

	// ---- Buffers and buffer partitions ----
	case CmdGetBufferSize:
		return b.statusWord(), uint16(NumBuffers), uint16(b.Partitions.FreeCount()), 0
	case CmdGetSectorNumber:
		partIdx := int(cr1)
		return b.statusWord(), uint16(b.Partitions.PartitionSize(partIdx)), 0, 0
	case CmdCalculateActualSize:
		partIdx := int(cr1)
		pos := int(cr2)
		count := int(cr3)
		total := 0
		for i := 0; i < count; i++ {
			if sec, ok := b.Partitions.PeekSector(partIdx, pos+i); ok {
				total += int(sec.Size)
			}
		}
		b.lastActualSize = uint32(total)
		return b.statusWord(), 0, 0, 0
	case CmdGetActualSize:
		return b.statusWord(), uint16(b.lastActualSize >> 16), uint16(b.lastActualSize), 0
	case CmdGetSectorInfo:
		partIdx := int(cr1)
		pos := int(cr2)
		sec, ok := b.Partitions.PeekSector(partIdx, pos)
		if !ok {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		return b.statusWord(),
			uint16(sec.FrameAddress >> 8),
			uint16(sec.FrameAddress<<8) | uint16(sec.Subheader.FileNum),
			uint16(sec.Subheader.ChanNum)<<8 | uint16(sec.Subheader.Submode)
	case CmdExecuteFADSearch:
		partIdx := int(cr1)
		targetFAD := uint32(cr2)<<8 | uint32(cr3>>8)
		b.fadSearchResult = -1
		for i := 0; i < b.Partitions.PartitionSize(partIdx); i++ {
			if sec, ok := b.Partitions.PeekSector(partIdx, i); ok && sec.FrameAddress == targetFAD {
				b.fadSearchResult = i
				break
			}
		}
		b.setHIRQ(HIRQESEL)
		return b.statusWord(), 0, 0, 0
	case CmdGetFADSearchResults:
		if b.fadSearchResult < 0 {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		return b.statusWord(), uint16(b.fadSearchResult), 0, 0

	// ---- Buffer input and output ----
	case CmdSetSectorLength:
		b.getSectorLength = cr1
		b.putSectorLength = cr2
		// Arms the write-staging buffer: the host streams the sector
		// through the data port immediately after setting its length,
		// committing it with CmdPutSectorData.
		b.writeBuffer = nil
		b.writeTransferActive = true
		return b.statusWord(), 0, 0, 0
	case CmdGetSectorData:
		partIdx := int(cr1)
		pos := int(cr2)
		sec, ok := b.Partitions.PeekSector(partIdx, pos)
		if !ok {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		n := b.getSectorLength
		if n == 0 || int(n) > len(sec.Data) {
			n = sec.Size
		}
		b.startReadTransfer(sec.Data[:n])
		return b.statusWord(), n, 0, 0
	case CmdDeleteSectorData:
		partIdx := int(cr1)
		pos := int(cr2)
		if b.Partitions.DeleteSector(partIdx, pos) {
			b.setHIRQ(HIRQEHST)
		}
		return b.statusWord(), 0, 0, 0
	case CmdGetThenDeleteSectorData:
		partIdx := int(cr1)
		_, ok := b.Partitions.PopSector(partIdx)
		if ok {
			b.setHIRQ(HIRQEHST)
		}
		return b.statusWord(), 0, 0, 0
	case CmdPutSectorData:
		partIdx := int(cr1)
		var sec Sector
		sec.Size = uint16(copy(sec.Data[:], b.writeBuffer))
		b.writeBuffer = nil
		b.writeTransferActive = false
		if b.Partitions.PushSector(partIdx, &sec) {
			b.setHIRQ(HIRQEHST)
		}
		return b.statusWord(), 0, 0, 0
	case CmdCopySectorData:
		srcPart := int(cr1)
		pos := int(cr2 >> 8)
		dstPart := int(cr2)
		if b.Partitions.CopySector(srcPart, pos, dstPart) {
			b.setHIRQ(HIRQECPY)
		} else {
			b.lastCopyError = 1
		}
		return b.statusWord(), 0, 0, 0
	case CmdMoveSectorData:
		srcPart := int(cr1)
		pos := int(cr2 >> 8)
		dstPart := int(cr2)
		if b.Partitions.MoveSector(srcPart, pos, dstPart) {
			b.setHIRQ(HIRQECPY)
		} else {
			b.lastCopyError = 1
		}
		return b.statusWord(), 0, 0, 0
	case CmdGetCopyError:
		return b.statusWord(), uint16(b.lastCopyError), 0, 0

	// ---- Filesystem operations, delegated to FS. Every
	// handler rejects if no disc image with a valid PVD is mounted. ----
	case CmdChangeDirectory:
		if b.FS == nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		lba := uint32(cr2)<<16 | uint32(cr3)
		prev, err := b.FS.ChangeDirectory(lba)
		if err != nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		b.setHIRQ(HIRQEFLS)
		return b.statusWord(), uint16(prev >> 16), uint16(prev), 0
	case CmdReadDirectory:
		if b.FS == nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		lba := uint32(cr2)<<16 | uint32(cr3)
		entries, err := b.FS.ReadDirectory(lba)
		if err != nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		buf := make([]byte, 0, len(entries)*4)
		for _, e := range entries {
			flag := uint8(0)
			if e.IsDir {
				flag = 1
			}
			buf = append(buf, flag, byte(e.LBA>>16), byte(e.LBA>>8), byte(e.LBA))
		}
		b.startReadTransfer(buf)
		b.setHIRQ(HIRQEFLS)
		return b.statusWord(), uint16(len(entries)), 0, 0
	case CmdGetFileSystemScope:
		if b.FS == nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		return b.statusWord(), uint16(b.FS.RootDirectory() >> 16), uint16(b.FS.RootDirectory()), uint16(b.FS.CurrentDirectory())
	case CmdGetFileInfo:
		if b.FS == nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		dirLBA := uint32(cr2)<<16 | uint32(cr3)
		entry, err := b.FS.GetFileInfo(dirLBA, int(cr4))
		if err != nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		buf := []byte{0, byte(entry.LBA >> 16), byte(entry.LBA >> 8), byte(entry.LBA),
			byte(entry.Size >> 24), byte(entry.Size >> 16), byte(entry.Size >> 8), byte(entry.Size)}
		if entry.IsDir {
			buf[0] = 1
		}
		b.startReadTransfer(buf)
		b.setHIRQ(HIRQEFLS)
		return b.statusWord(), uint16(entry.LBA >> 16), uint16(entry.LBA), 0
	case CmdReadFile:
		if b.FS == nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		lba := uint32(cr1)<<16 | uint32(cr2)
		offset := uint32(cr3) << 11 // sector-aligned, 2KiB units
		length := uint32(cr4) << 11
		data, err := b.FS.ReadFile(lba, offset, length)
		if err != nil {
			return uint16(StatusReject) << 8, 0, 0, 0
		}
		b.startReadTransfer(data)
		b.setHIRQ(HIRQEFLS)
		return b.statusWord(), uint16(len(data)), 0, 0
	case CmdAbortFile:
		b.dataTransferActive = false
		b.readBuffer = nil
		b.readPos = 0
		return b.statusWord(), 0, 0, 0

	// ---- MPEG decoder / stream / display / auth (no MPEG card modeled):
	// every subcommand in the group shares this one case, which answers
	// with the drive's current status word in CR1 and zeroed CR2-CR4
	// rather than dropping the command. ----
	case CmdMpegInit, CmdMpegGetStatus, CmdMpegGetInterrupt, CmdMpegSetInterruptMask,
		CmdMpegSetMode, CmdMpegPlay, CmdMpegSetDecodingMethod, CmdMpegSetConnection,
		CmdMpegGetConnection, CmdMpegSetStream, CmdMpegGetStream, CmdMpegDisplay,
		CmdMpegSetWindow, CmdMpegSetBorderColor, CmdMpegSetFade, CmdMpegSetVideoEffects,
		CmdMpegSetLSI, CmdAuthenticateDevice, CmdIsAuthenticated, CmdGetMPEGROM:
		return b.statusWord(), 0x0000, 0x0000, 0x0000

	default:
		b.tracer.Trace(debug.CategoryCDBlock, "unhandled command", "cmd", cmd)
		return uint16(StatusReject) << 8, 0, 0, 0
	}
}

// statusWord packs the drive's current status code into CR1's high byte,
// the form every command returns. The only low-byte flag is bit 0, set
// while the buffer pool has fewer than NumBuffers buffers free.
func (b *Block) statusWord() uint16 {
	v := uint16(b.Drive.StatusCode()) << 8
	if b.Partitions.FreeCount() < NumBuffers {
		v |= uint16(1) << 0 // at least one buffer is in use
	}
	return v
}

// HIRQ returns the current pending-interrupt bits as stored; hirqMask is
// not applied (it only gates RaiseInterrupt in setHIRQ).
func (b *Block) HIRQ() uint16 { return b.hirq }

// AcknowledgeHIRQ clears the bits set in mask from the pending register,
// matching a host write to the HIRQ register (write-1-to-clear).
func (b *Block) AcknowledgeHIRQ(mask uint16) { b.hirq &^= mask }

func (b *Block) SetHIRQMask(mask uint16) { b.hirqMask = mask }
func (b *Block) HIRQMask() uint16        { return b.hirqMask }
