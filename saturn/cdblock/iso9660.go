package cdblock

import (
	"fmt"
	"strings"
)

// pvdSector is the Primary Volume Descriptor's conventional location,
// per ECMA-119 §8.4.1 (sector 16 on a standard CD-ROM track; the Saturn
// boots from the same offset).
const pvdSector = 16

const dirFlagDirectory = 1 << 1

// dirRecord is one decoded ISO-9660 Directory Record (ECMA-119 §9.1).
type dirRecord struct {
	extentLBA uint32
	dataSize  uint32
	flags     uint8
	name      string
}

// parseDirRecord decodes the Directory Record at the front of buf.
// consumed is the record's own length byte (buf[0]); ok is false once it
// hits a zero-length terminator record (the convention marking the end
// of a directory's last sector) or the buffer is too short to hold a
// record's fixed fields.
func parseDirRecord(buf []byte) (rec dirRecord, consumed int, ok bool) {
	if len(buf) == 0 {
		return dirRecord{}, 0, false
	}
	length := int(buf[0])
	if length == 0 {
		return dirRecord{}, 0, false
	}
	if length > len(buf) || length < 34 {
		return dirRecord{}, length, false
	}
	rec.extentLBA = uint32(buf[2]) | uint32(buf[3])<<8 | uint32(buf[4])<<16 | uint32(buf[5])<<24
	rec.dataSize = uint32(buf[10]) | uint32(buf[11])<<8 | uint32(buf[12])<<16 | uint32(buf[13])<<24
	rec.flags = buf[25]
	nameLen := int(buf[32])
	if 33+nameLen > length {
		return rec, length, false
	}
	name := string(buf[33 : 33+nameLen])
	switch {
	case nameLen == 1 && name[0] == 0x00:
		name = "."
	case nameLen == 1 && name[0] == 0x01:
		name = ".."
	default:
		if i := strings.IndexByte(name, ';'); i >= 0 {
			name = name[:i] // strip the ";version" suffix ISO-9660 appends to file names
		}
	}
	rec.name = name
	return rec, length, true
}

// DirEntry is one file or subdirectory entry, as reported by
// CmdReadDirectory/CmdGetFileInfo.
type DirEntry struct {
	Name  string
	LBA   uint32
	Size  uint32
	IsDir bool
}

// Filesystem is the minimal read-only ISO-9660 delegate backing the six
// filesystem commands (spec.md §4.11). It walks Directory Records
// directly out of the mounted disc image's sectors rather than building
// an in-memory tree, reading through the same Drive the command
// dispatcher already holds (see saturn/cdblock/drive.go's DiscImage
// seam). Grounded on ymir-core's and satemu-core's filesystem readers
// (original_source/libs/{ymir-core,satemu-core}), which take the same
// approach.
type Filesystem struct {
	drive            *Drive
	rootLBA, rootLen uint32
	curLBA, curLen   uint32
}

// NewFilesystem reads the Primary Volume Descriptor off drive's mounted
// image and returns a Filesystem rooted at its root directory record.
func NewFilesystem(drive *Drive) (*Filesystem, error) {
	sec, ok := drive.ReadSector(pvdSector)
	if !ok {
		return nil, fmt.Errorf("cdblock: no sector at PVD location %d", pvdSector)
	}
	if sec[0] != 1 || string(sec[1:6]) != "CD001" {
		return nil, fmt.Errorf("cdblock: sector %d is not a primary volume descriptor", pvdSector)
	}
	rec, _, ok := parseDirRecord(sec[156:])
	if !ok {
		return nil, fmt.Errorf("cdblock: malformed root directory record")
	}
	fs := &Filesystem{drive: drive, rootLBA: rec.extentLBA, rootLen: rec.dataSize}
	fs.curLBA, fs.curLen = fs.rootLBA, fs.rootLen
	return fs, nil
}

// RootDirectory returns the root directory's extent LBA.
func (fs *Filesystem) RootDirectory() uint32 { return fs.rootLBA }

// CurrentDirectory returns the current directory's extent LBA.
func (fs *Filesystem) CurrentDirectory() uint32 { return fs.curLBA }

// dirSelfSize reads the "." entry at the front of the directory extent
// at lba to discover the extent's own size: every ISO-9660 directory
// opens with a self-referencing record whose data length equals the
// whole extent, so this doubles as a "is this really a directory" check.
func (fs *Filesystem) dirSelfSize(lba uint32) (uint32, error) {
	sec, ok := fs.drive.ReadSector(lba)
	if !ok {
		return 0, fmt.Errorf("cdblock: short read at LBA %d", lba)
	}
	rec, _, ok := parseDirRecord(sec[:])
	if !ok || rec.name != "." {
		return 0, fmt.Errorf("cdblock: LBA %d is not a directory extent", lba)
	}
	return rec.dataSize, nil
}

// readRecords reads every Directory Record in the extent [lba, lba+size),
// skipping the self (".") and parent ("..") entries.
func (fs *Filesystem) readRecords(lba, size uint32) ([]dirRecord, error) {
	var records []dirRecord
	sectors := (size + 2047) / 2048
	for s := uint32(0); s < sectors; s++ {
		sec, ok := fs.drive.ReadSector(lba + s)
		if !ok {
			return nil, fmt.Errorf("cdblock: short read at LBA %d", lba+s)
		}
		buf := sec[:]
		for len(buf) > 0 {
			rec, consumed, ok := parseDirRecord(buf)
			if !ok {
				break // zero-length terminator: rest of this sector is padding
			}
			if rec.name != "." && rec.name != ".." {
				records = append(records, rec)
			}
			buf = buf[consumed:]
		}
	}
	return records, nil
}

// ChangeDirectory moves the current-directory cursor to the directory at
// lba (an id obtained from RootDirectory or a prior ReadDirectory
// entry's LBA), returning the PREVIOUS current directory's LBA. Calling
// ChangeDirectory again with that returned value restores the original
// cursor, satisfying spec.md §8's round-trip property.
func (fs *Filesystem) ChangeDirectory(lba uint32) (prevLBA uint32, err error) {
	size, err := fs.dirSelfSize(lba)
	if err != nil {
		return 0, err
	}
	prevLBA = fs.curLBA
	fs.curLBA, fs.curLen = lba, size
	return prevLBA, nil
}

// ReadDirectory lists the entries of the directory at lba.
func (fs *Filesystem) ReadDirectory(lba uint32) ([]DirEntry, error) {
	size, err := fs.dirSelfSize(lba)
	if err != nil {
		return nil, err
	}
	records, err := fs.readRecords(lba, size)
	if err != nil {
		return nil, err
	}
	entries := make([]DirEntry, len(records))
	for i, r := range records {
		entries[i] = DirEntry{Name: r.name, LBA: r.extentLBA, Size: r.dataSize, IsDir: r.flags&dirFlagDirectory != 0}
	}
	return entries, nil
}

// GetFileInfo returns the index-th entry of the directory at dirLBA, the
// way the real command addresses a file by its position in the
// previously-read directory listing rather than by name.
func (fs *Filesystem) GetFileInfo(dirLBA uint32, index int) (DirEntry, error) {
	entries, err := fs.ReadDirectory(dirLBA)
	if err != nil {
		return DirEntry{}, err
	}
	if index < 0 || index >= len(entries) {
		return DirEntry{}, fmt.Errorf("cdblock: file index %d out of range", index)
	}
	return entries[index], nil
}

// ReadFile reads length bytes starting at the sector-aligned offset from
// the file extent at lba.
func (fs *Filesystem) ReadFile(lba, offset, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	startSector := offset / 2048
	endSector := (offset + length + 2047) / 2048
	out := make([]byte, 0, (endSector-startSector)*2048)
	for s := startSector; s < endSector; s++ {
		sec, ok := fs.drive.ReadSector(lba + s)
		if !ok {
			return nil, fmt.Errorf("cdblock: short read at LBA %d", lba+s)
		}
		out = append(out, sec[:]...)
	}
	lo := offset % 2048
	if int(lo) > len(out) {
		return nil, nil
	}
	hi := lo + length
	if int(hi) > len(out) {
		hi = uint32(len(out))
	}
	return out[lo:hi], nil
}
