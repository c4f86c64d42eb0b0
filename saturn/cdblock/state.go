package cdblock

import "github.com/kouen-dev/go-satemu/saturn/state"

// Capture returns the drive's logical position/state and the 24 filters'
// configuration as a save-state record. Buffered sector contents and the
// command/HIRQ register latches are intentionally excluded, per spec.md
// §4.13's Non-goals on persisting in-flight transfer state.
func (b *Block) Capture() state.CDBlockState {
	var out state.CDBlockState
	out.DriveState = uint8(b.Drive.State)
	out.CurrentFAD = b.Drive.currentFAD
	out.TargetFAD = b.Drive.targetFAD
	out.PlayEndFAD = b.Drive.playEndFAD
	out.DiscInserted = b.Drive.discInserted
	for i := 0; i < NumFilters; i++ {
		f := b.Partitions.Filter(i)
		out.Filters[i] = state.CDBlockFilterState{
			StartFrameAddress: f.StartFrameAddress,
			FrameAddressCount: f.FrameAddressCount,
			Mode:              f.Mode,
			FileNum:           f.FileNum,
			ChanNum:           f.ChanNum,
			SubmodeMask:       f.SubmodeMask,
			SubmodeValue:      f.SubmodeValue,
			CodingInfoMask:    f.CodingInfoMask,
			CodingInfoValue:   f.CodingInfoValue,
			PassOutput:        f.PassOutput,
			FailOutput:        f.FailOutput,
		}
	}
	return out
}

// Restore reinstates a previously captured record. The drive's scheduled
// periodic event is re-armed against its restored state so the cadence
// matches what Play/Scan/Pause would have set it to.
func (b *Block) Restore(s state.CDBlockState) {
	b.Drive.State = DriveState(s.DriveState)
	b.Drive.currentFAD = s.CurrentFAD
	b.Drive.targetFAD = s.TargetFAD
	b.Drive.playEndFAD = s.PlayEndFAD
	b.Drive.discInserted = s.DiscInserted
	b.Drive.rearm()

	for i := 0; i < NumFilters; i++ {
		f := b.Partitions.Filter(i)
		fs := s.Filters[i]
		f.StartFrameAddress = fs.StartFrameAddress
		f.FrameAddressCount = fs.FrameAddressCount
		f.Mode = fs.Mode
		f.FileNum = fs.FileNum
		f.ChanNum = fs.ChanNum
		f.SubmodeMask = fs.SubmodeMask
		f.SubmodeValue = fs.SubmodeValue
		f.CodingInfoMask = fs.CodingInfoMask
		f.CodingInfoValue = fs.CodingInfoValue
		f.PassOutput = fs.PassOutput
		f.FailOutput = fs.FailOutput
	}
}
