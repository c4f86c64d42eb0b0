// Command satemu-trace inspects save-state files and dev-log trace
// category names without needing a running core, for post-mortem
// debugging of a captured state.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kouen-dev/go-satemu/saturn/debug"
	"github.com/kouen-dev/go-satemu/saturn/state"
)

func main() {
	root := &cobra.Command{
		Use:   "satemu-trace",
		Short: "Inspect satemu save states and dev-log categories",
	}

	root.AddCommand(inspectCmd(), categoriesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func inspectCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect <save-state-file>",
		Short: "Print a summary of a save state's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			s, err := state.Load(f)
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}

			printSummary(s, verbose)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print each SCU DMA channel and each CD block filter")
	return cmd
}

func printSummary(s *state.State, verbose bool) {
	fmt.Printf("save state version %d\n", s.Version)
	fmt.Printf("scheduler: now=%d events=%d\n", s.Scheduler.Now, len(s.Scheduler.Events))
	fmt.Printf("scu:       intr status=%#010x mask=%#010x timers.enable=%t\n",
		s.SCU.IntrStatus, s.SCU.IntrMask, s.SCU.Timers.Enable)
	fmt.Printf("scudsp:    pc=%d executing=%t\n", s.SCUDSP.PC, s.SCUDSP.Executing)
	fmt.Printf("scsp:      master volume=%d scieb=%#06x\n", s.SCSP.MasterVolume, s.SCSP.SCIEB)
	fmt.Printf("cdblock:   drive state=%d disc inserted=%t current fad=%d\n",
		s.CDBlock.DriveState, s.CDBlock.DiscInserted, s.CDBlock.CurrentFAD)
	fmt.Printf("cartridge: kind=%d size=%d bytes\n", s.Cartridge.Kind, len(s.Cartridge.Data))
	fmt.Printf("sysmem:    wram low=%d bytes high=%d bytes backup=%d bytes\n",
		len(s.Sysmem.WRAMLow), len(s.Sysmem.WRAMHigh), len(s.Sysmem.BackupRAM))

	if !verbose {
		return
	}
	for i, ch := range s.SCU.Channels {
		fmt.Printf("  scu channel %d: src=%#010x dst=%#010x count=%d active=%t\n",
			i, ch.Src, ch.Dst, ch.Count, ch.Active)
	}
	for i, f := range s.CDBlock.Filters {
		fmt.Printf("  cdblock filter %d: start=%d count=%d mode=%#04x\n",
			i, f.StartFrameAddress, f.FrameAddressCount, f.Mode)
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List dev-log trace category names accepted by satemu --trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range []debug.Category{
				debug.CategoryScheduler, debug.CategoryBus, debug.CategoryCartridge,
				debug.CategorySysmem, debug.CategorySCU, debug.CategorySCUDSP,
				debug.CategorySCSP, debug.CategoryCDBlock, debug.CategoryFacade,
			} {
				fmt.Println(c.String())
			}
			return nil
		},
	}
}
