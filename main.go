// citygame is a three-level side-scrolling platformer.
//
// Controls:
//
//	Left/Right   walk (hold Shift to run)
//	Space        jump, again in the air for a double jump
//	Z            shoot
//	Mouse        drop a bouncing ball
//	Esc          pause menu
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/citygame/assets"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/gameplay"
	"github.com/milk9111/citygame/prefabs"
	"github.com/milk9111/citygame/savegame"
	"github.com/spf13/cobra"
)

var (
	flagDebug   bool
	flagLevel   int
	flagName    string
	flagSeed    int64
	flagSlot    string
	flagDataDir string
	flagMute    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "citygame",
	Short:        "Side-scrolling platformer: collect credits, beat the chasers, defeat the boss",
	SilenceUsage: true,
	RunE:         runGame,
}

func init() {
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "debug logging, physics overlay and prefab hot reload")
	rootCmd.Flags().IntVar(&flagLevel, "level", 1, "level to start on (1-3)")
	rootCmd.Flags().StringVar(&flagName, "name", "player", "player display name")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagSlot, "slot", "slot1", "save slot used by the pause menu")
	rootCmd.Flags().StringVar(&flagDataDir, "data", ".", "directory holding the data/ images and sounds")
	rootCmd.Flags().BoolVar(&flagMute, "mute", false, "start with sound off")
}

func runGame(cmd *cobra.Command, args []string) error {
	if flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return err
	}

	store, err := savegame.Open("citygame")
	if err != nil {
		log.Warn("saves will not persist", "err", err)
		store = savegame.NewStore(savegame.NewMemoryBackend())
	}

	loader := assets.NewLoader(os.DirFS(flagDataDir))
	sound := assets.NewAudio(loader, spec.Cues)
	sound.SetMuted(flagMute)

	game, err := gameplay.New(gameplay.Config{
		Spec:       spec,
		PlayerName: flagName,
		StartLevel: flagLevel,
		Seed:       flagSeed,
		Cues:       sound,
		Store:      store,
		Slot:       flagSlot,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	shell := NewShell(game, loader, sound, flagDebug)
	shell.Start(ctx)
	defer shell.Close()

	if flagDebug {
		if err := shell.WatchPrefabs("prefabs", "levels"); err != nil {
			log.Warn("hot reload disabled", "err", err)
		}
	}

	ebiten.SetWindowSize(common.ScreenWidth, common.ScreenHeight)
	ebiten.SetWindowTitle("citygame")
	ebiten.SetTPS(common.StepRate)

	if err := ebiten.RunGame(shell); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
