package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"knights_gambit/internal/game"
	"knights_gambit/internal/saves"
	"knights_gambit/internal/settings"
	"knights_gambit/internal/tui"
)

func main() {
	settingsPath := flag.String("settings", getenv("KG_SETTINGS", "knights_gambit_settings.json"), "settings file")
	savesDir := flag.String("saves", getenv("KG_SAVES", "saves"), "directory for save slots")
	resume := flag.Bool("resume", getenb("KG_RESUME", false), "continue from the autosave slot")
	logPath := flag.String("log", getenv("KG_LOG", "knights_gambit.log"), "log file")
	flag.Parse()

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !tty {
		log.Fatal("failed to start knightsgambit: non-interactive terminals are not supported")
	}

	initLog(*logPath, "[knightsgambit] ")

	saveStore, err := saves.NewStore(*savesDir)
	if err != nil {
		log.Fatalf("saves: %v", err)
	}
	settingsStore := settings.NewStore(*settingsPath)

	var opts []func(*game.Engine)
	if *resume {
		snap, err := saveStore.LoadAutosave()
		switch {
		case err == nil:
			opt, err := game.FromSnapshot(snap)
			if err != nil {
				log.Fatalf("resume: %v", err)
			}
			opts = append(opts, opt)
		case errors.Is(err, saves.ErrSlotNotFound):
			log.Printf("no autosave to resume")
		default:
			log.Fatalf("resume: %v", err)
		}
	}

	cl := tui.NewClient(game.NewEngine(opts...), settingsStore, saveStore)
	if err := cl.Run(); err != nil {
		log.Printf("ui: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLog sends log output to dest; the terminal belongs to the UI.
func initLog(dest, prefix string) {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
