package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"knights_gambit/internal/game"
	"knights_gambit/internal/httpx"
	"knights_gambit/internal/saves"
	"knights_gambit/internal/settings"
)

func main() {
	addr := flag.String("addr", getenv("KG_ADDR", ":8080"), "listen address")
	settingsPath := flag.String("settings", getenv("KG_SETTINGS", "knights_gambit_settings.json"), "settings file")
	savesDir := flag.String("saves", getenv("KG_SAVES", "saves"), "directory for save slots")
	resume := flag.Bool("resume", getenb("KG_RESUME", false), "restore the autosave slot on start")
	recomputeUndo := flag.Bool("recompute-undo", getenb("KG_RECOMPUTE_UNDO", false), "recompute check status after undo instead of clearing it")
	flag.Parse()

	saveStore, err := saves.NewStore(*savesDir)
	fatalIf(err, "saves")
	settingsStore := settings.NewStore(*settingsPath)

	var opts []func(*game.Engine)
	if *recomputeUndo {
		opts = append(opts, game.RecomputeStatusOnUndo())
	}
	if *resume {
		snap, err := saveStore.LoadAutosave()
		switch {
		case err == nil:
			opt, err := game.FromSnapshot(snap)
			fatalIf(err, "resume")
			opts = append(opts, opt)
			log.Printf("Resumed autosave from %s (%d moves)", snap.Timestamp.Format(time.RFC3339), len(snap.MoveHistory))
		case errors.Is(err, saves.ErrSlotNotFound):
			log.Printf("No autosave to resume; starting a new game")
		default:
			log.Fatalf("resume: %v", err)
		}
	}
	eng := game.NewEngine(opts...)

	srv := httpx.NewServer(eng, settingsStore, saveStore)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
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

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatalf("%s: %v", label, err)
	}
}
