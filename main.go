package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"tilecraft/internal/config"
	"tilecraft/internal/control"
	"tilecraft/internal/events"
	"tilecraft/internal/game"
	"tilecraft/internal/interaction"
	"tilecraft/internal/items"
	"tilecraft/internal/journal"
	"tilecraft/internal/monitoring"
	"tilecraft/internal/monster"
	"tilecraft/internal/session"
	"tilecraft/internal/spectator"
	"tilecraft/internal/world"
	"tilecraft/pkg/logger"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()

	logger.Init()
	log := logger.Component("main")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	tm := world.NewTileManager()
	if err := tm.LoadTileConfig(cfg.GetTilesFile()); err != nil {
		log.WithError(err).Fatal("failed to load tile config")
	}

	wm := world.NewWorldManager(tm, cfg.GetMapsDir())
	if err := wm.LoadZoneConfigs(cfg.GetZonesFile()); err != nil {
		log.WithError(err).Fatal("failed to load zone configs")
	}
	if err := wm.LoadAllZones(cfg.Zones.StartZone); err != nil {
		log.WithError(err).Fatal("failed to load zones")
	}

	enemies, err := monster.NewCatalog(cfg.Enemies)
	if err != nil {
		log.WithError(err).Fatal("invalid enemy definitions")
	}

	bus := events.NewBus()
	defer bus.Close()

	s, err := session.New(cfg, wm, enemies, items.NewCatalog(cfg.Items), bus)
	if err != nil {
		log.WithError(err).Fatal("failed to start session")
	}

	resolver := interaction.NewResolver(s.ResolverDeps())
	ctrl := control.New(s, resolver, tm, cfg.GetMaxPathLength())
	perf := monitoring.NewPerformanceMonitor()
	ctrl.SetProfiler(perf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Journal.Enabled {
		rec := journal.NewRecorder(bus, journal.NewWriter(cfg.GetJournalDir(), cfg.GetJournalPrefix()), cfg.GetSubscriberBuffer())
		rec.Start(ctx)
		defer func() {
			if err := rec.Stop(); err != nil {
				log.WithError(err).Warn("failed to close journal")
			}
		}()
	}

	if cfg.Spectator.Enabled {
		srv := spectator.NewServer(bus, cfg.GetSubscriberBuffer())
		srv.SetMetrics(func() any { return perf.GetCurrentMetrics() })
		if err := srv.Start(ctx, cfg.GetSpectatorAddr()); err != nil {
			log.WithError(err).Warn("spectator server disabled")
		}
	}

	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := game.NewGame(cfg, s, ctrl, bus)
	g.SetMonitor(perf)
	g.StopWhen(ctx.Done())
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Error("game exited with error")
	}
}
