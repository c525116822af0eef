package main

import (
	"context"
	"os/exec"
	"time"

	"github.com/tickerlive/newscast/pkg/config"
	"github.com/tickerlive/newscast/pkg/content"
	"github.com/tickerlive/newscast/pkg/logger"
	"github.com/tickerlive/newscast/pkg/monitoring"
	"github.com/tickerlive/newscast/pkg/os"
	"github.com/tickerlive/newscast/pkg/render"
	"github.com/tickerlive/newscast/pkg/service"
	"github.com/tickerlive/newscast/pkg/stream"
)

var Version = ""

func main() {
	conf := config.NewConfig()
	conf.ParseFlags()

	log := logger.NewConsole(conf.Newscast.Debug, conf.Newscast.Tag, false)
	log.Info().Msgf("version: %v", Version)

	lock, err := os.NewFileLock(conf.Newscast.LockFile)
	if err != nil {
		log.Fatal().Err(err).Msg("lock file")
	}
	ok, err := lock.TryLock()
	if err != nil || !ok {
		log.Fatal().Err(err).Msg("another instance is already streaming")
	}
	defer func() { _ = lock.Unlock() }()

	// startup preconditions: bail out before touching the network
	if conf.Stream.URL == "" {
		log.Fatal().Msg("no stream ingest URL configured")
	}
	if _, err := exec.LookPath(conf.Encoder.Binary); err != nil {
		log.Fatal().Err(err).Msgf("encoder binary %v not found", conf.Encoder.Binary)
	}
	if !os.Exists(conf.Assets.Audio) {
		log.Fatal().Msgf("audio file %v not found", conf.Assets.Audio)
	}
	base, err := render.LoadBaseFrame(conf.Assets, conf.Video)
	if err != nil {
		log.Fatal().Err(err).Msg("assets")
	}
	face, err := render.LoadFace(conf.Assets.Font, conf.Ticker.FontSize)
	if err != nil {
		log.Fatal().Err(err).Msg("assets")
	}

	var services service.Group
	if conf.Newscast.Monitoring.IsEnabled() {
		services.Add(monitoring.New(conf.Newscast.Monitoring, log))
	}
	services.Start()

	ctx, cancel := context.WithCancel(context.Background())
	ctrl := stream.NewController(conf, base, face, content.NewRSS(conf.Content, log), log)
	go ctrl.Run(ctx)

	<-os.ExpectTermination()
	log.Info().Msg("shutting down")
	cancel()
	<-ctrl.Done()

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := services.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
