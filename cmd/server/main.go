package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fightclub-sim/wolfden/internal/api"
	"github.com/fightclub-sim/wolfden/internal/config"
	"github.com/fightclub-sim/wolfden/internal/coordinator"
	"github.com/fightclub-sim/wolfden/internal/progression"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	log.Println("================================")
	log.Println(" WOLFDEN - simulation core demo host")
	log.Println("================================")

	appConfig := config.Load()

	coord := coordinator.New(appConfig.Limits)
	// The host picks its own seed; the core itself never reads the
	// clock. A fresh process choosing a
	// time-derived seed on cold start is the host's prerogative, not
	// the core's - rerunning with WOLFDEN_SEED pinned reproduces the
	// exact same run byte-for-byte.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("WOLFDEN_SEED"); s != "" {
		if parsed, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = parsed
		}
	}
	coord.Initialize(seed, 0)
	log.Printf("simulation initialized with seed %d", seed)

	prog := progression.New()

	server := api.NewServer(coord, prog)

	if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
		log.Printf("debug server failed to start: %v", err)
	}

	// The host (an external test driver, or a future game client) owns
	// the tick loop by calling POST /lifecycle/update; this process
	// only serves that surface; it never ticks the coordinator on its
	// own, so a driver can single-step, pause, or replay at whatever
	// rate it needs without racing a background ticker.
	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatalf("api server failed: %v", err)
		}
	}()
	log.Printf("api server listening on %s (tick rate hint: %d Hz)", addr, appConfig.Tick.RateHz)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("shutting down")
	server.Stop()
	coord.Shutdown()
}
