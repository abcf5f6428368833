package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"catcharena/internal/api"
	"catcharena/internal/config"
	"catcharena/internal/server"
	"catcharena/internal/transport"
	"catcharena/internal/wire"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	var (
		httpAddress = flag.String("http_address", "", "address the HTTP join/static server listens on (required)")
		udpAddress  = flag.String("udp_address", "", "address the UDP game transport listens on")
		clntDir     = flag.String("clnt_dir", "", "directory static client assets are served from")
	)
	flag.Parse()

	appCfg := config.Load()
	if *httpAddress != "" {
		appCfg.Server.HTTPAddress = *httpAddress
	}
	if *udpAddress != "" {
		appCfg.Server.UDPAddress = *udpAddress
	}
	if *clntDir != "" {
		appCfg.Server.ClntDir = *clntDir
	}
	if appCfg.Server.HTTPAddress == "" {
		log.Fatal("🛑 --http_address is required (or set HTTP_ADDRESS)")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  CATCH ARENA - GAME SERVER")
	log.Println("🎮 ================================")
	log.Printf("🛡️ limits: %d games, %d players/game, %d entities/game",
		appCfg.Limits.MaxGames, appCfg.Limits.MaxPlayersPerGame, appCfg.Limits.MaxEntitiesPerGame)

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ debug server disabled: %v", err)
		}
	}

	runner := server.NewRunner(server.Config{MaxNumGames: appCfg.Limits.MaxGames}, time.Now().UnixNano())
	runner.Start()
	log.Println("✅ tick loop started")

	udpServer, err := transport.Listen(appCfg.Server.UDPAddress)
	if err != nil {
		log.Fatalf("🛑 udp listen %s: %v", appCfg.Server.UDPAddress, err)
	}
	br := newBridge(udpServer, runner)
	go br.run()
	go func() {
		if err := udpServer.Run(); err != nil {
			log.Printf("⚠️ udp transport stopped: %v", err)
		}
	}()
	log.Printf("✅ udp transport on %s", appCfg.Server.UDPAddress)

	httpServer := api.NewServer(runner.JoinCh, appCfg.Server.ClntDir)
	go func() {
		log.Printf("🌐 http server on %s (clnt_dir=%s)", appCfg.Server.HTTPAddress, appCfg.Server.ClntDir)
		if err := httpServer.Start(appCfg.Server.HTTPAddress); err != nil {
			log.Fatalf("🛑 http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("✅ server ready, press Ctrl+C to stop")
	<-quit

	log.Println("🛑 shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("⚠️ http shutdown: %v", err)
	}
	udpServer.Close()
	runner.Stop()
	log.Println("👋 goodbye")
}

// bridge glues the connectionless UDP transport to the runner's
// RecvCh/SendCh: it learns each token's current source address from
// inbound traffic (there is no handshake below the wire protocol
// itself) and uses the most recently seen address to route outbound
// ServerTick/ServerPong datagrams back out.
type bridge struct {
	transport *transport.Server
	runner    *server.Runner

	mu    sync.Mutex
	peers map[server.PlayerToken]*net.UDPAddr
}

func newBridge(t *transport.Server, r *server.Runner) *bridge {
	return &bridge{transport: t, runner: r, peers: make(map[server.PlayerToken]*net.UDPAddr)}
}

func (b *bridge) run() {
	go b.pump()
	for recvd := range b.transport.In {
		b.handleInbound(recvd)
	}
}

func (b *bridge) handleInbound(recvd transport.Received) {
	env, err := wire.DecodeClient(recvd.Data)
	if err != nil {
		api.RecordDroppedPacket("malformed")
		return
	}

	b.mu.Lock()
	b.peers[env.Token] = recvd.Addr
	b.mu.Unlock()

	b.runner.RecvCh <- server.RecvMessage{
		Token:   env.Token,
		GameID:  uuid.Nil, // the runner resolves the game from the token, not this field
		Message: env.Message,
	}
}

// pump drains the runner's outbound queue for as long as the process
// runs; it never blocks the tick loop since SendCh is buffered.
func (b *bridge) pump() {
	for msg := range b.runner.SendCh {
		b.mu.Lock()
		addr, ok := b.peers[msg.Token]
		b.mu.Unlock()
		if !ok {
			continue // never heard from this token's socket; nowhere to send
		}

		data, err := wire.EncodeServer(wire.ServerEnvelope{Message: msg.Message})
		if err != nil {
			log.Printf("⚠️ encode server message: %v", err)
			continue
		}
		if err := b.transport.Send(data, addr); err != nil {
			log.Printf("⚠️ send to %s: %v", addr, err)
		}
	}
}
