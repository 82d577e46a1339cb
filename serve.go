package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/kartikeysingh210/Captain-veggie/api"
	"github.com/kartikeysingh210/Captain-veggie/transport/mcp"
	"github.com/kartikeysingh210/Captain-veggie/transport/websocket"
)

// defaultExternalAPI is checked by the mcp command before it starts its own server
const defaultExternalAPI = "http://localhost:8080"

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "sessions-dir",
			Value:   "sessions",
			Usage:   "Directory for persisted sessions",
			Sources: cli.EnvVars("SESSIONS_DIR"),
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed new games for reproducible play (0 uses the clock)",
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
		Flags: append(sessionFlags(),
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

			svc, err := initializeServices(settingsFrom(cmd))
			if err != nil {
				return err
			}
			defer svc.Close()

			return runHTTPServer(ctx, svc, httpOptions{
				addr:        fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port")),
				ngrok:       cmd.Bool("ngrok"),
				ngrokAuth:   cmd.String("ngrok-auth"),
				ngrokDomain: cmd.String("ngrok-domain"),
			})
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run MCP stdio server, reusing a running API or starting an internal one",
		Flags: append(sessionFlags(),
			&cli.StringFlag{Name: "api-url", Value: defaultExternalAPI, Usage: "API server to reuse when it is reachable"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Printf("Starting %s v%s (mode: mcp)", AppName, Version)
			return runStdioMCP(ctx, cmd.String("api-url"), func() (*services, error) {
				return initializeServices(settingsFrom(cmd))
			})
		},
	}
}

type httpOptions struct {
	addr        string
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

// newRouter mounts the API at root and the MCP JSON-RPC endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer serves the REST API, WebSocket hub and /mcp endpoint until
// SIGINT/SIGTERM. With ngrok enabled it also provisions a public tunnel.
func runHTTPServer(parent context.Context, svc *services, opts httpOptions) error {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	apiServer := api.NewServer(svc.game, hub)
	mcpClient := mcp.NewClient("http://" + opts.addr)
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         opts.addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc.startBackground(ctx)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", opts.addr)
		log.Printf("REST API: http://%s/api", opts.addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", opts.addr)
		log.Printf("MCP endpoint: http://%s/mcp", opts.addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter, opts)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-serveErr:
		stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}
	if saveErr := svc.sessions.SaveAllSessions(); saveErr != nil {
		log.Printf("Warning: Failed to save sessions on shutdown: %v", saveErr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, handler http.Handler, opts httpOptions) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiReachable reports whether a Captain Veggie API answers at baseURL
func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns
// its base URL and a function that stops it.
func startInternalAPI(svc *services) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	baseURL := "http://" + listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", listener.Addr())

	return baseURL, func() {
		httpServer.Close()
		hub.Stop()
	}, nil
}

// runStdioMCP runs an MCP stdio server. It reuses the API at externalURL when
// it is reachable, otherwise it initializes services and starts an internal
// API bound to loopback.
func runStdioMCP(ctx context.Context, externalURL string, initServices func() (*services, error)) error {
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if apiReachable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		svc, err := initServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		svc.startBackground(ctx)

		url, stopAPI, err := startInternalAPI(svc)
		if err != nil {
			return err
		}
		defer stopAPI()
		baseURL = url
	}

	log.Printf("MCP stdio server ready (API at %s)", baseURL)
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
