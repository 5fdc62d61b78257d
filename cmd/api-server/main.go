package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookhub/internal/auth"
	"bookhub/internal/catalog"
	"bookhub/internal/feed"
	"bookhub/internal/notes"
	"bookhub/internal/recommend"
	"bookhub/internal/record"
	"bookhub/internal/share"
	"bookhub/internal/stats"
	"bookhub/pkg/database"
	"bookhub/pkg/utils"
)

func main() {
	// best-effort: local dev keeps overrides in .env
	_ = godotenv.Load()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP feed first (so you notice binding errors early)
	hub := feed.NewHub()
	router.GET("/ws", feed.WSHandler(hub))
	tcpSrv := feed.NewServer(srvCfg.FeedAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		st := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": st.TCPClients,
				"ws_clients":  st.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": st.TCPClients,
			"ws_clients":  st.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		st := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          cfg.Path,
			"tcp_clients": st.TCPClients,
			"ws_clients":  st.WSClients,
		})
	})

	// Catalog clients + resolver (public resolve endpoint)
	catCfg := utils.LoadCatalogConfig()
	olClient := catalog.NewOpenLibraryClient(catCfg.OpenLibraryBase)
	gbClient := catalog.NewGoogleBooksClient(catCfg.GoogleBooksBase, catCfg.Lang)
	resolver := catalog.NewResolver(olClient, gbClient)
	catalog.NewHandler(resolver).RegisterRoutes(router.Group("/catalog"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Public shelf view
	recordRepo := record.NewRepo(db)
	shareHandler := share.NewHandler(authRepo, recordRepo, resolver)
	shareHandler.RegisterRoutes(router.Group("/share"))

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"nickname": claims.Nickname,
			"email":    claims.Email,
		})
	})

	// Reading records (protected)
	recordHandler := record.NewHandler(recordRepo, hub)
	recordHandler.RegisterRoutes(protected)

	// Notes (protected)
	notesRepo := notes.NewRepo(db)
	notes.NewHandler(notesRepo).RegisterRoutes(protected)

	// Stats (protected)
	stats.NewHandler(recordRepo).RegisterRoutes(protected)

	// Recommendations (protected)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := recommend.NewEngine(gbClient, rng)
	recommend.NewHandler(recordRepo, engine).RegisterRoutes(protected)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
