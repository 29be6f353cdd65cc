package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"p9e.in/farmatrack/config"
	"p9e.in/farmatrack/handlers"
	"p9e.in/farmatrack/pkg/email"
	"p9e.in/farmatrack/pkg/notify"
	"p9e.in/farmatrack/routes"
	"p9e.in/farmatrack/store"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	// The persistence mode is decided once here and never switched.
	hosted := config.Load()
	var backend store.Store
	if hosted {
		db, err := config.Connect()
		if err != nil {
			log.Fatalf("could not connect to database: %v", err)
		}
		backend = store.NewHosted(db)
		log.Println("Running in hosted mode")
	} else {
		local, err := store.OpenLocal(config.DataDir())
		if err != nil {
			log.Fatalf("could not open local store: %v", err)
		}
		backend = local
		log.Println("DB_DSN not set, running in standalone demo mode")
	}

	notifier := notify.New(email.NewService(), 64)

	facade := store.NewFacade(backend, notifier)
	if err := facade.Init(); err != nil {
		log.Fatalf("could not load application data: %v", err)
	}

	h := handlers.New(facade, handlers.NewUploader())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: enableCORS(routes.RegisterRoutes(h)),
	}
	go func() {
		log.Println("Server starting at port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// drain pending notifications before exiting
	notifier.Close()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
