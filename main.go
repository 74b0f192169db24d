package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pixelchaos/core"
	canvasapi "pixelchaos/handlers/api/canvas"
	"pixelchaos/handlers/api/users"
	"pixelchaos/handlers/websocket"
	"pixelchaos/stores"
	mongostore "pixelchaos/stores/mongo"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func setupRouter(hub *websocket.Hub, pixelStore core.PixelStore, userStore core.UserStore, bounds core.Bounds) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "Host", "Connection"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"message": "Canvas API is running"})
	})

	r.Get("/ws/{clientID}", websocket.Handle(hub, bounds))

	r.Route("/api", func(r chi.Router) {
		r.Route("/canvas", func(r chi.Router) {
			r.Get("/pixels", canvasapi.HandleGetPixels(pixelStore))
			r.Get("/pixel", canvasapi.HandleGetPixel(pixelStore))
		})

		if userStore != nil {
			r.Post("/users", users.HandleCreate(userStore))
			r.Get("/users/{email}", users.HandleGetByEmail(userStore))
		}
	})

	return r
}

func canvasBounds() core.Bounds {
	bounds := core.Bounds{Rows: 100, Cols: 100, Enforce: true}

	if rows, err := strconv.Atoi(os.Getenv("CANVAS_ROWS")); err == nil && rows > 0 {
		bounds.Rows = rows
	}
	if cols, err := strconv.Atoi(os.Getenv("CANVAS_COLS")); err == nil && cols > 0 {
		bounds.Cols = cols
	}
	if enforce, err := strconv.ParseBool(os.Getenv("CANVAS_ENFORCE_BOUNDS")); err == nil {
		bounds.Enforce = enforce
	}

	logrus.WithFields(logrus.Fields{
		"rows":    bounds.Rows,
		"cols":    bounds.Cols,
		"enforce": bounds.Enforce,
	}).Info("Canvas bounds configured")
	return bounds
}

func waitForShutdown() {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC
	logrus.Info("Shutting down...")
}

func main() {
	logLevel := flag.String("loglevel", "info", "Set the logging level: debug, info, warn, error, fatal, panic")
	listenAddr := flag.String("listen", ":8000", "Set the server listen address")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(level)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	bounds := canvasBounds()
	pixelStore := stores.GetPixelStore()
	registry := websocket.NewRegistry()

	// History and user records are optional collaborators: without Mongo
	// the core keeps running, it just stops keeping an audit trail.
	var (
		historyStore core.HistoryStore
		userStore    core.UserStore
	)
	if mongoURL := os.Getenv("MONGODB_URL"); mongoURL != "" {
		dbName := os.Getenv("DB_NAME")
		if dbName == "" {
			dbName = "pixel_chaos"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := mongostore.Connect(ctx, mongoURL, dbName)
		cancel()
		if err != nil {
			logrus.WithError(err).Warn("MongoDB unavailable, history and users disabled")
		} else {
			historyStore = mongostore.NewHistoryStore(db)
			userStore = mongostore.NewUserStore(db)
			logrus.WithField("database", dbName).Info("MongoDB connected")
		}
	}

	hub := websocket.NewHub(pixelStore, registry, historyStore)
	r := setupRouter(hub, pixelStore, userStore, bounds)

	logrus.WithField("addr", *listenAddr).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddr, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown()
}
