// backend/main.go
package main

import (
	"log"
	"net/http"
	"os"

	ghandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/gewnthar/flightops/backend/config"
	"github.com/gewnthar/flightops/backend/database"
	"github.com/gewnthar/flightops/backend/events"
	"github.com/gewnthar/flightops/backend/geo"
	"github.com/gewnthar/flightops/backend/handlers"
	"github.com/gewnthar/flightops/backend/services"
)

func main() {
	log.Println("Starting FlightOps Backend Application...")

	// Secrets come from the environment; a .env file is optional.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment.")
	}

	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "backend/config/config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)

	if err := database.InitDB(config.AppConfig.Database); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	// Initialize navdata freshness state from the DB.
	services.InitLastKnownEffectiveDates()

	// Event bus: publish domain events to NATS when configured, otherwise
	// run silent.
	var publisher events.Publisher = events.NopPublisher{}
	if url := config.AppConfig.Nats.URL; url != "" {
		natsPub, err := events.ConnectNats(url)
		if err != nil {
			log.Fatalf("Error connecting to NATS: %v", err)
		}
		defer natsPub.Close()
		publisher = natsPub
	} else {
		log.Println("No NATS URL configured; domain events will not be published.")
	}

	measure, err := geo.ParseMeasure(config.AppConfig.Pirep.DistanceMeasure)
	if err != nil {
		log.Fatalf("Error in pirep.distance_measure config: %v", err)
	}
	log.Printf("Waypoint disambiguation distance measure: %s", measure)

	resolver := services.NewRouteResolver(
		services.DirectoryFunc(database.FindWaypointsByIdent),
		measure,
	)
	pirepSvc := services.NewPirepService(
		pirepRepo{},
		pilotRepo{},
		rankRepo{},
		airportDir{},
		resolver,
		publisher,
	)

	router := handlers.NewRouter(pirepSvc)

	corsOrigins := ghandlers.AllowedOrigins([]string{"*"})
	corsMethods := ghandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	corsHeaders := ghandlers.AllowedHeaders([]string{"Content-Type"})

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = http.ListenAndServe(serverAddr,
		ghandlers.LoggingHandler(os.Stdout,
			ghandlers.CORS(corsOrigins, corsMethods, corsHeaders)(router)))
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
