package main

import (
	"github.com/weather-app/weather-pipeline/internal/bootstrap"
)

// @title Weather Aggregation Service
// @version 1.0.0
// @description Serves daily and rolling 7-day weather aggregates for one
// @description city, backed by the storage service with Redis result caching.

// @host localhost:8081
// @BasePath /

func main() {
	bootstrap.BootstrapAgg()
}
