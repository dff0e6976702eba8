package main

import (
	"github.com/weather-app/weather-pipeline/internal/bootstrap"
)

// @title Weather Storage Service
// @version 1.0.0
// @description Ingests daily weather CSV uploads into PostgreSQL and serves
// @description validated range queries and xlsx exports over them.

// @host localhost:8080
// @BasePath /

func main() {
	bootstrap.BootstrapStore()
}
