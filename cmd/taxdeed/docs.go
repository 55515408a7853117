package main

//go:generate swag init -g cmd/taxdeed/main.go -o docs

// @title           Tax-deed Ingestion API
// @version         0.1.0
// @description     Scraper ingestion, existence checks, reconciliation and crawl state.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
