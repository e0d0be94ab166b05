package main

import (
	"log"

	"backend/internal/api"
)

// @title Auction Platform API
// @version 1.0
// @description Платформа обратных закупочных торгов: аукционы, ставки, рейтинг, итоги
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
