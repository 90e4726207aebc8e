package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/config"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic/cache"
	"github.com/awmpietro/golang-logic-trace-case/internal/transport/httptransport"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	converter := logic.NewConverter()
	observer := logic.NewAsyncConversionObserver(logic.NewConversionLogger(log.Default()), cfg.ObsBuffer)
	defer observer.Close()
	c := cache.NewInMemory(cfg.CacheMaxItems)

	svc := app.NewService(converter, c, app.WithConversionObserver(observer))
	h := httptransport.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/graph", h.Graph)
	mux.HandleFunc("/trace", h.Trace)

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, mux))
}
