package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/awmpietro/golang-logic-trace-case/internal/app"
	"github.com/awmpietro/golang-logic-trace-case/internal/config"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic/cache"
	"github.com/awmpietro/golang-logic-trace-case/internal/transport/lambdatransport"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	converter := logic.NewConverter()
	observer := logic.NewAsyncConversionObserver(logic.NewConversionLogger(log.Default()), cfg.ObsBuffer)
	defer observer.Close()
	c := cache.NewInMemory(cfg.CacheMaxItems)

	svc := app.NewService(converter, c, app.WithConversionObserver(observer))
	h := lambdatransport.NewHandler(svc)

	lambda.Start(h.Handle)
}
