package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/novaquill/docmind/internal/capability/agent/geminiagent"
	"github.com/novaquill/docmind/internal/capability/embedding/googleembed"
	"github.com/novaquill/docmind/internal/capability/vectorstore/qdrantstore"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/docsync"
	"github.com/novaquill/docmind/internal/httpapi"
	"github.com/novaquill/docmind/internal/httpapi/middleware"
	"github.com/novaquill/docmind/internal/orchestrate"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var listenAddr string

func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	apiKey := os.Getenv("GOOGLE_API_KEY")

	embedder, err := googleembed.New(serviceContext, config.GoogleEmbeddingModel, apiKey)
	if err != nil {
		logger.Error("embedding client failed to initialize", "error", err)
		return
	}

	vectorStore, err := qdrantstore.New(serviceContext, config.QdrantHost, config.QdrantGrpcPort)
	if err != nil {
		logger.Error("vector store failed to initialize", "error", err)
		return
	}

	agent, err := geminiagent.New(serviceContext, config.GeminiModelName, apiKey)
	if err != nil {
		logger.Error("llm agent failed to initialize", "error", err)
		return
	}

	docSync := docsync.NewManager(embedder, vectorStore)
	orchestrator := orchestrate.New(agent)
	handlers := httpapi.NewHandlers(docSync, orchestrator, embedder)
	limiter := middleware.NewRateLimiter(serviceContext)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	shutdownParams := httpapi.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		CloseServices:    closeExternalServices,
	}
	go httpapi.ShutDownHandler(shutdownParams)

	httpapi.CreateServer(listenAddr, handlers, limiter)
	logger.Info("server stopped")
}
