package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if a redis rate-limit check fails mid-run, fall back to the in-memory limiter (false: let the request through)
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 5
	BURST_RATE_LIMIT_PER_SECOND     = 10

	//embeddings
	EmbeddingOutputDimensionality int32 = 1536 //it should 1536
	EmbeddingCollectionName             = "docmind-chunks"
	LargeBatchThreshold                 = 200 //chunk counts at or above this route through the genai batch-job API

	//llm
	GeminiModelName   = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	ModelTemperature  float32 = 0.3
	ModelSystemPrompt        = "You are a meticulous editorial assistant reviewing a document. Respond only in the format requested, with no surrounding prose or markdown fences."

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//upload ceiling for /analyze/ingest
	MaxDocumentBytes = 20 * 1024 * 1024 //20MB

	//chunker / hierarchy defaults
	DefaultMaxChunkSize               = 1000
	DefaultChunkOverlap               = 200
	DefaultSimilarityThreshold        = 0.5
	DefaultMinSectionSize             = 200
	DefaultDocSummaryMaxSentences     = 3
	DefaultSectionSummaryMaxSentences = 1
	DefaultMaxOutlineDepth            = 6

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false            //set for https
	QdrantPoolSize          = 1                //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second //5 * time.Minute for prod maybe- fine tune for performance
	VectorSearchTopK        = 10

	//redis (rate limiter backing store)
	redisHost               = "127.0.0.1"
	redisPort               = "6379"
	RedisAddr               = redisHost + ":" + redisPort
	RedisRateLimiterStoreDB = 0
	RedisRateLimiterKeyTTL  = 1 * time.Minute

	//orchestration
	SummarizeMapConcurrency = 4

	//fixed sliding-window sizes for the review orchestrators: criticize and
	//suggest read a wider window than the default chunker to give the model
	//more surrounding context per judgment, summarize reads wider still since
	//it only needs gist, not precise quotes
	ReviewWindowMaxChunkSize    = 1500
	ReviewWindowOverlap         = 200
	SummarizeWindowMaxChunkSize = 10000
	SummarizeWindowOverlap      = 400
)
