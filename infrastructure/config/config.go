package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names for the graph store
const (
	BackendNeptune = "neptune"
	BackendNeo4j   = "neo4j"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Graph store selection
	StoreBackend string

	// Neptune-style HTTP store
	NeptuneHost      string
	NeptunePort      int
	NeptuneUseTLS    bool
	NeptuneIAMAuth   bool
	GremlinBatchSize int

	// Bolt/Cypher store
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	RunIndexName  string // GSI for status-filtered run listings
	EventBusName  string

	// Lambda configuration
	IsLambda bool

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables. A local
// .env file is honored outside Lambda so notebooks and dev shells can
// point at their own endpoints.
func LoadConfig() (*Config, error) {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		// Missing .env is fine; env vars win either way
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		StoreBackend: getEnv("STORE_BACKEND", BackendNeptune),

		NeptuneHost:      getEnv("NEPTUNE_HOST", "localhost"),
		NeptunePort:      getEnvInt("NEPTUNE_PORT", 8182),
		NeptuneUseTLS:    getEnvBool("NEPTUNE_USE_TLS", true),
		NeptuneIAMAuth:   getEnvBool("NEPTUNE_IAM_AUTH", false),
		GremlinBatchSize: getEnvInt("GREMLIN_BATCH_SIZE", 50),

		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", "neo4j"),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "molgraph-runs")),
		RunIndexName:  getEnv("RUN_INDEX_NAME", "StatusIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "molgraph-events"),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "molgraph"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendNeptune, BackendNeo4j:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q", BackendNeptune, BackendNeo4j)
	}

	if c.StoreBackend == BackendNeo4j && c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required for the neo4j backend")
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
		if c.StoreBackend == BackendNeptune && c.NeptuneHost == "localhost" {
			return fmt.Errorf("NEPTUNE_HOST is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
