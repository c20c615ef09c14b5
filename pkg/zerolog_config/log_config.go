package zerolog_config

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.elastic.co/ecszerolog"
)

var startupOnce sync.Once

// ElasticsearchWriter ships log lines directly to an Elasticsearch index
type ElasticsearchWriter struct {
	URL string
}

func (ew ElasticsearchWriter) Write(p []byte) (n int, err error) {
	resp, err := http.Post(
		ew.URL+"/_doc",
		"application/json",
		bytes.NewBuffer(p),
	)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("elasticsearch returned %d", resp.StatusCode)
	}

	return len(p), nil
}

func startupLogger(elasticsearchURL string, serviceName string) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	if elasticsearchURL == "" {
		// Console only
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().
			Str("service", serviceName).
			Timestamp().Logger()
		return
	}

	// ECS format for Elasticsearch, pretty output for the console
	ecsLogger := ecszerolog.New(&ElasticsearchWriter{
		URL: elasticsearchURL + "/greener-" + serviceName,
	})
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout}

	multi := zerolog.MultiLevelWriter(
		ecsLogger,
		consoleWriter,
	)

	log.Logger = zerolog.New(multi).With().
		Str("service", serviceName).
		Timestamp().Logger()
}

// Startup configures the global logger for the given service. A second call
// is a no-op. An empty Elasticsearch URL falls back to console output.
func Startup(elasticsearchURL string, serviceName string) error {
	if serviceName == "" {
		return fmt.Errorf("serviceName is required")
	}
	startupOnce.Do(func() {
		startupLogger(elasticsearchURL, serviceName)
	})
	return nil
}
