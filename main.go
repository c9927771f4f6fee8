package main

import (
	"context"
	"fmt"
	"io"
	"os"

	logger "github.com/Easy-Infra-Ltd/easy-logger"
	"github.com/segmentio/encoding/json"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/config"
	"github.com/Easy-Infra-Ltd/easy-json-repair/src/processor"
)

// Reads a malformed JSON payload on stdin, repairs it, and writes the
// recovered value to stdout. An optional config path is the only argument.
func main() {
	log := logger.CreateLoggerFromEnv(nil, "blue").With("process", "easyjsonrepair")

	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading stdin: %v\n", err)
		os.Exit(1)
	}

	p := processor.New(cfg.ForResource("stdin"), log)
	out, err := p.Process(context.Background(), processor.Request{
		Resource: "stdin",
		Format:   processor.FormatJSON,
		Payload:  string(input),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "repair: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out.Value); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
		os.Exit(1)
	}
}
