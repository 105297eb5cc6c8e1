// Command fptrunc narrows floating-point bit patterns or decimal numbers
// from a wide binary format into a narrower one using integer operations only.
//
//	fptrunc -from binary128 -to binary64 3fff0000000000000800000000000000
//	echo 0.1 | fptrunc -input decimal -to binary16 -output json
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	fromFormat   = flag.String("from", "binary128", "Source format (binary128, extended80, binary64, binary32)")
	toFormat     = flag.String("to", "binary64", "Destination format (extended80, binary64, binary32, binary16, bfloat16)")
	inputSyntax  = flag.String("input", "hex", "Input syntax: 'hex' bit patterns or 'decimal' numbers")
	outputFormat = flag.String("output", "text", "Output format: text, json or cbor")
	verbose      = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := newConfig(*fromFormat, *toFormat, *inputSyntax, *outputFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Debug().
		Stringer("from", cfg.narrower.Source()).
		Stringer("to", cfg.narrower.Destination()).
		Str("input", *inputSyntax).
		Str("output", *outputFormat).
		Msg("Starting")

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs, err = readLines(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read stdin")
		}
	}

	failed, err := run(cfg, inputs, os.Stdout, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
	if failed > 0 {
		log.Error().Int("failed", failed).Int("total", len(inputs)).Msg("Some inputs were not converted")
		os.Exit(1)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return lines, nil
}

// run converts all inputs and writes the records to w.
// It returns the number of inputs, which could not be parsed.
func run(cfg *config, inputs []string, w io.Writer, logger zerolog.Logger) (int, error) {
	enc := cfg.newEncoder(w)
	failed := 0
	for _, input := range inputs {
		rec, err := cfg.convert(input)
		if err != nil {
			logger.Error().Err(err).Str("input", input).Msg("Conversion failed")
			failed++
			continue
		}
		logger.Debug().
			Str("input", input).
			Str("class", rec.Class).
			Str("src", rec.Source).
			Str("dst", rec.Result).
			Msg("Converted")
		if err := enc.Encode(rec); err != nil {
			return failed, err
		}
	}
	return failed, enc.Flush()
}
