// Package loader reads the auction schedule from disk.
//
// Two formats are understood. Files ending in .yaml or .yml hold a list of
// entries:
//
//	- description: Painting
//	  start_price: "100"
//	  min_increment: "10"
//	  duration_seconds: 60
//
// Anything else is read as text, one auction per line:
//
//	name;startPrice;durationSeconds;minIncrement
//
// Blank lines and lines starting with # are ignored in the text format.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const textFields = 4

// yamlEntry keeps prices as strings so they reach decimal without a float detour
type yamlEntry struct {
	Description     string `yaml:"description"`
	StartPrice      string `yaml:"start_price"`
	MinIncrement    string `yaml:"min_increment"`
	DurationSeconds int    `yaml:"duration_seconds"`
}

// LoadFile reads the schedule at path, picking the format from its extension
func LoadFile(path string) ([]model.AuctionDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseText(f)
	}
}

// ParseText reads the semicolon separated format. Malformed lines are logged
// and skipped; only read failures are returned.
func ParseText(r io.Reader) ([]model.AuctionDefinition, error) {
	var defs []model.AuctionDefinition

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		def, err := parseLine(line)
		if err != nil {
			utils.Warn("loader: skipping malformed auction line", map[string]any{
				"line":  lineNo,
				"text":  line,
				"error": err.Error(),
			})
			continue
		}
		defs = append(defs, def)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: read auction list: %w", err)
	}

	utils.Info("loader: auction list parsed", map[string]any{"format": "text", "auctions": len(defs)})
	return defs, nil
}

func parseLine(line string) (model.AuctionDefinition, error) {
	fields := strings.Split(line, ";")
	if len(fields) != textFields {
		return model.AuctionDefinition{}, fmt.Errorf("expected %d fields, got %d", textFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	start, err := decimal.NewFromString(fields[1])
	if err != nil {
		return model.AuctionDefinition{}, fmt.Errorf("start price %q: %w", fields[1], err)
	}
	duration, err := strconv.Atoi(fields[2])
	if err != nil {
		return model.AuctionDefinition{}, fmt.Errorf("duration %q: %w", fields[2], err)
	}
	increment, err := decimal.NewFromString(fields[3])
	if err != nil {
		return model.AuctionDefinition{}, fmt.Errorf("minimum increment %q: %w", fields[3], err)
	}

	return build(fields[0], start, increment, duration)
}

// ParseYAML reads the YAML list format. Unlike the text format a bad entry
// fails the whole file.
func ParseYAML(r io.Reader) ([]model.AuctionDefinition, error) {
	var entries []yamlEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("loader: parse yaml: %w", err)
	}

	defs := make([]model.AuctionDefinition, 0, len(entries))
	for i, e := range entries {
		start, err := decimal.NewFromString(e.StartPrice)
		if err != nil {
			return nil, fmt.Errorf("loader: entry %d: start price %q: %w", i, e.StartPrice, err)
		}
		increment, err := decimal.NewFromString(e.MinIncrement)
		if err != nil {
			return nil, fmt.Errorf("loader: entry %d: minimum increment %q: %w", i, e.MinIncrement, err)
		}
		def, err := build(strings.TrimSpace(e.Description), start, increment, e.DurationSeconds)
		if err != nil {
			return nil, fmt.Errorf("loader: entry %d: %w", i, err)
		}
		defs = append(defs, def)
	}

	utils.Info("loader: auction list parsed", map[string]any{"format": "yaml", "auctions": len(defs)})
	return defs, nil
}

func build(name string, start, increment decimal.Decimal, duration int) (model.AuctionDefinition, error) {
	switch {
	case name == "":
		return model.AuctionDefinition{}, fmt.Errorf("empty item name")
	case !start.IsPositive():
		return model.AuctionDefinition{}, fmt.Errorf("start price must be positive, got %s", start)
	case !increment.IsPositive():
		return model.AuctionDefinition{}, fmt.Errorf("minimum increment must be positive, got %s", increment)
	case duration <= 0:
		return model.AuctionDefinition{}, fmt.Errorf("duration must be positive, got %d", duration)
	}

	return model.AuctionDefinition{
		Item: model.Item{
			Description:  name,
			StartPrice:   start,
			MinIncrement: increment,
		},
		DurationSeconds: duration,
	}, nil
}
