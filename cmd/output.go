package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"github.com/rubiojr/c2js/compiler"
	"gopkg.in/yaml.v3"
)

// writeResult prints a translation in the requested format. A non-empty
// query runs over the JSON form of the bundle and replaces the format.
func writeResult(ctx context.Context, w io.Writer, res *compiler.Result, format, query string) error {
	if query != "" {
		return runQuery(ctx, w, res, query)
	}
	switch format {
	case "", "js":
		_, err := fmt.Fprintln(w, res.Code)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want js, json or yaml)", format)
}

// runQuery evaluates a jq expression over the bundle. String results are
// printed raw so `.js` yields runnable code; anything else is printed as JSON.
func runQuery(ctx context.Context, w io.Writer, res *compiler.Result, query string) error {
	q, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	// gojq works on plain JSON values, not Go structs
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	iter := q.RunWithContext(ctx, doc)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				return nil
			}
			return fmt.Errorf("query: %w", err)
		}
		if s, ok := v.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		out, err := gojq.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	}
}
