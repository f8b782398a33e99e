package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rubiojr/c2js/compiler"
	"github.com/urfave/cli/v3"
)

func checkAction(ctx context.Context, cmd *cli.Command) error {
	targets := cmd.Args().Slice()
	if len(targets) == 0 {
		targets = []string{"."}
	}

	files, err := collectSources(targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .c files found")
	}

	jobs := cmd.Int("jobs")
	if jobs < 1 {
		jobs = 1
	}
	jobs = min(jobs, len(files))

	tr := compiler.New(compiler.WithEntry(cmd.String("entry")))
	root := cmd.Root()
	colorOK, colorFail, colorReset := colors(!cmd.Bool("no-color") && useColor(root.ErrWriter))

	type fileResult struct {
		buf    bytes.Buffer
		failed bool
		done   chan struct{}
	}
	results := make([]fileResult, len(files))
	for i := range results {
		results[i].done = make(chan struct{})
	}

	// Translators are safe for concurrent use; output is buffered per file
	// and printed in order.
	work := make(chan int, len(files))
	for i := range files {
		work <- i
	}
	close(work)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				r := &results[i]
				r.failed = checkFile(ctx, tr, files[i], &r.buf, colorFail, colorReset)
				close(r.done)
			}
		}()
	}

	failed := 0
	for i := range results {
		<-results[i].done
		root.Writer.Write(results[i].buf.Bytes())
		if results[i].failed {
			failed++
		}
	}
	wg.Wait()

	if failed > 0 {
		fmt.Fprintf(root.ErrWriter, "\n%d files, %d clean, %s%d failed%s\n",
			len(files), len(files)-failed, colorFail, failed, colorReset)
		return fmt.Errorf("%d of %d files failed the check", failed, len(files))
	}
	fmt.Fprintf(root.ErrWriter, "\n%d files, %s%d clean%s, 0 failed\n",
		len(files), colorOK, len(files), colorReset)
	return nil
}

// checkFile translates one file and reports its problems to w. It returns
// true when the file fails to translate or uses undeclared identifiers.
func checkFile(ctx context.Context, tr *compiler.Translator, path string, w *bytes.Buffer, colorFail, colorReset string) bool {
	if err := ctx.Err(); err != nil {
		fmt.Fprintf(w, "%s: %sFAIL%s %v\n", path, colorFail, colorReset, err)
		return true
	}
	res, err := tr.TranslateFile(path)
	if err != nil {
		fmt.Fprintf(w, "%s: %sFAIL%s %s\n", path, colorFail, colorReset, describe(err))
		return true
	}
	if len(res.Undeclared) > 0 {
		fmt.Fprintf(w, "%s: %sFAIL%s undeclared: %s\n", path, colorFail, colorReset, strings.Join(res.Undeclared, ", "))
		return true
	}
	fmt.Fprintf(w, "%s: ok\n", path)
	return false
}

// collectSources expands directories into the .c files they hold.
func collectSources(targets []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", target, err)
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", target, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".c") {
				files = append(files, filepath.Join(target, e.Name()))
			}
		}
	}
	return files, nil
}
