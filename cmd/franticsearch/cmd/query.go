package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/catalogio"
	"github.com/jimbojw/franticsearch/config"
	"github.com/jimbojw/franticsearch/logging"
	"github.com/jimbojw/franticsearch/wire"
	"github.com/jimbojw/franticsearch/worker"
)

// sampleQueries mirrors oarkflow-sqlparser/examples/main.go's loadSamples:
// a small fixed set of representative inputs run end to end, not a
// conformance suite.
var sampleQueries = []string{
	`t:creature c:green`,
	`-o:flying`,
	`ci<=wu mv<=3`,
	`is:commander f:commander`,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a handful of sample queries against a loaded catalog",
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if catalogPath == "" {
		return fmt.Errorf("--catalog is required")
	}

	log := logging.Default()
	opts := config.LoadOptions{SchemaVersion: schemaVersion, Logger: log}

	idx, err := loadCardIndex(catalogPath, opts)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	w := worker.New(idx, config.WorkerOptions{Logger: log})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if printingsPath != "" {
		f, err := os.Open(printingsPath)
		if err != nil {
			return fmt.Errorf("opening printings: %w", err)
		}
		defer f.Close()
		go w.LoadPrintingsAsync(f, opts)
	}

	for i, q := range sampleQueries {
		runSample(w, uint64(i+1), q)
	}
	return nil
}

func loadCardIndex(path string, opts config.LoadOptions) (*catalog.CardIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cat, err := catalogio.Load(f, opts)
	if err != nil {
		return nil, err
	}
	return catalog.NewCardIndex(cat), nil
}

func runSample(w *worker.Worker, id uint64, query string) {
	w.Requests() <- worker.Request{QueryID: id, Query: query}

	select {
	case msg := <-w.Results():
		if msg.Result != nil {
			fmt.Printf("[%d] %q -> %d face match(es)\n", id, query, len(msg.Result.Indices))
			printBreakdown(msg.Result.Breakdown, 1)
			return
		}
		fmt.Printf("[%d] %q -> status: %s\n", id, query, msg.Status.Status)
	case <-time.After(5 * time.Second):
		fmt.Printf("[%d] %q -> timed out waiting for a result\n", id, query)
	}
}

func printBreakdown(node wire.TreeNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	if node.Error != "" {
		fmt.Printf("%s%s (%d) [%s]\n", indent, node.Label, node.MatchCount, node.Error)
	} else {
		fmt.Printf("%s%s (%d)\n", indent, node.Label, node.MatchCount)
	}
	for _, child := range node.Children {
		printBreakdown(child, depth+1)
	}
}
