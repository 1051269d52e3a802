// Command buzzdbbench runs the generic storage-engine benchmark harness
// against the B+ tree, through the btreekv adapter.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jsmith-dev/buzzdb/btreekv"
	"github.com/jsmith-dev/buzzdb/common"
	"github.com/jsmith-dev/buzzdb/common/benchmark"
)

func main() {
	dataDir := flag.String("dir", "", "data directory (default: a temp dir, removed on exit)")
	pageSize := flag.Int("page-size", 4096, "page size in bytes")
	pageCount := flag.Int("page-count", 1024, "resident frame capacity")
	quick := flag.Bool("quick", true, "use the quick (short-duration) workload set")
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "buzzdb-bench-")
		if err != nil {
			log.Fatalf("create temp dir: %v", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	engine, err := btreekv.Open(dir, *pageSize, *pageCount)
	if err != nil {
		log.Fatalf("open engine: %v", err)
	}
	defer engine.Close()

	suite := benchmark.NewComparisonSuite()
	configs := benchmark.StandardWorkloads()
	if *quick {
		configs = benchmark.QuickWorkloads()
	}
	suite.SetWorkloads(configs)

	fmt.Printf("running %d workload(s) against the B+ tree buffer pool...\n", len(configs))
	start := time.Now()
	results := suite.RunComparison(map[string]common.StorageEngine{"btree": engine})
	suite.PrintComparisonTable(results)
	fmt.Printf("\ndone in %s\n", time.Since(start))
}
