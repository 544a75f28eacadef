//go:build test

package tagger

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/tagjump/pkg/alphabet"
)

var typedQueries = [][]string{
	{"f", "fu", "fun", "func"},
	{"r", "re", "ret", "retu", "retur", "return"},
	{"e", "er", "err"},
	{"i", "if"},
	{"s", "st", "str", "stri", "strin", "string"},
	{"n", "ni", "nil"},
}

var document = strings.Repeat("func (s *Server) Handle(req Request) (string, error) {\n\tif err != nil {\n\t\treturn \"\", err\n\t}\n\treturn s.name, nil\n}\n\n", 200)

func TestMemoryLeakBasic(t *testing.T) {
	iterations := []int{100, 500, 1000}

	for _, iterCount := range iterations {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			runBasicMemoryTest(t, iterCount)
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 200},
		{workers: 4, iterationsPerWorker: 50},
		{workers: 8, iterationsPerWorker: 25},
	}

	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, config.workers, config.iterationsPerWorker)
		})
	}
}

// typeAll feeds every query sequence through tg, resetting between words
// the way an editor does after a jump or escape.
func typeAll(tg *Tagger, text string) int {
	ops := 0
	for _, seq := range typedQueries {
		for _, q := range seq {
			tg.MarkOrJump(q, false, find(text, q))
			ops++
		}
		tg.Reset()
	}
	return ops
}

func runBasicMemoryTest(t *testing.T, iterations int) {
	kb := alphabet.NewKeyboard(alphabet.DefaultKeys)
	editor := newTestEditor(document)
	editor.view = Range{Start: 0, End: 2000}
	tg := New(editor, kb)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	totalOps := 0
	for i := 0; i < iterations; i++ {
		totalOps += typeAll(tg, document)
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory retained per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	memFile, err := os.Create("concurrent_memory.prof")
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer func() {
		memFile.Close()
		os.Remove("concurrent_memory.prof")
	}()

	kb := alphabet.NewKeyboard(alphabet.DefaultKeys)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		totalOps int
	)
	start := time.Now()
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// one session per worker, sharing the alphabet
			editor := newTestEditor(document)
			editor.view = Range{Start: 0, End: 2000}
			tg := New(editor, kb)
			ops := 0
			for iter := 0; iter < iterationsPerWorker; iter++ {
				ops += typeAll(tg, document)
			}
			mu.Lock()
			totalOps += ops
			mu.Unlock()
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d elapsed=%s mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		workers, iterationsPerWorker, totalOps, elapsed, memDelta, memPerOp, goroutineDelta)

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}
	if memPerOp > 1000 {
		t.Errorf("excessive memory retained per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
