package processor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/logger"
)

const (
	// Dynamic batch sizing thresholds (percentage of channel capacity)
	channelPressureHigh   = 0.8 // 80% full - reduce batch size
	channelPressureMedium = 0.5 // 50% full - normal batch size
	channelPressureLow    = 0.2 // 20% full - increase batch size

	// Error reporting limits
	MaxErrorsToCollect = 100 // Maximum number of errors to collect

	// Sample error display limit
	SampleErrorCount = 5 // Number of sample errors to show
)

// ErrNoRecords is reported for a file that yields no vocabulary records.
var ErrNoRecords = errors.New("no records")

// getOptimalConfig returns optimal configuration based on system resources.
// Files are far fewer than rows, so buffers stay small.
func getOptimalConfig() (workBuffer, resultBuffer, errorBuffer, defaultBatch, minBatch, maxBatch int) {
	cpuCount := runtime.NumCPU()

	switch {
	case cpuCount <= 2:
		// CI runners
		return 8, 32, 16, 8, 2, 16

	case cpuCount <= 4:
		return 16, 64, 32, 16, 4, 32

	case cpuCount <= 8:
		return 32, 128, 64, 24, 8, 48

	default:
		return 64, 256, 100, 32, 8, 64
	}
}

// Processor imports vocabulary files into the dataset library concurrently
type Processor struct {
	repo         LibraryWriter
	workers      int
	script       Script
	output       io.Writer
	log          *zap.Logger
	batchSize    int // Base batch size for database insertion
	minBatchSize int // Minimum batch size (for high pressure)
	maxBatchSize int // Maximum batch size (for low pressure)
}

// NewProcessor creates a new processor
func NewProcessor(repo LibraryWriter, workers int, script Script) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Get optimal configuration based on system resources
	_, _, _, defaultBatch, minBatch, maxBatch := getOptimalConfig()

	return &Processor{
		repo:         repo,
		workers:      workers,
		script:       script,
		output:       os.Stdout,
		log:          logger.Named("processor"),
		batchSize:    defaultBatch,
		minBatchSize: minBatch,
		maxBatchSize: maxBatch,
	}
}

// SetBatchSize sets the batch size for database insertion
func (p *Processor) SetBatchSize(size int) {
	if size > 0 {
		p.batchSize = size
	}
}

// SetOutput redirects the progress bar. A nil writer hides it.
func (p *Processor) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	p.output = w
}

// Process parses all files with concurrent workers and inserts them in batches
func (p *Processor) Process(files []loader.SourceFile) (Result, error) {
	total := len(files)
	result := Result{Files: total}
	if total == 0 {
		return result, nil
	}

	p.log.Info("Importing vocabulary files",
		zap.Int("files", total),
		zap.Int("workers", p.workers),
		zap.Int("batch_size", p.batchSize),
		zap.String("script", p.script.String()),
	)

	// Create progress container
	progress := mpb.New(
		mpb.WithOutput(p.output),
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Importing: ", decor.WC{W: 11, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f files/s", decor.WC{W: 12}),
		),
	)

	workBuffer, resultBuffer, errorBuffer, _, _, _ := getOptimalConfig()

	workCh := make(chan fileWork, workBuffer)
	resultCh := make(chan *database.LibraryDataset, resultBuffer)
	errorCh := make(chan error, errorBuffer)
	var wg sync.WaitGroup

	var errorCount atomic.Int64
	var recordCount atomic.Int64

	// Start workers to parse files (CPU-intensive work)
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for work := range workCh {
				entry, err := p.processFile(work.SourceFile)
				if err != nil {
					errorCount.Add(1)
					// Non-blocking error recording
					select {
					case errorCh <- fmt.Errorf("worker %d: file %d (%s): %w", workerID, work.Index, work.Path, err):
					default:
					}
					bar.Increment()
					continue
				}

				recordCount.Add(int64(entry.RecordCount))
				resultCh <- entry
				bar.Increment()
			}
		}(i)
	}

	// Start batch inserter goroutine
	insertDone := make(chan error, 1)
	go func() {
		insertDone <- p.batchInserter(resultCh)
	}()

	// Send work to workers
	go func() {
		for i, file := range files {
			workCh <- fileWork{SourceFile: file, Index: i}
		}
		close(workCh)
	}()

	wg.Wait()
	bar.SetTotal(-1, true)
	close(resultCh) // Signal batch inserter to finish

	insertErr := <-insertDone
	close(errorCh)

	// Wait for progress bar to finish rendering
	progress.Wait()

	if insertErr != nil {
		return result, fmt.Errorf("batch insertion failed: %w", insertErr)
	}

	var errs []error
	for err := range errorCh {
		errs = append(errs, err)
		if len(errs) >= MaxErrorsToCollect {
			break
		}
	}

	failCount := int(errorCount.Load())
	result.Failed = failCount
	result.Imported = total - failCount
	result.Records = int(recordCount.Load())

	if failCount > 0 {
		p.log.Warn("Import finished with errors",
			zap.Int("imported", result.Imported),
			zap.Int("failed", failCount),
		)
		for i := 0; i < min(len(errs), SampleErrorCount); i++ {
			p.log.Warn("Import error", zap.Int("sample", i+1), zap.Error(errs[i]))
		}
		return result, fmt.Errorf("import completed with %d errors: %w", failCount, errors.Join(errs...))
	}

	p.log.Info("Import finished",
		zap.Int("imported", result.Imported),
		zap.Int("records", result.Records),
	)
	return result, nil
}

// batchInserter collects datasets and inserts them in batches with dynamic sizing
// Adjusts batch size based on channel pressure to prevent blocking
func (p *Processor) batchInserter(resultCh <-chan *database.LibraryDataset) error {
	batch := make([]*database.LibraryDataset, 0, p.maxBatchSize)
	currentBatchSize := p.batchSize

	for entry := range resultCh {
		batch = append(batch, entry)

		utilization := float64(len(resultCh)) / float64(cap(resultCh))
		newBatchSize := p.calculateBatchSize(utilization, currentBatchSize)
		if newBatchSize != currentBatchSize {
			p.log.Debug("Adjusting batch size",
				zap.Float64("utilization", utilization),
				zap.Int("from", currentBatchSize),
				zap.Int("to", newBatchSize),
			)
		}
		currentBatchSize = newBatchSize

		if len(batch) >= currentBatchSize {
			if err := p.repo.BatchInsertLibrary(batch, len(batch)); err != nil {
				drain(resultCh)
				return fmt.Errorf("failed to insert batch of %d datasets: %w", len(batch), err)
			}
			batch = batch[:0]
		}
	}

	// Insert remaining datasets
	if len(batch) > 0 {
		if err := p.repo.BatchInsertLibrary(batch, len(batch)); err != nil {
			return fmt.Errorf("failed to insert final batch of %d datasets: %w", len(batch), err)
		}
	}

	return nil
}

// drain discards pending results so workers never block on a dead inserter
func drain(resultCh <-chan *database.LibraryDataset) {
	for range resultCh {
	}
}

// calculateBatchSize determines the optimal batch size based on channel utilization
func (p *Processor) calculateBatchSize(utilization float64, currentSize int) int {
	switch {
	case utilization >= channelPressureHigh:
		return p.minBatchSize

	case utilization >= channelPressureMedium:
		return p.batchSize

	case utilization <= channelPressureLow:
		return p.maxBatchSize

	default:
		// Between 20-50%: keep current batch size for smooth transition
		return currentSize
	}
}

// processFile parses one file into a library entry
func (p *Processor) processFile(file loader.SourceFile) (*database.LibraryDataset, error) {
	records, stats := loader.Parse(file.Data)
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	records, err := p.convertRecords(records)
	if err != nil {
		return nil, err
	}

	data, err := database.EncodeRecords(records)
	if err != nil {
		return nil, err
	}

	p.log.Debug("Parsed vocabulary file",
		zap.String("path", file.Path),
		zap.Int("records", len(records)),
		zap.Int("dropped", stats.Dropped),
		zap.Int("malformed", stats.Malformed),
	)

	return &database.LibraryDataset{
		Fingerprint: dataset.Fingerprint(records),
		Name:        file.Name,
		Path:        file.Path,
		Delimiter:   loader.DelimiterName(stats.Delimiter),
		RecordCount: len(records),
		Records:     data,
	}, nil
}

// convertRecords rewrites the hanzi fields into the configured script
func (p *Processor) convertRecords(records []loader.Record) ([]loader.Record, error) {
	if p.script == ScriptAsIs {
		return records, nil
	}

	var err error
	for i := range records {
		r := &records[i]
		if r.Chinese, err = p.script.convert(r.Chinese); err != nil {
			return nil, fmt.Errorf("failed to convert chinese: %w", err)
		}
		if r.Example, err = p.script.convert(r.Example); err != nil {
			return nil, fmt.Errorf("failed to convert example: %w", err)
		}
	}
	return records, nil
}
