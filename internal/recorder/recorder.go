package recorder

import "StockScout/internal/model"

// Recorder persists screening runs for later analysis.
type Recorder interface {
	RecordRun(res *model.ScreeningResult) error
	Close() error
}
