// internal/eval/task.go
package eval

import (
	"fmt"
	"path/filepath"

	"github.com/mwiater/cryptic/internal/dataset"
)

// DefaultTask is the only task this tool knows how to run.
const DefaultTask = "cryptic_crossword"

// Task pairs a dataset with the system message every request carries.
type Task struct {
	Name          string
	SystemMessage string
	Dataset       dataset.Dataset
}

// BuildTask loads the named task. With benchmarkFile set only that file is
// read; otherwise every benchmark file under dataDir/benchmark is.
func BuildTask(name, dataDir, benchmarkFile string) (Task, error) {
	if name == "" {
		name = DefaultTask
	}
	if name != DefaultTask {
		return Task{}, fmt.Errorf("unknown task %q", name)
	}

	var (
		ds  dataset.Dataset
		err error
	)
	if benchmarkFile != "" {
		ds, err = dataset.Load(benchmarkFile)
	} else {
		ds, err = dataset.LoadDir(filepath.Join(dataDir, "benchmark"))
	}
	if err != nil {
		return Task{}, err
	}
	return Task{Name: name, SystemMessage: dataset.SystemMessage, Dataset: ds}, nil
}
