package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/AdKamat2411/ChessMirror/game"
	"github.com/AdKamat2411/ChessMirror/searcher"
	ort "github.com/yalue/onnxruntime_go"
)

var ortInitOnce sync.Once
var ortInitErr error

// Evaluator wraps a single ONNX Runtime session implementing
// searcher.Evaluator. Per spec §5 the core runs one search at a time, so
// unlike a serving system this makes no attempt to batch concurrent
// requests — every Evaluate call runs its own single-position inference
// synchronously.
type Evaluator struct {
	session *ort.DynamicAdvancedSession
}

// New loads the model at modelPath and returns a ready Evaluator. It
// returns a *searcher.ConfigurationError on any load failure, since a bad
// model path is a construction-time problem the caller must surface, not
// something the search loop can recover from.
func New(modelPath string) (*Evaluator, error) {
	if runtime.GOOS == "linux" {
		ensureSharedLibraryPath()
	}

	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, searcher.NewConfigurationError("failed to initialize onnxruntime", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, searcher.NewConfigurationError("failed to create session options", err)
	}
	defer options.Destroy()
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{"input"}, []string{"policy", "value"}, options)
	if err != nil {
		return nil, searcher.NewConfigurationError(fmt.Sprintf("failed to load model %s", modelPath), err)
	}

	return &Evaluator{session: session}, nil
}

// Close releases the underlying ONNX Runtime session.
func (e *Evaluator) Close() error {
	return e.session.Destroy()
}

// Evaluate runs one forward pass over pos and returns its priors (over
// pos's own legal moves) and SideA-perspective value. Any tensor or
// runtime failure is wrapped in a *searcher.EvaluationError; callers
// (searcher.Node.Evaluate) fall back to rollout on this error rather than
// surfacing it further.
func (e *Evaluator) Evaluate(pos game.Position) (searcher.NodeEvaluation, error) {
	cp, ok := pos.(game.ChessPosition)
	if !ok {
		return searcher.NodeEvaluation{}, &searcher.EvaluationError{FEN: pos.FEN(), Err: fmt.Errorf("evaluator: position is not a chess position")}
	}

	input := EncodeBoard(cp.Board)
	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(PlaneCount), int64(BoardSize), int64(BoardSize)), input)
	if err != nil {
		return searcher.NodeEvaluation{}, &searcher.EvaluationError{FEN: pos.FEN(), Err: err}
	}
	defer inputTensor.Destroy()

	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(PolicySize)))
	if err != nil {
		return searcher.NodeEvaluation{}, &searcher.EvaluationError{FEN: pos.FEN(), Err: err}
	}
	defer policyTensor.Destroy()

	valueTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return searcher.NodeEvaluation{}, &searcher.EvaluationError{FEN: pos.FEN(), Err: err}
	}
	defer valueTensor.Destroy()

	if err := e.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor, valueTensor}); err != nil {
		return searcher.NodeEvaluation{}, &searcher.EvaluationError{FEN: pos.FEN(), Err: err}
	}

	priors := toPriors(policyTensor.GetData(), pos)
	value := toSideAValue(valueTensor.GetData()[0], pos.SideToMove())

	return searcher.NodeEvaluation{Priors: priors, Value: value}, nil
}

// ensureSharedLibraryPath points onnxruntime_go at a local
// libonnxruntime.so if the caller hasn't already set
// ORT_SHARED_LIBRARY_PATH, mirroring how deployments colocate the shared
// library next to the binary rather than relying on system install.
func ensureSharedLibraryPath() {
	if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
		return
	}
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, name := range []string{"libonnxruntime.so", "libonnxruntime.so.1"} {
		abs := filepath.Join(cwd, name)
		if _, err := os.Stat(abs); err == nil {
			ort.SetSharedLibraryPath(abs)
			return
		}
	}
}

