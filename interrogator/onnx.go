package interrogator

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// defaultInputSize 是模型元数据与 manifest 都没给出输入尺寸时的兜底边长。
const defaultInputSize = 448

// ortInit 保证进程内只初始化一次 ONNX Runtime 环境。
// 共享库路径可用 TAGKIT_ONNXRUNTIME_LIB 指定（默认按系统库查找）。
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initRuntime() error {
	ortInitOnce.Do(func() {
		if lib := os.Getenv("TAGKIT_ONNXRUNTIME_LIB"); lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// onnxModel 是 Model 的 ONNX Runtime 实现。
// 会话在 loadONNXModel 中创建并独占持有，加载后只读；Run 内部每次新建输入张量。
type onnxModel struct {
	session   *ort.DynamicAdvancedSession
	inputSize int
}

var _ Model = (*onnxModel)(nil)

// loadONNXModel 加载 path 指向的 ONNX 模型。
// 输入尺寸优先取模型第一个输入的静态维度（NHWC 的 H），取不到时用 fallbackSize。
func loadONNXModel(path string, fallbackSize int) (Model, error) {
	if err := initRuntime(); err != nil {
		return nil, fmt.Errorf("init onnxruntime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspect model %s: %w", path, err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model %s has no usable input/output", path)
	}

	size := fallbackSize
	if size <= 0 {
		size = defaultInputSize
	}
	if dims := inputs[0].Dimensions; len(dims) == 4 && dims[1] > 0 {
		size = int(dims[1])
	}

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}

	return &onnxModel{session: session, inputSize: size}, nil
}

func (m *onnxModel) InputSize() int { return m.inputSize }

func (m *onnxModel) Run(input []float32) ([]float32, error) {
	shape := ort.NewShape(1, int64(m.inputSize), int64(m.inputSize), 3)
	tensor, err := ort.NewTensor(shape, input)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer tensor.Destroy()

	outputs := []ort.Value{nil}
	if err := m.session.Run([]ort.Value{tensor}, outputs); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer out.Destroy()

	data := out.GetData()
	probs := make([]float32, len(data))
	copy(probs, data)
	return probs, nil
}

func (m *onnxModel) Close() error {
	return m.session.Destroy()
}
