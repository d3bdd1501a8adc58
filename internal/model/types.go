package model

// Kind 行分类结果
type Kind string

const (
	KindFunction  Kind = "function"
	KindOutput    Kind = "output"
	KindVariable  Kind = "variable"
	KindLoop      Kind = "loop"
	KindCondition Kind = "condition"
)

// VarAssigned 变量表中唯一的标记值
const VarAssigned = "assigned"

// Step 是合成执行轨迹中的一步，创建后不再修改
type Step struct {
	Line        int               `json:"line" yaml:"line"`
	Kind        Kind              `json:"kind" yaml:"kind"`
	Action      string            `json:"action" yaml:"action"`
	LineContent string            `json:"lineContent" yaml:"line_content"`
	Variables   map[string]string `json:"variables" yaml:"variables"`
	CallStack   []string          `json:"callStack" yaml:"call_stack"`
}

// Node 可视化图中的节点
type Node struct {
	ID    int    `json:"id" yaml:"id"`
	Kind  Kind   `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
	Line  int    `json:"line" yaml:"line"`
}

// Edge 只表示顺序关系 (node i -> node i+1)
type Edge struct {
	Source int `json:"source" yaml:"source"`
	Target int `json:"target" yaml:"target"`
}

type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Trace 是一次分析的完整输出
type Trace struct {
	Steps     []Step            `json:"steps" yaml:"steps"`
	Nodes     []Node            `json:"nodes" yaml:"nodes"`
	Edges     []Edge            `json:"edges" yaml:"edges"`
	Variables map[string]string `json:"variables" yaml:"variables"`
}

// Graph returns the node/edge half of the trace.
func (t Trace) Graph() Graph {
	return Graph{Nodes: t.Nodes, Edges: t.Edges}
}

// FileResult 目录扫描中单个文件的结果
type FileResult struct {
	Path     string `json:"path" yaml:"path"`
	Language string `json:"language" yaml:"language"`
	Source   string `json:"-" yaml:"-"`
	Trace    Trace  `json:"trace" yaml:"trace"`
	Err      error  `json:"-" yaml:"-"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}
