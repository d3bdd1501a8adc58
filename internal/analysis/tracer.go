package analysis

import (
	"maps"
	"strings"

	"CodeTracer/internal/model"
)

// Tracer 通过逐行模式匹配合成"执行轨迹"和顺序图。
// 不做真正的控制流分析：循环不展开，函数体不进入，调用栈始终为空。
type Tracer struct {
	Classifier *Classifier
}

func NewTracer(rules []model.LineRule) *Tracer {
	return &Tracer{Classifier: NewClassifier(rules)}
}

var defaultTracer = NewTracer(nil)

// Analyze runs the builtin rules over code.
func Analyze(code string) model.Trace {
	return defaultTracer.Analyze(code)
}

// Analyze 对任意输入都不会失败，无法分类的行直接跳过
func (t *Tracer) Analyze(code string) model.Trace {
	steps, vars := t.steps(code)
	graph := t.Graph(code)
	return model.Trace{
		Steps:     steps,
		Nodes:     graph.Nodes,
		Edges:     graph.Edges,
		Variables: vars,
	}
}

// Steps 返回按源码行序排列的步骤列表
func (t *Tracer) Steps(code string) []model.Step {
	steps, _ := t.steps(code)
	return steps
}

func (t *Tracer) steps(code string) ([]model.Step, map[string]string) {
	steps := []model.Step{}
	vars := map[string]string{}

	for i, line := range splitLines(code) {
		m, ok := t.Classifier.Classify(line)
		if !ok {
			continue
		}
		if m.Rule.Assigns {
			vars[m.Name] = model.VarAssigned
		}
		// 每一步持有变量表的快照
		steps = append(steps, model.Step{
			Line:        i + 1,
			Kind:        m.Rule.Kind,
			Action:      m.Rule.Describe(m.Name),
			LineContent: strings.TrimSpace(line),
			Variables:   maps.Clone(vars),
			CallStack:   []string{},
		})
	}
	return steps, vars
}

// Graph 独立的第二遍扫描：每个命中行生成一个节点，相邻节点顺序相连
func (t *Tracer) Graph(code string) model.Graph {
	nodes := []model.Node{}
	nodeID := 0

	for i, line := range splitLines(code) {
		m, ok := t.Classifier.Classify(line)
		if !ok || !m.Rule.EmitNode {
			continue
		}
		nodes = append(nodes, model.Node{
			ID:    nodeID,
			Kind:  m.Rule.Kind,
			Label: m.Rule.Label(m.Name),
			Line:  i + 1,
		})
		nodeID++
	}

	return model.Graph{Nodes: nodes, Edges: chain(nodes)}
}

func chain(nodes []model.Node) []model.Edge {
	edges := []model.Edge{}
	for i := 0; i+1 < len(nodes); i++ {
		edges = append(edges, model.Edge{Source: nodes[i].ID, Target: nodes[i+1].ID})
	}
	return edges
}

func splitLines(code string) []string {
	return strings.Split(code, "\n")
}
