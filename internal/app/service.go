// internal/app/service.go
package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
)

type Converter interface {
	Convert(expr []byte, preserveStructure bool) (*logic.Graph, error)
	Correlate(expr []byte, tree *logic.ExpressionNode, preserveStructure bool) (*logic.Graph, logic.TraceNodeMap, error)
}

type Cache interface {
	GetOrCompute(fingerprint string, fn func() (*logic.Graph, error)) (*logic.Graph, error)
}

// TraceSession is everything a renderer needs to replay one trace: the
// graph, the trace-to-node mapping, and every step resolved to its node.
type TraceSession struct {
	Graph   *logic.Graph       `json:"graph"`
	NodeMap logic.TraceNodeMap `json:"node_map"`
	Steps   []ResolvedStep     `json:"steps"`
}

type ResolvedStep struct {
	Index  int                 `json:"index"`
	NodeID string              `json:"node_id"`
	Step   logic.ExecutionStep `json:"step"`
}

type Service struct {
	converter Converter
	cache     Cache
	observer  logic.ConversionObserver
}

type ServiceOption func(*Service)

func WithConversionObserver(observer logic.ConversionObserver) ServiceOption {
	return func(s *Service) { s.observer = observer }
}

func NewService(converter Converter, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{converter: converter, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildGraph converts an expression (cached) into its visual graph.
func (s *Service) BuildGraph(expr json.RawMessage, preserve bool) (*logic.Graph, error) {
	if len(expr) == 0 {
		return nil, fmt.Errorf("expression is required")
	}

	start := time.Now()
	g, err := s.cache.GetOrCompute(fingerprint(expr, preserve), func() (*logic.Graph, error) {
		return s.converter.Convert(expr, preserve)
	})
	if err != nil {
		return nil, err
	}

	s.observe(len(g.Nodes), time.Since(start))
	return g, nil
}

// CorrelateTrace converts in trace mode and resolves each step to its visual
// node. Not cached: the node map belongs to this trace.
func (s *Service) CorrelateTrace(expr json.RawMessage, trace *logic.TraceResult, preserve bool) (*TraceSession, error) {
	if len(expr) == 0 {
		return nil, fmt.Errorf("expression is required")
	}
	if trace == nil || trace.ExpressionTree == nil {
		return nil, fmt.Errorf("trace with expression_tree is required")
	}

	start := time.Now()
	g, nodeMap, err := s.converter.Correlate(expr, trace.ExpressionTree, preserve)
	if err != nil {
		return nil, err
	}
	s.observe(len(g.Nodes), time.Since(start))

	steps := make([]ResolvedStep, 0, len(trace.Steps))
	for i, step := range trace.Steps {
		steps = append(steps, ResolvedStep{
			Index:  i,
			NodeID: nodeMap.Resolve(step.NodeID),
			Step:   step,
		})
	}

	return &TraceSession{Graph: g, NodeMap: nodeMap, Steps: steps}, nil
}

func (s *Service) observe(nodeCount int, duration time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveConversion(nodeCount, duration)
}

func fingerprint(expr json.RawMessage, preserve bool) string {
	return fmt.Sprintf("%s|preserve=%t", expr, preserve)
}
