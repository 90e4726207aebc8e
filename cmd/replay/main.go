// cmd/replay: plays a recorded execution trace over a converted graph in the
// terminal.
//
//	replay -expr rule.json -trace trace.json -speed 250 -breakpoint "has_error"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/awmpietro/golang-logic-trace-case/internal/config"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
)

var (
	currentStyle = color.New(color.FgYellow, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	dimStyle     = color.New(color.Faint)
	doneStyle    = color.New(color.FgGreen)
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	exprPath := flag.String("expr", "", "path to the JSONLogic expression file")
	tracePath := flag.String("trace", "", "path to the execution trace file")
	speedMS := flag.Int("speed", cfg.PlaybackSpeedMS, "playback speed in milliseconds per step")
	breakpoint := flag.String("breakpoint", "", "pause when this condition matches a step")
	preserve := flag.Bool("preserve", cfg.PreserveStructure, "preserve data structures as structure nodes")
	dotPath := flag.String("dot", "", "write the graph as DOT to this file and exit")
	flag.Parse()

	if *exprPath == "" || *tracePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	expr, err := os.ReadFile(*exprPath)
	if err != nil {
		log.Fatalf("read expression: %v", err)
	}
	rawTrace, err := os.ReadFile(*tracePath)
	if err != nil {
		log.Fatalf("read trace: %v", err)
	}
	var trace logic.TraceResult
	if err := json.Unmarshal(rawTrace, &trace); err != nil {
		log.Fatalf("parse trace: %v", err)
	}

	converter := logic.NewConverter()
	graph, nodeMap, err := converter.Correlate(expr, trace.ExpressionTree, *preserve)
	if err != nil {
		log.Fatalf("correlate: %v", err)
	}

	if *dotPath != "" {
		dot, err := logic.ToDOT(graph)
		if err != nil {
			log.Fatalf("render DOT: %v", err)
		}
		if err := os.WriteFile(*dotPath, []byte(dot), 0o644); err != nil {
			log.Fatalf("write DOT: %v", err)
		}
		fmt.Printf("wrote %s (%d nodes, %d edges)\n", *dotPath, len(graph.Nodes), len(graph.Edges))
		return
	}

	snaps := make(chan logic.Snapshot, 256)
	dbg := logic.NewDebugger(
		logic.WithNodeMap(nodeMap),
		logic.WithParentMap(graph.ParentMap()),
		logic.WithSpeed(time.Duration(*speedMS)*time.Millisecond),
		logic.WithStepListener(func(s logic.Snapshot) { snaps <- s }),
	)
	defer dbg.Close()

	if *breakpoint != "" {
		if err := dbg.SetBreakpoint(*breakpoint); err != nil {
			log.Fatalf("invalid breakpoint: %v", err)
		}
	}

	fmt.Printf("replaying %d steps over %d nodes\n", len(trace.Steps), len(graph.Nodes))
	dbg.Initialize(trace.Steps)
	<-snaps // initial stopped snapshot
	dbg.Play()

	lastPrinted := -1
	for snap := range snaps {
		if snap.Active && snap.StepIndex != lastPrinted {
			printStep(graph, snap)
			lastPrinted = snap.StepIndex
		}
		if snap.State == logic.PlaybackPaused {
			if snap.StepIndex < snap.StepCount-1 {
				errorStyle.Printf("breakpoint hit at step %d\n", snap.StepIndex)
			} else {
				doneStyle.Printf("playback finished (%d steps)\n", snap.StepCount)
			}
			return
		}
	}
}

func printStep(graph *logic.Graph, snap logic.Snapshot) {
	dimStyle.Printf("[%3d/%3d] ", snap.StepIndex+1, snap.StepCount)
	currentStyle.Printf("%-12s %s", snap.CurrentNodeID, describe(graph, snap.CurrentNodeID))

	if snap.Step != nil {
		if snap.Step.Error != "" {
			errorStyle.Printf("  error=%s", snap.Step.Error)
		} else if len(snap.Step.Result) > 0 {
			dimStyle.Printf("  result=%s", snap.Step.Result)
		}
	}
	fmt.Println()
}

func describe(graph *logic.Graph, id string) string {
	n := graph.Node(id)
	if n == nil {
		return "(unmatched)"
	}
	switch data := n.Data.(type) {
	case *logic.LiteralData:
		return fmt.Sprintf("literal %s", data.Value)
	case *logic.VariableData:
		return fmt.Sprintf("%s %s", data.Operator, data.Path)
	case *logic.OperatorData:
		return data.Operator
	case *logic.StructureData:
		return "structure"
	}
	return string(n.Type)
}
