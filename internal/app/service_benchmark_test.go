// internal/app/service_benchmark_test.go
package app

import (
	"encoding/json"
	"testing"

	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
	"github.com/awmpietro/golang-logic-trace-case/internal/logic/cache"
)

var benchExpr = json.RawMessage(`{"if": [
	{"and": [
		{">=": [{"var": "user.age"}, 18]},
		{"==": [{"var": "user.country"}, "BR"]}
	]},
	{"cat": ["Hello, ", {"var": "user.name"}]},
	{"var": ["fallback_greeting", "Hello"]}
]}`)

func BenchmarkBuildGraph_Cached(b *testing.B) {
	svc := NewService(logic.NewConverter(), cache.NewInMemory(64))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.BuildGraph(benchExpr, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildGraph_Uncached(b *testing.B) {
	svc := NewService(logic.NewConverter(), cache.NewInMemory(0))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.BuildGraph(benchExpr, false); err != nil {
			b.Fatal(err)
		}
	}
}
