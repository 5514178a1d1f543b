package genparse_bench

import (
	"fmt"
	"strings"
	"testing"

	"github.com/appcanvas/genparse/pkg/genparse"
)

// ============================================================================
// Benchmark Fixtures
// ============================================================================

var jsonSmall = `{"explanation": "Adds the button", "files": {"src/Button.tsx": "export default function Button() {\n  return <button>Go</button>;\n}"}}`

var jsonTruncated = `{"explanation": "Adds the header", "files": {"src/App.tsx": "export default function App() {\n  return (\n    <div className=\"app\">\n      <h1>Title`

func markerResponse(nFiles int) string {
	var b strings.Builder
	b.WriteString("<!-- PLAN -->\ncreate: src/index.ts\n<!-- /PLAN -->\n")
	for i := 0; i < nFiles; i++ {
		path := fmt.Sprintf("src/module%d.ts", i)
		fmt.Fprintf(&b, "<!-- FILE:%s -->\n", path)
		for j := 0; j < 40; j++ {
			fmt.Fprintf(&b, "export const value%d_%d = %d;\n", i, j, i*j)
		}
		fmt.Fprintf(&b, "<!-- /FILE:%s -->\n", path)
	}
	return b.String()
}

var proseFallback = "Here is the component you asked for:\n\n" +
	"```tsx\nexport default function App() {\n  return <div>hello</div>;\n}\n```\n\n" +
	"And a helper:\n\n```ts\nexport const helper = () => 42;\n```\n"

// ============================================================================
// Parse
// ============================================================================

func BenchmarkParse_JSONSmall(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := genparse.Parse(jsonSmall); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_JSONTruncated(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := genparse.Parse(jsonTruncated); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Marker10Files(b *testing.B) {
	text := markerResponse(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := genparse.Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Marker100Files(b *testing.B) {
	text := markerResponse(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := genparse.Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Fallback(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := genparse.Parse(proseFallback); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Detection
// ============================================================================

func BenchmarkDetectFormat_JSON(b *testing.B) {
	for i := 0; i < b.N; i++ {
		genparse.DetectFormat(jsonSmall)
	}
}

func BenchmarkDetectFormat_Marker(b *testing.B) {
	text := markerResponse(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		genparse.DetectFormat(text)
	}
}

// ============================================================================
// Streaming
// ============================================================================

func BenchmarkStreamParser_Feed(b *testing.B) {
	full := markerResponse(5)
	chunk := 64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		parser := genparse.NewStreamParser()
		for off := 0; off < len(full); off += chunk {
			end := off + chunk
			if end > len(full) {
				end = len(full)
			}
			if _, err := parser.Feed(full[off:end]); err != nil {
				b.Fatal(err)
			}
		}
	}
}
