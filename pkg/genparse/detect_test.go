package genparse_test

import (
	"testing"

	"github.com/appcanvas/genparse/pkg/genparse"
)

// ═══════════════════════════════════════════════════════════════════════════
// Format Detection
// ═══════════════════════════════════════════════════════════════════════════

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want genparse.Format
	}{
		{
			name: "marker v2 with META and FILE",
			text: "<!-- META -->\nformat: marker\nversion: 2\n<!-- /META -->\n<!-- FILE:a.ts -->\nexport const a = 1;\n<!-- /FILE:a.ts -->",
			want: genparse.FormatMarkerV2,
		},
		{
			name: "marker v1 with FILE only",
			text: "<!-- FILE:a.ts -->\nexport const a = 1;\n<!-- /FILE:a.ts -->",
			want: genparse.FormatMarkerV1,
		},
		{
			name: "marker v1 with PLAN and EXPLANATION but no FILE yet",
			text: "<!-- PLAN -->\ncreate: src/App.tsx\n<!-- /PLAN -->\n<!-- EXPLANATION -->\nAdds the app shell.\n<!-- /EXPLANATION -->",
			want: genparse.FormatMarkerV1,
		},
		{
			name: "json v2 with format marker",
			text: `{"meta": {"format": "json", "version": "2"}, "files": {"a.ts": "export const a = 1;"}}`,
			want: genparse.FormatJSONV2,
		},
		{
			name: "json v2 with batch and manifest",
			text: `{"batch": {"current": 1, "total": 2}, "manifest": [{"path": "a.ts", "action": "create", "status": "included"}], "files": {}}`,
			want: genparse.FormatJSONV2,
		},
		{
			name: "json v1 with files key",
			text: `{"files": {"a.ts": "export const a = 1;"}}`,
			want: genparse.FormatJSONV1,
		},
		{
			name: "json v1 with fileChanges key",
			text: `{"fileChanges": {"a.ts": "export const a = 1;"}}`,
			want: genparse.FormatJSONV1,
		},
		{
			name: "json v1 wrapped in a fence",
			text: "```json\n{\"files\": {\"a.ts\": \"export const a = 1;\"}}\n```",
			want: genparse.FormatJSONV1,
		},
		{
			name: "json v1 behind leading plan comment",
			text: "// PLAN: {\"create\": [\"a.ts\"]}\n{\"files\": {\"a.ts\": \"export const a = 1;\"}}",
			want: genparse.FormatJSONV1,
		},
		{
			name: "fallback with tagged fence",
			text: "Here is the component:\n\n```tsx\nexport default function App() { return <div />; }\n```\n",
			want: genparse.FormatFallback,
		},
		{
			name: "plain prose",
			text: "I cannot generate that file for you.",
			want: genparse.FormatUnknown,
		},
		{
			name: "empty",
			text: "   \n  ",
			want: genparse.FormatUnknown,
		},
		{
			name: "marker beats json when both present",
			text: "<!-- FILE:a.ts -->\nexport const a = 1;\n<!-- /FILE:a.ts -->\n{\"files\": {}}",
			want: genparse.FormatMarkerV1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := genparse.DetectFormat(tt.text); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFormat_Deterministic(t *testing.T) {
	text := `{"meta": {"format": "json"}, "files": {"a.ts": "export const a = 1;"}}`
	first := genparse.DetectFormat(text)
	for i := 0; i < 50; i++ {
		if got := genparse.DetectFormat(text); got != first {
			t.Fatalf("run %d: DetectFormat() = %q, want %q", i, got, first)
		}
	}
}

func TestDetectFormat_InvisiblePrefix(t *testing.T) {
	for _, prefix := range []string{"\uFEFF", "\u200B", "\uFEFF\u200B"} {
		text := prefix + `{"files": {"a.ts": "export const a = 1;"}}`
		if got := genparse.DetectFormat(text); got != genparse.FormatJSONV1 {
			t.Errorf("DetectFormat(%q+...) = %q, want %q", prefix, got, genparse.FormatJSONV1)
		}
	}
}
