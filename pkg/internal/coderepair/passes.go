package coderepair

import (
	"regexp"
	"strings"
)

// Pass 1: arrow functions.
var (
	// "= >" mistyped arrow. Normalized first so the hybrid pattern below
	// can rely on a literal "=>".
	spacedArrow = regexp.MustCompile(`=[ \t]+>`)
	// "( ) =>" with stray space inside the empty parameter list.
	spacedEmptyParams = regexp.MustCompile(`\([ \t]+\)\s*=>`)
	// "function Name(...) => {" hybrid of declaration and arrow syntax.
	hybridFunction = regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)\s*=>\s*\{`)
	// "= (params) {" missing the arrow after an assignment.
	assignMissingArrow = regexp.MustCompile(`=\s*\(([^()]*)\)\s*\{`)
	// "(params) {" in a callback argument position.
	callbackMissingArrow = regexp.MustCompile(`([(,]\s*)\(([^()]*)\)\s*\{`)
	// "onX={(params) {" inside a JSX event-handler brace.
	handlerMissingArrow = regexp.MustCompile(`(on[A-Z]\w*=\{)\s*\(([^()]*)\)\s*\{`)
	// "name: (params) {" object-literal property holding a broken arrow.
	propertyMissingArrow = regexp.MustCompile(`(\w+)\s*:\s*\(([^():]*)\)\s*\{`)
)

func repairArrowFunctions(src string) string {
	out := spacedArrow.ReplaceAllString(src, "=>")
	out = spacedEmptyParams.ReplaceAllString(out, "() =>")
	out = hybridFunction.ReplaceAllString(out, "function $1($2) {")
	out = handlerMissingArrow.ReplaceAllString(out, "$1($2) => {")
	out = assignMissingArrow.ReplaceAllString(out, "= ($1) => {")
	out = callbackMissingArrow.ReplaceAllString(out, "$1($2) => {")
	out = propertyMissingArrow.ReplaceAllString(out, "$1: ($2) => {")
	return out
}

// Pass 2: attribute quoting.
var (
	// name"value" with the "=" dropped. The attribute name has to abut the
	// quote directly; correct attributes have "=" in between and never match.
	missingAttrEquals = regexp.MustCompile(`(\s[a-zA-Z][\w-]*)"([^"\n]*)"`)
	// Event handlers written as string literals instead of expressions.
	stringEventHandler = regexp.MustCompile(`(on[A-Z]\w*)="([^"]*)"`)
	// style="{...}" needs expression braces around the object literal.
	stringStyleObject = regexp.MustCompile(`style="(\{[^"]*\})"`)
)

func repairAttributeQuoting(src string) string {
	lines := strings.Split(src, "\n")
	changed := false
	for i, line := range lines {
		if !strings.Contains(line, "<") {
			continue
		}
		fixed := missingAttrEquals.ReplaceAllString(line, `$1="$2"`)
		fixed = stringEventHandler.ReplaceAllString(fixed, `$1={$2}`)
		fixed = stringStyleObject.ReplaceAllString(fixed, `style={$1}`)
		if fixed != line {
			lines[i] = fixed
			changed = true
		}
	}
	if !changed {
		return src
	}
	return strings.Join(lines, "\n")
}

// Pass 3: conditional expressions.
var (
	// A false branch containing a bare boolean-and gets wrapped so the
	// precedence the model intended survives.
	unparenthesizedAnd = regexp.MustCompile(`(\?[^?:\n]+:\s*)([^()\n]*?&&[^()\n;,]*?)(\s*(?:[;,)}\]]|$))`)
	// "cond ? value}" with the false branch missing before a closing brace.
	// The leading capture keeps "??" and "?." from matching; the first value
	// character also rejects quotes so a "?" ending a string literal cannot
	// pull part of the string out as a branch.
	missingFalseBranch = regexp.MustCompile(`([^?])\?[ \t]*([^?."'` + "`" + `:{}\n][^:{}\n]*?)[ \t]*\}`)
)

func repairConditionals(src string) string {
	out := unparenthesizedAnd.ReplaceAllString(src, "$1($2)$3")
	out = missingFalseBranch.ReplaceAllString(out, "$1? $2 : null}")
	return out
}

// Pass 4: declarations.
var (
	// Whitespace between the colons is required so CSS "::" selectors
	// inside template strings survive.
	doubledTypeColon   = regexp.MustCompile(`:[ \t]+:[ \t]*`)
	trailingCommaBrace = regexp.MustCompile(`,(\s*)\}`)
)

func repairDeclarations(src string) string {
	out := doubledTypeColon.ReplaceAllString(src, ": ")
	out = trailingCommaBrace.ReplaceAllString(out, "$1}")
	return out
}

// Residual patterns QuickValidate rejects after the pipeline ran.
var residualBad = []*regexp.Regexp{
	regexp.MustCompile(`=[ \t]+>`),
	regexp.MustCompile(`:[ \t]+:`),
}
