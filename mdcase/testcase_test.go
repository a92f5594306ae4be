package mdcase

import (
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Binary expressions

## Test: +
` + fence + `zac-expr
1 + 2
` + fence + `
` + fence + `ast
(binary "+" (number 1) (number 2))
` + fence + `

## Test: lowering
` + fence + `zac-program
fn f(x: Number) { return x }
f(1)
` + fence + `
` + fence + `jsx
function f(x) {
  return x
}

f(1)
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "+")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeZacExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Parsed.String(), `(binary "+" (number 1) (number 2))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.InputType, InputTypeZacProgram)
	be.Equal(t, tc2.Input, "fn f(x: Number) { return x }\nf(1)")
	be.Equal(t, tc2.Assertions[0].Type, AssertionTypeJSX)
	be.Equal(t, tc2.Assertions[0].Content, "function f(x) {\n  return x\n}\n\nf(1)")
	be.Equal(t, tc2.Assertions[0].Parsed, (*Node)(nil))
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: several
` + fence + `zac-program
let x = [1, 2]
` + fence + `
` + fence + `jsx
let x = [1, 2]
` + fence + `
` + fence + `types
x: Vec<Number>
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions), 2)
	be.Equal(t, testCases[0].Assertions[1].Type, AssertionTypeTypes)
}

func TestExtractTestCases_PlainCodeBlocksAreIgnored(t *testing.T) {
	markdown := "Some prose.\n\n" + fence + "\nnot a test\n" + fence + "\n"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		err      string
	}{
		{
			name:     "fence outside test",
			markdown: fence + "zac-expr\n1\n" + fence + "\n",
			err:      "zac-expr fence found outside of test case",
		},
		{
			name:     "unknown fence outside test",
			markdown: fence + "go\nx\n" + fence + "\n",
			err:      "unknown fence language 'go' found outside of test case",
		},
		{
			name:     "unknown fence in test",
			markdown: "## Test: a\n" + fence + "zac-expr\n1\n" + fence + "\n" + fence + "wasm\nx\n" + fence + "\n",
			err:      "unknown fence language 'wasm' in test 'a'",
		},
		{
			name:     "two inputs",
			markdown: "## Test: a\n" + fence + "zac-expr\n1\n" + fence + "\n" + fence + "zac-program\n2\n" + fence + "\n",
			err:      "multiple input fences found in test 'a'",
		},
		{
			name:     "no input",
			markdown: "## Test: a\n" + fence + "jsx\n1\n" + fence + "\n",
			err:      "test 'a' has no input fence",
		},
		{
			name:     "no assertion",
			markdown: "## Test: a\n" + fence + "zac-expr\n1\n" + fence + "\n",
			err:      "test 'a' has no assertion fences",
		},
		{
			name:     "bad ast",
			markdown: "## Test: a\n" + fence + "zac-expr\n1\n" + fence + "\n" + fence + "ast\n(number 1\n" + fence + "\n",
			err:      "failed to parse ast assertion in test 'a'",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.Err(t, err, test.err)
		})
	}
}

func TestParseTypes(t *testing.T) {
	types, err := ParseTypes("m_id: Number\n\n  x : Vec<Number>  \n")
	be.Err(t, err, nil)
	be.Equal(t, types, map[string]string{"m_id": "Number", "x": "Vec<Number>"})

	_, err = ParseTypes("oops")
	be.Err(t, err, "expected 'name: Type'")
}
