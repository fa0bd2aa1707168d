package ai

import (
	"context"
	"fmt"
	"strings"
)

// TemplateModel is reported as model_used by the template generator.
const TemplateModel = "template-v1"

// TemplateGenerator renders a deterministic GitHub Actions workflow without calling a model.
type TemplateGenerator struct{}

// NewTemplateGenerator constructs the offline generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate renders the workflow for the given input.
func (TemplateGenerator) Generate(ctx context.Context, input PipelineInput) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	builder := strings.Builder{}
	fmt.Fprintf(&builder, "name: %s\n", quote(input.ProjectName+" CI"))
	builder.WriteString("on:\n  push:\n    branches: [main]\n  pull_request:\n")
	builder.WriteString("jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n")
	builder.WriteString("      - uses: actions/checkout@v4\n")

	for _, step := range setupSteps(strings.ToLower(input.Language)) {
		builder.WriteString(step)
	}

	test := testCommand(strings.ToLower(input.Language), strings.ToLower(input.TestFramework))
	fmt.Fprintf(&builder, "      - name: Test\n        run: %s\n", test)

	if input.Containerized {
		builder.WriteString("      - name: Build image\n        run: docker build -t ${{ github.repository }}:${{ github.sha }} .\n")
	}

	return Result{Content: builder.String(), Model: TemplateModel}, nil
}

func setupSteps(language string) []string {
	switch language {
	case "go", "golang":
		return []string{"      - uses: actions/setup-go@v5\n        with:\n          go-version: stable\n"}
	case "python":
		return []string{
			"      - uses: actions/setup-python@v5\n        with:\n          python-version: '3.12'\n",
			"      - name: Install dependencies\n        run: pip install -r requirements.txt\n",
		}
	case "javascript", "typescript", "node":
		return []string{
			"      - uses: actions/setup-node@v4\n        with:\n          node-version: 20\n",
			"      - name: Install dependencies\n        run: npm ci\n",
		}
	default:
		return nil
	}
}

func testCommand(language, framework string) string {
	switch {
	case framework == "pytest":
		return "pytest"
	case framework == "jest":
		return "npx jest"
	case language == "go" || language == "golang":
		return "go test ./..."
	case language == "python":
		return "python -m unittest"
	case language == "javascript" || language == "typescript" || language == "node":
		return "npm test"
	default:
		return "echo \"no test command configured\""
	}
}

func quote(value string) string {
	value = strings.TrimSpace(value)
	return "\"" + strings.ReplaceAll(value, "\"", "'") + "\""
}
