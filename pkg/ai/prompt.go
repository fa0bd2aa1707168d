package ai

import "strings"

func pipelineSystemPrompt() string {
	return "You are a DevOps assistant. Reply with a single GitHub Actions workflow in YAML and nothing else. " +
		"Include checkout, dependency installation, build and test steps suited to the described project."
}

// BuildPrompt renders the user prompt for a pipeline request.
func BuildPrompt(input PipelineInput) string {
	builder := strings.Builder{}
	builder.WriteString("Generate a CI/CD pipeline for project: ")
	builder.WriteString(input.ProjectName)
	builder.WriteString("\n\n## Description\n")
	if strings.TrimSpace(input.Description) == "" {
		builder.WriteString("(none)")
	} else {
		builder.WriteString(input.Description)
	}

	if input.HasStack() {
		builder.WriteString("\n\n## Stack\n")
		writeField(&builder, "Language", input.Language)
		writeField(&builder, "Framework", input.Framework)
		writeField(&builder, "Database", input.Database)
		writeField(&builder, "Test framework", input.TestFramework)
		if input.Containerized {
			builder.WriteString("- Build and push a Docker image\n")
		}
	}

	builder.WriteString("\nReturn YAML only.")
	return builder.String()
}

func writeField(builder *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	builder.WriteString("- ")
	builder.WriteString(label)
	builder.WriteString(": ")
	builder.WriteString(value)
	builder.WriteString("\n")
}

// StripFences removes a surrounding markdown code fence from model output.
func StripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
