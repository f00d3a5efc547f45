package summarizer

import "fmt"

const promptTemplate = `Summarize the primary purpose and key features of the GitHub repository based on its README file content. Also, list 2-3 interesting or cool facts about the project mentioned in the README.

README Content: %s

IMPORTANT: Your response must be only a valid JSON object with no other text or explanations.
The JSON must use this exact structure:
{
  "summary": "A concise summary of the project's purpose and key features (between 1 and 2000 characters)",
  "cool_facts": ["fact 1", "fact 2", "optional fact 3"]
}

Do not include any text before or after the JSON. The response should start with '{' and end with '}' with no additional text.`

func buildPrompt(readmeContent string) string {
	return fmt.Sprintf(promptTemplate, readmeContent)
}
