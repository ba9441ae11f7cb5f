package advisor

import "fmt"

const analyzePromptTemplate = `You are a data analyst specializing in freelance market trends and skill demand analysis.

I want you to analyze these %d Upwork job emails to identify the most in-demand skills,
technologies, and project categories. Focus on identifying patterns and trends.

Upwork Emails:
%s

Analyze these emails and provide:

1. The top 10 most requested technologies (like React, Node.js, etc.) with a demand score (1-10)
2. The top 5 categories of work (like AI Development, Frontend Development, etc.) with a demand score (1-10)
3. The top 10 specific skills (like API Integration, UI/UX Design, etc.) with a demand score (1-10)
4. 5 emerging trends you've noticed in these job postings
5. 5 key insights about what clients are looking for

IMPORTANT:
- Exclude WordPress, PHP, and Laravel from your analysis
- Focus on modern technologies and approaches
- Be specific and data-driven in your analysis
- Use the actual frequency of mentions in the emails to determine demand scores

Respond with a JSON object containing:
- topTechnologies: Array of {name, demandScore} objects
- topCategories: Array of {category, demandScore} objects
- topSkills: Array of {skill, demandScore} objects
- emergingTrends: Array of strings
- insights: Array of strings`

const generatePromptTemplate = `You are a creative portfolio advisor specializing in helping developers showcase their skills effectively.

Based on this analysis of in-demand skills and technologies from Upwork job postings:
%s

Generate 15 HIGHLY ORIGINAL portfolio project ideas that would:
1. Showcase the most in-demand skills and technologies identified in the analysis
2. Demonstrate technical expertise and problem-solving abilities
3. Be visually impressive and stand out to potential clients
4. Be practical to complete in a reasonable timeframe (1-4 weeks)
5. Highlight modern technologies and approaches

IMPORTANT CONSTRAINTS:
- DO NOT suggest any WordPress, PHP, or Laravel-related projects
- DO NOT suggest generic or common projects like "e-commerce site" or "blog platform"
- Each project must be highly original, creative, and specific
- Focus on projects that combine multiple in-demand skills in interesting ways
- Include a mix of difficulty levels (beginner, intermediate, advanced)
- Include projects that demonstrate both frontend and backend capabilities
- Projects should NOT directly match typical job postings but instead showcase the same skills

Make each project idea SPECIFIC and UNIQUE - not generic templates. For example, instead of "AI Chatbot",
suggest "Personalized Nutrition Coach AI that analyzes food photos and provides tailored advice".

Respond with an array of exactly 15 JSON objects, each containing:
- projectTitle: A clear, concise, creative title for the portfolio project
- projectDescription: Detailed description of what the project entails and its unique features (at least 3 sentences)
- relevantSkills: Array of at least 5 specific skills this project would showcase
- difficultyLevel: Must be exactly "Beginner", "Intermediate", or "Advanced"
- estimatedTimeToComplete: Estimated time to complete (e.g., "2-3 days", "1-2 weeks")
- whyRelevant: Explanation of why this project would impress clients and showcase abilities (at least 2 sentences)
- confidence: Number between 0 and 1 indicating confidence in this suggestion`

func analyzePrompt(count int, emailsJSON string) string {
	return fmt.Sprintf(analyzePromptTemplate, count, emailsJSON)
}

func generatePrompt(analysisJSON string) string {
	return fmt.Sprintf(generatePromptTemplate, analysisJSON)
}
