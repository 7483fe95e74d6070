package scoring

import "fmt"

func classificationPrompt(name string) string {
	return fmt.Sprintf(`You are an AI system designed to assist in resume screening.
Your task is to classify the given parameter into one of three categories:

1. Quantitative: A parameter measured numerically (e.g., years of experience, number of projects, GPA).
2. Boolean: A parameter whose answer is Yes or No; these usually begin with "has", "knows" or "is"
   (e.g., "Has AWS Certification?", "Knows DevOps?").
3. Textual: A parameter requiring knowledge evaluation, skill assessment or detailed analysis of the
   entire resume; these usually look for "knowledge", "proficiency" or "relevance"
   (e.g., "Proficiency in Python", "Knowledge in ML").

Instructions:
- Carefully analyze the parameter and determine the correct category.
- Answer with exactly one word: Quantitative, Boolean or Textual. Output nothing else.

Input Parameter: "%s"`, name)
}

func quantitativeQuestion(description string) string {
	return fmt.Sprintf("What is the %s? Return only the numerical value, with no additional words or symbols.", description)
}

func booleanQuestion(description string) string {
	return fmt.Sprintf("Does the candidate have %s? Answer with True or False only. "+
		"If the resume does not clearly show it, or you are uncertain, answer False.", description)
}

func textualEvaluationPrompt(description, resumeText string) string {
	return fmt.Sprintf(`You are an expert evaluator for an AI-powered recruitment system. Your task is to assess a
candidate's depth of knowledge in a specific textual parameter based on their resume.

Instructions:
1. Analyze the resume for detailed mentions of the evaluation parameter.
2. Look for indicators of depth, such as specific projects, work experience, research,
   publications, or advanced-level explanations.
3. Assign a score from 0.0 to 100.0, allowing values up to one decimal place.
4. Provide a justification for the assigned score, citing relevant parts of the resume.

Candidate Resume:
%s

Evaluation Parameter:
%s

Output Format:
Score: [0.0 - 100.0]
Justification: [A brief but clear explanation based on resume content]`, resumeText, description)
}

func textualScorePrompt(evaluation string) string {
	return evaluation + "\n\nBased on the given evaluation, what is the score? " +
		"Give only the numerical value with no additional words."
}
