package interview

import (
	"fmt"
	"strings"

	"github.com/voxprep/go-interview/pkg/inference"
)

// Fixed instruction templates for the chat collaborator. The wording is
// part of the service contract: the parser and the evaluator both depend
// on the model following these instructions.
const (
	interviewerInstruction = "You are an expert interviewer."

	evaluatorInstruction = "You are a friendly and constructive interviewer. " +
		"For each question and answer pair, do the following:\n" +
		"- If the student gave no answer or 'No answer provided', politely say " +
		"'The question was not answered. Here is the correct answer:' and provide a medium-length correct answer.\n" +
		"- If the student's answer is incorrect or incomplete, politely say " +
		"'Your answer needs improvement. The correct answer is:' followed by the correct answer.\n" +
		"- If the answer is correct or good, give positive feedback.\n" +
		"Make the overall summary kind, helpful, and encouraging."
)

// questionListPrompt builds the question-generation request.
func questionListPrompt(topic, difficulty string, n int) []inference.Message {
	return []inference.Message{
		inference.NewSystemMessage(interviewerInstruction),
		inference.NewUserMessage(fmt.Sprintf(
			"Generate %d %s level interview questions for the topic '%s'. Number them 1 to %d.",
			n, difficulty, topic, n,
		)),
	}
}

// evaluationPrompt builds the feedback request from the ordered answer log.
func evaluationPrompt(answers []Answer) []inference.Message {
	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "Question %d: %s\nAnswer: %s\n\n", a.Number, a.Question, a.Answer)
	}

	return []inference.Message{
		inference.NewSystemMessage(evaluatorInstruction),
		inference.NewUserMessage(strings.TrimSpace(b.String())),
	}
}

// greetingFor returns the spoken/displayed greeting for a new interview.
func greetingFor(topic, difficulty string) string {
	return fmt.Sprintf("Hello! Welcome to your %s level mock interview for %s.", difficulty, topic)
}
