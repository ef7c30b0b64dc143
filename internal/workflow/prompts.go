package workflow

import (
	"fmt"
	"strings"

	"uniassist/internal/retrieval"
)

// routerPrompt builds the intent classification prompt. The current
// context serves as the continuation default.
func routerPrompt(query string, current University) string {
	return fmt.Sprintf(`You are a routing agent. Decide which university the user is talking about.
Possible universities: NUST, COMSATS, FAST.

Your task:
1. If the query clearly mentions NUST, COMSATS, or FAST, respond with that university name
2. If no university is mentioned and user intends to continue about %[1]s, respond with %[1]s
3. If user mentions multiple universities, respond with GENERAL
4. If user mentions another university (not NUST/COMSATS/FAST), respond with that university name
5. Otherwise respond with GENERAL

Examples:
- "what is the fee structure of this university?" -> %[1]s
- "which university has the best CS program?" -> GENERAL
- "tell me about bahria university" -> BAHRIA

User query: "%[2]s"

Respond with ONLY the university name or GENERAL:`, string(current), query)
}

// rewriterPrompt builds the query rewriting prompt used after a
// rejected answer.
func rewriterPrompt(query string, current University) string {
	return fmt.Sprintf(`You are a query optimization expert. Rewrite the user's question to make it more effective for searching university documents.

Context: The user is asking about %s university.

Rules:
1. Make vague questions more specific and searchable
2. If the query is generic (like "tell me about", "info about", "what is"), expand it to ask about key aspects: history, campuses, programs, facilities, rankings, etc.
3. If the query mentions "this university", "here", or uses pronouns, replace them with the actual university name
4. Keep technical terms and specific questions as they are
5. Output ONLY the rewritten question, nothing else

Original question: %s

Rewritten question:`, string(current), query)
}

// responderSystemPrompt instructs the model to answer strictly from
// the retrieved context and stay scoped to one institution.
func responderSystemPrompt(u University) string {
	name := string(u)
	return fmt.Sprintf(`You are a helpful university information assistant for %[1]s.
Your job is to answer student questions using the context provided from university documents.

Guidelines:
- Answer directly and comprehensively using the context
- If information is in the context, provide a complete answer
- Don't repeat information unnecessarily
- If the context lacks sufficient information, clearly state what's missing
- Be friendly and professional
- You are specifically helping with %[1]s, not other universities`, name)
}

// responderUserPrompt combines the formatted passage context with the
// question.
func responderUserPrompt(passages []retrieval.Passage, question string) string {
	var b strings.Builder
	b.WriteString("Context from university documents:\n")
	b.WriteString(retrieval.FormatContext(passages))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// generalPrompt answers from model knowledge, with the current context
// available as a continuation hint.
func generalPrompt(query string, current University) string {
	return fmt.Sprintf(`You are a knowledgeable assistant for university students. Answer the user's question directly, clearly and concisely.
If user mentions a specific university, provide relevant information about that university.
If user does not mention any university and intends to continue about %[1]s, provide information about %[1]s university.

Question: %[2]s

Answer:`, string(current), query)
}

// gatePrompt asks for a one-word verdict. The leniency note is part of
// the contract: minimally relevant answers must pass.
func gatePrompt(query, answer string) string {
	return fmt.Sprintf(`You are a quality evaluator. Rate the following answer based on:
1. Relevance to the question
2. Completeness
3. Clarity

Note: if the answer contains information related to query, even if minimal, it should be considered relevant and reply with YES.

Question: %s
Answer: %s

Respond with ONLY one word: YES or NO.`, query, answer)
}
